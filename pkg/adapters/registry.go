package adapters

import (
	"sort"
	"strings"
	"sync"
)

var (
	registry     = make(map[string]Adapter)
	registryLock sync.RWMutex
)

// Register adds an adapter to the registry, replacing any adapter with the
// same name.
func Register(a Adapter) {
	registryLock.Lock()
	defer registryLock.Unlock()
	registry[a.Name()] = a
}

// Get retrieves an adapter by name. Names are case-insensitive.
func Get(name string) (Adapter, error) {
	registryLock.RLock()
	defer registryLock.RUnlock()

	a, ok := registry[normalize(name)]
	if !ok {
		return nil, &UnknownAdapterError{Names: []string{name}, Available: namesLocked()}
	}
	return a, nil
}

// Resolve looks up every name, dropping duplicates and keeping order. All
// unknown names are reported together.
func Resolve(names []string) ([]Adapter, error) {
	var (
		resolved []Adapter
		unknown  []string
		seen     = make(map[string]bool)
	)

	for _, name := range names {
		key := normalize(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		a, err := Get(key)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		resolved = append(resolved, a)
	}

	if len(unknown) > 0 {
		return nil, &UnknownAdapterError{Names: unknown, Available: Names()}
	}
	return resolved, nil
}

// Names returns all registered adapter names in sorted order.
func Names() []string {
	registryLock.RLock()
	defer registryLock.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered adapter, sorted by name.
func All() []Adapter {
	registryLock.RLock()
	defer registryLock.RUnlock()

	all := make([]Adapter, 0, len(registry))
	for _, name := range namesLocked() {
		all = append(all, registry[name])
	}
	return all
}

// Detected returns the adapters whose CLI appears to be installed.
func Detected(env Env) []Adapter {
	var found []Adapter
	for _, a := range All() {
		if a.Detect(env) {
			found = append(found, a)
		}
	}
	return found
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
