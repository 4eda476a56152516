package skills

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// NoSkillsFoundError is returned when a scan finds no skill in any layout.
type NoSkillsFoundError struct {
	Root string
}

func (e *NoSkillsFoundError) Error() string {
	return fmt.Sprintf("no skills found under %s (looked for SKILL.md, skills/SKILL.md and hooks/ layouts)", e.Root)
}

// IsNoSkillsFound reports whether err is, or wraps, a NoSkillsFoundError.
func IsNoSkillsFound(err error) bool {
	var target *NoSkillsFoundError
	return errors.As(err, &target)
}

// NotFoundError is returned when requested skill names or patterns match
// none of the discovered skills.
type NotFoundError struct {
	Names     []string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("skill(s) not found: %s (available: %s)",
		strings.Join(e.Names, ", "), strings.Join(e.Available, ", "))
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
