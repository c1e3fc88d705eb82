package skills

import (
	"github.com/pkg/errors"
)

var (
	// ErrSkillNotFound is returned when a skill name is not in the registry.
	ErrSkillNotFound = errors.New("skill not found")
	// ErrInvalidRoot is returned for a configured root that is missing or not a directory.
	ErrInvalidRoot = errors.New("invalid skill root")
	// ErrInvalidTemplate is returned when a description template cannot be parsed.
	ErrInvalidTemplate = errors.New("invalid description template")
	// ErrNoSkills is returned when the configured roots hold no skills at all.
	ErrNoSkills = errors.New("no skills found")
)

// IsNotFound reports whether err was caused by an unknown skill name
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSkillNotFound)
}
