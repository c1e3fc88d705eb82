// Package skills discovers Agent Skill directories on disk. A skill is any
// directory that directly contains a SKILL.md file; its name is the name of
// that directory. The SKILL.md content is treated as opaque text.
package skills

import (
	"os"

	"github.com/pkg/errors"
)

// SkillFileName is the descriptor file that marks a directory as a skill.
const SkillFileName = "SKILL.md"

// Skill represents a discovered skill
type Skill struct {
	Name        string // Name of the directory containing SKILL.md
	Directory   string // Absolute path to the skill directory
	ContentPath string // Absolute path to SKILL.md
	Description string // Optional summary from frontmatter, may be empty
}

// Content reads the SKILL.md file and returns it verbatim
func (s *Skill) Content() (string, error) {
	data, err := os.ReadFile(s.ContentPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s for skill '%s'", SkillFileName, s.Name)
	}
	return string(data), nil
}
