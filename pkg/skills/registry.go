package skills

import (
	"context"
	"strings"

	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Registry holds discovered skills keyed by name. It is built once and is
// read-only afterwards, so concurrent readers need no locking.
type Registry struct {
	byName  map[string]*Skill
	ordered []*Skill
}

// NewRegistry builds a registry from skills in discovery order. When two
// skills share a name the first one wins and the later one is dropped with a
// warning.
func NewRegistry(ctx context.Context, discovered []*Skill) *Registry {
	r := &Registry{
		byName: make(map[string]*Skill, len(discovered)),
	}

	for _, skill := range discovered {
		if existing, ok := r.byName[skill.Name]; ok {
			logger.G(ctx).WithFields(logrus.Fields{
				"skill":    skill.Name,
				"kept":     existing.Directory,
				"dropped":  skill.Directory,
				"strategy": "first-wins",
			}).Warn("duplicate skill name, keeping the first discovered")
			continue
		}
		r.byName[skill.Name] = skill
		r.ordered = append(r.ordered, skill)
	}

	return r
}

// Get returns the named skill or an error matching ErrSkillNotFound
func (r *Registry) Get(name string) (*Skill, error) {
	skill, ok := r.byName[name]
	if !ok {
		return nil, errors.Wrapf(ErrSkillNotFound, "unknown skill '%s'. Available skills: %s",
			name, strings.Join(r.Names(), ", "))
	}
	return skill, nil
}

// List returns the skills in discovery order
func (r *Registry) List() []*Skill {
	return append([]*Skill(nil), r.ordered...)
}

// Names returns the skill names in discovery order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ordered))
	for _, skill := range r.ordered {
		names = append(names, skill.Name)
	}
	return names
}

// Len returns the number of registered skills
func (r *Registry) Len() int {
	return len(r.ordered)
}

// Filter returns a registry holding only the allowed names, keeping discovery
// order. An empty allowlist returns r unchanged.
func (r *Registry) Filter(allowed []string) *Registry {
	if len(allowed) == 0 {
		return r
	}

	keep := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		keep[name] = struct{}{}
	}

	filtered := &Registry{byName: make(map[string]*Skill, len(allowed))}
	for _, skill := range r.ordered {
		if _, ok := keep[skill.Name]; ok {
			filtered.byName[skill.Name] = skill
			filtered.ordered = append(filtered.ordered, skill)
		}
	}
	return filtered
}
