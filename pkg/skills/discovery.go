package skills

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/pkg/errors"
)

// Discovery locates skill directories under a set of roots
type Discovery struct {
	roots    []string
	excludes []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithRoots sets the directories to search. Each root is either a skill
// directory itself or a container searched recursively for skills.
func WithRoots(roots ...string) Option {
	return func(d *Discovery) error {
		for _, root := range roots {
			expanded, err := expandHomePath(root)
			if err != nil {
				return err
			}
			abs, err := filepath.Abs(expanded)
			if err != nil {
				return errors.Wrapf(err, "failed to resolve skill directory %s", root)
			}
			d.roots = append(d.roots, abs)
		}
		return nil
	}
}

// WithExcludes prunes directories whose slash-separated path relative to
// their root matches any of the given doublestar patterns.
func WithExcludes(patterns ...string) Option {
	return func(d *Discovery) error {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return errors.Errorf("invalid exclude pattern %q", p)
			}
			d.excludes = append(d.excludes, p)
		}
		return nil
	}
}

// NewDiscovery creates a Discovery and checks that every root exists and is
// a directory. All bad roots are reported together.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	if len(d.roots) == 0 {
		return nil, errors.Wrap(ErrInvalidRoot, "at least one skill directory is required")
	}

	var result *multierror.Error
	for _, root := range d.roots {
		if err := checkRoot(root); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return d, nil
}

// Roots returns the absolute root paths in configured order
func (d *Discovery) Roots() []string {
	return append([]string(nil), d.roots...)
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrInvalidRoot, "%s does not exist", root)
		}
		return errors.Wrapf(ErrInvalidRoot, "%s: %v", root, err)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrInvalidRoot, "%s is not a directory", root)
	}
	return nil
}

// Discover walks every root and returns one Skill per directory that directly
// contains SKILL.md, in root order and then lexical depth-first order.
// A skill directory is terminal: its subdirectories are not searched.
func (d *Discovery) Discover(ctx context.Context) ([]*Skill, error) {
	ctx = logger.WithComponent(ctx, "skills.discovery")
	visited := make(map[string]struct{})

	var found []*Skill
	for _, root := range d.roots {
		skills, err := d.walk(ctx, root, visited)
		if err != nil {
			return nil, err
		}
		found = append(found, skills...)
	}

	logger.G(ctx).WithField("count", len(found)).Debug("skill discovery finished")
	return found, nil
}

// walk performs a depth-first search from root using an explicit stack
func (d *Discovery) walk(ctx context.Context, root string, visited map[string]struct{}) ([]*Skill, error) {
	log := logger.G(ctx).WithField("root", root)

	var found []*Skill
	stack := []string{root}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		resolved, err := filepath.EvalSymlinks(dir)
		if err != nil {
			if dir == root {
				return nil, errors.Wrapf(ErrInvalidRoot, "%s: %v", root, err)
			}
			log.WithError(err).WithField("dir", dir).Warn("skipping unresolvable directory")
			continue
		}
		if _, seen := visited[resolved]; seen {
			continue
		}
		visited[resolved] = struct{}{}

		if isSkillDir(dir) {
			found = append(found, newSkill(ctx, dir))
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == root {
				return nil, errors.Wrapf(ErrInvalidRoot, "failed to read %s: %v", root, err)
			}
			log.WithError(err).WithField("dir", dir).Warn("skipping unreadable directory")
			continue
		}

		// push in reverse so children pop in lexical order
		for i := len(entries) - 1; i >= 0; i-- {
			child := filepath.Join(dir, entries[i].Name())
			if !isDirEntry(entries[i], child) {
				continue
			}
			if d.excluded(root, child) {
				log.WithField("dir", child).Debug("excluded from skill discovery")
				continue
			}
			stack = append(stack, child)
		}
	}

	return found, nil
}

func (d *Discovery) excluded(root, dir string) bool {
	if len(d.excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range d.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isSkillDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, SkillFileName))
	return err == nil && info.Mode().IsRegular()
}

func isDirEntry(entry os.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func newSkill(ctx context.Context, dir string) *Skill {
	contentPath := filepath.Join(dir, SkillFileName)
	return &Skill{
		Name:        filepath.Base(dir),
		Directory:   dir,
		ContentPath: contentPath,
		Description: readSummary(ctx, contentPath),
	}
}
