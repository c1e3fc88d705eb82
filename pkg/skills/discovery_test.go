package skills

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, SkillFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func discover(t *testing.T, opts ...Option) []*Skill {
	t.Helper()
	d, err := NewDiscovery(opts...)
	require.NoError(t, err)
	found, err := d.Discover(context.Background())
	require.NoError(t, err)
	return found
}

func names(skills []*Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, s.Name)
	}
	return out
}

func TestNewDiscovery(t *testing.T) {
	t.Run("requires at least one root", func(t *testing.T) {
		_, err := NewDiscovery()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRoot)
	})

	t.Run("resolves roots to absolute paths", func(t *testing.T) {
		tmpDir := t.TempDir()
		d, err := NewDiscovery(WithRoots(tmpDir))
		require.NoError(t, err)
		require.Len(t, d.Roots(), 1)
		assert.True(t, filepath.IsAbs(d.Roots()[0]))
	})

	t.Run("reports every missing root", func(t *testing.T) {
		tmpDir := t.TempDir()
		missing1 := filepath.Join(tmpDir, "missing-one")
		missing2 := filepath.Join(tmpDir, "missing-two")

		_, err := NewDiscovery(WithRoots(tmpDir, missing1, missing2))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRoot)
		assert.Contains(t, err.Error(), "missing-one")
		assert.Contains(t, err.Error(), "missing-two")
	})

	t.Run("rejects a file as root", func(t *testing.T) {
		tmpDir := t.TempDir()
		file := filepath.Join(tmpDir, "notes.txt")
		require.NoError(t, os.WriteFile(file, []byte("hi"), 0o644))

		_, err := NewDiscovery(WithRoots(file))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRoot)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("rejects invalid exclude pattern", func(t *testing.T) {
		_, err := NewDiscovery(WithRoots(t.TempDir()), WithExcludes("[unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid exclude pattern")
	})
}

func TestDiscover_SkillDirectoryAsRoot(t *testing.T) {
	tmpDir := t.TempDir()
	pdfDir := filepath.Join(tmpDir, "skills", "pdf")
	contentPath := writeSkill(t, pdfDir, "# PDF\n")

	found := discover(t, WithRoots(pdfDir))

	require.Len(t, found, 1)
	assert.Equal(t, "pdf", found[0].Name)
	assert.Equal(t, pdfDir, found[0].Directory)
	assert.Equal(t, contentPath, found[0].ContentPath)
}

func TestDiscover_ContainerWithSiblings(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"pdf", "pptx", "excel"} {
		writeSkill(t, filepath.Join(tmpDir, name), "# "+name+"\n")
	}

	found := discover(t, WithRoots(tmpDir))

	assert.Equal(t, []string{"excel", "pdf", "pptx"}, names(found))
}

func TestDiscover_NestedGroupings(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, filepath.Join(tmpDir, "documents", "pdf"), "pdf")
	writeSkill(t, filepath.Join(tmpDir, "documents", "word"), "word")
	writeSkill(t, filepath.Join(tmpDir, "data", "csv"), "csv")

	found := discover(t, WithRoots(tmpDir))

	assert.Equal(t, []string{"csv", "pdf", "word"}, names(found))
}

func TestDiscover_SkillDirectoryIsTerminal(t *testing.T) {
	tmpDir := t.TempDir()
	parent := filepath.Join(tmpDir, "office")
	writeSkill(t, parent, "office")
	writeSkill(t, filepath.Join(parent, "templates", "letter"), "letter")

	found := discover(t, WithRoots(tmpDir))

	assert.Equal(t, []string{"office"}, names(found))
}

func TestDiscover_MultipleRootsKeepRootOrder(t *testing.T) {
	tmpDir := t.TempDir()
	first := filepath.Join(tmpDir, "first")
	second := filepath.Join(tmpDir, "second")
	writeSkill(t, filepath.Join(first, "zeta"), "zeta")
	writeSkill(t, filepath.Join(second, "alpha"), "alpha")

	found := discover(t, WithRoots(first, second))

	assert.Equal(t, []string{"zeta", "alpha"}, names(found))
}

func TestDiscover_IgnoresNonSkillEntries(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, filepath.Join(tmpDir, "real"), "real")

	// SKILL.md as a directory does not make a skill
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "fake", SkillFileName), 0o755))
	// lowercase name is not the descriptor
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "lower"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "lower", "skill.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte("x"), 0o644))

	found := discover(t, WithRoots(tmpDir))

	assert.Equal(t, []string{"real"}, names(found))
}

func TestDiscover_EmptyContainer(t *testing.T) {
	found := discover(t, WithRoots(t.TempDir()))
	assert.Empty(t, found)
}

func TestDiscover_Excludes(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, filepath.Join(tmpDir, "pdf"), "pdf")
	writeSkill(t, filepath.Join(tmpDir, "node_modules", "pkg", "bundled"), "bundled")
	writeSkill(t, filepath.Join(tmpDir, "archive", "old"), "old")

	found := discover(t, WithRoots(tmpDir), WithExcludes("**/node_modules", "archive"))

	assert.Equal(t, []string{"pdf"}, names(found))
}

func TestDiscover_FollowsSymlinksOnce(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "root")
	writeSkill(t, filepath.Join(root, "pdf"), "pdf")

	external := filepath.Join(tmpDir, "external")
	writeSkill(t, filepath.Join(external, "csv"), "csv")
	require.NoError(t, os.Symlink(external, filepath.Join(root, "linked")))
	// a loop back to the root must not be walked twice
	require.NoError(t, os.Symlink(root, filepath.Join(root, "loop")))

	found := discover(t, WithRoots(root))

	assert.Equal(t, []string{"csv", "pdf"}, names(found))
}

func TestDiscover_SkipsUnreadableDirectories(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	tmpDir := t.TempDir()
	writeSkill(t, filepath.Join(tmpDir, "pdf"), "pdf")
	locked := filepath.Join(tmpDir, "locked")
	writeSkill(t, filepath.Join(locked, "hidden"), "hidden")
	require.NoError(t, os.Chmod(locked, 0o000))
	defer os.Chmod(locked, 0o755)

	found := discover(t, WithRoots(tmpDir))

	assert.Equal(t, []string{"pdf"}, names(found))
}

func TestDiscover_ReadsFrontmatterDescription(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, filepath.Join(tmpDir, "pdf"), `---
name: pdf-tools
description: Extract text and tables from PDF files
---

# PDF
`)
	writeSkill(t, filepath.Join(tmpDir, "plain"), "# No frontmatter\n")

	found := discover(t, WithRoots(tmpDir))

	require.Len(t, found, 2)
	assert.Equal(t, "pdf", found[0].Name, "name comes from the directory, not frontmatter")
	assert.Equal(t, "Extract text and tables from PDF files", found[0].Description)
	assert.Empty(t, found[1].Description)
}

func TestDiscover_CancelledContext(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, filepath.Join(tmpDir, "pdf"), "pdf")

	d, err := NewDiscovery(WithRoots(tmpDir))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = d.Discover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_RootRemovedAfterConstruction(t *testing.T) {
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "skills")
	writeSkill(t, filepath.Join(root, "pdf"), "pdf")

	d, err := NewDiscovery(WithRoots(root))
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(root))

	_, err = d.Discover(context.Background())
	assert.ErrorIs(t, err, ErrInvalidRoot)
}

func TestSkill_Content(t *testing.T) {
	tmpDir := t.TempDir()
	content := "---\nname: x\n---\n\n  body with trailing spaces  \n\n"
	path := writeSkill(t, filepath.Join(tmpDir, "x"), content)

	skill := &Skill{Name: "x", ContentPath: path}
	got, err := skill.Content()
	require.NoError(t, err)
	assert.Equal(t, content, got)

	missing := &Skill{Name: "gone", ContentPath: filepath.Join(tmpDir, "gone", SkillFileName)}
	_, err = missing.Content()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone")
}
