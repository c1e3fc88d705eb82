package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jingkaihe/skillkit/pkg/skills"
	tooltypes "github.com/jingkaihe/skillkit/pkg/types/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, skills.SkillFileName), []byte(content), 0o644))
}

func newTestTool(t *testing.T, cfg skills.Config) *SkillTool {
	t.Helper()
	tool, err := NewSkillTool(context.Background(), cfg)
	require.NoError(t, err)
	return tool
}

func TestNewSkillTool(t *testing.T) {
	t.Run("single skill directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		pdfDir := filepath.Join(tmpDir, "skills", "pdf")
		writeSkill(t, pdfDir, "# PDF\n")

		tool := newTestTool(t, skills.Config{Directories: []string{pdfDir}})

		require.Len(t, tool.Skills(), 1)
		assert.Equal(t, "pdf", tool.Skills()[0].Name)
	})

	t.Run("container with several skills", func(t *testing.T) {
		tmpDir := t.TempDir()
		for _, name := range []string{"pdf", "pptx", "excel"} {
			writeSkill(t, filepath.Join(tmpDir, name), name)
		}

		tool := newTestTool(t, skills.Config{Directories: []string{tmpDir}})

		var names []string
		for _, s := range tool.Skills() {
			names = append(names, s.Name)
		}
		assert.ElementsMatch(t, []string{"pdf", "pptx", "excel"}, names)
	})

	t.Run("no directories", func(t *testing.T) {
		_, err := NewSkillTool(context.Background(), skills.Config{})
		require.Error(t, err)
		assert.ErrorIs(t, err, skills.ErrInvalidRoot)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewSkillTool(context.Background(), skills.Config{
			Directories: []string{filepath.Join(t.TempDir(), "nope")},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, skills.ErrInvalidRoot)
	})

	t.Run("bad template fails before discovery", func(t *testing.T) {
		_, err := NewSkillTool(context.Background(), skills.Config{
			Directories:         []string{filepath.Join(t.TempDir(), "nope")},
			DescriptionTemplate: "{name} {purpose}",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, skills.ErrInvalidTemplate)
	})

	t.Run("no skills found", func(t *testing.T) {
		_, err := NewSkillTool(context.Background(), skills.Config{Directories: []string{t.TempDir()}})
		require.Error(t, err)
		assert.ErrorIs(t, err, skills.ErrNoSkills)
	})

	t.Run("allowlist removes every skill", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeSkill(t, filepath.Join(tmpDir, "pdf"), "pdf")

		_, err := NewSkillTool(context.Background(), skills.Config{
			Directories: []string{tmpDir},
			Allowed:     []string{"docx"},
		})
		assert.ErrorIs(t, err, skills.ErrNoSkills)
	})

	t.Run("duplicate names across roots keep the first", func(t *testing.T) {
		tmpDir := t.TempDir()
		first := filepath.Join(tmpDir, "a")
		second := filepath.Join(tmpDir, "b")
		writeSkill(t, filepath.Join(first, "excel"), "first excel")
		writeSkill(t, filepath.Join(second, "excel"), "second excel")

		tool := newTestTool(t, skills.Config{Directories: []string{first, second}})

		require.Len(t, tool.Skills(), 1)
		content, err := tool.Invoke(context.Background(), "excel")
		require.NoError(t, err)
		assert.Equal(t, "first excel", content)
	})
}

func TestSkillTool_Name(t *testing.T) {
	tool := NewSkillToolFromRegistry(skills.NewRegistry(context.Background(), nil), mustBuilder(t, ""))
	assert.Equal(t, "skill", tool.Name())
}

func mustBuilder(t *testing.T, template string) *skills.DescriptionBuilder {
	t.Helper()
	b, err := skills.NewDescriptionBuilder(template)
	require.NoError(t, err)
	return b
}

func TestSkillTool_Description(t *testing.T) {
	t.Run("with no skills", func(t *testing.T) {
		tool := NewSkillToolFromRegistry(skills.NewRegistry(context.Background(), nil), mustBuilder(t, ""))
		assert.Contains(t, tool.Description(), "Skills are currently not available")
	})

	t.Run("lists every skill with the default template", func(t *testing.T) {
		registry := skills.NewRegistry(context.Background(), []*skills.Skill{
			{Name: "pdf", Description: "Handle PDF files", Directory: "/skills/pdf"},
			{Name: "xlsx", Directory: "/skills/xlsx"},
		})
		tool := NewSkillToolFromRegistry(registry, mustBuilder(t, ""))

		desc := tool.Description()
		assert.Contains(t, desc, "## Available Skills")
		assert.Contains(t, desc, "### pdf")
		assert.Contains(t, desc, "Handle PDF files")
		assert.Contains(t, desc, "### xlsx")
		assert.Contains(t, desc, "Instructions for the xlsx skill.")
		assert.Contains(t, desc, "`/skills/xlsx`")
	})

	t.Run("custom template", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeSkill(t, filepath.Join(tmpDir, "documents", "pdf"), "pdf")
		writeSkill(t, filepath.Join(tmpDir, "data", "csv"), "csv")

		tool := newTestTool(t, skills.Config{
			Directories:         []string{tmpDir},
			DescriptionTemplate: "<skill>{name}</skill>",
		})

		assert.Contains(t, tool.Description(), "<skill>csv</skill>\n\n<skill>pdf</skill>\n")
	})
}

func TestSkillTool_GenerateSchema(t *testing.T) {
	tool := NewSkillToolFromRegistry(skills.NewRegistry(context.Background(), nil), mustBuilder(t, ""))
	schema := tool.GenerateSchema()

	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"skill_name"}, schema.Required)

	prop, ok := schema.Properties.Get("skill_name")
	require.True(t, ok)
	assert.Equal(t, "string", prop.Type)
	assert.NotEmpty(t, prop.Description)
}

func TestSkillTool_ValidateInput(t *testing.T) {
	registry := skills.NewRegistry(context.Background(), []*skills.Skill{{Name: "test"}})
	tool := NewSkillToolFromRegistry(registry, mustBuilder(t, ""))

	tests := []struct {
		name       string
		parameters string
		errMsg     string
	}{
		{name: "valid input", parameters: `{"skill_name": "test"}`},
		{name: "missing skill_name", parameters: `{}`, errMsg: "skill_name is required"},
		{name: "blank skill_name", parameters: `{"skill_name": "  "}`, errMsg: "skill_name is required"},
		{name: "unknown skill", parameters: `{"skill_name": "unknown"}`, errMsg: "unknown skill 'unknown'"},
		{name: "invalid JSON", parameters: `{invalid}`, errMsg: "invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tool.ValidateInput(tt.parameters)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSkillTool_Invoke(t *testing.T) {
	tmpDir := t.TempDir()
	content := "---\nname: pdf\ndescription: PDF tools\n---\n\n# PDF\n\nUse pdftotext.\n\n"
	writeSkill(t, filepath.Join(tmpDir, "pdf"), content)
	writeSkill(t, filepath.Join(tmpDir, "empty"), "")

	tool := newTestTool(t, skills.Config{Directories: []string{tmpDir}})

	t.Run("returns the exact file content", func(t *testing.T) {
		got, err := tool.Invoke(context.Background(), "pdf")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("empty SKILL.md is returned as-is", func(t *testing.T) {
		got, err := tool.Invoke(context.Background(), "empty")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown skill is a not found error", func(t *testing.T) {
		_, err := tool.Invoke(context.Background(), "docx")
		require.Error(t, err)
		assert.True(t, skills.IsNotFound(err))
		assert.Contains(t, err.Error(), "Available skills: empty, pdf")
	})

	t.Run("file removed after discovery", func(t *testing.T) {
		gone := filepath.Join(tmpDir, "gone")
		writeSkill(t, gone, "soon gone")
		tool := newTestTool(t, skills.Config{Directories: []string{gone}})
		require.NoError(t, os.RemoveAll(gone))

		_, err := tool.Invoke(context.Background(), "gone")
		require.Error(t, err)
		assert.False(t, skills.IsNotFound(err))
	})
}

func TestSkillTool_Execute(t *testing.T) {
	tmpDir := t.TempDir()
	pdfDir := filepath.Join(tmpDir, "pdf")
	writeSkill(t, pdfDir, "# PDF skill")
	tool := newTestTool(t, skills.Config{Directories: []string{tmpDir}})

	t.Run("success", func(t *testing.T) {
		result := tool.Execute(context.Background(), `{"skill_name": "pdf"}`)

		assert.False(t, result.IsError())
		assert.Equal(t, "# PDF skill", result.GetResult())
		assert.Equal(t, "<result>\n# PDF skill\n</result>\n", result.AssistantFacing())

		structured := result.StructuredData()
		assert.True(t, structured.Success)
		assert.Equal(t, "skill", structured.ToolName)

		var meta tooltypes.SkillMetadata
		require.True(t, tooltypes.ExtractMetadata(structured.Metadata, &meta))
		assert.Equal(t, "pdf", meta.SkillName)
		assert.Equal(t, pdfDir, meta.Directory)
		assert.Equal(t, len("# PDF skill"), meta.Size)
	})

	t.Run("unknown skill", func(t *testing.T) {
		result := tool.Execute(context.Background(), `{"skill_name": "docx"}`)

		assert.True(t, result.IsError())
		assert.Contains(t, result.GetError(), "skill not found")
		assert.Contains(t, result.AssistantFacing(), "<error>")
		assert.False(t, result.StructuredData().Success)
		assert.Nil(t, result.StructuredData().Metadata)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		result := tool.Execute(context.Background(), `not json`)
		assert.True(t, result.IsError())
		assert.Contains(t, result.GetError(), "invalid input")
	})
}

func TestSkillTool_TracingKVs(t *testing.T) {
	tool := NewSkillToolFromRegistry(skills.NewRegistry(context.Background(), nil), mustBuilder(t, ""))

	kvs, err := tool.TracingKVs(`{"skill_name": "pdf"}`)
	require.NoError(t, err)
	require.Len(t, kvs, 1)
	assert.Equal(t, "skill_name", string(kvs[0].Key))
	assert.Equal(t, "pdf", kvs[0].Value.AsString())

	_, err = tool.TracingKVs(`{`)
	assert.Error(t, err)
}

func TestSkillTool_ConcurrentInvocations(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"pdf", "csv"} {
		writeSkill(t, filepath.Join(tmpDir, name), "content of "+name)
	}
	tool := newTestTool(t, skills.Config{Directories: []string{tmpDir}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		name := "pdf"
		if i%2 == 0 {
			name = "csv"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			params, _ := json.Marshal(SkillInput{SkillName: name})
			result := tool.Execute(context.Background(), string(params))
			assert.Equal(t, "content of "+name, result.GetResult())
		}()
	}
	wg.Wait()
}
