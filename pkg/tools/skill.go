package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/skills"
	"github.com/jingkaihe/skillkit/pkg/telemetry"
	tooltypes "github.com/jingkaihe/skillkit/pkg/types/tools"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// SkillToolName is the name the skill tool is registered under
const SkillToolName = "skill"

const skillToolPreamble = `Load a skill into the conversation.

When users ask you to perform tasks, check if any of the available skills below can help complete the task more effectively. Skills provide specialized capabilities and domain knowledge.

# Usage
- Invoke this tool with the skill name only, e.g. "pdf" or "xlsx"
- The response is the full content of the skill's SKILL.md
- Files referenced by a skill live in its directory; read them with your file tools
- Only use skills listed in "Available Skills" below
- Do not invoke a skill that is already loaded in this conversation

## Available Skills

`

// SkillTool exposes discovered skills as a single tool. It holds no mutable
// state, so concurrent invocations are safe.
type SkillTool struct {
	registry    *skills.Registry
	description string
}

// SkillInput defines the input parameters for the skill tool
type SkillInput struct {
	SkillName string `json:"skill_name" jsonschema:"description=The skill name only such as pdf or xlsx"`
}

// SkillToolResult represents the result of a skill invocation
type SkillToolResult struct {
	skill   *skills.Skill
	content string
	err     string
}

// NewSkillTool discovers skills from cfg and builds the tool. Configuration
// problems, including an unusable template or finding no skills, are returned
// here rather than at invocation time.
func NewSkillTool(ctx context.Context, cfg skills.Config) (*SkillTool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	builder, err := skills.NewDescriptionBuilder(cfg.DescriptionTemplate)
	if err != nil {
		return nil, err
	}

	discovery, err := skills.NewDiscovery(
		skills.WithRoots(cfg.Directories...),
		skills.WithExcludes(cfg.Exclude...),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure skill discovery")
	}

	var found []*skills.Skill
	err = telemetry.WithSpan(ctx, "skills.discover", func(ctx context.Context) error {
		var err error
		found, err = discovery.Discover(ctx)
		telemetry.SetAttributes(ctx, attribute.Int("skills.discovered", len(found)))
		return err
	}, attribute.StringSlice("skills.roots", discovery.Roots()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to discover skills")
	}

	registry := skills.NewRegistry(ctx, found).Filter(cfg.Allowed)
	if registry.Len() == 0 {
		return nil, errors.Wrapf(skills.ErrNoSkills, "in directories: %s", strings.Join(discovery.Roots(), ", "))
	}

	logger.G(ctx).WithField("skills", registry.Names()).Info("skills loaded")

	return NewSkillToolFromRegistry(registry, builder), nil
}

// NewSkillToolFromRegistry builds the tool around an existing registry
func NewSkillToolFromRegistry(registry *skills.Registry, builder *skills.DescriptionBuilder) *SkillTool {
	var sb strings.Builder
	sb.WriteString(skillToolPreamble)
	if registry.Len() == 0 {
		sb.WriteString("Skills are currently not available.\n")
	} else {
		sb.WriteString(builder.RenderAll(registry.List()))
		sb.WriteString("\n")
	}

	return &SkillTool{
		registry:    registry,
		description: sb.String(),
	}
}

// Name returns the tool name
func (t *SkillTool) Name() string {
	return SkillToolName
}

// Description returns the tool description listing every available skill
func (t *SkillTool) Description() string {
	return t.description
}

// Skills returns the available skills in discovery order
func (t *SkillTool) Skills() []*skills.Skill {
	return t.registry.List()
}

// GenerateSchema generates the JSON schema for the tool's input
func (t *SkillTool) GenerateSchema() *jsonschema.Schema {
	return GenerateSchema[SkillInput]()
}

// ValidateInput validates the input parameters
func (t *SkillTool) ValidateInput(parameters string) error {
	input, err := parseSkillInput(parameters)
	if err != nil {
		return err
	}

	if _, err := t.registry.Get(input.SkillName); err != nil {
		return err
	}

	return nil
}

// TracingKVs returns tracing key-value pairs for observability
func (t *SkillTool) TracingKVs(parameters string) ([]attribute.KeyValue, error) {
	var input SkillInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return nil, err
	}

	return []attribute.KeyValue{
		attribute.String("skill_name", input.SkillName),
	}, nil
}

// Invoke returns the raw SKILL.md content of the named skill. Unknown names
// yield an error matching skills.ErrSkillNotFound.
func (t *SkillTool) Invoke(ctx context.Context, name string) (string, error) {
	_, content, err := t.load(ctx, name)
	return content, err
}

func (t *SkillTool) load(ctx context.Context, name string) (*skills.Skill, string, error) {
	skill, err := t.registry.Get(name)
	if err != nil {
		return nil, "", err
	}

	content, err := skill.Content()
	if err != nil {
		return nil, "", err
	}

	logger.G(ctx).WithField("skill", name).WithField("bytes", len(content)).Debug("skill loaded")
	return skill, content, nil
}

// Execute loads the requested skill and reports failures in the result
func (t *SkillTool) Execute(ctx context.Context, parameters string) tooltypes.ToolResult {
	input, err := parseSkillInput(parameters)
	if err != nil {
		return &SkillToolResult{err: err.Error()}
	}

	skill, content, err := t.load(ctx, input.SkillName)
	if err != nil {
		return &SkillToolResult{err: err.Error()}
	}

	return &SkillToolResult{skill: skill, content: content}
}

func parseSkillInput(parameters string) (SkillInput, error) {
	var input SkillInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return input, errors.Wrap(err, "invalid input")
	}

	input.SkillName = strings.TrimSpace(input.SkillName)
	if input.SkillName == "" {
		return input, errors.New("skill_name is required")
	}

	return input, nil
}

// GetResult returns the SKILL.md content
func (r *SkillToolResult) GetResult() string {
	return r.content
}

// GetError returns the error string
func (r *SkillToolResult) GetError() string {
	return r.err
}

// IsError returns true if there was an error
func (r *SkillToolResult) IsError() bool {
	return r.err != ""
}

// AssistantFacing returns the content to be fed to the LLM
func (r *SkillToolResult) AssistantFacing() string {
	return tooltypes.StringifyToolResult(r.content, r.err)
}

// StructuredData returns structured metadata for rendering
func (r *SkillToolResult) StructuredData() tooltypes.StructuredToolResult {
	result := tooltypes.StructuredToolResult{
		ToolName:  SkillToolName,
		Success:   !r.IsError(),
		Timestamp: time.Now(),
	}

	if r.IsError() {
		result.Error = r.err
		return result
	}

	result.Metadata = &tooltypes.SkillMetadata{
		SkillName:   r.skill.Name,
		Directory:   r.skill.Directory,
		ContentPath: r.skill.ContentPath,
		Size:        len(r.content),
	}

	return result
}
