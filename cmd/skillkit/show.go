package main

import (
	"context"
	"encoding/json"

	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/tools"
	"github.com/jingkaihe/skillkit/pkg/tools/renderers"
	tooltypes "github.com/jingkaihe/skillkit/pkg/types/tools"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type showResult struct {
	Result  tooltypes.StructuredToolResult `json:"result"`
	Content string                         `json:"content"`
}

var showCmd = &cobra.Command{
	Use:   "show <skill-name>",
	Short: "Print the SKILL.md of a skill",
	Long: `Print the SKILL.md of a skill exactly as the skill tool returns it.

Output formats:
  raw        the SKILL.md content (default)
  assistant  the content as an agent receives it
  json       the structured result together with the content

Examples:
  skillkit show pdf
  skillkit show pdf --summary -d ~/.skillkit/skills
  skillkit show pdf -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, _ := cmd.Flags().GetBool("summary")
		output, _ := cmd.Flags().GetString("output")

		tool, err := loadSkillTool(cmd.Context(), viper.GetViper())
		if err != nil {
			return err
		}

		return showSkill(cmd.Context(), newPresenter(cmd), tool, args[0], output, summary)
	},
}

func init() {
	showCmd.Flags().Bool("summary", false, "Print a one-line summary of the invocation after the content")
	showCmd.Flags().StringP("output", "o", "raw", "Output format (raw, assistant, json)")
}

// showSkill runs the tool the way an agent would and prints the result
func showSkill(ctx context.Context, p presenter.Presenter, tool *tools.SkillTool, name, output string, summary bool) error {
	parameters, err := json.Marshal(tools.SkillInput{SkillName: name})
	if err != nil {
		return errors.Wrap(err, "failed to encode skill input")
	}

	result := tools.RunTool(ctx, tool, string(parameters))
	if result.IsError() {
		return errors.New(result.GetError())
	}

	var content string
	switch output {
	case "raw", "":
		content = result.GetResult()
	case "assistant":
		content = result.AssistantFacing()
	case "json":
		data, err := json.MarshalIndent(showResult{
			Result:  result.StructuredData(),
			Content: result.GetResult(),
		}, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal JSON output")
		}
		content = string(data) + "\n"
	default:
		return errors.Errorf("unsupported output format %q (expected raw, assistant or json)", output)
	}

	if err := p.Raw(content); err != nil {
		return errors.Wrap(err, "failed to write skill content")
	}

	if summary {
		p.Separator()
		p.Info(renderers.NewRendererRegistry().Render(result.StructuredData()))
	}
	return nil
}
