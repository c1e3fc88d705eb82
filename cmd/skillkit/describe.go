package main

import (
	"encoding/json"
	"fmt"

	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/tools"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the skill tool description",
	Long:  `Print the description an agent sees for the skill tool, optionally followed by its input schema.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		schema, _ := cmd.Flags().GetBool("schema")

		tool, cfg, err := loadSkillToolConfig(cmd.Context(), viper.GetViper())
		if err != nil {
			return err
		}

		p := newPresenter(cmd)
		warnUnknownAllowed(p, cfg, tool)
		return describeTool(p, tool, schema)
	},
}

func init() {
	describeCmd.Flags().Bool("schema", false, "Also print the JSON schema of the tool input")
}

func describeTool(p presenter.Presenter, tool *tools.SkillTool, withSchema bool) error {
	def := tools.NewDefinition(tool)
	out := fmt.Sprintf("%s\n\n%s", def.Name, def.Description)

	if withSchema {
		data, err := json.MarshalIndent(def.InputSchema, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal input schema")
		}
		out += fmt.Sprintf("\n%s\n", data)
	}

	return p.Raw(out)
}
