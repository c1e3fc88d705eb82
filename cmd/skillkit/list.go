package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/skills"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type skillEntry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Directory   string `json:"directory" yaml:"directory"`
	ContentPath string `json:"contentPath" yaml:"contentPath"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered skills",
	Long: `List every skill found under the configured directories, in discovery order.

Use --output json or --output yaml for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, _ := cmd.Flags().GetString("output")

		tool, cfg, err := loadSkillToolConfig(cmd.Context(), viper.GetViper())
		if err != nil {
			return err
		}

		p := newPresenter(cmd)
		warnUnknownAllowed(p, cfg, tool)
		return writeSkillList(p, tool.Skills(), output)
	},
}

func init() {
	listCmd.Flags().StringP("output", "o", "table", "Output format (table, json, yaml)")
}

func writeSkillList(p presenter.Presenter, found []*skills.Skill, output string) error {
	entries := make([]skillEntry, 0, len(found))
	for _, s := range found {
		entries = append(entries, skillEntry{
			Name:        s.Name,
			Description: s.Description,
			Directory:   s.Directory,
			ContentPath: s.ContentPath,
		})
	}

	var buf bytes.Buffer
	switch output {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal JSON output")
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return errors.Wrap(err, "failed to marshal YAML output")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, "failed to marshal YAML output")
		}
	case "table", "":
		p.Section(fmt.Sprintf("Skills (%d)", len(entries)))
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDIRECTORY\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t---------\t-----------")
		for _, e := range entries {
			description := e.Description
			if r := []rune(description); len(r) > 60 {
				description = string(r[:57]) + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Directory, description)
		}
		if err := tw.Flush(); err != nil {
			return errors.Wrap(err, "failed to format table")
		}
	default:
		return errors.Errorf("unsupported output format %q (expected table, json or yaml)", output)
	}

	return p.Raw(buf.String())
}
