// Command skillkit discovers agent skills and serves them as a single tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/skills"
	"github.com/jingkaihe/skillkit/pkg/tools"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "skillkit",
	Short: "Discover agent skills and expose them as a single tool",
	Long: `skillkit finds directories containing a SKILL.md file under the configured
skill directories and exposes them to an agent as one "skill" tool.

Skill directories can be given with --dir, the SKILLKIT_SKILLS_DIRECTORIES
environment variable, or the skills.directories key of skillkit.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := readConfig(cmd); err != nil {
			return err
		}
		if err := logger.Configure(viper.GetString("log_level"), viper.GetString("log_format")); err != nil {
			return err
		}
		return startTracing(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		return stopTracing(cmd.Context())
	},
}

func init() {
	viper.SetEnvPrefix(skills.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("skillkit")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.skillkit")

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default is ./skillkit.yaml or $HOME/.skillkit/skillkit.yaml)")
	flags.String("log-level", "info", "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", "fmt", "Log format (fmt or json)")
	flags.BoolP("quiet", "q", false, "Suppress informational output")
	flags.StringArrayP("dir", "d", nil, "Skill directory or directory of skills, may be repeated")
	flags.String("description-template", "", "Template for each skill in the tool description, e.g. '- {name}: {description}'")
	flags.StringArray("exclude", nil, "Glob pattern of directories to skip, relative to each skill directory, may be repeated")
	flags.StringSlice("allow", nil, "Only expose these skill names")

	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("quiet", flags.Lookup("quiet"))
	viper.BindPFlag("skills.directories", flags.Lookup("dir"))
	viper.BindPFlag("skills.description_template", flags.Lookup("description-template"))
	viper.BindPFlag("skills.exclude", flags.Lookup("exclude"))
	viper.BindPFlag("skills.allowed", flags.Lookup("allow"))

	rootCmd.AddCommand(
		withTracing(listCmd),
		withTracing(showCmd),
		withTracing(describeCmd),
		serveCmd,
		versionCmd,
	)
}

func readConfig(cmd *cobra.Command) error {
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// loadSkillTool builds the skill tool from the "skills" section of v
func loadSkillTool(ctx context.Context, v *viper.Viper) (*tools.SkillTool, error) {
	tool, _, err := loadSkillToolConfig(ctx, v)
	return tool, err
}

func loadSkillToolConfig(ctx context.Context, v *viper.Viper) (*tools.SkillTool, skills.Config, error) {
	cfg, err := skills.ConfigFromViper(v)
	if err != nil {
		return nil, cfg, err
	}
	tool, err := tools.NewSkillTool(ctx, cfg)
	return tool, cfg, err
}

// newPresenter writes to the command's streams and honours --quiet
func newPresenter(cmd *cobra.Command) *presenter.TerminalPresenter {
	p := presenter.NewWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr())
	p.SetQuiet(viper.GetBool("quiet"))
	return p
}

// warnUnknownAllowed reports allow-listed names that matched no skill
func warnUnknownAllowed(p presenter.Presenter, cfg skills.Config, tool *tools.SkillTool) {
	found := make(map[string]bool)
	for _, s := range tool.Skills() {
		found[s.Name] = true
	}
	for _, name := range cfg.Allowed {
		if !found[name] {
			p.Warning(fmt.Sprintf("allowed skill '%s' was not found", name))
		}
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		presenter.Error(err, "")
		cancel()
		os.Exit(1)
	}
}
