package main

import (
	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/mcp"
	"github.com/jingkaihe/skillkit/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the skill tool over MCP on stdio",
	Long: `Serve the skill tool to a Model Context Protocol client over stdin and stdout.

Logs are written to stderr. The server stops when stdin is closed or on Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// stdout carries the protocol
		logger.SetLogOutput(cmd.ErrOrStderr())
		ctx := logger.WithComponent(cmd.Context(), "mcp")

		tool, err := loadSkillTool(ctx, viper.GetViper())
		if err != nil {
			return err
		}

		s, err := mcp.NewServer(tool, version.Get().Version)
		if err != nil {
			return err
		}

		logger.G(ctx).WithField("skills", len(tool.Skills())).Info("serving skill tool over stdio")
		return mcp.Serve(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}
