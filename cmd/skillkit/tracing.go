package main

import (
	"context"

	"github.com/jingkaihe/skillkit/pkg/telemetry"
	"github.com/jingkaihe/skillkit/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer          = telemetry.Tracer("skillkit.cli")
	shutdownTracing telemetry.ShutdownFunc
)

func tracingConfig(v *viper.Viper) telemetry.Config {
	return telemetry.Config{
		Enabled:        v.GetBool("tracing.enabled"),
		ServiceName:    "skillkit",
		ServiceVersion: version.Get().Version,
		SamplerType:    v.GetString("tracing.sampler"),
		SamplerRatio:   v.GetFloat64("tracing.ratio"),
	}
}

func startTracing(cmd *cobra.Command) error {
	shutdown, err := telemetry.InitTracer(cmd.Context(), tracingConfig(viper.GetViper()))
	if err != nil {
		return err
	}
	shutdownTracing = shutdown
	return nil
}

func stopTracing(ctx context.Context) error {
	if shutdownTracing == nil {
		return nil
	}
	return shutdownTracing(context.WithoutCancel(ctx))
}

// withTracing wraps a command's RunE in a span named after the command
func withTracing(cmd *cobra.Command) *cobra.Command {
	originalRunE := cmd.RunE

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		attrs := []attribute.KeyValue{
			attribute.String("command.name", cmd.Name()),
			attribute.String("command.path", cmd.CommandPath()),
			attribute.Int("args.count", len(args)),
		}
		cmd.Flags().Visit(func(flag *pflag.Flag) {
			attrs = append(attrs, attribute.String("flag."+flag.Name, flag.Value.String()))
		})

		ctx, span := tracer.Start(cmd.Context(), "cli.command", trace.WithAttributes(attrs...))
		defer span.End()

		cmd.SetContext(ctx)

		err := originalRunE(cmd, args)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}

	return cmd
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Bool("tracing-enabled", false, "Enable OpenTelemetry tracing")
	flags.String("tracing-sampler", "ratio", "Tracing sampler type (always, never, ratio)")
	flags.Float64("tracing-ratio", 1, "Sampling ratio when using ratio sampler")

	viper.BindPFlag("tracing.enabled", flags.Lookup("tracing-enabled"))
	viper.BindPFlag("tracing.sampler", flags.Lookup("tracing-sampler"))
	viper.BindPFlag("tracing.ratio", flags.Lookup("tracing-ratio"))
}
