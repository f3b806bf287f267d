package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"constlit/internal/trace"
)

// setupTracing opens the tracer requested by --trace/--trace-level and
// attaches it to the command context. The returned cleanup closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	output, err := flags.GetString("trace")
	if err != nil {
		return nil, err
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, err
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, err
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace без уровня: по файлам
	if levelStr == "" && output != "" {
		level = trace.LevelFile
	}
	if level == trace.LevelOff {
		return func() {}, nil
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.Open(trace.Config{Level: level, Format: format, Path: output})
	if err != nil {
		return nil, err
	}
	log.Debugf("tracing at level %s to %q", level, output)
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	return func() {
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		}
	}, nil
}
