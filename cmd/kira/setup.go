package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kira/internal/prof"
	"kira/internal/trace"
)

// runState lives for one command invocation.
type runState struct {
	config   fileConfig
	cleanups []func()
}

var state runState

func setupRun(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	state.config = cfg

	session, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	state.cleanups = append(state.cleanups, func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	})

	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	state.cleanups = append(state.cleanups, cleanup)
	return nil
}

// teardownRun runs cleanups in reverse order; calling it twice is harmless.
func teardownRun() {
	for i := len(state.cleanups) - 1; i >= 0; i-- {
		state.cleanups[i]()
	}
	state.cleanups = nil
}

func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return prof.Start(cfg)
}

// setupTracing attaches a tracer to the command context. Flags win over
// the [trace] table of kira.toml.
func setupTracing(cmd *cobra.Command, fileCfg traceConfig) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	output, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	if !flags.Changed("trace") && fileCfg.Output != "" {
		output = fileCfg.Output
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	if !flags.Changed("trace-level") && fileCfg.Level != "" {
		levelStr = fileCfg.Level
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	if !flags.Changed("trace-format") && fileCfg.Format != "" {
		formatStr = fileCfg.Format
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		return func() {}, nil
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{Level: level, Format: format, OutputPath: output})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	return func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}
