package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"kira/internal/buildpipeline"
	"kira/internal/driver"
	"kira/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] FILE...",
	Short: "Compile SysY files to RISC-V assembly",
	Long:  "Build compiles every input file independently and writes one output per input.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().String("emit", "riscv", "output kind (riscv|ir)")
	cmd.Flags().StringP("output", "o", "", "output file (single input only)")
	cmd.Flags().String("out-dir", "", "directory for output files")
	cmd.Flags().Int("jobs", 0, "max parallel compilations (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("cache", false, "reuse outputs of unchanged inputs from the user cache directory")
}

func runBuild(cmd *cobra.Command, args []string) error {
	req, uiValue, err := buildRequest(cmd, args, state.config.Build)
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	useTUI := mode.tui(quiet)
	var res buildpipeline.BuildResult
	if useTUI {
		res, err = runBuildWithUI(cmd.Context(), "kira build", req)
	} else {
		res, err = buildpipeline.Build(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	if !quiet && !useTUI {
		for _, out := range res.Outputs {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		}
	}
	return printTimings(cmd, res)
}

// buildRequest merges flags over the [build] table; an explicitly set flag
// always wins.
func buildRequest(cmd *cobra.Command, args []string, cfg buildConfig) (*buildpipeline.BuildRequest, string, error) {
	flags := cmd.Flags()
	emitValue, err := flags.GetString("emit")
	if err != nil {
		return nil, "", err
	}
	if !flags.Changed("emit") && cfg.Emit != "" {
		emitValue = cfg.Emit
	}
	emit, err := driver.ParseEmit(strings.TrimSpace(emitValue))
	if err != nil {
		return nil, "", err
	}
	output, err := flags.GetString("output")
	if err != nil {
		return nil, "", err
	}
	outDir, err := flags.GetString("out-dir")
	if err != nil {
		return nil, "", err
	}
	if !flags.Changed("out-dir") && cfg.OutDir != "" {
		outDir = cfg.OutDir
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, "", err
	}
	if !flags.Changed("jobs") && cfg.Jobs > 0 {
		jobs = cfg.Jobs
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return nil, "", err
	}
	if !flags.Changed("ui") && cfg.UI != "" {
		uiValue = cfg.UI
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	useCache, err := flags.GetBool("cache")
	if err != nil {
		return nil, "", err
	}
	if !flags.Changed("cache") && cfg.Cache {
		useCache = true
	}
	var cache *driver.DiskCache
	if useCache {
		if cache, err = driver.OpenDiskCache("kira"); err != nil {
			return nil, "", fmt.Errorf("failed to open cache: %w", err)
		}
	}
	if output != "" && len(args) > 1 {
		return nil, "", fmt.Errorf("-o cannot be used with %d input files", len(args))
	}
	return &buildpipeline.BuildRequest{
		Files:          args,
		Emit:           emit,
		Output:         output,
		OutDir:         outDir,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Cache:          cache,
	}, uiValue, nil
}

type buildOutcome struct {
	result buildpipeline.BuildResult
	err    error
}

func runBuildWithUI(ctx context.Context, title string, req *buildpipeline.BuildRequest) (buildpipeline.BuildResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Build(ctx, &reqCopy)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.Files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// дочитываем события, если UI вышел раньше
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

func printTimings(cmd *cobra.Command, res buildpipeline.BuildResult) error {
	flags := cmd.Root().PersistentFlags()
	show, err := flags.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !show {
		return nil
	}
	format, err := flags.GetString("timings-format")
	if err != nil {
		return fmt.Errorf("failed to get timings-format flag: %w", err)
	}
	out := cmd.ErrOrStderr()
	asJSON := format == "json"
	for _, f := range res.Files {
		if f.Result == nil {
			continue
		}
		fmt.Fprint(out, driver.FormatTimings(f.Path, f.Result.Timing, asJSON))
	}
	if !asJSON {
		printStageTimings(out, res.Timings)
	}
	return nil
}

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	for _, stage := range []buildpipeline.Stage{buildpipeline.StageParse, buildpipeline.StageLower, buildpipeline.StageCodegen, buildpipeline.StageWrite} {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%s %.1f ms\n", stage, toMillis(timings.Duration(stage)))
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
