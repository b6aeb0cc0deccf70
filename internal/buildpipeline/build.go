// Package buildpipeline orchestrates multi-file builds: it compiles every
// input through the driver, writes the outputs and reports progress.
package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"kira/internal/diag"
	"kira/internal/driver"
)

// BuildRequest configures a build.
type BuildRequest struct {
	Files          []string
	Emit           driver.Emit
	Output         string // explicit output path, single input only
	OutDir         string // directory for outputs; defaults to next to each input
	Jobs           int
	MaxDiagnostics int
	Cache          *driver.DiskCache
	Progress       ProgressSink
}

// BuildResult captures build artefacts and timings.
type BuildResult struct {
	Outputs []string // in input order
	Timings Timings
	Files   []driver.FileResult
}

var phaseStages = map[string]Stage{
	driver.PhaseParse:   StageParse,
	driver.PhaseIRGen:   StageLower,
	driver.PhaseCodegen: StageCodegen,
}

// Build compiles every file and writes one output per input. On failure
// nothing is written for the failing file and the error is returned.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil || len(req.Files) == 0 {
		return result, fmt.Errorf("no input files")
	}
	if req.Output != "" && len(req.Files) > 1 {
		return result, fmt.Errorf("-o cannot be used with %d input files", len(req.Files))
	}
	if err := checkOutputCollisions(req); err != nil {
		return result, err
	}
	if req.OutDir != "" {
		if err := os.MkdirAll(req.OutDir, 0o750); err != nil {
			return result, fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	emitQueued(req.Progress, req.Files)
	var mu sync.Mutex
	opts := driver.Options{
		Emit:           req.Emit,
		MaxDiagnostics: req.MaxDiagnostics,
		Cache:          req.Cache,
		Observer: func(ev driver.PhaseEvent) {
			stage := phaseStages[ev.Name]
			switch {
			case ev.Status == driver.PhaseStart:
				emitStage(req.Progress, ev.File, stage, StatusWorking, nil, 0)
			case ev.Err != nil:
				emitStage(req.Progress, ev.File, stage, StatusError, ev.Err, ev.Elapsed)
			default:
				mu.Lock()
				result.Timings.Add(stage, ev.Elapsed)
				mu.Unlock()
			}
		},
	}

	files, err := driver.CompileFiles(ctx, req.Files, opts, req.Jobs)
	result.Files = files
	if err != nil {
		return result, err
	}

	for _, f := range files {
		start := time.Now()
		out := OutputPath(f.Path, req.Output, req.OutDir, req.Emit)
		emitStage(req.Progress, f.Path, StageWrite, StatusWorking, nil, 0)
		if err := os.WriteFile(out, []byte(f.Result.Output), 0o600); err != nil {
			err = &diag.Error{Code: diag.IOWriteFileError, Pos: out, Msg: diag.IOWriteFileError.Title(), Err: err}
			emitStage(req.Progress, f.Path, StageWrite, StatusError, err, 0)
			return result, err
		}
		elapsed := time.Since(start)
		result.Timings.Add(StageWrite, elapsed)
		emitStage(req.Progress, f.Path, StageWrite, StatusDone, nil, elapsed)
		result.Outputs = append(result.Outputs, out)
	}
	return result, nil
}

// OutputPath derives where the output for input goes.
func OutputPath(input, explicit, outDir string, emit driver.Emit) string {
	if explicit != "" {
		return explicit
	}
	if emit == "" {
		emit = driver.EmitRISCV
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + emit.Ext()
	if outDir != "" {
		return filepath.Join(outDir, base)
	}
	return filepath.Join(filepath.Dir(input), base)
}

// checkOutputCollisions rejects inputs that would write the same output file.
func checkOutputCollisions(req *BuildRequest) error {
	owners := make(map[string]string, len(req.Files))
	for _, in := range req.Files {
		out := filepath.Clean(OutputPath(in, req.Output, req.OutDir, req.Emit))
		if prev, ok := owners[out]; ok {
			return fmt.Errorf("%s and %s both write %s", prev, in, out)
		}
		owners[out] = in
	}
	return nil
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, f := range files {
		sink.OnEvent(Event{File: f, Stage: StageParse, Status: StatusQueued})
	}
}

func emitStage(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
