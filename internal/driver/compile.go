package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kira/internal/backend/riscv"
	"kira/internal/diag"
	"kira/internal/ir"
	"kira/internal/irgen"
	"kira/internal/layout"
	"kira/internal/observ"
	"kira/internal/source"
	"kira/internal/trace"
	"kira/internal/version"
)

// Emit selects what Compile produces.
type Emit string

const (
	// EmitRISCV produces RISC-V 32 assembly.
	EmitRISCV Emit = "riscv"
	// EmitIR produces the textual IR dump.
	EmitIR Emit = "ir"
)

// ParseEmit validates an --emit value.
func ParseEmit(s string) (Emit, error) {
	switch Emit(s) {
	case EmitRISCV, EmitIR:
		return Emit(s), nil
	case "":
		return EmitRISCV, nil
	}
	return "", fmt.Errorf("unknown emit kind %q (want riscv or ir)", s)
}

// Ext is the default output file extension for e.
func (e Emit) Ext() string {
	if e == EmitIR {
		return ".koopa"
	}
	return ".S"
}

// Options configure one compilation.
type Options struct {
	Emit           Emit
	MaxDiagnostics int
	Target         layout.Target // zero value means RV32
	Observer       PhaseObserver
	Cache          *DiskCache // nil disables output caching
}

// Result is a successful compilation.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Module  *ir.Module
	Output  string
	Timing  observ.Report
	Cached  bool // Output came from the disk cache; Module is nil
}

// Compile runs the whole pipeline over one file on disk.
func Compile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, loadError(path, err)
	}
	return compileFile(ctx, fs, fs.Get(fileID), opts)
}

// CompileSource compiles an in-memory source registered under name.
func CompileSource(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return compileFile(ctx, fs, fs.Get(fileID), opts)
}

// compileFile is single threaded and fail-fast: the first error from any
// phase aborts the compilation and no partial output is returned.
func compileFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) (*Result, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "compile")
	span.WithExtra("file", file.Path)
	defer span.End("")

	if opts.Target.WordSize == 0 {
		opts.Target = layout.RV32()
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	if opts.Emit == "" {
		opts.Emit = EmitRISCV
	}
	timer := observ.NewTimer()
	res := &Result{FileSet: fs, File: file}

	var key Digest
	if opts.Cache != nil {
		key = CacheKey(file.Content, opts.Emit, opts.Target)
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			span.WithExtra("cache", err.Error())
		}
		if hit {
			span.WithExtra("cache", "hit")
			res.Output = payload.Output
			res.Cached = true
			res.Timing = timer.Report()
			return res, nil
		}
	}

	var parsed *ParseResult
	err := opts.phase(ctx, timer, file.Path, PhaseParse, func(context.Context) error {
		var err error
		if parsed, err = parseFile(fs, file, opts.MaxDiagnostics); err != nil {
			return err
		}
		return bagError(fs, parsed.Bag)
	})
	if err != nil {
		return nil, err
	}

	err = opts.phase(ctx, timer, file.Path, PhaseIRGen, func(ctx context.Context) error {
		m, err := irgen.Generate(ctx, parsed.Builder, parsed.Program)
		if err != nil {
			return irgenError(fs, err)
		}
		res.Module = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = opts.phase(ctx, timer, file.Path, PhaseCodegen, func(context.Context) error {
		if opts.Emit == EmitIR {
			res.Output = res.Module.String()
			return nil
		}
		asm, err := riscv.EmitModule(res.Module, opts.Target)
		if err != nil {
			return fmt.Errorf("codegen: %w", err)
		}
		res.Output = asm
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Timing = timer.Report()
	if opts.Cache != nil {
		err := opts.Cache.Put(key, &DiskPayload{
			Version: version.Version,
			Emit:    string(opts.Emit),
			Triple:  opts.Target.Triple,
			Path:    file.Path,
			Output:  res.Output,
			Created: time.Now().UnixNano(),
		})
		if err != nil {
			span.WithExtra("cache", err.Error())
		}
	}
	return res, nil
}

// phase runs fn as a named timed phase with its own trace span and
// observer notifications.
func (opts Options) phase(ctx context.Context, timer *observ.Timer, file, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	span, ctx := trace.StartSpan(ctx, trace.ScopePass, name)
	if opts.Observer != nil {
		opts.Observer(PhaseEvent{File: file, Name: name, Status: PhaseStart})
	}
	start := time.Now()
	err := timer.Measure(name, func() error { return fn(ctx) })
	elapsed := time.Since(start)
	if opts.Observer != nil {
		opts.Observer(PhaseEvent{File: file, Name: name, Status: PhaseEnd, Err: err, Elapsed: elapsed})
	}
	if err != nil {
		span.End("failed")
		return err
	}
	span.End("")
	return nil
}

func loadError(path string, err error) error {
	return &diag.Error{Code: diag.IOLoadFileError, Pos: path, Msg: diag.IOLoadFileError.Title(), Err: err}
}

// bagError turns the first error diagnostic into a fatal error.
func bagError(fs *source.FileSet, bag *diag.Bag) error {
	d, ok := bag.FirstError()
	if !ok {
		return nil
	}
	return &diag.Error{Code: d.Code, Pos: fs.Position(d.Primary), Msg: d.Message}
}

func irgenError(fs *source.FileSet, err error) error {
	var ge *irgen.Error
	if !errors.As(err, &ge) {
		return err
	}
	return &diag.Error{Code: ge.Kind.Code(), Pos: fs.Position(ge.Span), Msg: ge.Error(), Err: err}
}
