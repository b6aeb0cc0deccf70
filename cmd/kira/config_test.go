package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"kira/internal/driver"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[build]
emit = "ir"
out_dir = "build"
jobs = 4

[trace]
level = "phase"
output = "-"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Build.Emit != "ir" || cfg.Build.Jobs != 4 {
		t.Fatalf("unexpected build config: %+v", cfg.Build)
	}
	if want := filepath.Join(dir, "build"); cfg.Build.OutDir != want {
		t.Fatalf("out_dir = %q, want %q", cfg.Build.OutDir, want)
	}
	if cfg.Trace.Level != "phase" || cfg.Trace.Output != "-" {
		t.Fatalf("unexpected trace config: %+v", cfg.Trace)
	}
	if cfg.Path != path {
		t.Fatalf("path = %q", cfg.Path)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad toml", "[build\n", "failed to parse TOML"},
		{"unknown key", "[build]\nfoo = 1\n", "unknown keys: build.foo"},
		{"bad emit", "[build]\nemit = \"x86\"\n", "[build].emit"},
		{"negative jobs", "[build]\njobs = -1\n", "[build].jobs"},
		{"bad ui", "[build]\nui = \"maybe\"\n", "[build].ui"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", "[trace].level"},
		{"bad format", "[trace]\nformat = \"xml\"\n", "[trace].format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := loadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}
	got, ok, err := findConfig(nested)
	if err != nil || !ok {
		t.Fatalf("findConfig: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("found %q, want %q", got, want)
	}
}

func newBuildTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "build"}
	addBuildFlags(cmd)
	cmd.PersistentFlags().Int("max-diagnostics", 100, "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := buildConfig{Emit: "ir", OutDir: "cfg-out", Jobs: 3, UI: "off"}

	req, ui, err := buildRequest(newBuildTestCmd(t), []string{"a.c"}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if req.Emit != driver.EmitIR || req.OutDir != "cfg-out" || req.Jobs != 3 || ui != "off" {
		t.Fatalf("config values not applied: %+v ui=%s", req, ui)
	}

	req, ui, err = buildRequest(newBuildTestCmd(t, "--emit=riscv", "--out-dir=flag-out", "--jobs=1", "--ui=on"), []string{"a.c"}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if req.Emit != driver.EmitRISCV || req.OutDir != "flag-out" || req.Jobs != 1 || ui != "on" {
		t.Fatalf("flags did not win: %+v ui=%s", req, ui)
	}
	if req.MaxDiagnostics != 100 {
		t.Fatalf("max diagnostics = %d", req.MaxDiagnostics)
	}
}

func TestBuildRequestRejects(t *testing.T) {
	if _, _, err := buildRequest(newBuildTestCmd(t, "-o", "x.S"), []string{"a.c", "b.c"}, buildConfig{}); err == nil {
		t.Fatal("expected error for -o with two inputs")
	}
	if _, _, err := buildRequest(newBuildTestCmd(t, "--emit=llvm"), []string{"a.c"}, buildConfig{}); err == nil {
		t.Fatal("expected error for unknown emit kind")
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected error")
	}
}

func TestQuietDisablesTUI(t *testing.T) {
	if uiModeOn.tui(true) {
		t.Fatal("quiet must disable the progress view")
	}
	if !uiModeOn.tui(false) || uiModeOff.tui(false) {
		t.Fatal("explicit modes ignored")
	}
}
