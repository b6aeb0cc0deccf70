// Command kira compiles SysY sources to RISC-V 32 assembly.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"kira/internal/diag"
	"kira/internal/diagfmt"
	"kira/internal/version"
)

var rootCmd = &cobra.Command{
	Use:               "kira",
	Short:             "SysY to RISC-V compiler",
	Long:              `Kira compiles SysY source files to RISC-V 32 assembly or to textual IR`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	PersistentPostRun: func(*cobra.Command, []string) { teardownRun() },
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("timings-format", "text", "timings output format (text|json)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect")
	pf.String("config", "", "path to kira.toml (default: search upward from the working directory)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	err := rootCmd.ExecuteContext(context.Background())
	teardownRun()
	if err != nil {
		printError(os.Stderr, err, useColor(rootCmd, os.Stderr))
		os.Exit(1)
	}
}

// printError prints one line per failure, error[CODE] style for compiler errors.
func printError(w io.Writer, err error, color bool) {
	var de *diag.Error
	if errors.As(err, &de) {
		diagfmt.PrettyError(w, de, diagfmt.PrettyOpts{Color: color})
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch colorFlag {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
