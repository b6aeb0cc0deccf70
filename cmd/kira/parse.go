package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"kira/internal/ast"
	"kira/internal/diagfmt"
	"kira/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] FILE",
	Short: "Parse a SysY file and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("diagnostics", "pretty", "diagnostics format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	diagFormat, err := cmd.Flags().GetString("diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get diagnostics flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(args[0], maxDiagnostics)
	if err != nil {
		return err
	}
	if result.Bag.Len() > 0 {
		switch diagFormat {
		case "json":
			if err := diagfmt.JSON(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.JSONOpts{IncludePositions: true}); err != nil {
				return err
			}
		default:
			diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
				Color:   useColor(cmd, errFile(cmd)),
				Context: 1,
				Notes:   true,
			})
		}
		if result.Bag.HasErrors() {
			return fmt.Errorf("%s: parsing failed", args[0])
		}
	}

	_, err = io.WriteString(cmd.OutOrStdout(), ast.Dump(result.Builder, result.Program))
	return err
}

// errFile returns the command's stderr when it is a real file, for terminal
// detection.
func errFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		return f
	}
	return os.Stderr
}

func outFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f
	}
	return os.Stdout
}
