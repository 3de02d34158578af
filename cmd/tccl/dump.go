package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tccl/internal/ast"
	"tccl/internal/diag"
	"tccl/internal/diagfmt"
	"tccl/internal/driver"
	"tccl/internal/sema"
	"tccl/internal/trace"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <file.ast>",
	Short: "Print a syntax tree, optionally with its decorations",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().Bool("decorate", false, "run the semantic pass before printing")
}

func runDump(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd.Context())

	decorate, err := cmd.Flags().GetBool("decorate")
	if err != nil {
		return fmt.Errorf("failed to get decorate flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	color, err := useColor(cmd)
	if err != nil {
		return err
	}

	root, err := driver.LoadFile(args[0])
	if err != nil {
		return err
	}
	bag := diag.NewBag(maxDiagnostics)
	if decorate {
		sema.Check(root, sema.Options{
			Reporter: diag.BagReporter{Bag: bag},
			Tracer:   trace.FromContext(cmd.Context()),
		})
	}
	if err := ast.Dump(cmd.OutOrStdout(), root); err != nil {
		return fmt.Errorf("failed to dump tree: %w", err)
	}
	if bag.Len() == 0 {
		return nil
	}
	if err := diagfmt.Pretty(cmd.ErrOrStderr(), args[0], bag, diagfmt.PrettyOpts{Color: color}); err != nil {
		return err
	}
	return errCompilation
}
