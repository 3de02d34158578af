package main

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.ast|directory]...",
	Short: "Check syntax trees and write CIL listings",
	Long: `Check each syntax tree and write <out>/<name>.il for every file without errors.
Without arguments the sources of the nearest tccl.toml are built.`,
	RunE: runBuildCommand,
}

func init() {
	addBuildFlags(buildCmd)
	buildCmd.Flags().StringP("out", "o", "out", "output directory for .il listings")
	buildCmd.Flags().String("assembly", "", "assembly name (default: [package].name or the file name)")
	buildCmd.Flags().Int("maxstack", 0, "fixed .maxstack for every method (0=computed)")
	buildCmd.Flags().Bool("cache", false, "reuse listings from the disk cache")
	buildCmd.Flags().Bool("no-cache", false, "ignore [build].cache from tccl.toml")
}

func runBuildCommand(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd.Context())

	s, err := resolveBuildSettings(cmd, args)
	if err != nil {
		return err
	}
	if s.manifest == nil && !cmd.Flags().Changed("out") {
		s.request.OutputDir = "out"
	}
	if err := applyBuildOnlyFlags(cmd, s); err != nil {
		return err
	}
	res, err := runBuild(cmd.Context(), "build", s)
	if err != nil {
		return err
	}
	return reportResults(cmd, s, res)
}
