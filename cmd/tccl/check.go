package main

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.ast|directory]...",
	Short: "Run the semantic pass without writing listings",
	RunE:  runCheckCommand,
}

func init() {
	addBuildFlags(checkCmd)
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd.Context())

	s, err := resolveBuildSettings(cmd, args)
	if err != nil {
		return err
	}
	s.request.CheckOnly = true
	s.request.Cache = nil
	res, err := runBuild(cmd.Context(), "check", s)
	if err != nil {
		return err
	}
	return reportResults(cmd, s, res)
}
