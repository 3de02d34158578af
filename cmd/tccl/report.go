package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"tccl/internal/buildpipeline"
	"tccl/internal/diag"
	"tccl/internal/diagfmt"
	"tccl/internal/source"
)

// fileBag returns the diagnostics to show for fr; failures outside the
// compiler proper are turned into diagnostics here.
func fileBag(fr buildpipeline.FileResult, maxDiagnostics int) *diag.Bag {
	var bag *diag.Bag
	if fr.Result != nil {
		bag = fr.Result.Bag
	} else {
		bag = diag.NewBag(maxDiagnostics)
	}
	if fr.Err == nil || (fr.Result != nil && fr.Result.Bag.HasErrors()) {
		return bag
	}
	var pathErr *fs.PathError
	code := diag.IODecodeASTError
	switch {
	case errors.Is(fr.Err, buildpipeline.ErrOutputConflict):
		code = diag.IOOutputConflict
	case fr.Result != nil:
		code = diag.IOWriteFileError
	case errors.As(fr.Err, &pathErr):
		code = diag.IOLoadFileError
	}
	extra := diag.NewBag(1)
	extra.Add(diag.NewError(code, source.Span{}, fr.Err.Error()))
	bag.Merge(extra)
	return bag
}

// reportResults prints diagnostics and returns errCompilation when any
// file failed.
func reportResults(cmd *cobra.Command, s *buildSettings, res buildpipeline.BuildResult) error {
	out := cmd.OutOrStdout()
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	sources := make([]diagfmt.Source, 0, len(res.Files))
	errorCount := 0
	for _, fr := range res.Files {
		bag := fileBag(fr, s.request.MaxDiagnostics)
		bag.Sort()
		errorCount += bag.ErrorCount()
		sources = append(sources, diagfmt.Source{Path: fr.Path, Bag: bag})
	}

	switch s.format {
	case "json":
		if err := diagfmt.JSON(out, sources, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     withNotes,
			Max:              s.request.MaxDiagnostics,
		}); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
	default:
		opts := diagfmt.PrettyOpts{Color: s.color, ShowNotes: withNotes, PathMode: diagfmt.PathModeRelative}
		for _, src := range sources {
			if err := diagfmt.Pretty(out, src.Path, src.Bag, opts); err != nil {
				return fmt.Errorf("failed to write diagnostics: %w", err)
			}
		}
		if !s.quiet {
			for _, fr := range res.Files {
				if fr.Output != "" {
					fmt.Fprintf(out, "wrote %s\n", fr.Output)
				}
			}
			fmt.Fprintln(out, diagfmt.Summary(errorCount, len(res.Files)))
		}
		if s.timings {
			printStageTimings(cmd.ErrOrStderr(), res.Timings)
		}
	}

	if res.Failed() > 0 {
		return errCompilation
	}
	return nil
}

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range buildpipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", stage, toMillis(timings.Duration(stage)))
	}
	fmt.Fprintf(out, "total %.1f ms\n", toMillis(timings.Sum()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
