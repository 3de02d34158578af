package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tccl/internal/buildpipeline"
	"tccl/internal/driver"
)

// buildSettings are the resolved flag and manifest values shared by build
// and check.
type buildSettings struct {
	request  buildpipeline.BuildRequest
	format   string
	quiet    bool
	timings  bool
	color    bool
	ui       uiMode
	manifest *projectManifest
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostic output format (pretty|json)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

// resolveBuildSettings merges tccl.toml (when found) with flags. Explicit
// flags win over manifest values.
func resolveBuildSettings(cmd *cobra.Command, args []string) (*buildSettings, error) {
	s := &buildSettings{}
	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	var err error
	if s.format, err = flags.GetString("format"); err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	if s.format != "pretty" && s.format != "json" {
		return nil, fmt.Errorf("unknown format %q (expected pretty|json)", s.format)
	}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.color, err = useColor(cmd); err != nil {
		return nil, err
	}
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	manifest, _, err := loadProjectManifest(cwd)
	if err != nil {
		return nil, err
	}
	s.manifest = manifest

	req := &s.request
	req.MaxDiagnostics = maxDiagnostics
	req.EnableTimings = s.timings
	req.Jobs = jobs

	inputs := args
	if manifest != nil {
		cfg := manifest.Config
		req.AssemblyName = cfg.Package.Name
		req.OutputDir = manifest.outDir()
		req.MaxStack = cfg.Build.MaxStack
		if !flags.Changed("jobs") {
			req.Jobs = cfg.Build.Jobs
		}
		if len(inputs) == 0 {
			inputs = manifest.sources()
		}
		if cfg.Build.Cache {
			if req.Cache, err = driver.OpenDiskCache("tccl"); err != nil {
				return nil, fmt.Errorf("failed to open disk cache: %w", err)
			}
		}
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input files and no %s found", manifestName)
	}
	if req.Files, err = driver.ExpandPaths(inputs); err != nil {
		return nil, err
	}
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("no %s files found in %v", driver.FileExt, inputs)
	}
	return s, nil
}

// applyBuildOnlyFlags reads the flags that only build defines.
func applyBuildOnlyFlags(cmd *cobra.Command, s *buildSettings) error {
	flags := cmd.Flags()
	if flags.Changed("out") {
		out, err := flags.GetString("out")
		if err != nil {
			return fmt.Errorf("failed to get out flag: %w", err)
		}
		s.request.OutputDir = out
	}
	if flags.Changed("assembly") {
		name, err := flags.GetString("assembly")
		if err != nil {
			return fmt.Errorf("failed to get assembly flag: %w", err)
		}
		s.request.AssemblyName = name
	}
	if flags.Changed("maxstack") {
		maxStack, err := flags.GetInt("maxstack")
		if err != nil {
			return fmt.Errorf("failed to get maxstack flag: %w", err)
		}
		if maxStack < 0 {
			return fmt.Errorf("--maxstack must not be negative")
		}
		s.request.MaxStack = maxStack
	}
	cache, err := flags.GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	switch {
	case noCache:
		s.request.Cache = nil
	case cache && s.request.Cache == nil:
		if s.request.Cache, err = driver.OpenDiskCache("tccl"); err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}
	return nil
}
