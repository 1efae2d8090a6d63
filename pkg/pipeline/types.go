package pipeline

import (
	"time"

	"github.com/productbrew/fnbundle/pkg/runner"
	"github.com/productbrew/fnbundle/pkg/types"
)

// Stage is a point in a function's way from source to deployment
type Stage string

const (
	StageNotBuilt          Stage = "NotBuilt"
	StageBuilt             Stage = "Built"
	StageEntryGenerated    Stage = "EntryGenerated"
	StageEntrySkipped      Stage = "EntrySkipped"
	StageManifestFlattened Stage = "ManifestFlattened"
	StageLockfileCopied    Stage = "LockfileCopied"
	StageDeployed          Stage = "Deployed"
)

// Options control how the pipeline touches the outside world
type Options struct {
	// DryRun logs commands instead of running them and performs no writes
	DryRun bool

	// Restore puts the function manifest and lockfile back after Deploy
	Restore bool

	// Reporter receives progress; nil means NopReporter
	Reporter Reporter
}

// Reporter is told about progress as it happens
type Reporter interface {
	// Stage reports that function reached stage
	Stage(function string, stage Stage, detail string)
	// Warn reports a problem that did not stop the pipeline
	Warn(function string, message string)
	// Command reports a command that was not run because of dry-run mode
	Command(cmd runner.Command)
	// Diff reports the change a dry run would have written to path
	Diff(path string, diff string)
}

// NopReporter discards everything
type NopReporter struct{}

func (NopReporter) Stage(string, Stage, string) {}
func (NopReporter) Warn(string, string)         {}
func (NopReporter) Command(runner.Command)      {}
func (NopReporter) Diff(string, string)         {}

// Result is the outcome of one pipeline operation for one function
type Result struct {
	Function string
	// Stage is the last stage reached
	Stage Stage
	// Entry is the generated entry source, empty when skipped
	Entry string
	// Packages are the internal packages found in the build output
	Packages []types.PackageRef
	Duration time.Duration
}
