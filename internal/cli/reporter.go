package cli

import (
	"github.com/productbrew/fnbundle/pkg/pipeline"
	"github.com/productbrew/fnbundle/pkg/runner"
	"github.com/productbrew/fnbundle/pkg/ui"
)

// reporter prints pipeline progress
type reporter struct {
	printer *ui.Printer
}

func (r *reporter) Stage(function string, stage pipeline.Stage, detail string) {
	switch stage {
	case pipeline.StageBuilt:
		r.printer.Success(MsgFunctionBuilt, function)
	case pipeline.StageEntryGenerated:
		r.printer.Success(MsgEntryGenerated, function, detail)
	case pipeline.StageEntrySkipped:
		r.printer.Info(MsgEntrySkipped, function)
	case pipeline.StageManifestFlattened:
		r.printer.Success(MsgManifestFlattened)
	case pipeline.StageLockfileCopied:
		r.printer.Success(MsgLockfileCopied, detail)
	case pipeline.StageDeployed:
		r.printer.Success(MsgDeployed, function)
	}
}

func (r *reporter) Warn(function, message string) {
	r.printer.Warning(MsgFunctionWarning, function, message)
}

func (r *reporter) Command(cmd runner.Command) {
	r.printer.Info(MsgDryRunCommand, cmd.String())
}

func (r *reporter) Diff(path, diff string) {
	r.printer.Info(MsgManifestDiff, path)
	r.printer.Diff(diff)
}
