package cli

import (
	"fmt"

	"github.com/productbrew/fnbundle/internal/version"
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/pipeline"
	"github.com/spf13/cobra"
)

// generateAllKeyword makes generate process every function
const generateAllKeyword = "ALL"

// functionArg requires exactly one function name
func functionArg(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return errors.New(errors.ErrUsage, MsgErrFunctionRequired)
	case len(args) > 1:
		return errors.New(errors.ErrUsage, MsgErrTooManyArgs).WithDetail("args", args)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd, Dependencies{})
			if err != nil {
				return err
			}
			out, err := e.cfg.TOML()
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newGenerateEntrypointCmd(opts *globalOptions, deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "generate-entrypoint <function>",
		Short: MsgGenerateEntrypointShort,
		Args:  functionArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd, deps)
			if err != nil {
				return err
			}
			e.printer.Info(MsgBuilding, args[0])
			if _, err := opts.pipeline(e, deps, false).GenerateEntrypoint(commandContext(cmd), args[0]); err != nil {
				return err
			}
			opts.finish(e)
			return nil
		},
	}
}

func newPrepareDeployCmd(opts *globalOptions, deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:     "prepare-deploy <function>",
		Aliases: []string{"prepare"},
		Short:   MsgPrepareDeployShort,
		Args:    functionArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd, deps)
			if err != nil {
				return err
			}
			e.printer.Info(MsgPreparingDeploy, args[0])
			if _, err := opts.pipeline(e, deps, false).PrepareDeploy(commandContext(cmd), args[0]); err != nil {
				return err
			}
			opts.finish(e)
			return nil
		},
	}
}

func newDeployCmd(opts *globalOptions, deps Dependencies) *cobra.Command {
	var restore bool

	cmd := &cobra.Command{
		Use:   "deploy <function>",
		Short: MsgDeployShort,
		Long:  MsgDeployLong,
		Args:  functionArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd, deps)
			if err != nil {
				return err
			}
			e.printer.Info(MsgPreparingDeploy, args[0])
			if _, err := opts.pipeline(e, deps, restore).Deploy(commandContext(cmd), args[0]); err != nil {
				return err
			}
			opts.finish(e)
			return nil
		},
	}
	cmd.Flags().BoolVar(&restore, "restore", false, MsgFlagRestore)
	return cmd
}

func newGenerateCmd(opts *globalOptions, deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <function|ALL>",
		Short: MsgGenerateShort,
		Long:  MsgGenerateLong,
		Args:  functionArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd, deps)
			if err != nil {
				return err
			}
			p := opts.pipeline(e, deps, false)

			var results []*pipeline.Result
			if args[0] == generateAllKeyword {
				results, err = p.GenerateAll(commandContext(cmd))
			} else {
				var result *pipeline.Result
				result, err = p.GenerateBuilt(commandContext(cmd), args[0])
				results = []*pipeline.Result{result}
			}
			if err != nil {
				return err
			}

			generated := 0
			for _, r := range results {
				if r.Stage == pipeline.StageEntryGenerated {
					generated++
				}
			}
			e.printer.Println()
			e.printer.Info(MsgGeneratedSummary, generated, len(results))
			opts.finish(e)
			return nil
		},
	}
}
