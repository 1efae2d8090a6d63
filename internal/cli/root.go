package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/productbrew/fnbundle/internal/version"
	"github.com/productbrew/fnbundle/pkg/config"
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/filesystem"
	"github.com/productbrew/fnbundle/pkg/logging"
	"github.com/productbrew/fnbundle/pkg/paths"
	"github.com/productbrew/fnbundle/pkg/pipeline"
	"github.com/productbrew/fnbundle/pkg/runner"
	"github.com/productbrew/fnbundle/pkg/types"
	"github.com/productbrew/fnbundle/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags
type globalOptions struct {
	verbosity int
	dryRun    bool
	root      string
	noColor   bool
	set       []string
}

// env is everything a command needs to run
type env struct {
	cfg     *config.Config
	paths   *paths.Paths
	fs      types.FS
	printer *ui.Printer
	start   time.Time
}

// Dependencies lets tests swap the filesystem and command runner
type Dependencies struct {
	FS     types.FS
	Runner runner.Runner
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(Dependencies{})
}

func newRootCmd(deps Dependencies) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "fnbundle",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New(errors.ErrUsage, MsgErrCommandRequired)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, MsgFlagNoColor)
	rootCmd.PersistentFlags().StringArrayVar(&opts.set, "set", nil, MsgFlagSet)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(err, errors.ErrUsage, MsgErrUsage)
	})

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newGenerateEntrypointCmd(opts, deps))
	rootCmd.AddCommand(newPrepareDeployCmd(opts, deps))
	rootCmd.AddCommand(newDeployCmd(opts, deps))
	rootCmd.AddCommand(newGenerateCmd(opts, deps))

	return rootCmd
}

// Execute runs rootCmd. Errors raised by cobra itself (unknown commands,
// bad arguments) come back as usage errors.
func Execute(rootCmd *cobra.Command) error {
	err := rootCmd.Execute()
	if err != nil && errors.GetErrorCode(err) == errors.ErrUnknown {
		return errors.Wrap(err, errors.ErrUsage, MsgErrUsage)
	}
	return err
}

// OutputFormat returns the format chosen by the --no-color flag of rootCmd
func OutputFormat(rootCmd *cobra.Command) ui.Format {
	if noColor, err := rootCmd.PersistentFlags().GetBool("no-color"); err == nil && noColor {
		return ui.FormatText
	}
	return ui.FormatAuto
}

func (o *globalOptions) format() ui.Format {
	if o.noColor {
		return ui.FormatText
	}
	return ui.FormatAuto
}

// setup resolves the monorepo root and loads the configuration
func (o *globalOptions) setup(cmd *cobra.Command, deps Dependencies) (*env, error) {
	logger := logging.GetLogger("cli")
	start := time.Now()

	root, usedFallback := o.root, false
	if root == "" {
		var err error
		root, usedFallback, err = paths.FindRoot()
		if err != nil {
			return nil, err
		}
	}
	overrides, err := config.ParseOverrides(o.set)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root, overrides)
	if err != nil {
		return nil, err
	}

	p, err := paths.New(root, cfg)
	if err != nil {
		return nil, err
	}
	if p.WithFallback(usedFallback).UsedFallback() {
		logger.Warn().Str("root", p.Root()).Msg("Using current directory as monorepo root")
		fmt.Fprintf(cmd.ErrOrStderr(), MsgRootFallback+"\n", p.Root())
	}

	fsys := deps.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	logger.Debug().
		Str("root", p.Root()).
		Bool("dryRun", o.dryRun).
		Msg("Environment ready")

	return &env{
		cfg:     cfg,
		paths:   p,
		fs:      fsys,
		printer: ui.NewPrinter(cmd.OutOrStdout(), o.format()),
		start:   start,
	}, nil
}

// pipeline builds the pipeline for the command's environment
func (o *globalOptions) pipeline(e *env, deps Dependencies, restore bool) *pipeline.Pipeline {
	r := deps.Runner
	if r == nil {
		r = runner.NewExecRunner()
	}
	return pipeline.New(e.fs, e.paths, e.cfg, r, pipeline.Options{
		DryRun:   o.dryRun,
		Restore:  restore,
		Reporter: &reporter{printer: e.printer},
	})
}

// finish prints the closing lines of a successful run
func (o *globalOptions) finish(e *env) {
	if o.dryRun {
		e.printer.Println()
		e.printer.Warning(MsgDryRunNotice)
	}
	e.printer.Finished(time.Since(e.start))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
