package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/productbrew/fnbundle/pkg/collector"
	"github.com/productbrew/fnbundle/pkg/config"
	"github.com/productbrew/fnbundle/pkg/deployflags"
	"github.com/productbrew/fnbundle/pkg/entry"
	"github.com/productbrew/fnbundle/pkg/envfile"
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/filesystem"
	"github.com/productbrew/fnbundle/pkg/logging"
	"github.com/productbrew/fnbundle/pkg/manifest"
	"github.com/productbrew/fnbundle/pkg/paths"
	"github.com/productbrew/fnbundle/pkg/runner"
	"github.com/productbrew/fnbundle/pkg/types"
	"github.com/rs/zerolog"
)

// Pipeline prepares and deploys the functions of one monorepo
type Pipeline struct {
	fs        types.FS
	paths     *paths.Paths
	cfg       *config.Config
	runner    runner.Runner
	collector *collector.Collector
	generator *entry.Generator
	opts      Options
	reporter  Reporter
	logger    zerolog.Logger
}

// New creates a pipeline. In dry-run mode r is replaced by a runner that
// only reports commands.
func New(fsys types.FS, p *paths.Paths, cfg *config.Config, r runner.Runner, opts Options) *Pipeline {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}
	if opts.DryRun {
		r = runner.NewDryRunRunner(reporter.Command)
	}
	return &Pipeline{
		fs:        fsys,
		paths:     p,
		cfg:       cfg,
		runner:    r,
		collector: collector.New(fsys, p),
		generator: entry.New(cfg.Entry),
		opts:      opts,
		reporter:  reporter,
		logger:    logging.GetLogger("pipeline"),
	}
}

// GenerateEntrypoint builds the function and writes its entry file when the
// build bundled internal packages.
func (p *Pipeline) GenerateEntrypoint(ctx context.Context, name string) (*Result, error) {
	done := logging.LogOperationStart(p.logger, "generate-entrypoint")
	defer done()
	start := time.Now()

	fn, m, err := p.loadFunction(name)
	if err != nil {
		return nil, err
	}
	if !m.Dependencies.Has(p.cfg.Entry.AliasModule) {
		return nil, errors.Newf(errors.ErrMissingAliasModule,
			"function %s does not depend on %s", name, p.cfg.Entry.AliasModule).
			WithDetail("function", name).
			WithDetail("path", fn.ManifestPath)
	}

	if err := p.build(ctx, fn, m); err != nil {
		return nil, err
	}

	result, err := p.generate(fn)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

// GenerateAll writes entry files for every function that has already been
// built, in name order. Nothing is built; functions without build output or
// without bundled packages are skipped.
func (p *Pipeline) GenerateAll(ctx context.Context) ([]*Result, error) {
	done := logging.LogOperationStart(p.logger, "generate-all")
	defer done()

	names, err := p.functionNames()
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := p.GenerateBuilt(ctx, name)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// GenerateBuilt writes the entry file of a function that has already been
// built. An unbuilt function is reported and skipped, not an error.
func (p *Pipeline) GenerateBuilt(_ context.Context, name string) (*Result, error) {
	start := time.Now()
	if err := paths.ValidateName("function", name); err != nil {
		return nil, err
	}
	fn := p.paths.Function(name)
	if ok, err := filesystem.Exists(p.fs, fn.Path); err != nil || !ok {
		return nil, errors.Newf(errors.ErrNotFound, "function %q does not exist", name).
			WithDetail("function", name).
			WithDetail("path", fn.Path)
	}

	built, err := fn.IsBuilt(p.fs)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", fn.DistPath)
	}
	if !built {
		p.logger.Warn().Str("function", name).Msg("Function is not built, skipping")
		p.reporter.Warn(name, "function is not built, skipping")
		p.reporter.Stage(name, StageNotBuilt, "")
		return &Result{Function: name, Stage: StageNotBuilt, Duration: time.Since(start)}, nil
	}

	result, err := p.generate(fn)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

// PrepareDeploy generates the entry file, flattens the function manifest and
// copies the monorepo lockfile next to it.
func (p *Pipeline) PrepareDeploy(ctx context.Context, name string) (*Result, error) {
	start := time.Now()
	result, err := p.GenerateEntrypoint(ctx, name)
	if err != nil {
		return nil, err
	}

	done := logging.LogOperationStart(p.logger, "prepare-deploy")
	defer done()

	fn := p.paths.Function(name)
	refs, err := p.collector.Collect(fn)
	if err != nil {
		return nil, err
	}
	result.Packages = refs

	if err := p.flatten(fn, refs); err != nil {
		return nil, err
	}
	result.Stage = StageManifestFlattened

	if err := p.copyLockfile(fn); err != nil {
		return nil, err
	}
	result.Stage = StageLockfileCopied
	result.Duration = time.Since(start)
	return result, nil
}

// Deploy prepares the function and runs the deploy collaborator with its
// directory as the source.
func (p *Pipeline) Deploy(ctx context.Context, name string) (result *Result, err error) {
	start := time.Now()

	if p.opts.Restore && !p.opts.DryRun {
		if verr := paths.ValidateName("function", name); verr != nil {
			return nil, verr
		}
		snap, serr := p.snapshot(p.paths.Function(name))
		if serr != nil {
			return nil, serr
		}
		defer func() {
			if rerr := snap.restore(); rerr != nil {
				if err == nil {
					result, err = nil, rerr
				}
				return
			}
			p.logger.Info().Str("function", name).Msg("Manifest and lockfile restored")
		}()
	}

	result, err = p.PrepareDeploy(ctx, name)
	if err != nil {
		return nil, err
	}

	done := logging.LogOperationStart(p.logger, "deploy")
	defer done()

	fn := p.paths.Function(name)
	data, err := p.fs.ReadFile(fn.ManifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestNotFound, "failed to read %s", fn.ManifestPath)
	}
	m, err := manifest.ParseWithConfigKey(data, p.cfg.Deploy.ConfigKey)
	if err != nil {
		return nil, err
	}

	cmd, err := p.deployCommand(fn, m)
	if err != nil {
		return nil, err
	}
	if _, err := p.runner.Run(ctx, cmd); err != nil {
		return nil, commandError(err, name, "failed to deploy %s")
	}

	p.logger.Info().Str("function", name).Msg("Function deployed")
	p.reporter.Stage(name, StageDeployed, "")
	result.Stage = StageDeployed
	result.Duration = time.Since(start)
	return result, nil
}

// loadFunction resolves and validates a function and parses its manifest
func (p *Pipeline) loadFunction(name string) (types.Function, *manifest.Manifest, error) {
	if err := paths.ValidateName("function", name); err != nil {
		return types.Function{}, nil, err
	}
	fn := p.paths.Function(name)

	info, err := p.fs.Stat(fn.Path)
	if err != nil || !info.IsDir() {
		return fn, nil, errors.Newf(errors.ErrNotFound, "function %q does not exist", name).
			WithDetail("function", name).
			WithDetail("path", fn.Path)
	}

	data, err := p.fs.ReadFile(fn.ManifestPath)
	if err != nil {
		return fn, nil, errors.Wrapf(err, errors.ErrManifestNotFound, "function %s has no readable manifest", name).
			WithDetail("path", fn.ManifestPath)
	}
	m, err := manifest.ParseWithConfigKey(data, p.cfg.Deploy.ConfigKey)
	if err != nil {
		return fn, nil, errors.Wrapf(err, errors.ErrManifestParse, "invalid manifest for function %s", name).
			WithDetail("path", fn.ManifestPath)
	}
	return fn, m, nil
}

func (p *Pipeline) build(ctx context.Context, fn types.Function, m *manifest.Manifest) error {
	pkg := m.Name
	if pkg == "" {
		pkg = fn.Name
	}
	cmd, err := runner.FromTemplate(p.cfg.Build.Command, map[string]string{
		config.PlaceholderPackage:  pkg,
		config.PlaceholderFunction: fn.Name,
		config.PlaceholderSource:   fn.Path,
	})
	if err != nil {
		return err
	}
	cmd.Dir = p.paths.Root()

	p.logger.Info().Str("function", fn.Name).Str("command", cmd.String()).Msg("Building function")
	if _, err := p.runner.Run(ctx, cmd); err != nil {
		return commandError(err, fn.Name, "failed to build %s")
	}
	p.reporter.Stage(fn.Name, StageBuilt, cmd.String())
	return nil
}

// generate collects the bundled packages of a built function and writes the
// entry file, or skips when there are none
func (p *Pipeline) generate(fn types.Function) (*Result, error) {
	bundled, err := fn.HasBundledPackages(p.fs)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", fn.BundledPath).
			WithDetail("function", fn.Name)
	}
	var refs []types.PackageRef
	if bundled {
		if refs, err = p.collector.Collect(fn); err != nil {
			return nil, err
		}
	}
	result := &Result{Function: fn.Name, Packages: refs}

	if len(refs) == 0 {
		p.logger.Info().Str("function", fn.Name).Msg("No internal packages bundled, entry file not needed")
		p.reporter.Stage(fn.Name, StageEntrySkipped, "no internal packages")
		result.Stage = StageEntrySkipped
		return result, nil
	}

	src, err := p.generator.Generate(fn.Name, refs)
	if err != nil {
		return nil, err
	}
	result.Entry = src

	if p.opts.DryRun {
		p.logger.Info().Str("path", fn.EntryPath).Msg("Dry run mode - entry file would be written")
	} else {
		if err := p.fs.MkdirAll(fn.DistPath, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", fn.DistPath)
		}
		if err := filesystem.WriteFile(p.fs, fn.EntryPath, []byte(src), 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", fn.EntryPath).
				WithDetail("function", fn.Name)
		}
	}

	p.logger.Info().
		Str("function", fn.Name).
		Strs("packages", types.RefNames(refs)).
		Msg("Entry file generated")
	p.reporter.Stage(fn.Name, StageEntryGenerated, strings.Join(types.RefNames(refs), ", "))
	result.Stage = StageEntryGenerated
	return result, nil
}

func (p *Pipeline) flatten(fn types.Function, refs []types.PackageRef) error {
	data, err := p.fs.ReadFile(fn.ManifestPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrManifestNotFound, "failed to read %s", fn.ManifestPath)
	}
	m, err := manifest.ParseWithConfigKey(data, p.cfg.Deploy.ConfigKey)
	if err != nil {
		return err
	}

	out, err := manifest.Flatten(m, refs).Marshal()
	if err != nil {
		return err
	}

	if p.opts.DryRun {
		diff, err := unifiedDiff(fn.ManifestPath, data, out)
		if err != nil {
			return err
		}
		p.reporter.Diff(fn.ManifestPath, diff)
	} else if err := filesystem.WriteFile(p.fs, fn.ManifestPath, out, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", fn.ManifestPath)
	}

	p.logger.Info().Str("function", fn.Name).Msg("Manifest updated with all needed dependencies")
	p.reporter.Stage(fn.Name, StageManifestFlattened, "")
	return nil
}

func (p *Pipeline) copyLockfile(fn types.Function) error {
	src := p.paths.LockfilePath()
	ok, err := filesystem.Exists(p.fs, src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", src)
	}
	if !ok {
		return errors.Newf(errors.ErrNotFound, "lockfile %s does not exist", src).
			WithDetail("path", src)
	}

	if !p.opts.DryRun {
		if err := filesystem.CopyFile(p.fs, src, fn.LockfilePath); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to copy %s", src)
		}
	}

	p.logger.Info().Str("function", fn.Name).Str("lockfile", filepath.Base(src)).Msg("Lockfile copied")
	p.reporter.Stage(fn.Name, StageLockfileCopied, filepath.Base(src))
	return nil
}

func (p *Pipeline) deployCommand(fn types.Function, m *manifest.Manifest) (runner.Command, error) {
	cmd, err := runner.FromTemplate(p.cfg.Deploy.Command, map[string]string{
		config.PlaceholderFunction: fn.Name,
		config.PlaceholderSource:   fn.Path,
		config.PlaceholderPackage:  m.Name,
	})
	if err != nil {
		return runner.Command{}, err
	}
	cmd.Dir = fn.Path

	env, err := envfile.Load(p.fs, fn.EnvFile, fn.OverrideEnvFile)
	if err != nil {
		return runner.Command{}, err
	}
	envArgs, err := env.Args(p.cfg.Deploy.EnvFlag)
	if err != nil {
		return runner.Command{}, err
	}
	flagArgs, err := deployflags.Args(m.DeployConfig)
	if err != nil {
		return runner.Command{}, err
	}

	cmd.Args = append(append(cmd.Args, envArgs...), flagArgs...)
	return cmd, nil
}

// functionNames lists the function directories in name order
func (p *Pipeline) functionNames() ([]string, error) {
	dir := p.paths.FunctionsDir()
	entries, err := p.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "functions directory %s does not exist", dir).
				WithDetail("path", dir)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// commandError wraps a collaborator failure, keeping the captured output
func commandError(err error, function, format string) error {
	wrapped := errors.Wrapf(err, errors.ErrExternalCommand, format, function).
		WithDetail("function", function)
	if output, ok := errors.GetErrorDetails(err)["output"]; ok {
		wrapped.WithDetail("output", output)
	}
	return wrapped
}

func unifiedDiff(path string, before, after []byte) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path,
		ToFile:   path + " (flattened)",
		Context:  3,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to diff manifest")
	}
	return diff, nil
}
