// Package runner executes the external build and deploy collaborators.
package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/logging"
	"github.com/rs/zerolog"
)

// Command is one external process invocation
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env entries (KEY=value) are added to the current environment
	Env []string
}

// String renders the command for logs and dry-run output
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, arg := range c.Args {
		if arg == "" || strings.ContainsAny(arg, " \t'\"$`\\") {
			arg = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// Output is what a finished command produced
type Output struct {
	Combined []byte
	ExitCode int
	Duration time.Duration
}

// Runner runs external commands
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// ExecRunner runs commands as child processes
type ExecRunner struct {
	logger zerolog.Logger
}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{logger: logging.GetLogger("runner.exec")}
}

// Run executes cmd and waits for it. A nonzero exit is an EXTERNAL_COMMAND
// error carrying the combined output.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	if cmd.Name == "" {
		return Output{}, errors.New(errors.ErrInvalidInput, "command requires a name")
	}

	logging.LogCommand(r.logger, cmd.Name, cmd.Args, cmd.Dir)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		if _, err := os.Stat(cmd.Dir); os.IsNotExist(err) {
			return Output{}, errors.Newf(errors.ErrFileAccess,
				"working directory does not exist: %s", cmd.Dir)
		}
		c.Dir = cmd.Dir
	}
	c.Env = append(os.Environ(), cmd.Env...)

	var combined bytes.Buffer
	c.Stdout = &combined
	c.Stderr = &combined

	start := time.Now()
	err := c.Run()
	out := Output{
		Combined: combined.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	if combined.Len() > 0 {
		r.logger.Debug().
			Str("output", combined.String()).
			Msg("Command output")
	}

	if err != nil {
		r.logger.Error().
			Err(err).
			Str("command", cmd.Name).
			Strs("args", cmd.Args).
			Int("exitCode", out.ExitCode).
			Msg("Command execution failed")

		return out, errors.Wrapf(err, errors.ErrExternalCommand, "command failed: %s", cmd.Name).
			WithDetail("command", cmd.String()).
			WithDetail("exitCode", out.ExitCode).
			WithDetail("output", combined.String())
	}

	r.logger.Info().
		Str("command", cmd.Name).
		Dur("duration", out.Duration).
		Msg("Command executed successfully")
	return out, nil
}

// DryRunRunner logs commands without running them
type DryRunRunner struct {
	logger zerolog.Logger
	// OnRun, when set, is called with every command that would run
	OnRun func(Command)
}

// NewDryRunRunner creates a runner that only logs
func NewDryRunRunner(onRun func(Command)) *DryRunRunner {
	return &DryRunRunner{logger: logging.GetLogger("runner.dryrun"), OnRun: onRun}
}

// Run records cmd and reports success
func (r *DryRunRunner) Run(_ context.Context, cmd Command) (Output, error) {
	r.logger.Info().
		Str("command", cmd.String()).
		Str("workingDir", cmd.Dir).
		Msg("Dry run mode - command would be executed")
	if r.OnRun != nil {
		r.OnRun(cmd)
	}
	return Output{}, nil
}

// FromTemplate splits template into argv with shell-word rules and replaces
// placeholders in every word. Replacement values never get split, so a value
// containing spaces stays one argument.
func FromTemplate(template string, replacements map[string]string) (Command, error) {
	words, err := shellwords.Parse(template)
	if err != nil {
		return Command{}, errors.Wrapf(err, errors.ErrConfigParse, "invalid command template %q", template)
	}
	if len(words) == 0 {
		return Command{}, errors.Newf(errors.ErrConfigParse, "command template %q is empty", template)
	}

	pairs := make([]string, 0, len(replacements)*2)
	for placeholder, value := range replacements {
		pairs = append(pairs, placeholder, value)
	}
	replacer := strings.NewReplacer(pairs...)
	for i, word := range words {
		words[i] = replacer.Replace(word)
	}

	return Command{Name: words[0], Args: words[1:]}, nil
}
