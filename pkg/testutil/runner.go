package testutil

import (
	"context"
	"sync"

	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/runner"
)

// FakeRunner records commands instead of running them
type FakeRunner struct {
	mu       sync.Mutex
	Commands []runner.Command

	// Handler, when set, decides the outcome of each command
	Handler func(cmd runner.Command) (runner.Output, error)
}

// Run records cmd and delegates to Handler
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) (runner.Output, error) {
	f.mu.Lock()
	f.Commands = append(f.Commands, cmd)
	f.mu.Unlock()

	if f.Handler != nil {
		return f.Handler(cmd)
	}
	return runner.Output{}, nil
}

// Names returns the program names of the recorded commands
func (f *FakeRunner) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.Commands))
	for i, c := range f.Commands {
		names[i] = c.Name
	}
	return names
}

// FailWith returns a handler failing every command named name
func FailWith(name, output string) func(runner.Command) (runner.Output, error) {
	return func(cmd runner.Command) (runner.Output, error) {
		if cmd.Name != name {
			return runner.Output{}, nil
		}
		return runner.Output{Combined: []byte(output), ExitCode: 1},
			errors.Newf(errors.ErrExternalCommand, "command failed: %s", cmd.Name).
				WithDetail("output", output)
	}
}
