package builtins

import (
	"context"
	"strings"

	"github.com/kalekundert/sparekeys/pkg/errors"
)

// fakeRunner records every command and fails the ones listed in fail.
// Output commands return canned stdout keyed by command name.
type fakeRunner struct {
	calls   []string
	inputs  []string
	fail    map[string]bool
	outputs map[string]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		fail:    make(map[string]bool),
		outputs: make(map[string]string),
	}
}

func (f *fakeRunner) record(name string, args []string) string {
	call := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, call)
	return call
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	// Like the real runner, a done context means the command never runs.
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, errors.ErrCommandRun, "command '%s' failed", name)
	}
	call := f.record(name, args)
	if f.fail[name] || f.fail[call] {
		return errors.Newf(errors.ErrCommandRun, "command '%s' failed", name)
	}
	return nil
}

func (f *fakeRunner) RunInput(ctx context.Context, input string, name string, args ...string) error {
	f.inputs = append(f.inputs, input)
	return f.Run(ctx, name, args...)
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrapf(err, errors.ErrCommandRun, "command '%s' failed", name)
	}
	call := f.record(name, args)
	if f.fail[name] || f.fail[call] {
		return "", errors.Newf(errors.ErrCommandRun, "command '%s' failed", name)
	}
	return f.outputs[name], nil
}
