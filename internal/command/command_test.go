package command

import (
	"bytes"
	"context"
	"flag"
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/joeycumines/goap/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand parses args with the command's flags and executes it.
func runCommand(t *testing.T, cmd Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.SetupFlags(fs)
	require.NoError(t, fs.Parse(args))
	var out, errOut bytes.Buffer
	err = cmd.Execute(context.Background(), fs.Args(), &out, &errOut)
	return out.String(), errOut.String(), err
}

func newTestRegistry(cfg *config.Config) *Registry {
	r := NewRegistry()
	r.Register(NewHelpCommand(r))
	r.Register(NewVersionCommand("1.2.3"))
	r.Register(NewConfigCommand(cfg, ""))
	r.Register(NewPlanCommand(cfg))
	r.Register(NewDescribeCommand(cfg))
	return r
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(config.NewConfig())
	require.Equal(t, []string{"config", "describe", "help", "plan", "version"}, r.List())

	cmd, err := r.Get("plan")
	require.NoError(t, err)
	require.Equal(t, "plan", cmd.Name())

	_, err = r.Get("fly")
	require.True(t, errors.Is(err, ErrUnknownCommand), "%v", err)
	require.ErrorContains(t, err, "fly")
}

func TestHelpCommand(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(config.NewConfig())
	help, err := r.Get("help")
	require.NoError(t, err)

	stdout, _, err := runCommand(t, help)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage: goap <command>")
	for _, name := range r.List() {
		assert.Contains(t, stdout, "  "+name)
	}

	stdout, _, err = runCommand(t, help, "plan")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage: goap plan [options]")
	assert.Contains(t, stdout, "-domain")
	assert.Contains(t, stdout, "-execute")

	_, stderr, err := runCommand(t, help, "fly")
	require.Error(t, err)
	assert.Contains(t, stderr, "Unknown command: fly")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCommand(t, NewVersionCommand("1.2.3"))
	require.NoError(t, err)
	assert.Equal(t, "goap version 1.2.3\n", stdout)

	_, _, err = runCommand(t, NewVersionCommand("1.2.3"), "extra")
	require.Error(t, err)
}
