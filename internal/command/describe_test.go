package command

import (
	"strings"
	"testing"

	"github.com/joeycumines/goap/internal/config"
	"github.com/joeycumines/goap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCommand(t, NewDescribeCommand(config.NewConfig()), "-color", "never")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "domain shooter\nsource (built-in example)\n"), stdout)
	assert.Contains(t, stdout, "atoms  armedwithgun,enemyvisible,nearenemy,weaponloaded,enemylinedup,enemyalive,armedwithbomb,alive\n")
	assert.Contains(t, stdout, "start  "+shooterStart+"\n")
	assert.Contains(t, stdout, "goal   enemyalive\n\n")
	assert.Contains(t, stdout, "detonatebomb:\n  nearenemy==1\n  armedwithbomb==1\n  enemyalive:=0\n  alive:=0\n")
}

func TestDescribeCommand_Example(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCommand(t, NewDescribeCommand(config.NewConfig()), "-example")
	require.NoError(t, err)
	assert.Equal(t, string(domain.ExampleYAML()), stdout)
}

func TestDescribeCommand_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := runCommand(t, NewDescribeCommand(config.NewConfig()), "extra")
	require.Error(t, err)

	path := writeDomain(t, "bad.yaml", "name: bad\nactions: []\n")
	_, _, err = runCommand(t, NewDescribeCommand(config.NewConfig()), "-domain", path)
	require.ErrorContains(t, err, "no actions")
}
