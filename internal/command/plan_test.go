package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/joeycumines/goap/internal/astar"
	"github.com/joeycumines/goap/internal/config"
	"github.com/joeycumines/goap/internal/goap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const shooterStart = "ARMEDWITHGUN,enemyvisible,nearenemy,weaponloaded,enemylinedup,ENEMYALIVE,ARMEDWITHBOMB,ALIVE"

func writeDomain(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPlanCommand_Text(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCommand(t, NewPlanCommand(config.NewConfig()), "-color", "never", "-log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "plancost = 4", lines[0])
	assert.Equal(t, strings.Repeat(" ", 23)+shooterStart, lines[1])
	assert.Equal(t, "0: scout               ARMEDWITHGUN,ENEMYVISIBLE,nearenemy,weaponloaded,enemylinedup,ENEMYALIVE,ARMEDWITHBOMB,ALIVE", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "1: load                "), lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "2: aim                 "), lines[4])
	assert.Equal(t, "3: shoot               ARMEDWITHGUN,ENEMYVISIBLE,nearenemy,WEAPONLOADED,ENEMYLINEDUP,enemyalive,ARMEDWITHBOMB,ALIVE", lines[5])
}

func TestPlanCommand_YAML(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SetCommandOption("plan", "format", "yaml")

	stdout, _, err := runCommand(t, NewPlanCommand(cfg), "-log-level", "error")
	require.NoError(t, err)

	var doc planDocument
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "(built-in example)", doc.Domain)
	assert.Equal(t, 4, doc.Cost)
	assert.Positive(t, doc.Expanded)
	assert.Equal(t, shooterStart, doc.Start)
	assert.Equal(t, "enemyalive", doc.Goal)
	require.Len(t, doc.Steps, 4)
	var actions []string
	for _, s := range doc.Steps {
		actions = append(actions, s.Action)
	}
	assert.Equal(t, []string{"scout", "load", "aim", "shoot"}, actions)
}

func TestPlanCommand_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, _, err := runCommand(t, NewPlanCommand(config.NewConfig()), "-format", "xml", "-log-level", "error")
	require.ErrorContains(t, err, "invalid format: xml")
}

func TestPlanCommand_Execute(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCommand(t, NewPlanCommand(config.NewConfig()),
		"-execute", "-color", "never", "-interval", "1ms", "-log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "plancost = 4\n")
	assert.Contains(t, stdout, "executed 4 steps, run ")
	assert.True(t, strings.HasSuffix(stdout,
		strings.Repeat(" ", 23)+"ARMEDWITHGUN,ENEMYVISIBLE,nearenemy,WEAPONLOADED,ENEMYLINEDUP,enemyalive,ARMEDWITHBOMB,ALIVE\n"), stdout)
}

func TestPlanCommand_ExecuteFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SetCommandOption("plan", "execute", "yes")
	cfg.SetCommandOption("plan", "interval", "1ms")

	stdout, _, err := runCommand(t, NewPlanCommand(cfg), "-color", "never", "-log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "executed 4 steps")

	stdout, _, err = runCommand(t, NewPlanCommand(cfg), "-execute=false", "-color", "never", "-log-level", "error")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "executed")
}

func TestPlanCommand_DomainFile(t *testing.T) {
	t.Parallel()

	path := writeDomain(t, "door.toml", `
name = "door"
goal = "inside"

[start]
inside = false
open = false

[[actions]]
name = "open"
pre = "!open"
post = "open"

[[actions]]
name = "enter"
pre = "open && !inside"
post = "inside"
cost = 2
`)

	stdout, _, err := runCommand(t, NewPlanCommand(config.NewConfig()), "-domain", path, "-color", "never", "-log-level", "error")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "plancost = 3\n"), stdout)
	assert.Contains(t, stdout, "0: open ")
	assert.Contains(t, stdout, "1: enter ")
}

func TestPlanCommand_DomainFromConfig(t *testing.T) {
	t.Parallel()

	path := writeDomain(t, "light.yaml", `
name: light
actions:
  - name: switch
    pre: "!lit"
    post: lit
start: "!lit"
goal: lit
`)
	cfg := config.NewConfig()
	cfg.SetGlobalOption("domain", path)

	stdout, _, err := runCommand(t, NewPlanCommand(cfg), "-color", "never", "-log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "plancost = 1\n")
	assert.Contains(t, stdout, "0: switch ")
}

func TestPlanCommand_Unreachable(t *testing.T) {
	t.Parallel()

	path := writeDomain(t, "stuck.yaml", `
name: stuck
actions:
  - name: climb
    pre: ladder
    post: roof
start:
  ladder: false
  roof: false
goal: roof
`)
	_, _, err := runCommand(t, NewPlanCommand(config.NewConfig()), "-domain", path, "-log-level", "error")
	require.True(t, errors.Is(err, astar.ErrUnreachable), "%v", err)
	require.ErrorContains(t, err, path)
}

func TestPlanCommand_Limits(t *testing.T) {
	t.Parallel()

	_, _, err := runCommand(t, NewPlanCommand(config.NewConfig()), "-max-closed", "1", "-log-level", "error")
	require.True(t, errors.Is(err, astar.ErrResourceExhausted), "%v", err)

	_, _, err = runCommand(t, NewPlanCommand(config.NewConfig()), "-max-atoms", "4", "-log-level", "error")
	require.True(t, errors.Is(err, goap.ErrCapacityExceeded), "%v", err)

	cfg := config.NewConfig()
	cfg.Search.MaxActions = 2
	_, _, err = runCommand(t, NewPlanCommand(cfg), "-log-level", "error")
	require.True(t, errors.Is(err, goap.ErrCapacityExceeded), "%v", err)
}

func TestPlanCommand_BadArgs(t *testing.T) {
	t.Parallel()

	_, _, err := runCommand(t, NewPlanCommand(config.NewConfig()), "extra")
	require.Error(t, err)

	_, _, err = runCommand(t, NewPlanCommand(config.NewConfig()), "-log-level", "loud")
	require.ErrorContains(t, err, "invalid log level")

	_, _, err = runCommand(t, NewPlanCommand(config.NewConfig()), "-domain", filepath.Join(t.TempDir(), "missing.yaml"), "-log-level", "error")
	require.True(t, errors.Is(err, os.ErrNotExist), "%v", err)
}

func TestOptionalBool(t *testing.T) {
	t.Parallel()

	var b optionalBool
	assert.False(t, b.set)
	assert.True(t, b.IsBoolFlag())
	assert.Equal(t, "false", b.String())

	require.NoError(t, b.Set("true"))
	assert.True(t, b.set)
	assert.True(t, b.value)

	require.NoError(t, b.Set("0"))
	assert.True(t, b.set)
	assert.False(t, b.value)

	require.Error(t, b.Set("maybe"))
}

func TestPadRight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "scout"+strings.Repeat(" ", 15), padRight("scout", 20))
	assert.Equal(t, "攻撃"+strings.Repeat(" ", 16), padRight("攻撃", 20))
	assert.Equal(t, strings.Repeat("x", 25), padRight(strings.Repeat("x", 25), 20))
}

func TestPlanCommand_WideNames(t *testing.T) {
	t.Parallel()

	path := writeDomain(t, "wide.yaml", `
name: wide
actions:
  - name: 攻撃
    pre:
      敵: true
    post:
      敵: false
start:
  敵: true
goal:
  敵: false
`)
	stdout, _, err := runCommand(t, NewPlanCommand(config.NewConfig()), "-domain", path, "-color", "never", "-log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "0: 攻撃"+strings.Repeat(" ", 16)+"敵", lines[2])
}

func TestPick(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, pick(5, 10))
	assert.Equal(t, 10, pick(0, 10))
	assert.Equal(t, 10, pick(-1, 10))
}
