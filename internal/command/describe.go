package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joeycumines/goap/internal/config"
	"github.com/joeycumines/goap/internal/domain"
)

// DescribeCommand prints a domain's atoms, actions, start and goal.
type DescribeCommand struct {
	*BaseCommand
	config  *config.Config
	domain  domainFlags
	color   string
	example bool
}

// NewDescribeCommand creates a new describe command.
func NewDescribeCommand(cfg *config.Config) *DescribeCommand {
	return &DescribeCommand{
		BaseCommand: NewBaseCommand(
			"describe",
			"Describe the actions and states of a domain",
			"describe [options]",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the describe command.
func (c *DescribeCommand) SetupFlags(fs *flag.FlagSet) {
	c.domain.setup(fs)
	fs.StringVar(&c.color, "color", "", "Styled output: auto, always, never")
	fs.BoolVar(&c.example, "example", false, "Print the source of the built-in example domain")
}

// Execute prints the description.
func (c *DescribeCommand) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return errors.New("unexpected arguments")
	}
	if c.example {
		_, err := stdout.Write(domain.ExampleYAML())
		return err
	}

	p, err := c.domain.load(c.config)
	if err != nil {
		return err
	}

	color := c.color
	if color == "" {
		color = config.DefaultSchema().ResolveCommand(c.config, c.Name(), "color")
	}
	st := newStyles(stdout, color)

	name := p.domain.Name
	if name == "" {
		name = "(unnamed)"
	}
	_, _ = fmt.Fprintf(stdout, "%s %s\n", st.Header("domain"), name)
	_, _ = fmt.Fprintf(stdout, "%s %s\n", st.Header("source"), st.Muted(p.source))
	_, _ = fmt.Fprintf(stdout, "%s %s\n", st.Header("atoms "), strings.Join(p.planner.AtomNames(), ","))
	_, _ = fmt.Fprintf(stdout, "%s %s\n", st.Header("start "), st.State(p.planner.DescribeState(p.start)))
	_, _ = fmt.Fprintf(stdout, "%s %s\n\n", st.Header("goal  "), st.State(p.planner.DescribeState(p.goal)))

	for _, line := range strings.SplitAfter(p.planner.Describe(), "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, " ") {
			line = st.Action(strings.TrimSuffix(line, "\n")) + "\n"
		}
		_, _ = fmt.Fprint(stdout, line)
	}
	return nil
}
