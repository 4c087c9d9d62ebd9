package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joeycumines/goap/internal/astar"
	"github.com/joeycumines/goap/internal/config"
	"github.com/joeycumines/goap/internal/execute"
	"github.com/rivo/uniseg"
	"gopkg.in/yaml.v3"
)

// PlanCommand finds the cheapest plan for a domain and optionally runs it.
type PlanCommand struct {
	*BaseCommand
	config *config.Config

	domain    domainFlags
	logs      logFlags
	maxOpen   int
	maxClosed int
	format    string
	color     string
	interval  time.Duration
	execute   optionalBool
}

// NewPlanCommand creates a new plan command.
func NewPlanCommand(cfg *config.Config) *PlanCommand {
	return &PlanCommand{
		BaseCommand: NewBaseCommand(
			"plan",
			"Find the cheapest plan from the start state to the goal",
			"plan [options]",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the plan command.
func (c *PlanCommand) SetupFlags(fs *flag.FlagSet) {
	c.domain.setup(fs)
	c.logs.setup(fs)
	fs.IntVar(&c.maxOpen, "max-open", 0, "Capacity of the open set")
	fs.IntVar(&c.maxClosed, "max-closed", 0, "Capacity of the closed set")
	fs.StringVar(&c.format, "format", "", "Output format: text, yaml")
	fs.StringVar(&c.color, "color", "", "Styled output: auto, always, never")
	fs.DurationVar(&c.interval, "interval", 0, "Tick interval while executing a step")
	fs.Var(&c.execute, "execute", "Execute the plan after finding it")
}

// Execute plans, prints the plan, and runs it when asked to.
func (c *PlanCommand) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return errors.New("unexpected arguments")
	}

	logger, closeLog, err := installLogger(c.logs, c.config, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	schema := config.DefaultSchema()
	format := c.format
	if format == "" {
		format = schema.ResolveCommand(c.config, c.Name(), "format")
	}
	if format != "text" && format != "yaml" {
		return errors.Newf("invalid format: %s", format)
	}
	color := c.color
	if color == "" {
		color = schema.ResolveCommand(c.config, c.Name(), "color")
	}
	doExecute := c.execute.value
	if !c.execute.set {
		doExecute, _ = config.ParseBool(schema.ResolveCommand(c.config, c.Name(), "execute"))
	}
	interval := c.interval
	if interval <= 0 {
		interval, _ = time.ParseDuration(schema.ResolveCommand(c.config, c.Name(), "interval"))
	}

	p, err := c.domain.load(c.config)
	if err != nil {
		return err
	}
	logger.Debug("planner", "description", p.planner.Describe())

	plan, err := astar.Solve(p.planner, p.start, p.goal,
		astar.WithMaxOpen(pick(c.maxOpen, c.config.Search.MaxOpen)),
		astar.WithMaxClosed(pick(c.maxClosed, c.config.Search.MaxClosed)),
	)
	if err != nil {
		return errors.Wrapf(err, "plan %s", p.source)
	}

	st := newStyles(stdout, color)
	switch format {
	case "yaml":
		if err := writePlanYAML(stdout, p, plan); err != nil {
			return err
		}
	default:
		writePlanText(stdout, st, p, plan)
	}

	if !doExecute {
		return nil
	}

	exec := &execute.Executor{
		Planner:  p.planner,
		Interval: interval,
		Logger:   logger,
	}
	res, err := exec.Run(ctx, p.start, plan.Actions())
	if err != nil {
		_, _ = fmt.Fprintf(stdout, "%s after %d of %d steps\n", st.Failure("execution failed"), res.Completed, len(plan.Steps))
		return err
	}
	_, _ = fmt.Fprintf(stdout, "%s %d steps, run %s\n", st.Header("executed"), res.Completed, st.Muted(res.RunID))
	_, _ = fmt.Fprintf(stdout, "%-23s%s\n", "", st.State(p.planner.DescribeState(res.State)))
	return nil
}

// writePlanText prints the cost, the start state, then one line per step.
func writePlanText(w io.Writer, st styles, p *problem, plan *astar.Plan) {
	_, _ = fmt.Fprintln(w, st.Header(fmt.Sprintf("plancost = %d", plan.Cost)))
	_, _ = fmt.Fprintf(w, "%-23s%s\n", "", st.Muted(p.planner.DescribeState(p.start)))
	for i, step := range plan.Steps {
		_, _ = fmt.Fprintf(w, "%d: %s%s\n", i, st.Action(padRight(step.Action, 20)), st.State(p.planner.DescribeState(step.State)))
	}
}

type planDocument struct {
	Domain   string        `yaml:"domain"`
	Cost     int           `yaml:"cost"`
	Expanded int           `yaml:"expanded"`
	Start    string        `yaml:"start"`
	Goal     string        `yaml:"goal"`
	Steps    []planDocStep `yaml:"steps"`
}

type planDocStep struct {
	Action string `yaml:"action"`
	State  string `yaml:"state"`
}

func writePlanYAML(w io.Writer, p *problem, plan *astar.Plan) error {
	doc := planDocument{
		Domain:   p.source,
		Cost:     plan.Cost,
		Expanded: plan.Expanded,
		Start:    p.planner.DescribeState(p.start),
		Goal:     p.planner.DescribeState(p.goal),
		Steps:    make([]planDocStep, len(plan.Steps)),
	}
	for i, step := range plan.Steps {
		doc.Steps[i] = planDocStep{Action: step.Action, State: p.planner.DescribeState(step.State)}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encode plan")
	}
	return enc.Close()
}

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	if n := width - uniseg.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func pick(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

// optionalBool is a boolean flag that remembers whether it was given.
type optionalBool struct {
	set   bool
	value bool
}

func (b *optionalBool) String() string   { return strconv.FormatBool(b.value) }
func (b *optionalBool) IsBoolFlag() bool { return true }

func (b *optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	b.set, b.value = true, v
	return nil
}
