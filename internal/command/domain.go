package command

import (
	"flag"
	"log/slog"

	"github.com/joeycumines/goap/internal/config"
	"github.com/joeycumines/goap/internal/domain"
	"github.com/joeycumines/goap/internal/goap"
)

// domainFlags select the planning problem.
type domainFlags struct {
	path       string
	maxAtoms   int
	maxActions int
}

func (f *domainFlags) setup(fs *flag.FlagSet) {
	fs.StringVar(&f.path, "domain", "", "Domain file (.yaml, .yml or .toml); the built-in example if unset")
	fs.IntVar(&f.maxAtoms, "max-atoms", 0, "Size of the atom table (1-64)")
	fs.IntVar(&f.maxActions, "max-actions", 0, "Size of the action table (1-64)")
}

// problem is a loaded domain, registered with a planner.
type problem struct {
	source  string
	domain  *domain.Domain
	planner *goap.ActionPlanner
	start   goap.WorldState
	goal    goap.WorldState
}

// load reads the domain named by the flags or the configuration, or the
// built-in example, and builds the planner.
func (f *domainFlags) load(cfg *config.Config) (*problem, error) {
	p := &problem{source: f.path}
	if p.source == "" {
		p.source = config.DefaultSchema().Resolve(cfg, "domain")
	}

	if p.source == "" {
		p.domain = domain.Example()
		p.source = "(built-in example)"
	} else {
		d, err := domain.Load(p.source)
		if err != nil {
			return nil, err
		}
		p.domain = d
	}

	maxAtoms, maxActions := cfg.Search.MaxAtoms, cfg.Search.MaxActions
	if f.maxAtoms > 0 {
		maxAtoms = f.maxAtoms
	}
	if f.maxActions > 0 {
		maxActions = f.maxActions
	}

	ap, start, goal, err := p.domain.Build(goap.WithMaxAtoms(maxAtoms), goap.WithMaxActions(maxActions))
	if err != nil {
		return nil, err
	}
	p.planner, p.start, p.goal = ap, start, goal
	slog.Debug("domain loaded", "source", p.source, "atoms", ap.NumAtoms(), "actions", ap.NumActions())
	return p, nil
}
