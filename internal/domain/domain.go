// Package domain reads planning problems from YAML or TOML files and turns
// them into a configured [goap.ActionPlanner] with start and goal states.
package domain

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/joeycumines/goap/internal/goap"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by Load for files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("domain: unknown file format")

// Domain is a complete planning problem.
type Domain struct {
	Name    string       `yaml:"name,omitempty" toml:"name"`
	Actions []ActionSpec `yaml:"actions" toml:"actions"`
	Start   Conditions   `yaml:"start" toml:"start"`
	Goal    Conditions   `yaml:"goal" toml:"goal"`
}

// ActionSpec declares one action. A nil Cost keeps the planner default.
type ActionSpec struct {
	Name string     `yaml:"name" toml:"name"`
	Pre  Conditions `yaml:"pre,omitempty" toml:"pre"`
	Post Conditions `yaml:"post,omitempty" toml:"post"`
	Cost *int       `yaml:"cost,omitempty" toml:"cost"`
}

// Load reads a domain file, choosing the decoder by extension.
func Load(path string) (*Domain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read domain %s", path)
	}
	var d *Domain
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		d, err = ParseYAML(data)
	case ".toml":
		d, err = ParseTOML(data)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load domain %s", path)
	}
	return d, nil
}

// ParseYAML decodes and validates a YAML domain. Unknown fields are errors.
func ParseYAML(data []byte) (*Domain, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("domain payload is empty")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var d Domain
	if err := dec.Decode(&d); err != nil {
		return nil, errors.Wrap(err, "parse domain yaml")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseTOML decodes and validates a TOML domain. Unknown keys are errors.
func ParseTOML(data []byte) (*Domain, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("domain payload is empty")
	}
	var d Domain
	md, err := toml.Decode(string(data), &d)
	if err != nil {
		return nil, errors.Wrap(err, "parse domain toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Newf("parse domain toml: unknown key %q", undecoded[0].String())
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks the parts of a domain that the planner cannot: every
// action is named once and touches at least one atom, and costs are not
// negative.
func (d *Domain) Validate() error {
	if len(d.Actions) == 0 {
		return errors.New("domain declares no actions")
	}
	seen := make(map[string]struct{}, len(d.Actions))
	for i, a := range d.Actions {
		if a.Name == "" {
			return errors.Newf("action %d has no name", i)
		}
		if _, dup := seen[a.Name]; dup {
			return errors.Newf("action %q declared twice", a.Name)
		}
		seen[a.Name] = struct{}{}
		if len(a.Pre) == 0 && len(a.Post) == 0 {
			return errors.Newf("action %q has neither preconditions nor effects", a.Name)
		}
		if a.Cost != nil && *a.Cost < 0 {
			return errors.Newf("action %q has negative cost %d", a.Name, *a.Cost)
		}
		for _, c := range []Conditions{a.Pre, a.Post} {
			if err := c.check(); err != nil {
				return errors.Wrapf(err, "action %q", a.Name)
			}
		}
	}
	if err := d.Start.check(); err != nil {
		return errors.Wrap(err, "start")
	}
	if err := d.Goal.check(); err != nil {
		return errors.Wrap(err, "goal")
	}
	return nil
}

// Build registers the domain with a new planner and returns it with the
// start and goal states. Actions are registered in declaration order, each
// one's preconditions before its effects, so atom bit positions follow the
// file.
func (d *Domain) Build(opts ...goap.Option) (*goap.ActionPlanner, goap.WorldState, goap.WorldState, error) {
	start, goal := goap.NewWorldState(), goap.NewWorldState()
	if err := d.Validate(); err != nil {
		return nil, start, goal, err
	}

	ap := goap.NewActionPlanner(opts...)
	for _, a := range d.Actions {
		for _, l := range a.Pre {
			if err := ap.SetPrecondition(a.Name, l.Atom, l.Value); err != nil {
				return nil, start, goal, errors.Wrapf(err, "action %q", a.Name)
			}
		}
		for _, l := range a.Post {
			if err := ap.SetEffect(a.Name, l.Atom, l.Value); err != nil {
				return nil, start, goal, errors.Wrapf(err, "action %q", a.Name)
			}
		}
	}
	for _, a := range d.Actions {
		if a.Cost == nil {
			continue
		}
		if err := ap.SetCost(a.Name, *a.Cost); err != nil {
			return nil, start, goal, err
		}
	}

	for _, l := range d.Start {
		if err := ap.SetAtom(&start, l.Atom, l.Value); err != nil {
			return nil, start, goal, errors.Wrap(err, "start")
		}
	}
	for _, l := range d.Goal {
		if err := ap.SetAtom(&goal, l.Atom, l.Value); err != nil {
			return nil, start, goal, errors.Wrap(err, "goal")
		}
	}
	return ap, start, goal, nil
}
