// Package gen produces random argumentation frameworks and update
// streams for benchmarking and fuzzing the solver.
package gen

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dasplabs/dasp/pkg/af"
)

// Config controls instance generation. All probabilities are in [0, 1].
type Config struct {
	// Arguments is the size of the initial framework.
	Arguments int `yaml:"arguments"`
	// EdgeProb is the probability of an attack between each ordered
	// pair of distinct arguments.
	EdgeProb float64 `yaml:"edge_prob"`
	// SelfAttackProb is the probability of an argument attacking itself.
	SelfAttackProb float64 `yaml:"self_attack_prob"`
	// ArgOptionalProb marks an argument optional; only optional
	// elements are touched by generated updates.
	ArgOptionalProb float64 `yaml:"arg_optional_prob"`
	// AttackOptionalProb marks an attack optional.
	AttackOptionalProb float64 `yaml:"attack_optional_prob"`
	// UpdateEdgeProb selects, per eligible attack, whether an
	// enable-argument update also activates it.
	UpdateEdgeProb float64 `yaml:"update_edge_prob"`
	// Updates is the number of update lines to generate.
	Updates int `yaml:"updates"`
	// Seed makes generation deterministic.
	Seed int64 `yaml:"seed"`
	// Format selects the output format (apx or tgf).
	Format af.FileFormat `yaml:"format"`
}

// DefaultConfig mirrors the historical generator defaults.
func DefaultConfig() Config {
	return Config{
		Arguments:          1000,
		EdgeProb:           0.05,
		SelfAttackProb:     0,
		ArgOptionalProb:    0.05,
		AttackOptionalProb: 0.05,
		UpdateEdgeProb:     0.25,
		Updates:            0,
		Seed:               1,
		Format:             af.FormatTGF,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading generator config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing generator config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Arguments < 0 || c.Updates < 0 {
		return fmt.Errorf("negative counts in generator config")
	}
	for _, p := range []float64{c.EdgeProb, c.SelfAttackProb, c.ArgOptionalProb, c.AttackOptionalProb, c.UpdateEdgeProb} {
		if p < 0 || p > 1 {
			return fmt.Errorf("probability %v outside [0, 1]", p)
		}
	}
	if c.Format != af.FormatAPX && c.Format != af.FormatTGF {
		return fmt.Errorf("unknown output format %q", c.Format)
	}
	return nil
}

// argState and attState track element lifecycles while updates are
// generated.
type argState struct {
	arg   af.Argument
	alive bool
}

type attState struct {
	att   af.Attack
	alive bool
}

// Generator produces one framework and its update stream from a seeded
// source.
type Generator struct {
	cfg Config
	rng *rand.Rand

	args []argState
	atts []attState
}

// New builds a generator; the same config always yields the same output.
func New(cfg Config) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}, nil
}

// Framework generates the initial elements. Optional elements start
// dead, matching the load semantics.
func (g *Generator) Framework() ([]af.Argument, []af.Attack) {
	g.args = g.args[:0]
	g.atts = g.atts[:0]
	for i := 0; i < g.cfg.Arguments; i++ {
		arg := af.Argument{
			ID:       fmt.Sprintf("a%d", i+1),
			Optional: g.rng.Float64() < g.cfg.ArgOptionalProb,
		}
		g.args = append(g.args, argState{arg: arg, alive: !arg.Optional})
	}
	for i := range g.args {
		for j := range g.args {
			prob := g.cfg.EdgeProb
			if i == j {
				prob = g.cfg.SelfAttackProb
			}
			if g.rng.Float64() >= prob {
				continue
			}
			att := af.Attack{
				From:     g.args[i].arg.ID,
				To:       g.args[j].arg.ID,
				Optional: g.rng.Float64() < g.cfg.AttackOptionalProb,
			}
			g.atts = append(g.atts, attState{att: att, alive: !att.Optional})
		}
	}
	args := make([]af.Argument, len(g.args))
	for i, s := range g.args {
		args[i] = s.arg
	}
	atts := make([]af.Attack, len(g.atts))
	for i, s := range g.atts {
		atts[i] = s.att
	}
	return args, atts
}

// Updates generates up to cfg.Updates update lines against the last
// generated framework, tracking element states so every line is legal at
// the point it appears. Generation stops early when no legal update
// remains.
func (g *Generator) Updates() []string {
	var lines []string
	for i := 0; i < g.cfg.Updates; i++ {
		patch, ok := g.nextPatch()
		if !ok {
			break
		}
		g.commit(patch)
		lines = append(lines, g.formatPatch(patch))
	}
	return lines
}

// nextPatch picks uniformly among the update kinds that currently have
// an eligible target.
func (g *Generator) nextPatch() (af.Patch, bool) {
	var deadArgs, aliveOptArgs []int
	for i, s := range g.args {
		switch {
		case !s.alive:
			deadArgs = append(deadArgs, i)
		case s.arg.Optional:
			aliveOptArgs = append(aliveOptArgs, i)
		}
	}
	var deadAtts, aliveOptAtts []int
	for i, s := range g.atts {
		switch {
		case !s.alive:
			deadAtts = append(deadAtts, i)
		case s.att.Optional:
			aliveOptAtts = append(aliveOptAtts, i)
		}
	}

	type kind int
	const (
		enableArg kind = iota
		disableArg
		enableAtt
		disableAtt
	)
	var options []kind
	if len(deadArgs) > 0 {
		options = append(options, enableArg)
	}
	if len(aliveOptArgs) > 0 {
		options = append(options, disableArg)
	}
	if len(deadAtts) > 0 {
		options = append(options, enableAtt)
	}
	if len(aliveOptAtts) > 0 {
		options = append(options, disableAtt)
	}
	if len(options) == 0 {
		return af.Patch{}, false
	}

	switch options[g.rng.Intn(len(options))] {
	case enableArg:
		idx := deadArgs[g.rng.Intn(len(deadArgs))]
		id := g.args[idx].arg.ID
		var with []af.Attack
		for _, ai := range deadAtts {
			att := g.atts[ai].att
			if att.From != id && att.To != id {
				continue
			}
			if g.rng.Float64() < g.cfg.UpdateEdgeProb {
				with = append(with, af.Attack{From: att.From, To: att.To})
			}
		}
		return af.EnableArgument(id, with...), true
	case disableArg:
		idx := aliveOptArgs[g.rng.Intn(len(aliveOptArgs))]
		return af.DisableArgument(g.args[idx].arg.ID), true
	case enableAtt:
		idx := deadAtts[g.rng.Intn(len(deadAtts))]
		att := g.atts[idx].att
		return af.EnableAttack(att.From, att.To), true
	default:
		idx := aliveOptAtts[g.rng.Intn(len(aliveOptAtts))]
		att := g.atts[idx].att
		return af.DisableAttack(att.From, att.To), true
	}
}

// commit applies the generated patch to the tracked states.
func (g *Generator) commit(p af.Patch) {
	alive := p.Action == af.Enable
	if p.Kind == af.KindArgument {
		for i := range g.args {
			if g.args[i].arg.ID == p.Argument.ID {
				g.args[i].alive = alive
			}
		}
		for _, with := range p.With {
			for i := range g.atts {
				if g.atts[i].att.Same(with) {
					g.atts[i].alive = true
				}
			}
		}
		return
	}
	for i := range g.atts {
		if g.atts[i].att.Same(p.Attack) {
			g.atts[i].alive = alive
		}
	}
}

func (g *Generator) formatPatch(p af.Patch) string {
	if g.cfg.Format == af.FormatAPX {
		return formatAPXM(p)
	}
	return formatTGFM(p)
}

func formatAPXM(p af.Patch) string {
	var b strings.Builder
	if p.Action == af.Enable {
		b.WriteByte('+')
	} else {
		b.WriteByte('-')
	}
	if p.Kind == af.KindArgument {
		fmt.Fprintf(&b, "arg(%s)", p.Argument.ID)
		for _, att := range p.With {
			fmt.Fprintf(&b, ":att(%s,%s)", att.From, att.To)
		}
	} else {
		fmt.Fprintf(&b, "att(%s,%s)", p.Attack.From, p.Attack.To)
	}
	b.WriteByte('.')
	return b.String()
}

func formatTGFM(p af.Patch) string {
	var b strings.Builder
	if p.Action == af.Enable {
		b.WriteByte('+')
	} else {
		b.WriteByte('-')
	}
	if p.Kind == af.KindArgument {
		b.WriteString(p.Argument.ID)
		for _, att := range p.With {
			fmt.Fprintf(&b, ":%s %s", att.From, att.To)
		}
	} else {
		fmt.Fprintf(&b, "%s %s", p.Attack.From, p.Attack.To)
	}
	return b.String()
}
