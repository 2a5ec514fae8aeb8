package lang

import (
	"log/slog"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Program is a specification body compiled as an expr-lang expression.
//
// A Program reuses one virtual machine and environment between calls to
// [Program.Eval], so it must not be used by more than one goroutine at a
// time. Compile one Program per goroutine instead.
type Program struct {
	program *vm.Program
	env     map[string]any
	body    Fragment
	params  []Param
	machine vm.VM
}

// Compile compiles the body with every parameter bound to an int.
func (s *Spec) Compile() (*Program, error) {
	env := make(map[string]any, len(s.Params))
	for _, p := range s.Params {
		env[p.Name] = 0
	}

	program, err := expr.Compile(s.Body.Text, expr.Env(env))
	if err != nil {
		return nil, ErrBodyCompile.WithPosition(s.Body.Pos).Wrap(err).
			With(slog.String("body", s.Body.Text))
	}

	return &Program{
		program: program,
		env:     env,
		body:    s.Body,
		params:  s.Params,
	}, nil
}

// Eval evaluates the body with each parameter bound to the corresponding
// value, in declaration order.
func (p *Program) Eval(values ...uint64) (any, error) {
	if len(values) != len(p.params) {
		return nil, ErrBodyEvaluate.
			Wrapf("got %d values for %d parameters", len(values), len(p.params))
	}

	for i, param := range p.params {
		if values[i] > math.MaxInt {
			return nil, ErrBodyEvaluate.
				Wrapf("value %d of `%s` overflows int", values[i], param.Name)
		}

		p.env[param.Name] = int(values[i])
	}

	result, err := p.machine.Run(p.program, p.env)
	if err != nil {
		return nil, ErrBodyEvaluate.WithPosition(p.body.Pos).Wrap(err).
			With(slog.String("body", p.body.Text), slog.Any("values", values))
	}

	return result, nil
}

// Source returns the compiled body text.
func (p *Program) Source() string { return p.body.Text }
