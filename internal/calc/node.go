package calc

import (
	"fmt"
	"strings"

	"github.com/dhamidi/pegast/ast"
)

// Env maps variable names to values.
type Env map[string]int64

type Program struct {
	ast.Container
	Assigns ast.List[*Assign]
	Result  ast.Ptr[*Sum]
}

// Eval runs the assignments in order and evaluates the final expression.
func (p *Program) Eval() (int64, error) {
	env := Env{}
	for _, a := range p.Assigns.All() {
		v, err := a.Value.Get().Eval(env)
		if err != nil {
			return 0, err
		}
		env[a.Name.Get().String()] = v
	}
	return p.Result.Get().Eval(env)
}

func (p *Program) String() string {
	var b strings.Builder
	for _, a := range p.Assigns.All() {
		fmt.Fprintf(&b, "%s; ", a)
	}
	b.WriteString(p.Result.Get().String())
	return b.String()
}

type Assign struct {
	ast.Container
	Name  ast.Child[ast.String]
	Value ast.Ptr[*Sum]
}

func (a *Assign) Declare(asm *ast.Assembly) {
	a.Name.Register(asm)
	a.Value.Register(asm)
}

func (a *Assign) String() string {
	return fmt.Sprintf("%s = %s", a.Name.Get(), a.Value.Get())
}

type Sum struct {
	ast.Container
	LHS ast.Ptr[*Term]
	RHS ast.Rest[*Term]
}

func (s *Sum) Eval(env Env) (int64, error) {
	v, err := s.LHS.Get().Eval(env)
	if err != nil {
		return 0, err
	}
	for _, t := range s.RHS.All() {
		w, err := t.Eval(env)
		if err != nil {
			return 0, err
		}
		v += w
	}
	return v, nil
}

func (s *Sum) String() string {
	parts := []string{s.LHS.Get().String()}
	for _, t := range s.RHS.All() {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " + ")
}

type Term struct {
	ast.Container
	LHS ast.Ptr[*Factor]
	RHS ast.Rest[*Factor]
}

func (t *Term) Eval(env Env) (int64, error) {
	v, err := t.LHS.Get().Eval(env)
	if err != nil {
		return 0, err
	}
	for _, f := range t.RHS.All() {
		w, err := f.Eval(env)
		if err != nil {
			return 0, err
		}
		v *= w
	}
	return v, nil
}

func (t *Term) String() string {
	parts := []string{t.LHS.Get().String()}
	for _, f := range t.RHS.All() {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, " * ")
}

// Factor is exactly one of a number, a variable or a parenthesized sum.
type Factor struct {
	ast.Container
	Number ast.Optional[*Number]
	Name   ast.Optional[*ast.String]
	Group  ast.Optional[*Sum]
}

func (f *Factor) Eval(env Env) (int64, error) {
	if n, ok := f.Number.Get(); ok {
		return n.Value.Get(), nil
	}
	if name, ok := f.Name.Get(); ok {
		v, ok := env[name.String()]
		if !ok {
			return 0, fmt.Errorf("undefined variable %q", name.String())
		}
		return v, nil
	}
	if s, ok := f.Group.Get(); ok {
		return s.Eval(env)
	}
	return 0, fmt.Errorf("empty factor")
}

func (f *Factor) String() string {
	if n, ok := f.Number.Get(); ok {
		return n.String()
	}
	if name, ok := f.Name.Get(); ok {
		return name.String()
	}
	if s, ok := f.Group.Get(); ok {
		return "(" + s.String() + ")"
	}
	return "?"
}

type Number struct {
	ast.Container
	Value ast.Value[int64]
}

func (n *Number) String() string {
	return fmt.Sprint(n.Value.Get())
}
