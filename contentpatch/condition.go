package contentpatch

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Context is the game state When conditions are evaluated against.
type Context struct {
	Day     int
	Season  string
	Weather string
}

const conditionResult = "__applied"

// Condition is a compiled When expression. The zero Condition is always
// true.
type Condition struct {
	src      string
	compiled *tengo.Compiled
}

// CompileCondition compiles a tengo boolean expression over day, season and
// weather.
func CompileCondition(expr string) (*Condition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return &Condition{}, nil
	}

	script := tengo.NewScript([]byte(conditionResult + " := (" + expr + ")"))
	_ = script.Add("day", 0)
	_ = script.Add("season", "")
	_ = script.Add("weather", "")
	script.SetImports(stdlib.GetModuleMap("text", "math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("contentpatch: compile %q: %w", expr, err)
	}
	return &Condition{src: expr, compiled: compiled}, nil
}

func (c *Condition) String() string {
	if c == nil {
		return ""
	}
	return c.src
}

// Eval runs the expression against ctx and reports its truthiness.
func (c *Condition) Eval(ctx Context) (bool, error) {
	if c == nil || c.compiled == nil {
		return true, nil
	}
	if err := c.compiled.Set("day", ctx.Day); err != nil {
		return false, err
	}
	if err := c.compiled.Set("season", ctx.Season); err != nil {
		return false, err
	}
	if err := c.compiled.Set("weather", ctx.Weather); err != nil {
		return false, err
	}
	if err := c.compiled.Run(); err != nil {
		return false, fmt.Errorf("contentpatch: run %q: %w", c.src, err)
	}
	return c.compiled.Get(conditionResult).Bool(), nil
}
