package driver

import (
	"fmt"

	"synthizer/internal/ast"
	"synthizer/internal/source"
)

// Samples hold the rendered output of an entry point over a time range.
type Samples struct {
	Rate   int
	Values []float64
}

// Render samples the entry point over [0, seconds) at rate samples per
// second. The definition must already have passed the entry point
// check, so it takes exactly one parameter.
func Render(entry *ast.FunctionDef, rate int, seconds float64) (*Samples, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", rate)
	}
	if seconds < 0 {
		return nil, fmt.Errorf("render length must not be negative, got %g", seconds)
	}
	params := entry.Params()
	if len(params) != 1 {
		return nil, fmt.Errorf("entry point `%s` must take exactly one argument, got %d",
			entry.Name(), len(params))
	}

	count := int(seconds * float64(rate))
	out := &Samples{
		Rate:   rate,
		Values: make([]float64, 0, count),
	}
	timeParam := params[0]
	for i := 0; i < count; i++ {
		t := float64(i) / float64(rate)
		v, err := entry.Call(map[source.StringID]float64{timeParam: t})
		if err != nil {
			return nil, fmt.Errorf("eval at t=%g: %w", t, err)
		}
		out.Values = append(out.Values, v)
	}
	return out, nil
}
