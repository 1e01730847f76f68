// Package rubric implements the weighted multi-criteria scoring shared by the URL pre-scorer and the
// quality scorer: an ordered list of named criteria, each producing a contribution bounded by its own
// maximum, summed into a total bounded by the rubric cap.
package rubric

import (
	"errors"
	"fmt"
)

// Criterion is one named component of a rubric.
type Criterion[T any] struct {
	Name string
	// Max is the upper bound of the contribution. Contributions are clipped to [0, Max].
	Max   float64
	Score func(T) float64
}

// Rubric is an immutable ordered set of criteria.
type Rubric[T any] struct {
	criteria []Criterion[T]
	cap      float64
}

// New builds a rubric whose total is clipped to [0, limit]. A limit of zero means the sum of the
// criteria maxima.
func New[T any](limit float64, criteria ...Criterion[T]) (Rubric[T], error) {
	seen := make(map[string]struct{}, len(criteria))
	sum := 0.0
	for _, c := range criteria {
		if c.Name == "" {
			return Rubric[T]{}, errors.New("rubric criterion without a name")
		}
		if _, dup := seen[c.Name]; dup {
			return Rubric[T]{}, fmt.Errorf("duplicate rubric criterion %q", c.Name)
		}
		if c.Max <= 0 || c.Score == nil {
			return Rubric[T]{}, fmt.Errorf("rubric criterion %q needs a positive max and a score func", c.Name)
		}
		seen[c.Name] = struct{}{}
		sum += c.Max
	}
	if limit <= 0 {
		limit = sum
	}
	return Rubric[T]{criteria: append([]Criterion[T](nil), criteria...), cap: limit}, nil
}

// MustNew is New for rubrics defined at package level.
func MustNew[T any](limit float64, criteria ...Criterion[T]) Rubric[T] {
	r, err := New(limit, criteria...)
	if err != nil {
		panic(err)
	}
	return r
}

// Cap returns the upper bound of Total.
func (r Rubric[T]) Cap() float64 { return r.cap }

// Evaluate scores in against every criterion in order.
func (r Rubric[T]) Evaluate(in T) Breakdown {
	b := Breakdown{Components: make([]Component, 0, len(r.criteria))}
	sum := 0.0
	for _, c := range r.criteria {
		points := Clip(c.Score(in), 0, c.Max)
		b.Components = append(b.Components, Component{Name: c.Name, Points: points, Max: c.Max})
		sum += points
	}
	b.Total = Clip(sum, 0, r.cap)
	return b
}

// Zero returns a breakdown with every criterion at zero points, for inputs that cannot be scored.
func (r Rubric[T]) Zero() Breakdown {
	b := Breakdown{Components: make([]Component, 0, len(r.criteria))}
	for _, c := range r.criteria {
		b.Components = append(b.Components, Component{Name: c.Name, Max: c.Max})
	}
	return b
}

// Component is one criterion's clipped contribution.
type Component struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
	Max    float64 `json:"max"`
}

// Breakdown is the ordered result of a rubric evaluation.
type Breakdown struct {
	Components []Component `json:"components"`
	Total      float64     `json:"total"`
}

// Points returns the contribution of the named component, or zero.
func (b Breakdown) Points(name string) float64 {
	for _, c := range b.Components {
		if c.Name == name {
			return c.Points
		}
	}
	return 0
}

// Map returns component points keyed by name.
func (b Breakdown) Map() map[string]float64 {
	m := make(map[string]float64, len(b.Components))
	for _, c := range b.Components {
		m[c.Name] = c.Points
	}
	return m
}

// Clip bounds v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
