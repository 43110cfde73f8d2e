package runlist

import (
	"errors"
	"fmt"
)

// Dimension names one axis the owner can constrain the run query on.
type Dimension string

const (
	DimensionVerdict  Dimension = "verdict"
	DimensionStatus   Dimension = "status"
	DimensionLanguage Dimension = "language"
	DimensionUsername Dimension = "username"
	DimensionProblem  Dimension = "problem"
	DimensionOffset   Dimension = "offset"
)

// filterDimensions are the dimensions matched against run fields, in the
// order their controls are laid out.
var filterDimensions = []Dimension{
	DimensionVerdict,
	DimensionStatus,
	DimensionLanguage,
	DimensionUsername,
	DimensionProblem,
}

// ErrUnknownDimension is returned for a filter name outside the supported set.
var ErrUnknownDimension = errors.New("unknown filter dimension")

// ParseDimension validates a filter name received from the outside.
func ParseDimension(name string) (Dimension, error) {
	d := Dimension(name)
	if d == DimensionOffset || d.Filterable() {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, name)
}

// Filterable reports whether d selects runs by field value. Offset is a
// pager dimension and never filters.
func (d Dimension) Filterable() bool {
	for _, fd := range filterDimensions {
		if fd == d {
			return true
		}
	}
	return false
}

// Selection maps filter dimensions to the chosen value. A missing key or an
// empty value leaves that dimension unconstrained.
type Selection map[Dimension]string

// Clone returns an independent copy of s.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for d, v := range s {
		out[d] = v
	}
	return out
}

// Get returns the active value for d, or "" when unconstrained.
func (s Selection) Get(d Dimension) string {
	if s == nil {
		return ""
	}
	return s[d]
}

// Active lists constrained dimensions in layout order.
func (s Selection) Active() []Dimension {
	var active []Dimension
	for _, d := range filterDimensions {
		if s.Get(d) != "" {
			active = append(active, d)
		}
	}
	return active
}

// Matches reports whether run satisfies every active dimension exactly.
func (s Selection) Matches(run Run) bool {
	for _, d := range filterDimensions {
		want := s.Get(d)
		if want == "" {
			continue
		}
		if fieldValue(run, d) != want {
			return false
		}
	}
	return true
}

// Filter keeps the runs matching every active dimension of sel, preserving order.
func Filter(runs []Run, sel Selection) []Run {
	if len(sel.Active()) == 0 {
		return runs
	}
	out := make([]Run, 0, len(runs))
	for _, run := range runs {
		if sel.Matches(run) {
			out = append(out, run)
		}
	}
	return out
}

func fieldValue(run Run, d Dimension) string {
	switch d {
	case DimensionVerdict:
		return string(run.Verdict)
	case DimensionStatus:
		return string(run.Status)
	case DimensionLanguage:
		return run.Language
	case DimensionUsername:
		return run.Username
	case DimensionProblem:
		return run.Alias
	default:
		return ""
	}
}
