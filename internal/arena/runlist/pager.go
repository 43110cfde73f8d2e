package runlist

import "math"

// Pager slices the filtered runs into pages of RowCount rows. Offset is the
// zero-based page index. A RowCount of zero or less disables pagination.
type Pager struct {
	Offset   int
	RowCount int
}

// Enabled reports whether runs are split into pages at all.
func (p Pager) Enabled() bool {
	return p.RowCount > 0
}

func (p Pager) offset() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// Bounds returns the half-open slice [start, end) of an n-run sequence shown
// on the current page. An offset past the end yields an empty range.
func (p Pager) Bounds(n int) (start, end int) {
	if !p.Enabled() {
		return 0, n
	}
	offset := p.offset()
	if n <= 0 || offset > (n-1)/p.RowCount {
		return n, n
	}
	start = offset * p.RowCount
	if p.RowCount >= n-start {
		return start, n
	}
	return start, start + p.RowCount
}

// Slice returns the runs visible on the current page.
func (p Pager) Slice(runs []Run) []Run {
	start, end := p.Bounds(len(runs))
	return runs[start:end]
}

// PreviousDisabled reports whether the previous control is inert.
func (p Pager) PreviousDisabled() bool {
	return p.offset() == 0
}

// NextDisabled reports whether the current page already reaches the end of
// an n-run sequence.
func (p Pager) NextDisabled(n int) bool {
	if !p.Enabled() {
		return true
	}
	if n <= 0 {
		return true
	}
	return p.offset() >= (n-1)/p.RowCount
}

// Label is the 1-based page number shown to humans.
func (p Pager) Label() int {
	if p.offset() == math.MaxInt {
		return math.MaxInt
	}
	return p.offset() + 1
}
