package service

import (
	"math"
	"strconv"

	"ojarena/internal/arena/repository"
	"ojarena/internal/arena/runlist"
	pkgerrors "ojarena/pkg/errors"
)

// RunQuery is the authoritative run list query an owner holds for one
// open list. The view only proposes changes to it.
type RunQuery struct {
	ContestAlias string `json:"contest_alias"`
	// ProblemAlias is the page context; Problem is the user's problem filter.
	ProblemAlias string `json:"problem_alias,omitempty"`
	Problem      string `json:"problem,omitempty"`
	Verdict      string `json:"verdict,omitempty"`
	Status       string `json:"status,omitempty"`
	Language     string `json:"language,omitempty"`
	Username     string `json:"username,omitempty"`
	Offset       int    `json:"offset"`
	RowCount     int    `json:"row_count"`
}

// ApplyFilterChange folds one filter-changed event into q. An offset event
// moves to that page; any other dimension replaces its value and returns to
// the first page.
func ApplyFilterChange(q RunQuery, event runlist.FilterChanged) (RunQuery, error) {
	dim, err := runlist.ParseDimension(event.Filter)
	if err != nil {
		return q, pkgerrors.FilterError(event.Filter, event.Value)
	}

	if dim == runlist.DimensionOffset {
		offset, err := strconv.Atoi(event.Value)
		if err != nil || offset < 0 {
			return q, pkgerrors.New(pkgerrors.InvalidOffset).WithDetail("value", event.Value)
		}
		q.Offset = offset
		return q, nil
	}

	switch dim {
	case runlist.DimensionVerdict:
		q.Verdict = event.Value
	case runlist.DimensionStatus:
		q.Status = event.Value
	case runlist.DimensionLanguage:
		q.Language = event.Value
	case runlist.DimensionUsername:
		q.Username = event.Value
	case runlist.DimensionProblem:
		q.Problem = event.Value
	}
	q.Offset = 0
	return q, nil
}

// Selection is the filter state a view must show for q.
func (q RunQuery) Selection() runlist.Selection {
	sel := runlist.Selection{}
	set := func(d runlist.Dimension, v string) {
		if v != "" {
			sel[d] = v
		}
	}
	set(runlist.DimensionVerdict, q.Verdict)
	set(runlist.DimensionStatus, q.Status)
	set(runlist.DimensionLanguage, q.Language)
	set(runlist.DimensionUsername, q.Username)
	set(runlist.DimensionProblem, q.Problem)
	return sel
}

// window is how many newest matching runs the view needs to render the
// current page and decide whether a next page exists.
func (q RunQuery) window(maxRows int) int {
	if q.RowCount <= 0 {
		return maxRows
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	limit := maxRows
	if limit <= 0 {
		limit = math.MaxInt
	}
	if offset >= (limit-1)/q.RowCount {
		return limit
	}
	return (offset+1)*q.RowCount + 1
}

func (q RunQuery) filter(maxRows int) repository.RunFilter {
	problem := q.Problem
	if problem == "" {
		problem = q.ProblemAlias
	}
	return repository.RunFilter{
		ContestAlias: q.ContestAlias,
		ProblemAlias: problem,
		Verdict:      q.Verdict,
		Status:       q.Status,
		Language:     q.Language,
		Username:     q.Username,
		Limit:        q.window(maxRows),
	}
}
