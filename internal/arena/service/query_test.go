package service_test

import (
	"testing"

	"ojarena/internal/arena/runlist"
	"ojarena/internal/arena/service"
	pkgerrors "ojarena/pkg/errors"
)

func TestApplyFilterChange(t *testing.T) {
	base := service.RunQuery{ContestAlias: "c1", Verdict: "WA", Offset: 3, RowCount: 10}

	testCases := []struct {
		name  string
		event runlist.FilterChanged
		want  service.RunQuery
	}{
		{
			name:  "offset moves page",
			event: runlist.FilterChanged{Filter: "offset", Value: "4"},
			want:  service.RunQuery{ContestAlias: "c1", Verdict: "WA", Offset: 4, RowCount: 10},
		},
		{
			name:  "verdict resets offset",
			event: runlist.FilterChanged{Filter: "verdict", Value: "AC"},
			want:  service.RunQuery{ContestAlias: "c1", Verdict: "AC", Offset: 0, RowCount: 10},
		},
		{
			name:  "empty value clears dimension",
			event: runlist.FilterChanged{Filter: "verdict", Value: ""},
			want:  service.RunQuery{ContestAlias: "c1", Offset: 0, RowCount: 10},
		},
		{
			name:  "username",
			event: runlist.FilterChanged{Filter: "username", Value: "alice"},
			want:  service.RunQuery{ContestAlias: "c1", Verdict: "WA", Username: "alice", RowCount: 10},
		},
		{
			name:  "problem",
			event: runlist.FilterChanged{Filter: "problem", Value: "sumas"},
			want:  service.RunQuery{ContestAlias: "c1", Verdict: "WA", Problem: "sumas", RowCount: 10},
		},
		{
			name:  "status and language",
			event: runlist.FilterChanged{Filter: "language", Value: "py3"},
			want:  service.RunQuery{ContestAlias: "c1", Verdict: "WA", Language: "py3", RowCount: 10},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.ApplyFilterChange(base, tc.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("query = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestApplyFilterChangeRejectsBadInput(t *testing.T) {
	base := service.RunQuery{ContestAlias: "c1", Offset: 2, RowCount: 10}

	testCases := []struct {
		name  string
		event runlist.FilterChanged
		code  pkgerrors.ErrorCode
	}{
		{name: "unknown filter", event: runlist.FilterChanged{Filter: "color", Value: "red"}, code: pkgerrors.InvalidFilter},
		{name: "negative offset", event: runlist.FilterChanged{Filter: "offset", Value: "-1"}, code: pkgerrors.InvalidOffset},
		{name: "non numeric offset", event: runlist.FilterChanged{Filter: "offset", Value: "two"}, code: pkgerrors.InvalidOffset},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.ApplyFilterChange(base, tc.event)
			if !pkgerrors.Is(err, tc.code) {
				t.Fatalf("error = %v, want code %d", err, tc.code)
			}
			if got != base {
				t.Fatalf("query changed on error: %+v", got)
			}
		})
	}
}

func TestRunQuerySelection(t *testing.T) {
	q := service.RunQuery{ContestAlias: "c1", ProblemAlias: "page", Verdict: "AC", Username: "bob"}
	sel := q.Selection()
	if sel.Get(runlist.DimensionVerdict) != "AC" || sel.Get(runlist.DimensionUsername) != "bob" {
		t.Fatalf("unexpected selection: %v", sel)
	}
	if _, ok := sel[runlist.DimensionProblem]; ok {
		t.Fatalf("page problem must not become a filter: %v", sel)
	}
	if len(sel) != 2 {
		t.Fatalf("selection size = %d, want 2", len(sel))
	}
}
