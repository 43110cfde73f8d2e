package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"ojarena/internal/arena/notifier"
	"ojarena/internal/arena/runlist"
	"ojarena/internal/arena/service"
	pkgerrors "ojarena/pkg/errors"
)

func contestRuns(n int) []runlist.Run {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	runs := make([]runlist.Run, 0, n)
	for i := 0; i < n; i++ {
		runs = append(runs, runlist.Run{
			GUID:         fmt.Sprintf("g%02d", i),
			Time:         start.Add(time.Duration(i) * time.Minute),
			Username:     "alice",
			Language:     "cpp17-gcc",
			ContestAlias: "c1",
		})
	}
	return runs
}

func TestRunsServicePage(t *testing.T) {
	testCases := []struct {
		name        string
		query       service.RunQuery
		total       int
		wantLimit   int
		wantVisible []string
		wantMore    bool
	}{
		{
			name:        "first page",
			query:       service.RunQuery{ContestAlias: "c1", RowCount: 2},
			total:       5,
			wantLimit:   3,
			wantVisible: []string{"g04", "g03"},
			wantMore:    true,
		},
		{
			name:        "last page",
			query:       service.RunQuery{ContestAlias: "c1", Offset: 2, RowCount: 2},
			total:       5,
			wantLimit:   7,
			wantVisible: []string{"g00"},
			wantMore:    false,
		},
		{
			name:        "exact fit has no next page",
			query:       service.RunQuery{ContestAlias: "c1", RowCount: 5},
			total:       5,
			wantLimit:   6,
			wantVisible: []string{"g04", "g03", "g02", "g01", "g00"},
			wantMore:    false,
		},
		{
			name:        "pagination disabled",
			query:       service.RunQuery{ContestAlias: "c1"},
			total:       3,
			wantLimit:   50,
			wantVisible: []string{"g02", "g01", "g00"},
			wantMore:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRunRepo{runs: contestRuns(tc.total)}
			svc := service.NewRunsService(repo, nil, nil, service.RunsOptions{MaxRows: 50})

			result, err := svc.Page(context.Background(), tc.query)
			if err != nil {
				t.Fatalf("page failed: %v", err)
			}
			if got := repo.lastFilter().Limit; got != tc.wantLimit {
				t.Fatalf("limit = %d, want %d", got, tc.wantLimit)
			}
			visible := result.Visible()
			if len(visible) != len(tc.wantVisible) {
				t.Fatalf("visible = %d runs, want %d", len(visible), len(tc.wantVisible))
			}
			for i, guid := range tc.wantVisible {
				if visible[i].GUID != guid {
					t.Fatalf("visible[%d] = %s, want %s", i, visible[i].GUID, guid)
				}
			}
			if result.HasMore != tc.wantMore {
				t.Fatalf("has more = %v, want %v", result.HasMore, tc.wantMore)
			}
		})
	}
}

func TestRunsServicePageCapsWindow(t *testing.T) {
	repo := &fakeRunRepo{runs: contestRuns(3)}
	svc := service.NewRunsService(repo, nil, nil, service.RunsOptions{MaxRows: 10})

	if _, err := svc.Page(context.Background(), service.RunQuery{ContestAlias: "c1", Offset: 20, RowCount: 5}); err != nil {
		t.Fatalf("page failed: %v", err)
	}
	if got := repo.lastFilter().Limit; got != 10 {
		t.Fatalf("limit = %d, want 10", got)
	}
}

func TestRunsServicePageHugeOffset(t *testing.T) {
	for _, rowCount := range []int{1, 2, math.MaxInt} {
		repo := &fakeRunRepo{runs: contestRuns(5)}
		svc := service.NewRunsService(repo, nil, nil, service.RunsOptions{MaxRows: 10})

		result, err := svc.Page(context.Background(), service.RunQuery{ContestAlias: "c1", Offset: math.MaxInt, RowCount: rowCount})
		if err != nil {
			t.Fatalf("row count %d: page failed: %v", rowCount, err)
		}
		if got := repo.lastFilter().Limit; got != 10 {
			t.Fatalf("row count %d: limit = %d, want 10", rowCount, got)
		}
		if len(result.Visible()) != 0 || result.HasMore {
			t.Fatalf("row count %d: expected an empty last page, got %d runs more=%v", rowCount, len(result.Visible()), result.HasMore)
		}
	}
}

func TestRunsServicePageFilterUsesProblemFilterFirst(t *testing.T) {
	repo := &fakeRunRepo{}
	svc := service.NewRunsService(repo, nil, nil, service.RunsOptions{})

	q := service.RunQuery{ContestAlias: "c1", ProblemAlias: "page", RowCount: 10}
	if _, err := svc.Page(context.Background(), q); err != nil {
		t.Fatalf("page failed: %v", err)
	}
	if got := repo.lastFilter().ProblemAlias; got != "page" {
		t.Fatalf("problem = %q, want page", got)
	}

	q.Problem = "other"
	if _, err := svc.Page(context.Background(), q); err != nil {
		t.Fatalf("page failed: %v", err)
	}
	if got := repo.lastFilter().ProblemAlias; got != "other" {
		t.Fatalf("problem = %q, want other", got)
	}
}

func TestRunsServicePageErrors(t *testing.T) {
	svc := service.NewRunsService(&fakeRunRepo{}, nil, nil, service.RunsOptions{})
	if _, err := svc.Page(context.Background(), service.RunQuery{}); !pkgerrors.Is(err, pkgerrors.ValidationFailed) {
		t.Fatalf("missing contest error = %v", err)
	}
	if _, err := svc.Page(context.Background(), service.RunQuery{ContestAlias: "c1", Offset: -1}); !pkgerrors.Is(err, pkgerrors.InvalidOffset) {
		t.Fatalf("negative offset error = %v", err)
	}

	failing := service.NewRunsService(&fakeRunRepo{listErr: errors.New("boom")}, nil, nil, service.RunsOptions{})
	_, err := failing.Page(context.Background(), service.RunQuery{ContestAlias: "c1"})
	if !pkgerrors.Is(err, pkgerrors.DatabaseError) {
		t.Fatalf("db error = %v", err)
	}
}

func TestRunsServiceCompare(t *testing.T) {
	runs := contestRuns(2)
	repo := &fakeRunRepo{runs: runs}
	sources := fakeSources{
		"g00": "int main() {\n  return 0;\n}\n",
		"g01": "int main() {\n  return 1;\n}\n",
	}
	svc := service.NewRunsService(repo, sources, nil, service.RunsOptions{})

	diff, err := svc.Compare(context.Background(), "g00", "g01")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !strings.Contains(diff, "-  return 0;") || !strings.Contains(diff, "+  return 1;") {
		t.Fatalf("unexpected diff:\n%s", diff)
	}
	if !strings.Contains(diff, "--- g00 (cpp17-gcc)") {
		t.Fatalf("diff header missing run name:\n%s", diff)
	}

	same, err := svc.Compare(context.Background(), "g00", "g00")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if same != "" {
		t.Fatalf("identical sources should yield empty diff, got %q", same)
	}
}

func TestRunsServiceCompareErrors(t *testing.T) {
	repo := &fakeRunRepo{runs: contestRuns(2)}
	svc := service.NewRunsService(repo, fakeSources{"g00": "a\n"}, nil, service.RunsOptions{})

	testCases := []struct {
		name  string
		left  string
		right string
		code  pkgerrors.ErrorCode
	}{
		{name: "missing guid", left: "g00", right: "", code: pkgerrors.InvalidParams},
		{name: "unknown run", left: "g00", right: "nope", code: pkgerrors.RunNotFound},
		{name: "missing source", left: "g00", right: "g01", code: pkgerrors.RunSourceUnavailable},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Compare(context.Background(), tc.left, tc.right)
			if !pkgerrors.Is(err, tc.code) {
				t.Fatalf("error = %v, want code %d", err, tc.code)
			}
		})
	}
}

func TestRunsServiceRunsChangedNotifiesSubscribers(t *testing.T) {
	repo := &fakeRunRepo{}
	n := notifier.New()
	svc := service.NewRunsService(repo, nil, n, service.RunsOptions{})

	updates, cancel := svc.Subscribe("c1")
	defer cancel()
	other, cancelOther := svc.Subscribe("c2")
	defer cancelOther()

	svc.RunsChanged(context.Background(), "c1")

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatalf("subscriber was not notified")
	}
	select {
	case <-other:
		t.Fatalf("other contest must not be notified")
	default:
	}
	if len(repo.invalidated) != 1 || repo.invalidated[0] != "c1" {
		t.Fatalf("invalidated = %v", repo.invalidated)
	}
}
