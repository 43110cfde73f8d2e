package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ojarena/internal/arena/repository"
	"ojarena/internal/common/cache"
	"ojarena/internal/common/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var runColumns = []string{
	"guid", "run_id", "submitted_at", "username", "verdict", "status", "language",
	"score", "contest_score", "penalty", "runtime_ms", "memory_bytes", "submit_delay", "type",
	"problem_alias", "contest_alias", "classname", "country",
}

func newMockDB(t *testing.T) (*db.MySQL, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db.NewMySQLWithDB(sqlDB), mock
}

func newCache(t *testing.T) cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	if err != nil {
		t.Fatalf("new cache failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleRows() *sqlmock.Rows {
	at := time.Date(2020, 1, 1, 0, 20, 0, 0, time.UTC)
	return sqlmock.NewRows(runColumns).
		AddRow("122000", 5, at, "username", "WA", "ready", "java",
			0.0, nil, 0, 316, 1933312, 20, "normal", "alias", "c1", nil, "xx").
		AddRow("121000", 4, at.Add(-10*time.Minute), "other_username", nil, "new", "py3",
			0.0, 0.5, 12, 0, 0, 10, "normal", "alias", "c1", "user-rank-unranked", nil)
}

const listQuery = `SELECT .* FROM runs WHERE contest_alias = \? AND verdict = \? ORDER BY submitted_at DESC, run_id ASC LIMIT \?`

func TestListScansAndCaches(t *testing.T) {
	database, mock := newMockDB(t)
	repo := repository.NewRunRepository(database, newCache(t))
	ctx := context.Background()
	filter := repository.RunFilter{ContestAlias: "c1", Verdict: "WA", Limit: 5}

	mock.ExpectQuery(listQuery).WithArgs("c1", "WA", 5).WillReturnRows(sampleRows())

	for i := 0; i < 2; i++ {
		runs, err := repo.List(ctx, nil, filter)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		first, second := runs[0], runs[1]
		if first.GUID != "122000" || first.Verdict != "WA" || first.Memory != 1933312 || first.ContestScore != nil {
			t.Fatalf("unexpected first run: %+v", first)
		}
		if !first.Time.Equal(time.Date(2020, 1, 1, 0, 20, 0, 0, time.UTC)) {
			t.Fatalf("unexpected time: %v", first.Time)
		}
		if second.Verdict != "" || second.ContestScore == nil || *second.ContestScore != 0.5 {
			t.Fatalf("unexpected nullable columns: %+v", second)
		}
		if second.Classname != "user-rank-unranked" || second.Country != "" {
			t.Fatalf("unexpected identity columns: %+v", second)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInvalidateForcesRequery(t *testing.T) {
	database, mock := newMockDB(t)
	repo := repository.NewRunRepository(database, newCache(t))
	ctx := context.Background()
	filter := repository.RunFilter{ContestAlias: "c1", Verdict: "WA", Limit: 5}

	mock.ExpectQuery(listQuery).WithArgs("c1", "WA", 5).WillReturnRows(sampleRows())
	mock.ExpectQuery(listQuery).WithArgs("c1", "WA", 5).WillReturnRows(sqlmock.NewRows(runColumns))

	if _, err := repo.List(ctx, nil, filter); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if err := repo.Invalidate(ctx, "c1"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	runs, err := repo.List(ctx, nil, filter)
	if err != nil {
		t.Fatalf("list after invalidate failed: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected fresh empty result, got %d runs", len(runs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListWithoutCacheOrFilters(t *testing.T) {
	database, mock := newMockDB(t)
	repo := repository.NewRunRepository(database, nil)

	mock.ExpectQuery(`SELECT .* FROM runs ORDER BY submitted_at DESC, run_id ASC$`).
		WillReturnRows(sampleRows())

	runs, err := repo.List(context.Background(), nil, repository.RunFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListPropagatesQueryError(t *testing.T) {
	database, mock := newMockDB(t)
	repo := repository.NewRunRepository(database, newCache(t))
	boom := errors.New("connection reset")

	mock.ExpectQuery(`SELECT .* FROM runs`).WillReturnError(boom)

	if _, err := repo.List(context.Background(), nil, repository.RunFilter{ContestAlias: "c1"}); !errors.Is(err, boom) {
		t.Fatalf("expected query error, got %v", err)
	}
}

func TestGetByGUID(t *testing.T) {
	database, mock := newMockDB(t)
	repo := repository.NewRunRepository(database, nil)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .* FROM runs WHERE guid = \?`).WithArgs("122000").WillReturnRows(sampleRows())
	mock.ExpectQuery(`SELECT .* FROM runs WHERE guid = \?`).WithArgs("missing").WillReturnRows(sqlmock.NewRows(runColumns))

	run, err := repo.GetByGUID(ctx, nil, "122000")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if run.GUID != "122000" || run.Language != "java" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if _, err := repo.GetByGUID(ctx, nil, "missing"); !errors.Is(err, repository.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}
