package repository

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"ojarena/internal/arena/runlist"
	"ojarena/internal/common/cache"
	"ojarena/internal/common/db"
)

const (
	defaultRunListTTL      = 30 * time.Second
	defaultRunListEmptyTTL = 5 * time.Second
	defaultGenerationTTL   = 24 * time.Hour

	runListKeyPrefix    = "arena:runs:"
	runGenerationPrefix = "arena:runs:gen:"
)

var (
	ErrRunNotFound = errors.New("run not found")
)

// RunFilter selects runs server side. Empty fields are unconstrained.
// Limit caps the number of rows returned, newest first.
type RunFilter struct {
	ContestAlias string
	ProblemAlias string
	Verdict      string
	Status       string
	Language     string
	Username     string
	Limit        int
}

func (f RunFilter) fingerprint() string {
	parts := []string{
		f.ProblemAlias, f.Verdict, f.Status, f.Language, f.Username, strconv.Itoa(f.Limit),
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}

type RunRepository interface {
	List(ctx context.Context, tx db.Transaction, filter RunFilter) ([]runlist.Run, error)
	GetByGUID(ctx context.Context, tx db.Transaction, guid string) (runlist.Run, error)
	// Invalidate drops every cached list of contestAlias.
	Invalidate(ctx context.Context, contestAlias string) error
}

type MySQLRunRepository struct {
	db       db.Database
	cache    cache.Cache
	ttl      time.Duration
	emptyTTL time.Duration
}

func NewRunRepository(database db.Database, cacheClient cache.Cache) RunRepository {
	return NewRunRepositoryWithTTL(database, cacheClient, defaultRunListTTL, defaultRunListEmptyTTL)
}

func NewRunRepositoryWithTTL(database db.Database, cacheClient cache.Cache, ttl, emptyTTL time.Duration) RunRepository {
	if ttl <= 0 {
		ttl = defaultRunListTTL
	}
	if emptyTTL <= 0 {
		emptyTTL = defaultRunListEmptyTTL
	}
	return &MySQLRunRepository{
		db:       database,
		cache:    cacheClient,
		ttl:      ttl,
		emptyTTL: emptyTTL,
	}
}

const runColumns = `guid, run_id, submitted_at, username, verdict, status, language,
		score, contest_score, penalty, runtime_ms, memory_bytes, submit_delay, type,
		problem_alias, contest_alias, classname, country`

func (r *MySQLRunRepository) List(ctx context.Context, tx db.Transaction, filter RunFilter) ([]runlist.Run, error) {
	if r.cache == nil || tx != nil {
		return r.listFromDB(ctx, tx, filter)
	}
	key, err := r.listKey(ctx, filter)
	if err != nil {
		return r.listFromDB(ctx, tx, filter)
	}
	return cache.GetWithCached[[]runlist.Run](
		ctx,
		r.cache,
		key,
		cache.JitterTTL(r.ttl),
		cache.JitterTTL(r.emptyTTL),
		func(runs []runlist.Run) bool { return len(runs) == 0 },
		marshalRuns,
		unmarshalRuns,
		func(ctx context.Context) ([]runlist.Run, error) {
			return r.listFromDB(ctx, nil, filter)
		},
	)
}

func (r *MySQLRunRepository) GetByGUID(ctx context.Context, tx db.Transaction, guid string) (runlist.Run, error) {
	query := "SELECT " + runColumns + " FROM runs WHERE guid = ?"
	run, err := scanRun(db.GetQuerier(r.db, tx).QueryRow(ctx, query, guid))
	if err != nil {
		if db.IsNoRows(err) {
			return runlist.Run{}, ErrRunNotFound
		}
		return runlist.Run{}, err
	}
	return run, nil
}

func (r *MySQLRunRepository) Invalidate(ctx context.Context, contestAlias string) error {
	if r.cache == nil {
		return nil
	}
	key := runGenerationPrefix + contestAlias
	if _, err := r.cache.Incr(ctx, key); err != nil {
		return err
	}
	return r.cache.Expire(ctx, key, defaultGenerationTTL)
}

// listKey embeds the contest generation so Invalidate orphans old entries
// instead of scanning for them.
func (r *MySQLRunRepository) listKey(ctx context.Context, filter RunFilter) (string, error) {
	gen, err := r.cache.Get(ctx, runGenerationPrefix+filter.ContestAlias)
	if err != nil {
		return "", err
	}
	if gen == "" {
		gen = "0"
	}
	return runListKeyPrefix + filter.ContestAlias + ":" + gen + ":" + filter.fingerprint(), nil
}

func (r *MySQLRunRepository) listFromDB(ctx context.Context, tx db.Transaction, filter RunFilter) ([]runlist.Run, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		conds = append(conds, column+" = ?")
		args = append(args, value)
	}
	add("contest_alias", filter.ContestAlias)
	add("problem_alias", filter.ProblemAlias)
	add("verdict", filter.Verdict)
	add("status", filter.Status)
	add("language", filter.Language)
	add("username", filter.Username)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(runColumns)
	sb.WriteString(" FROM runs")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY submitted_at DESC, run_id ASC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := db.GetQuerier(r.db, tx).Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]runlist.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func scanRun(scanner db.Scanner) (runlist.Run, error) {
	var (
		run          runlist.Run
		verdict      sql.NullString
		contestScore sql.NullFloat64
		classname    sql.NullString
		country      sql.NullString
		contestAlias sql.NullString
		statusValue  string
		typeValue    string
	)
	err := scanner.Scan(
		&run.GUID,
		&run.RunID,
		&run.Time,
		&run.Username,
		&verdict,
		&statusValue,
		&run.Language,
		&run.Score,
		&contestScore,
		&run.Penalty,
		&run.Runtime,
		&run.Memory,
		&run.SubmitDelay,
		&typeValue,
		&run.Alias,
		&contestAlias,
		&classname,
		&country,
	)
	if err != nil {
		return runlist.Run{}, err
	}
	run.Verdict = runlist.Verdict(verdict.String)
	run.Status = runlist.Status(statusValue)
	run.Type = runlist.RunType(typeValue)
	if contestScore.Valid {
		score := contestScore.Float64
		run.ContestScore = &score
	}
	run.ContestAlias = contestAlias.String
	run.Classname = classname.String
	run.Country = country.String
	return run, nil
}

func marshalRuns(runs []runlist.Run) (string, error) {
	payload, err := json.Marshal(runs)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func unmarshalRuns(data string) ([]runlist.Run, error) {
	var runs []runlist.Run
	if err := json.Unmarshal([]byte(data), &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
