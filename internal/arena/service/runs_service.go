package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ojarena/internal/arena/notifier"
	"ojarena/internal/arena/repository"
	"ojarena/internal/arena/runlist"
	pkgerrors "ojarena/pkg/errors"
	"ojarena/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	defaultQueryTimeout = 3 * time.Second
	defaultMaxRows      = 1000
)

// SourceReader loads the submitted source of a run.
type SourceReader interface {
	Get(ctx context.Context, guid string) (string, error)
}

// RunsOptions tunes RunsService.
type RunsOptions struct {
	QueryTimeout time.Duration
	// MaxRows caps how many runs one list query may load.
	MaxRows int
}

// RunsService answers run list queries and keeps live lists fresh.
type RunsService struct {
	runs     repository.RunRepository
	sources  SourceReader
	diff     runlist.DiffFormatter
	notifier *notifier.Notifier
	opts     RunsOptions
}

// NewRunsService creates a new RunsService.
func NewRunsService(runs repository.RunRepository, sources SourceReader, notify *notifier.Notifier, opts RunsOptions) *RunsService {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = defaultQueryTimeout
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = defaultMaxRows
	}
	return &RunsService{
		runs:     runs,
		sources:  sources,
		diff:     runlist.UnifiedDiff{},
		notifier: notify,
		opts:     opts,
	}
}

// PageResult holds the runs a view needs to render the query's page.
// Runs is the newest-first prefix of the matching runs up to and including
// the current page, plus one extra run when a next page exists.
type PageResult struct {
	Query   RunQuery
	Runs    []runlist.Run
	HasMore bool
}

// Visible returns the runs of the current page only.
func (r PageResult) Visible() []runlist.Run {
	return runlist.Pager{Offset: r.Query.Offset, RowCount: r.Query.RowCount}.Slice(r.Runs)
}

// Page loads the runs for q.
func (s *RunsService) Page(ctx context.Context, q RunQuery) (PageResult, error) {
	if q.ContestAlias == "" {
		return PageResult{}, pkgerrors.ValidationError("contest_alias", "required")
	}
	if q.Offset < 0 {
		return PageResult{}, pkgerrors.New(pkgerrors.InvalidOffset)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	filter := q.filter(s.opts.MaxRows)
	runs, err := s.runs.List(ctx, nil, filter)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return PageResult{}, pkgerrors.Wrap(err, pkgerrors.Timeout)
		}
		return PageResult{}, pkgerrors.Wrap(fmt.Errorf("list runs failed: %w", err), pkgerrors.DatabaseError)
	}

	result := PageResult{Query: q, Runs: runs}
	if q.RowCount > 0 {
		result.HasMore = !runlist.Pager{Offset: q.Offset, RowCount: q.RowCount}.NextDisabled(len(runs))
	}
	return result, nil
}

// Compare returns a unified diff from the source of leftGUID to the source
// of rightGUID. Identical sources yield "".
func (s *RunsService) Compare(ctx context.Context, leftGUID, rightGUID string) (string, error) {
	if leftGUID == "" || rightGUID == "" {
		return "", pkgerrors.BadRequest("two run guids are required")
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	left, err := s.loadSource(ctx, leftGUID)
	if err != nil {
		return "", err
	}
	right, err := s.loadSource(ctx, rightGUID)
	if err != nil {
		return "", err
	}

	diff, err := s.diff.Diff(left.name, right.name, left.source, right.source)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.RunDiffFailed)
	}
	return diff, nil
}

type runSource struct {
	name   string
	source string
}

func (s *RunsService) loadSource(ctx context.Context, guid string) (runSource, error) {
	run, err := s.runs.GetByGUID(ctx, nil, guid)
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			return runSource{}, pkgerrors.New(pkgerrors.RunNotFound).WithDetail("guid", guid)
		}
		return runSource{}, pkgerrors.Wrap(fmt.Errorf("get run failed: %w", err), pkgerrors.DatabaseError)
	}
	if s.sources == nil {
		return runSource{}, pkgerrors.New(pkgerrors.RunSourceUnavailable)
	}
	source, err := s.sources.Get(ctx, guid)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSourceTooLarge):
			return runSource{}, pkgerrors.New(pkgerrors.RunSourceTooLarge).WithDetail("guid", guid)
		case errors.Is(err, repository.ErrSourceNotFound):
			return runSource{}, pkgerrors.New(pkgerrors.RunSourceUnavailable).WithDetail("guid", guid)
		default:
			return runSource{}, pkgerrors.Wrap(fmt.Errorf("read source failed: %w", err), pkgerrors.RunSourceUnavailable)
		}
	}
	name := run.GUID
	if run.Language != "" {
		name += " (" + run.Language + ")"
	}
	return runSource{name: name, source: source}, nil
}

// RunsChanged drops cached lists of contestAlias and pings its live views.
func (s *RunsService) RunsChanged(ctx context.Context, contestAlias string) {
	if err := s.runs.Invalidate(ctx, contestAlias); err != nil {
		logger.Warn(ctx, "invalidate run list cache failed", zap.String("contest", contestAlias), zap.Error(err))
	}
	if s.notifier != nil {
		s.notifier.Broadcast(contestAlias)
	}
}

// Subscribe follows run changes of contestAlias. The returned cancel func
// must be called when the listener goes away.
func (s *RunsService) Subscribe(contestAlias string) (<-chan struct{}, func()) {
	if s.notifier == nil {
		ch := make(chan struct{})
		return ch, func() {}
	}
	ch := s.notifier.Subscribe(contestAlias)
	return ch, func() { s.notifier.Unsubscribe(contestAlias, ch) }
}
