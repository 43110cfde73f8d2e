package service_test

import (
	"context"
	"sync"

	"ojarena/internal/arena/repository"
	"ojarena/internal/arena/runlist"
	"ojarena/internal/common/db"
)

type fakeRunRepo struct {
	mu          sync.Mutex
	runs        []runlist.Run
	listErr     error
	filters     []repository.RunFilter
	invalidated []string
}

func (f *fakeRunRepo) List(ctx context.Context, tx db.Transaction, filter repository.RunFilter) ([]runlist.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]runlist.Run, 0, len(f.runs))
	for _, run := range runlist.SortByTime(f.runs) {
		if filter.ContestAlias != "" && run.ContestAlias != filter.ContestAlias {
			continue
		}
		if filter.Username != "" && run.Username != filter.Username {
			continue
		}
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
		out = append(out, run)
	}
	return out, nil
}

func (f *fakeRunRepo) GetByGUID(ctx context.Context, tx db.Transaction, guid string) (runlist.Run, error) {
	for _, run := range f.runs {
		if run.GUID == guid {
			return run, nil
		}
	}
	return runlist.Run{}, repository.ErrRunNotFound
}

func (f *fakeRunRepo) Invalidate(ctx context.Context, contestAlias string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, contestAlias)
	return nil
}

func (f *fakeRunRepo) lastFilter() repository.RunFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.filters) == 0 {
		return repository.RunFilter{}
	}
	return f.filters[len(f.filters)-1]
}

type fakeSources map[string]string

func (f fakeSources) Get(ctx context.Context, guid string) (string, error) {
	src, ok := f[guid]
	if !ok {
		return "", repository.ErrSourceNotFound
	}
	return src, nil
}
