package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"ojarena/internal/common/storage"
)

const defaultMaxSourceBytes = 256 << 10

var (
	ErrSourceNotFound = errors.New("run source not found")
	ErrSourceTooLarge = errors.New("run source too large")
)

// SourceStore reads submitted source code from object storage. Objects live
// at <prefix>/<guid>.
type SourceStore struct {
	storage  storage.ObjectStorage
	bucket   string
	prefix   string
	maxBytes int64
}

func NewSourceStore(objStorage storage.ObjectStorage, bucket, prefix string, maxBytes int64) *SourceStore {
	if maxBytes <= 0 {
		maxBytes = defaultMaxSourceBytes
	}
	return &SourceStore{
		storage:  objStorage,
		bucket:   bucket,
		prefix:   prefix,
		maxBytes: maxBytes,
	}
}

func (s *SourceStore) objectKey(guid string) string {
	if s.prefix == "" {
		return guid
	}
	return path.Join(s.prefix, guid)
}

// Get returns the source of run guid.
func (s *SourceStore) Get(ctx context.Context, guid string) (string, error) {
	key := s.objectKey(guid)
	stat, err := s.storage.StatObject(ctx, s.bucket, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", ErrSourceNotFound
		}
		return "", err
	}
	if stat.SizeBytes > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrSourceTooLarge, stat.SizeBytes)
	}

	reader, err := s.storage.GetObject(ctx, s.bucket, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", ErrSourceNotFound
		}
		return "", err
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read source failed: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrSourceTooLarge
	}
	return string(data), nil
}
