package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// FileSeenStore хранит множество идентификаторов в JSON-файле на диске.
// Запись идет через временный файл и rename, поэтому неудачное сохранение
// оставляет прежнее состояние нетронутым.
type FileSeenStore struct {
	path string
	log  *slog.Logger
}

func NewFileSeenStore(path string, log *slog.Logger) *FileSeenStore {
	return &FileSeenStore{
		path: path,
		log:  log,
	}
}

func (s *FileSeenStore) Close() {}

// Load читает сохраненное множество идентификаторов.
// Если файла еще нет, возвращает пустое множество - первый запуск.
func (s *FileSeenStore) Load(ctx context.Context) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info("No prior seen state, starting empty",
			slog.String("component", "storage"),
			slog.String("path", s.path),
		)
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seen state %s: %w", s.path, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse seen state %s: %w", s.path, err)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	s.log.Info("Seen state loaded",
		slog.String("component", "storage"),
		slog.Int("count", len(seen)),
	)
	return seen, nil
}

// Save атомарно заменяет сохраненное множество переданным.
func (s *FileSeenStore) Save(ctx context.Context, ids map[string]struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	sort.Strings(list)
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode seen state: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".seen-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write seen state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace seen state %s: %w", s.path, err)
	}
	s.log.Info("Seen state saved",
		slog.String("component", "storage"),
		slog.Int("count", len(list)),
	)
	return nil
}
