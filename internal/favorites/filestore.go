package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"go.uber.org/zap"
)

// FileStore keeps favorites in one JSON file on local disk, a list per
// client. Every change rewrites the file atomically.
type FileStore struct {
	path string
	log  *zap.Logger
	now  func() time.Time

	mu     sync.Mutex
	loaded bool
	data   map[string][]domain.Favorite
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{
		path: filepath.Clean(path),
		log:  log.Named("favorites.file"),
		now:  time.Now,
	}
}

func (s *FileStore) AddFavorite(_ context.Context, clientID string, movie domain.Movie) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return false, err
	}

	list := s.data[clientID]
	if slices.ContainsFunc(list, func(f domain.Favorite) bool { return f.Movie.ID == movie.ID }) {
		return false, nil
	}
	s.data[clientID] = append(list, domain.Favorite{
		ClientID: clientID,
		Movie:    movie,
		AddedAt:  s.now().UTC(),
	})
	return true, s.save()
}

func (s *FileStore) RemoveFavorite(_ context.Context, clientID string, movieID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return false, err
	}

	list := s.data[clientID]
	kept := slices.DeleteFunc(slices.Clone(list), func(f domain.Favorite) bool { return f.Movie.ID == movieID })
	if len(kept) == len(list) {
		return false, nil
	}
	if len(kept) == 0 {
		delete(s.data, clientID)
	} else {
		s.data[clientID] = kept
	}
	return true, s.save()
}

func (s *FileStore) ListFavorites(_ context.Context, clientID string) ([]domain.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	return slices.Clone(s.data[clientID]), nil
}

func (s *FileStore) IsFavorite(_ context.Context, clientID string, movieID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return false, err
	}
	return slices.ContainsFunc(s.data[clientID], func(f domain.Favorite) bool { return f.Movie.ID == movieID }), nil
}

func (s *FileStore) UpdateFavorite(_ context.Context, clientID string, movie domain.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}

	list := s.data[clientID]
	i := slices.IndexFunc(list, func(f domain.Favorite) bool { return f.Movie.ID == movie.ID })
	if i < 0 {
		return domain.ErrFavoriteNotFound
	}
	list[i].Movie = movie
	return s.save()
}

// load reads the file once. A missing file is an empty store; an unreadable
// one is logged and treated as empty so a corrupt file never locks the user
// out of their list. s.mu must be held.
func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}
	s.data = map[string][]domain.Favorite{}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("read favorites file %s: %w", s.path, err)
	}

	if len(b) > 0 {
		if err := json.Unmarshal(b, &s.data); err != nil {
			s.log.Warn("failed to parse favorites, starting empty", zap.String("path", s.path), zap.Error(err))
			s.data = map[string][]domain.Favorite{}
		}
	}
	s.loaded = true
	return nil
}

// save writes to a temp file in the same directory and renames it over the
// target. s.mu must be held.
func (s *FileStore) save() error {
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create favorites dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp favorites file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write favorites: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync favorites: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close favorites: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace favorites file: %w", err)
	}
	return nil
}
