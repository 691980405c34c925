package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sapphires-iaq/filterwatch/internal/config"
	"github.com/sapphires-iaq/filterwatch/internal/domain/filter"
)

// Repository defines persistence operations for the session flags.
type Repository interface {
	Load(ctx context.Context) (*filter.Session, error)
	Save(ctx context.Context, session *filter.Session) error
}

// FileRepository persists the session flags to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the JSON session file.
	path string
	// mu protects concurrent access to the session file.
	mu sync.Mutex
}

// ErrNotFound is returned when the session file does not exist yet.
var ErrNotFound = errors.New("session not found")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the session flags from disk.
func (r *FileRepository) Load(_ context.Context) (*filter.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read session file: %w", err)
	}

	var session filter.Session
	if err = json.Unmarshal(contents, &session); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}

	return &session, nil
}

// Save writes the session flags to disk.
func (r *FileRepository) Save(_ context.Context, session *filter.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	return nil
}
