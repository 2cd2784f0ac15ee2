package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quizmasters/rupee-rumble/internal/models"
)

// FileRepository stores the leaderboard as a single JSON document at a
// fixed path. A missing file reads as an empty list.
type FileRepository struct {
	path string
}

// NewFileRepository creates a file-backed repository at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Load(ctx context.Context) ([]models.LeaderboardEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read leaderboard file: %w", err)
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse leaderboard file: %w", err)
	}
	return entries, nil
}

func (r *FileRepository) Save(ctx context.Context, entries []models.LeaderboardEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the slot.
	tmp := r.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create leaderboard dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write leaderboard file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace leaderboard file: %w", err)
	}
	return nil
}
