package models

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is one completed game's final outcome. Created once
// when a game ends and never mutated afterward.
type LeaderboardEntry struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Balance      int       `json:"balance"`
	RoundsPlayed int       `json:"rounds_played"`
	RecordedAt   time.Time `json:"recorded_at"`
}
