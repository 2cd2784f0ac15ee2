// Package leaderboard keeps the cross-session ranked list of final
// game outcomes. Storage is strictly best-effort: a broken repository
// turns reads into empty lists and drops writes, and gameplay never
// notices.
package leaderboard

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/quizmasters/rupee-rumble/internal/models"
)

// maxEntries caps the stored list; anything ranked below the cutoff is
// discarded permanently on the next write.
const maxEntries = 100

// Repository is the process-durable slot holding the serialized list.
type Repository interface {
	Load(ctx context.Context) ([]models.LeaderboardEntry, error)
	Save(ctx context.Context, entries []models.LeaderboardEntry) error
}

// App handles leaderboard business logic.
type App struct {
	repo  Repository
	clock clockwork.Clock
}

// NewApp creates a leaderboard App.
func NewApp(repo Repository, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{repo: repo, clock: clock}
}

// Record builds an entry from the team's final state and persists the
// re-ranked, truncated list. The entry is returned even when the save
// fails; the caller cannot tell the difference and should not care.
func (a *App) Record(ctx context.Context, team *models.Team) models.LeaderboardEntry {
	entry := models.LeaderboardEntry{
		ID:           uuid.New(),
		Name:         team.Name,
		Balance:      team.Balance,
		RoundsPlayed: team.RoundsPlayed(),
		RecordedAt:   a.clock.Now(),
	}

	entries, err := a.repo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("leaderboard load failed; starting from empty list")
		entries = nil
	}

	entries = append(entries, entry)
	Rank(entries)
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	if err := a.repo.Save(ctx, entries); err != nil {
		log.Warn().Err(err).Str("team", team.Name).Msg("leaderboard save failed; entry dropped")
	}
	return entry
}

// Rankings returns the full ranked list; storage failures yield an
// empty list.
func (a *App) Rankings(ctx context.Context) []models.LeaderboardEntry {
	entries, err := a.repo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("leaderboard load failed")
		return []models.LeaderboardEntry{}
	}
	Rank(entries)
	return entries
}

// Rank sorts in place: balance descending, then rounds played
// descending, then timestamp descending so the most recent game wins
// remaining ties.
func Rank(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Balance != entries[j].Balance {
			return entries[i].Balance > entries[j].Balance
		}
		if entries[i].RoundsPlayed != entries[j].RoundsPlayed {
			return entries[i].RoundsPlayed > entries[j].RoundsPlayed
		}
		return entries[i].RecordedAt.After(entries[j].RecordedAt)
	})
}
