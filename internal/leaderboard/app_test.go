package leaderboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizmasters/rupee-rumble/internal/models"
)

type memRepo struct {
	entries []models.LeaderboardEntry
	loadErr error
	saveErr error
}

func (r *memRepo) Load(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return append([]models.LeaderboardEntry(nil), r.entries...), nil
}

func (r *memRepo) Save(ctx context.Context, entries []models.LeaderboardEntry) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.entries = entries
	return nil
}

func finishedTeam(name string, balance, rounds int) *models.Team {
	team := models.NewTeam(name, "", 1000)
	team.Balance = balance
	for i := 0; i < rounds; i++ {
		team.History = append(team.History, models.RoundRecord{RoundNumber: i + 1})
	}
	return team
}

func TestRecordRanksByBalanceThenRoundsThenRecency(t *testing.T) {
	repo := &memRepo{}
	clock := clockwork.NewFakeClock()
	app := NewApp(repo, clock)
	ctx := context.Background()

	app.Record(ctx, finishedTeam("Alpha", 400, 3))
	clock.Advance(time.Minute)
	app.Record(ctx, finishedTeam("Bravo", 800, 2))
	clock.Advance(time.Minute)
	app.Record(ctx, finishedTeam("Charlie", 800, 5))
	clock.Advance(time.Minute)
	app.Record(ctx, finishedTeam("Delta", 400, 3))

	rankings := app.Rankings(ctx)
	require.Len(t, rankings, 4)
	assert.Equal(t, "Charlie", rankings[0].Name) // 800, more rounds
	assert.Equal(t, "Bravo", rankings[1].Name)
	assert.Equal(t, "Delta", rankings[2].Name) // tie with Alpha, more recent
	assert.Equal(t, "Alpha", rankings[3].Name)
}

func TestRecordTruncatesToCap(t *testing.T) {
	repo := &memRepo{}
	clock := clockwork.NewFakeClock()
	app := NewApp(repo, clock)
	ctx := context.Background()

	for i := 0; i < maxEntries+10; i++ {
		app.Record(ctx, finishedTeam("Team", 100+i, 1))
		clock.Advance(time.Second)
	}

	rankings := app.Rankings(ctx)
	require.Len(t, rankings, maxEntries)
	// The lowest-ranked entries fell off the list.
	assert.Equal(t, 100+maxEntries+9, rankings[0].Balance)
	assert.Equal(t, 100+10, rankings[maxEntries-1].Balance)
}

func TestRecordSurvivesLoadFailure(t *testing.T) {
	repo := &memRepo{loadErr: errors.New("disk on fire")}
	app := NewApp(repo, clockwork.NewFakeClock())

	entry := app.Record(context.Background(), finishedTeam("Alpha", 500, 2))
	assert.Equal(t, "Alpha", entry.Name)
	assert.Equal(t, 500, entry.Balance)
}

func TestRecordDropsEntryOnSaveFailure(t *testing.T) {
	repo := &memRepo{saveErr: errors.New("disk on fire")}
	app := NewApp(repo, clockwork.NewFakeClock())

	// No error surfaces; the entry is simply not persisted.
	app.Record(context.Background(), finishedTeam("Alpha", 500, 2))
	assert.Empty(t, repo.entries)
}

func TestRankingsEmptyOnLoadFailure(t *testing.T) {
	repo := &memRepo{loadErr: errors.New("disk on fire")}
	app := NewApp(repo, clockwork.NewFakeClock())
	assert.Empty(t, app.Rankings(context.Background()))
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards", "leaderboard.json")
	repo := NewFileRepository(path)
	ctx := context.Background()

	entries, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	app := NewApp(repo, clockwork.NewFakeClock())
	app.Record(ctx, finishedTeam("Alpha", 700, 4))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Alpha", loaded[0].Name)
	assert.Equal(t, 700, loaded[0].Balance)
	assert.Equal(t, 4, loaded[0].RoundsPlayed)
}
