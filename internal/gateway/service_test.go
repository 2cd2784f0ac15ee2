package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizmasters/rupee-rumble/internal/game/lifecycle"
	"github.com/quizmasters/rupee-rumble/internal/leaderboard"
	"github.com/quizmasters/rupee-rumble/internal/models"
	"github.com/quizmasters/rupee-rumble/internal/questions"
)

func newTestServer(t *testing.T) (*httptest.Server, *questions.Bank) {
	t.Helper()
	bank, err := questions.NewBank(questions.Seed())
	require.NoError(t, err)

	repo := leaderboard.NewFileRepository(filepath.Join(t.TempDir(), "leaderboard.json"))
	board := leaderboard.NewApp(repo, clockwork.NewFakeClock())

	svc := NewService(
		GameConfig{TimerDurationSec: 30, StartingBalance: 1000},
		bank, board, clockwork.NewFakeClock(), nil, DefaultConnectionConfig(),
	)

	mux := http.NewServeMux()
	svc.RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, bank
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func decodeState(t *testing.T, data []byte) StateView {
	t.Helper()
	var view StateView
	require.NoError(t, json.Unmarshal(data, &view))
	return view
}

func TestHostedGameOverHTTP(t *testing.T) {
	server, bank := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/games/hosted", map[string]any{
		"teams": []map[string]string{
			{"name": "Red", "members": "Ana, Luis"},
			{"name": "Blue"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	state := decodeState(t, body)
	assert.Equal(t, "hosted", state.Mode)
	require.Len(t, state.Teams, 2)
	assert.Equal(t, 1000, state.Teams[0].Balance)
	require.NotNil(t, state.CurrentQuestion)
	assert.Empty(t, state.CurrentQuestion.CorrectAnswer, "answer must stay hidden before reveal")

	redID := state.Teams[0].ID
	blueID := state.Teams[1].ID

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/timer/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	q, err := bank.Get(1, 1)
	require.NoError(t, err)

	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/teams/%s/allocations", server.URL, redID), allocateRequest{
		Action: "all_in", Option: q.CorrectAnswer,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeState(t, body)
	assert.Equal(t, 1000, state.Teams[0].Allocations.Get(q.CorrectAnswer))
	assert.True(t, state.Teams[0].Valid)

	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/teams/%s/allocations", server.URL, blueID), allocateRequest{
		Action: "split_even",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Question edits are refused mid-round.
	resp, _ = doJSON(t, http.MethodPut, server.URL+"/api/questions/1/1", map[string]any{"text": "edited"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/timer/stop", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeState(t, body)
	assert.Equal(t, lifecycle.StateLocked, state.State)
	assert.Empty(t, state.Records)

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/reveal", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeState(t, body)
	assert.Equal(t, lifecycle.StateRevealed, state.State)
	require.NotNil(t, state.CurrentQuestion)
	assert.Equal(t, q.CorrectAnswer, state.CurrentQuestion.CorrectAnswer)
	require.Len(t, state.Records, 2)
	assert.Equal(t, 1000, state.Records[redID].EndBalance)

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/next", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeState(t, body)
	assert.Equal(t, 2, state.Question)
	assert.Equal(t, lifecycle.StateAwaitingStart, state.State)
}

func TestSoloGameOverHTTP(t *testing.T) {
	server, bank := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/games/solo", map[string]string{
		"name": "Keaton",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	state := decodeState(t, body)
	assert.Equal(t, "solo", state.Mode)
	require.Len(t, state.Teams, 1)
	teamID := state.Teams[0].ID

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/timer/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	q, err := bank.Get(1, 1)
	require.NoError(t, err)
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/teams/%s/allocations", server.URL, teamID), allocateRequest{
		Action: "all_in", Option: q.CorrectAnswer,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeState(t, body)
	assert.Equal(t, lifecycle.StateSubmitted, state.State)

	// Stopping the clock settles solo rounds immediately.
	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/timer/stop", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeState(t, body)
	assert.Equal(t, lifecycle.StateRevealed, state.State)
	assert.Equal(t, 1000, state.Teams[0].Balance)
	require.Len(t, state.Records, 1)
}

func TestSubmitRejectedForIncompleteAllocation(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/games/solo", map[string]string{"name": "Keaton"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	teamID := decodeState(t, body).Teams[0].ID

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/timer/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/teams/%s/allocations", server.URL, teamID), allocateRequest{
		Action: "set", Option: models.OptionA, Amount: 500,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestActionsWithoutGameConflict(t *testing.T) {
	server, _ := newTestServer(t)

	for _, path := range []string{"/api/timer/start", "/api/timer/stop", "/api/next", "/api/reveal", "/api/submit"} {
		resp, _ := doJSON(t, http.MethodPost, server.URL+path, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode, path)
	}

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "idle", decodeState(t, body).Mode)
}

func TestUnknownTeamAllocation(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/games/solo", map[string]string{"name": "Keaton"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/timer/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/teams/%s/allocations", server.URL, uuid.New()), allocateRequest{
		Action: "all_in", Option: models.OptionA,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQuestionEditBetweenRounds(t *testing.T) {
	server, bank := newTestServer(t)

	text := "What is the smallest prime number?"
	resp, _ := doJSON(t, http.MethodPut, server.URL+"/api/questions/1/2", map[string]any{"text": text})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	q, err := bank.Get(1, 2)
	require.NoError(t, err)
	assert.Equal(t, text, q.Text)

	resp, _ = doJSON(t, http.MethodPut, server.URL+"/api/questions/9/9", map[string]any{"text": text})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTimerDurationChange(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/games/solo", map[string]string{"name": "Keaton"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPut, server.URL+"/api/timer/duration", map[string]int{"duration_sec": 45})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeState(t, body)
	assert.Equal(t, 45, state.TimerDurationSec)
	assert.Equal(t, 45, state.TimerRemainingSec)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/timer/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// No resizing a live countdown.
	resp, _ = doJSON(t, http.MethodPut, server.URL+"/api/timer/duration", map[string]int{"duration_sec": 10})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, server.URL+"/api/timer/duration", map[string]int{"duration_sec": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLeaderboardEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/leaderboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []models.LeaderboardEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	assert.Empty(t, entries)
}
