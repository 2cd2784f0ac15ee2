package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/quizmasters/rupee-rumble/internal/cues"
	"github.com/quizmasters/rupee-rumble/internal/game/lifecycle"
	"github.com/quizmasters/rupee-rumble/internal/game/settlement"
	"github.com/quizmasters/rupee-rumble/internal/game/timer"
	"github.com/quizmasters/rupee-rumble/internal/leaderboard"
	"github.com/quizmasters/rupee-rumble/internal/models"
	"github.com/quizmasters/rupee-rumble/internal/questions"
)

// GameConfig is the recognized configuration surface for a game.
type GameConfig struct {
	TimerDurationSec int
	StartingBalance  int
}

// Service owns the live game and exposes it over HTTP + WebSocket.
// One game (solo or hosted) runs at a time; creating a new one
// replaces the old, which is how restart works.
type Service struct {
	mu sync.Mutex

	cfg   GameConfig
	bank  *questions.Bank
	board *leaderboard.App
	clock clockwork.Clock
	cm    *ConnectionManager
	sink  cues.Sink

	hosted *lifecycle.Hosted
	solo   *lifecycle.Solo
}

// NewService creates the gateway service. baseSink carries the
// non-WebSocket cue sinks (log, NATS); the WebSocket bridge is added
// internally.
func NewService(cfg GameConfig, bank *questions.Bank, board *leaderboard.App, clock clockwork.Clock, baseSink cues.Sink, connCfg ConnectionConfig) *Service {
	cm := NewConnectionManager(connCfg)
	if baseSink == nil {
		baseSink = cues.NopSink{}
	}
	sink := cues.Fanout(baseSink, NewWSSink(cm))
	return &Service{
		cfg:   cfg,
		bank:  bank,
		board: board,
		clock: clock,
		cm:    cm,
		sink:  sink,
	}
}

// ConnectionManager exposes the broadcast pool for the server wiring.
func (s *Service) ConnectionManager() *ConnectionManager {
	return s.cm
}

// RegisterRoutes mounts the game API on mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/games/hosted", s.handleCreateHosted)
	mux.HandleFunc("POST /api/games/solo", s.handleCreateSolo)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/timer/start", s.handleTimerStart)
	mux.HandleFunc("POST /api/timer/stop", s.handleTimerStop)
	mux.HandleFunc("PUT /api/timer/duration", s.handleTimerDuration)
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("POST /api/reveal", s.handleReveal)
	mux.HandleFunc("POST /api/next", s.handleNext)
	mux.HandleFunc("POST /api/teams/{id}/allocations", s.handleAllocate)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/questions", s.handleQuestions)
	mux.HandleFunc("PUT /api/questions/{round}/{question}", s.handleUpdateQuestion)
	mux.HandleFunc("GET /ws", s.handleWS)
	log.Info().Msg("gateway routes registered")
}

type teamSpec struct {
	Name    string `json:"name"`
	Members string `json:"members"`
}

func (s *Service) handleCreateHosted(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Teams []teamSpec `json:"teams"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	teams := make([]*models.Team, 0, len(req.Teams))
	for _, spec := range req.Teams {
		if spec.Name == "" {
			httpError(w, http.StatusBadRequest, "team name is required")
			return
		}
		teams = append(teams, models.NewTeam(spec.Name, spec.Members, s.cfg.StartingBalance))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCurrentLocked()

	hosted, err := lifecycle.NewHosted(teams, s.bank, settlement.NewEngine(s.sink), s.sink, s.clock, s.cfg.TimerDurationSec)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hosted, s.solo = hosted, nil

	s.cm.Broadcast(newEvent(EventGameCreated, map[string]any{"mode": "hosted", "teams": len(teams)}))
	writeJSON(w, http.StatusCreated, s.snapshotLocked())
}

func (s *Service) handleCreateSolo(w http.ResponseWriter, r *http.Request) {
	var req teamSpec
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		httpError(w, http.StatusBadRequest, "team name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCurrentLocked()

	team := models.NewTeam(req.Name, req.Members, s.cfg.StartingBalance)
	solo, err := lifecycle.NewSolo(team, s.bank, settlement.NewEngine(s.sink), s.board, s.sink, s.clock, s.cfg.TimerDurationSec)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.solo, s.hosted = solo, nil

	s.cm.Broadcast(newEvent(EventGameCreated, map[string]any{"mode": "solo", "team": team.Name}))
	writeJSON(w, http.StatusCreated, s.snapshotLocked())
}

// stopCurrentLocked cancels any countdown belonging to a replaced
// game so a stale timer can never fire into the new one.
func (s *Service) stopCurrentLocked() {
	if s.hosted != nil {
		s.hosted.Timer().Stop()
	}
	if s.solo != nil {
		s.solo.Timer().Stop()
	}
}

func (s *Service) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.snapshotLocked())
}

func (s *Service) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lc := s.currentLocked()
	if lc == nil {
		httpError(w, http.StatusConflict, "no active game")
		return
	}
	if err := lc.StartTimer(); err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return
	}
	s.cm.Broadcast(newEvent(EventRoundStarted, RoundStartedPayload{
		Round:       lc.RoundNumber(),
		Question:    lc.QuestionNumber(),
		DurationSec: s.cfg.TimerDurationSec,
	}))
	writeJSON(w, http.StatusOK, s.snapshotLocked())
}

func (s *Service) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lc := s.currentLocked()
	if lc == nil {
		httpError(w, http.StatusConflict, "no active game")
		return
	}
	if err := lc.StopTimer(); err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return
	}

	if s.solo != nil {
		// Solo settles at lock; the stop already revealed the round.
		s.broadcastSoloRevealLocked()
	} else {
		s.cm.Broadcast(newEvent(EventRoundLocked, map[string]any{
			"round":    lc.RoundNumber(),
			"question": lc.QuestionNumber(),
		}))
	}
	writeJSON(w, http.StatusOK, s.snapshotLocked())
}

// handleTimerDuration adjusts the countdown length for subsequent
// rounds. Refused while a countdown is running; resizing a live round
// is not supported.
func (s *Service) handleTimerDuration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DurationSec int `json:"duration_sec"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DurationSec <= 0 {
		httpError(w, http.StatusBadRequest, "duration_sec must be positive")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lc := s.currentLocked()
	if lc != nil {
		var tm *timer.Timer
		if s.hosted != nil {
			tm = s.hosted.Timer()
		} else {
			tm = s.solo.Timer()
		}
		if tm.Active() {
			httpError(w, http.StatusConflict, "countdown running; change duration between rounds")
			return
		}
		tm.SetDuration(req.DurationSec)
	}
	s.cfg.TimerDurationSec = req.DurationSec
	writeJSON(w, http.StatusOK, s.snapshotLocked())
}

func (s *Service) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.solo == nil {
		httpError(w, http.StatusConflict, "submit applies to solo games")
		return
	}
	if err := s.solo.Submit(); err != nil {
		if errors.Is(err, lifecycle.ErrInvalidAllocation) {
			httpError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		httpError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.snapshotLocked())
}

func (s *Service) handleReveal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hosted == nil {
		httpError(w, http.StatusConflict, "reveal applies to hosted games")
		return
	}
	if err := s.hosted.Reveal(r.Context()); err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return
	}

	q, err := s.bank.Get(s.hosted.RoundNumber(), s.hosted.QuestionNumber())
	if err == nil {
		s.cm.Broadcast(newEvent(EventAnswerRevealed, RevealPayload{
			Round:         q.RoundNumber,
			Question:      q.QuestionNumber,
			CorrectAnswer: q.CorrectAnswer,
			Records:       s.hosted.Records(),
		}))
	}
	writeJSON(w, http.StatusOK, s.snapshotLocked())
}

func (s *Service) handleNext(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lc := s.currentLocked()
	if lc == nil {
		httpError(w, http.StatusConflict, "no active game")
		return
	}
	if err := lc.Next(r.Context()); err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return
	}

	if lc.State() == lifecycle.StateTerminal {
		s.cm.Broadcast(newEvent(EventGameOver, map[string]any{
			"standings": s.standingsLocked(),
		}))
	} else {
		s.cm.Broadcast(newEvent(EventRoundAdvanced, map[string]any{
			"round":    lc.RoundNumber(),
			"question": lc.QuestionNumber(),
		}))
	}
	writeJSON(w, http.StatusOK, s.snapshotLocked())
}

type allocateRequest struct {
	Action string          `json:"action"`
	Option models.Option   `json:"option,omitempty"`
	Amount int             `json:"amount,omitempty"`
	Pair   []models.Option `json:"pair,omitempty"`
}

func (s *Service) handleAllocate(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	var req allocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.hosted != nil:
		s.applyHostedAllocation(teamID, req)
		allocs, ok := s.hosted.Allocations(teamID)
		if !ok {
			httpError(w, http.StatusNotFound, "unknown team")
			return
		}
		s.cm.Broadcast(newEvent(EventAllocationUpdated, AllocationUpdatedPayload{
			TeamID:      teamID,
			Allocations: allocs,
			Valid:       s.hosted.AllocationsValid(teamID),
		}))
	case s.solo != nil:
		if s.solo.Team().ID != teamID {
			httpError(w, http.StatusNotFound, "unknown team")
			return
		}
		s.applySoloAllocation(req)
		s.cm.Broadcast(newEvent(EventAllocationUpdated, AllocationUpdatedPayload{
			TeamID:      teamID,
			Allocations: s.solo.Allocations(),
			Valid:       s.solo.AllocationsValid(),
		}))
	default:
		httpError(w, http.StatusConflict, "no active game")
		return
	}

	writeJSON(w, http.StatusOK, s.snapshotLocked())
}

func (s *Service) applyHostedAllocation(teamID uuid.UUID, req allocateRequest) {
	switch req.Action {
	case "set":
		s.hosted.Set(teamID, req.Option, req.Amount)
	case "all_in":
		s.hosted.AllIn(teamID, req.Option)
	case "reset":
		s.hosted.ResetAllocations(teamID)
	case "split_even":
		s.hosted.SplitEvenly(teamID)
	case "split_pair":
		if len(req.Pair) == 2 {
			s.hosted.SplitPair(teamID, req.Pair[0], req.Pair[1])
		}
	}
}

func (s *Service) applySoloAllocation(req allocateRequest) {
	switch req.Action {
	case "set":
		s.solo.Set(req.Option, req.Amount)
	case "all_in":
		s.solo.AllIn(req.Option)
	case "reset":
		s.solo.ResetAllocations()
	case "split_even":
		s.solo.SplitEvenly()
	case "split_pair":
		if len(req.Pair) == 2 {
			s.solo.SplitPair(req.Pair[0], req.Pair[1])
		}
	}
}

func (s *Service) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board.Rankings(r.Context()))
}

func (s *Service) handleQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bank.All())
}

func (s *Service) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	round, err1 := strconv.Atoi(r.PathValue("round"))
	question, err2 := strconv.Atoi(r.PathValue("question"))
	if err1 != nil || err2 != nil {
		httpError(w, http.StatusBadRequest, "invalid round/question")
		return
	}

	var req struct {
		Text          *string                  `json:"text,omitempty"`
		Options       map[models.Option]string `json:"options,omitempty"`
		CorrectAnswer *models.Option           `json:"correct_answer,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Questions are immutable while a round is in flight.
	if lc := s.currentLocked(); lc != nil && lc.InFlight() {
		httpError(w, http.StatusConflict, "round in flight; edit between rounds")
		return
	}

	err := s.bank.Apply(round, question, questions.Update{
		Text:          req.Text,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
	})
	if err != nil {
		if errors.Is(err, questions.ErrNotFound) {
			httpError(w, http.StatusNotFound, err.Error())
			return
		}
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleWS(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		role = "spectator"
	}
	// The upgrader writes its own error response on failure.
	if err := s.cm.Upgrade(w, r, role); err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
	}
}

func (s *Service) currentLocked() lifecycle.Lifecycle {
	if s.hosted != nil {
		return s.hosted
	}
	if s.solo != nil {
		return s.solo
	}
	return nil
}

func (s *Service) broadcastSoloRevealLocked() {
	record, ok := s.solo.LastRecord()
	if !ok {
		return
	}
	s.cm.Broadcast(newEvent(EventAnswerRevealed, RevealPayload{
		Round:         record.RoundNumber,
		Question:      record.QuestionNumber,
		CorrectAnswer: record.CorrectAnswer,
		Records:       map[uuid.UUID]models.RoundRecord{s.solo.Team().ID: record},
	}))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
