package gateway

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quizmasters/rupee-rumble/internal/cues"
	"github.com/quizmasters/rupee-rumble/internal/models"
)

// GameEvent is the envelope broadcast to every connected client.
type GameEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType names a broadcastable game moment.
type EventType string

const (
	EventGameCreated       EventType = "GameCreated"
	EventRoundStarted      EventType = "RoundStarted"
	EventTimerTick         EventType = "TimerTick"
	EventRoundLocked       EventType = "RoundLocked"
	EventAnswerRevealed    EventType = "AnswerRevealed"
	EventRoundAdvanced     EventType = "RoundAdvanced"
	EventGameOver          EventType = "GameOver"
	EventAllocationUpdated EventType = "AllocationUpdated"
	EventAllocationMaxed   EventType = "AllocationMaxed"
	EventSettlement        EventType = "Settlement"
)

// TimerTickPayload mirrors the countdown for client-side display. The
// server counter stays authoritative; clients only render it.
type TimerTickPayload struct {
	RemainingSec int       `json:"remaining_sec"`
	Tier         cues.Tier `json:"tier"`
}

// RoundStartedPayload announces the allocation phase.
type RoundStartedPayload struct {
	Round       int `json:"round"`
	Question    int `json:"question"`
	DurationSec int `json:"duration_sec"`
}

// RevealPayload carries the answer and per-team outcomes.
type RevealPayload struct {
	Round         int                              `json:"round"`
	Question      int                              `json:"question"`
	CorrectAnswer models.Option                    `json:"correct_answer"`
	Records       map[uuid.UUID]models.RoundRecord `json:"records"`
}

// AllocationUpdatedPayload carries one team's live split.
type AllocationUpdatedPayload struct {
	TeamID      uuid.UUID          `json:"team_id"`
	Allocations models.Allocations `json:"allocations"`
	Valid       bool               `json:"valid"`
}

// SettlementPayload names a team's round outcome.
type SettlementPayload struct {
	TeamName string       `json:"team_name"`
	Outcome  cues.Outcome `json:"outcome"`
}

func newEvent(t EventType, payload any) *GameEvent {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(t)).Msg("failed to marshal event payload")
		data = []byte("{}")
	}
	return &GameEvent{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now(),
		Data:      data,
	}
}
