package gateway

import "github.com/quizmasters/rupee-rumble/internal/cues"

// WSSink bridges cue events onto the WebSocket broadcast so clients
// render the countdown and outcome effects without polling.
type WSSink struct {
	cm *ConnectionManager
}

// NewWSSink creates a cue sink backed by the connection manager.
func NewWSSink(cm *ConnectionManager) *WSSink {
	return &WSSink{cm: cm}
}

func (s *WSSink) TimerStarted(durationSec int) {
	s.cm.Broadcast(newEvent(EventTimerTick, TimerTickPayload{
		RemainingSec: durationSec,
		Tier:         cues.TierNormal,
	}))
}

func (s *WSSink) TimerTick(remainingSec int, tier cues.Tier) {
	s.cm.Broadcast(newEvent(EventTimerTick, TimerTickPayload{
		RemainingSec: remainingSec,
		Tier:         tier,
	}))
}

func (s *WSSink) TimerExpired() {
	s.cm.Broadcast(newEvent(EventTimerTick, TimerTickPayload{
		RemainingSec: 0,
		Tier:         cues.TierUrgent,
	}))
}

func (s *WSSink) AllocationMaxed(teamName string) {
	s.cm.Broadcast(newEvent(EventAllocationMaxed, map[string]string{"team_name": teamName}))
}

func (s *WSSink) SettlementOutcome(teamName string, outcome cues.Outcome) {
	s.cm.Broadcast(newEvent(EventSettlement, SettlementPayload{
		TeamName: teamName,
		Outcome:  outcome,
	}))
}

var _ cues.Sink = (*WSSink)(nil)
