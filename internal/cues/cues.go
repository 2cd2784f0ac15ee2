// Package cues delivers named sound/visual cue events to external
// boards. Every delivery is fire-and-forget: sink failures are logged
// and dropped, never surfaced to game state.
package cues

import "github.com/rs/zerolog/log"

// Tier is the urgency of a countdown tick.
type Tier string

const (
	TierNormal  Tier = "normal"
	TierCaution Tier = "caution"
	TierUrgent  Tier = "urgent"
)

// Outcome classifies a settlement for the cue board.
type Outcome string

const (
	OutcomeProfit Outcome = "profit"
	OutcomeLoss   Outcome = "loss"
)

// Sink receives cue events. Implementations must not block and must
// never return control-flow-affecting errors to the caller.
type Sink interface {
	TimerStarted(durationSec int)
	TimerTick(remainingSec int, tier Tier)
	TimerExpired()
	AllocationMaxed(teamName string)
	SettlementOutcome(teamName string, outcome Outcome)
}

// NopSink drops every cue. Useful as a default and for embedding in
// test observers that only care about a subset of events.
type NopSink struct{}

func (NopSink) TimerStarted(int)                  {}
func (NopSink) TimerTick(int, Tier)               {}
func (NopSink) TimerExpired()                     {}
func (NopSink) AllocationMaxed(string)            {}
func (NopSink) SettlementOutcome(string, Outcome) {}

// LogSink writes cues to the global logger at debug level.
type LogSink struct{}

func (LogSink) TimerStarted(durationSec int) {
	log.Debug().Int("duration_sec", durationSec).Msg("cue: timer started")
}

func (LogSink) TimerTick(remainingSec int, tier Tier) {
	log.Debug().Int("remaining_sec", remainingSec).Str("tier", string(tier)).Msg("cue: timer tick")
}

func (LogSink) TimerExpired() {
	log.Debug().Msg("cue: timer expired")
}

func (LogSink) AllocationMaxed(teamName string) {
	log.Debug().Str("team", teamName).Msg("cue: allocation maxed")
}

func (LogSink) SettlementOutcome(teamName string, outcome Outcome) {
	log.Debug().Str("team", teamName).Str("outcome", string(outcome)).Msg("cue: settlement outcome")
}

// Fanout returns a sink that forwards every cue to each of sinks.
func Fanout(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) TimerStarted(durationSec int) {
	for _, s := range m {
		s.TimerStarted(durationSec)
	}
}

func (m multiSink) TimerTick(remainingSec int, tier Tier) {
	for _, s := range m {
		s.TimerTick(remainingSec, tier)
	}
}

func (m multiSink) TimerExpired() {
	for _, s := range m {
		s.TimerExpired()
	}
}

func (m multiSink) AllocationMaxed(teamName string) {
	for _, s := range m {
		s.AllocationMaxed(teamName)
	}
}

func (m multiSink) SettlementOutcome(teamName string, outcome Outcome) {
	for _, s := range m {
		s.SettlementOutcome(teamName, outcome)
	}
}
