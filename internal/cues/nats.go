package cues

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSSink publishes cues as JSON messages on per-event subjects so
// external sound/visual boards can subscribe. Publish failures are
// logged and dropped.
type NATSSink struct {
	nc      *nats.Conn
	subject string
}

// NewNATSSink connects to NATS and returns a sink publishing under the
// given subject prefix (e.g. "rumble.cues").
func NewNATSSink(url, subjectPrefix string) (*NATSSink, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSSink{nc: nc, subject: subjectPrefix}, nil
}

// Close drains the underlying connection.
func (s *NATSSink) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}

func (s *NATSSink) publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal cue payload")
		return
	}
	if err := s.nc.Publish(s.subject+"."+event, data); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("failed to publish cue")
	}
}

func (s *NATSSink) TimerStarted(durationSec int) {
	s.publish("timer_started", map[string]any{
		"duration_sec": durationSec,
		"at":           time.Now(),
	})
}

func (s *NATSSink) TimerTick(remainingSec int, tier Tier) {
	s.publish("timer_tick", map[string]any{
		"remaining_sec": remainingSec,
		"tier":          tier,
		"at":            time.Now(),
	})
}

func (s *NATSSink) TimerExpired() {
	s.publish("timer_expired", map[string]any{"at": time.Now()})
}

func (s *NATSSink) AllocationMaxed(teamName string) {
	s.publish("allocation_maxed", map[string]any{
		"team": teamName,
		"at":   time.Now(),
	})
}

func (s *NATSSink) SettlementOutcome(teamName string, outcome Outcome) {
	s.publish("settlement_outcome", map[string]any{
		"team":    teamName,
		"outcome": outcome,
		"at":      time.Now(),
	})
}
