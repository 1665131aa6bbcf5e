// Package presence owns the background eviction of stale participants.
package presence

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"room-service/internal/models"
	"room-service/internal/observability"
	"room-service/internal/repositories"
	"room-service/internal/telemetry"
)

const departureText = "left the room..."

// Sweeper periodically removes participants whose last heartbeat is older
// than StaleAfter, appending a departure status message per eviction. It is
// the only mechanism that detects departure; there is no explicit leave
// signal from clients.
type Sweeper struct {
	participantRepo repositories.ParticipantRepository
	messageRepo     repositories.MessageRepository
	emitter         *telemetry.EventEmitter
	interval        time.Duration
	staleAfter      time.Duration
	now             func() time.Time
	log             *slog.Logger
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithClock overrides the time source, letting tests drive staleness
// decisions deterministically.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// NewSweeper builds a Sweeper.
func NewSweeper(participantRepo repositories.ParticipantRepository, messageRepo repositories.MessageRepository, emitter *telemetry.EventEmitter, interval, staleAfter time.Duration, opts ...Option) *Sweeper {
	s := &Sweeper{
		participantRepo: participantRepo,
		messageRepo:     messageRepo,
		emitter:         emitter,
		interval:        interval,
		staleAfter:      staleAfter,
		now:             time.Now,
		log:             slog.Default().With(slog.String("component", "presence_sweeper")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info("sweeper starting",
		slog.Duration("interval", s.interval),
		slog.Duration("stale_after", s.staleAfter))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.log.Warn("sweep failed", slog.Any("err", err))
			}
		}
	}
}

// Sweep performs one scan-and-evict pass. Eviction is best effort per
// participant: one failure is logged and skipped, never fatal to the pass.
// Only listing errors are returned.
func (s *Sweeper) Sweep(ctx context.Context) error {
	ctx, span := otel.Tracer("room-service/presence").Start(ctx, "presence.sweep")
	defer span.End()

	observability.IncSweep()

	participants, err := s.participantRepo.List(ctx)
	if err != nil {
		return err
	}

	cutoff := s.now().Add(-s.staleAfter).UnixMilli()
	active := len(participants)
	for _, p := range participants {
		if p.LastHeartbeat > cutoff {
			continue
		}
		if s.evict(ctx, p.Name, cutoff) {
			active--
		}
	}
	observability.SetActiveParticipants(active)
	return nil
}

// evict removes one stale participant and records its departure. The removal
// re-checks staleness inside the store, so a heartbeat that landed after the
// snapshot wins and no departure message is written. Reports whether the
// participant was actually removed.
func (s *Sweeper) evict(ctx context.Context, name string, cutoff int64) bool {
	removed, err := s.participantRepo.RemoveIfStale(ctx, name, cutoff)
	if err != nil {
		s.log.Warn("eviction failed", slog.String("participant", name), slog.Any("err", err))
		return false
	}
	if !removed {
		// Heartbeat arrived between snapshot and delete.
		return false
	}

	observability.IncEviction()
	s.log.Info("participant evicted", slog.String("participant", name))

	// The departing participant is already gone from the registry; the
	// status message still carries its name. A failure here leaves the log
	// without a departure entry, which is accepted rather than retried to
	// avoid double-appending.
	if _, err := s.messageRepo.Append(ctx, name, models.BroadcastTarget, departureText, models.TypeStatus, s.now().Format("15:04:05")); err != nil {
		s.log.Warn("departure message append failed", slog.String("participant", name), slog.Any("err", err))
		return true
	}
	observability.IncMessageCreated(models.TypeStatus)

	s.emitter.Emit(ctx, telemetry.RouteParticipantEvicted, "participant_evicted", "",
		telemetry.EventPayload{Participant: name})
	return true
}
