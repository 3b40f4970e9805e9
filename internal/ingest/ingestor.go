// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wayfinder/internal/learner"
	"github.com/tomtom215/wayfinder/internal/metrics"
)

// Config controls ingestion batching.
type Config struct {
	// BatchSize flushes a user's buffer once it holds this many events.
	// Default: 5
	BatchSize int `json:"batch_size" koanf:"batch_size"`

	// FlushInterval flushes all buffers on this cadence regardless of size.
	// Default: 30s
	FlushInterval time.Duration `json:"flush_interval" koanf:"flush_interval"`

	// BufferSize is the Pub/Sub channel capacity.
	// Default: 256
	BufferSize int64 `json:"buffer_size" koanf:"buffer_size"`
}

// DefaultConfig returns the reference ingestion configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:     5,
		FlushInterval: 30 * time.Second,
		BufferSize:    256,
	}
}

// Validate checks configuration bounds.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("flush_interval must be positive, got %v", c.FlushInterval)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive, got %d", c.BufferSize)
	}
	return nil
}

// Trainer is the slice of the learning engine the ingestor drives.
type Trainer interface {
	Train(ctx context.Context, userID string, behaviors []learner.UserBehavior, trips []learner.CompletedTrip) (*learner.UserProfile, error)
}

// Ingestor consumes behavior events from the in-process Pub/Sub, buffers them
// per user and trains in batches. It implements suture.Service via Serve.
type Ingestor struct {
	cfg     Config
	pubsub  *gochannel.GoChannel
	trainer Trainer
	log     zerolog.Logger
	now     func() time.Time

	// buffers is touched only by the Serve goroutine.
	buffers map[string][]learner.UserBehavior
}

// New builds an Ingestor with its own in-process Pub/Sub.
func New(cfg Config, trainer Trainer, log zerolog.Logger) *Ingestor {
	wmLog := watermill.NopLogger{}
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
		// deliver events published before the consume loop subscribes
		Persistent: true,
	}, wmLog)

	return &Ingestor{
		cfg:     cfg,
		pubsub:  pubsub,
		trainer: trainer,
		log:     log.With().Str("component", "ingest").Logger(),
		now:     time.Now,
		buffers: make(map[string][]learner.UserBehavior),
	}
}

// Publish validates and enqueues one raw event.
func (i *Ingestor) Publish(_ context.Context, e Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := i.pubsub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	metrics.IngestEventsTotal.Inc()
	return nil
}

// Serve runs the consume/flush loop until ctx is canceled. Remaining buffers
// flush on the way out so shutdown loses nothing.
func (i *Ingestor) Serve(ctx context.Context) error {
	msgs, err := i.pubsub.Subscribe(ctx, Topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", Topic, err)
	}

	ticker := time.NewTicker(i.cfg.FlushInterval)
	defer ticker.Stop()

	i.log.Info().
		Int("batch_size", i.cfg.BatchSize).
		Dur("flush_interval", i.cfg.FlushInterval).
		Msg("ingestor started")

	for {
		select {
		case <-ctx.Done():
			i.flushAll(context.WithoutCancel(ctx), "shutdown")
			return ctx.Err()

		case <-ticker.C:
			i.flushAll(ctx, "interval")

		case msg, ok := <-msgs:
			if !ok {
				i.flushAll(context.WithoutCancel(ctx), "shutdown")
				return nil
			}
			i.consume(ctx, msg)
		}
	}
}

// consume decodes one message into a user buffer, flushing when full.
func (i *Ingestor) consume(ctx context.Context, msg *message.Message) {
	var e Event
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		i.log.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping undecodable event")
		msg.Ack()
		return
	}
	msg.Ack()

	i.buffers[e.UserID] = append(i.buffers[e.UserID], e.Behavior(i.now()))
	if len(i.buffers[e.UserID]) >= i.cfg.BatchSize {
		i.flushUser(ctx, e.UserID, "size")
	}
}

// flushUser trains on one user's buffered events. Failed flushes drop the
// batch after logging; events are raw signals, not durable records.
func (i *Ingestor) flushUser(ctx context.Context, userID, trigger string) {
	batch := i.buffers[userID]
	if len(batch) == 0 {
		return
	}
	delete(i.buffers, userID)

	if _, err := i.trainer.Train(ctx, userID, batch, nil); err != nil {
		i.log.Error().Err(err).
			Str("user_id", userID).
			Int("events", len(batch)).
			Msg("training flush failed, dropping batch")
		metrics.IngestDropped.Add(float64(len(batch)))
		return
	}
	metrics.RecordIngestBatch(trigger, len(batch))
	i.log.Debug().
		Str("user_id", userID).
		Str("trigger", trigger).
		Int("events", len(batch)).
		Msg("flushed batch")
}

func (i *Ingestor) flushAll(ctx context.Context, trigger string) {
	for userID := range i.buffers {
		i.flushUser(ctx, userID, trigger)
	}
}

// Close shuts the Pub/Sub down, closing the subscriber channel.
func (i *Ingestor) Close() error {
	return i.pubsub.Close()
}

// String names the service for the supervisor tree.
func (i *Ingestor) String() string {
	return "ingest.Ingestor"
}
