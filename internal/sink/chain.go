package sink

import (
	"context"

	"github.com/rs/zerolog"

	"wedding-rsvp/internal/form"
	"wedding-rsvp/internal/models"
)

// Chain delivers a record to each sink in order and stops at the first error
type Chain []form.Sink

// Deliver implements form.Sink
func (c Chain) Deliver(ctx context.Context, rec models.SubmissionRecord) error {
	for _, s := range c {
		if err := s.Deliver(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// BestEffort wraps a sink whose failures must not fail the submission
type BestEffort struct {
	sink form.Sink
	log  zerolog.Logger
}

// NewBestEffort wraps s
func NewBestEffort(s form.Sink, name string, log zerolog.Logger) *BestEffort {
	return &BestEffort{
		sink: s,
		log:  log.With().Str("component", "BestEffort").Str("sink", name).Logger(),
	}
}

// Deliver implements form.Sink; errors are logged and dropped
func (b *BestEffort) Deliver(ctx context.Context, rec models.SubmissionRecord) error {
	if err := b.sink.Deliver(ctx, rec); err != nil {
		b.log.Warn().Err(err).Str("id", rec.ID).Msg("Delivery failed, continuing")
	}
	return nil
}

// Discard accepts and drops every record
type Discard struct{}

// Deliver implements form.Sink
func (Discard) Deliver(context.Context, models.SubmissionRecord) error {
	return nil
}
