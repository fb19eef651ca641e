// AngelaMos | 2026
// recorder.go

package analytics

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/linkbio/internal/core"
)

const tracerName = "linkbio/analytics"

type EventStore interface {
	Insert(ctx context.Context, e *Event) error
}

// Publisher fans recorded events out to downstream consumers. Publishing is
// best effort; the event store is the source of truth.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Recorder struct {
	store     EventStore
	publisher Publisher
	now       func() time.Time
}

// NewRecorder accepts a nil publisher, in which case events are only stored.
func NewRecorder(store EventStore, publisher Publisher) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

func (r *Recorder) RecordLinkVisit(
	ctx context.Context,
	linkID string,
	v Visit,
) (*Event, error) {
	e, err := NewLinkEvent(linkID, v, r.now())
	if err != nil {
		return nil, err
	}
	if err := r.record(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Recorder) RecordBioView(
	ctx context.Context,
	bioPageID string,
	v Visit,
) (*Event, error) {
	e, err := NewBioEvent(bioPageID, v, r.now())
	if err != nil {
		return nil, err
	}
	if err := r.record(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Recorder) record(ctx context.Context, e *Event) error {
	ctx, span := core.StartSpan(ctx, tracerName, "analytics.record",
		attribute.String("event.device", e.Device),
		attribute.String("event.browser", e.Browser),
		attribute.String("event.location", e.Location),
	)
	defer span.End()

	if err := r.store.Insert(ctx, e); err != nil {
		core.SetSpanError(ctx, err)
		return err
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, *e); err != nil {
			slog.WarnContext(ctx, "publish analytics event",
				"event_id", e.ID,
				"error", err,
			)
		}
	}

	return nil
}
