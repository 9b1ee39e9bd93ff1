package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/miasdk/job-finder-frontend/internal/config"
	"github.com/miasdk/job-finder-frontend/internal/errors"
	"github.com/miasdk/job-finder-frontend/internal/telemetry"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("job-finder-frontend/events")

const (
	RefreshCompletedSubject = "jobs.refresh.completed"
)

// RefreshCompletedEvent announces that a backend refresh finished, so
// downstream consumers (the email-digest automation, for one) can react to
// fresh data.
type RefreshCompletedEvent struct {
	AddedJobs  int       `json:"added_jobs"`
	Message    string    `json:"message"`
	FinishedAt time.Time `json:"finished_at"`
}

type Publisher interface {
	PublishRefreshCompleted(ctx context.Context, event RefreshCompletedEvent) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger, config *config.Config) (Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(config.NATSConnTimeout),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(config.NATSURL, opts...)
	if err != nil {
		return nil, errors.Internal("connecting to NATS", err)
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *natsPublisher) PublishRefreshCompleted(ctx context.Context, event RefreshCompletedEvent) error {
	_, span := tracer.Start(ctx, "PublishRefreshCompleted")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling event", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", RefreshCompletedSubject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(RefreshCompletedSubject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish refresh event",
			zap.Int("added_jobs", event.AddedJobs),
			zap.Error(err))
		return errors.Internal("publishing to NATS", err)
	}

	p.logger.Debug("published refresh event",
		zap.Int("added_jobs", event.AddedJobs),
		zap.String("subject", RefreshCompletedSubject))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// NopPublisher drops every event; used when no NATS URL is configured.
type NopPublisher struct{}

func (NopPublisher) PublishRefreshCompleted(context.Context, RefreshCompletedEvent) error {
	return nil
}

func (NopPublisher) Close() {}
