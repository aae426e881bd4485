package eventservice

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wagslane/go-rabbitmq"
	"go.uber.org/zap"
)

const (
	ExchangeKindTopic = "topic"
	ExchangeName      = "events.topic"
)

const PlanCreatedTopic = "weekly_plan.created"
const PlanUpdatedTopic = "weekly_plan.updated"

const eventSource = "api-mod-semanal"

type EventPublisher interface {
	PublishPlanCreated(ctx context.Context, e WeeklyPlanEvent) error
	PublishPlanUpdated(ctx context.Context, e WeeklyPlanEvent) error
}

// rawPublisher es el subconjunto de *rabbitmq.Publisher que se usa aquí.
type rawPublisher interface {
	PublishWithContext(ctx context.Context, data []byte, routingKeys []string, optionFuncs ...func(*rabbitmq.PublishOptions)) error
}

type MQPublisher struct {
	pub    rawPublisher
	logger *zap.Logger
}

func NewMQPublisher(pub *rabbitmq.Publisher, logger *zap.Logger) *MQPublisher {
	return &MQPublisher{pub: pub, logger: logger}
}

func (p *MQPublisher) PublishPlanCreated(ctx context.Context, e WeeklyPlanEvent) error {
	return p.publish(ctx, PlanCreatedTopic, "weekly_plan_created", e)
}

func (p *MQPublisher) PublishPlanUpdated(ctx context.Context, e WeeklyPlanEvent) error {
	return p.publish(ctx, PlanUpdatedTopic, "weekly_plan_updated", e)
}

func (p *MQPublisher) publish(ctx context.Context, routingKey, eventType string, e WeeklyPlanEvent) error {
	fillDefaults(&e.BaseEvent, eventType)

	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	p.logger.Debug("Publishing weekly plan event",
		zap.String("routing_key", routingKey),
		zap.String("event_id", e.EventID),
		zap.Int("week_number", e.WeekNumber),
	)

	return p.pub.PublishWithContext(ctx, body, []string{routingKey},
		rabbitmq.WithPublishOptionsExchange(ExchangeName),
		rabbitmq.WithPublishOptionsContentType("application/json"),
		rabbitmq.WithPublishOptionsPersistentDelivery,
		rabbitmq.WithPublishOptionsTimestamp(e.OccurredAt),
		rabbitmq.WithPublishOptionsHeaders(rabbitmq.Table{
			"type":          eventType,
			"version":       e.Version,
			"correlationId": e.CorrelationID,
		}),
	)
}

func fillDefaults(e *BaseEvent, eventType string) {
	if e.EventID == "" {
		e.EventID = newUUID()
	}
	if e.EventType == "" {
		e.EventType = eventType
	}
	if e.Version == "" {
		e.Version = "1"
	}
	if e.Source == "" {
		e.Source = eventSource
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
}

// NoopPublisher se usa cuando no hay RabbitMQ configurado.
type NoopPublisher struct{}

func (NoopPublisher) PublishPlanCreated(context.Context, WeeklyPlanEvent) error { return nil }

func (NoopPublisher) PublishPlanUpdated(context.Context, WeeklyPlanEvent) error { return nil }

func newUUID() string { return uuid.New().String() }
