package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-monitor/internal/config"
)

// KafkaPublisher forwards escalation and report events to Kafka. A nil
// publisher (no brokers configured) is a valid no-op.
type KafkaPublisher struct {
	escalationWriter *kafka.Writer
	reportWriter     *kafka.Writer
	logger           *zap.Logger
}

// NewKafkaPublisher creates writers for the configured topics. Returns nil
// when no brokers are configured.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	return &KafkaPublisher{
		escalationWriter: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.EscalationTopic,
			Balancer: &kafka.LeastBytes{},
		},
		reportWriter: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.ReportTopic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// Register wires the publisher into the dispatcher for outbound event types.
func (p *KafkaPublisher) Register(dispatcher Dispatcher) {
	if p == nil {
		return
	}
	dispatcher.Subscribe(EventTicketEscalated, p.publishEscalation)
	dispatcher.Subscribe(EventEscalationResolved, p.publishEscalation)
	dispatcher.Subscribe(EventReportGenerated, p.publishReport)
}

func (p *KafkaPublisher) publishEscalation(ctx context.Context, event Event) error {
	return p.write(ctx, p.escalationWriter, event.TicketID, event)
}

func (p *KafkaPublisher) publishReport(ctx context.Context, event Event) error {
	return p.write(ctx, p.reportWriter, string(event.Type), event)
}

func (p *KafkaPublisher) write(ctx context.Context, writer *kafka.Writer, key string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("kafka publish failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}

// Close closes the Kafka writers.
func (p *KafkaPublisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.escalationWriter.Close(); err != nil {
		return err
	}
	return p.reportWriter.Close()
}
