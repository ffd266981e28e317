package events

import (
    "context"
    "encoding/json"
    "time"

    "github.com/google/uuid"
    "github.com/segmentio/kafka-go"
    "go.uber.org/zap"
)

const catalogTopic = "catalog-events"

type KafkaProducer struct {
    writer *kafka.Writer
    logger *zap.Logger
}

func NewKafkaProducer(brokers string, logger *zap.Logger) *KafkaProducer {
    writer := &kafka.Writer{
        Addr:         kafka.TCP(brokers),
        Topic:        catalogTopic,
        Balancer:     &kafka.LeastBytes{},
        BatchTimeout: 10 * time.Millisecond,
    }

    return &KafkaProducer{
        writer: writer,
        logger: logger,
    }
}

// Publish writes the event to the catalog topic. Failures are logged and
// swallowed so a broker outage never fails a catalog operation.
func (p *KafkaProducer) Publish(event CatalogEvent) {
    if event.EventID == "" {
        event.EventID = uuid.NewString()
    }
    if event.Timestamp.IsZero() {
        event.Timestamp = time.Now().UTC()
    }

    eventBytes, err := json.Marshal(event)
    if err != nil {
        p.logger.Error("Failed to marshal event", zap.Error(err))
        return
    }

    msg := kafka.Message{
        Key:   []byte(event.EventID),
        Value: eventBytes,
    }

    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()

    if err := p.writer.WriteMessages(ctx, msg); err != nil {
        p.logger.Error("Failed to publish event",
            zap.String("event_id", event.EventID),
            zap.String("type", string(event.Type)),
            zap.Error(err))
        return
    }

    p.logger.Info("Event published",
        zap.String("event_id", event.EventID),
        zap.String("type", string(event.Type)))
}

func (p *KafkaProducer) Close() error {
    if p.writer != nil {
        return p.writer.Close()
    }
    return nil
}
