package event

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"storefront/pkg/store/domain/service"
)

const (
	publishTimeout = 5 * time.Second
	// Dispatch blocks its caller until the batch is flushed
	batchTimeout = 10 * time.Millisecond
)

// Envelope is the message value published for each domain event.
type Envelope struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaDispatcher struct {
	writer messageWriter
	source string
}

func ParseBrokers(brokersCSV string) []string {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func NewKafkaDispatcher(brokers []string, topic, source string) *KafkaDispatcher {
	return &KafkaDispatcher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: batchTimeout,
		},
		source: source,
	}
}

func NewEnvelope(event service.Event, source string, now time.Time) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "encode %s", event.Type())
	}
	return Envelope{
		EventID:   uuid.NewString(),
		Type:      event.Type(),
		Source:    source,
		CreatedAt: now.UTC(),
		Payload:   payload,
	}, nil
}

func (d *KafkaDispatcher) Dispatch(event service.Event) error {
	envelope, err := NewEnvelope(event, d.source, time.Now())
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, "encode envelope")
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = d.writer.WriteMessages(ctx, kafka.Message{Key: []byte(envelope.Type), Value: data, Time: envelope.CreatedAt})
	return errors.Wrapf(err, "publish %s", envelope.Type)
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
