package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	streamName    = "CRYPTO_OPS"
	subjectPrefix = "crypto.ops.%s"
)

// LiveFeed fans OperationEvents out over NATS JetStream so an operator
// dashboard can subscribe to crypto.ops.> without replaying the Kafka
// audit log, mirroring the teacher's JSClient stream setup without its
// chat-specific pull-consumer bookkeeping (dashboards subscribe live;
// nothing here needs to fetch-and-ack on their behalf).
type LiveFeed struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

func NewLiveFeed(url string) (*LiveFeed, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Printf("audit: nats error: %v", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("audit: connecting to nats: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("audit: opening jetstream context: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      streamName,
		Subjects:  []string{"crypto.ops.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		conn.Close()
		return nil, fmt.Errorf("audit: creating stream: %w", err)
	}

	return &LiveFeed{conn: conn, js: js}, nil
}

func (f *LiveFeed) Publish(event OperationEvent) error {
	subject := fmt.Sprintf(subjectPrefix, event.Operation)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("audit: marshaling event: %w", err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	if event.CorrelationID != "" {
		msg.Header.Set("Correlation-ID", event.CorrelationID)
	}
	if _, err := f.js.PublishMsg(msg); err != nil {
		return fmt.Errorf("audit: publishing event: %w", err)
	}
	return nil
}

func (f *LiveFeed) Close() {
	f.conn.Close()
}
