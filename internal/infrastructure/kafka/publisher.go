package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"cryptorate-service/internal/application"
	"cryptorate-service/internal/domain"

	"github.com/segmentio/kafka-go"
)

var _ application.QuoteSink = (*QuotePublisher)(nil)

// QuoteEvent is the message value published for every refreshed coin.
type QuoteEvent struct {
	Coin      domain.CoinID `json:"coin"`
	Price     float64       `json:"price"`
	Change1h  *float64      `json:"change1h,omitempty"`
	Change24h *float64      `json:"change24h,omitempty"`
	Change7d  *float64      `json:"change7d,omitempty"`
	Change30d *float64      `json:"change30d,omitempty"`
	QuotedAt  time.Time     `json:"quotedAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type QuotePublisher struct {
	writer messageWriter
}

func NewQuotePublisher(brokers []string, topic string) *QuotePublisher {
	return &QuotePublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

// quoteMessages builds one message per coin keyed by coin id, so a coin's
// quotes stay ordered within a partition.
func quoteMessages(batch domain.QuoteBatch) ([]kafka.Message, error) {
	ids := make([]domain.CoinID, 0, len(batch.Quotes))
	for id := range batch.Quotes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	msgs := make([]kafka.Message, 0, len(ids))
	for _, id := range ids {
		q := batch.Quotes[id]
		v, err := json.Marshal(QuoteEvent{
			Coin:      id,
			Price:     q.Price,
			Change1h:  q.Change1h,
			Change24h: q.Change24h,
			Change7d:  q.Change7d,
			Change30d: q.Change30d,
			QuotedAt:  q.Date,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", id, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(id),
			Value: v,
			Time:  batch.FetchedAt,
		})
	}
	return msgs, nil
}

func (p *QuotePublisher) Publish(ctx context.Context, batch domain.QuoteBatch) error {
	msgs, err := quoteMessages(batch)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write quote events: %w", err)
	}
	return nil
}

func (p *QuotePublisher) Close() error { return p.writer.Close() }
