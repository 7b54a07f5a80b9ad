package pg

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cryptorate-service/internal/application"
	"cryptorate-service/internal/domain"

	"github.com/jackc/pgx/v5"
)

var _ application.QuoteSink = (*QuoteArchive)(nil)

const insertArchived = `
        INSERT INTO quote_archive(coin, price, change_1h, change_24h, change_7d, change_30d, quoted_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (coin, quoted_at) DO NOTHING`

// QuoteArchive appends every applied quote to Postgres. Nothing is read back
// into the in-memory store.
type QuoteArchive struct{ db *DB }

func NewQuoteArchive(db *DB) *QuoteArchive { return &QuoteArchive{db: db} }

type archiveRow struct {
	Coin      string
	Price     float64
	Change1h  *float64
	Change24h *float64
	Change7d  *float64
	Change30d *float64
	QuotedAt  time.Time
}

// archiveRows flattens a batch ordered by coin id.
func archiveRows(batch domain.QuoteBatch) []archiveRow {
	rows := make([]archiveRow, 0, len(batch.Quotes))
	for id, q := range batch.Quotes {
		rows = append(rows, archiveRow{
			Coin:      string(id),
			Price:     q.Price,
			Change1h:  q.Change1h,
			Change24h: q.Change24h,
			Change7d:  q.Change7d,
			Change30d: q.Change30d,
			QuotedAt:  q.Date,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Coin < rows[j].Coin })
	return rows
}

func (a *QuoteArchive) Publish(ctx context.Context, batch domain.QuoteBatch) error {
	rows := archiveRows(batch)
	if len(rows) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, r := range rows {
		b.Queue(insertArchived, r.Coin, r.Price, r.Change1h, r.Change24h, r.Change7d, r.Change30d, r.QuotedAt)
	}
	if err := a.db.Pool.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("archive quotes: %w", err)
	}
	return nil
}
