package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"listingScope/internal/model"
)

// Store exports resolved listing cycles to Postgres. The export is
// write-only: analysis runs never read persisted rows back.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertListingCycles inserts or updates a batch of resolved cycles, keyed by
// token id, cycle number, and the cycle's first event timestamp.
func (s *Store) UpsertListingCycles(ctx context.Context, cycles []model.ListingCycle) error {
	if len(cycles) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, cycle := range cycles {
		var priceAmount, priceCurrency *string
		if cycle.Status.Price != nil {
			priceAmount = &cycle.Status.Price.Amount
			priceCurrency = &cycle.Status.Price.Currency
		}
		batch.Queue(`
			INSERT INTO listing_cycles (
				token_id, cycle_number, first_event_ts, status, last_lister, buyer,
				token_name, token_symbol, expiry_ts, price_amount, price_currency,
				detail, event_count, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now(),now())
			ON CONFLICT (token_id, cycle_number, first_event_ts)
			DO UPDATE SET
				status = EXCLUDED.status,
				last_lister = EXCLUDED.last_lister,
				buyer = EXCLUDED.buyer,
				token_name = EXCLUDED.token_name,
				token_symbol = EXCLUDED.token_symbol,
				expiry_ts = EXCLUDED.expiry_ts,
				price_amount = EXCLUDED.price_amount,
				price_currency = EXCLUDED.price_currency,
				detail = EXCLUDED.detail,
				event_count = EXCLUDED.event_count,
				updated_at = now()
		`,
			cycle.TokenID,
			cycle.Number,
			cycle.FirstEventTimestamp,
			string(cycle.Status.Status),
			cycle.Status.LastLister,
			cycle.Status.Buyer,
			cycle.TokenName,
			cycle.TokenSymbol,
			cycle.Status.ExpiryTimestamp,
			priceAmount,
			priceCurrency,
			cycle.Status.Detail,
			len(cycle.Events),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range cycles {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
