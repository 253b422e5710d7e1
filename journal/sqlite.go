package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/swingbot/market"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) AppendCandle(c market.Candle) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO candles
		(interval, bucket_start, open, high, low, close, volume, trade_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Interval.String(), c.BucketStart.UTC(), c.Open, c.High,
		c.Low, c.Close, c.Volume, c.TradeCount,
	)
	return err
}

func (j *SQLiteJournal) QueryCandles(iv market.Interval, from, to time.Time) ([]market.Candle, error) {
	rows, err := j.db.Query(`
		SELECT bucket_start, open, high, low, close, volume, trade_count
		FROM candles
		WHERE interval = ? AND bucket_start >= ? AND bucket_start < ?
		ORDER BY bucket_start ASC`,
		iv.String(), from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Candle
	for rows.Next() {
		c := market.Candle{Interval: iv, IsFinal: true}
		if err := rows.Scan(
			&c.BucketStart,
			&c.Open,
			&c.High,
			&c.Low,
			&c.Close,
			&c.Volume,
			&c.TradeCount,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) RecordOrder(o OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(order_id, pair, side, base_amount, price, result, reason, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderID, o.Pair, o.Side, o.BaseAmount, o.Price,
		o.Result, o.Reason, o.SubmittedAt.UTC(),
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
