// journal/csv.go
package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/swingbot/market"
)

type CSVJournal struct {
	candles *csv.Writer
	orders  *csv.Writer
	cf, of  *os.File
}

func NewCSV(candlesPath, ordersPath string) (*CSVJournal, error) {
	cf, err := os.Create(candlesPath)
	if err != nil {
		return nil, err
	}
	of, err := os.Create(ordersPath)
	if err != nil {
		cf.Close()
		return nil, err
	}
	closeBoth := func() {
		cf.Close()
		of.Close()
	}

	cw := csv.NewWriter(cf)
	ow := csv.NewWriter(of)

	if err := cw.Write([]string{"interval", "bucket_start", "open", "high", "low", "close", "volume", "trade_count"}); err != nil {
		closeBoth()
		return nil, err
	}
	if err := ow.Write([]string{"order_id", "pair", "side", "base_amount", "price", "result", "reason", "submitted_at"}); err != nil {
		closeBoth()
		return nil, err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		closeBoth()
		return nil, err
	}
	ow.Flush()
	if err := ow.Error(); err != nil {
		closeBoth()
		return nil, err
	}

	return &CSVJournal{cw, ow, cf, of}, nil
}

func (j *CSVJournal) AppendCandle(c market.Candle) error {
	err := j.candles.Write([]string{
		c.Interval.String(),
		c.BucketStart.UTC().Format(time.RFC3339),
		f(c.Open),
		f(c.High),
		f(c.Low),
		f(c.Close),
		f(c.Volume),
		strconv.Itoa(c.TradeCount),
	})
	if err != nil {
		return err
	}

	j.candles.Flush()
	return j.candles.Error()
}

// QueryCandles is not supported on the CSV journal; the candles subcommand
// needs the SQLite store.
func (j *CSVJournal) QueryCandles(iv market.Interval, from, to time.Time) ([]market.Candle, error) {
	return nil, fmt.Errorf("csv journal does not support queries")
}

func (j *CSVJournal) RecordOrder(o OrderRecord) error {
	err := j.orders.Write([]string{
		o.OrderID,
		o.Pair,
		o.Side,
		f(o.BaseAmount),
		f(o.Price),
		o.Result,
		o.Reason,
		o.SubmittedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	j.orders.Flush()
	return j.orders.Error()
}

func (j *CSVJournal) Close() error {
	j.candles.Flush()
	j.orders.Flush()
	if err := j.cf.Close(); err != nil {
		return err
	}
	return j.of.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
