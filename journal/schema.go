// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS candles (
	interval TEXT NOT NULL,
	bucket_start DATETIME NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	trade_count INTEGER NOT NULL,
	PRIMARY KEY (interval, bucket_start)
);

CREATE TABLE IF NOT EXISTS orders (
	order_id TEXT PRIMARY KEY,
	pair TEXT NOT NULL,
	side TEXT NOT NULL,
	base_amount REAL NOT NULL,
	price REAL NOT NULL,
	result TEXT NOT NULL,
	reason TEXT NOT NULL,
	submitted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candles_bucket ON candles(interval, bucket_start);
CREATE INDEX IF NOT EXISTS idx_orders_submitted ON orders(submitted_at);
`
