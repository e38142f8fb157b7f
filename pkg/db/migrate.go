package db

import (
	"fmt"

	"energy-report-service/pkg/models"
)

const priceGridConstraint = "chk_prices_ts_grid"

// pricesDDL carries the 15-minute grid check, which gorm tags cannot express
// portably. A slot starts on a whole minute, so seconds and fractions must be
// zero too. sqlite stores ts as text and only writes a fraction when it is
// non-zero.
var pricesDDL = map[string]string{
	"sqlite": `CREATE TABLE IF NOT EXISTS prices (
	ts DATETIME NOT NULL PRIMARY KEY,
	price REAL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	CONSTRAINT ` + priceGridConstraint + ` CHECK (
		CAST(strftime('%M', ts) AS INTEGER) % 15 = 0
		AND strftime('%f', ts) = '00.000'
		AND instr(ts, '.') = 0
	)
)`,
	"postgres": `CREATE TABLE IF NOT EXISTS prices (
	ts TIMESTAMPTZ NOT NULL PRIMARY KEY,
	price DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT ` + priceGridConstraint + ` CHECK (
		date_trunc('minute', ts) = ts
		AND EXTRACT(MINUTE FROM ts AT TIME ZONE 'UTC') IN (0, 15, 30, 45)
	)
)`,
}

// Migrate creates missing tables. Safe to run on every start.
func (d *DB) Migrate() error {
	ddl, ok := pricesDDL[d.Conn.Dialector.Name()]
	if !ok {
		return fmt.Errorf("no prices schema for dialector %q", d.Conn.Dialector.Name())
	}
	if err := d.Conn.Exec(ddl).Error; err != nil {
		return fmt.Errorf("create prices: %w", err)
	}

	if err := d.Conn.AutoMigrate(&models.Telemetry{}, &models.Forecast{}); err != nil {
		return err
	}
	return nil
}
