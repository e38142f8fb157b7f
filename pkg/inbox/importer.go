package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/db"
	"energy-report-service/pkg/energy"
)

const (
	ProcessedDir = "processed"

	sourceTable = "weather"
)

// Extensions a database upload may carry to be picked up.
var importExtensions = []string{".db", ".sqlite", ".sqlite3"}

var errNoWeatherTable = errors.New("no " + sourceTable + " table")

// timestamps in producer files are written by several firmware versions
var sourceTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// sourceRow is one row of a producer's weather table.
type sourceRow struct {
	Ts               null.String
	TemperatureC     null.Float  `gorm:"column:temperature_c"`
	DewPointC        null.Float  `gorm:"column:dew_point_c"`
	RelativeHumidity null.Float  `gorm:"column:relative_humidity"`
	PressureHpa      null.Float  `gorm:"column:pressure_hpa"`
	WindSpeedMs      null.Float  `gorm:"column:wind_speed_ms"`
	WindDirectionDeg null.Float  `gorm:"column:wind_direction_deg"`
	PrecipMmph       null.Float  `gorm:"column:precip_mmph"`
	EnergyTodayWh    null.Float  `gorm:"column:energy_today_wh"`
	PvFeedInW        null.Float  `gorm:"column:pv_feed_in_w"`
	BatterySocPct    null.Float  `gorm:"column:battery_soc_pct"`
	ActivePowerPccW  null.Float  `gorm:"column:active_power_pcc_w"`
	BatChargeW       null.Float  `gorm:"column:bat_charge_w"`
	BatDischargeW    null.Float  `gorm:"column:bat_discharge_w"`
	SmaJSON          null.String `gorm:"column:sma_json"`
	MergedAt         null.String
	PushedAt         null.String
}

var sourceColumns = []string{
	"ts",
	"temperature_c",
	"dew_point_c",
	"relative_humidity",
	"pressure_hpa",
	"wind_speed_ms",
	"wind_direction_deg",
	"precip_mmph",
	"energy_today_wh",
	"pv_feed_in_w",
	"battery_soc_pct",
	"active_power_pcc_w",
	"bat_charge_w",
	"bat_discharge_w",
	"sma_json",
	"merged_at",
	"pushed_at",
}

// ImportSummary adds up one pass over the inbox.
type ImportSummary struct {
	Files      int
	Inserted   int
	Duplicates int
	Skipped    int
}

// Importer loads uploaded producer databases into telemetry. A file that was
// read completely moves to processed/; anything else stays for the next pass.
type Importer struct {
	Dir    string
	Target energy.ITelemetryImport
}

func NewImporter(dir string, target energy.ITelemetryImport) *Importer {
	return &Importer{Dir: dir, Target: target}
}

// ImportAll imports every pending file in name order. Unreadable files are
// logged and left in place. A storage failure stops the pass.
func (im *Importer) ImportAll(ctx context.Context) (ImportSummary, error) {
	log := common.GetLoggerWith(common.LoggerNameInbox)

	var summary ImportSummary

	pending, err := im.pending()
	if err != nil {
		return summary, err
	}

	for _, path := range pending {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		inputs, err := readSource(path)
		if err != nil {
			if errors.Is(err, errNoWeatherTable) {
				log.Info("Left file without weather table", zap.String("path", path))
			} else {
				log.Warn("Could not read inbox file", zap.String("path", path), zap.Error(err))
			}
			continue
		}

		result, err := im.Target.ImportTelemetry(ctx, inputs)
		if err != nil {
			return summary, fmt.Errorf("import %s: %w", filepath.Base(path), err)
		}

		if err := im.markProcessed(path); err != nil {
			return summary, err
		}

		summary.Files++
		summary.Inserted += result.Inserted
		summary.Duplicates += result.Duplicates
		summary.Skipped += result.Skipped

		log.Info("Imported inbox file",
			zap.String("path", path),
			zap.Int("rows", len(inputs)),
			zap.Int("inserted", result.Inserted),
			zap.Int("duplicates", result.Duplicates),
		)
	}

	return summary, nil
}

// Run calls ImportAll every interval until ctx ends. onImport sees each pass
// that stored at least one row.
func (im *Importer) Run(ctx context.Context, interval time.Duration, onImport func(ImportSummary)) {
	log := common.GetLoggerWith(common.LoggerNameInbox)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		summary, err := im.ImportAll(ctx)
		if err != nil && ctx.Err() == nil {
			log.Error("Inbox import failed", zap.Error(err))
		}
		if summary.Inserted > 0 && onImport != nil {
			onImport(summary)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (im *Importer) pending() ([]string, error) {
	entries, err := os.ReadDir(im.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read inbox dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if !slices.Contains(importExtensions, strings.ToLower(filepath.Ext(name))) {
			continue
		}
		paths = append(paths, filepath.Join(im.Dir, name))
	}
	slices.Sort(paths)
	return paths, nil
}

func (im *Importer) markProcessed(path string) error {
	dir := filepath.Join(im.Dir, ProcessedDir)
	if err := os.MkdirAll(dir, 0o775); err != nil {
		return fmt.Errorf("create processed dir: %w", err)
	}
	if err := os.Rename(path, filepath.Join(dir, filepath.Base(path))); err != nil {
		return fmt.Errorf("move processed file: %w", err)
	}
	return nil
}

// readSource reads the weather table of the sqlite file at path without
// writing to it.
func readSource(path string) ([]energy.TelemetryInput, error) {
	conn, err := gorm.Open(db.UseImmutableSqliteDialector(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	defer sqlDB.Close()

	if !conn.Migrator().HasTable(sourceTable) {
		return nil, errNoWeatherTable
	}

	var rows []sourceRow
	if err := conn.Table(sourceTable).Select(sourceColumns).Find(&rows).Error; err != nil {
		return nil, err
	}

	inputs := make([]energy.TelemetryInput, 0, len(rows))
	for _, row := range rows {
		inputs = append(inputs, row.toInput())
	}
	return inputs, nil
}

// toInput maps a source row onto an ingest entry. A timestamp that does not
// parse leaves the entry without one, so the import skips it.
func (r sourceRow) toInput() energy.TelemetryInput {
	in := energy.TelemetryInput{
		Timestamp: parseSourceTime(r.Ts),

		Temperature:           r.TemperatureC,
		DewPoint:              r.DewPointC,
		Humidity:              r.RelativeHumidity,
		Pressure:              r.PressureHpa,
		WindSpeed:             r.WindSpeedMs,
		WindDirection:         r.WindDirectionDeg,
		PrecipitationRate:     r.PrecipMmph,
		EnergyTotal:           r.EnergyTodayWh,
		PVPower:               r.PvFeedInW,
		BatterySOC:            r.BatterySocPct,
		ActivePower:           r.ActivePowerPccW,
		BatteryChargePower:    r.BatChargeW,
		BatteryDischargePower: r.BatDischargeW,

		MergedAt: parseSourceTime(r.MergedAt),
		PushedAt: parseSourceTime(r.PushedAt),
	}
	if blob := strings.TrimSpace(r.SmaJSON.String); r.SmaJSON.Valid && blob != "" {
		in.Attributes = json.RawMessage(blob)
	}
	return in
}

// parseSourceTime reads a producer timestamp. One without an offset is UTC.
func parseSourceTime(s null.String) null.Time {
	raw := strings.TrimSpace(s.String)
	if !s.Valid || raw == "" {
		return null.Time{}
	}
	for _, layout := range sourceTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return null.TimeFrom(t.UTC())
		}
	}
	return null.Time{}
}
