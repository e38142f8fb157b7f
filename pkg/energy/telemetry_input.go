package energy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"gorm.io/datatypes"

	"energy-report-service/pkg/models"
)

var errNotRecord = errors.New("entry is not a record")

// Identifier is the optional external row id. Null, zero, empty string and a
// missing key all mean "let the store assign one".
type Identifier struct {
	value uint
	set   bool
}

func NewIdentifier(id uint) Identifier {
	return Identifier{value: id, set: id != 0}
}

// Value returns the id and whether it selects the upsert path.
func (id Identifier) Value() (uint, bool) {
	return id.value, id.set
}

func (id *Identifier) UnmarshalJSON(data []byte) error {
	*id = Identifier{}

	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	if n, err := strconv.ParseUint(raw, 10, 63); err == nil {
		*id = NewIdentifier(uint(n))
		return nil
	}

	// 5.0 and 5e0 are still the integer 5
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > 1<<53 {
		return fmt.Errorf("id %s is not a non-negative integer", string(data))
	}

	*id = NewIdentifier(uint(f))
	return nil
}

// TelemetryInput is one decoded ingest entry in the producers' wire format
// (unit-suffixed keys, vendor blob under sma_json). Unknown keys are ignored
// and every missing or null field stays null.
type TelemetryInput struct {
	ID        Identifier `json:"id"`
	Timestamp null.Time  `json:"ts"`

	Temperature           null.Float `json:"temperature_c"`
	DewPoint              null.Float `json:"dew_point_c"`
	Humidity              null.Float `json:"relative_humidity"`
	Pressure              null.Float `json:"pressure_hpa"`
	WindSpeed             null.Float `json:"wind_speed_ms"`
	WindGust              null.Float `json:"wind_gust_ms"`
	WindDirection         null.Float `json:"wind_direction_deg"`
	PrecipitationRate     null.Float `json:"precip_mmph"`
	EnergyTotal           null.Float `json:"energy_today_wh"`
	PVPower               null.Float `json:"pv_feed_in_w"`
	BatterySOC            null.Float `json:"battery_soc_pct"`
	ActivePower           null.Float `json:"active_power_pcc_w"`
	BatteryChargePower    null.Float `json:"bat_charge_w"`
	BatteryDischargePower null.Float `json:"bat_discharge_w"`

	Attributes json.RawMessage `json:"sma_json"`

	MergedAt null.Time `json:"merged_at"`
	PushedAt null.Time `json:"pushed_at"`
}

// decodeBatch splits a JSON array payload into its raw entries.
func decodeBatch(payload []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of records", ErrInvalidPayload)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return entries, nil
}

func decodeTelemetryEntry(raw json.RawMessage) (TelemetryInput, error) {
	var input TelemetryInput

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return input, errNotRecord
	}

	if err := json.Unmarshal(trimmed, &input); err != nil {
		return input, err
	}
	return input, nil
}

// toModel builds the row to store. A missing timestamp becomes now.
func (in TelemetryInput) toModel(now time.Time) (models.Telemetry, error) {
	attributes, err := canonicalJSON(in.Attributes)
	if err != nil {
		return models.Telemetry{}, fmt.Errorf("attributes: %w", err)
	}

	ts := now
	if in.Timestamp.Valid {
		ts = in.Timestamp.Time
	}

	row := models.Telemetry{
		Timestamp: ts.UTC(),

		Temperature:           in.Temperature.Ptr(),
		DewPoint:              in.DewPoint.Ptr(),
		Humidity:              in.Humidity.Ptr(),
		Pressure:              in.Pressure.Ptr(),
		WindSpeed:             in.WindSpeed.Ptr(),
		WindGust:              in.WindGust.Ptr(),
		WindDirection:         in.WindDirection.Ptr(),
		PrecipitationRate:     in.PrecipitationRate.Ptr(),
		EnergyTotal:           in.EnergyTotal.Ptr(),
		PVPower:               in.PVPower.Ptr(),
		BatterySOC:            in.BatterySOC.Ptr(),
		ActivePower:           in.ActivePower.Ptr(),
		BatteryChargePower:    in.BatteryChargePower.Ptr(),
		BatteryDischargePower: in.BatteryDischargePower.Ptr(),

		Attributes: attributes,

		MergedAt: utcPtr(in.MergedAt),
		PushedAt: utcPtr(in.PushedAt),
	}

	if id, ok := in.ID.Value(); ok {
		row.ID = id
	}
	return row, nil
}

func utcPtr(t null.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}

// canonicalJSON re-encodes a blob with sorted object keys, no insignificant
// whitespace and unescaped HTML characters. Numbers keep their literal text.
func canonicalJSON(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return datatypes.JSON(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
