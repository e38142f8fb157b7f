// Package entsoe imports day-ahead prices from the ENTSO-E transparency
// platform and lays them onto the 15-minute price grid.
package entsoe

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/energy"
	"energy-report-service/pkg/timewindow"
)

const (
	DefaultURL             = "https://web-api.tp.entsoe.eu/api"
	DefaultDomain          = "10YFI-1--------U"
	DefaultMarketAgreement = "A01"

	// A44 is the price document
	documentTypePrices = "A44"
	periodLayout       = "200601021504"

	Slot = 15 * time.Minute
)

var (
	ErrNoPrices              = errors.New("no price points returned")
	ErrUnsupportedResolution = errors.New("unsupported resolution")
	ErrMissingToken          = errors.New("entsoe: empty security token")
)

var resolutions = map[string]time.Duration{
	"PT15M": 15 * time.Minute,
	"PT30M": 30 * time.Minute,
	"PT60M": 60 * time.Minute,
}

var intervalLayouts = []string{"2006-01-02T15:04Z07:00", time.RFC3339}

// Query selects the bidding zone pair and the day to fetch.
type Query struct {
	InDomain        string
	OutDomain       string
	MarketAgreement string
	Window          timewindow.DayWindow
}

func (q Query) withDefaults() Query {
	if q.InDomain == "" {
		q.InDomain = DefaultDomain
	}
	if q.OutDomain == "" {
		q.OutDomain = q.InDomain
	}
	if q.MarketAgreement == "" {
		q.MarketAgreement = DefaultMarketAgreement
	}
	return q
}

// PriceFetcher returns the published EUR/MWh points of a query keyed by their
// UTC start.
type PriceFetcher interface {
	FetchDayAhead(ctx context.Context, q Query) (map[time.Time]float64, error)
}

// Client is a minimal transparency platform REST client.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (c *Client) FetchDayAhead(ctx context.Context, q Query) (map[time.Time]float64, error) {
	q = q.withDefaults()

	params := url.Values{}
	params.Set("securityToken", c.token)
	params.Set("documentType", documentTypePrices)
	params.Set("in_Domain", q.InDomain)
	params.Set("out_Domain", q.OutDomain)
	params.Set("contract_MarketAgreement.type", q.MarketAgreement)
	params.Set("periodStart", q.Window.StartAbsolute.UTC().Format(periodLayout))
	params.Set("periodEnd", q.Window.EndAbsolute.UTC().Format(periodLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entsoe: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("entsoe: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if reason := acknowledgementReason(body); reason != "" {
			return nil, fmt.Errorf("entsoe: status %d: %s", resp.StatusCode, reason)
		}
		return nil, fmt.Errorf("entsoe: status %d", resp.StatusCode)
	}

	return ParsePrices(body)
}

type marketDocument struct {
	XMLName    xml.Name
	Reasons    []reason     `xml:"Reason"`
	TimeSeries []timeSeries `xml:"TimeSeries"`
}

type reason struct {
	Code string `xml:"code"`
	Text string `xml:"text"`
}

type timeSeries struct {
	Periods []period `xml:"Period"`
}

type period struct {
	Start      string  `xml:"timeInterval>start"`
	Resolution string  `xml:"resolution"`
	Points     []point `xml:"Point"`
}

type point struct {
	Position string  `xml:"position"`
	Amount   *string `xml:"price.amount"`
}

// ParsePrices reads a publication document. A point lands at period start
// plus (position-1) resolutions; a later period wins on a shared slot. An
// acknowledgement document becomes an error carrying its reason.
func ParsePrices(body []byte) (map[time.Time]float64, error) {
	var doc marketDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("entsoe: decode document: %w", err)
	}

	if strings.HasPrefix(doc.XMLName.Local, "Acknowledgement") {
		return nil, fmt.Errorf("%w: %s", ErrNoPrices, joinReasons(doc.Reasons))
	}

	prices := make(map[time.Time]float64)
	for _, series := range doc.TimeSeries {
		for _, p := range series.Periods {
			start := strings.TrimSpace(p.Start)
			res := strings.TrimSpace(p.Resolution)
			if start == "" || res == "" {
				continue
			}

			step, ok := resolutions[res]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedResolution, res)
			}
			periodStart, err := parseIntervalTime(start)
			if err != nil {
				return nil, err
			}

			for _, pt := range p.Points {
				pos, err := strconv.Atoi(strings.TrimSpace(pt.Position))
				if err != nil || pt.Amount == nil {
					continue
				}
				amount, err := strconv.ParseFloat(strings.TrimSpace(*pt.Amount), 64)
				if err != nil {
					return nil, fmt.Errorf("entsoe: price at position %d: %w", pos, err)
				}
				ts := periodStart.Add(time.Duration(pos-1) * step).UTC()
				prices[ts] = amount
			}
		}
	}
	return prices, nil
}

// FillGrid lays points onto every slot of [start, end). A slot without its own
// point repeats the last price before it; slots before the first point stay
// null.
func FillGrid(points map[time.Time]float64, start, end time.Time) ([]energy.PriceInput, error) {
	if len(points) == 0 {
		return nil, ErrNoPrices
	}

	byUnix := make(map[int64]float64, len(points))
	for ts, price := range points {
		byUnix[ts.Unix()] = price
	}

	var (
		inputs []energy.PriceInput
		last   *float64
	)
	for ts := start.UTC(); ts.Before(end); ts = ts.Add(Slot) {
		if price, ok := byUnix[ts.Unix()]; ok {
			last = common.Ptr(price)
		}
		var slot *float64
		if last != nil {
			slot = common.Ptr(*last)
		}
		inputs = append(inputs, energy.PriceInput{Timestamp: ts, Price: slot})
	}
	return inputs, nil
}

// ImportDay fetches the day of q, fills its grid and upserts every slot.
func ImportDay(ctx context.Context, fetcher PriceFetcher, prices energy.IPrice, q Query) (energy.IngestResult, error) {
	logger := common.GetLoggerWith(common.LoggerNameEntsoe)

	q = q.withDefaults()
	logger.Info("Fetching day-ahead prices",
		zap.String("date", q.Window.Date()),
		zap.String("in_domain", q.InDomain),
		zap.String("out_domain", q.OutDomain),
	)

	points, err := fetcher.FetchDayAhead(ctx, q)
	if err != nil {
		return energy.IngestResult{}, err
	}

	inputs, err := FillGrid(points, q.Window.StartAbsolute, q.Window.EndAbsolute)
	if err != nil {
		return energy.IngestResult{}, err
	}

	result, err := prices.UpsertPrices(ctx, inputs)
	if err != nil {
		return result, err
	}

	logger.Info("Imported day-ahead prices",
		zap.String("date", q.Window.Date()),
		zap.Int("points", len(points)),
		zap.Int("slots", result.Inserted),
	)
	return result, nil
}

func parseIntervalTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range intervalLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("entsoe: period start %q: %w", s, lastErr)
}

func acknowledgementReason(body []byte) string {
	var doc marketDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return ""
	}
	return joinReasons(doc.Reasons)
}

func joinReasons(reasons []reason) string {
	texts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if t := strings.TrimSpace(r.Text); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return "no reason given"
	}
	return strings.Join(texts, "; ")
}
