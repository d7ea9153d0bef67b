package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cerrolargo/camineria-backend/internal/config"
	"github.com/cerrolargo/camineria-backend/internal/zones"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

const (
	capAlertsCollection = "/collections/urn%3Awmo%3Amd%3Auy-inumet%3Acap-alerts/items"
	messagesCollection  = "/collections/messages/items"
	wis2MetadataID      = "urn:wmo:md:uy-inumet:cap-alerts"

	capAlertProperties = "description,name,phenomenonTime,reportId,reportTime,units,value,wigos_station_identifier"
)

var (
	ErrFeedTimeout = errors.New("timeout consultando INUMET")
	ErrFeedHTTP    = errors.New("error HTTP consultando INUMET")
)

// Department mention tokens. Alert text from INUMET names either the
// department or individual localities; both count as a match.
var departmentTokens = []string{
	"cerro largo", "cerrolargo", "c largo", "c.largo", "dpto cerro largo",
}

var localityTokens = []string{
	"melo", "rio branco", "fraile muerto", "acegua", "isidoro noblia",
	"cerro de las cuentas", "arevalo", "banado de medina", "tres islas",
	"laguna merin", "centurion", "ramon trigo", "arbolito", "quebracho",
	"placido rosas", "tupambae", "las canas",
}

// Alert is the trimmed CAP alert relayed to the frontend.
type Alert struct {
	ReportID       string   `json:"reportId"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	PhenomenonTime *string  `json:"phenomenonTime"`
	ReportTime     *string  `json:"reportTime"`
	Units          *string  `json:"units"`
	Value          *float64 `json:"value"`
	WigosStationID *string  `json:"wigos_station_identifier"`
}

// WIS2Signal summarizes the messages-collection fallback probe.
type WIS2Signal struct {
	OK           bool     `json:"ok"`
	Status       int      `json:"status,omitempty"`
	HasSignal    bool     `json:"has_signal,omitempty"`
	LastDatetime *string  `json:"last_datetime,omitempty"`
	LastDataID   *string  `json:"last_data_id,omitempty"`
	LastAgeHours *float64 `json:"last_age_hours,omitempty"`
	Returned     int      `json:"returned,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// AlertsResult is the cerro-largo endpoint payload; Debug fields are
// populated only when requested.
type AlertsResult struct {
	OK     bool        `json:"ok"`
	Count  int         `json:"count"`
	Alerts []Alert     `json:"alerts"`
	WIS2   *WIS2Signal `json:"wis2"`

	FeedNumberMatched  *int `json:"feed_numberMatched,omitempty"`
	FeedNumberReturned *int `json:"feed_numberReturned,omitempty"`
	SignalMaxAgeHours  *int `json:"signal_max_age_hours,omitempty"`
}

// RawResult is the diagnostic passthrough payload.
type RawResult struct {
	OK             bool              `json:"ok"`
	Status         int               `json:"status"`
	NumberMatched  *int              `json:"numberMatched"`
	NumberReturned *int              `json:"numberReturned"`
	FeaturesSample []json.RawMessage `json:"features_sample"`
	WIS2           *WIS2Signal       `json:"wis2,omitempty"`
}

type featureCollection struct {
	NumberMatched  *int              `json:"numberMatched"`
	NumberReturned *int              `json:"numberReturned"`
	Features       []json.RawMessage `json:"features"`
}

type feature struct {
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// AlertService polls the INUMET WIS2/OGC feed and filters it down to
// alerts relevant to Cerro Largo.
type AlertService struct {
	cfg    *config.Config
	client *http.Client

	shapeOnce sync.Once
	shape     orb.Geometry
}

func NewAlertService(cfg *config.Config) *AlertService {
	return &AlertService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.InumetFetchTimeout},
	}
}

func (s *AlertService) getJSON(ctx context.Context, rawURL string, params url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) && uerr.Timeout() {
			return 0, nil, ErrFeedTimeout
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrFeedHTTP, err)
	}
	defer resp.Body.Close()

	ctype := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ctype, "json") {
		return resp.StatusCode, nil, fmt.Errorf("%w: unexpected content type %q", ErrFeedHTTP, ctype)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: %v", ErrFeedHTTP, err)
	}
	return resp.StatusCode, body, nil
}

func (s *AlertService) fetchCapAlerts(ctx context.Context, withGeometry bool) (*featureCollection, error) {
	params := url.Values{
		"f":          {"json"},
		"limit":      {"200"},
		"properties": {capAlertProperties},
	}
	if !withGeometry {
		params.Set("skipGeometry", "true")
	}

	_, body, err := s.getJSON(ctx, s.cfg.InumetBaseURL+capAlertsCollection, params)
	if err != nil {
		return nil, err
	}

	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("%w: bad feed payload: %v", ErrFeedHTTP, err)
	}
	return &fc, nil
}

// wis2Signal probes the messages collection when the alert listing comes
// back empty; a recent notification means the listing is lagging.
func (s *AlertService) wis2Signal(ctx context.Context) *WIS2Signal {
	params := url.Values{
		"f":           {"json"},
		"limit":       {"50"},
		"metadata_id": {wis2MetadataID},
		"sortby":      {"-datetime"},
	}

	status, body, err := s.getJSON(ctx, s.cfg.InumetBaseURL+messagesCollection, params)
	if err != nil {
		return &WIS2Signal{OK: false, Status: status, Error: err.Error()}
	}

	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return &WIS2Signal{OK: false, Error: err.Error()}
	}
	if len(fc.Features) == 0 {
		return &WIS2Signal{OK: true}
	}

	var first feature
	if err := json.Unmarshal(fc.Features[0], &first); err != nil {
		return &WIS2Signal{OK: false, Error: err.Error()}
	}

	sig := &WIS2Signal{OK: true, HasSignal: true, Returned: len(fc.Features)}
	if id, ok := first.Properties["data_id"].(string); ok {
		sig.LastDataID = &id
	}
	for _, key := range []string{"datetime", "time", "pubtime"} {
		if ts, ok := first.Properties[key].(string); ok && ts != "" {
			sig.LastDatetime = &ts
			if t, err := parseISOUTC(ts); err == nil {
				age := time.Since(t).Hours()
				sig.LastAgeHours = &age
			}
			break
		}
	}
	return sig
}

// CerroLargoAlerts returns department-relevant alerts, falling back to a
// synthetic alert when only a fresh WIS2 signal exists.
func (s *AlertService) CerroLargoAlerts(ctx context.Context, debug bool) (*AlertsResult, error) {
	useGeometry := s.departmentShape() != nil
	fc, err := s.fetchCapAlerts(ctx, useGeometry)
	if err != nil {
		return nil, err
	}

	out := []Alert{}
	for _, raw := range fc.Features {
		var f feature
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		if s.matches(&f) {
			out = append(out, alertFromProps(f.Properties))
		}
	}

	var signal *WIS2Signal
	if len(out) == 0 && (fc.NumberReturned == nil || *fc.NumberReturned == 0) {
		signal = s.wis2Signal(ctx)
		if signal != nil && signal.OK && signal.HasSignal && signal.LastDatetime != nil {
			if t, err := parseISOUTC(*signal.LastDatetime); err == nil && time.Since(t) <= s.cfg.SignalMaxAge {
				out = append(out, syntheticSignalAlert(signal))
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return derefOr(out[i].ReportTime, "") > derefOr(out[j].ReportTime, "")
	})

	result := &AlertsResult{OK: true, Count: len(out), Alerts: out, WIS2: signal}
	if debug {
		result.FeedNumberMatched = fc.NumberMatched
		result.FeedNumberReturned = fc.NumberReturned
		maxAge := int(s.cfg.SignalMaxAge.Hours())
		result.SignalMaxAgeHours = &maxAge
	}
	return result, nil
}

// Raw is the diagnostic passthrough of the feed.
func (s *AlertService) Raw(ctx context.Context) (*RawResult, error) {
	fc, err := s.fetchCapAlerts(ctx, false)
	if err != nil {
		return nil, err
	}

	sample := fc.Features
	if len(sample) > 2 {
		sample = sample[:2]
	}
	result := &RawResult{
		OK:             true,
		Status:         http.StatusOK,
		NumberMatched:  fc.NumberMatched,
		NumberReturned: fc.NumberReturned,
		FeaturesSample: sample,
	}
	if fc.NumberReturned == nil || *fc.NumberReturned == 0 {
		result.WIS2 = s.wis2Signal(ctx)
	}
	return result, nil
}

// matches applies the geometry test when a department shape is
// configured and the feature carries geometry, then falls back to text.
func (s *AlertService) matches(f *feature) bool {
	if shape := s.departmentShape(); shape != nil && len(f.Geometry) > 0 {
		if geom, err := geojson.UnmarshalGeometry(f.Geometry); err == nil {
			if geometryTouches(shape, geom.Geometry()) {
				return true
			}
		}
	}
	return mentionsCerroLargo(f.Properties)
}

// departmentShape lazily loads the department polygon, from
// CERRO_SHAPE_FILE when set, CERRO_GEOJSON_URL otherwise. Load failures
// disable geometry matching for the process lifetime.
func (s *AlertService) departmentShape() orb.Geometry {
	if s.cfg.CerroShapeFile == "" && s.cfg.CerroGeoJSONURL == "" {
		return nil
	}
	s.shapeOnce.Do(func() {
		body, err := s.shapeBytes()
		if err != nil {
			slog.Error("department shape load failed", "error", err)
			return
		}
		fc, err := geojson.UnmarshalFeatureCollection(body)
		if err != nil || len(fc.Features) == 0 {
			slog.Error("department shape decode failed", "error", err)
			return
		}
		s.shape = fc.Features[0].Geometry
	})
	return s.shape
}

func (s *AlertService) shapeBytes() ([]byte, error) {
	if s.cfg.CerroShapeFile != "" {
		return os.ReadFile(s.cfg.CerroShapeFile)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.InumetFetchTimeout)
	defer cancel()
	_, body, err := s.getJSON(ctx, s.cfg.CerroGeoJSONURL, url.Values{})
	return body, err
}

func geometryTouches(department, g orb.Geometry) bool {
	for _, p := range samplePoints(g) {
		switch dep := department.(type) {
		case orb.Polygon:
			if planar.PolygonContains(dep, p) {
				return true
			}
		case orb.MultiPolygon:
			if planar.MultiPolygonContains(dep, p) {
				return true
			}
		}
	}
	return false
}

func samplePoints(g orb.Geometry) []orb.Point {
	switch geom := g.(type) {
	case orb.Point:
		return []orb.Point{geom}
	case orb.MultiPoint:
		return geom
	case orb.Polygon:
		pts := []orb.Point{geom.Bound().Center()}
		if len(geom) > 0 {
			pts = append(pts, geom[0]...)
		}
		return pts
	case orb.MultiPolygon:
		var pts []orb.Point
		for _, poly := range geom {
			pts = append(pts, samplePoints(poly)...)
		}
		return pts
	default:
		return []orb.Point{g.Bound().Center()}
	}
}

func mentionsCerroLargo(props map[string]any) bool {
	fields := []string{
		"name", "description", "headline", "event",
		"areaDesc", "geographicDomain", "instruction", "senderName",
	}
	var parts []string
	for _, f := range fields {
		if v, ok := props[f].(string); ok && v != "" {
			parts = append(parts, v)
		}
	}
	text := zones.Canonical(strings.Join(parts, " "))
	for _, tok := range departmentTokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	for _, loc := range localityTokens {
		if strings.Contains(text, loc) {
			return true
		}
	}
	return false
}

func alertFromProps(props map[string]any) Alert {
	a := Alert{ReportID: stringProp(props, "reportId"), Description: stringProp(props, "description")}
	a.Name = stringProp(props, "name")
	if a.Name == "" {
		a.Name = "Alerta INUMET"
	}
	a.PhenomenonTime = optStringProp(props, "phenomenonTime")
	a.ReportTime = optStringProp(props, "reportTime")
	a.Units = optStringProp(props, "units")
	if v, ok := props["value"].(float64); ok {
		a.Value = &v
	}
	a.WigosStationID = optStringProp(props, "wigos_station_identifier")
	return a
}

func syntheticSignalAlert(sig *WIS2Signal) Alert {
	id := "wis2-signal"
	if sig.LastDataID != nil {
		id = *sig.LastDataID
	}
	return Alert{
		ReportID: id,
		Name:     "Aviso INUMET (señal WIS2)",
		Description: "Notificación reciente en WIS2 para cap-alerts; " +
			"el listado HTTP aún está vacío (posible desfase).",
		ReportTime: sig.LastDatetime,
	}
}

func parseISOUTC(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

func stringProp(props map[string]any, key string) string {
	v, _ := props[key].(string)
	return v
}

func optStringProp(props map[string]any, key string) *string {
	if v, ok := props[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}
