package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cerrolargo/camineria-backend/internal/config"
	"github.com/stretchr/testify/require"
)

func alertConfig(baseURL string) *config.Config {
	return &config.Config{
		InumetBaseURL:      baseURL,
		SignalMaxAge:       12 * time.Hour,
		InumetFetchTimeout: 2 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func TestCerroLargoAlertsTextMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.Contains(r.URL.Path, "cap-alerts"))
		writeJSON(w, `{
			"numberMatched": 3, "numberReturned": 3,
			"features": [
				{"properties": {"reportId": "a1", "name": "Alerta amarilla", "description": "Tormentas fuertes en Cerro Largo y Treinta y Tres", "reportTime": "2026-08-30T10:00:00Z"}},
				{"properties": {"reportId": "a2", "name": "Alerta naranja", "description": "Vientos fuertes en Río Branco", "reportTime": "2026-08-30T12:00:00Z"}},
				{"properties": {"reportId": "a3", "name": "Alerta amarilla", "description": "Lluvias en Artigas"}}
			]
		}`)
	}))
	defer srv.Close()

	svc := NewAlertService(alertConfig(srv.URL))
	result, err := svc.CerroLargoAlerts(context.Background(), false)
	require.NoError(t, err)
	require.True(t, result.OK)
	require.Equal(t, 2, result.Count)

	// Newest reportTime first.
	require.Equal(t, "a2", result.Alerts[0].ReportID)
	require.Equal(t, "a1", result.Alerts[1].ReportID)
	require.Nil(t, result.FeedNumberMatched)
}

func TestCerroLargoAlertsDebugFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "cap-alerts") {
			writeJSON(w, `{"numberMatched": 0, "numberReturned": 0, "features": []}`)
			return
		}
		writeJSON(w, `{"features": []}`)
	}))
	defer srv.Close()

	svc := NewAlertService(alertConfig(srv.URL))
	result, err := svc.CerroLargoAlerts(context.Background(), true)
	require.NoError(t, err)
	require.Zero(t, result.Count)
	require.NotNil(t, result.FeedNumberMatched)
	require.Zero(t, *result.FeedNumberMatched)
	require.NotNil(t, result.SignalMaxAgeHours)
	require.Equal(t, 12, *result.SignalMaxAgeHours)
}

func TestCerroLargoAlertsSyntheticFromFreshSignal(t *testing.T) {
	recent := time.Now().UTC().Add(-1 * time.Hour).Format(time.RFC3339)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "cap-alerts") {
			writeJSON(w, `{"numberMatched": 0, "numberReturned": 0, "features": []}`)
			return
		}
		writeJSON(w, `{"features": [
			{"properties": {"data_id": "wis2-abc", "datetime": "`+recent+`"}}
		]}`)
	}))
	defer srv.Close()

	svc := NewAlertService(alertConfig(srv.URL))
	result, err := svc.CerroLargoAlerts(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	require.Equal(t, "wis2-abc", result.Alerts[0].ReportID)
	require.NotNil(t, result.WIS2)
	require.True(t, result.WIS2.HasSignal)
}

func TestCerroLargoAlertsStaleSignalIgnored(t *testing.T) {
	stale := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "cap-alerts") {
			writeJSON(w, `{"numberMatched": 0, "numberReturned": 0, "features": []}`)
			return
		}
		writeJSON(w, `{"features": [
			{"properties": {"data_id": "wis2-old", "datetime": "`+stale+`"}}
		]}`)
	}))
	defer srv.Close()

	svc := NewAlertService(alertConfig(srv.URL))
	result, err := svc.CerroLargoAlerts(context.Background(), false)
	require.NoError(t, err)
	require.Zero(t, result.Count)
}

func TestAlertFeedTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeJSON(w, `{"features": []}`)
	}))
	defer srv.Close()

	cfg := alertConfig(srv.URL)
	cfg.InumetFetchTimeout = 50 * time.Millisecond
	svc := NewAlertService(cfg)

	_, err := svc.CerroLargoAlerts(context.Background(), false)
	require.ErrorIs(t, err, ErrFeedTimeout)
}

func TestAlertFeedBadContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html>mantenimiento</html>")
	}))
	defer srv.Close()

	svc := NewAlertService(alertConfig(srv.URL))
	_, err := svc.CerroLargoAlerts(context.Background(), false)
	require.ErrorIs(t, err, ErrFeedHTTP)
}

func TestRawSamplesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{
			"numberMatched": 3, "numberReturned": 3,
			"features": [
				{"properties": {"reportId": "a1"}},
				{"properties": {"reportId": "a2"}},
				{"properties": {"reportId": "a3"}}
			]
		}`)
	}))
	defer srv.Close()

	svc := NewAlertService(alertConfig(srv.URL))
	result, err := svc.Raw(context.Background())
	require.NoError(t, err)
	require.True(t, result.OK)
	require.Len(t, result.FeaturesSample, 2)
	require.Nil(t, result.WIS2)
}

func TestGeometryMatch(t *testing.T) {
	// Department square (0,0)-(10,10); one alert polygon overlaps it, the
	// other sits far away and mentions nothing relevant.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "shape"):
			writeJSON(w, `{"type": "FeatureCollection", "features": [
				{"type": "Feature", "properties": {},
				 "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}}
			]}`)
		case strings.Contains(r.URL.Path, "cap-alerts"):
			writeJSON(w, `{
				"numberMatched": 2, "numberReturned": 2,
				"features": [
					{"properties": {"reportId": "inside", "name": "Alerta", "description": "Tormentas"},
					 "geometry": {"type": "Polygon", "coordinates": [[[4,4],[6,4],[6,6],[4,6],[4,4]]]}},
					{"properties": {"reportId": "outside", "name": "Alerta", "description": "Tormentas"},
					 "geometry": {"type": "Polygon", "coordinates": [[[40,40],[42,40],[42,42],[40,42],[40,40]]]}}
				]
			}`)
		default:
			writeJSON(w, `{"features": []}`)
		}
	}))
	defer srv.Close()

	cfg := alertConfig(srv.URL)
	cfg.CerroGeoJSONURL = srv.URL + "/shape"
	svc := NewAlertService(cfg)

	result, err := svc.CerroLargoAlerts(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	require.Equal(t, "inside", result.Alerts[0].ReportID)
}

func TestGeometryMatchFromLocalShapeFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "cap-alerts") {
			writeJSON(w, `{
				"numberMatched": 2, "numberReturned": 2,
				"features": [
					{"properties": {"reportId": "inside", "name": "Alerta", "description": "Tormentas"},
					 "geometry": {"type": "Polygon", "coordinates": [[[4,4],[6,4],[6,6],[4,6],[4,4]]]}},
					{"properties": {"reportId": "outside", "name": "Alerta", "description": "Tormentas"},
					 "geometry": {"type": "Polygon", "coordinates": [[[40,40],[42,40],[42,42],[40,42],[40,40]]]}}
				]
			}`)
			return
		}
		writeJSON(w, `{"features": []}`)
	}))
	defer srv.Close()

	shape := filepath.Join(t.TempDir(), "cerro_largo.geojson")
	require.NoError(t, os.WriteFile(shape, []byte(`{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {},
		 "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}}
	]}`), 0o644))

	cfg := alertConfig(srv.URL)
	cfg.CerroShapeFile = shape
	svc := NewAlertService(cfg)

	result, err := svc.CerroLargoAlerts(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	require.Equal(t, "inside", result.Alerts[0].ReportID)
}

func TestMentionsLocality(t *testing.T) {
	require.True(t, mentionsCerroLargo(map[string]any{"description": "Lluvias intensas sobre Fraile Muerto"}))
	require.True(t, mentionsCerroLargo(map[string]any{"areaDesc": "MELO y alrededores"}))
	require.True(t, mentionsCerroLargo(map[string]any{"name": "Aviso para Tupambaé"}))
	require.False(t, mentionsCerroLargo(map[string]any{"description": "Granizo en Salto"}))
}
