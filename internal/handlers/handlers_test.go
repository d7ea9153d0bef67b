package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/cerrolargo/camineria-backend/internal/config"
	"github.com/cerrolargo/camineria-backend/internal/database"
	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/cerrolargo/camineria-backend/internal/handlers"
	"github.com/cerrolargo/camineria-backend/internal/routes"
	"github.com/cerrolargo/camineria-backend/internal/services"
	"github.com/cerrolargo/camineria-backend/internal/uploads"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	app       *fiber.App
	authSvc   *services.AuthService
	reportSvc *services.ReportService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		SecretKey:          "test-secret",
		JWTAccessExpiry:    time.Hour,
		JWTRefreshExpiry:   24 * time.Hour,
		AdminEmail:         "admin@cerrolargo.gub.uy",
		AdminPassword:      "admin-password",
		StaticRoot:         t.TempDir(),
		MaxUploadSize:      16 * 1024 * 1024,
		InumetBaseURL:      "http://127.0.0.1:0",
		SignalMaxAge:       12 * time.Hour,
		InumetFetchTimeout: time.Second,
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store := uploads.NewStore(cfg.StaticRoot, cfg.MaxUploadSize)
	authSvc := services.NewAuthService(db, cfg)
	zoneSvc := services.NewZoneService(db)
	reportSvc := services.NewReportService(db, store, nil)
	bannerSvc := services.NewBannerService(db)
	notifySvc := services.NewNotifyService(db)
	summarySvc := services.NewSummaryService(db)
	alertSvc := services.NewAlertService(cfg)

	_, err = zoneSvc.Seed()
	require.NoError(t, err)
	require.NoError(t, authSvc.SeedAdmin())

	app := fiber.New()
	routes.Setup(app, cfg,
		handlers.NewAuthHandler(authSvc),
		handlers.NewZoneHandler(zoneSvc),
		handlers.NewReportHandler(reportSvc),
		handlers.NewBannerHandler(bannerSvc),
		handlers.NewNotifyHandler(notifySvc),
		handlers.NewSummaryHandler(summarySvc),
		handlers.NewAlertHandler(alertSvc),
		handlers.NewHealthHandler(db),
	)
	return &testApp{app: app, authSvc: authSvc, reportSvc: reportSvc}
}

func (ta *testApp) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (ta *testApp) loginAdmin(t *testing.T) string {
	t.Helper()
	resp := ta.request(t, http.MethodPost, "/api/admin/login", "", dto.LoginRequest{
		Email: "admin@cerrolargo.gub.uy", Password: "admin-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.AuthResponse](t, resp).AccessToken
}

func (ta *testApp) loginAlcalde(t *testing.T, zone string) string {
	t.Helper()
	_, err := ta.authSvc.CreateUser(&dto.CreateAlcaldeRequest{
		Email: "alcalde@cerrolargo.gub.uy", Name: "Alcalde", Password: "12345678",
		ZoneName: zone,
	})
	require.NoError(t, err)
	resp := ta.request(t, http.MethodPost, "/api/admin/login", "", dto.LoginRequest{
		Email: "alcalde@cerrolargo.gub.uy", Password: "12345678",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.AuthResponse](t, resp).AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.request(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[dto.HealthResponse](t, resp)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "ok", health.DB)
}

func TestPublicZoneListing(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.request(t, http.MethodGet, "/api/zones", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestZoneStatesRequireToken(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.request(t, http.MethodGet, "/api/admin/zones/states", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminUpdatesZoneOverHTTP(t *testing.T) {
	ta := newTestApp(t)
	token := ta.loginAdmin(t)

	resp := ta.request(t, http.MethodPost, "/api/admin/zones/update-state", token, dto.UpdateZoneStateRequest{
		ZoneName: "ARÉVALO", State: "yellow", Notes: "crecida",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.request(t, http.MethodGet, "/api/admin/zones/states", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	states := decode[dto.ZoneStatesResponse](t, resp)
	require.Equal(t, "yellow", states.States["ARÉVALO"].State)
}

func TestAlcaldeForbiddenOnOtherZone(t *testing.T) {
	ta := newTestApp(t)
	token := ta.loginAlcalde(t, "ARÉVALO")

	resp := ta.request(t, http.MethodPost, "/api/admin/zones/update-state", token, dto.UpdateZoneStateRequest{
		ZoneName: "FRAILE MUERTO", State: "red",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	require.Contains(t, body.Message, "zone_mismatch")
}

func TestInvalidStateOverHTTP(t *testing.T) {
	ta := newTestApp(t)
	token := ta.loginAdmin(t)

	resp := ta.request(t, http.MethodPost, "/api/admin/zones/update-state", token, dto.UpdateZoneStateRequest{
		ZoneName: "MELO", State: "blue",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUserAdminSurfaceRequiresAdminRole(t *testing.T) {
	ta := newTestApp(t)
	token := ta.loginAlcalde(t, "MELO")

	resp := ta.request(t, http.MethodGet, "/api/admin/users", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBannerRoundTrip(t *testing.T) {
	ta := newTestApp(t)
	token := ta.loginAdmin(t)

	enabled := true
	text := "Caminería suspendida por lluvias"
	resp := ta.request(t, http.MethodPut, "/api/admin/banner", token, dto.UpdateBannerRequest{
		Enabled: &enabled, Text: &text,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.request(t, http.MethodGet, "/api/banner", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	banner := decode[dto.BannerResponse](t, resp)
	require.True(t, banner.Enabled)
	require.Equal(t, text, banner.Text)
}

func TestSubscribeEndpoint(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, http.MethodPost, "/api/notify/subscribe", "", dto.SubscribeRequest{
		Phone: "+59899123456", Zones: []string{"MELO"}, Consent: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ta.request(t, http.MethodPost, "/api/notify/subscribe", "", dto.SubscribeRequest{
		Phone: "abc", Zones: []string{"MELO"}, Consent: true,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHiddenReportHiddenFromPublic(t *testing.T) {
	ta := newTestApp(t)

	report, _, err := ta.reportSvc.Create("Reporte sin moderar", "", nil, nil, nil)
	require.NoError(t, err)
	path := fmt.Sprintf("/api/reportes/%d", report.ID)

	// Anonymous and restricted-role callers must not see it.
	resp := ta.request(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	alcalde := ta.loginAlcalde(t, "MELO")
	resp = ta.request(t, http.MethodGet, path, alcalde, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	admin := ta.loginAdmin(t)
	resp = ta.request(t, http.MethodGet, path, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Publishing makes it public.
	_, err = ta.reportSvc.SetVisible(report.ID, true)
	require.NoError(t, err)
	resp = ta.request(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReportListingWidensForAdminToken(t *testing.T) {
	ta := newTestApp(t)

	_, _, err := ta.reportSvc.Create("Reporte oculto", "", nil, nil, nil)
	require.NoError(t, err)

	resp := ta.request(t, http.MethodGet, "/api/reportes", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ReportListResponse](t, resp)
	require.Zero(t, list.Total)

	token := ta.loginAdmin(t)
	resp = ta.request(t, http.MethodGet, "/api/reportes", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = decode[dto.ReportListResponse](t, resp)
	require.EqualValues(t, 1, list.Total)

	// A garbage token falls back to the public view instead of failing.
	resp = ta.request(t, http.MethodGet, "/api/reportes", "not-a-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = decode[dto.ReportListResponse](t, resp)
	require.Zero(t, list.Total)
}

func TestCreateReportTooLongDescription(t *testing.T) {
	ta := newTestApp(t)

	long := bytes.Repeat([]byte("a"), 501)
	form := "descripcion=" + string(long)
	req := httptest.NewRequest(http.MethodPost, "/api/reportes", bytes.NewReader([]byte(form)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckAuth(t *testing.T) {
	ta := newTestApp(t)
	token := ta.loginAlcalde(t, "TUPAMBAÉ")

	resp := ta.request(t, http.MethodGet, "/api/admin/check-auth", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	check := decode[dto.CheckAuthResponse](t, resp)
	require.True(t, check.Authenticated)
	require.Equal(t, "ALCALDE", check.Role)
	require.NotNil(t, check.ZoneName)
	require.Equal(t, "tupambae", *check.ZoneName)
}
