package admin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ncecere/gateway_insights/internal/app"
	"github.com/ncecere/gateway_insights/internal/auth"
	"github.com/ncecere/gateway_insights/internal/catalog"
	"github.com/ncecere/gateway_insights/internal/config"
)

func testContainer(t *testing.T) *app.Container {
	t.Helper()

	cfg := &config.Config{}
	cfg.Admin.Session = config.AdminSessionConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		CookieName:      "insights_session",
	}

	adminAuth, err := auth.NewAdminAuthService(cfg.Admin, nil)
	require.NoError(t, err)

	return &app.Container{
		Config:    cfg,
		AdminAuth: adminAuth,
		Fields:    catalog.NewFieldCatalog(nil),
	}
}

func newTestApp(t *testing.T) (*fiber.App, *app.Container) {
	t.Helper()
	fiberApp := fiber.New()
	container := testContainer(t)
	Register(fiberApp, container)
	return fiberApp, container
}

func bearerToken(t *testing.T, container *app.Container) string {
	t.Helper()
	pair, err := container.AdminAuth.Tokens().Generate(uuid.New(), "ops@example.com")
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	fiberApp, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/activity/categories", nil)
	resp, err := fiberApp.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestActivityCategories(t *testing.T) {
	fiberApp, container := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/activity/categories", nil)
	req.Header.Set("Authorization", bearerToken(t, container))
	resp, err := fiberApp.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Categories []string `json:"categories"`
	}
	decode(t, resp.Body, &body)
	require.Equal(t, []string{"models", "model_groups", "mcp_servers", "providers", "api_keys", "entities"}, body.Categories)
}

func TestProviderFieldRoutes(t *testing.T) {
	fiberApp, container := newTestApp(t)
	token := bearerToken(t, container)

	req := httptest.NewRequest(http.MethodGet, "/admin/providers/azure/fields", nil)
	req.Header.Set("Authorization", token)
	resp, err := fiberApp.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Provider string `json:"provider"`
		Fields   []struct {
			Key      string `json:"key"`
			Kind     string `json:"kind"`
			Required bool   `json:"required"`
		} `json:"fields"`
	}
	decode(t, resp.Body, &body)
	require.Equal(t, "azure", body.Provider)
	require.NotEmpty(t, body.Fields)
	require.Equal(t, "api_key", body.Fields[0].Key)

	req = httptest.NewRequest(http.MethodGet, "/admin/providers/unknown/fields", nil)
	req.Header.Set("Authorization", token)
	resp, err = fiberApp.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestForeignTokenRejected(t *testing.T) {
	fiberApp, _ := newTestApp(t)

	// Tokens signed with a different secret must not pass.
	foreign, err := auth.NewTokenManager("other-secret", time.Minute, time.Hour, "gateway-insights-admin")
	require.NoError(t, err)
	pair, err := foreign.Generate(uuid.New(), "ops@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/activity/categories", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	resp, err := fiberApp.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func decode(t *testing.T, r io.ReadCloser, into any) {
	t.Helper()
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, into))
}
