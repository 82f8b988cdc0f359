package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"geekseek/config"
	"geekseek/models"
	"geekseek/providers/geekseek"
	"geekseek/services"
)

type stubProvider struct {
	compareErr error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Compare(_ context.Context, _ string) (*models.ComparePayload, error) {
	if p.compareErr != nil {
		return nil, p.compareErr
	}
	return models.ParseComparePayload([]byte(`{
		"items": ["iPhone 15", "Galaxy S25+"],
		"table": {"columns": ["Factor", "Option A", "Option B"], "rows": [
			{"label": "Price", "values": ["$799", "$999"]},
			{"label": "When to choose B", "values": ["Battery"]}
		]}
	}`))
}

func (p *stubProvider) Places(_ context.Context, _ string, _ *models.GeoPoint) ([]models.Place, error) {
	return models.ParsePlaces([]byte(`{"items": [{"name": "Cafe Blau", "priceLevel": 2}]}`))
}

func newTestRouter(t *testing.T, apiKey string, provider *stubProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{APISecretKey: apiKey, CompareSubjects: 2, SessionTTL: time.Minute}
	logger := zaptest.NewLogger(t)
	svc := services.NewSearchService(cfg, provider, nil, logger)
	return newRouter(cfg, svc, logger)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGeekSeekCompareRoute(t *testing.T) {
	router := newTestRouter(t, "", &stubProvider{})

	w := doJSON(t, router, http.MethodGet, "/geekseek?type=compare&q=iPhone+15+vs+Galaxy+S25%2B", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result services.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.Comparison)
	assert.Equal(t, []string{"Factor", "iPhone 15", "Galaxy S25+"}, result.Comparison.Table.Columns)
	assert.Equal(t, []models.NormalizedRow{
		{Label: "Price", Values: []string{"$799", "$999"}},
		{Label: "When to Choose", Values: []string{"--", "Battery"}},
	}, result.Comparison.Table.Rows)
	assert.Equal(t, []string{"iPhone 15", "Galaxy S25+"}, result.Comparison.Pills)
}

func TestGeekSeekRouteErrors(t *testing.T) {
	router := newTestRouter(t, "", &stubProvider{compareErr: &geekseek.StatusError{StatusCode: 503}})

	tests := []struct {
		name string
		path string
		code int
		msg  string
	}{
		{"empty query", "/geekseek?type=compare&q=+", http.StatusBadRequest, "Enter a query to start."},
		{"unknown mode", "/geekseek?type=maps&q=x", http.StatusBadRequest, `unknown search mode "maps"`},
		{"near me without location", "/geekseek?q=coffee+near+me", http.StatusBadRequest, "Location permission is required for 'near me' queries."},
		{"half a location", "/geekseek?q=coffee&lat=1", http.StatusBadRequest, "lat and lng must be given together"},
		{"upstream status", "/geekseek?type=compare&q=a+vs+b", http.StatusBadGateway, "Request failed with status 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.code, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

func TestGeekSeekPlacesRoute(t *testing.T) {
	router := newTestRouter(t, "", &stubProvider{})

	w := doJSON(t, router, http.MethodGet, "/geekseek?q=coffee+near+me&lat=52.5&lng=13.4", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result services.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Places, 1)
	assert.Equal(t, "Cafe Blau", result.Places[0].Name)
	assert.Equal(t, "$$", result.Places[0].PriceDisplay)
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestRouter(t, "", &stubProvider{})

	w := doJSON(t, router, http.MethodPost, "/sessions", `{"type": "compare"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var state services.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.NotEmpty(t, state.ID)
	assert.Equal(t, models.ModeCompare, state.Mode)

	w = doJSON(t, router, http.MethodPost, "/sessions/"+state.ID+"/search", `{"q": "iPhone 15 vs Galaxy S25+"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.NotNil(t, state.Comparison)
	assert.True(t, state.Comparison.HasStructuredTable)

	w = doJSON(t, router, http.MethodPut, "/sessions/"+state.ID+"/mode", `{"type": "places"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Nil(t, state.Comparison)
	assert.Empty(t, state.Query)

	w = doJSON(t, router, http.MethodGet, "/sessions/"+state.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/sessions/"+state.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/sessions/"+state.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionDefaultsToPlaces(t *testing.T) {
	router := newTestRouter(t, "", &stubProvider{})

	w := doJSON(t, router, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var state services.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, models.ModePlaces, state.Mode)
	assert.NotNil(t, state.Places)
}

func TestAPIKeyMiddleware(t *testing.T) {
	router := newTestRouter(t, "secret", &stubProvider{})

	w := doJSON(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-API-KEY", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("", " ")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = parsePoint("52.52", "13.405")
	require.NoError(t, err)
	assert.Equal(t, &models.GeoPoint{Lat: 52.52, Lng: 13.405}, p)

	_, err = parsePoint("north", "13")
	require.EqualError(t, err, "invalid lat")
}
