package geekseek

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"geekseek/config"
	"geekseek/models"
)

const searchPath = "/api/geekseek"

// headerTransport setzt die Header, die der Upstream für JSON-Antworten erwartet.
type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("User-Agent", "geekseek-service/1.0")
	return t.Transport.RoundTrip(req)
}

// Fetcher implementiert das Provider-Interface für die GeekSeek-API.
// Fehlgeschlagene Anfragen werden nicht wiederholt.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	Client *http.Client
}

// NewFetcher erstellt einen neuen GeekSeek-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config: cfg,
		Logger: logger,
		Client: &http.Client{
			Timeout:   cfg.GeekSeekTimeout,
			Transport: &headerTransport{Transport: http.DefaultTransport},
		},
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "geekseek"
}

// Compare führt eine Compare-Suche aus.
func (f *Fetcher) Compare(ctx context.Context, query string) (*models.ComparePayload, error) {
	body, err := f.fetch(ctx, models.ModeCompare, query, nil)
	if err != nil {
		return nil, err
	}
	payload, err := models.ParseComparePayload(body)
	if err != nil {
		return nil, fmt.Errorf("compare payload: %w", err)
	}
	return payload, nil
}

// Places führt eine Places-Suche aus.
func (f *Fetcher) Places(ctx context.Context, query string, point *models.GeoPoint) ([]models.Place, error) {
	body, err := f.fetch(ctx, models.ModePlaces, query, point)
	if err != nil {
		return nil, err
	}
	places, err := models.ParsePlaces(body)
	if err != nil {
		return nil, fmt.Errorf("places payload: %w", err)
	}
	return places, nil
}

// fetch ruft den Upstream auf und liefert den Rohbody.
func (f *Fetcher) fetch(ctx context.Context, mode models.SearchMode, query string, point *models.GeoPoint) ([]byte, error) {
	searchURL := f.buildSearchURL(mode, query, point)
	log := f.Logger.With(zap.String("mode", string(mode)), zap.String("query", query))
	log.Debug("Rufe GeekSeek-API auf", zap.String("url", searchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warn("GeekSeek-API hat Fehlerstatus zurückgegeben",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(snippet)))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	limit := f.Config.MaxBodyBytes
	if limit <= 0 {
		limit = 4 << 20
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("upstream body exceeds %d bytes", limit)
	}
	log.Debug("GeekSeek-Antwort erhalten", zap.Int("bytes", len(body)))
	return body, nil
}

func (f *Fetcher) buildSearchURL(mode models.SearchMode, query string, point *models.GeoPoint) string {
	params := url.Values{}
	params.Set("type", string(mode))
	params.Set("q", query)
	if point != nil {
		params.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
		params.Set("lng", strconv.FormatFloat(point.Lng, 'f', -1, 64))
	}
	return strings.TrimRight(f.Config.GeekSeekBaseURL, "/") + searchPath + "?" + params.Encode()
}
