package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"geekseek/config"
	"geekseek/models"
	"geekseek/providers"
)

const recordTimeout = 5 * time.Second

// SearchLogStore nimmt Protokolleinträge abgeschickter Suchen entgegen.
type SearchLogStore interface {
	Record(ctx context.Context, entry *models.SearchLog) error
}

// SearchRequest ist eine abgeschickte Suche.
type SearchRequest struct {
	Mode     models.SearchMode `json:"type"`
	Query    string            `json:"q"`
	Location *models.GeoPoint  `json:"location,omitempty"`
}

// SearchResult ist das Ergebnis einer einzelnen Suche; je nach Modus ist genau
// eines der beiden Felder gesetzt.
type SearchResult struct {
	Mode       models.SearchMode `json:"mode"`
	Query      string            `json:"query"`
	Places     []PlaceCard       `json:"places,omitempty"`
	Comparison *ComparisonView   `json:"comparison,omitempty"`
}

// SessionState ist der sichtbare Zustand einer Suchansicht.
type SessionState struct {
	ID         string            `json:"id"`
	Mode       models.SearchMode `json:"mode"`
	Query      string            `json:"query"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
	Places     []PlaceCard       `json:"places"`
	Comparison *ComparisonView   `json:"comparison"`
	Location   *models.GeoPoint  `json:"location,omitempty"`
	Generation uint64            `json:"generation"`
}

type session struct {
	mu     sync.Mutex
	state  SessionState
	cancel context.CancelFunc
	closed bool
}

// supersede beendet die laufende Anfrage und macht ihr Ergebnis ungültig.
// Aufrufer hält s.mu.
func (s *session) supersede() uint64 {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state.Generation++
	return s.state.Generation
}

func (s *session) snapshot() SessionState {
	return s.state
}

// SearchService führt Suchen gegen den Provider aus und verwaltet Suchsitzungen.
// Pro Sitzung gilt: die zuletzt abgeschickte Suche gewinnt, und ein Ergebnis
// landet nur im Zustand des Modus, für den es angefragt wurde.
type SearchService struct {
	Provider providers.Provider
	Store    SearchLogStore
	Logger   *zap.Logger
	Options  CompareOptions

	sessions *cache.Cache
}

// NewSearchService erstellt eine neue Instanz des SearchService. store darf nil sein.
func NewSearchService(cfg *config.Config, provider providers.Provider, store SearchLogStore, logger *zap.Logger) *SearchService {
	sessions := cache.New(cfg.SessionTTL, cfg.SessionCleanupInterval)
	sessions.OnEvicted(func(_ string, v interface{}) {
		if sess, ok := v.(*session); ok {
			sess.mu.Lock()
			sess.supersede()
			sess.closed = true
			sess.mu.Unlock()
		}
	})
	return &SearchService{
		Provider: provider,
		Store:    store,
		Logger:   logger,
		Options:  CompareOptions{Subjects: cfg.CompareSubjects},
		sessions: sessions,
	}
}

// CreateSession legt eine neue Suchsitzung im gegebenen Modus an.
func (s *SearchService) CreateSession(mode models.SearchMode) SessionState {
	sess := &session{state: SessionState{
		ID:     uuid.NewString(),
		Mode:   mode,
		Places: []PlaceCard{},
	}}
	s.sessions.SetDefault(sess.state.ID, sess)
	return sess.snapshot()
}

// Session liefert den aktuellen Zustand einer Sitzung.
func (s *SearchService) Session(id string) (SessionState, error) {
	sess, err := s.session(id)
	if err != nil {
		return SessionState{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return SessionState{}, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return sess.snapshot(), nil
}

// SetMode wechselt den Modus. Query, Fehler und beide Ergebnislisten werden
// zurückgesetzt, eine laufende Suche wird verworfen.
func (s *SearchService) SetMode(id string, mode models.SearchMode) (SessionState, error) {
	sess, err := s.session(id)
	if err != nil {
		return SessionState{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return SessionState{}, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}

	sess.supersede()
	sess.state.Mode = mode
	sess.state.Query = ""
	sess.state.Error = ""
	sess.state.Loading = false
	sess.state.Places = []PlaceCard{}
	sess.state.Comparison = nil
	return sess.snapshot(), nil
}

// Close verwirft eine Sitzung samt laufender Suche (Ansicht geschlossen).
func (s *SearchService) Close(id string) error {
	if _, err := s.session(id); err != nil {
		return err
	}
	s.sessions.Delete(id)
	return nil
}

// Submit schickt eine Suche in einer Sitzung ab. Eine ältere, noch laufende Suche
// derselben Sitzung wird abgebrochen; wird diese Suche selbst überholt, liefert
// Submit ErrSuperseded und der Zustand bleibt unverändert.
func (s *SearchService) Submit(ctx context.Context, id string, req SearchRequest) (SessionState, error) {
	sess, err := s.session(id)
	if err != nil {
		return SessionState{}, err
	}
	query := strings.TrimSpace(req.Query)

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return SessionState{}, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	mode := req.Mode
	if mode == "" {
		mode = sess.state.Mode
	}
	if mode != models.ModePlaces && mode != models.ModeCompare {
		st := sess.snapshot()
		sess.mu.Unlock()
		return st, fmt.Errorf("%w %q", models.ErrUnknownMode, mode)
	}
	if mode != sess.state.Mode {
		sess.state.Places = []PlaceCard{}
		sess.state.Comparison = nil
		sess.state.Mode = mode
	}
	if query == "" {
		sess.supersede()
		sess.state.Loading = false
		sess.state.Error = UserMessage(ErrEmptyQuery)
		st := sess.snapshot()
		sess.mu.Unlock()
		return st, ErrEmptyQuery
	}
	if req.Location != nil {
		loc := *req.Location
		sess.state.Location = &loc
	}
	location := sess.state.Location

	gen := sess.supersede()
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	sess.cancel = cancel
	sess.state.Query = query
	sess.state.Loading = true
	sess.state.Error = ""
	// Nur der Zustand des anderen Modus wird geleert
	if mode == models.ModePlaces {
		sess.state.Comparison = nil
	} else {
		sess.state.Places = []PlaceCard{}
	}
	// Zugriff verlängert die Lebensdauer der Sitzung
	s.sessions.SetDefault(id, sess)
	sess.mu.Unlock()

	start := time.Now()
	result, runErr := s.run(reqCtx, mode, query, location)
	elapsed := time.Since(start)

	sess.mu.Lock()
	if sess.state.Generation != gen || sess.state.Mode != mode {
		st := sess.snapshot()
		sess.mu.Unlock()
		s.Logger.Info("Überholte Suche verworfen",
			zap.String("session", id),
			zap.String("mode", string(mode)),
			zap.Uint64("generation", gen))
		searchRequestsTotal.WithLabelValues(string(mode), models.SearchStatusSuperseded).Inc()
		s.record(ctx, id, mode, query, models.SearchStatusSuperseded, elapsed, result, runErr)
		return st, ErrSuperseded
	}

	sess.cancel = nil
	sess.state.Loading = false
	if runErr != nil {
		sess.state.Error = UserMessage(runErr)
	} else if mode == models.ModePlaces {
		sess.state.Places = result.Places
	} else {
		sess.state.Comparison = result.Comparison
	}
	st := sess.snapshot()
	sess.mu.Unlock()

	s.finish(ctx, id, mode, query, elapsed, result, runErr)
	return st, runErr
}

// Search ist die zustandslose Einzelsuche ohne Sitzung.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return SearchResult{}, ErrEmptyQuery
	}
	mode := req.Mode
	if mode == "" {
		mode = models.ModePlaces
	}
	start := time.Now()
	result, err := s.run(ctx, mode, query, req.Location)
	s.finish(ctx, "", mode, query, time.Since(start), result, err)
	if err != nil {
		return SearchResult{}, err
	}
	return result, nil
}

// run prüft die Vorbedingungen, ruft den Provider auf und normalisiert die Antwort.
// Dieselbe (getrimmte) Query geht an den Upstream und an die Label-Extraktion.
func (s *SearchService) run(ctx context.Context, mode models.SearchMode, query string, location *models.GeoPoint) (SearchResult, error) {
	result := SearchResult{Mode: mode, Query: query}
	switch mode {
	case models.ModePlaces:
		if location == nil && NeedsLocation(query) {
			return result, ErrLocationRequired
		}
		start := time.Now()
		places, err := s.Provider.Places(ctx, query, location)
		upstreamDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
		if err != nil {
			return result, fmt.Errorf("places search: %w", err)
		}
		result.Places = BuildPlaceCards(places, query)
	case models.ModeCompare:
		start := time.Now()
		payload, err := s.Provider.Compare(ctx, query)
		upstreamDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
		if err != nil {
			return result, fmt.Errorf("compare search: %w", err)
		}
		view := BuildComparisonView(payload, query, s.Options)
		result.Comparison = &view
	default:
		return result, fmt.Errorf("%w %q", models.ErrUnknownMode, mode)
	}
	return result, nil
}

// finish zählt und protokolliert eine nicht überholte Suche.
func (s *SearchService) finish(ctx context.Context, id string, mode models.SearchMode, query string, elapsed time.Duration, result SearchResult, err error) {
	status := models.SearchStatusOK
	if err != nil {
		status = models.SearchStatusFailed
		s.Logger.Warn("Suche fehlgeschlagen",
			zap.String("mode", string(mode)),
			zap.String("query", query),
			zap.Error(err))
	} else if result.Comparison != nil {
		normalizedRowsTotal.Add(float64(len(result.Comparison.Table.Rows)))
		if !result.Comparison.HasStructuredTable {
			emptyComparisonsTotal.Inc()
		}
		if len(result.Comparison.Table.Warnings) > 0 {
			s.Logger.Info("Vergleichstabelle mit Hinweisen normalisiert",
				zap.String("query", query),
				zap.Strings("warnings", result.Comparison.Table.Warnings))
		}
	}
	searchRequestsTotal.WithLabelValues(string(mode), status).Inc()
	s.record(ctx, id, mode, query, status, elapsed, result, err)
}

func (s *SearchService) record(ctx context.Context, id string, mode models.SearchMode, query, status string, elapsed time.Duration, result SearchResult, err error) {
	if s.Store == nil {
		return
	}
	entry := &models.SearchLog{
		SessionID:  id,
		Mode:       mode,
		Query:      query,
		Status:     status,
		ItemCount:  len(result.Places),
		DurationMS: elapsed.Milliseconds(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if result.Comparison != nil {
		entry.RowCount = len(result.Comparison.Table.Rows)
		entry.ItemCount = len(result.Comparison.Pills)
	}

	// Protokollierung auch dann, wenn die Anfrage selbst abgebrochen wurde
	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if recErr := s.Store.Record(recCtx, entry); recErr != nil {
		s.Logger.Error("Such-Protokoll konnte nicht geschrieben werden", zap.Error(recErr))
	}
}

func (s *SearchService) session(id string) (*session, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return v.(*session), nil
}
