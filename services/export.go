package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"geekseek/models"
)

// ErrExportDisabled meldet einen Export ohne konfigurierten Uploader.
var ErrExportDisabled = errors.New("search log export disabled: no uploader configured")

// SearchLogArchive ist die Lese- und Aufräumseite des Such-Protokolls.
type SearchLogArchive interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.SearchLog, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ObjectUploader legt Exportdateien ab und gibt ihren Link zurück.
type ObjectUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// SearchLogExporter exportiert das Such-Protokoll tageweise als gzip-NDJSON und
// löscht Einträge außerhalb des Aufbewahrungsfensters.
type SearchLogExporter struct {
	Archive       SearchLogArchive
	Uploader      ObjectUploader // nil: kein Export, nur Aufräumen
	Logger        *zap.Logger
	RetentionDays int
	Now           func() time.Time
}

// ExportKey ist der Objektschlüssel für den Export eines Tages.
func ExportKey(day time.Time) string {
	return fmt.Sprintf("search-logs/%s.ndjson.gz", day.UTC().Format("2006-01-02"))
}

// ExportDay exportiert alle Einträge des UTC-Tages von day. Ein Tag ohne Einträge
// wird übersprungen und liefert einen leeren Link.
func (e *SearchLogExporter) ExportDay(ctx context.Context, day time.Time) (string, int, error) {
	if e.Uploader == nil {
		return "", 0, ErrExportDisabled
	}
	from := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	logs, err := e.Archive.ListBetween(ctx, from, to)
	if err != nil {
		return "", 0, fmt.Errorf("list search logs: %w", err)
	}
	if len(logs) == 0 {
		return "", 0, nil
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := json.NewEncoder(gz)
	for i := range logs {
		if err := enc.Encode(&logs[i]); err != nil {
			return "", 0, fmt.Errorf("encode search log %d: %w", logs[i].ID, err)
		}
	}
	if err := gz.Close(); err != nil {
		return "", 0, err
	}

	link, err := e.Uploader.Upload(ctx, ExportKey(from), buf.Bytes(), "application/gzip")
	if err != nil {
		return "", 0, err
	}
	return link, len(logs), nil
}

// RunNightly exportiert den Vortag und räumt danach auf. Schlägt der Export fehl,
// wird nicht gelöscht.
func (e *SearchLogExporter) RunNightly(ctx context.Context) error {
	now := e.now()
	log := e.Logger.With(zap.Time("run_at", now))

	if e.Uploader != nil {
		yesterday := now.AddDate(0, 0, -1)
		link, count, err := e.ExportDay(ctx, yesterday)
		if err != nil {
			searchLogExportsTotal.WithLabelValues("failed").Inc()
			log.Error("Export des Such-Protokolls fehlgeschlagen", zap.Error(err))
			return err
		}
		if count == 0 {
			searchLogExportsTotal.WithLabelValues("empty").Inc()
			log.Info("Keine Sucheinträge für den Vortag")
		} else {
			searchLogExportsTotal.WithLabelValues("ok").Inc()
			log.Info("Such-Protokoll exportiert", zap.String("link", link), zap.Int("entries", count))
		}
	}

	if e.RetentionDays <= 0 {
		return nil
	}
	cutoff := now.AddDate(0, 0, -e.RetentionDays)
	deleted, err := e.Archive.DeleteBefore(ctx, cutoff)
	if err != nil {
		log.Error("Aufräumen des Such-Protokolls fehlgeschlagen", zap.Error(err))
		return fmt.Errorf("prune search logs: %w", err)
	}
	log.Info("Alte Sucheinträge gelöscht", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	return nil
}

func (e *SearchLogExporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
