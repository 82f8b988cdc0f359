package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownMode wird von ParseSearchMode für unbekannte Modi geliefert.
var ErrUnknownMode = errors.New("unknown search mode")

// SearchMode ist der Modus einer GeekSeek-Suche.
type SearchMode string

const (
	ModePlaces  SearchMode = "places"
	ModeCompare SearchMode = "compare"
)

// ParseSearchMode akzeptiert "places" und "compare" (Groß-/Kleinschreibung egal).
func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePlaces:
		return ModePlaces, nil
	case ModeCompare:
		return ModeCompare, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownMode, s)
	}
}

// Status-Werte für SearchLog.Status.
const (
	SearchStatusOK         = "ok"
	SearchStatusFailed     = "failed"
	SearchStatusSuperseded = "superseded"
)

// SearchLog protokolliert eine abgeschickte Suche. Ergebnisse werden nie gespeichert,
// nur Metadaten für Auswertung und Export.
type SearchLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	SessionID  string     `json:"session_id,omitempty" gorm:"index"`
	Mode       SearchMode `json:"mode" gorm:"index;size:16"`
	Query      string     `json:"query" gorm:"type:text"`
	Status     string     `json:"status" gorm:"index;size:16"`
	Error      string     `json:"error,omitempty" gorm:"type:text"`
	RowCount   int        `json:"row_count"`
	ItemCount  int        `json:"item_count"`
	DurationMS int64      `json:"duration_ms"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (SearchLog) TableName() string {
	return "search_logs"
}
