package providers

import (
	"context"

	"geekseek/models"
)

// Provider ist das Interface für den Such-Upstream (Places und Compare).
type Provider interface {
	// Compare holt den Vergleichs-Payload für eine Freitext-Query wie "A vs B".
	Compare(ctx context.Context, query string) (*models.ComparePayload, error)

	// Places holt Orte zur Query; point ist optional und nur für "near me"-Suchen nötig.
	Places(ctx context.Context, query string, point *models.GeoPoint) ([]models.Place, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "geekseek").
	Name() string
}
