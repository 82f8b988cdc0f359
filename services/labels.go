package services

import (
	"regexp"
	"strings"
)

// maxQueryLabels begrenzt die aus der Query gelesenen Vergleichsobjekte.
const maxQueryLabels = 2

var comparisonSeparator = regexp.MustCompile(`(?i)\s+vs\.?\s+|\s+versus\s+|\s+against\s+|,|/|&`)

// ExtractComparisonLabels zerlegt eine Freitext-Query wie "iPhone 15 vs Galaxy S25+"
// in höchstens zwei Labels, in Originalreihenfolge.
func ExtractComparisonLabels(query string) []string {
	labels := make([]string, 0, maxQueryLabels)
	normalized := strings.Join(strings.Fields(query), " ")
	if normalized == "" {
		return labels
	}
	for _, part := range comparisonSeparator.Split(normalized, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		labels = append(labels, part)
		if len(labels) == maxQueryLabels {
			break
		}
	}
	return labels
}
