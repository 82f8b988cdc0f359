package services

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"geekseek/models"
)

const (
	maxPlaceCards         = 12
	maxPlaceTags          = 4
	defaultCurrencySymbol = "$"
)

type currencyHint struct {
	keywords []string
	symbol   string
}

var currencyHints = []currencyHint{
	{keywords: []string{"india", "mumbai", "delhi", "bangalore", "₹", "rs", "rupee"}, symbol: "₹"},
	{keywords: []string{"europe", "berlin", "paris", "madrid", "euro", "€"}, symbol: "€"},
	{keywords: []string{"uk", "london", "britain", "pound", "£"}, symbol: "£"},
	{keywords: []string{"japan", "tokyo", "yen", "¥"}, symbol: "¥"},
	{keywords: []string{"canada", "toronto", "cad"}, symbol: "C$"},
}

var excludedCategories = map[string]bool{
	"food":              true,
	"restaurant":        true,
	"establishment":     true,
	"point_of_interest": true,
}

var locationPhrases = []string{"near me", "around me", "nearby", "close to me"}

// PlaceCard ist die aufbereitete Darstellung eines Ortes.
type PlaceCard struct {
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	DistanceMeters *int     `json:"distance_meters,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	PhoneHref      string   `json:"phone_href,omitempty"`
	Rating         string   `json:"rating,omitempty"`
	ReviewCount    int      `json:"review_count"`
	ReviewsURL     string   `json:"reviews_url,omitempty"`
	OpenNow        bool     `json:"open_now"`
	OpeningText    string   `json:"opening_text,omitempty"`
	PriceDisplay   string   `json:"price_display,omitempty"`
	Href           string   `json:"href,omitempty"`
	Badges         []string `json:"badges"`
	Categories     []string `json:"categories"`
	Cuisines       []string `json:"cuisines"`
}

// fold ist case-insensitives Vergleichen. Caser sind nicht nebenläufig nutzbar,
// daher pro Aufruf ein neuer.
func fold(s string) string {
	return cases.Fold().String(s)
}

// NeedsLocation meldet Places-Queries, die ohne Standort keinen Sinn ergeben ("near me" usw.).
func NeedsLocation(query string) bool {
	q := fold(query)
	for _, phrase := range locationPhrases {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	return false
}

// DetectCurrencySymbol rät das Währungssymbol für Preisangaben aus der Query.
// Kurze Kürzel wie "rs" oder "uk" zählen nur als ganzes Wort.
func DetectCurrencySymbol(query string) string {
	q := fold(query)
	words := strings.FieldsFunc(q, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
	for _, hint := range currencyHints {
		for _, keyword := range hint.keywords {
			if matchesKeyword(q, words, keyword) {
				return hint.symbol
			}
		}
	}
	return defaultCurrencySymbol
}

func matchesKeyword(folded string, words []string, keyword string) bool {
	if len(keyword) > 3 || !isASCIIWord(keyword) {
		return strings.Contains(folded, fold(keyword))
	}
	for _, w := range words {
		if w == keyword {
			return true
		}
	}
	return false
}

func isASCIIWord(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// BuildPlaceCards bereitet höchstens zwölf Orte für die Anzeige auf.
func BuildPlaceCards(places []models.Place, query string) []PlaceCard {
	cards := make([]PlaceCard, 0, min(len(places), maxPlaceCards))
	if len(places) == 0 {
		return cards
	}
	symbol := DetectCurrencySymbol(query)
	for _, p := range places {
		if len(cards) == maxPlaceCards {
			break
		}
		cards = append(cards, buildPlaceCard(p, symbol))
	}
	return cards
}

func buildPlaceCard(p models.Place, currencySymbol string) PlaceCard {
	card := PlaceCard{
		Name:        deref(p.Name, "Untitled spot"),
		Address:     deref(p.Address, "Address unavailable"),
		OpenNow:     resolveOpenNow(p),
		OpeningText: openingText(p),
		Href:        firstNonEmpty(p.GoogleMapsURI, p.WebsiteURI),
		Badges:      placeBadges(p),
		Categories:  []string{},
		Cuisines:    []string{},
	}

	if p.DistanceMeters != nil {
		d := int(math.Floor(*p.DistanceMeters + 0.5))
		card.DistanceMeters = &d
	}

	if phone := firstSet(p.FormattedPhoneNumber, p.NationalPhoneNumber, p.InternationalPhoneNumber, p.PhoneNumber); phone != "" {
		card.Phone = phone
		card.PhoneHref = "tel:" + strings.Join(strings.Fields(phone), "")
	}

	if p.Rating != nil {
		card.Rating = fmt.Sprintf("%.1f", *p.Rating)
		if p.UserRatingCount != nil {
			card.ReviewCount = int(*p.UserRatingCount)
		}
	}
	if p.ReviewsURL != nil {
		card.ReviewsURL = *p.ReviewsURL
	}

	switch {
	case p.PriceLevel != nil && *p.PriceLevel > 0:
		card.PriceDisplay = strings.Repeat(currencySymbol, int(math.Min(4, *p.PriceLevel)))
	case p.PriceRange != nil:
		card.PriceDisplay = strings.TrimSpace(*p.PriceRange)
	}

	for _, c := range p.Categories {
		if len(card.Categories) == maxPlaceTags {
			break
		}
		if c == "" || excludedCategories[fold(strings.TrimSpace(c))] {
			continue
		}
		card.Categories = append(card.Categories, c)
	}
	for _, c := range p.Cuisines {
		if len(card.Cuisines) == maxPlaceTags {
			break
		}
		if strings.TrimSpace(c) == "" {
			continue
		}
		card.Cuisines = append(card.Cuisines, c)
	}
	return card
}

func resolveOpenNow(p models.Place) bool {
	switch {
	case p.CurrentOpeningHours != nil && p.CurrentOpeningHours.OpenNow != nil:
		return *p.CurrentOpeningHours.OpenNow
	case p.OpenNow != nil:
		return *p.OpenNow
	case p.IsOpenNow != nil:
		return *p.IsOpenNow
	default:
		return strings.Contains(strings.ToLower(p.BusinessStatus), "open")
	}
}

func openingText(p models.Place) string {
	switch {
	case p.CurrentOpeningHours != nil && p.CurrentOpeningHours.WeekdayDescriptions != nil:
		return strings.Join(p.CurrentOpeningHours.WeekdayDescriptions, " · ")
	case p.RegularOpeningHours != nil && p.RegularOpeningHours.WeekdayDescriptions != nil:
		return strings.Join(p.RegularOpeningHours.WeekdayDescriptions, " · ")
	case p.OpeningHours != nil:
		return *p.OpeningHours
	default:
		return ""
	}
}

func placeBadges(p models.Place) []string {
	badges := []struct {
		label string
		on    bool
	}{
		{"Accepts Card", p.AcceptsCards},
		{"Accepts Cash", p.AcceptsCash},
		{"Delivery Available", p.HasDelivery},
		{"Dine In", p.HasDineIn},
		{"Free Parking", p.HasFreeParking},
		{"Offers Takeout", p.HasTakeout},
		{"Wheelchair Accessible Parking", p.HasWheelchairAccessibleParking},
		{"Reservation Possible", p.Reservable},
	}
	out := []string{}
	for _, b := range badges {
		if b.on {
			out = append(out, b.label)
		}
	}
	return out
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// firstSet nimmt den ersten gesetzten Wert, auch wenn er leer ist.
func firstSet(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
