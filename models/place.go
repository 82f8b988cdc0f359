package models

import (
	"github.com/tidwall/gjson"
)

// OpeningHours ist der Öffnungszeiten-Block eines Ortes.
type OpeningHours struct {
	OpenNow             *bool    `json:"openNow,omitempty"`
	WeekdayDescriptions []string `json:"weekdayDescriptions,omitempty"`
}

// Place ist ein Treffer des Places-Modus. Zeiger markieren optionale Felder,
// damit "nicht geliefert" von "false"/0 unterscheidbar bleibt.
type Place struct {
	Name                *string       `json:"name,omitempty"`
	Address             *string       `json:"address,omitempty"`
	Rating              *float64      `json:"rating,omitempty"`
	UserRatingCount     *float64      `json:"userRatingCount,omitempty"`
	GoogleMapsURI       string        `json:"googleMapsUri,omitempty"`
	WebsiteURI          string        `json:"websiteUri,omitempty"`
	BusinessStatus      string        `json:"businessStatus,omitempty"`
	OpenNow             *bool         `json:"openNow,omitempty"`
	IsOpenNow           *bool         `json:"isOpenNow,omitempty"`
	CurrentOpeningHours *OpeningHours `json:"currentOpeningHours,omitempty"`
	RegularOpeningHours *OpeningHours `json:"regularOpeningHours,omitempty"`

	FormattedPhoneNumber     *string `json:"formattedPhoneNumber,omitempty"`
	NationalPhoneNumber      *string `json:"nationalPhoneNumber,omitempty"`
	InternationalPhoneNumber *string `json:"internationalPhoneNumber,omitempty"`
	PhoneNumber              *string `json:"phoneNumber,omitempty"`

	DistanceMeters *float64 `json:"distanceMeters,omitempty"`
	ReviewsURL     *string  `json:"reviewsUrl,omitempty"`
	PriceLevel     *float64 `json:"priceLevel,omitempty"`
	PriceRange     *string  `json:"priceRange,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	Cuisines       []string `json:"cuisines,omitempty"`
	OpeningHours   *string  `json:"openingHours,omitempty"`

	AcceptsCards                   bool `json:"acceptsCards,omitempty"`
	AcceptsCash                    bool `json:"acceptsCash,omitempty"`
	HasDelivery                    bool `json:"hasDelivery,omitempty"`
	HasDineIn                      bool `json:"hasDineIn,omitempty"`
	HasFreeParking                 bool `json:"hasFreeParking,omitempty"`
	HasTakeout                     bool `json:"hasTakeout,omitempty"`
	HasWheelchairAccessibleParking bool `json:"hasWheelchairAccessibleParking,omitempty"`
	Reservable                     bool `json:"reservable,omitempty"`
}

// ParsePlaces liest die Trefferliste aus items bzw. results. Einträge mit falschem
// Typ werden übersprungen, einzelne Felder mit falschem Typ bleiben leer.
func ParsePlaces(body []byte) ([]Place, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(body)
	list := root.Get("items")
	if !Present(list) {
		list = root.Get("results")
	}

	places := []Place{}
	for _, item := range arrayOf(list) {
		if !item.IsObject() {
			continue
		}
		places = append(places, placeOf(item))
	}
	return places, nil
}

func placeOf(r gjson.Result) Place {
	return Place{
		Name:                           stringPtrOf(r.Get("name")),
		Address:                        stringPtrOf(r.Get("address")),
		Rating:                         floatPtrOf(r.Get("rating")),
		UserRatingCount:                floatPtrOf(r.Get("userRatingCount")),
		GoogleMapsURI:                  stringOf(r.Get("googleMapsUri")),
		WebsiteURI:                     stringOf(r.Get("websiteUri")),
		BusinessStatus:                 stringOf(r.Get("businessStatus")),
		OpenNow:                        boolPtrOf(r.Get("openNow")),
		IsOpenNow:                      boolPtrOf(r.Get("isOpenNow")),
		CurrentOpeningHours:            openingHoursOf(r.Get("currentOpeningHours")),
		RegularOpeningHours:            openingHoursOf(r.Get("regularOpeningHours")),
		FormattedPhoneNumber:           stringPtrOf(r.Get("formattedPhoneNumber")),
		NationalPhoneNumber:            stringPtrOf(r.Get("nationalPhoneNumber")),
		InternationalPhoneNumber:       stringPtrOf(r.Get("internationalPhoneNumber")),
		PhoneNumber:                    stringPtrOf(r.Get("phoneNumber")),
		DistanceMeters:                 floatPtrOf(r.Get("distanceMeters")),
		ReviewsURL:                     stringPtrOf(r.Get("reviewsUrl")),
		PriceLevel:                     floatPtrOf(r.Get("priceLevel")),
		PriceRange:                     stringPtrOf(r.Get("priceRange")),
		Categories:                     stringsOf(r.Get("categories")),
		Cuisines:                       stringsOf(r.Get("cuisines")),
		OpeningHours:                   stringPtrOf(r.Get("openingHours")),
		AcceptsCards:                   r.Get("acceptsCards").Bool(),
		AcceptsCash:                    r.Get("acceptsCash").Bool(),
		HasDelivery:                    r.Get("hasDelivery").Bool(),
		HasDineIn:                      r.Get("hasDineIn").Bool(),
		HasFreeParking:                 r.Get("hasFreeParking").Bool(),
		HasTakeout:                     r.Get("hasTakeout").Bool(),
		HasWheelchairAccessibleParking: r.Get("hasWheelchairAccessibleParking").Bool(),
		Reservable:                     r.Get("reservable").Bool(),
	}
}

func openingHoursOf(r gjson.Result) *OpeningHours {
	if !r.IsObject() {
		return nil
	}
	oh := &OpeningHours{OpenNow: boolPtrOf(r.Get("openNow"))}
	if d := r.Get("weekdayDescriptions"); d.IsArray() {
		oh.WeekdayDescriptions = stringsOf(d)
		if oh.WeekdayDescriptions == nil {
			oh.WeekdayDescriptions = []string{}
		}
	}
	return oh
}

// GeoPoint ist der Standort des Nutzers für "near me"-Suchen.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
