package seo

import (
	"encoding/json"
	"html/template"
	"math"
)

// JSON marshals v for a <script type="application/ld+json"> block. It
// returns an empty value on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// Business is the subset of the workshop's details published as structured data.
type Business struct {
	Name      string
	URL       string
	Logo      string
	Telephone string
	Email     string
	Street    string
	Locality  string
	Country   string
	Lat, Lng  float64
	Hours     []string
}

// Rating is an aggregate review score.
type Rating struct {
	Count   int
	Average float64
}

// AutoBodyShop returns the schema.org AutoBodyShop payload. The aggregate
// rating is omitted when there are no reviews.
func AutoBodyShop(b Business, r Rating) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "AutoBodyShop",
		"name":     b.Name,
	}
	if b.URL != "" {
		m["url"] = b.URL
	}
	if b.Logo != "" {
		m["logo"] = b.Logo
	}
	if b.Telephone != "" {
		m["telephone"] = b.Telephone
	}
	if b.Email != "" {
		m["email"] = b.Email
	}
	m["address"] = map[string]any{
		"@type":           "PostalAddress",
		"streetAddress":   b.Street,
		"addressLocality": b.Locality,
		"addressCountry":  b.Country,
	}
	if b.Lat != 0 || b.Lng != 0 {
		m["geo"] = map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  b.Lat,
			"longitude": b.Lng,
		}
	}
	if len(b.Hours) > 0 {
		m["openingHours"] = b.Hours
	}
	if r.Count > 0 {
		m["aggregateRating"] = map[string]any{
			"@type":       "AggregateRating",
			"ratingValue": math.Round(r.Average*10) / 10,
			"reviewCount": r.Count,
			"bestRating":  5,
			"worstRating": 1,
		}
	}
	return m
}
