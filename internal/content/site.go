// Package content loads the site catalog (business details, services, gallery,
// review seed) and the markdown pages from the content directory.
package content

import (
	"fmt"
	"strings"
	"time"

	"wonderland.co.zw/panels-web/internal/gallery"
	"wonderland.co.zw/panels-web/internal/icons"
	"wonderland.co.zw/panels-web/internal/reviews"
)

// Site is the decoded site.yaml.
type Site struct {
	Business     Business       `yaml:"business"`
	Hero         Hero           `yaml:"hero"`
	Highlights   []Card         `yaml:"highlights"`
	Services     []Service      `yaml:"services"`
	Process      []Step         `yaml:"process"`
	Strengths    []Card         `yaml:"strengths"`
	Testimonials []Testimonial  `yaml:"testimonials"`
	Gallery      []gallery.Pair `yaml:"gallery"`
	Reviews      []ReviewSeed   `yaml:"reviews"`
	Footer       Footer         `yaml:"footer"`
}

// Business is the workshop's contact card.
type Business struct {
	Name      string    `yaml:"name"`
	LegalName string    `yaml:"legal_name"`
	Tagline   string    `yaml:"tagline"`
	Phone     string    `yaml:"phone"`
	Email     string    `yaml:"email"`
	Address   Address   `yaml:"address"`
	Hours     []Hours   `yaml:"hours"`
	Map       MapMarker `yaml:"map"`
	Founded   int       `yaml:"founded"`
	Logo      string    `yaml:"logo"`
}

type Address struct {
	Street  string `yaml:"street"`
	Suburb  string `yaml:"suburb"`
	City    string `yaml:"city"`
	Country string `yaml:"country"`
}

// Lines returns the non-empty address lines.
func (a Address) Lines() []string {
	out := make([]string, 0, 4)
	for _, l := range []string{a.Street, a.Suburb, a.City, a.Country} {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

type Hours struct {
	Days   string `yaml:"days"`
	Opens  string `yaml:"opens"`
	Closes string `yaml:"closes"`
	Closed bool   `yaml:"closed"`
}

// MapMarker places the workshop on the contact page map.
type MapMarker struct {
	Lat   float64 `yaml:"lat"`
	Lng   float64 `yaml:"lng"`
	Zoom  int     `yaml:"zoom"`
	Label string  `yaml:"label"`
	Tiles string  `yaml:"tiles"`
}

// OSMLink links to the marker on openstreetmap.org.
func (m MapMarker) OSMLink() string {
	zoom := m.Zoom
	if zoom == 0 {
		zoom = 15
	}
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.6f&mlon=%.6f#map=%d/%.6f/%.6f", m.Lat, m.Lng, zoom, m.Lat, m.Lng)
}

type Hero struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	CTALabel string `yaml:"cta_label"`
	CTAHref  string `yaml:"cta_href"`
	Image    string `yaml:"image"`
}

// Card is an icon, a title and a short text, optionally linking somewhere.
type Card struct {
	Icon  icons.Kind `yaml:"icon"`
	Title string     `yaml:"title"`
	Text  string     `yaml:"text"`
	Href  string     `yaml:"href"`
}

type Service struct {
	Slug     string     `yaml:"slug"`
	Icon     icons.Kind `yaml:"icon"`
	Title    string     `yaml:"title"`
	Summary  string     `yaml:"summary"`
	Features []string   `yaml:"features"`
	Image    string     `yaml:"image"`
}

// Step is one stage of the repair process; Number is its 1-based position.
type Step struct {
	Number int        `yaml:"-"`
	Icon   icons.Kind `yaml:"icon"`
	Title  string     `yaml:"title"`
	Text   string     `yaml:"text"`
}

type Testimonial struct {
	Name   string `yaml:"name"`
	Rating int    `yaml:"rating"`
	Text   string `yaml:"text"`
}

// ReviewSeed is the on-disk form of a review.
type ReviewSeed struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Avatar   string `yaml:"avatar"`
	Service  string `yaml:"service"`
	Text     string `yaml:"text"`
	Rating   int    `yaml:"rating"`
	Date     string `yaml:"date"`
	Likes    int    `yaml:"likes"`
	Dislikes int    `yaml:"dislikes"`
	Verified bool   `yaml:"verified"`
}

type Footer struct {
	Tagline string   `yaml:"tagline"`
	Social  []Social `yaml:"social"`
}

type Social struct {
	Icon  icons.Kind `yaml:"icon"`
	Label string     `yaml:"label"`
	Href  string     `yaml:"href"`
}

// ReviewList converts the seed into store records.
func (s Site) ReviewList() ([]reviews.Review, error) {
	out := make([]reviews.Review, 0, len(s.Reviews))
	for _, r := range s.Reviews {
		date, err := time.Parse("2006-01-02", strings.TrimSpace(r.Date))
		if err != nil {
			return nil, fmt.Errorf("content: review %d date %q: %w", r.ID, r.Date, err)
		}
		out = append(out, reviews.Review{
			ID:       r.ID,
			Name:     r.Name,
			Avatar:   r.Avatar,
			Service:  r.Service,
			Text:     r.Text,
			Rating:   r.Rating,
			Date:     date,
			Likes:    r.Likes,
			Dislikes: r.Dislikes,
			Verified: r.Verified,
		})
	}
	if err := reviews.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// validate checks the closed icon set and the fields templates rely on.
func (s *Site) validate() error {
	var problems []string
	checkIcon := func(where string, k icons.Kind) {
		if !icons.Known(k) {
			problems = append(problems, fmt.Sprintf("%s: unknown icon %q", where, k))
		}
	}
	if strings.TrimSpace(s.Business.Name) == "" {
		problems = append(problems, "business.name is required")
	}
	for i, c := range s.Highlights {
		checkIcon(fmt.Sprintf("highlights[%d]", i), c.Icon)
	}
	for i, c := range s.Strengths {
		checkIcon(fmt.Sprintf("strengths[%d]", i), c.Icon)
	}
	for i, svc := range s.Services {
		checkIcon(fmt.Sprintf("services[%d]", i), svc.Icon)
	}
	for i := range s.Process {
		s.Process[i].Number = i + 1
		checkIcon(fmt.Sprintf("process[%d]", i), s.Process[i].Icon)
	}
	for i, so := range s.Footer.Social {
		checkIcon(fmt.Sprintf("footer.social[%d]", i), so.Icon)
	}
	for i, t := range s.Testimonials {
		if t.Rating < 1 || t.Rating > 5 {
			problems = append(problems, fmt.Sprintf("testimonials[%d]: rating %d outside [1,5]", i, t.Rating))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("content: invalid site catalog: %s", strings.Join(problems, "; "))
	}
	return nil
}
