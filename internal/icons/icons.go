// Package icons resolves the closed set of decorative icons to inline SVG.
package icons

import (
	"html/template"
	"strings"
)

// Kind identifies an icon.
type Kind string

const (
	Car       Kind = "car"
	Wrench    Kind = "wrench"
	Shield    Kind = "shield"
	Star      Kind = "star"
	Clock     Kind = "clock"
	Phone     Kind = "phone"
	Mail      Kind = "mail"
	MapPin    Kind = "map-pin"
	Award     Kind = "award"
	Users     Kind = "users"
	Check     Kind = "check"
	ThumbUp   Kind = "thumb-up"
	ThumbDown Kind = "thumb-down"
	Menu      Kind = "menu"
	Close     Kind = "close"
	Facebook  Kind = "facebook"
	Instagram Kind = "instagram"
	Twitter   Kind = "twitter"
	Search    Kind = "search"
	Paint     Kind = "paint"
	LinkedIn  Kind = "linkedin"
	Arrow     Kind = "arrow-right"
)

// paths holds the SVG body for each kind on a 24x24 viewBox.
var paths = map[Kind]string{
	Car:       `<path d="M5 17h14M6 17l1.5-6h9L18 17M7 17v2M17 17v2"/><circle cx="8" cy="15" r="1"/><circle cx="16" cy="15" r="1"/>`,
	Wrench:    `<path d="M14.7 6.3a4 4 0 0 0-5.4 5.4L3 18l3 3 6.3-6.3a4 4 0 0 0 5.4-5.4l-2.5 2.5-2.5-.5-.5-2.5z"/>`,
	Shield:    `<path d="M12 22s8-4 8-10V5l-8-3-8 3v7c0 6 8 10 8 10z"/>`,
	Star:      `<path d="M12 2l3.1 6.3 6.9 1-5 4.9 1.2 6.8L12 17.8 5.8 21l1.2-6.8-5-4.9 6.9-1z"/>`,
	Clock:     `<circle cx="12" cy="12" r="10"/><path d="M12 6v6l4 2"/>`,
	Phone:     `<path d="M22 16.9v3a2 2 0 0 1-2.2 2A19.8 19.8 0 0 1 2.1 4.2 2 2 0 0 1 4.1 2h3a2 2 0 0 1 2 1.7l.5 3a2 2 0 0 1-.6 1.8L7.7 9.8a16 16 0 0 0 6.5 6.5l1.3-1.3a2 2 0 0 1 1.8-.6l3 .5a2 2 0 0 1 1.7 2z"/>`,
	Mail:      `<rect x="2" y="4" width="20" height="16" rx="2"/><path d="M22 6l-10 7L2 6"/>`,
	MapPin:    `<path d="M12 22s7-6.2 7-12a7 7 0 0 0-14 0c0 5.8 7 12 7 12z"/><circle cx="12" cy="10" r="2.5"/>`,
	Award:     `<circle cx="12" cy="8" r="6"/><path d="M8.2 13.3L7 22l5-3 5 3-1.2-8.7"/>`,
	Users:     `<path d="M17 21v-2a4 4 0 0 0-4-4H5a4 4 0 0 0-4 4v2"/><circle cx="9" cy="7" r="4"/><path d="M23 21v-2a4 4 0 0 0-3-3.9M16 3.1a4 4 0 0 1 0 7.8"/>`,
	Check:     `<path d="M20 6L9 17l-5-5"/>`,
	ThumbUp:   `<path d="M7 22V11M2 13v7a2 2 0 0 0 2 2h13.4a2 2 0 0 0 2-1.7l1.4-9A2 2 0 0 0 18.8 9H14V4a3 3 0 0 0-3-3l-4 10"/>`,
	ThumbDown: `<path d="M17 2v11M22 11V4a2 2 0 0 0-2-2H6.6a2 2 0 0 0-2 1.7l-1.4 9A2 2 0 0 0 5.2 15H10v5a3 3 0 0 0 3 3l4-10"/>`,
	Menu:      `<path d="M3 6h18M3 12h18M3 18h18"/>`,
	Close:     `<path d="M18 6L6 18M6 6l12 12"/>`,
	Facebook:  `<path d="M18 2h-3a5 5 0 0 0-5 5v3H7v4h3v8h4v-8h3l1-4h-4V7a1 1 0 0 1 1-1h3z"/>`,
	Instagram: `<rect x="2" y="2" width="20" height="20" rx="5"/><circle cx="12" cy="12" r="4"/><circle cx="17.5" cy="6.5" r=".5"/>`,
	Twitter:   `<path d="M23 3a10.9 10.9 0 0 1-3.1 1.5 4.5 4.5 0 0 0-7.9 3v1A10.7 10.7 0 0 1 3 4s-4 9 5 13a11.6 11.6 0 0 1-7 2c9 5 20 0 20-11.5 0-.3 0-.6-.1-.8A7.7 7.7 0 0 0 23 3z"/>`,
	Search:    `<circle cx="11" cy="11" r="8"/><path d="M21 21l-4.3-4.3"/>`,
	Paint:     `<path d="M19 11h2v6h-9v5h-2v-7h9zM3 3h16v6H3z"/>`,
	LinkedIn:  `<path d="M16 8a6 6 0 0 1 6 6v7h-4v-7a2 2 0 0 0-4 0v7h-4v-7a6 6 0 0 1 6-6zM2 9h4v12H2z"/><circle cx="4" cy="4" r="2"/>`,
	Arrow:     `<path d="M14 5l7 7-7 7M21 12H3"/>`,
}

// Kinds lists every known kind.
func Kinds() []Kind {
	out := make([]Kind, 0, len(paths))
	for k := range paths {
		out = append(out, k)
	}
	return out
}

// Known reports whether k is in the set.
func Known(k Kind) bool {
	_, ok := paths[k]
	return ok
}

// SVG renders k as an inline, decorative SVG element. Unknown kinds render
// nothing. Extra classes are appended to the "icon" class.
func SVG(k Kind, classes ...string) template.HTML {
	body, ok := paths[k]
	if !ok {
		return ""
	}
	class := "icon icon-" + string(k)
	if len(classes) > 0 {
		class += " " + strings.Join(classes, " ")
	}
	var b strings.Builder
	b.WriteString(`<svg class="`)
	b.WriteString(template.HTMLEscapeString(class))
	b.WriteString(`" viewBox="0 0 24 24" width="24" height="24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">`)
	b.WriteString(body)
	b.WriteString(`</svg>`)
	return template.HTML(b.String())
}

// Parse converts a catalog string into a Kind.
func Parse(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	return k, Known(k)
}
