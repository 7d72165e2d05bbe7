package nav

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item represents a top-level navigation item.
type Item struct {
	Path     string // e.g. "/services"
	LabelKey string // i18n key, e.g. "nav.services"
	Label    string // fallback when the key is missing
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation, in display order.
var Main = []Item{
	{Path: "/", LabelKey: "nav.home", Label: "Home"},
	{Path: "/services", LabelKey: "nav.services", Label: "Services"},
	{Path: "/gallery", LabelKey: "nav.gallery", Label: "Gallery"},
	{Path: "/about", LabelKey: "nav.about", Label: "About Us"},
	{Path: "/process", LabelKey: "nav.process", Label: "Our Process"},
	{Path: "/contact", LabelKey: "nav.contact", Label: "Contact"},
}

// Build renders navigation items. An item is active only when its path
// equals the current path byte for byte, so "/services/" activates nothing
// and at most one item is active. An empty path is the root.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Label:    it.Label,
			Active:   it.Path == currentPath,
		})
	}
	return items
}

// Shell is the header's mobile menu state.
type Shell struct {
	Open bool
}

// Toggle flips the mobile menu.
func (s *Shell) Toggle() {
	s.Open = !s.Open
}

// Activate follows a navigation link. The menu always closes, and the
// destination path is returned for the router.
func (s *Shell) Activate(target string) string {
	s.Open = false
	return normalize(target)
}

// Breadcrumbs builds breadcrumb entries from the current path, starting at Home.
func Breadcrumbs(currentPath string) []Crumb {
	currentPath = normalize(currentPath)
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Label: "Home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	parts := strings.Split(strings.TrimPrefix(currentPath, "/"), "/")
	href := ""
	for i, seg := range parts {
		href += "/" + seg
		crumb := Crumb{Href: href, Label: titleFromSegment(seg), Active: i == len(parts)-1}
		if i == 0 {
			for _, it := range Main {
				if it.Path == href {
					crumb.LabelKey = it.LabelKey
					crumb.Label = it.Label
					break
				}
			}
		}
		crumbs = append(crumbs, crumb)
	}
	return crumbs
}

func titleFromSegment(seg string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	// casers carry state and cannot be shared across goroutines
	return cases.Title(language.English).String(s)
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + strings.TrimPrefix(p, "/"))
}
