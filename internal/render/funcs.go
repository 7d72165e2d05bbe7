package render

import (
	"errors"
	"html/template"
	"time"

	"wonderland.co.zw/panels-web/internal/format"
	"wonderland.co.zw/panels-web/internal/i18n"
	"wonderland.co.zw/panels-web/internal/icons"
	"wonderland.co.zw/panels-web/internal/seo"
)

// Funcs is the template function set shared by every page.
func Funcs(bundle *i18n.Bundle) template.FuncMap {
	return template.FuncMap{
		"t": func(lang, key string) string {
			if bundle == nil {
				return key
			}
			return bundle.T(lang, key)
		},
		"icon": func(kind icons.Kind, classes ...string) template.HTML {
			return icons.SVG(kind, classes...)
		},
		"stars":    format.Stars,
		"date":     format.FmtDate,
		"isodate":  format.ISODate,
		"hours":    format.Hours,
		"jsonld":   seo.JSON,
		"year":     func() int { return time.Now().Year() },
		"dict":     dict,
		"contains": contains,
	}
}

// dict builds a map from alternating keys and values so partials can take
// more than one argument.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
