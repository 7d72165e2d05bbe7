package seo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMetaCanonical(t *testing.T) {
	m := NewMeta("Wonderland", "Services", "What we fix", "https://wonderland.co.zw/", "/services", "/assets/img/hero.jpg")
	require.Equal(t, "Services | Wonderland", m.Title)
	require.Equal(t, "https://wonderland.co.zw/services", m.Canonical)
	require.Equal(t, "https://wonderland.co.zw/assets/img/hero.jpg", m.OG.Image)

	home := NewMeta("Wonderland", "Wonderland", "", "", "/", "")
	require.Equal(t, "Wonderland", home.Title)
	require.Equal(t, "/", home.Canonical)
}

func TestAutoBodyShopAggregateRating(t *testing.T) {
	payload := AutoBodyShop(Business{Name: "Wonderland", Telephone: "+263", Lat: -17.8, Lng: 31.0}, Rating{Count: 3, Average: 14.0 / 3})
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(JSON(payload)), &decoded))
	require.Equal(t, "AutoBodyShop", decoded["@type"])
	agg := decoded["aggregateRating"].(map[string]any)
	require.EqualValues(t, 4.7, agg["ratingValue"])
	require.EqualValues(t, 3, agg["reviewCount"])
	require.Contains(t, decoded, "geo")

	require.NotContains(t, AutoBodyShop(Business{Name: "x"}, Rating{}), "aggregateRating")
}

func TestJSONEscapesScriptBreakout(t *testing.T) {
	out := string(JSON(map[string]string{"name": "</script><script>"}))
	require.NotContains(t, out, "</script>")
}
