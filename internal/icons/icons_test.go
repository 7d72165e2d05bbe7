package icons

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSVGRendersKnownKinds(t *testing.T) {
	for _, k := range Kinds() {
		out := string(SVG(k))
		require.True(t, strings.HasPrefix(out, "<svg "), k)
		require.Contains(t, out, `class="icon icon-`+string(k)+`"`)
	}
	require.Contains(t, string(SVG(Star, "filled")), `class="icon icon-star filled"`)
}

func TestUnknownKindRendersNothing(t *testing.T) {
	require.Empty(t, SVG(Kind("unicorn")))

	k, ok := Parse(" Map-Pin ")
	require.True(t, ok)
	require.Equal(t, MapPin, k)
	_, ok = Parse("unicorn")
	require.False(t, ok)
}
