package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoutesListsPagesAndFragments(t *testing.T) {
	out, err := execute(t, "routes")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, []string{"METHOD", "PATH", "SERVES"}, strings.Fields(lines[0]))
	require.Contains(t, out, "page reviews")
	require.Contains(t, out, "/reviews/{id}/vote")
	require.Contains(t, out, "/contact/status")
	require.Len(t, lines, 1+len(routeTable(true)))
}

func TestRoutesWithoutReviews(t *testing.T) {
	out, err := execute(t, "routes", "--reviews=false")
	require.NoError(t, err)
	require.NotContains(t, out, "/reviews")
	require.Contains(t, out, "page contact")
}

func TestCheckValidatesShippedSite(t *testing.T) {
	root := filepath.Join("..", "..")
	out, err := execute(t, "check",
		"--content", filepath.Join(root, "content"),
		"--templates", filepath.Join(root, "templates"),
		"--locales", filepath.Join(root, "locales"),
	)
	require.NoError(t, err)
	require.Contains(t, out, "ok: 3 services, 5 process steps, 6 gallery pairs, 3 reviews, 8 page templates")
}

func TestCheckReportsMissingContent(t *testing.T) {
	_, err := execute(t, "check", "--content", t.TempDir())
	require.Error(t, err)
}
