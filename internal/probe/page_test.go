package probe

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func servePage(t *testing.T, status int, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, html)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPageProbeKeywordAndName(t *testing.T) {
	srv := servePage(t, http.StatusOK,
		`<html><body><h1>Certificate Verified</h1><p>Issued to Jane Doe</p></body></html>`)

	p := NewPageProber(2*time.Second, testLogger())
	res := p.Probe(context.Background(), srv.URL, "Jane Doe")

	assert.True(t, res.OK)
	assert.InDelta(t, 1.0, res.Score, 1e-9)
	assert.Equal(t, []string{"verification-page-keywords", "name-on-verification-page"}, res.Methods)
	assert.True(t, res.Evidence.KeywordHit)
	assert.True(t, res.Evidence.MatchedIdentity)
	assert.Equal(t, http.StatusOK, res.Evidence.StatusCode)
	assert.Equal(t, srv.URL, res.Evidence.URL)
}

func TestPageProbeKeywordOnlyFailsThreshold(t *testing.T) {
	srv := servePage(t, http.StatusOK,
		`<html><body><p>This credential was issued by Example Corp.</p></body></html>`)

	p := NewPageProber(2*time.Second, testLogger())
	res := p.Probe(context.Background(), srv.URL, "Jane Doe")

	// one half-signal scores 0.5, below the 0.75 pass line
	assert.False(t, res.OK)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.Equal(t, []string{"verification-page-keywords"}, res.Methods)
	assert.False(t, res.Evidence.MatchedIdentity)
}

func TestPageProbeNameOnlyFailsThreshold(t *testing.T) {
	srv := servePage(t, http.StatusOK,
		`<html><body><p>Jane Doe attended the workshop.</p></body></html>`)

	p := NewPageProber(2*time.Second, testLogger())
	res := p.Probe(context.Background(), srv.URL, "Jane Doe")

	assert.False(t, res.OK)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.False(t, res.Evidence.KeywordHit)
	assert.True(t, res.Evidence.MatchedIdentity)
}

func TestPageProbeNon2xxIsZeroScoreNotError(t *testing.T) {
	srv := servePage(t, http.StatusNotFound, "not found")

	p := NewPageProber(2*time.Second, testLogger())
	res := p.Probe(context.Background(), srv.URL, "Jane Doe")

	assert.False(t, res.OK)
	assert.Zero(t, res.Score)
	assert.Equal(t, http.StatusNotFound, res.Evidence.StatusCode)
}

func TestPageProbeNetworkFailure(t *testing.T) {
	srv := servePage(t, http.StatusOK, "")
	srv.Close() // connection refused from here on

	p := NewPageProber(500*time.Millisecond, testLogger())
	res := p.Probe(context.Background(), srv.URL, "Jane Doe")

	assert.False(t, res.OK)
	assert.Zero(t, res.Score)
	assert.NotEmpty(t, res.Evidence.Error)
}

func TestPageProbeStripsScriptsAndBoundsSnippet(t *testing.T) {
	filler := strings.Repeat("lorem ipsum ", 200)
	srv := servePage(t, http.StatusOK,
		`<html><head><script>var verified = "certificate";</script><style>.x{}</style></head>`+
			`<body><p>`+filler+`</p></body></html>`)

	p := NewPageProber(2*time.Second, testLogger())
	res := p.Probe(context.Background(), srv.URL, "Jane Doe")

	// keywords inside script tags must not count
	require.False(t, res.Evidence.KeywordHit)
	assert.LessOrEqual(t, len(res.Evidence.TextSnippet), 800)
	assert.Contains(t, res.Evidence.TextSnippet, "lorem ipsum")
}
