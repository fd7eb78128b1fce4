package probe

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
	"github.com/MandarKelkarOfficial/talent-sync/internal/verify"
)

// pageKeywords is the fixed authenticity keyword set. Any single hit awards
// the keyword half of the score, at most once per probe.
var pageKeywords = []string{
	"verify", "verified", "certificate", "credential", "valid", "issued to", "completed",
}

// passThreshold is exact: 0.74999 fails, 0.75 passes.
const passThreshold = 0.75

const snippetLimit = 800

// PageProber fetches an external verification URL and scores it for
// authenticity keywords and identity-name presence. Network failures and
// non-2xx responses come back as a zero-score result, never as an error.
type PageProber struct {
	client *http.Client
	logger *slog.Logger
}

func NewPageProber(timeout time.Duration, logger *slog.Logger) *PageProber {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// redirects are followed by default, which verification short-links rely on
	return &PageProber{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Probe fetches url and scores the page against the claimed identity.
func (p *PageProber) Probe(ctx context.Context, url, claimedIdentity string) entity.ProbeResult {
	fail := func(status int, errMsg string) entity.ProbeResult {
		return entity.ProbeResult{
			OK:      false,
			Score:   0,
			Methods: []string{},
			Evidence: entity.ProbeEvidence{
				URL:        url,
				StatusCode: status,
				Error:      errMsg,
			},
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fail(0, err.Error())
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("page probe fetch failed", "url", url, "error", err)
		return fail(0, err.Error())
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			p.logger.Warn("page probe body close failed", "url", url, "error", cerr)
		}
	}()

	if resp.StatusCode/100 != 2 {
		p.logger.Debug("page probe non-2xx", "url", url, "status", resp.StatusCode)
		return fail(resp.StatusCode, "")
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, "parse html: "+err.Error())
	}
	pageText := visibleText(doc)

	score := 0.0
	var methods []string

	keywordHit := false
	for _, k := range pageKeywords {
		if strings.Contains(pageText, k) {
			keywordHit = true
			break
		}
	}
	if keywordHit {
		score += 0.50
		methods = append(methods, "verification-page-keywords")
	}

	matched := verify.TokensMatch(verify.IdentityTokens(claimedIdentity), pageText)
	if matched {
		score += 0.50
		methods = append(methods, "name-on-verification-page")
	}

	score = verify.Clamp(score)
	snippet := pageText
	if len(snippet) > snippetLimit {
		snippet = snippet[:snippetLimit]
	}

	return entity.ProbeResult{
		OK:      score >= passThreshold,
		Score:   score,
		Methods: methods,
		Evidence: entity.ProbeEvidence{
			URL:             url,
			StatusCode:      resp.StatusCode,
			MatchedIdentity: matched,
			KeywordHit:      keywordHit,
			TextSnippet:     snippet,
		},
	}
}

// visibleText strips markup and non-content elements and returns the page
// text lower-cased with whitespace collapsed.
func visibleText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()
	return strings.ToLower(strings.Join(strings.Fields(doc.Text()), " "))
}
