package probe

import (
	"context"
	"log/slog"
	"strings"

	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
)

// Prober is what the QR-link walk needs from a page prober.
type Prober interface {
	Probe(ctx context.Context, url, claimedIdentity string) entity.ProbeResult
}

// QrLinkProber walks embedded links in discovery order and returns the first
// one that independently verifies. Best-effort short-circuit search, not a
// best-of-all aggregation.
type QrLinkProber struct {
	pages  Prober
	logger *slog.Logger
}

func NewQrLinkProber(pages Prober, logger *slog.Logger) *QrLinkProber {
	if logger == nil {
		logger = slog.Default()
	}
	return &QrLinkProber{pages: pages, logger: logger}
}

// ProbeAny probes each http(s) link in order and stops at the first pass.
// Later links are never probed once one passes.
func (q *QrLinkProber) ProbeAny(ctx context.Context, links []string, claimedIdentity string) entity.ProbeResult {
	var checked []string
	for _, link := range links {
		if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
			continue
		}
		checked = append(checked, link)
		res := q.pages.Probe(ctx, link, claimedIdentity)
		if res.OK {
			q.logger.Debug("qr link verified", "url", link, "score", res.Score)
			return res
		}
	}
	return entity.ProbeResult{
		OK:       false,
		Score:    0,
		Methods:  []string{},
		Evidence: entity.ProbeEvidence{CheckedLinks: checked},
	}
}
