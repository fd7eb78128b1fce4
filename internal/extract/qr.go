package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/MandarKelkarOfficial/talent-sync/constants"
)

// scanQR collects decoded barcode payloads in encounter order, duplicates
// retained. PDFs are rasterized first, capped at the first 2 pages for cost
// control.
func (e *Extractor) scanQR(ctx context.Context, path, contentType string) ([]string, []string) {
	if !constants.IsPDFContentType(contentType) {
		return e.zbarimgScan(ctx, path)
	}

	pages, warns, err := e.renderPages(ctx, path, 2)
	if err != nil {
		return nil, warns
	}
	defer func() { _ = os.RemoveAll(filepath.Dir(pages[0])) }()

	var links []string
	for _, img := range pages {
		ls, w := e.zbarimgScan(ctx, img)
		links = append(links, ls...)
		warns = append(warns, w...)
	}
	return links, warns
}

// zbarimgScan runs zbarimg and parses its SYMBOL:payload lines. Exit code 4
// means "no symbol found", which is an empty result rather than a failure.
func (e *Extractor) zbarimgScan(ctx context.Context, path string) ([]string, []string) {
	// zbarimg --quiet --raw <file> prints one payload per line, but loses the
	// symbology; keep the default "TYPE:data" output and split ourselves so we
	// can also accept non-QR 2D codes.
	out, errb, err := e.runner.Run(ctx, e.cfg.Zbarimg, "--quiet", path)
	if err != nil && len(out) == 0 {
		if msg := strings.TrimSpace(string(errb)); msg != "" {
			return nil, []string{"zbarimg: " + msg}
		}
		return nil, nil
	}

	var links []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i := strings.Index(line, ":"); i >= 0 {
			line = line[i+1:]
		}
		if line != "" {
			links = append(links, line)
		}
	}
	return links, nil
}
