package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MandarKelkarOfficial/talent-sync/constants"
	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Zbarimg   string // binary name or absolute path; if empty -> "zbarimg"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	OCRPages      int    // page cap for OCR fallback and QR scanning, default 2
}

// Extractor turns raw artifact bytes into structured Evidence. Extraction
// failures degrade to empty text / empty links; Extract never returns an
// error to the pipeline.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Zbarimg == "" {
		cfg.Zbarimg = "zbarimg"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.OCRPages <= 0 {
		cfg.OCRPages = 2
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract picks a strategy based on the declared content type: native PDF text
// first with an OCR fallback, direct OCR for images. The same bytes are
// independently scanned for QR payloads, and the combined content is matched
// against the known-issuer table.
func (e *Extractor) Extract(ctx context.Context, raw []byte, contentType string) entity.Evidence {
	var ev entity.Evidence

	tmp, cleanup, err := e.writeTemp(raw, contentType)
	if err != nil {
		e.logger.Error("evidence extraction skipped", "error", err)
		ev.Warnings = append(ev.Warnings, err.Error())
		return ev
	}
	defer cleanup()

	switch constants.MapContentTypeToFormat(contentType) {
	case constants.PDF:
		text, warns := e.extractPDFText(ctx, tmp)
		ev.Text = text
		ev.Warnings = append(ev.Warnings, warns...)
	default:
		text, warns := e.tesseractOCR(ctx, tmp)
		ev.Text = text
		ev.Warnings = append(ev.Warnings, warns...)
	}

	links, warns := e.scanQR(ctx, tmp, contentType)
	ev.Links = links
	ev.Warnings = append(ev.Warnings, warns...)

	ev.Issuer = DetectIssuer(ev.Text, ev.Links)

	e.logger.Debug("evidence extracted",
		"text_bytes", len(ev.Text),
		"links", len(ev.Links),
		"issuer", ev.Issuer != nil,
		"warnings", len(ev.Warnings),
	)
	return ev
}

// extractPDFText tries native text extraction first; a whitespace-only yield
// falls back to rasterizing the first pages and OCRing each in page order.
func (e *Extractor) extractPDFText(ctx context.Context, path string) (string, []string) {
	var warns []string

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		warns = append(warns, "pdftotext: "+string(errb))
	} else if text := strings.TrimSpace(string(out)); text != "" {
		return text, warns
	}

	pages, w, err := e.renderPages(ctx, path, e.cfg.OCRPages)
	warns = append(warns, w...)
	if err != nil {
		warns = append(warns, err.Error())
		return "", warns
	}
	defer func() {
		if len(pages) > 0 {
			_ = os.RemoveAll(filepath.Dir(pages[0]))
		}
	}()

	var b strings.Builder
	for _, img := range pages {
		txt, w2 := e.tesseractOCR(ctx, img)
		warns = append(warns, w2...)
		if txt == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
	}
	return b.String(), warns
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		return "", []string{"tesseract: " + string(errb)}
	}
	return strings.TrimSpace(string(out)), nil
}

// renderPages rasterizes up to maxPages pages to PNG and returns the file
// paths in page order. The caller removes the parent temp dir.
func (e *Extractor) renderPages(ctx context.Context, path string, maxPages int) ([]string, []string, error) {
	tmpDir, err := os.MkdirTemp("", "ts-pp-*")
	if err != nil {
		return nil, nil, err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -l <maxPages> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", fmt.Sprintf("%d", e.cfg.DPI), "-l", fmt.Sprintf("%d", maxPages), "-png", path, prefix)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, []string{"pdftoppm: " + string(errb)}, fmt.Errorf("no pages rendered")
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) > maxPages {
		matches = matches[:maxPages]
	}
	if len(matches) == 0 {
		_ = os.RemoveAll(tmpDir)
		return nil, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}
	return matches, nil, nil
}

// writeTemp spills raw bytes to a temp file for the external tools.
func (e *Extractor) writeTemp(raw []byte, contentType string) (string, func(), error) {
	ext := ".img"
	if constants.IsPDFContentType(contentType) {
		ext = ".pdf"
	}
	f, err := os.CreateTemp("", "ts-artifact-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("temp artifact: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close artifact: %w", err)
	}
	return f.Name(), cleanup, nil
}
