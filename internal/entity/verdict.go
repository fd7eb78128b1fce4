package entity

import (
	"time"

	"github.com/MandarKelkarOfficial/talent-sync/constants"
)

// Evidence is what the extractor derived from the submitted artifact.
// Immutable once produced for a run.
type Evidence struct {
	Text     string             `json:"text,omitempty"`
	Links    []string           `json:"links,omitempty"` // discovery order, duplicates retained
	Issuer   *constants.Issuer  `json:"issuer,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
}

// ProbeEvidence is the audit record attached to a probe result.
type ProbeEvidence struct {
	URL             string   `json:"url,omitempty"`
	StatusCode      int      `json:"status_code,omitempty"`
	MatchedIdentity bool     `json:"matched_name"`
	KeywordHit      bool     `json:"has_keywords"`
	TextSnippet     string   `json:"text_snippet,omitempty"`
	CheckedLinks    []string `json:"checked_links,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// ProbeResult is the outcome of one external verification check.
// Expected failures (network errors, non-2xx) are encoded here, never raised.
type ProbeResult struct {
	OK       bool          `json:"ok"`
	Score    float64       `json:"score"`
	Methods  []string      `json:"methods"`
	Evidence ProbeEvidence `json:"evidence"`
}

// HeuristicResult is the offline text-signal portion of the score.
type HeuristicResult struct {
	Score   float64  `json:"score"`
	Methods []string `json:"methods"`
}

// Verdict is the final decision for one job. Created once, never mutated.
type Verdict struct {
	Status           constants.VerdictStatus `json:"status"`
	Confidence       float64                 `json:"confidence"`
	Heuristics       HeuristicResult         `json:"heuristics"`
	QRVerification   *ProbeResult            `json:"qr_verification,omitempty"`
	PageVerification *ProbeResult            `json:"page_verification,omitempty"`
	ContentHash      string                  `json:"blob_hash_sha256,omitempty"`
	ArtifactPath     string                  `json:"encrypted_blob_path,omitempty"`
	CheckedAt        time.Time               `json:"checkedAt"`
}

// ExtractedPayload is the evidence section of the delivery payload, with the
// text snippet bounded for transport.
type ExtractedPayload struct {
	TextSnippet string            `json:"text_snippet"`
	Issuer      *constants.Issuer `json:"issuer,omitempty"`
	QRURLs      []string          `json:"qr_urls"`
}

// DeliveryPayload is the JSON body POSTed downstream once per job.
type DeliveryPayload struct {
	JobID             string           `json:"jobId"`
	SubjectID         string           `json:"userid"`
	Filename          string           `json:"filename,omitempty"`
	ContentType       string           `json:"contentType,omitempty"`
	Source            string           `json:"source"`
	Extracted         ExtractedPayload `json:"extracted"`
	Verification      *Verdict         `json:"verification"`
	EncryptedBlobPath string           `json:"encrypted_blob_path,omitempty"`
	BlobHashSHA256    string           `json:"blob_hash_sha256,omitempty"`
}
