package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MandarKelkarOfficial/talent-sync/constants"
	"github.com/MandarKelkarOfficial/talent-sync/internal/dispatch"
	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
	"github.com/MandarKelkarOfficial/talent-sync/internal/metrics"
	"github.com/MandarKelkarOfficial/talent-sync/internal/store"
	"github.com/MandarKelkarOfficial/talent-sync/internal/vault"
	"github.com/MandarKelkarOfficial/talent-sync/internal/verify"
)

const payloadSnippetLimit = 500

// Seams the processor depends on. Concrete implementations live in
// internal/extract, internal/probe, internal/vault and internal/dispatch;
// tests substitute fakes.
type (
	// EvidenceExtractor turns artifact bytes into Evidence, degrading instead
	// of failing.
	EvidenceExtractor interface {
		Extract(ctx context.Context, raw []byte, contentType string) entity.Evidence
	}

	// PageProber checks one verification URL.
	PageProber interface {
		Probe(ctx context.Context, url, claimedIdentity string) entity.ProbeResult
	}

	// LinkProber walks embedded links and returns the first passing probe.
	LinkProber interface {
		ProbeAny(ctx context.Context, links []string, claimedIdentity string) entity.ProbeResult
	}

	// Sealer encrypts the artifact at rest.
	Sealer interface {
		Seal(jobID, filenameHint string, plaintext []byte) (vault.SealResult, error)
	}

	// Deliverer posts the verdict payload downstream.
	Deliverer interface {
		Deliver(ctx context.Context, payload *entity.DeliveryPayload) dispatch.DeliveryResult
	}
)

// Processor coordinates one verification run per job: evidence extraction,
// probing, scoring, sealing and delivery, with the job state machine wrapped
// around it.
type Processor struct {
	logger     *slog.Logger
	jobs       store.JobStore
	extractor  EvidenceExtractor
	pages      PageProber
	links      LinkProber
	sealer     Sealer
	dispatcher Deliverer
	metrics    *metrics.Metrics
	fetch      *http.Client
}

func NewProcessor(
	logger *slog.Logger,
	jobs store.JobStore,
	extractor EvidenceExtractor,
	pages PageProber,
	links LinkProber,
	sealer Sealer,
	dispatcher Deliverer,
	m *metrics.Metrics,
	fetchTimeout time.Duration,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &Processor{
		logger:     logger,
		jobs:       jobs,
		extractor:  extractor,
		pages:      pages,
		links:      links,
		sealer:     sealer,
		dispatcher: dispatcher,
		metrics:    m,
		fetch:      &http.Client{Timeout: fetchTimeout},
	}
}

// Run executes the full pipeline for jobID until a terminal state. A job that
// is not in the queued state is left untouched: terminal states are final and
// at most one run may own a job.
func (p *Processor) Run(ctx context.Context, jobID string) error {
	j, err := p.jobs.Get(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if j.State != constants.JobStateQueued {
		p.logger.Warn("job not runnable, skipping", "job_id", jobID, "state", j.State)
		return nil
	}

	now := time.Now().UTC()
	j.State = constants.JobStateProcessing
	j.StartedAt = &now
	if err := p.jobs.Update(ctx, j); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	meta, err := ParseMetadata(j.Metadata)
	if err != nil {
		return p.fail(ctx, j, "invalid metadata: "+err.Error())
	}
	claimed := j.ClaimedIdentity
	if meta.ProvidedName != "" {
		claimed = meta.ProvidedName
	}

	raw := j.RawBytes
	if len(raw) == 0 && j.SourceURL != "" {
		var ct string
		raw, ct, err = p.fetchArtifact(ctx, j.SourceURL)
		if err != nil {
			return p.fail(ctx, j, "failed to download from URL: "+err.Error())
		}
		if ct != "" {
			j.ContentType = ct
		}
	}

	var pageRes *entity.ProbeResult
	if j.VerificationURL != "" {
		r := p.pages.Probe(ctx, j.VerificationURL, claimed)
		pageRes = &r
	}

	if len(raw) == 0 {
		if pageRes == nil {
			return p.fail(ctx, j, "no file or usable verification URL provided")
		}
		return p.finishPageOnly(ctx, j, meta, claimed, pageRes)
	}

	ev := p.extractor.Extract(ctx, raw, j.ContentType)
	qrRes := p.links.ProbeAny(ctx, ev.Links, claimed)
	heur := verify.HeuristicScore(ev.Text, ev.Issuer, ev.Links)

	confidence, status := verify.Aggregate(heur, &qrRes, pageRes)
	identityOK := verify.MatchesIdentity(claimed, ev.Text, probeEvidence(pageRes))
	if !identityOK {
		status = constants.VerdictRejected
	}

	seal, err := p.sealer.Seal(j.ID, j.Filename, raw)
	if err != nil {
		return p.fail(ctx, j, "seal artifact: "+err.Error())
	}

	j.Verdict = &entity.Verdict{
		Status:           status,
		Confidence:       confidence,
		Heuristics:       heur,
		QRVerification:   &qrRes,
		PageVerification: pageRes,
		ContentHash:      seal.ContentHash,
		ArtifactPath:     seal.Path,
		CheckedAt:        time.Now().UTC(),
	}

	payload := p.buildPayload(j, meta.SubjectID, ev)
	res := p.dispatcher.Deliver(ctx, payload)
	p.metrics.ObserveDelivery(res.Attempts, res.OK)

	final := constants.JobStateDone
	switch {
	case !identityOK:
		// identity mismatch always wins, even over a failed delivery
		final = constants.JobStateRejected
	case !res.OK:
		final = constants.JobStateForwardFailed
		j.Error = res.Error
	}
	return p.finalize(ctx, j, final)
}

// finishPageOnly produces a verdict from the page probe alone: nothing was
// uploaded, so there is nothing to seal and the artifact fields stay empty.
func (p *Processor) finishPageOnly(ctx context.Context, j *entity.Job, meta JobMetadata, claimed string, pageRes *entity.ProbeResult) error {
	status := constants.VerdictInvalid
	if pageRes.OK {
		status = constants.VerdictValid
	}
	identityOK := verify.MatchesIdentity(claimed, "", &pageRes.Evidence)
	if !identityOK {
		status = constants.VerdictRejected
	}

	j.Verdict = &entity.Verdict{
		Status:           status,
		Confidence:       verify.Clamp(pageRes.Score),
		PageVerification: pageRes,
		CheckedAt:        time.Now().UTC(),
	}

	payload := p.buildPayload(j, meta.SubjectID, entity.Evidence{})
	res := p.dispatcher.Deliver(ctx, payload)
	p.metrics.ObserveDelivery(res.Attempts, res.OK)

	final := constants.JobStateDone
	switch {
	case !identityOK:
		final = constants.JobStateRejected
	case !res.OK:
		final = constants.JobStateForwardFailed
		j.Error = res.Error
	}
	return p.finalize(ctx, j, final)
}

// fail aborts the run immediately: no partial verdict, human-readable message
// recorded on the job.
func (p *Processor) fail(ctx context.Context, j *entity.Job, msg string) error {
	p.logger.Error("pipeline.failed", "job_id", j.ID, "error", msg)
	j.Error = msg
	return p.finalize(ctx, j, constants.JobStateFailed)
}

func (p *Processor) finalize(ctx context.Context, j *entity.Job, state constants.JobState) error {
	now := time.Now().UTC()
	j.State = state
	j.FinishedAt = &now
	if err := p.jobs.Update(ctx, j); err != nil {
		return fmt.Errorf("finalize job %s: %w", j.ID, err)
	}
	p.metrics.ObserveJobFinished(string(state))
	if j.Verdict != nil {
		p.metrics.ObserveVerdict(string(j.Verdict.Status))
	}
	p.logger.Info("job finished",
		"job_id", j.ID,
		"state", state,
		"verdict", verdictLabel(j.Verdict),
	)
	return nil
}

func (p *Processor) buildPayload(j *entity.Job, subjectID string, ev entity.Evidence) *entity.DeliveryPayload {
	snippet := ev.Text
	if len(snippet) > payloadSnippetLimit {
		snippet = snippet[:payloadSnippetLimit]
	}
	return &entity.DeliveryPayload{
		JobID:       j.ID,
		SubjectID:   subjectID,
		Filename:    j.Filename,
		ContentType: j.ContentType,
		Source:      string(j.Source),
		Extracted: entity.ExtractedPayload{
			TextSnippet: snippet,
			Issuer:      ev.Issuer,
			QRURLs:      ev.Links,
		},
		Verification:      j.Verdict,
		EncryptedBlobPath: j.Verdict.ArtifactPath,
		BlobHashSHA256:    j.Verdict.ContentHash,
	}
}

// fetchArtifact downloads the artifact behind a source URL. An error or empty
// body is a job-fatal fault for the caller to record.
func (p *Processor) fetchArtifact(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := p.fetch.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			p.logger.Warn("artifact fetch body close failed", "url", url, "error", cerr)
		}
	}()
	if resp.StatusCode/100 != 2 {
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("empty response body")
	}
	return raw, resp.Header.Get("Content-Type"), nil
}

func probeEvidence(r *entity.ProbeResult) *entity.ProbeEvidence {
	if r == nil {
		return nil
	}
	return &r.Evidence
}

func verdictLabel(v *entity.Verdict) string {
	if v == nil {
		return ""
	}
	return string(v.Status)
}
