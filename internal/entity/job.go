package entity

import (
	"time"

	"github.com/MandarKelkarOfficial/talent-sync/constants"
)

// Job represents one verification request for data transfer between layers.
// A Job is mutated only by the pipeline run that owns it; everyone else gets
// copies.
type Job struct {
	ID              string               `json:"jobId"`
	ClaimedIdentity string               `json:"claimedIdentity,omitempty"`
	Source          constants.SourceKind `json:"source"`
	RawBytes        []byte               `json:"rawBytes,omitempty"`
	SourceURL       string               `json:"sourceUrl,omitempty"`
	VerificationURL string               `json:"verificationUrl,omitempty"`
	ContentType     string               `json:"contentType,omitempty"`
	Filename        string               `json:"filename,omitempty"`
	Metadata        string               `json:"metadata,omitempty"`
	State           constants.JobState   `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	StartedAt       *time.Time           `json:"startedAt,omitempty"`
	FinishedAt      *time.Time           `json:"finishedAt,omitempty"`
	Verdict         *Verdict             `json:"result,omitempty"`
	Error           string               `json:"error,omitempty"`
}

// Clone returns a deep-enough copy for handing across goroutine boundaries.
// The byte slice is shared read-only by convention; Sanitized drops it before
// anything leaves the process.
func (j *Job) Clone() *Job {
	cp := *j
	if j.StartedAt != nil {
		t := *j.StartedAt
		cp.StartedAt = &t
	}
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		cp.FinishedAt = &t
	}
	if j.Verdict != nil {
		v := *j.Verdict
		cp.Verdict = &v
	}
	return &cp
}

// Sanitized returns a status-query view of the job: raw artifact bytes and the
// caller metadata blob never leave the process.
func (j *Job) Sanitized() *Job {
	cp := j.Clone()
	cp.RawBytes = nil
	cp.Metadata = ""
	return cp
}
