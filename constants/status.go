package constants

// JobState is the canonical lifecycle state for a verification job.
type JobState string

// Stable values (reported verbatim to status consumers).
const (
	JobStateQueued        JobState = "queued"
	JobStateProcessing    JobState = "processing"
	JobStateDone          JobState = "done"
	JobStateFailed        JobState = "failed"
	JobStateRejected      JobState = "rejected"
	JobStateForwardFailed JobState = "forward_failed"
)

// IsTerminal reports whether no further transition may occur from s.
func (s JobState) IsTerminal() bool {
	switch s {
	case JobStateDone, JobStateFailed, JobStateRejected, JobStateForwardFailed:
		return true
	}
	return false
}

// VerdictStatus labels the final decision for a verified credential.
type VerdictStatus string

const (
	VerdictValid      VerdictStatus = "valid"
	VerdictSuspicious VerdictStatus = "suspicious"
	VerdictInvalid    VerdictStatus = "invalid"
	VerdictRejected   VerdictStatus = "rejected"
)

// SourceKind describes where the submitted artifact came from.
type SourceKind string

const (
	SourceUpload     SourceKind = "upload"
	SourceURL        SourceKind = "url"
	SourceVerifyPage SourceKind = "verify_page"
)
