package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JobMetadata is the caller-supplied blob accompanying a submission. The
// downstream system of record keys results by SubjectID, so a submission
// without it can never be delivered and fails fast instead.
type JobMetadata struct {
	SubjectID    string `json:"subjectId"`
	ProvidedName string `json:"providedName,omitempty"`
}

const metadataSchemaJSON = `{
	"type": "object",
	"required": ["subjectId"],
	"properties": {
		"subjectId":    {"type": "string", "minLength": 1},
		"providedName": {"type": "string"}
	}
}`

var metadataSchema = jsonschema.MustCompileString("metadata.json", metadataSchemaJSON)

// ParseMetadata validates the metadata blob against the schema and decodes it.
// A missing, malformed, or incomplete blob is a job-fatal fault, not a silent
// default.
func ParseMetadata(blob string) (JobMetadata, error) {
	if blob == "" {
		return JobMetadata{}, fmt.Errorf("metadata is required and must supply subjectId")
	}
	var v any
	if err := json.Unmarshal([]byte(blob), &v); err != nil {
		return JobMetadata{}, fmt.Errorf("decode metadata JSON: %w", err)
	}
	if err := metadataSchema.Validate(v); err != nil {
		return JobMetadata{}, fmt.Errorf("metadata does not match schema: %w", err)
	}
	var meta JobMetadata
	if err := json.Unmarshal([]byte(blob), &meta); err != nil {
		return JobMetadata{}, fmt.Errorf("decode metadata JSON: %w", err)
	}
	return meta, nil
}
