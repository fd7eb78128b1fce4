package verify

import (
	"regexp"
	"strings"

	"github.com/MandarKelkarOfficial/talent-sync/constants"
	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
)

var (
	reCertIDLabel = regexp.MustCompile(`certificate id|credential id|cert id`)
	reYear        = regexp.MustCompile(`\b20\d{2}\b`)
)

// HeuristicScore awards independent, additive signals found in the artifact
// itself, without any network traffic.
func HeuristicScore(text string, issuer *constants.Issuer, links []string) entity.HeuristicResult {
	score := 0.0
	var methods []string

	if issuer != nil {
		score += 0.25
		methods = append(methods, "issuer-detected")
	}
	if reCertIDLabel.MatchString(strings.ToLower(text)) {
		score += 0.20
		methods = append(methods, "has-cert-id-label")
	}
	if reYear.MatchString(text) {
		score += 0.10
		methods = append(methods, "has-year")
	}
	if len(links) > 0 {
		score += 0.20
		methods = append(methods, "has-qr")
	}

	return entity.HeuristicResult{Score: Clamp(score), Methods: methods}
}

// Aggregate sums the heuristic score with both probe scores and applies the
// decision policy. Scores are summed, not averaged: corroboration across
// independent channels is rewarded.
func Aggregate(heur entity.HeuristicResult, qr, page *entity.ProbeResult) (float64, constants.VerdictStatus) {
	confidence := heur.Score
	probeOK := false
	if qr != nil {
		confidence += qr.Score
		probeOK = probeOK || qr.OK
	}
	if page != nil {
		confidence += page.Score
		probeOK = probeOK || page.OK
	}
	confidence = Clamp(confidence)

	var status constants.VerdictStatus
	switch {
	case probeOK && confidence >= 0.80:
		status = constants.VerdictValid
	case confidence >= 0.75:
		status = constants.VerdictValid
	case confidence >= 0.50:
		status = constants.VerdictSuspicious
	default:
		status = constants.VerdictInvalid
	}
	return confidence, status
}

// Clamp bounds a score to [0,1].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
