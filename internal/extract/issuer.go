package extract

import (
	"strings"

	"github.com/MandarKelkarOfficial/talent-sync/constants"
)

// DetectIssuer matches the lower-cased text plus the concatenated links
// against the known-issuer table. Table order is the tie-break: the first
// issuer whose name or domain appears wins.
func DetectIssuer(text string, links []string) *constants.Issuer {
	content := strings.ToLower(text) + " " + strings.ToLower(strings.Join(links, " "))

	for _, iss := range constants.KnownIssuers {
		if strings.Contains(content, iss.Name) || strings.Contains(content, iss.Domain) {
			found := iss
			return &found
		}
	}
	return nil
}
