package constants

// Issuer is one entry of the known-issuer table.
type Issuer struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// KnownIssuers is the static issuer table used for detection. Order matters:
// the first entry whose name or domain appears in the combined evidence wins.
var KnownIssuers = []Issuer{
	{"coursera", "coursera.org"},
	{"udemy", "udemy.com"},
	{"accredible", "accredible.com"},
	{"credly", "credly.com"},
	{"edx", "edx.org"},
	{"openbadge", "openbadges.org"},
	{"blockcerts", "blockcerts.org"},
	{"ibm", "ibm.com"},
	{"cisco", "cisco.com"},
	{"wadhwani", "wadhwani.foundation"},
	{"skillvertex", "skillvertex.com"},
	{"microsoft", "microsoft.com"},
	{"google", "google.com"},
	{"aws", "amazon.com"},
}
