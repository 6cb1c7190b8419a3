package gateway

import "strings"

// DefaultExempt lists the credential-submission endpoints. A 401 from one of
// them is an answer about the submitted credentials, not about the session,
// so it never triggers the reauth protocol.
var DefaultExempt = ExemptSet{"/auth/login", "/auth/signup", "/auth/forgot-password"}

// ExemptSet matches request paths against exempt endpoints. A path matches
// an entry when it equals it or ends with it, which tolerates an API base
// path such as /api/v1.
type ExemptSet []string

func (s ExemptSet) Match(path string) bool {
	path, _, _ = strings.Cut(path, "?")
	for _, p := range s {
		if path == p || strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}
