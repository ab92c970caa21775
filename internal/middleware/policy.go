// internal/middleware/policy.go
package middleware

import "strings"

// Access is the state a request must reach to pass the route gate.
type Access int

const (
	// AccessPublic routes pass with no session check at all.
	AccessPublic Access = iota
	// AccessAuthenticated routes need a valid session credential.
	AccessAuthenticated
	// AccessApproved routes additionally need the credential's approval
	// flag set. The flag is the mint-time snapshot, not the live row.
	AccessApproved
)

// PolicyRule maps one path pattern to its required access. A pattern ending
// in "/*" matches the prefix before it and everything below; anything else
// matches exactly.
type PolicyRule struct {
	Pattern string
	Access  Access
}

// PolicyTable is an ordered route-gating policy: first matching rule wins,
// and unmatched paths fall back to DefaultAccess. Keeping the policy as one
// table means a new route is a one-line change rather than another scattered
// conditional.
type PolicyTable struct {
	Rules         []PolicyRule
	DefaultAccess Access
}

// Required returns the access level the table demands for path.
func (t *PolicyTable) Required(path string) Access {
	for _, rule := range t.Rules {
		if matchPattern(rule.Pattern, path) {
			return rule.Access
		}
	}
	return t.DefaultAccess
}

func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}

// DefaultPolicy gates the page routes: a fixed public allowlist, the
// approval-gated dashboard pages, and everything else requiring only a
// session.
func DefaultPolicy() *PolicyTable {
	return &PolicyTable{
		Rules: []PolicyRule{
			{Pattern: "/login", Access: AccessPublic},
			{Pattern: "/auth-redirect", Access: AccessPublic},
			{Pattern: "/favicon.ico", Access: AccessPublic},
			{Pattern: "/static/*", Access: AccessPublic},
			{Pattern: "/healthz", Access: AccessPublic},
			{Pattern: "/dashboard/*", Access: AccessApproved},
			{Pattern: "/welcome", Access: AccessApproved},
			{Pattern: "/profile", Access: AccessApproved},
			{Pattern: "/notifications", Access: AccessApproved},
			{Pattern: "/pricing", Access: AccessApproved},
		},
		DefaultAccess: AccessAuthenticated,
	}
}
