// Package permission implements the rule-based allow/ask/deny gate
// (spec §4.5): an ordered PermissionPolicy, per-session runtime
// overrides in PermissionSession, and snapshot/restore for persistence.
package permission

import "strings"

// Decision is the outcome of evaluating a permission string.
type Decision string

// The three possible decisions.
const (
	Allow Decision = "allow"
	Ask   Decision = "ask"
	Deny  Decision = "deny"
)

// Rule matches a single permission pattern — either an exact string or
// a "*"-suffixed prefix — to a Decision. There is no regex support.
type Rule struct {
	Pattern  string
	Decision Decision
}

// matches reports whether the rule's pattern matches permission.
func (r Rule) matches(perm string) bool {
	if r.Pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(r.Pattern, "*"); ok {
		return strings.HasPrefix(perm, prefix)
	}
	return r.Pattern == perm
}

// Policy is an ordered sequence of Rules. The first matching rule
// wins; no match yields Allow.
type Policy struct {
	Rules []Rule
}

// NewPolicy builds a Policy from the given rules, evaluated in order.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{Rules: rules}
}

// Decide evaluates permission against the policy's rules in order.
func (p *Policy) Decide(permission string) Decision {
	if p == nil {
		return Allow
	}
	for _, rule := range p.Rules {
		if rule.matches(permission) {
			return rule.Decision
		}
	}
	return Allow
}
