package permission

import (
	"sync"

	"github.com/blueberrycongee/forge/fault"
)

var errMalformedResumeValue = fault.Other("malformed resume value")

// Reply is the caller's answer to a permission prompt.
type Reply string

// The three legal replies (spec §3).
const (
	ReplyOnce   Reply = "once"
	ReplyAlways Reply = "always"
	ReplyReject Reply = "reject"
)

// Request is the structured payload carried by a permission interrupt
// (spec §6: "pending_interrupts[i].value for a permission interrupt
// must be a PermissionRequest").
type Request struct {
	Permission string
	Tool       string
	CallID     string
	Input      any
}

// Session holds a base Policy plus the three runtime override sets a
// single run accumulates. Overrides take precedence over the base
// policy in this order: reject beats always beats once beats policy
// (spec §3, Invariant). Once is consumed on first matching check.
type Session struct {
	mu     sync.Mutex
	policy *Policy
	once   map[string]bool
	always map[string]bool
	reject map[string]bool
}

// NewSession creates a Session over the given base policy.
func NewSession(policy *Policy) *Session {
	return &Session{
		policy: policy,
		once:   make(map[string]bool),
		always: make(map[string]bool),
		reject: make(map[string]bool),
	}
}

// Decide resolves a permission string to a Decision, consulting
// overrides before the base policy (spec §4.5).
func (s *Session) Decide(permission string) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reject[permission] {
		return Deny
	}
	if s.always[permission] {
		return Allow
	}
	if s.once[permission] {
		delete(s.once, permission)
		return Allow
	}
	return s.policy.Decide(permission)
}

// ApplyReply records a reply against the matching override set.
func (s *Session) ApplyReply(permission string, reply Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch reply {
	case ReplyOnce:
		s.once[permission] = true
	case ReplyAlways:
		s.always[permission] = true
	case ReplyReject:
		s.reject[permission] = true
	}
}

// ResumeValue is the structured shape a resume command carries to
// answer a pending permission interrupt.
type ResumeValue struct {
	Permission string
	Reply      Reply
}

// ApplyResume parses and applies a resume value, failing with a
// malformed-value error rather than guessing the intended reply (spec
// §9, "Reply parsing").
func (s *Session) ApplyResume(value ResumeValue) error {
	switch value.Reply {
	case ReplyOnce, ReplyAlways, ReplyReject:
	default:
		return errMalformedResumeValue
	}
	if value.Permission == "" {
		return errMalformedResumeValue
	}
	s.ApplyReply(value.Permission, value.Reply)
	return nil
}

// Snapshot is the serializable form of a Session's three override
// sets.
type Snapshot struct {
	Once   []string `json:"once"`
	Always []string `json:"always"`
	Reject []string `json:"reject"`
}

// Snapshot captures the current override sets.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Once:   keys(s.once),
		Always: keys(s.always),
		Reject: keys(s.reject),
	}
}

// Restore builds a fresh Session over base carrying snap's overrides.
// Restoring to a fresh session with the same base policy yields
// identical decisions to the session the snapshot was taken from
// (spec §8, P4).
func Restore(snap Snapshot, base *Policy) *Session {
	s := NewSession(base)
	for _, p := range snap.Once {
		s.once[p] = true
	}
	for _, p := range snap.Always {
		s.always[p] = true
	}
	for _, p := range snap.Reject {
		s.reject[p] = true
	}
	return s
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
