package services

import "time"

const (
	DefaultMinReputation  = 500
	DefaultCreationWindow = 7 * 24 * time.Hour
)

// GateDecision carries the gate outcome plus a caller-facing denial reason.
type GateDecision struct {
	Allowed bool
	Reason  string
}

// ReputationGate decides whether a user identity is authorized to create a
// proposal. Pure decision function over the caller's reputation and proposal
// count inside the rolling window; no side effects.
type ReputationGate struct {
	MinReputation  int
	CreationWindow time.Duration
}

func (g ReputationGate) minReputation() int {
	if g.MinReputation <= 0 {
		return DefaultMinReputation
	}
	return g.MinReputation
}

// Window returns the rolling creation window used for rate limiting.
func (g ReputationGate) Window() time.Duration {
	if g.CreationWindow <= 0 {
		return DefaultCreationWindow
	}
	return g.CreationWindow
}

// CanCreateProposal allows one proposal per creator per rolling window, and
// only for users at or above the reputation floor.
func (g ReputationGate) CanCreateProposal(reputation int, recentProposals int64) GateDecision {
	if reputation < g.minReputation() {
		return GateDecision{Reason: "insufficient reputation"}
	}
	if recentProposals > 0 {
		return GateDecision{Reason: "rate limited"}
	}
	return GateDecision{Allowed: true}
}
