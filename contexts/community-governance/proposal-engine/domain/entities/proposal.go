package entities

import "time"

type ProposalType string

const (
	ProposalTypePlatformParameter  ProposalType = "platform_parameter"
	ProposalTypeContentPolicy      ProposalType = "content_policy"
	ProposalTypeCommunityGuideline ProposalType = "community_guideline"
	ProposalTypeFeatureRequest     ProposalType = "feature_request"
)

func KnownProposalType(value ProposalType) bool {
	switch value {
	case ProposalTypePlatformParameter,
		ProposalTypeContentPolicy,
		ProposalTypeCommunityGuideline,
		ProposalTypeFeatureRequest:
		return true
	default:
		return false
	}
}

type ProposalStatus string

const (
	ProposalStatusActive    ProposalStatus = "active"
	ProposalStatusPassed    ProposalStatus = "passed"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusCancelled ProposalStatus = "cancelled"
)

// Terminal reports whether the status is an end state. Proposals never leave
// a terminal status.
func (s ProposalStatus) Terminal() bool {
	switch s {
	case ProposalStatusPassed, ProposalStatusRejected, ProposalStatusCancelled:
		return true
	default:
		return false
	}
}

func KnownProposalStatus(value ProposalStatus) bool {
	return value == ProposalStatusActive || value.Terminal()
}

type Proposal struct {
	ProposalID       string
	Title            string
	Description      string
	Type             ProposalType
	Options          []string
	Status           ProposalStatus
	CreatorID        string
	VotingPeriodDays int
	EndDate          time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired reports whether the voting window has elapsed. The window is closed
// strictly after EndDate, so a vote arriving exactly at EndDate still counts.
func (p Proposal) Expired(now time.Time) bool {
	return now.UTC().After(p.EndDate.UTC())
}

type Vote struct {
	VoteID     string
	ProposalID string
	VoterID    string
	Option     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Ballot is a vote joined with the voter identity/reputation read model. The
// reputation-derived weight is computed at tally time and never persisted.
type Ballot struct {
	Vote
	VoterUsername   string
	VoterReputation int
}

// MaxVoteWeight caps a single voter's weighted contribution so a high
// reputation account cannot dominate a tally unboundedly.
const MaxVoteWeight = 10.0

func (b Ballot) Weight() float64 {
	weight := float64(b.VoterReputation) / 100
	if weight > MaxVoteWeight {
		return MaxVoteWeight
	}
	return weight
}

// TallyResult aggregates a proposal's ballots. Counts and Weighted are dense:
// one entry per proposal option, zero-valued when no ballot selected it.
type TallyResult struct {
	Counts   []int
	Weighted []float64
	Total    int
	Choices  map[string]int
}

func (t TallyResult) UserVote(voterID string) (int, bool) {
	option, ok := t.Choices[voterID]
	return option, ok
}

type GovernanceStats struct {
	TotalProposals    int64
	ActiveProposals   int64
	PassedProposals   int64
	RejectedProposals int64
	TotalVotes        int64
	ParticipationRate float64
}

// ResolutionRun records one expiry sweep for the run-history log.
type ResolutionRun struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int
	Resolved   int
	Failed     int
}
