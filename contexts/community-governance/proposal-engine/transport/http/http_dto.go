package httptransport

type CreatorDTO struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Reputation int    `json:"reputation"`
}

type ProposalDTO struct {
	ProposalID       string     `json:"proposal_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Type             string     `json:"type"`
	Options          []string   `json:"options"`
	Status           string     `json:"status"`
	Creator          CreatorDTO `json:"creator"`
	VotingPeriodDays int        `json:"voting_period_days"`
	EndDate          string     `json:"end_date"`
	CreatedAt        string     `json:"created_at"`
	VoteCounts       []int      `json:"vote_counts"`
	TotalVotes       int        `json:"total_votes"`
	UserVote         *int       `json:"user_vote,omitempty"`
}

type VoterDTO struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	VotedAt  string `json:"voted_at"`
}

type ProposalDetailDTO struct {
	ProposalDTO
	WeightedCounts []float64    `json:"weighted_counts"`
	VotersByOption [][]VoterDTO `json:"voters_by_option"`
}

type CreateProposalRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Type             string   `json:"type"`
	Options          []string `json:"options,omitempty"`
	VotingPeriodDays int      `json:"voting_period_days,omitempty"`
}

type CreateProposalResponse struct {
	Item ProposalDTO `json:"item"`
}

type ListProposalsResponse struct {
	Items      []ProposalDTO `json:"items"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalItems int64         `json:"total_items"`
}

type GetProposalResponse struct {
	Item ProposalDetailDTO `json:"item"`
}

type CastVoteRequest struct {
	Option int `json:"option"`
}

type CastVoteResponse struct {
	ProposalID string `json:"proposal_id"`
	VoterID    string `json:"voter_id"`
	Option     int    `json:"option"`
	Updated    bool   `json:"updated"`
}

type OverrideStatusRequest struct {
	Status string `json:"status"`
}

type OverrideStatusResponse struct {
	Item ProposalDTO `json:"item"`
}

type ResolveExpiredResponse struct {
	ResolvedCount int `json:"resolved_count"`
}

type StatsResponse struct {
	TotalProposals    int64   `json:"total_proposals"`
	ActiveProposals   int64   `json:"active_proposals"`
	PassedProposals   int64   `json:"passed_proposals"`
	RejectedProposals int64   `json:"rejected_proposals"`
	TotalVotes        int64   `json:"total_votes"`
	ParticipationRate float64 `json:"participation_rate"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
