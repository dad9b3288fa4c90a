package queries

import (
	"context"
	"log/slog"
	"time"

	application "san2stic/contexts/community-governance/proposal-engine/application"
	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	"san2stic/contexts/community-governance/proposal-engine/domain/services"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

// VoterRef identifies one voter inside a per-option voter list.
type VoterRef struct {
	UserID   string
	Username string
	VotedAt  time.Time
}

type ProposalDetail struct {
	Proposal       entities.Proposal
	Creator        CreatorSummary
	VoteCounts     []int
	WeightedCounts []float64
	TotalVotes     int
	UserVote       *int
	VotersByOption [][]VoterRef
}

type GetProposalQuery struct {
	ProposalID string
	ViewerID   string
}

type GetProposalResult struct {
	Detail ProposalDetail
}

type GetProposalUseCase struct {
	Proposals ports.ProposalRepository
	Users     ports.UserDirectory
	Logger    *slog.Logger
}

func (u GetProposalUseCase) Execute(ctx context.Context, query GetProposalQuery) (GetProposalResult, error) {
	logger := application.ResolveLogger(u.Logger)

	proposal, err := u.Proposals.GetProposal(ctx, query.ProposalID)
	if err != nil {
		logger.Error("get proposal failed",
			"event", "governance_get_failed",
			"module", moduleName,
			"layer", "application",
			"proposal_id", query.ProposalID,
			"error", err.Error(),
		)
		return GetProposalResult{}, err
	}

	ballots, err := u.Proposals.ListBallots(ctx, query.ProposalID)
	if err != nil {
		return GetProposalResult{}, err
	}
	tally := services.Tally(proposal, ballots)

	voters := make([][]VoterRef, len(proposal.Options))
	for i := range voters {
		voters[i] = []VoterRef{}
	}
	for _, ballot := range ballots {
		if ballot.Option < 0 || ballot.Option >= len(voters) {
			continue
		}
		voters[ballot.Option] = append(voters[ballot.Option], VoterRef{
			UserID:   ballot.VoterID,
			Username: ballot.VoterUsername,
			VotedAt:  ballot.CreatedAt,
		})
	}

	detail := ProposalDetail{
		Proposal:       proposal,
		Creator:        resolveCreator(ctx, u.Users, proposal.CreatorID),
		VoteCounts:     tally.Counts,
		WeightedCounts: tally.Weighted,
		TotalVotes:     tally.Total,
		VotersByOption: voters,
	}
	if query.ViewerID != "" {
		if option, voted := tally.UserVote(query.ViewerID); voted {
			detail.UserVote = &option
		}
	}

	logger.Info("get proposal completed",
		"event", "governance_get_completed",
		"module", moduleName,
		"layer", "application",
		"proposal_id", query.ProposalID,
		"total_votes", tally.Total,
	)
	return GetProposalResult{Detail: detail}, nil
}
