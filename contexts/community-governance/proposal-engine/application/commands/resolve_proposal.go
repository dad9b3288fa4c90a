package commands

import (
	"context"
	"log/slog"
	"time"

	application "san2stic/contexts/community-governance/proposal-engine/application"
	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	"san2stic/contexts/community-governance/proposal-engine/domain/services"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

type ResolveProposalResult struct {
	Status  entities.ProposalStatus
	Changed bool
	Tally   entities.TallyResult
}

type ResolveProposalUseCase struct {
	Proposals   ports.ProposalRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute settles one expired proposal into its terminal outcome. Re-entrant:
// an already-terminal proposal, a still-open window, or a lost guarded
// transition all return Changed=false without touching the row.
func (u ResolveProposalUseCase) Execute(ctx context.Context, proposalID string) (ResolveProposalResult, error) {
	logger := application.ResolveLogger(u.Logger)
	now := u.now()

	proposal, err := u.Proposals.GetProposal(ctx, proposalID)
	if err != nil {
		return ResolveProposalResult{}, err
	}
	if proposal.Status != entities.ProposalStatusActive || !proposal.Expired(now) {
		return ResolveProposalResult{Status: proposal.Status}, nil
	}

	ballots, err := u.Proposals.ListBallots(ctx, proposalID)
	if err != nil {
		return ResolveProposalResult{}, err
	}
	tally := services.Tally(proposal, ballots)
	outcome := services.Outcome(proposal, tally)

	moved, err := u.Proposals.TransitionProposalStatus(ctx, proposalID, entities.ProposalStatusActive, outcome, now)
	if err != nil {
		logger.Error("proposal resolution failed on transition",
			"event", "governance_resolve_transition_failed",
			"module", moduleName,
			"layer", "application",
			"proposal_id", proposalID,
			"error", err.Error(),
		)
		return ResolveProposalResult{}, err
	}
	if !moved {
		// Another sweep or an admin override won the race.
		current, err := u.Proposals.GetProposal(ctx, proposalID)
		if err != nil {
			return ResolveProposalResult{}, err
		}
		return ResolveProposalResult{Status: current.Status, Tally: tally}, nil
	}

	if err := appendGovernanceOutbox(ctx, u.Outbox, u.IDGenerator, proposalResolvedEventType, proposalID, now, proposalResolvedPayload{
		ProposalID: proposalID,
		Status:     string(outcome),
		TotalVotes: tally.Total,
	}); err != nil {
		return ResolveProposalResult{}, err
	}

	logger.Info("proposal resolved",
		"event", "governance_proposal_resolved",
		"module", moduleName,
		"layer", "application",
		"proposal_id", proposalID,
		"status", outcome,
		"total_votes", tally.Total,
	)
	return ResolveProposalResult{Status: outcome, Changed: true, Tally: tally}, nil
}

func (u ResolveProposalUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
