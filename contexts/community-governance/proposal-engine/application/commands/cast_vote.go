package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "san2stic/contexts/community-governance/proposal-engine/application"
	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	domainerrors "san2stic/contexts/community-governance/proposal-engine/domain/errors"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

type CastVoteCommand struct {
	ProposalID string
	VoterID    string
	Option     int
}

type CastVoteResult struct {
	Vote      entities.Vote
	WasUpdate bool
}

type CastVoteUseCase struct {
	Proposals   ports.ProposalRepository
	Users       ports.UserDirectory
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute records or replaces the caller's vote. One row per
// (proposal, voter): revoting keeps the original vote id and created_at and
// moves the option.
func (u CastVoteUseCase) Execute(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.ProposalID) == "" || strings.TrimSpace(cmd.VoterID) == "" {
		return CastVoteResult{}, domainerrors.ErrProposalNotFound
	}
	now := u.now()

	voter, err := u.Users.GetUser(ctx, cmd.VoterID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !voter.IsActive {
		return CastVoteResult{}, domainerrors.ErrUserNotFound
	}

	proposal, err := u.Proposals.GetProposal(ctx, cmd.ProposalID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if proposal.Status != entities.ProposalStatusActive {
		return CastVoteResult{}, domainerrors.ErrProposalNotActive
	}
	if proposal.Expired(now) {
		return CastVoteResult{}, domainerrors.ErrVotingPeriodEnded
	}
	if cmd.Option < 0 || cmd.Option >= len(proposal.Options) {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteOption
	}

	existing, found, err := u.Proposals.FindVote(ctx, cmd.ProposalID, cmd.VoterID)
	if err != nil {
		return CastVoteResult{}, err
	}
	vote := entities.Vote{
		ProposalID: cmd.ProposalID,
		VoterID:    cmd.VoterID,
		Option:     cmd.Option,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if found {
		vote.VoteID = existing.VoteID
		vote.CreatedAt = existing.CreatedAt
	} else {
		voteID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return CastVoteResult{}, err
		}
		vote.VoteID = voteID
	}

	if err := u.Proposals.SaveVote(ctx, vote); err != nil {
		logger.Error("cast vote failed on write",
			"event", "governance_vote_write_failed",
			"module", moduleName,
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"voter_id", cmd.VoterID,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	if err := appendGovernanceOutbox(ctx, u.Outbox, u.IDGenerator, voteCastEventType, cmd.ProposalID, now, voteCastPayload{
		ProposalID: cmd.ProposalID,
		VoterID:    cmd.VoterID,
		Option:     cmd.Option,
		Revote:     found,
	}); err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("vote cast",
		"event", "governance_vote_cast",
		"module", moduleName,
		"layer", "application",
		"proposal_id", cmd.ProposalID,
		"voter_id", cmd.VoterID,
		"option", cmd.Option,
		"revote", found,
	)
	return CastVoteResult{Vote: vote, WasUpdate: found}, nil
}

func (u CastVoteUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
