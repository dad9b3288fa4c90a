package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "san2stic/contexts/community-governance/proposal-engine/application"
	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	domainerrors "san2stic/contexts/community-governance/proposal-engine/domain/errors"
	"san2stic/contexts/community-governance/proposal-engine/domain/services"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

const (
	titleMinLen       = 10
	titleMaxLen       = 100
	descriptionMinLen = 50
	descriptionMaxLen = 1000
	optionsMin        = 2
	optionsMax        = 5
	optionMaxLen      = 50
	votingPeriodMin   = 1
	votingPeriodMax   = 30

	defaultVotingPeriodDays = 7
)

func defaultOptions() []string {
	return []string{"For", "Against"}
}

type CreateProposalCommand struct {
	CreatorID        string
	Title            string
	Description      string
	Type             string
	Options          []string
	VotingPeriodDays int
}

type CreateProposalResult struct {
	Proposal entities.Proposal
}

type CreateProposalUseCase struct {
	Proposals   ports.ProposalRepository
	Users       ports.UserDirectory
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Gate        services.ReputationGate
	Logger      *slog.Logger
}

// Execute runs the creation workflow in this order:
// 1) payload validation
// 2) creator lookup
// 3) reputation gate (floor + rolling window rate limit)
// 4) proposal persistence + proposal.created outbox append.
func (u CreateProposalUseCase) Execute(ctx context.Context, cmd CreateProposalCommand) (CreateProposalResult, error) {
	logger := application.ResolveLogger(u.Logger)
	now := u.now()

	proposal, err := u.validate(cmd, now)
	if err != nil {
		return CreateProposalResult{}, err
	}

	creator, err := u.Users.GetUser(ctx, cmd.CreatorID)
	if err != nil {
		return CreateProposalResult{}, err
	}
	if !creator.IsActive {
		return CreateProposalResult{}, domainerrors.ErrUserNotFound
	}

	recent, err := u.Proposals.CountProposalsByCreatorSince(ctx, cmd.CreatorID, now.Add(-u.Gate.Window()))
	if err != nil {
		logger.Error("create proposal failed counting recent proposals",
			"event", "governance_create_count_failed",
			"module", moduleName,
			"layer", "application",
			"creator_id", cmd.CreatorID,
			"error", err.Error(),
		)
		return CreateProposalResult{}, err
	}
	decision := u.Gate.CanCreateProposal(creator.Reputation, recent)
	if !decision.Allowed {
		logger.Warn("create proposal denied by gate",
			"event", "governance_create_denied",
			"module", moduleName,
			"layer", "application",
			"creator_id", cmd.CreatorID,
			"reason", decision.Reason,
		)
		if decision.Reason == "rate limited" {
			return CreateProposalResult{}, domainerrors.ErrProposalRateLimited
		}
		return CreateProposalResult{}, domainerrors.ErrInsufficientReputation
	}

	proposalID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateProposalResult{}, err
	}
	proposal.ProposalID = proposalID

	if err := u.Proposals.CreateProposal(ctx, proposal); err != nil {
		logger.Error("create proposal failed on write",
			"event", "governance_create_write_failed",
			"module", moduleName,
			"layer", "application",
			"creator_id", cmd.CreatorID,
			"error", err.Error(),
		)
		return CreateProposalResult{}, err
	}

	if err := appendGovernanceOutbox(ctx, u.Outbox, u.IDGenerator, proposalCreatedEventType, proposal.ProposalID, now, proposalCreatedPayload{
		ProposalID:       proposal.ProposalID,
		CreatorID:        proposal.CreatorID,
		Type:             string(proposal.Type),
		Title:            proposal.Title,
		VotingPeriodDays: proposal.VotingPeriodDays,
		EndDate:          proposal.EndDate,
	}); err != nil {
		return CreateProposalResult{}, err
	}

	logger.Info("proposal created",
		"event", "governance_proposal_created",
		"module", moduleName,
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"creator_id", proposal.CreatorID,
		"type", proposal.Type,
		"voting_period_days", proposal.VotingPeriodDays,
	)
	return CreateProposalResult{Proposal: proposal}, nil
}

// validate normalizes the payload and returns the unsaved proposal. Field
// limits mirror the public API contract, so the messages name the field.
func (u CreateProposalUseCase) validate(cmd CreateProposalCommand, now time.Time) (entities.Proposal, error) {
	title := strings.TrimSpace(cmd.Title)
	description := strings.TrimSpace(cmd.Description)
	if strings.TrimSpace(cmd.CreatorID) == "" {
		return entities.Proposal{}, fmt.Errorf("%w: creator id is required", domainerrors.ErrInvalidProposalInput)
	}
	if len(title) < titleMinLen || len(title) > titleMaxLen {
		return entities.Proposal{}, fmt.Errorf("%w: title must be %d-%d characters", domainerrors.ErrInvalidProposalInput, titleMinLen, titleMaxLen)
	}
	if len(description) < descriptionMinLen || len(description) > descriptionMaxLen {
		return entities.Proposal{}, fmt.Errorf("%w: description must be %d-%d characters", domainerrors.ErrInvalidProposalInput, descriptionMinLen, descriptionMaxLen)
	}
	proposalType := entities.ProposalType(strings.TrimSpace(cmd.Type))
	if !entities.KnownProposalType(proposalType) {
		return entities.Proposal{}, fmt.Errorf("%w: unknown proposal type %q", domainerrors.ErrInvalidProposalInput, cmd.Type)
	}

	options := cmd.Options
	if len(options) == 0 {
		options = defaultOptions()
	}
	if len(options) < optionsMin || len(options) > optionsMax {
		return entities.Proposal{}, fmt.Errorf("%w: options must contain %d-%d entries", domainerrors.ErrInvalidProposalInput, optionsMin, optionsMax)
	}
	normalized := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, option := range options {
		option = strings.TrimSpace(option)
		if option == "" || len(option) > optionMaxLen {
			return entities.Proposal{}, fmt.Errorf("%w: each option must be 1-%d characters", domainerrors.ErrInvalidProposalInput, optionMaxLen)
		}
		if _, dup := seen[option]; dup {
			return entities.Proposal{}, fmt.Errorf("%w: options must be distinct", domainerrors.ErrInvalidProposalInput)
		}
		seen[option] = struct{}{}
		normalized = append(normalized, option)
	}

	days := cmd.VotingPeriodDays
	if days == 0 {
		days = defaultVotingPeriodDays
	}
	if days < votingPeriodMin || days > votingPeriodMax {
		return entities.Proposal{}, fmt.Errorf("%w: voting period must be %d-%d days", domainerrors.ErrInvalidProposalInput, votingPeriodMin, votingPeriodMax)
	}

	return entities.Proposal{
		Title:            title,
		Description:      description,
		Type:             proposalType,
		Options:          normalized,
		Status:           entities.ProposalStatusActive,
		CreatorID:        strings.TrimSpace(cmd.CreatorID),
		VotingPeriodDays: days,
		EndDate:          now.Add(time.Duration(days) * 24 * time.Hour),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (u CreateProposalUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
