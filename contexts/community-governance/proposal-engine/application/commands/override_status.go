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
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

const adminRole = "admin"

type OverrideStatusCommand struct {
	ProposalID string
	AdminID    string
	Status     string
}

type OverrideStatusResult struct {
	Proposal entities.Proposal
}

type OverrideStatusUseCase struct {
	Proposals   ports.ProposalRepository
	Users       ports.UserDirectory
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute force-writes a terminal status on behalf of an administrator.
// Moving a proposal back to active is rejected: terminal states never reopen.
func (u OverrideStatusUseCase) Execute(ctx context.Context, cmd OverrideStatusCommand) (OverrideStatusResult, error) {
	logger := application.ResolveLogger(u.Logger)
	now := u.now()

	target := entities.ProposalStatus(strings.TrimSpace(cmd.Status))
	if !entities.KnownProposalStatus(target) || !target.Terminal() {
		return OverrideStatusResult{}, fmt.Errorf("%w: %q", domainerrors.ErrInvalidStatusOverride, cmd.Status)
	}

	admin, err := u.Users.GetUser(ctx, cmd.AdminID)
	if err != nil {
		return OverrideStatusResult{}, err
	}
	if !admin.IsActive || admin.Role != adminRole {
		return OverrideStatusResult{}, domainerrors.ErrAdminRequired
	}

	proposal, err := u.Proposals.GetProposal(ctx, cmd.ProposalID)
	if err != nil {
		return OverrideStatusResult{}, err
	}
	previous := proposal.Status

	if err := u.Proposals.SetProposalStatus(ctx, cmd.ProposalID, target, now); err != nil {
		logger.Error("status override failed on write",
			"event", "governance_override_write_failed",
			"module", moduleName,
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"admin_id", cmd.AdminID,
			"error", err.Error(),
		)
		return OverrideStatusResult{}, err
	}
	proposal.Status = target
	proposal.UpdatedAt = now

	if err := appendGovernanceOutbox(ctx, u.Outbox, u.IDGenerator, statusOverriddenEventType, cmd.ProposalID, now, statusOverriddenPayload{
		ProposalID: cmd.ProposalID,
		AdminID:    cmd.AdminID,
		From:       string(previous),
		To:         string(target),
	}); err != nil {
		return OverrideStatusResult{}, err
	}

	logger.Info("proposal status overridden",
		"event", "governance_status_overridden",
		"module", moduleName,
		"layer", "application",
		"proposal_id", cmd.ProposalID,
		"admin_id", cmd.AdminID,
		"from", previous,
		"to", target,
	)
	return OverrideStatusResult{Proposal: proposal}, nil
}

func (u OverrideStatusUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
