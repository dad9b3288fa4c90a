package queries

import (
	"context"
	"log/slog"
	"math"
	"time"

	application "san2stic/contexts/community-governance/proposal-engine/application"
	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

// participationWindow is the lookback used for the distinct-voter numerator.
const participationWindow = 30 * 24 * time.Hour

type GetStatsResult struct {
	Stats entities.GovernanceStats
}

type GetStatsUseCase struct {
	Proposals ports.ProposalRepository
	Users     ports.UserDirectory
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Execute assembles the governance dashboard aggregates. Participation rate is
// distinct voters over the last 30 days against currently active users,
// expressed as a percentage rounded to two decimals; zero active users yields
// zero rather than a division error.
func (u GetStatsUseCase) Execute(ctx context.Context) (GetStatsResult, error) {
	logger := application.ResolveLogger(u.Logger)
	now := u.now()

	stats := entities.GovernanceStats{}
	var err error
	if stats.TotalProposals, err = u.Proposals.CountProposals(ctx, ""); err != nil {
		return GetStatsResult{}, u.fail(logger, err)
	}
	if stats.ActiveProposals, err = u.Proposals.CountProposals(ctx, entities.ProposalStatusActive); err != nil {
		return GetStatsResult{}, u.fail(logger, err)
	}
	if stats.PassedProposals, err = u.Proposals.CountProposals(ctx, entities.ProposalStatusPassed); err != nil {
		return GetStatsResult{}, u.fail(logger, err)
	}
	if stats.RejectedProposals, err = u.Proposals.CountProposals(ctx, entities.ProposalStatusRejected); err != nil {
		return GetStatsResult{}, u.fail(logger, err)
	}
	if stats.TotalVotes, err = u.Proposals.CountVotes(ctx); err != nil {
		return GetStatsResult{}, u.fail(logger, err)
	}

	voters, err := u.Proposals.CountDistinctVotersSince(ctx, now.Add(-participationWindow))
	if err != nil {
		return GetStatsResult{}, u.fail(logger, err)
	}
	activeUsers, err := u.Users.CountActiveUsers(ctx)
	if err != nil {
		return GetStatsResult{}, u.fail(logger, err)
	}
	if activeUsers > 0 {
		rate := float64(voters) / float64(activeUsers) * 100
		stats.ParticipationRate = math.Round(rate*100) / 100
	}

	logger.Info("governance stats computed",
		"event", "governance_stats_completed",
		"module", moduleName,
		"layer", "application",
		"total_proposals", stats.TotalProposals,
		"total_votes", stats.TotalVotes,
		"participation_rate", stats.ParticipationRate,
	)
	return GetStatsResult{Stats: stats}, nil
}

func (u GetStatsUseCase) fail(logger *slog.Logger, err error) error {
	logger.Error("governance stats failed",
		"event", "governance_stats_failed",
		"module", moduleName,
		"layer", "application",
		"error", err.Error(),
	)
	return err
}

func (u GetStatsUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
