package workers

import (
	"context"
	"log/slog"
	"time"

	application "san2stic/contexts/community-governance/proposal-engine/application"
	"san2stic/contexts/community-governance/proposal-engine/application/commands"
	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

const moduleName = "community-governance/proposal-engine"

// ExpiryResolver sweeps active proposals whose voting window elapsed and
// settles each into passed or rejected. Re-entrant: overlapping sweeps race on
// the guarded status transition inside the resolve use case, so a proposal is
// settled exactly once.
type ExpiryResolver struct {
	Proposals   ports.ProposalRepository
	Resolver    commands.ResolveProposalUseCase
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	BatchSize   int
	Logger      *slog.Logger
}

// RunOnce performs one sweep and returns the number of proposals it resolved.
// A failure on one proposal is logged and skipped so the rest of the batch
// still settles; the run record carries the failure count.
func (r ExpiryResolver) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	startedAt := r.now()

	expired, err := r.Proposals.ListExpiredProposals(ctx, startedAt, limit)
	if err != nil {
		logger.Error("expiry sweep failed listing proposals",
			"event", "governance_expiry_list_failed",
			"module", moduleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}

	resolved := 0
	failed := 0
	for _, proposal := range expired {
		result, err := r.Resolver.Execute(ctx, proposal.ProposalID)
		if err != nil {
			failed++
			logger.Error("expiry sweep failed resolving proposal",
				"event", "governance_expiry_resolve_failed",
				"module", moduleName,
				"layer", "worker",
				"proposal_id", proposal.ProposalID,
				"error", err.Error(),
			)
			continue
		}
		if result.Changed {
			resolved++
		}
	}

	if err := r.recordRun(ctx, startedAt, len(expired), resolved, failed); err != nil {
		logger.Error("expiry sweep failed recording run",
			"event", "governance_expiry_record_failed",
			"module", moduleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return resolved, err
	}

	if len(expired) > 0 {
		logger.Info("expiry sweep completed",
			"event", "governance_expiry_completed",
			"module", moduleName,
			"layer", "worker",
			"scanned_count", len(expired),
			"resolved_count", resolved,
			"failed_count", failed,
		)
	}
	return resolved, nil
}

func (r ExpiryResolver) recordRun(ctx context.Context, startedAt time.Time, scanned, resolved, failed int) error {
	runID, err := r.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	return r.Proposals.SaveResolutionRun(ctx, entities.ResolutionRun{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: r.now(),
		Scanned:    scanned,
		Resolved:   resolved,
		Failed:     failed,
	})
}

func (r ExpiryResolver) now() time.Time {
	if r.Clock == nil {
		return time.Now().UTC()
	}
	return r.Clock.Now().UTC()
}
