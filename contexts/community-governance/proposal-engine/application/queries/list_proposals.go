package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "san2stic/contexts/community-governance/proposal-engine/application"
	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	domainerrors "san2stic/contexts/community-governance/proposal-engine/domain/errors"
	"san2stic/contexts/community-governance/proposal-engine/domain/services"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

const moduleName = "community-governance/proposal-engine"

// CreatorSummary is the embedded author projection on list/detail reads.
type CreatorSummary struct {
	UserID     string
	Username   string
	Reputation int
}

type ProposalSummary struct {
	Proposal   entities.Proposal
	Creator    CreatorSummary
	VoteCounts []int
	TotalVotes int
	UserVote   *int
}

type ListProposalsQuery struct {
	Status string
	Page   int
	Limit  int
	// ViewerID, when set, annotates each item with the viewer's own vote.
	ViewerID string
}

type ListProposalsResult struct {
	Items      []ProposalSummary
	Page       int
	Limit      int
	TotalItems int64
}

type ListProposalsUseCase struct {
	Proposals ports.ProposalRepository
	Users     ports.UserDirectory
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Execute lists proposals newest first. The "active" filter excludes rows
// whose voting window elapsed but whose status has not been swept yet.
func (u ListProposalsUseCase) Execute(ctx context.Context, query ListProposalsQuery) (ListProposalsResult, error) {
	logger := application.ResolveLogger(u.Logger)

	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	status := entities.ProposalStatus(strings.TrimSpace(query.Status))
	if status != "" && !entities.KnownProposalStatus(status) {
		return ListProposalsResult{}, domainerrors.ErrInvalidProposalInput
	}

	proposals, total, err := u.Proposals.ListProposals(ctx, ports.ProposalListFilter{
		Status: status,
		Now:    u.now(),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		logger.Error("list proposals failed",
			"event", "governance_list_failed",
			"module", moduleName,
			"layer", "application",
			"error", err.Error(),
		)
		return ListProposalsResult{}, err
	}

	items := make([]ProposalSummary, 0, len(proposals))
	for _, proposal := range proposals {
		summary, err := u.summarize(ctx, proposal, query.ViewerID)
		if err != nil {
			return ListProposalsResult{}, err
		}
		items = append(items, summary)
	}

	logger.Info("list proposals completed",
		"event", "governance_list_completed",
		"module", moduleName,
		"layer", "application",
		"status", status,
		"page", page,
		"items_count", len(items),
		"total_items", total,
	)
	return ListProposalsResult{Items: items, Page: page, Limit: limit, TotalItems: total}, nil
}

func (u ListProposalsUseCase) summarize(ctx context.Context, proposal entities.Proposal, viewerID string) (ProposalSummary, error) {
	ballots, err := u.Proposals.ListBallots(ctx, proposal.ProposalID)
	if err != nil {
		return ProposalSummary{}, err
	}
	tally := services.Tally(proposal, ballots)

	summary := ProposalSummary{
		Proposal:   proposal,
		Creator:    resolveCreator(ctx, u.Users, proposal.CreatorID),
		VoteCounts: tally.Counts,
		TotalVotes: tally.Total,
	}
	if viewerID != "" {
		if option, voted := tally.UserVote(viewerID); voted {
			summary.UserVote = &option
		}
	}
	return summary, nil
}

// resolveCreator tolerates a missing author row: governance reads must not
// fail because an account was deleted after posting.
func resolveCreator(ctx context.Context, users ports.UserDirectory, creatorID string) CreatorSummary {
	profile, err := users.GetUser(ctx, creatorID)
	if err != nil {
		return CreatorSummary{UserID: creatorID}
	}
	return CreatorSummary{
		UserID:     profile.UserID,
		Username:   profile.Username,
		Reputation: profile.Reputation,
	}
}

func (u ListProposalsUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
