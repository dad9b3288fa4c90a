package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "san2stic/contexts/community-governance/proposal-engine/application"
	"san2stic/contexts/community-governance/proposal-engine/application/commands"
	"san2stic/contexts/community-governance/proposal-engine/application/queries"
	"san2stic/contexts/community-governance/proposal-engine/application/workers"
	domainerrors "san2stic/contexts/community-governance/proposal-engine/domain/errors"
	"san2stic/contexts/community-governance/proposal-engine/ports"
	httptransport "san2stic/contexts/community-governance/proposal-engine/transport/http"
)

const timeLayout = "2006-01-02T15:04:05Z"

type Handler struct {
	CreateProposal commands.CreateProposalUseCase
	CastVote       commands.CastVoteUseCase
	OverrideStatus commands.OverrideStatusUseCase
	ListProposals  queries.ListProposalsUseCase
	GetProposal    queries.GetProposalUseCase
	GetStats       queries.GetStatsUseCase
	ExpirySweep    workers.ExpiryResolver
	Users          ports.UserDirectory
	Logger         *slog.Logger
}

// CreateProposalHandler godoc
// @Summary Create a governance proposal
// @Description Creates an active proposal for users above the reputation floor, one per rolling week.
// @Tags governance
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller user id"
// @Param request body httptransport.CreateProposalRequest true "Proposal payload"
// @Success 201 {object} httptransport.CreateProposalResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 429 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/governance/proposals [post]
func (h Handler) CreateProposalHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateProposalRequest,
) (httptransport.CreateProposalResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create proposal request received",
		"event", "http_governance_create_received",
		"module", "community-governance/proposal-engine",
		"layer", "transport",
		"user_id", userID,
	)

	result, err := h.CreateProposal.Execute(ctx, commands.CreateProposalCommand{
		CreatorID:        userID,
		Title:            req.Title,
		Description:      req.Description,
		Type:             req.Type,
		Options:          req.Options,
		VotingPeriodDays: req.VotingPeriodDays,
	})
	if err != nil {
		return httptransport.CreateProposalResponse{}, err
	}

	item := httptransport.ProposalDTO{
		ProposalID:       result.Proposal.ProposalID,
		Title:            result.Proposal.Title,
		Description:      result.Proposal.Description,
		Type:             string(result.Proposal.Type),
		Options:          result.Proposal.Options,
		Status:           string(result.Proposal.Status),
		Creator:          httptransport.CreatorDTO{UserID: result.Proposal.CreatorID},
		VotingPeriodDays: result.Proposal.VotingPeriodDays,
		EndDate:          formatTime(result.Proposal.EndDate),
		CreatedAt:        formatTime(result.Proposal.CreatedAt),
		VoteCounts:       make([]int, len(result.Proposal.Options)),
	}
	return httptransport.CreateProposalResponse{Item: item}, nil
}

// ListProposalsHandler godoc
// @Summary List governance proposals
// @Description Returns proposals newest first with vote counts; the active filter hides elapsed windows.
// @Tags governance
// @Accept json
// @Produce json
// @Param X-User-Id header string false "Caller user id (annotates own vote)"
// @Param status query string false "Status filter: active,passed,rejected,cancelled"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} httptransport.ListProposalsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/governance/proposals [get]
func (h Handler) ListProposalsHandler(
	ctx context.Context,
	viewerID string,
	status string,
	page int,
	limit int,
) (httptransport.ListProposalsResponse, error) {
	result, err := h.ListProposals.Execute(ctx, queries.ListProposalsQuery{
		Status:   status,
		Page:     page,
		Limit:    limit,
		ViewerID: viewerID,
	})
	if err != nil {
		return httptransport.ListProposalsResponse{}, err
	}

	items := make([]httptransport.ProposalDTO, 0, len(result.Items))
	for _, summary := range result.Items {
		items = append(items, mapSummary(summary))
	}
	return httptransport.ListProposalsResponse{
		Items:      items,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalItems,
	}, nil
}

// GetProposalHandler godoc
// @Summary Get one governance proposal
// @Description Returns proposal detail with tallies, weighted counts and per-option voters.
// @Tags governance
// @Accept json
// @Produce json
// @Param X-User-Id header string false "Caller user id (annotates own vote)"
// @Param proposal_id path string true "Proposal id"
// @Success 200 {object} httptransport.GetProposalResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/governance/proposals/{proposal_id} [get]
func (h Handler) GetProposalHandler(
	ctx context.Context,
	viewerID string,
	proposalID string,
) (httptransport.GetProposalResponse, error) {
	result, err := h.GetProposal.Execute(ctx, queries.GetProposalQuery{
		ProposalID: proposalID,
		ViewerID:   viewerID,
	})
	if err != nil {
		return httptransport.GetProposalResponse{}, err
	}

	detail := result.Detail
	voters := make([][]httptransport.VoterDTO, len(detail.VotersByOption))
	for i, option := range detail.VotersByOption {
		voters[i] = make([]httptransport.VoterDTO, 0, len(option))
		for _, voter := range option {
			voters[i] = append(voters[i], httptransport.VoterDTO{
				UserID:   voter.UserID,
				Username: voter.Username,
				VotedAt:  formatTime(voter.VotedAt),
			})
		}
	}
	return httptransport.GetProposalResponse{
		Item: httptransport.ProposalDetailDTO{
			ProposalDTO: mapSummary(queries.ProposalSummary{
				Proposal:   detail.Proposal,
				Creator:    detail.Creator,
				VoteCounts: detail.VoteCounts,
				TotalVotes: detail.TotalVotes,
				UserVote:   detail.UserVote,
			}),
			WeightedCounts: detail.WeightedCounts,
			VotersByOption: voters,
		},
	}, nil
}

// CastVoteHandler godoc
// @Summary Cast or change a vote
// @Description Records the caller's vote on an active proposal; revoting replaces the prior choice.
// @Tags governance
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller user id"
// @Param proposal_id path string true "Proposal id"
// @Param request body httptransport.CastVoteRequest true "Vote payload"
// @Success 200 {object} httptransport.CastVoteResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 410 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/governance/proposals/{proposal_id}/vote [post]
func (h Handler) CastVoteHandler(
	ctx context.Context,
	userID string,
	proposalID string,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.CastVote.Execute(ctx, commands.CastVoteCommand{
		ProposalID: proposalID,
		VoterID:    userID,
		Option:     req.Option,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		ProposalID: result.Vote.ProposalID,
		VoterID:    result.Vote.VoterID,
		Option:     result.Vote.Option,
		Updated:    result.WasUpdate,
	}, nil
}

// OverrideStatusHandler godoc
// @Summary Force a proposal status (admin)
// @Description Writes a terminal status on behalf of an administrator.
// @Tags governance
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Admin user id"
// @Param proposal_id path string true "Proposal id"
// @Param request body httptransport.OverrideStatusRequest true "Status payload"
// @Success 200 {object} httptransport.OverrideStatusResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/governance/proposals/{proposal_id}/status [patch]
func (h Handler) OverrideStatusHandler(
	ctx context.Context,
	adminID string,
	proposalID string,
	req httptransport.OverrideStatusRequest,
) (httptransport.OverrideStatusResponse, error) {
	result, err := h.OverrideStatus.Execute(ctx, commands.OverrideStatusCommand{
		ProposalID: proposalID,
		AdminID:    adminID,
		Status:     req.Status,
	})
	if err != nil {
		return httptransport.OverrideStatusResponse{}, err
	}
	proposal := result.Proposal
	return httptransport.OverrideStatusResponse{
		Item: httptransport.ProposalDTO{
			ProposalID:       proposal.ProposalID,
			Title:            proposal.Title,
			Description:      proposal.Description,
			Type:             string(proposal.Type),
			Options:          proposal.Options,
			Status:           string(proposal.Status),
			Creator:          httptransport.CreatorDTO{UserID: proposal.CreatorID},
			VotingPeriodDays: proposal.VotingPeriodDays,
			EndDate:          formatTime(proposal.EndDate),
			CreatedAt:        formatTime(proposal.CreatedAt),
			VoteCounts:       make([]int, len(proposal.Options)),
		},
	}, nil
}

// ResolveExpiredHandler godoc
// @Summary Resolve expired proposals (admin)
// @Description Runs one expiry sweep on demand and reports how many proposals settled.
// @Tags governance
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Admin user id"
// @Success 200 {object} httptransport.ResolveExpiredResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/governance/proposals/resolve-expired [post]
func (h Handler) ResolveExpiredHandler(ctx context.Context, adminID string) (httptransport.ResolveExpiredResponse, error) {
	admin, err := h.Users.GetUser(ctx, adminID)
	if err != nil {
		return httptransport.ResolveExpiredResponse{}, err
	}
	if !admin.IsActive || admin.Role != "admin" {
		return httptransport.ResolveExpiredResponse{}, domainerrors.ErrAdminRequired
	}

	resolved, err := h.ExpirySweep.RunOnce(ctx)
	if err != nil {
		return httptransport.ResolveExpiredResponse{}, err
	}
	return httptransport.ResolveExpiredResponse{ResolvedCount: resolved}, nil
}

// GetStatsHandler godoc
// @Summary Governance statistics
// @Description Returns proposal/vote aggregates and the 30-day participation rate.
// @Tags governance
// @Accept json
// @Produce json
// @Success 200 {object} httptransport.StatsResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/governance/stats [get]
func (h Handler) GetStatsHandler(ctx context.Context) (httptransport.StatsResponse, error) {
	result, err := h.GetStats.Execute(ctx)
	if err != nil {
		return httptransport.StatsResponse{}, err
	}
	stats := result.Stats
	return httptransport.StatsResponse{
		TotalProposals:    stats.TotalProposals,
		ActiveProposals:   stats.ActiveProposals,
		PassedProposals:   stats.PassedProposals,
		RejectedProposals: stats.RejectedProposals,
		TotalVotes:        stats.TotalVotes,
		ParticipationRate: stats.ParticipationRate,
	}, nil
}

func mapSummary(summary queries.ProposalSummary) httptransport.ProposalDTO {
	proposal := summary.Proposal
	return httptransport.ProposalDTO{
		ProposalID:  proposal.ProposalID,
		Title:       proposal.Title,
		Description: proposal.Description,
		Type:        string(proposal.Type),
		Options:     proposal.Options,
		Status:      string(proposal.Status),
		Creator: httptransport.CreatorDTO{
			UserID:     summary.Creator.UserID,
			Username:   summary.Creator.Username,
			Reputation: summary.Creator.Reputation,
		},
		VotingPeriodDays: proposal.VotingPeriodDays,
		EndDate:          formatTime(proposal.EndDate),
		CreatedAt:        formatTime(proposal.CreatedAt),
		VoteCounts:       summary.VoteCounts,
		TotalVotes:       summary.TotalVotes,
		UserVote:         summary.UserVote,
	}
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}
