package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	proposalengine "san2stic/contexts/community-governance/proposal-engine"
	governanceerrors "san2stic/contexts/community-governance/proposal-engine/domain/errors"
	governancehttp "san2stic/contexts/community-governance/proposal-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "san2stic/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	governance proposalengine.Module
}

func New(
	governance proposalengine.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		governance: governance,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the route mux for httptest-based integration tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/governance/proposals", s.handleCreateProposal)
	s.mux.HandleFunc("GET /api/governance/proposals", s.handleListProposals)
	s.mux.HandleFunc("POST /api/governance/proposals/resolve-expired", s.handleResolveExpired)
	s.mux.HandleFunc("GET /api/governance/proposals/{proposal_id}", s.handleGetProposal)
	s.mux.HandleFunc("POST /api/governance/proposals/{proposal_id}/vote", s.handleCastVote)
	s.mux.HandleFunc("PATCH /api/governance/proposals/{proposal_id}/status", s.handleOverrideStatus)
	s.mux.HandleFunc("GET /api/governance/stats", s.handleGetStats)
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req governancehttp.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.governance.Handler.CreateProposalHandler(r.Context(), userID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 0
	if raw := query.Get("page"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			writeGovernanceError(w, http.StatusBadRequest, "invalid_page", "page must be an integer")
			return
		}
		page = value
	}
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			writeGovernanceError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = value
	}

	resp, err := s.governance.Handler.ListProposalsHandler(
		r.Context(),
		r.Header.Get("X-User-Id"),
		query.Get("status"),
		page,
		limit,
	)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.GetProposalHandler(
		r.Context(),
		r.Header.Get("X-User-Id"),
		r.PathValue("proposal_id"),
	)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req governancehttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.governance.Handler.CastVoteHandler(r.Context(), userID, r.PathValue("proposal_id"), req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOverrideStatus(w http.ResponseWriter, r *http.Request) {
	adminID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(adminID) == "" {
		adminID = r.Header.Get("X-Admin-Id")
	}
	if strings.TrimSpace(adminID) == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req governancehttp.OverrideStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.governance.Handler.OverrideStatusHandler(r.Context(), adminID, r.PathValue("proposal_id"), req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveExpired(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(userID) == "" {
		userID = r.Header.Get("X-Admin-Id")
	}
	if strings.TrimSpace(userID) == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.governance.Handler.ResolveExpiredHandler(r.Context(), userID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.GetStatsHandler(r.Context())
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeGovernanceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, governanceerrors.ErrInvalidProposalInput):
		writeGovernanceError(w, http.StatusBadRequest, "invalid_proposal_input", err.Error())
	case errors.Is(err, governanceerrors.ErrInvalidStatusOverride):
		writeGovernanceError(w, http.StatusBadRequest, "invalid_status_override", err.Error())
	case errors.Is(err, governanceerrors.ErrInsufficientReputation):
		writeGovernanceError(w, http.StatusForbidden, "insufficient_reputation", err.Error())
	case errors.Is(err, governanceerrors.ErrAdminRequired):
		writeGovernanceError(w, http.StatusForbidden, "admin_required", err.Error())
	case errors.Is(err, governanceerrors.ErrProposalRateLimited):
		writeGovernanceError(w, http.StatusTooManyRequests, "proposal_rate_limited", err.Error())
	case errors.Is(err, governanceerrors.ErrProposalNotFound):
		writeGovernanceError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, governanceerrors.ErrUserNotFound):
		writeGovernanceError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, governanceerrors.ErrProposalNotActive):
		writeGovernanceError(w, http.StatusConflict, "proposal_not_active", err.Error())
	case errors.Is(err, governanceerrors.ErrVotingPeriodEnded):
		writeGovernanceError(w, http.StatusGone, "voting_period_ended", err.Error())
	case errors.Is(err, governanceerrors.ErrInvalidVoteOption):
		writeGovernanceError(w, http.StatusUnprocessableEntity, "invalid_vote_option", err.Error())
	default:
		writeGovernanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGovernanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, governancehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
