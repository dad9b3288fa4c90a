package proposalengine

import (
	"log/slog"

	httpadapter "san2stic/contexts/community-governance/proposal-engine/adapters/http"
	"san2stic/contexts/community-governance/proposal-engine/adapters/memory"
	"san2stic/contexts/community-governance/proposal-engine/application/commands"
	"san2stic/contexts/community-governance/proposal-engine/application/queries"
	"san2stic/contexts/community-governance/proposal-engine/application/workers"
	"san2stic/contexts/community-governance/proposal-engine/domain/services"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

// Module is the composition surface for the governance engine.
// Runtime wiring should consume Handler and Resolver; Store is exposed for
// tests/inspection.
type Module struct {
	Handler  httpadapter.Handler
	Resolver workers.ExpiryResolver
	Store    *memory.Store
}

type Dependencies struct {
	Proposals        ports.ProposalRepository
	Users            ports.UserDirectory
	Outbox           ports.OutboxWriter
	Clock            ports.Clock
	IDGenerator      ports.IDGenerator
	Gate             services.ReputationGate
	ResolveBatchSize int
	Logger           *slog.Logger
}

// NewModule wires governance use-cases against explicit ports.
func NewModule(deps Dependencies) Module {
	createProposal := commands.CreateProposalUseCase{
		Proposals:   deps.Proposals,
		Users:       deps.Users,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Gate:        deps.Gate,
		Logger:      deps.Logger,
	}
	castVote := commands.CastVoteUseCase{
		Proposals:   deps.Proposals,
		Users:       deps.Users,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	overrideStatus := commands.OverrideStatusUseCase{
		Proposals:   deps.Proposals,
		Users:       deps.Users,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	resolveProposal := commands.ResolveProposalUseCase{
		Proposals:   deps.Proposals,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	listProposals := queries.ListProposalsUseCase{
		Proposals: deps.Proposals,
		Users:     deps.Users,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	getProposal := queries.GetProposalUseCase{
		Proposals: deps.Proposals,
		Users:     deps.Users,
		Logger:    deps.Logger,
	}
	getStats := queries.GetStatsUseCase{
		Proposals: deps.Proposals,
		Users:     deps.Users,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	resolver := workers.ExpiryResolver{
		Proposals:   deps.Proposals,
		Resolver:    resolveProposal,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		BatchSize:   deps.ResolveBatchSize,
		Logger:      deps.Logger,
	}

	handler := httpadapter.Handler{
		CreateProposal: createProposal,
		CastVote:       castVote,
		OverrideStatus: overrideStatus,
		ListProposals:  listProposals,
		GetProposal:    getProposal,
		GetStats:       getStats,
		ExpirySweep:    resolver,
		Users:          deps.Users,
		Logger:         deps.Logger,
	}

	return Module{Handler: handler, Resolver: resolver}
}

// NewInMemoryModule wires the governance use cases against the in-memory
// store. Used by the local runtime path and HTTP-level tests.
func NewInMemoryModule(seedUsers []ports.UserProfile, logger *slog.Logger) Module {
	store := memory.NewStore(seedUsers, logger)
	module := NewModule(Dependencies{
		Proposals:   store,
		Users:       store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Gate:        services.ReputationGate{},
		Logger:      logger,
	})
	module.Store = store
	return module
}
