package ports

import (
	"context"
	"time"

	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	contractsv1 "san2stic/contracts/gen/events/v1"
)

// ProposalListFilter defines read-side filtering/pagination for proposals.
// Now is the reference instant for the "active" filter, which excludes
// proposals whose voting window already elapsed even if the status row has
// not been swept yet.
type ProposalListFilter struct {
	Status entities.ProposalStatus
	Now    time.Time
	Page   int
	Limit  int
}

// ProposalRepository owns proposal and vote persistence plus the aggregate
// counters backing the stats read model.
type ProposalRepository interface {
	CreateProposal(ctx context.Context, proposal entities.Proposal) error
	GetProposal(ctx context.Context, proposalID string) (entities.Proposal, error)
	ListProposals(ctx context.Context, filter ProposalListFilter) ([]entities.Proposal, int64, error)
	CountProposalsByCreatorSince(ctx context.Context, creatorID string, since time.Time) (int64, error)
	// TransitionProposalStatus applies a guarded status update and reports
	// whether the row actually moved. A false return with nil error means a
	// concurrent writer already transitioned the proposal.
	TransitionProposalStatus(
		ctx context.Context,
		proposalID string,
		from entities.ProposalStatus,
		to entities.ProposalStatus,
		updatedAt time.Time,
	) (bool, error)
	// SetProposalStatus force-writes a status regardless of the current value.
	SetProposalStatus(ctx context.Context, proposalID string, status entities.ProposalStatus, updatedAt time.Time) error
	// ListExpiredProposals returns active proposals whose end date is strictly
	// before now, oldest first.
	ListExpiredProposals(ctx context.Context, now time.Time, limit int) ([]entities.Proposal, error)

	FindVote(ctx context.Context, proposalID string, voterID string) (entities.Vote, bool, error)
	// SaveVote upserts on (proposal_id, voter_id) so revoting replaces the
	// prior choice instead of adding a row.
	SaveVote(ctx context.Context, vote entities.Vote) error
	ListBallots(ctx context.Context, proposalID string) ([]entities.Ballot, error)

	SaveResolutionRun(ctx context.Context, run entities.ResolutionRun) error

	CountProposals(ctx context.Context, status entities.ProposalStatus) (int64, error)
	CountVotes(ctx context.Context) (int64, error)
	CountDistinctVotersSince(ctx context.Context, since time.Time) (int64, error)
}

// UserProfile is the identity read model consumed by the gate and tally.
type UserProfile struct {
	UserID     string
	Username   string
	Reputation int
	Role       string
	IsActive   bool
}

// UserDirectory exposes read-only access to identity data owned elsewhere.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (UserProfile, error)
	CountActiveUsers(ctx context.Context) (int64, error)
}

// Clock allows deterministic testing of expiry/window rules.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts proposal/vote/event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxWriter appends integration events alongside the state change that
// produced them.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, message OutboxMessage) error
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
