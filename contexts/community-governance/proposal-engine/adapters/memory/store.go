package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	application "san2stic/contexts/community-governance/proposal-engine/application"
	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	domainerrors "san2stic/contexts/community-governance/proposal-engine/domain/errors"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

// Store is an in-memory adapter implementing the proposal-engine ports for
// local runtime and tests. It is not intended as production persistence.
type Store struct {
	mu          sync.RWMutex
	proposals   map[string]entities.Proposal
	votes       map[string]map[string]entities.Vote
	users       map[string]ports.UserProfile
	runs        []entities.ResolutionRun
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	outboxSent  map[string]time.Time
	sequence    uint64
	logger      *slog.Logger
}

var (
	_ ports.ProposalRepository = (*Store)(nil)
	_ ports.UserDirectory      = (*Store)(nil)
	_ ports.OutboxWriter       = (*Store)(nil)
	_ ports.OutboxRepository   = (*Store)(nil)
	_ ports.Clock              = (*Store)(nil)
	_ ports.IDGenerator        = (*Store)(nil)
)

// NewStore seeds the user directory and initializes proposal/vote state.
func NewStore(seedUsers []ports.UserProfile, logger *slog.Logger) *Store {
	userMap := make(map[string]ports.UserProfile, len(seedUsers))
	for _, user := range seedUsers {
		userMap[user.UserID] = user
	}
	return &Store{
		proposals:   make(map[string]entities.Proposal),
		votes:       make(map[string]map[string]entities.Vote),
		users:       userMap,
		outbox:      make(map[string]ports.OutboxMessage),
		outboxOrder: make([]string, 0),
		outboxSent:  make(map[string]time.Time),
		logger:      application.ResolveLogger(logger),
	}
}

func (s *Store) CreateProposal(_ context.Context, proposal entities.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.proposals[proposal.ProposalID]; exists {
		return fmt.Errorf("proposal %s already exists", proposal.ProposalID)
	}
	s.proposals[proposal.ProposalID] = cloneProposal(proposal)
	return nil
}

func (s *Store) GetProposal(_ context.Context, proposalID string) (entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	proposal, ok := s.proposals[proposalID]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	return cloneProposal(proposal), nil
}

func (s *Store) ListProposals(_ context.Context, filter ports.ProposalListFilter) ([]entities.Proposal, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]entities.Proposal, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		if filter.Status != "" && proposal.Status != filter.Status {
			continue
		}
		// The active filter hides rows whose window elapsed but whose
		// status has not been swept yet.
		if filter.Status == entities.ProposalStatusActive && proposal.Expired(filter.Now) {
			continue
		}
		filtered = append(filtered, cloneProposal(proposal))
	}
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ProposalID < filtered[j].ProposalID
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := int64(len(filtered))
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	start := (page - 1) * limit
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (s *Store) CountProposalsByCreatorSince(_ context.Context, creatorID string, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, proposal := range s.proposals {
		if proposal.CreatorID != creatorID {
			continue
		}
		if proposal.CreatedAt.UTC().Before(since.UTC()) {
			continue
		}
		count++
	}
	return count, nil
}

func (s *Store) TransitionProposalStatus(
	_ context.Context,
	proposalID string,
	from entities.ProposalStatus,
	to entities.ProposalStatus,
	updatedAt time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, ok := s.proposals[proposalID]
	if !ok {
		return false, domainerrors.ErrProposalNotFound
	}
	if proposal.Status != from {
		return false, nil
	}
	proposal.Status = to
	proposal.UpdatedAt = updatedAt.UTC()
	s.proposals[proposalID] = proposal
	return true, nil
}

func (s *Store) SetProposalStatus(_ context.Context, proposalID string, status entities.ProposalStatus, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, ok := s.proposals[proposalID]
	if !ok {
		return domainerrors.ErrProposalNotFound
	}
	proposal.Status = status
	proposal.UpdatedAt = updatedAt.UTC()
	s.proposals[proposalID] = proposal
	return nil
}

func (s *Store) ListExpiredProposals(_ context.Context, now time.Time, limit int) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	expired := make([]entities.Proposal, 0)
	for _, proposal := range s.proposals {
		if proposal.Status != entities.ProposalStatusActive {
			continue
		}
		if !proposal.Expired(now) {
			continue
		}
		expired = append(expired, cloneProposal(proposal))
	}
	sort.Slice(expired, func(i, j int) bool {
		if expired[i].EndDate.Equal(expired[j].EndDate) {
			return expired[i].ProposalID < expired[j].ProposalID
		}
		return expired[i].EndDate.Before(expired[j].EndDate)
	})
	if len(expired) > limit {
		expired = expired[:limit]
	}
	return expired, nil
}

func (s *Store) FindVote(_ context.Context, proposalID string, voterID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vote, ok := s.votes[proposalID][voterID]
	if !ok {
		return entities.Vote{}, false, nil
	}
	return vote, true, nil
}

func (s *Store) SaveVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byVoter, ok := s.votes[vote.ProposalID]
	if !ok {
		byVoter = make(map[string]entities.Vote)
		s.votes[vote.ProposalID] = byVoter
	}
	byVoter[vote.VoterID] = vote
	return nil
}

func (s *Store) ListBallots(_ context.Context, proposalID string) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ballots := make([]entities.Ballot, 0, len(s.votes[proposalID]))
	for _, vote := range s.votes[proposalID] {
		ballot := entities.Ballot{Vote: vote, VoterReputation: 100}
		if user, ok := s.users[vote.VoterID]; ok {
			ballot.VoterUsername = user.Username
			ballot.VoterReputation = user.Reputation
		}
		ballots = append(ballots, ballot)
	}
	sort.Slice(ballots, func(i, j int) bool {
		if ballots[i].UpdatedAt.Equal(ballots[j].UpdatedAt) {
			return ballots[i].VoterID < ballots[j].VoterID
		}
		return ballots[i].UpdatedAt.Before(ballots[j].UpdatedAt)
	})
	return ballots, nil
}

func (s *Store) SaveResolutionRun(_ context.Context, run entities.ResolutionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, run)
	return nil
}

func (s *Store) CountProposals(_ context.Context, status entities.ProposalStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if status == "" {
		return int64(len(s.proposals)), nil
	}
	var count int64
	for _, proposal := range s.proposals {
		if proposal.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountVotes(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, byVoter := range s.votes {
		count += int64(len(byVoter))
	}
	return count, nil
}

func (s *Store) CountDistinctVotersSince(_ context.Context, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	voters := make(map[string]struct{})
	for _, byVoter := range s.votes {
		for voterID, vote := range byVoter {
			// created_at, not updated_at: a revote keeps the original cast time
			if vote.CreatedAt.UTC().Before(since.UTC()) {
				continue
			}
			voters[voterID] = struct{}{}
		}
	}
	return int64(len(voters)), nil
}

func (s *Store) GetUser(_ context.Context, userID string) (ports.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return ports.UserProfile{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) CountActiveUsers(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, user := range s.users {
		if user.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *Store) AppendOutbox(_ context.Context, message ports.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.outbox[message.OutboxID]; exists {
		return fmt.Errorf("outbox message %s already exists", message.OutboxID)
	}
	s.outbox[message.OutboxID] = message
	s.outboxOrder = append(s.outboxOrder, message.OutboxID)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	messages := make([]ports.OutboxMessage, 0, limit)
	for _, id := range s.outboxOrder {
		if _, sent := s.outboxSent[id]; sent {
			continue
		}
		if msg, ok := s.outbox[id]; ok {
			messages = append(messages, msg)
		}
		if len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outbox[outboxID]; !ok {
		return fmt.Errorf("outbox message %s not found", outboxID)
	}
	s.outboxSent[outboxID] = sentAt.UTC()
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("gov-%d", value), nil
}

// SetUser upserts a directory entry. Test/demo seeding helper.
func (s *Store) SetUser(user ports.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.UserID] = user
}

// PutProposal force-writes a proposal row. Test/demo seeding helper.
func (s *Store) PutProposal(proposal entities.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.proposals[proposal.ProposalID] = cloneProposal(proposal)
}

// ResolutionRuns returns the recorded sweep history, oldest first.
func (s *Store) ResolutionRuns() []entities.ResolutionRun {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entities.ResolutionRun(nil), s.runs...)
}

// OutboxEvents returns every appended outbox row in append order.
func (s *Store) OutboxEvents() []ports.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]ports.OutboxMessage, 0, len(s.outboxOrder))
	for _, id := range s.outboxOrder {
		if evt, ok := s.outbox[id]; ok {
			events = append(events, evt)
		}
	}
	return events
}

func cloneProposal(proposal entities.Proposal) entities.Proposal {
	proposal.Options = append([]string(nil), proposal.Options...)
	return proposal
}
