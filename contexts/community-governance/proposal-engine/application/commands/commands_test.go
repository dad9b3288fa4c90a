package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"san2stic/contexts/community-governance/proposal-engine/adapters/memory"
	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	domainerrors "san2stic/contexts/community-governance/proposal-engine/domain/errors"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestStore() *memory.Store {
	return memory.NewStore([]ports.UserProfile{
		{UserID: "alice", Username: "alice", Reputation: 900, Role: "user", IsActive: true},
		{UserID: "bob", Username: "bob", Reputation: 250, Role: "user", IsActive: true},
		{UserID: "carol", Username: "carol", Reputation: 5000, Role: "user", IsActive: true},
		{UserID: "root", Username: "root", Reputation: 1200, Role: "admin", IsActive: true},
		{UserID: "ghost", Username: "ghost", Reputation: 800, Role: "user", IsActive: false},
	}, nil)
}

func validCreateCommand() CreateProposalCommand {
	return CreateProposalCommand{
		CreatorID:   "alice",
		Title:       "Raise the upload quality floor",
		Description: "Recordings below 128 kbps degrade the shared map experience and should be rejected at upload time.",
		Type:        string(entities.ProposalTypePlatformParameter),
	}
}

func newCreateUseCase(store *memory.Store) CreateProposalUseCase {
	return CreateProposalUseCase{
		Proposals:   store,
		Users:       store,
		Outbox:      store,
		Clock:       fixedClock{now: testNow},
		IDGenerator: store,
	}
}

func TestCreateProposalAppliesDefaults(t *testing.T) {
	store := newTestStore()
	useCase := newCreateUseCase(store)

	result, err := useCase.Execute(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proposal := result.Proposal
	if proposal.ProposalID == "" {
		t.Fatal("expected generated proposal id")
	}
	if proposal.Status != entities.ProposalStatusActive {
		t.Fatalf("expected active status, got %s", proposal.Status)
	}
	if len(proposal.Options) != 2 || proposal.Options[0] != "For" || proposal.Options[1] != "Against" {
		t.Fatalf("expected default For/Against options, got %v", proposal.Options)
	}
	if proposal.VotingPeriodDays != 7 {
		t.Fatalf("expected 7 day default period, got %d", proposal.VotingPeriodDays)
	}
	if want := testNow.Add(7 * 24 * time.Hour); !proposal.EndDate.Equal(want) {
		t.Fatalf("expected end date %s, got %s", want, proposal.EndDate)
	}

	events := store.OutboxEvents()
	if len(events) != 1 || events[0].EventType != "proposal.created" {
		t.Fatalf("expected one proposal.created outbox row, got %v", events)
	}
}

func TestCreateProposalRejectsBadInput(t *testing.T) {
	store := newTestStore()
	useCase := newCreateUseCase(store)

	cases := map[string]CreateProposalCommand{
		"short title": func() CreateProposalCommand {
			cmd := validCreateCommand()
			cmd.Title = "Too short"
			return cmd
		}(),
		"short description": func() CreateProposalCommand {
			cmd := validCreateCommand()
			cmd.Description = "not enough detail"
			return cmd
		}(),
		"unknown type": func() CreateProposalCommand {
			cmd := validCreateCommand()
			cmd.Type = "budget_change"
			return cmd
		}(),
		"duplicate options": func() CreateProposalCommand {
			cmd := validCreateCommand()
			cmd.Options = []string{"Yes", " Yes "}
			return cmd
		}(),
		"single option": func() CreateProposalCommand {
			cmd := validCreateCommand()
			cmd.Options = []string{"Only"}
			return cmd
		}(),
		"period too long": func() CreateProposalCommand {
			cmd := validCreateCommand()
			cmd.VotingPeriodDays = 45
			return cmd
		}(),
	}
	for name, cmd := range cases {
		if _, err := useCase.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInvalidProposalInput) {
			t.Fatalf("%s: expected invalid input error, got %v", name, err)
		}
	}
}

func TestCreateProposalEnforcesReputationFloor(t *testing.T) {
	store := newTestStore()
	useCase := newCreateUseCase(store)

	cmd := validCreateCommand()
	cmd.CreatorID = "bob"
	if _, err := useCase.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInsufficientReputation) {
		t.Fatalf("expected insufficient reputation error, got %v", err)
	}
}

func TestCreateProposalRateLimitsWindow(t *testing.T) {
	store := newTestStore()
	useCase := newCreateUseCase(store)

	if _, err := useCase.Execute(context.Background(), validCreateCommand()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := useCase.Execute(context.Background(), validCreateCommand()); !errors.Is(err, domainerrors.ErrProposalRateLimited) {
		t.Fatalf("expected rate limit error on second create, got %v", err)
	}
}

func TestCreateProposalRejectsInactiveCreator(t *testing.T) {
	store := newTestStore()
	useCase := newCreateUseCase(store)

	cmd := validCreateCommand()
	cmd.CreatorID = "ghost"
	if _, err := useCase.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected user not found for inactive creator, got %v", err)
	}
}

func seedActiveProposal(store *memory.Store, proposalID string, endDate time.Time) {
	store.PutProposal(entities.Proposal{
		ProposalID:       proposalID,
		Title:            "Seeded proposal for voting",
		Description:      "seed",
		Type:             entities.ProposalTypeContentPolicy,
		Options:          []string{"For", "Against"},
		Status:           entities.ProposalStatusActive,
		CreatorID:        "alice",
		VotingPeriodDays: 7,
		EndDate:          endDate,
		CreatedAt:        testNow.Add(-24 * time.Hour),
		UpdatedAt:        testNow.Add(-24 * time.Hour),
	})
}

func newVoteUseCase(store *memory.Store) CastVoteUseCase {
	return CastVoteUseCase{
		Proposals:   store,
		Users:       store,
		Outbox:      store,
		Clock:       fixedClock{now: testNow},
		IDGenerator: store,
	}
}

func TestCastVoteRecordsBallot(t *testing.T) {
	store := newTestStore()
	seedActiveProposal(store, "prop-1", testNow.Add(48*time.Hour))
	useCase := newVoteUseCase(store)

	result, err := useCase.Execute(context.Background(), CastVoteCommand{ProposalID: "prop-1", VoterID: "bob", Option: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WasUpdate {
		t.Fatal("first vote must not be an update")
	}
	if result.Vote.Option != 1 || result.Vote.VoteID == "" {
		t.Fatalf("unexpected vote %+v", result.Vote)
	}
}

func TestCastVoteRevoteKeepsIdentity(t *testing.T) {
	store := newTestStore()
	seedActiveProposal(store, "prop-1", testNow.Add(48*time.Hour))
	useCase := newVoteUseCase(store)

	first, err := useCase.Execute(context.Background(), CastVoteCommand{ProposalID: "prop-1", VoterID: "bob", Option: 0})
	if err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	second, err := useCase.Execute(context.Background(), CastVoteCommand{ProposalID: "prop-1", VoterID: "bob", Option: 1})
	if err != nil {
		t.Fatalf("revote failed: %v", err)
	}
	if !second.WasUpdate {
		t.Fatal("expected revote to report an update")
	}
	if second.Vote.VoteID != first.Vote.VoteID {
		t.Fatalf("revote must keep the vote id, got %s vs %s", second.Vote.VoteID, first.Vote.VoteID)
	}
	if !second.Vote.CreatedAt.Equal(first.Vote.CreatedAt) {
		t.Fatal("revote must keep created_at")
	}
	total, err := store.CountVotes(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected a single vote row after revote, got %d", total)
	}
}

func TestCastVoteGuards(t *testing.T) {
	store := newTestStore()
	seedActiveProposal(store, "open", testNow.Add(48*time.Hour))
	seedActiveProposal(store, "expired", testNow.Add(-time.Hour))
	store.PutProposal(entities.Proposal{
		ProposalID: "settled",
		Options:    []string{"For", "Against"},
		Status:     entities.ProposalStatusPassed,
		EndDate:    testNow.Add(-time.Hour),
	})
	useCase := newVoteUseCase(store)

	cases := []struct {
		name string
		cmd  CastVoteCommand
		want error
	}{
		{"missing proposal", CastVoteCommand{ProposalID: "nope", VoterID: "bob", Option: 0}, domainerrors.ErrProposalNotFound},
		{"blank proposal id", CastVoteCommand{ProposalID: "  ", VoterID: "bob", Option: 0}, domainerrors.ErrProposalNotFound},
		{"unknown voter", CastVoteCommand{ProposalID: "open", VoterID: "nobody", Option: 0}, domainerrors.ErrUserNotFound},
		{"inactive voter", CastVoteCommand{ProposalID: "open", VoterID: "ghost", Option: 0}, domainerrors.ErrUserNotFound},
		{"terminal proposal", CastVoteCommand{ProposalID: "settled", VoterID: "bob", Option: 0}, domainerrors.ErrProposalNotActive},
		{"closed window", CastVoteCommand{ProposalID: "expired", VoterID: "bob", Option: 0}, domainerrors.ErrVotingPeriodEnded},
		{"option too high", CastVoteCommand{ProposalID: "open", VoterID: "bob", Option: 2}, domainerrors.ErrInvalidVoteOption},
		{"option negative", CastVoteCommand{ProposalID: "open", VoterID: "bob", Option: -1}, domainerrors.ErrInvalidVoteOption},
	}
	for _, tc := range cases {
		if _, err := useCase.Execute(context.Background(), tc.cmd); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func newResolveUseCase(store *memory.Store) ResolveProposalUseCase {
	return ResolveProposalUseCase{
		Proposals:   store,
		Outbox:      store,
		Clock:       fixedClock{now: testNow},
		IDGenerator: store,
	}
}

func TestResolveProposalSettlesMajority(t *testing.T) {
	store := newTestStore()
	seedActiveProposal(store, "prop-1", testNow.Add(-time.Minute))

	voteTime := testNow.Add(-2 * time.Hour)
	store.SetUser(ports.UserProfile{UserID: "dave", Username: "dave", Reputation: 100, IsActive: true})
	castBallots := []struct {
		voter  string
		option int
	}{
		{"alice", 0}, {"bob", 0}, {"carol", 0}, {"dave", 1},
	}
	for _, b := range castBallots {
		// SaveVote directly: the voting window is already closed.
		if err := store.SaveVote(context.Background(), entities.Vote{
			VoteID:     "vote-" + b.voter,
			ProposalID: "prop-1",
			VoterID:    b.voter,
			Option:     b.option,
			CreatedAt:  voteTime,
			UpdatedAt:  voteTime,
		}); err != nil {
			t.Fatalf("seed vote failed: %v", err)
		}
	}

	useCase := newResolveUseCase(store)
	result, err := useCase.Execute(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Changed || result.Status != entities.ProposalStatusPassed {
		t.Fatalf("expected passed with Changed=true, got %+v", result)
	}
	if result.Tally.Total != 4 || result.Tally.Counts[0] != 3 {
		t.Fatalf("unexpected tally %+v", result.Tally)
	}

	stored, err := store.GetProposal(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if stored.Status != entities.ProposalStatusPassed {
		t.Fatalf("expected stored status passed, got %s", stored.Status)
	}
}

func TestResolveProposalIsIdempotent(t *testing.T) {
	store := newTestStore()
	seedActiveProposal(store, "prop-1", testNow.Add(-time.Minute))
	useCase := newResolveUseCase(store)

	first, err := useCase.Execute(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	if !first.Changed || first.Status != entities.ProposalStatusRejected {
		t.Fatalf("expected zero-vote proposal to reject, got %+v", first)
	}

	second, err := useCase.Execute(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if second.Changed {
		t.Fatal("second resolve must be a no-op")
	}
	if second.Status != entities.ProposalStatusRejected {
		t.Fatalf("expected stable rejected status, got %s", second.Status)
	}
}

func TestResolveProposalSkipsOpenWindow(t *testing.T) {
	store := newTestStore()
	seedActiveProposal(store, "prop-1", testNow.Add(48*time.Hour))
	useCase := newResolveUseCase(store)

	result, err := useCase.Execute(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Changed || result.Status != entities.ProposalStatusActive {
		t.Fatalf("expected untouched active proposal, got %+v", result)
	}
}

func newOverrideUseCase(store *memory.Store) OverrideStatusUseCase {
	return OverrideStatusUseCase{
		Proposals:   store,
		Users:       store,
		Outbox:      store,
		Clock:       fixedClock{now: testNow},
		IDGenerator: store,
	}
}

func TestOverrideStatusRequiresAdmin(t *testing.T) {
	store := newTestStore()
	seedActiveProposal(store, "prop-1", testNow.Add(48*time.Hour))
	useCase := newOverrideUseCase(store)

	cmd := OverrideStatusCommand{ProposalID: "prop-1", AdminID: "alice", Status: "cancelled"}
	if _, err := useCase.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrAdminRequired) {
		t.Fatalf("expected admin required error, got %v", err)
	}
}

func TestOverrideStatusRejectsNonTerminalTarget(t *testing.T) {
	store := newTestStore()
	seedActiveProposal(store, "prop-1", testNow.Add(48*time.Hour))
	useCase := newOverrideUseCase(store)

	for _, status := range []string{"active", "archived", ""} {
		cmd := OverrideStatusCommand{ProposalID: "prop-1", AdminID: "root", Status: status}
		if _, err := useCase.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInvalidStatusOverride) {
			t.Fatalf("status %q: expected invalid override error, got %v", status, err)
		}
	}
}

func TestOverrideStatusCancelsProposal(t *testing.T) {
	store := newTestStore()
	seedActiveProposal(store, "prop-1", testNow.Add(48*time.Hour))
	useCase := newOverrideUseCase(store)

	result, err := useCase.Execute(context.Background(), OverrideStatusCommand{ProposalID: "prop-1", AdminID: "root", Status: "cancelled"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Proposal.Status != entities.ProposalStatusCancelled {
		t.Fatalf("expected cancelled, got %s", result.Proposal.Status)
	}

	stored, err := store.GetProposal(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if stored.Status != entities.ProposalStatusCancelled {
		t.Fatalf("expected stored cancelled status, got %s", stored.Status)
	}
	events := store.OutboxEvents()
	if len(events) != 1 || events[0].EventType != "proposal.status_overridden" {
		t.Fatalf("expected a status_overridden outbox row, got %v", events)
	}
}
