package workers

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"san2stic/contexts/community-governance/proposal-engine/adapters/memory"
	"san2stic/contexts/community-governance/proposal-engine/application/commands"
	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, time.May, 1, 6, 0, 0, 0, time.UTC)

func seedExpiredProposal(store *memory.Store, id string, endDate time.Time) {
	store.PutProposal(entities.Proposal{
		ProposalID:       id,
		Title:            "Expired proposal " + id,
		Description:      "seed",
		Type:             entities.ProposalTypeCommunityGuideline,
		Options:          []string{"For", "Against"},
		Status:           entities.ProposalStatusActive,
		CreatorID:        "alice",
		VotingPeriodDays: 7,
		EndDate:          endDate,
		CreatedAt:        endDate.Add(-7 * 24 * time.Hour),
		UpdatedAt:        endDate.Add(-7 * 24 * time.Hour),
	})
}

func newResolver(store *memory.Store) ExpiryResolver {
	clock := fixedClock{now: testNow}
	return ExpiryResolver{
		Proposals: store,
		Resolver: commands.ResolveProposalUseCase{
			Proposals:   store,
			Outbox:      store,
			Clock:       clock,
			IDGenerator: store,
		},
		Clock:       clock,
		IDGenerator: store,
	}
}

func TestExpiryResolverSettlesBatch(t *testing.T) {
	store := memory.NewStore(nil, nil)
	seedExpiredProposal(store, "prop-1", testNow.Add(-2*time.Hour))
	seedExpiredProposal(store, "prop-2", testNow.Add(-time.Hour))
	seedExpiredProposal(store, "still-open", testNow.Add(24*time.Hour))
	store.PutProposal(entities.Proposal{
		ProposalID: "already-done",
		Options:    []string{"For", "Against"},
		Status:     entities.ProposalStatusCancelled,
		EndDate:    testNow.Add(-time.Hour),
	})

	resolver := newResolver(store)
	resolved, err := resolver.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != 2 {
		t.Fatalf("expected 2 resolutions, got %d", resolved)
	}

	for _, id := range []string{"prop-1", "prop-2"} {
		proposal, err := store.GetProposal(context.Background(), id)
		if err != nil {
			t.Fatalf("read back %s failed: %v", id, err)
		}
		if !proposal.Status.Terminal() {
			t.Fatalf("expected %s settled, got %s", id, proposal.Status)
		}
	}
	open, err := store.GetProposal(context.Background(), "still-open")
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if open.Status != entities.ProposalStatusActive {
		t.Fatalf("open proposal must stay active, got %s", open.Status)
	}
}

func TestExpiryResolverRecordsRunHistory(t *testing.T) {
	store := memory.NewStore(nil, nil)
	seedExpiredProposal(store, "prop-1", testNow.Add(-time.Hour))

	resolver := newResolver(store)
	if _, err := resolver.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	runs := store.ResolutionRuns()
	if len(runs) != 1 {
		t.Fatalf("expected one run record, got %d", len(runs))
	}
	run := runs[0]
	if run.RunID == "" || run.Scanned != 1 || run.Resolved != 1 || run.Failed != 0 {
		t.Fatalf("unexpected run record %+v", run)
	}
	if !run.StartedAt.Equal(testNow) {
		t.Fatalf("expected run started at %s, got %s", testNow, run.StartedAt)
	}
}

func TestExpiryResolverRerunIsNoOp(t *testing.T) {
	store := memory.NewStore(nil, nil)
	seedExpiredProposal(store, "prop-1", testNow.Add(-time.Hour))
	resolver := newResolver(store)

	if _, err := resolver.RunOnce(context.Background()); err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	resolved, err := resolver.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if resolved != 0 {
		t.Fatalf("expected idle second sweep, got %d resolutions", resolved)
	}
	if runs := store.ResolutionRuns(); len(runs) != 2 || runs[1].Scanned != 0 {
		t.Fatalf("expected an empty second run record, got %+v", runs)
	}
}

type capturingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []ports.EventEnvelope
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, envelope ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, envelope)
	return nil
}

func TestOutboxRelayPublishesAndMarksSent(t *testing.T) {
	store := memory.NewStore(nil, nil)
	envelope := ports.EventEnvelope{
		EventID:       "evt-1",
		EventType:     "proposal.created",
		OccurredAt:    testNow,
		SourceService: "proposal-engine",
		SchemaVersion: 1,
		PartitionKey:  "prop-1",
		Data:          json.RawMessage(`{"proposal_id":"prop-1"}`),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := store.AppendOutbox(context.Background(), ports.OutboxMessage{
		OutboxID:     "evt-1",
		EventType:    "proposal.created",
		PartitionKey: "prop-1",
		Payload:      payload,
		CreatedAt:    testNow,
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	publisher := &capturingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: fixedClock{now: testNow}}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay cycle failed: %v", err)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.events))
	}
	if publisher.topics[0] != "governance.events" {
		t.Fatalf("expected default topic, got %s", publisher.topics[0])
	}
	if publisher.events[0].EventID != "evt-1" || publisher.events[0].EventType != "proposal.created" {
		t.Fatalf("unexpected envelope %+v", publisher.events[0])
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected drained outbox, got %d pending", len(pending))
	}

	// second cycle has nothing to send
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("idle relay cycle failed: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("idle cycle must not republish, got %d events", len(publisher.events))
	}
}
