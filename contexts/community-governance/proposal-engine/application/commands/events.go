package commands

import (
	"context"
	"encoding/json"
	"time"

	"san2stic/contexts/community-governance/proposal-engine/ports"
)

const (
	moduleName    = "community-governance/proposal-engine"
	sourceService = "proposal-engine"

	proposalCreatedEventType   = "proposal.created"
	voteCastEventType          = "vote.cast"
	proposalResolvedEventType  = "proposal.resolved"
	statusOverriddenEventType  = "proposal.status_overridden"
	proposalPartitionKeyPath   = "proposal_id"
	governanceEnvelopeSchemaV1 = 1
)

type proposalCreatedPayload struct {
	ProposalID       string    `json:"proposal_id"`
	CreatorID        string    `json:"creator_id"`
	Type             string    `json:"type"`
	Title            string    `json:"title"`
	VotingPeriodDays int       `json:"voting_period_days"`
	EndDate          time.Time `json:"end_date"`
}

type voteCastPayload struct {
	ProposalID string `json:"proposal_id"`
	VoterID    string `json:"voter_id"`
	Option     int    `json:"option"`
	Revote     bool   `json:"revote"`
}

type proposalResolvedPayload struct {
	ProposalID string `json:"proposal_id"`
	Status     string `json:"status"`
	TotalVotes int    `json:"total_votes"`
}

type statusOverriddenPayload struct {
	ProposalID string `json:"proposal_id"`
	AdminID    string `json:"admin_id"`
	From       string `json:"from"`
	To         string `json:"to"`
}

// appendGovernanceOutbox wraps the payload in the canonical envelope and
// persists it to the module outbox. The relay worker republishes envelopes
// verbatim, so the envelope is the wire format.
func appendGovernanceOutbox(
	ctx context.Context,
	outbox ports.OutboxWriter,
	idGen ports.IDGenerator,
	eventType string,
	proposalID string,
	occurredAt time.Time,
	payload any,
) error {
	if outbox == nil {
		return nil
	}
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	envelope := ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt,
		SourceService:    sourceService,
		SchemaVersion:    governanceEnvelopeSchemaV1,
		PartitionKeyPath: proposalPartitionKeyPath,
		PartitionKey:     proposalID,
		Data:             data,
	}
	encoded, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return outbox.AppendOutbox(ctx, ports.OutboxMessage{
		OutboxID:     eventID,
		EventType:    eventType,
		PartitionKey: proposalID,
		Payload:      encoded,
		CreatedAt:    occurredAt,
	})
}
