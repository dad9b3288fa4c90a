package postgresadapter

import (
	"encoding/json"
	"time"

	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	"san2stic/contexts/community-governance/proposal-engine/ports"
)

type proposalModel struct {
	ProposalID       string    `gorm:"column:proposal_id;primaryKey"`
	Title            string    `gorm:"column:title"`
	Description      string    `gorm:"column:description"`
	Type             string    `gorm:"column:type"`
	Options          string    `gorm:"column:options"`
	Status           string    `gorm:"column:status"`
	CreatorID        string    `gorm:"column:creator_id"`
	VotingPeriodDays int       `gorm:"column:voting_period_days"`
	EndDate          time.Time `gorm:"column:end_date"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (proposalModel) TableName() string {
	return "governance_proposals"
}

// Options are stored JSON-encoded in a text column; the list is small and
// only ever read back whole.
func proposalModelFromEntity(proposal entities.Proposal) (proposalModel, error) {
	options, err := json.Marshal(proposal.Options)
	if err != nil {
		return proposalModel{}, err
	}
	return proposalModel{
		ProposalID:       proposal.ProposalID,
		Title:            proposal.Title,
		Description:      proposal.Description,
		Type:             string(proposal.Type),
		Options:          string(options),
		Status:           string(proposal.Status),
		CreatorID:        proposal.CreatorID,
		VotingPeriodDays: proposal.VotingPeriodDays,
		EndDate:          proposal.EndDate.UTC(),
		CreatedAt:        proposal.CreatedAt.UTC(),
		UpdatedAt:        proposal.UpdatedAt.UTC(),
	}, nil
}

func (m proposalModel) toEntity() (entities.Proposal, error) {
	var options []string
	if m.Options != "" {
		if err := json.Unmarshal([]byte(m.Options), &options); err != nil {
			return entities.Proposal{}, err
		}
	}
	return entities.Proposal{
		ProposalID:       m.ProposalID,
		Title:            m.Title,
		Description:      m.Description,
		Type:             entities.ProposalType(m.Type),
		Options:          options,
		Status:           entities.ProposalStatus(m.Status),
		CreatorID:        m.CreatorID,
		VotingPeriodDays: m.VotingPeriodDays,
		EndDate:          m.EndDate.UTC(),
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}, nil
}

type voteModel struct {
	VoteID      string    `gorm:"column:vote_id;primaryKey"`
	ProposalID  string    `gorm:"column:proposal_id"`
	VoterID     string    `gorm:"column:voter_id"`
	OptionIndex int       `gorm:"column:option_index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "governance_votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	return voteModel{
		VoteID:      vote.VoteID,
		ProposalID:  vote.ProposalID,
		VoterID:     vote.VoterID,
		OptionIndex: vote.Option,
		CreatedAt:   vote.CreatedAt.UTC(),
		UpdatedAt:   vote.UpdatedAt.UTC(),
	}
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:     m.VoteID,
		ProposalID: m.ProposalID,
		VoterID:    m.VoterID,
		Option:     m.OptionIndex,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

// ballotRow is the scan target for the votes-to-users join.
type ballotRow struct {
	VoteID          string    `gorm:"column:vote_id"`
	ProposalID      string    `gorm:"column:proposal_id"`
	VoterID         string    `gorm:"column:voter_id"`
	OptionIndex     int       `gorm:"column:option_index"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
	VoterUsername   string    `gorm:"column:voter_username"`
	VoterReputation int       `gorm:"column:voter_reputation"`
}

func (m ballotRow) toEntity() entities.Ballot {
	return entities.Ballot{
		Vote: entities.Vote{
			VoteID:     m.VoteID,
			ProposalID: m.ProposalID,
			VoterID:    m.VoterID,
			Option:     m.OptionIndex,
			CreatedAt:  m.CreatedAt.UTC(),
			UpdatedAt:  m.UpdatedAt.UTC(),
		},
		VoterUsername:   m.VoterUsername,
		VoterReputation: m.VoterReputation,
	}
}

// userModel maps the identity-owned users table. This adapter only reads it.
type userModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	Username   string `gorm:"column:username"`
	Reputation int    `gorm:"column:reputation"`
	Role       string `gorm:"column:role"`
	IsActive   bool   `gorm:"column:is_active"`
}

func (userModel) TableName() string {
	return "users"
}

func (m userModel) toPort() ports.UserProfile {
	return ports.UserProfile{
		UserID:     m.ID,
		Username:   m.Username,
		Reputation: m.Reputation,
		Role:       m.Role,
		IsActive:   m.IsActive,
	}
}

type resolutionRunModel struct {
	RunID      string    `gorm:"column:run_id;primaryKey"`
	StartedAt  time.Time `gorm:"column:started_at"`
	FinishedAt time.Time `gorm:"column:finished_at"`
	Scanned    int       `gorm:"column:scanned"`
	Resolved   int       `gorm:"column:resolved"`
	Failed     int       `gorm:"column:failed"`
}

func (resolutionRunModel) TableName() string {
	return "governance_resolution_runs"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "governance_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}
