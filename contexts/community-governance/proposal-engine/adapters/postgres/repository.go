package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
	domainerrors "san2stic/contexts/community-governance/proposal-engine/domain/errors"
	"san2stic/contexts/community-governance/proposal-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"

	// fallbackReputation matches the identity service default for accounts
	// whose directory row is missing.
	fallbackReputation = 100
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var (
	_ ports.ProposalRepository = (*Repository)(nil)
	_ ports.UserDirectory      = (*Repository)(nil)
	_ ports.OutboxWriter       = (*Repository)(nil)
	_ ports.OutboxRepository   = (*Repository)(nil)
)

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateProposal(ctx context.Context, proposal entities.Proposal) error {
	row, err := proposalModelFromEntity(proposal)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidProposalInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetProposal(ctx context.Context, proposalID string) (entities.Proposal, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrProposalNotFound
		}
		return entities.Proposal{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListProposals(ctx context.Context, filter ports.ProposalListFilter) ([]entities.Proposal, int64, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	tx := r.db.WithContext(ctx).Model(&proposalModel{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.Status == entities.ProposalStatusActive {
		// Rows past their window but not yet swept are not "active" reads.
		tx = tx.Where("end_date > ?", filter.Now.UTC())
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []proposalModel
	if err := tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "proposal_id"}, Desc: false}).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, 0, err
	}

	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (r *Repository) CountProposalsByCreatorSince(ctx context.Context, creatorID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&proposalModel{}).
		Where("creator_id = ? AND created_at >= ?", creatorID, since.UTC()).
		Count(&count).
		Error
	return count, err
}

func (r *Repository) TransitionProposalStatus(
	ctx context.Context,
	proposalID string,
	from entities.ProposalStatus,
	to entities.ProposalStatus,
	updatedAt time.Time,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&proposalModel{}).
		Where("proposal_id = ? AND status = ?", proposalID, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) SetProposalStatus(ctx context.Context, proposalID string, status entities.ProposalStatus, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&proposalModel{}).
		Where("proposal_id = ?", proposalID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProposalNotFound
	}
	return nil
}

func (r *Repository) ListExpiredProposals(ctx context.Context, now time.Time, limit int) ([]entities.Proposal, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []proposalModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", string(entities.ProposalStatusActive), now.UTC()).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "end_date"}, Desc: false}).
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) FindVote(ctx context.Context, proposalID string, voterID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ? AND voter_id = ?", proposalID, voterID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveVote(ctx context.Context, vote entities.Vote) error {
	row := voteModelFromEntity(vote)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "proposal_id"}, {Name: "voter_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"option_index", "updated_at"}),
		}).
		Create(&row).
		Error
	if err != nil && isUniqueViolation(err) {
		// Conflict on vote_id rather than the voter key; the caller reused an id.
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return err
}

func (r *Repository) ListBallots(ctx context.Context, proposalID string) ([]entities.Ballot, error) {
	var rows []ballotRow
	err := r.db.WithContext(ctx).
		Raw(`SELECT v.vote_id, v.proposal_id, v.voter_id, v.option_index, v.created_at, v.updated_at,
		            COALESCE(u.username, '') AS voter_username,
		            COALESCE(u.reputation, ?) AS voter_reputation
		     FROM governance_votes v
		     LEFT JOIN users u ON u.id = v.voter_id
		     WHERE v.proposal_id = ?
		     ORDER BY v.updated_at ASC, v.voter_id ASC`, fallbackReputation, proposalID).
		Scan(&rows).
		Error
	if err != nil {
		if !isUndefinedTable(err) {
			return nil, err
		}
		// Deploys without the identity schema still tally with default weight.
		return r.listBallotsWithoutDirectory(ctx, proposalID)
	}

	ballots := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		ballots = append(ballots, row.toEntity())
	}
	return ballots, nil
}

func (r *Repository) listBallotsWithoutDirectory(ctx context.Context, proposalID string) ([]entities.Ballot, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("updated_at ASC, voter_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	ballots := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		ballots = append(ballots, entities.Ballot{
			Vote:            row.toEntity(),
			VoterReputation: fallbackReputation,
		})
	}
	return ballots, nil
}

func (r *Repository) SaveResolutionRun(ctx context.Context, run entities.ResolutionRun) error {
	row := resolutionRunModel{
		RunID:      run.RunID,
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: run.FinishedAt.UTC(),
		Scanned:    run.Scanned,
		Resolved:   run.Resolved,
		Failed:     run.Failed,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) CountProposals(ctx context.Context, status entities.ProposalStatus) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&proposalModel{})
	if status != "" {
		tx = tx.Where("status = ?", string(status))
	}
	var count int64
	err := tx.Count(&count).Error
	return count, err
}

func (r *Repository) CountVotes(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&voteModel{}).Count(&count).Error
	return count, err
}

// CountDistinctVotersSince keys on created_at: a revote keeps the original
// cast time, so changing a months-old vote does not count as fresh activity.
func (r *Repository) CountDistinctVotersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("created_at >= ?", since.UTC()).
		Distinct("voter_id").
		Count(&count).
		Error
	return count, err
}

func (r *Repository) GetUser(ctx context.Context, userID string) (ports.UserProfile, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UserProfile{}, domainerrors.ErrUserNotFound
		}
		return ports.UserProfile{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) CountActiveUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("is_active = ?", true).
		Count(&count).
		Error
	return count, err
}

func (r *Repository) AppendOutbox(ctx context.Context, message ports.OutboxMessage) error {
	row := outboxModel{
		OutboxID:     message.OutboxID,
		EventType:    message.EventType,
		PartitionKey: message.PartitionKey,
		Payload:      append([]byte(nil), message.Payload...),
		Status:       outboxStatusPending,
		CreatedAt:    message.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}
