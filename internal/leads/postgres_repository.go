package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DB is the subset of pgxpool.Pool the repository uses. It lets tests
// substitute a pgxmock pool.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, name, email, phone, address, user_type, timeline, condition,
			motivation, estimated_value, property_issues, priority_score, priority_level,
			qualification_score, tier, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.Name,
		req.Email,
		req.Phone,
		req.Address,
		req.UserType,
		req.Timeline,
		req.Condition,
		req.Motivation,
		req.EstimatedValue,
		req.PropertyIssues,
		req.PriorityScore,
		req.PriorityLevel,
		req.QualificationScore,
		req.Tier,
		req.Source,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:                 id.String(),
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		UserType:           req.UserType,
		Timeline:           req.Timeline,
		Condition:          req.Condition,
		Motivation:         req.Motivation,
		EstimatedValue:     req.EstimatedValue,
		PropertyIssues:     req.PropertyIssues,
		PriorityScore:      req.PriorityScore,
		PriorityLevel:      req.PriorityLevel,
		QualificationScore: req.QualificationScore,
		Tier:               req.Tier,
		Source:             req.Source,
		CreatedAt:          createdAt,
	}, nil
}

const selectColumns = `
	SELECT id, name, email, phone, address, user_type, timeline, condition,
		motivation, estimated_value, property_issues, priority_score, priority_level,
		qualification_score, tier, source, created_at
	FROM leads
`

// GetByID fetches a lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	row := r.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns leads newest first, applying the filter.
func (r *PostgresRepository) List(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := selectColumns + `
		WHERE ($1 = 0 OR priority_score >= $1)
		AND ($2 = '' OR tier = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, filter.MinScore, filter.Tier, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var leads []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: iterate failed: %w", err)
	}
	return leads, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Address,
		&lead.UserType,
		&lead.Timeline,
		&lead.Condition,
		&lead.Motivation,
		&lead.EstimatedValue,
		&lead.PropertyIssues,
		&lead.PriorityScore,
		&lead.PriorityLevel,
		&lead.QualificationScore,
		&lead.Tier,
		&lead.Source,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
