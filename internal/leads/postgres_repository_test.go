package leads

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	createdAt := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	repo := NewPostgresRepository(mock)
	lead, err := repo.Create(context.Background(), &CreateLeadRequest{
		Name:          "Jane Seller",
		Email:         "jane@example.com",
		Address:       "123 Main Street, Las Vegas, NV 89101",
		PriorityScore: 85,
		Tier:          "bonus",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, createdAt, lead.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCreate_InvalidRequest(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	_, err = repo.Create(context.Background(), &CreateLeadRequest{Name: "Jane"})
	assert.ErrorIs(t, err, ErrMissingAddress)
}

func TestPostgresRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{
		"id", "name", "email", "phone", "address", "user_type", "timeline", "condition",
		"motivation", "estimated_value", "property_issues", "priority_score", "priority_level",
		"qualification_score", "tier", "source", "created_at",
	}).AddRow(
		"id-1", "Jane", "jane@example.com", "", "123 Main St", "owner", "asap", "fair",
		"relocation", 250000.0, []string{}, 85, "ULTRA HOT 🔥🔥🔥",
		78, "bonus", "funnel", time.Now().UTC(),
	)
	mock.ExpectQuery(`SELECT id, name, email`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	leads, err := repo.List(context.Background(), ListLeadsFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Jane", leads[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
