package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

func seedLead(t *testing.T, repo Repository, name string, score int, tier string) *Lead {
	t.Helper()
	lead, err := repo.Create(context.Background(), &CreateLeadRequest{
		Name:          name,
		Email:         "seller@example.com",
		Address:       "123 Main Street, Las Vegas, NV 89101",
		PriorityScore: score,
		Tier:          tier,
	})
	require.NoError(t, err)
	return lead
}

func TestListLeads(t *testing.T) {
	repo := NewInMemoryRepository()
	seedLead(t, repo, "Alice", 85, "bonus")
	seedLead(t, repo, "Bob", 40, "standard")
	handler := NewHandler(repo, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	w := httptest.NewRecorder()
	handler.ListLeads(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ListLeadsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
}

func TestListLeads_MinScoreFilter(t *testing.T) {
	repo := NewInMemoryRepository()
	seedLead(t, repo, "Alice", 85, "bonus")
	seedLead(t, repo, "Bob", 40, "standard")
	handler := NewHandler(repo, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/leads?min_score=70", nil)
	w := httptest.NewRecorder()
	handler.ListLeads(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ListLeadsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Alice", resp.Leads[0].Name)
}

func TestGetLead(t *testing.T) {
	repo := NewInMemoryRepository()
	lead := seedLead(t, repo, "Alice", 85, "bonus")
	handler := NewHandler(repo, logging.Default())

	router := chi.NewRouter()
	router.Get("/admin/leads/{leadID}", handler.GetLead)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads/"+lead.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got Lead
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, lead.ID, got.ID)
}

func TestGetLead_NotFound(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), logging.Default())

	router := chi.NewRouter()
	router.Get("/admin/leads/{leadID}", handler.GetLead)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateLeadRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateLeadRequest
		wantErr error
	}{
		{"valid", CreateLeadRequest{Name: "A", Email: "a@b.c", Address: "1 Main St"}, nil},
		{"missing address", CreateLeadRequest{Name: "A", Email: "a@b.c"}, ErrMissingAddress},
		{"missing name", CreateLeadRequest{Email: "a@b.c", Address: "1 Main St"}, ErrInvalidName},
		{"missing contact", CreateLeadRequest{Name: "A", Address: "1 Main St"}, ErrMissingContact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
