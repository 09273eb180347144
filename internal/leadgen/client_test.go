package leadgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

func TestVerifyLead(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var req VerificationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "lead-1", req.LeadID)

		json.NewEncoder(w).Encode(VerificationResult{
			LeadID: req.LeadID,
			VScore: 0.82,
			Details: VerificationDetails{
				EmailScore: 0.9,
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", logger.NewNop())

	res, err := c.VerifyLead(context.Background(), VerificationRequest{LeadID: "lead-1", Email: "a@b.de"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "/api/lead-generation/verify", gotPath)
	assert.Equal(t, 0.82, res.VScore)
	assert.Equal(t, 0.9, res.Details.EmailScore)
}

func TestErrorFromDetailField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "email is required"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", logger.NewNop())

	_, err := c.VerifyLead(context.Background(), VerificationRequest{LeadID: "lead-1"})
	require.Error(t, err)

	var extErr *domain.ExternalServiceError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "lead-generation", extErr.Service)
	assert.Contains(t, err.Error(), "email is required")
}

func TestErrorFromMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "scoring engine down"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", logger.NewNop())

	_, err := c.EnrichLead(context.Background(), EnrichmentRequest{LeadID: "lead-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scoring engine down")
	assert.True(t, errors.Is(err, domain.ErrExternalServiceUnavailable))
}

func TestCreateLeadDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/lead-generation/leads", r.URL.Path)
		json.NewEncoder(w).Encode(CreateLeadResponse{
			Success:         false,
			IsDuplicate:     true,
			DuplicateLeadID: "lead-77",
			Errors:          []string{},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", logger.NewNop())

	res, err := c.CreateLead(context.Background(), CreateLeadRequest{Name: "Anna", Email: "anna@firma.de"})
	require.NoError(t, err)
	assert.True(t, res.IsDuplicate)
	assert.Equal(t, "lead-77", res.DuplicateLeadID)
}

func TestPipelineStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/lead-generation/stats", r.URL.Path)
		json.NewEncoder(w).Encode(PipelineStats{
			Total: 12, Hot: 3, Warm: 4, Cool: 3, Cold: 2,
			ByStatus: map[string]int{"NEW": 5, "CONVERSATION": 7},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", logger.NewNop())

	stats, err := c.PipelineStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Total)
	assert.Equal(t, 5, stats.ByStatus["NEW"])
}

func TestConnectionRefusedWrapsExternalError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "t", logger.NewNop())

	_, err := c.PipelineStats(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExternalServiceUnavailable))
}
