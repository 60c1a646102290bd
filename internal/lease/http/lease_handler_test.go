package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditRepository "github.com/allisson/leasehold/internal/audit/repository"
	auditUseCase "github.com/allisson/leasehold/internal/audit/usecase"
	"github.com/allisson/leasehold/internal/authz"
	"github.com/allisson/leasehold/internal/database"
	leaseDomain "github.com/allisson/leasehold/internal/lease/domain"
	"github.com/allisson/leasehold/internal/lease/http/dto"
	leaseRepository "github.com/allisson/leasehold/internal/lease/repository"
	leaseUseCase "github.com/allisson/leasehold/internal/lease/usecase"
	"github.com/allisson/leasehold/internal/testutil"
)

type staticSigner struct{}

func (staticSigner) Sign(_ *leaseDomain.Lease, _ map[string]any) (string, error) {
	return "signed-token", nil
}

type allowAllRequirer struct{}

func (allowAllRequirer) Require(context.Context, *authz.Context, authz.Capability, string) error {
	return nil
}

func newTestRouter(t *testing.T, authenticated bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	auditUC := auditUseCase.NewAuditUseCase(auditRepository.NewSQLiteAuditRepository(db), logger)
	uc := leaseUseCase.NewLeaseUseCase(
		leaseRepository.NewSQLiteLeaseRepository(db),
		database.NewTxManager(db),
		auditUC,
		staticSigner{},
	)
	uc.BindEnforcer(allowAllRequirer{})

	handler := NewLeaseHandler(uc, logger)

	router := gin.New()
	if authenticated {
		router.Use(func(c *gin.Context) {
			session := authz.Elevated("admin")
			c.Request = c.Request.WithContext(authz.WithSession(c.Request.Context(), session))
			c.Next()
		})
	}
	router.POST("/v1/leases", handler.CreateHandler)
	router.GET("/v1/leases", handler.ListHandler)
	router.POST("/v1/leases/:id/revoke", handler.RevokeHandler)
	router.POST("/v1/leases/:id/token", handler.TokenHandler)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestLeaseHandler_Create(t *testing.T) {
	router := newTestRouter(t, true)

	recorder := doJSON(t, router, http.MethodPost, "/v1/leases", map[string]any{
		"ownerId":    "owner-1",
		"organismId": "organism-1",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var body dto.LeaseResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "owner-1", body.OwnerID)
	assert.Equal(t, "organism-1", body.OrganismID)
	assert.NotEmpty(t, body.ID)
	assert.Nil(t, body.ExpiresAt)
}

func TestLeaseHandler_CreateValidation(t *testing.T) {
	router := newTestRouter(t, true)

	recorder := doJSON(t, router, http.MethodPost, "/v1/leases", map[string]any{
		"ownerId":    "",
		"organismId": "organism-1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestLeaseHandler_CreateBadJSON(t *testing.T) {
	router := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/v1/leases", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLeaseHandler_CreateWithoutSession(t *testing.T) {
	router := newTestRouter(t, false)

	recorder := doJSON(t, router, http.MethodPost, "/v1/leases", map[string]any{
		"ownerId":    "owner-1",
		"organismId": "organism-1",
	})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestLeaseHandler_List(t *testing.T) {
	router := newTestRouter(t, true)

	for _, owner := range []string{"owner-1", "owner-1", "owner-2"} {
		recorder := doJSON(t, router, http.MethodPost, "/v1/leases", map[string]any{
			"ownerId":    owner,
			"organismId": "organism-1",
		})
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	recorder := doJSON(t, router, http.MethodGet, "/v1/leases", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var all []dto.LeaseResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &all))
	assert.Len(t, all, 3)

	recorder = doJSON(t, router, http.MethodGet, "/v1/leases?ownerId=owner-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var filtered []dto.LeaseResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &filtered))
	assert.Len(t, filtered, 2)
}

func TestLeaseHandler_ListEmptyIsArray(t *testing.T) {
	router := newTestRouter(t, true)

	recorder := doJSON(t, router, http.MethodGet, "/v1/leases", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, "[]", recorder.Body.String())
}

func TestLeaseHandler_Revoke(t *testing.T) {
	router := newTestRouter(t, true)

	recorder := doJSON(t, router, http.MethodPost, "/v1/leases", map[string]any{
		"ownerId":    "owner-1",
		"organismId": "organism-1",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var lease dto.LeaseResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &lease))

	recorder = doJSON(t, router, http.MethodPost, "/v1/leases/"+lease.ID+"/revoke", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var revoke dto.RevokeLeaseResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &revoke))
	assert.True(t, revoke.OK)

	// Revoking again reports that nothing was removed.
	recorder = doJSON(t, router, http.MethodPost, "/v1/leases/"+lease.ID+"/revoke", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &revoke))
	assert.False(t, revoke.OK)
}

func TestLeaseHandler_Token(t *testing.T) {
	router := newTestRouter(t, true)

	recorder := doJSON(t, router, http.MethodPost, "/v1/leases", map[string]any{
		"ownerId":    "owner-1",
		"organismId": "organism-1",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var lease dto.LeaseResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &lease))

	recorder = doJSON(t, router, http.MethodPost, "/v1/leases/"+lease.ID+"/token", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &token))
	assert.Equal(t, "signed-token", token.Token)
}

func TestLeaseHandler_TokenUnknownLease(t *testing.T) {
	router := newTestRouter(t, true)

	recorder := doJSON(t, router, http.MethodPost, "/v1/leases/missing/token", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
