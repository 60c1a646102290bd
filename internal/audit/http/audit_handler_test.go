package http

import (
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

	auditDomain "github.com/allisson/leasehold/internal/audit/domain"
	auditRepository "github.com/allisson/leasehold/internal/audit/repository"
	auditUseCase "github.com/allisson/leasehold/internal/audit/usecase"
	"github.com/allisson/leasehold/internal/authz"
	"github.com/allisson/leasehold/internal/testutil"
)

func newTestRouter(t *testing.T, authenticated bool) (*gin.Engine, *auditUseCase.AuditUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := auditUseCase.NewAuditUseCase(auditRepository.NewSQLiteAuditRepository(db), logger)
	handler := NewAuditHandler(uc, 200, logger)

	router := gin.New()
	if authenticated {
		router.Use(func(c *gin.Context) {
			session := authz.Elevated("admin")
			c.Request = c.Request.WithContext(authz.WithSession(c.Request.Context(), session))
			c.Next()
		})
	}
	router.GET("/v1/audit", handler.ListHandler)
	return router, uc
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuditHandler_List(t *testing.T) {
	router, uc := newTestRouter(t, true)

	uc.Log(context.Background(), auditDomain.EventLeaseCreate, map[string]any{"leaseId": "l1"})
	uc.Log(context.Background(), auditDomain.EventLeaseRevoke, map[string]any{"leaseId": "l1"})

	recorder := get(router, "/v1/audit")
	require.Equal(t, http.StatusOK, recorder.Code)

	var events []AuditEventResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, auditDomain.EventLeaseCreate, events[0].EventType)
	assert.Equal(t, auditDomain.EventLeaseRevoke, events[1].EventType)
	assert.Equal(t, "l1", events[0].Details["leaseId"])
}

func TestAuditHandler_ListLimit(t *testing.T) {
	router, uc := newTestRouter(t, true)

	for range 5 {
		uc.Log(context.Background(), auditDomain.EventSyncPush, nil)
	}

	recorder := get(router, "/v1/audit?limit=2")
	require.Equal(t, http.StatusOK, recorder.Code)

	var events []AuditEventResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &events))
	assert.Len(t, events, 2)
}

func TestAuditHandler_ListBadLimit(t *testing.T) {
	router, _ := newTestRouter(t, true)

	for _, path := range []string{"/v1/audit?limit=0", "/v1/audit?limit=abc", "/v1/audit?limit=-1"} {
		recorder := get(router, path)
		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code, path)
	}
}

func TestAuditHandler_ListWithoutSession(t *testing.T) {
	router, _ := newTestRouter(t, false)

	recorder := get(router, "/v1/audit")
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestAuditHandler_ListEmptyIsArray(t *testing.T) {
	router, _ := newTestRouter(t, true)

	recorder := get(router, "/v1/audit")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, "[]", recorder.Body.String())
}
