package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"citizen-services/internal/apperrors"
	"citizen-services/internal/auth"
	"citizen-services/internal/config"
	"citizen-services/internal/models"
	"citizen-services/internal/policy"
	"citizen-services/internal/workflow"
)

type memComplaintStore struct {
	items map[uuid.UUID]models.Complaint
}

func (s *memComplaintStore) Create(_ context.Context, c *models.Complaint) error {
	s.items[c.ID] = *c
	return nil
}

func (s *memComplaintStore) GetByID(_ context.Context, id uuid.UUID) (*models.Complaint, error) {
	c, ok := s.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := c
	return &out, nil
}

func (s *memComplaintStore) Update(_ context.Context, c *models.Complaint) error {
	s.items[c.ID] = *c
	return nil
}

func (s *memComplaintStore) UpdateStatus(_ context.Context, id uuid.UUID, status models.ComplaintStatus, updatedAt time.Time) error {
	c, ok := s.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = updatedAt
	s.items[id] = c
	return nil
}

func (s *memComplaintStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *memComplaintStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Complaint, error) {
	out := []models.Complaint{}
	for _, c := range s.items {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memComplaintStore) ListAll(_ context.Context) ([]models.Complaint, error) {
	out := []models.Complaint{}
	for _, c := range s.items {
		out = append(out, c)
	}
	return out, nil
}

type memUserStore struct {
	users map[uuid.UUID]models.User
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := u
	return &out, nil
}

type stubNotifier struct {
	fail error
}

func (n *stubNotifier) deliver() error {
	if n.fail != nil {
		return &apperrors.DeliveryError{Err: n.fail}
	}
	return nil
}

func (n *stubNotifier) ComplaintCreated(context.Context, *models.User, *models.Complaint) error {
	return n.deliver()
}

func (n *stubNotifier) ComplaintStatusChanged(context.Context, *models.User, *models.Complaint) error {
	return n.deliver()
}

func (n *stubNotifier) BillStatusChanged(context.Context, *models.User, *models.ElectricityBill) error {
	return n.deliver()
}

func (n *stubNotifier) MessageReceived(context.Context, *models.User, *models.Message) error {
	return n.deliver()
}

type apiEnv struct {
	router   *gin.Engine
	tokens   *auth.TokenManager
	notifier *stubNotifier

	citizen models.User
	other   models.User
	staff   models.User
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	citizen := models.User{ID: uuid.New(), Username: "asha", Email: "asha@example.com", Role: models.RoleCitizen}
	other := models.User{ID: uuid.New(), Username: "bilal", Email: "bilal@example.com", Role: models.RoleCitizen}
	staff := models.User{ID: uuid.New(), Username: "clerk", Email: "clerk@smartcity.local", Role: models.RoleStaff}

	users := &memUserStore{users: map[uuid.UUID]models.User{
		citizen.ID: citizen,
		other.ID:   other,
		staff.ID:   staff,
	}}
	notifier := &stubNotifier{}

	logger := zap.NewNop()
	engine := workflow.NewEngine(
		&memComplaintStore{items: map[uuid.UUID]models.Complaint{}},
		nil, nil,
		users,
		notifier,
		policy.New(),
		nil,
		logger,
	)

	tokens := auth.NewTokenManager(&config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
	complaints := NewComplaintHandler(engine, logger)
	bills := NewBillHandler(engine, logger)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(auth.Middleware(tokens, users))
	api.POST("/complaints", complaints.CreateComplaint)
	api.GET("/complaints/:id", complaints.GetComplaint)
	api.PUT("/complaints/:id/status", complaints.UpdateStatus)
	api.POST("/bills", bills.CreateBill)

	return &apiEnv{
		router:   router,
		tokens:   tokens,
		notifier: notifier,
		citizen:  citizen,
		other:    other,
		staff:    staff,
	}
}

func (e *apiEnv) do(t *testing.T, user *models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, _, err := e.tokens.Generate(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *apiEnv) createComplaint(t *testing.T) uuid.UUID {
	t.Helper()
	w := e.do(t, &e.citizen, http.MethodPost, "/api/v1/complaints", gin.H{
		"title":       "Pothole on Main St",
		"description": "Large pothole near the intersection",
		"category":    "Roads",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Complaint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created.ID
}

func TestComplaintEndpoints(t *testing.T) {
	t.Run("missing token rejected", func(t *testing.T) {
		env := newAPIEnv(t)
		w := env.do(t, nil, http.MethodPost, "/api/v1/complaints", gin.H{"title": "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("create defaults to pending", func(t *testing.T) {
		env := newAPIEnv(t)
		w := env.do(t, &env.citizen, http.MethodPost, "/api/v1/complaints", gin.H{
			"title":       "Pothole on Main St",
			"description": "Large pothole",
			"category":    "Roads",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created models.Complaint
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, models.ComplaintStatusPending, created.Status)
		assert.Equal(t, env.citizen.ID, created.OwnerID)
	})

	t.Run("other citizens get 404, staff get 200", func(t *testing.T) {
		env := newAPIEnv(t)
		id := env.createComplaint(t)
		path := fmt.Sprintf("/api/v1/complaints/%s", id)

		assert.Equal(t, http.StatusOK, env.do(t, &env.citizen, http.MethodGet, path, nil).Code)
		assert.Equal(t, http.StatusNotFound, env.do(t, &env.other, http.MethodGet, path, nil).Code)
		assert.Equal(t, http.StatusOK, env.do(t, &env.staff, http.MethodGet, path, nil).Code)
	})

	t.Run("status transition reports changed", func(t *testing.T) {
		env := newAPIEnv(t)
		id := env.createComplaint(t)
		path := fmt.Sprintf("/api/v1/complaints/%s/status", id)

		w := env.do(t, &env.staff, http.MethodPut, path, gin.H{"status": "Resolved"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Transition models.TransitionResult `json:"transition"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Transition.Changed)
		assert.Equal(t, "Pending", resp.Transition.OldStatus)
		assert.Equal(t, "Resolved", resp.Transition.NewStatus)
	})

	t.Run("unknown status maps to 422", func(t *testing.T) {
		env := newAPIEnv(t)
		id := env.createComplaint(t)

		w := env.do(t, &env.staff, http.MethodPut, fmt.Sprintf("/api/v1/complaints/%s/status", id), gin.H{"status": "Escalated"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("delivery failure yields 502 with the saved record", func(t *testing.T) {
		env := newAPIEnv(t)
		id := env.createComplaint(t)
		env.notifier.fail = errors.New("smtp unreachable")

		w := env.do(t, &env.staff, http.MethodPut, fmt.Sprintf("/api/v1/complaints/%s/status", id), gin.H{"status": "Resolved"})
		require.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())

		var resp struct {
			Saved     bool             `json:"saved"`
			Complaint models.Complaint `json:"complaint"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Saved)
		assert.Equal(t, models.ComplaintStatusResolved, resp.Complaint.Status)

		// The transition persisted despite the failed notification.
		env.notifier.fail = nil
		w = env.do(t, &env.staff, http.MethodGet, fmt.Sprintf("/api/v1/complaints/%s", id), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var stored models.Complaint
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
		assert.Equal(t, models.ComplaintStatusResolved, stored.Status)
	})

	t.Run("citizens cannot issue bills", func(t *testing.T) {
		env := newAPIEnv(t)
		w := env.do(t, &env.citizen, http.MethodPost, "/api/v1/bills", gin.H{
			"owner_id":      env.citizen.ID,
			"bill_number":   "EB-1001",
			"consumer_name": "Asha Rao",
			"address":       "12 Main St",
			"amount":        450.75,
			"due_date":      "2026-10-01T00:00:00Z",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
