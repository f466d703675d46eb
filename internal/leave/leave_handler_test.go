package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leaveflow/internal/leave"
	leaveerrors "leaveflow/internal/leave/errors"
	"leaveflow/internal/middleware"
	"leaveflow/internal/policy"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn  func(ctx context.Context, actor policy.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	listFn    func(ctx context.Context, actor policy.Actor) ([]leave.LeaveResponse, error)
	listOwnFn func(ctx context.Context, actor policy.Actor) ([]leave.LeaveResponse, error)
	getByIDFn func(ctx context.Context, actor policy.Actor, id string) (leave.LeaveResponse, error)
	approveFn func(ctx context.Context, actor policy.Actor, id string, notes *string) (leave.LeaveResponse, error)
	rejectFn  func(ctx context.Context, actor policy.Actor, id, notes string) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, actor policy.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, actor, req)
}
func (f *fakeLeaveService) List(ctx context.Context, actor policy.Actor) ([]leave.LeaveResponse, error) {
	return f.listFn(ctx, actor)
}
func (f *fakeLeaveService) ListOwn(ctx context.Context, actor policy.Actor) ([]leave.LeaveResponse, error) {
	return f.listOwnFn(ctx, actor)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, actor policy.Actor, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actor, id)
}
func (f *fakeLeaveService) Approve(ctx context.Context, actor policy.Actor, id string, notes *string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actor, id, notes)
}
func (f *fakeLeaveService) Reject(ctx context.Context, actor policy.Actor, id, notes string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, actor, id, notes)
}

func setSession(c *gin.Context, actor policy.Actor) {
	c.Set(middleware.ContextUserID, actor.ID.String())
	c.Set(middleware.ContextRole, string(actor.Role))
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actor := policy.Actor{ID: uuid.New(), Role: policy.RoleEmployee}

		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, a policy.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actor, a)
				assert.Equal(t, leave.TypeVacation, req.LeaveType)
				return leave.LeaveResponse{
					ID:           uuid.New().String(),
					EmployeeID:   a.ID.String(),
					LeaveType:    req.LeaveType,
					StartDate:    req.StartDate,
					EndDate:      req.EndDate,
					DurationDays: 3,
					Reason:       req.Reason,
					Status:       string(policy.StatusPending),
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"vacation","start_date":"2026-03-02","end_date":"2026-03-04","reason":"family event out of town"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		setSession(c, actor)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, actor.ID.String(), got.EmployeeID)
		assert.Equal(t, string(policy.StatusPending), got.Status)
	})

	t.Run("missing session", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("binding failure", func(t *testing.T) {
		actor := policy.Actor{ID: uuid.New(), Role: policy.RoleEmployee}
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"vacation","start_date":"2026-03-02"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		setSession(c, actor)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	t.Run("service error is mapped to envelope", func(t *testing.T) {
		actor := policy.Actor{ID: uuid.New(), Role: policy.RoleManager}
		leaveID := uuid.New().String()

		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, a policy.Actor, id string, notes *string) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, id)
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyDecided
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/"+leaveID+"/approve", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		setSession(c, actor)

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		actor := policy.Actor{ID: uuid.New(), Role: policy.RoleAdmin}
		leaveID := uuid.New().String()
		notes := "enjoy the break"

		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, a policy.Actor, id string, got *string) (leave.LeaveResponse, error) {
				assert.NotNil(t, got)
				assert.Equal(t, notes, *got)
				return leave.LeaveResponse{ID: id, Status: string(policy.StatusApproved)}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/"+leaveID+"/approve", strings.NewReader(`{"reviewer_notes":"`+notes+`"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		setSession(c, actor)

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	t.Run("missing notes fails binding", func(t *testing.T) {
		actor := policy.Actor{ID: uuid.New(), Role: policy.RoleManager}
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/x/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		setSession(c, actor)

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_List(t *testing.T) {
	t.Run("paginates results", func(t *testing.T) {
		actor := policy.Actor{ID: uuid.New(), Role: policy.RoleManager}

		all := make([]leave.LeaveResponse, 15)
		for i := range all {
			all[i] = leave.LeaveResponse{ID: uuid.New().String(), Status: string(policy.StatusPending)}
		}
		svc := &fakeLeaveService{
			listFn: func(ctx context.Context, a policy.Actor) ([]leave.LeaveResponse, error) {
				return all, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?page=2&page_size=10", nil)
		setSession(c, actor)

		h.List(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got []leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 5)
	})
}
