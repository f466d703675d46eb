package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"leaveflow/internal/events"
	leaveerrors "leaveflow/internal/leave/errors"
	"leaveflow/internal/messaging/kafka"
	"leaveflow/internal/policy"
	"leaveflow/internal/shared/contextutil"
	"leaveflow/internal/user"
)

const (
	allLeavesCacheKey  = "leaves:all"
	ownLeavesKeyPrefix = "leaves:own:"
	listCacheTTL       = 5 * time.Minute
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor policy.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	List(ctx context.Context, actor policy.Actor) ([]LeaveResponse, error)
	ListOwn(ctx context.Context, actor policy.Actor) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actor policy.Actor, id string, notes *string) (LeaveResponse, error)
	Reject(ctx context.Context, actor policy.Actor, id, notes string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	users  user.Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		users:  users,
		outbox: outbox,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, actor policy.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("employee_id", actor.ID.String()),
		zap.String("leave_type", req.LeaveType),
	)

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !validLeaveType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	if len(strings.TrimSpace(req.Reason)) < 10 {
		return LeaveResponse{}, leaveerrors.ErrReasonTooShort
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	l := &Leave{
		ID:         uuid.New(),
		EmployeeID: actor.ID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     string(policy.StatusPending),
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidateListCaches(ctx, actor.ID.String())
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.ID.String()),
		zap.Int("duration_days", totalDays),
	)

	return mapToResponse(*l), nil
}

// List returns leaves visible to the actor: managers and admins see
// everything, employees only their own.
func (s *service) List(ctx context.Context, actor policy.Actor) ([]LeaveResponse, error) {
	switch actor.Role {
	case policy.RoleManager, policy.RoleAdmin:
		return s.cachedList(ctx, allLeavesCacheKey, func() ([]Leave, error) {
			return s.repo.FindAll(ctx)
		})
	case policy.RoleEmployee:
		return s.ListOwn(ctx, actor)
	default:
		return nil, leaveerrors.ErrViewForbidden
	}
}

func (s *service) ListOwn(ctx context.Context, actor policy.Actor) ([]LeaveResponse, error) {
	key := ownLeavesKeyPrefix + actor.ID.String()
	return s.cachedList(ctx, key, func() ([]Leave, error) {
		return s.repo.FindAllByEmployee(ctx, actor.ID.String())
	})
}

func (s *service) GetByID(ctx context.Context, actor policy.Actor, id string) (LeaveResponse, error) {
	l, err := s.findLeave(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if !policy.CanViewLeave(actor, policyRef(l)) {
		return LeaveResponse{}, leaveerrors.ErrViewForbidden
	}

	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actor policy.Actor, id string, notes *string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, policy.StatusApproved, notes)
}

func (s *service) Reject(ctx context.Context, actor policy.Actor, id, notes string) (LeaveResponse, error) {
	if strings.TrimSpace(notes) == "" {
		return LeaveResponse{}, leaveerrors.ErrReviewerNotesRequired
	}
	return s.decide(ctx, actor, id, policy.StatusRejected, &notes)
}

// decide runs the pending -> approved/rejected transition. The status write
// is a compare-and-set inside one transaction with the balance deduction and
// the outbox row, so concurrent reviewers cannot both win and an approval
// can never decrement a balance twice.
func (s *service) decide(ctx context.Context, actor policy.Actor, id string, target policy.Status, notes *string) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("leave decision requested",
		zap.String("leave_id", id),
		zap.String("reviewer_id", actor.ID.String()),
		zap.String("target_status", string(target)),
	)

	l, err := s.findLeave(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	// Authorization is checked before the lifecycle state: an actor who may
	// never review answers 403 regardless of the leave's status.
	if !policy.CanReview(actor, policyRef(l)) {
		if actor.ID == l.EmployeeID {
			log.Warn("self-review rejected",
				zap.String("leave_id", id),
				zap.String("reviewer_id", actor.ID.String()),
			)
			return LeaveResponse{}, leaveerrors.ErrSelfReview
		}
		return LeaveResponse{}, leaveerrors.ErrNotReviewer
	}

	current, ok := policy.ParseStatus(l.Status)
	if !ok || !policy.CanTransition(current, target) {
		log.Warn("leave decision on non-pending leave",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("leave decision begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	decidedAt := time.Now().UTC()
	won, err := s.repo.WithTx(tx).TransitionStatus(ctx, id, current, target, actor.ID, notes, decidedAt)
	if err != nil {
		log.Error("leave status transition failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !won {
		// another reviewer committed first
		log.Warn("leave decision lost transition race", zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	if target == policy.StatusApproved {
		deducted, err := s.users.WithTx(tx).DeductBalance(ctx, l.EmployeeID.String(), l.TotalDays)
		if err != nil {
			log.Error("balance deduction failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
		if !deducted {
			log.Warn("balance insufficient at approval",
				zap.String("leave_id", id),
				zap.Int("duration_days", l.TotalDays),
			)
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}
	}

	if err := s.enqueueDecidedEvent(ctx, tx, l, actor, target, decidedAt); err != nil {
		log.Error("enqueue decision event failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("leave decision commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	l.Status = string(target)
	l.ReviewerNotes = notes
	l.DecidedBy = &actor.ID
	l.DecidedAt = &decidedAt

	s.invalidateListCaches(ctx, l.EmployeeID.String())
	log.Info("leave decision success",
		zap.String("leave_id", id),
		zap.String("status", l.Status),
		zap.String("reviewer_id", actor.ID.String()),
	)

	return mapToResponse(*l), nil
}

func (s *service) enqueueDecidedEvent(ctx context.Context, tx *sql.Tx, l *Leave, actor policy.Actor, target policy.Status, decidedAt time.Time) error {
	eventType := events.EventTypeLeaveApproved
	if target == policy.StatusRejected {
		eventType = events.EventTypeLeaveRejected
	}

	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:    eventType,
		LeaveID:      l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		ReviewerID:   actor.ID.String(),
		Status:       string(target),
		DurationDays: l.TotalDays,
		OccurredAt:   decidedAt,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) findLeave(ctx context.Context, id string) (*Leave, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

// cachedList serves list reads from Redis when possible, collapsing
// concurrent misses for the same key into one database query.
func (s *service) cachedList(ctx context.Context, key string, fetch func() ([]Leave, error)) ([]LeaveResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var resp []LeaveResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		leaves, err := fetch()
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(leaves)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, key, jsonData, listCacheTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]LeaveResponse), nil
}

func (s *service) invalidateListCaches(ctx context.Context, employeeID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, allLeavesCacheKey, ownLeavesKeyPrefix+employeeID).Err(); err != nil {
		s.logger.Warn("leave list cache invalidation failed", zap.Error(err))
	}
}

func policyRef(l *Leave) policy.LeaveRef {
	status, _ := policy.ParseStatus(l.Status)
	return policy.LeaveRef{EmployeeID: l.EmployeeID, Status: status}
}

func validLeaveType(t string) bool {
	switch t {
	case TypeVacation, TypeSick, TypePersonal:
		return true
	default:
		return false
	}
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}
