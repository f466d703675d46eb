package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"leaveflow/internal/policy"
	usererrors "leaveflow/internal/user/errors"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor policy.Actor, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, actor policy.Actor) ([]UserResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id string) (UserResponse, error)
	Update(ctx context.Context, actor policy.Actor, id string, req UpdateUserRequest) (UserResponse, error)
	Activate(ctx context.Context, actor policy.Actor, id string) (UserResponse, error)
	Deactivate(ctx context.Context, actor policy.Actor, id string) (UserResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

const defaultLeaveBalance = 20

func (s *service) Create(ctx context.Context, actor policy.Actor, req CreateUserRequest) (UserResponse, error) {
	if !policy.CanManageUsers(actor) {
		return UserResponse{}, usererrors.ErrAdminOnly
	}

	role, ok := policy.ParseRole(req.Role)
	if !ok {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	balance := defaultLeaveBalance
	if req.LeaveBalance != nil {
		if *req.LeaveBalance < 0 {
			return UserResponse{}, usererrors.ErrNegativeBalance
		}
		balance = *req.LeaveBalance
	}

	managerID, err := s.resolveManagerRef(ctx, req.ManagerID)
	if err != nil {
		return UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	u := &User{
		ID:           uuid.New(),
		EmployeeID:   req.EmployeeID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Password:     string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         string(role),
		Department:   normalizeDepartment(req.Department),
		ManagerID:    managerID,
		LeaveBalance: balance,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Warn("create user persist failed", zap.Error(err))
		return UserResponse{}, mapUniqueViolation(err)
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("employee_id", u.EmployeeID),
		zap.String("role", u.Role),
	)
	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context, actor policy.Actor) ([]UserResponse, error) {
	if !policy.CanManageUsers(actor) {
		return nil, usererrors.ErrAdminOnly
	}
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) GetByID(ctx context.Context, actor policy.Actor, id string) (UserResponse, error) {
	if !policy.CanManageUsers(actor) {
		return UserResponse{}, usererrors.ErrAdminOnly
	}
	u, err := s.findUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, actor policy.Actor, id string, req UpdateUserRequest) (UserResponse, error) {
	if !policy.CanManageUsers(actor) {
		return UserResponse{}, usererrors.ErrAdminOnly
	}

	role, ok := policy.ParseRole(req.Role)
	if !ok {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	u, err := s.findUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	managerID, err := s.resolveManagerRef(ctx, req.ManagerID)
	if err != nil {
		return UserResponse{}, err
	}

	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Role = string(role)
	u.Department = normalizeDepartment(req.Department)
	u.ManagerID = managerID
	if req.LeaveBalance != nil {
		if *req.LeaveBalance < 0 {
			return UserResponse{}, usererrors.ErrNegativeBalance
		}
		u.LeaveBalance = *req.LeaveBalance
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update user persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, mapUniqueViolation(err)
	}

	s.logger.Info("user updated", zap.String("user_id", id), zap.String("role", u.Role))
	return mapToResponse(*u), nil
}

func (s *service) Activate(ctx context.Context, actor policy.Actor, id string) (UserResponse, error) {
	return s.setActive(ctx, actor, id, true)
}

func (s *service) Deactivate(ctx context.Context, actor policy.Actor, id string) (UserResponse, error) {
	return s.setActive(ctx, actor, id, false)
}

func (s *service) setActive(ctx context.Context, actor policy.Actor, id string, active bool) (UserResponse, error) {
	if !policy.CanManageUsers(actor) {
		return UserResponse{}, usererrors.ErrAdminOnly
	}
	u, err := s.findUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return UserResponse{}, err
	}
	u.IsActive = active

	s.logger.Info("user activation changed",
		zap.String("user_id", id),
		zap.Bool("is_active", active),
	)
	return mapToResponse(*u), nil
}

// Delete removes the user permanently. Deactivation is the soft path; this
// one does not preserve history.
func (s *service) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if !policy.CanManageUsers(actor) {
		return usererrors.ErrAdminOnly
	}
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func (s *service) findUser(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// resolveManagerRef validates that manager_id, when present, points at an
// existing user holding the manager role.
func (s *service) resolveManagerRef(ctx context.Context, ref *string) (*uuid.UUID, error) {
	if ref == nil || *ref == "" {
		return nil, nil
	}
	managerUUID, err := uuid.Parse(*ref)
	if err != nil {
		return nil, usererrors.ErrManagerNotFound
	}
	manager, err := s.repo.FindByID(ctx, managerUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrManagerNotFound
		}
		return nil, err
	}
	if manager.Role != string(policy.RoleManager) {
		return nil, usererrors.ErrManagerRoleRequired
	}
	return &managerUUID, nil
}

func normalizeDepartment(d *string) *string {
	if d == nil || strings.TrimSpace(*d) == "" {
		return nil
	}
	v := strings.TrimSpace(*d)
	return &v
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return usererrors.ErrEmailTaken
		}
		return usererrors.ErrEmployeeIDTaken
	}
	return err
}
