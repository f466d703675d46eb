package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	commenterrors "leaveflow/internal/comment/errors"
	"leaveflow/internal/leave"
	leaveerrors "leaveflow/internal/leave/errors"
	"leaveflow/internal/policy"
)

//go:generate mockgen -source=comment_service.go -destination=mock/comment_service_mock.go -package=mock
type Service interface {
	ListForLeave(ctx context.Context, actor policy.Actor, leaveID string) ([]CommentResponse, error)
	Create(ctx context.Context, actor policy.Actor, leaveID string, req CreateCommentRequest) (CommentResponse, error)
	Update(ctx context.Context, actor policy.Actor, commentID string, req UpdateCommentRequest) (CommentResponse, error)
	Delete(ctx context.Context, actor policy.Actor, commentID string) error
}

type service struct {
	repo   Repository
	leaves leave.Repository
	logger *zap.Logger
}

func NewService(repo Repository, leaves leave.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("comment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("comment.service")
	}
	return &service{repo: repo, leaves: leaves, logger: l}
}

func (s *service) ListForLeave(ctx context.Context, actor policy.Actor, leaveID string) ([]CommentResponse, error) {
	if err := s.checkLeaveVisible(ctx, actor, leaveID); err != nil {
		return nil, err
	}

	comments, err := s.repo.FindAllByLeave(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(comments), nil
}

func (s *service) Create(ctx context.Context, actor policy.Actor, leaveID string, req CreateCommentRequest) (CommentResponse, error) {
	if strings.TrimSpace(req.CommentText) == "" {
		return CommentResponse{}, commenterrors.ErrEmptyComment
	}

	if err := s.checkLeaveVisible(ctx, actor, leaveID); err != nil {
		return CommentResponse{}, err
	}

	c := &Comment{
		ID:          uuid.New(),
		LeaveID:     uuid.MustParse(leaveID),
		UserID:      actor.ID,
		CommentText: req.CommentText,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("create comment persist failed", zap.Error(err))
		return CommentResponse{}, err
	}

	s.logger.Info("comment created",
		zap.String("comment_id", c.ID.String()),
		zap.String("leave_id", leaveID),
		zap.String("user_id", actor.ID.String()),
	)
	return mapToResponse(*c), nil
}

func (s *service) Update(ctx context.Context, actor policy.Actor, commentID string, req UpdateCommentRequest) (CommentResponse, error) {
	if strings.TrimSpace(req.CommentText) == "" {
		return CommentResponse{}, commenterrors.ErrEmptyComment
	}

	c, err := s.findComment(ctx, commentID)
	if err != nil {
		return CommentResponse{}, err
	}

	if !policy.CanModifyComment(actor, policy.CommentRef{UserID: c.UserID}) {
		s.logger.Warn("comment update denied",
			zap.String("comment_id", commentID),
			zap.String("actor_id", actor.ID.String()),
		)
		return CommentResponse{}, commenterrors.ErrNotAuthor
	}

	c.CommentText = req.CommentText
	if err := s.repo.Update(ctx, c); err != nil {
		return CommentResponse{}, err
	}

	return mapToResponse(*c), nil
}

func (s *service) Delete(ctx context.Context, actor policy.Actor, commentID string) error {
	c, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}

	if !policy.CanModifyComment(actor, policy.CommentRef{UserID: c.UserID}) {
		s.logger.Warn("comment delete denied",
			zap.String("comment_id", commentID),
			zap.String("actor_id", actor.ID.String()),
		)
		return commenterrors.ErrNotAuthor
	}

	return s.repo.Delete(ctx, commentID)
}

// checkLeaveVisible resolves the parent leave and applies the view policy;
// commenting is allowed exactly where viewing is.
func (s *service) checkLeaveVisible(ctx context.Context, actor policy.Actor, leaveID string) error {
	if _, err := uuid.Parse(leaveID); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.leaves.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	status, _ := policy.ParseStatus(l.Status)
	if !policy.CanViewLeave(actor, policy.LeaveRef{EmployeeID: l.EmployeeID, Status: status}) {
		return leaveerrors.ErrViewForbidden
	}
	return nil
}

func (s *service) findComment(ctx context.Context, id string) (*Comment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, commenterrors.ErrInvalidCommentID
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commenterrors.ErrCommentNotFound
		}
		return nil, err
	}
	return c, nil
}
