package comment_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"leaveflow/internal/comment"
	commenterrors "leaveflow/internal/comment/errors"
	"leaveflow/internal/leave"
	leaveerrors "leaveflow/internal/leave/errors"
	"leaveflow/internal/policy"
)

type fakeCommentRepository struct {
	createFn       func(ctx context.Context, c *comment.Comment) error
	findAllByLeave func(ctx context.Context, leaveID string) ([]comment.Comment, error)
	findByIDFn     func(ctx context.Context, id string) (*comment.Comment, error)
	updateFn       func(ctx context.Context, c *comment.Comment) error
	deleteFn       func(ctx context.Context, id string) error
}

func (f *fakeCommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	if f.createFn != nil {
		return f.createFn(ctx, c)
	}
	return nil
}

func (f *fakeCommentRepository) FindAllByLeave(ctx context.Context, leaveID string) ([]comment.Comment, error) {
	if f.findAllByLeave != nil {
		return f.findAllByLeave(ctx, leaveID)
	}
	return nil, nil
}

func (f *fakeCommentRepository) FindByID(ctx context.Context, id string) (*comment.Comment, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommentRepository) Update(ctx context.Context, c *comment.Comment) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, c)
	}
	return nil
}

func (f *fakeCommentRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeLeaveRepository struct {
	findByIDFn func(ctx context.Context, id string) (*leave.Leave, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error { return nil }

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.Leave, error) { return nil, nil }

func (f *fakeLeaveRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]leave.Leave, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.Leave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) TransitionStatus(ctx context.Context, id string, from, to policy.Status, decidedBy uuid.UUID, notes *string, decidedAt time.Time) (bool, error) {
	return true, nil
}

func leaveOwnedBy(employeeID uuid.UUID) *leave.Leave {
	return &leave.Leave{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveType:  leave.TypeVacation,
		TotalDays:  2,
		Status:     string(policy.StatusPending),
	}
}

func TestCommentService_Create(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("owner comments on own leave", func(t *testing.T) {
		l := leaveOwnedBy(owner)
		leaves := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.Leave, error) {
				return l, nil
			},
		}
		var created *comment.Comment
		repo := &fakeCommentRepository{
			createFn: func(ctx context.Context, c *comment.Comment) error {
				created = c
				return nil
			},
		}
		svc := comment.NewService(repo, leaves)

		actor := policy.Actor{ID: owner, Role: policy.RoleEmployee}
		resp, err := svc.Create(ctx, actor, l.ID.String(), comment.CreateCommentRequest{
			CommentText: "any update on this?",
		})

		assert.NoError(t, err)
		assert.Equal(t, owner, created.UserID)
		assert.Equal(t, "any update on this?", resp.CommentText)
	})

	t.Run("manager comments on any leave", func(t *testing.T) {
		l := leaveOwnedBy(owner)
		leaves := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.Leave, error) {
				return l, nil
			},
		}
		svc := comment.NewService(&fakeCommentRepository{}, leaves)

		actor := policy.Actor{ID: uuid.New(), Role: policy.RoleManager}
		_, err := svc.Create(ctx, actor, l.ID.String(), comment.CreateCommentRequest{
			CommentText: "please add coverage plan",
		})

		assert.NoError(t, err)
	})

	t.Run("other employee cannot comment", func(t *testing.T) {
		l := leaveOwnedBy(owner)
		leaves := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.Leave, error) {
				return l, nil
			},
		}
		svc := comment.NewService(&fakeCommentRepository{}, leaves)

		actor := policy.Actor{ID: uuid.New(), Role: policy.RoleEmployee}
		_, err := svc.Create(ctx, actor, l.ID.String(), comment.CreateCommentRequest{
			CommentText: "curious about this one",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrViewForbidden)
	})

	t.Run("blank text", func(t *testing.T) {
		svc := comment.NewService(&fakeCommentRepository{}, &fakeLeaveRepository{})

		actor := policy.Actor{ID: owner, Role: policy.RoleEmployee}
		_, err := svc.Create(ctx, actor, uuid.New().String(), comment.CreateCommentRequest{
			CommentText: "   ",
		})

		assert.ErrorIs(t, err, commenterrors.ErrEmptyComment)
	})

	t.Run("missing leave", func(t *testing.T) {
		svc := comment.NewService(&fakeCommentRepository{}, &fakeLeaveRepository{})

		actor := policy.Actor{ID: owner, Role: policy.RoleEmployee}
		_, err := svc.Create(ctx, actor, uuid.New().String(), comment.CreateCommentRequest{
			CommentText: "is this still pending?",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestCommentService_ListForLeave(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("hidden leave hides its thread", func(t *testing.T) {
		l := leaveOwnedBy(owner)
		leaves := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.Leave, error) {
				return l, nil
			},
		}
		svc := comment.NewService(&fakeCommentRepository{}, leaves)

		actor := policy.Actor{ID: uuid.New(), Role: policy.RoleEmployee}
		_, err := svc.ListForLeave(ctx, actor, l.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrViewForbidden)
	})

	t.Run("admin sees thread", func(t *testing.T) {
		l := leaveOwnedBy(owner)
		leaves := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.Leave, error) {
				return l, nil
			},
		}
		repo := &fakeCommentRepository{
			findAllByLeave: func(ctx context.Context, leaveID string) ([]comment.Comment, error) {
				return []comment.Comment{
					{ID: uuid.New(), LeaveID: l.ID, UserID: owner, CommentText: "first"},
					{ID: uuid.New(), LeaveID: l.ID, UserID: uuid.New(), CommentText: "second"},
				}, nil
			},
		}
		svc := comment.NewService(repo, leaves)

		actor := policy.Actor{ID: uuid.New(), Role: policy.RoleAdmin}
		resp, err := svc.ListForLeave(ctx, actor, l.ID.String())

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})
}

func TestCommentService_Update(t *testing.T) {
	ctx := context.Background()
	author := uuid.New()

	existing := func() *comment.Comment {
		return &comment.Comment{
			ID:          uuid.New(),
			LeaveID:     uuid.New(),
			UserID:      author,
			CommentText: "original text",
		}
	}

	t.Run("author edits own comment", func(t *testing.T) {
		c := existing()
		repo := &fakeCommentRepository{
			findByIDFn: func(ctx context.Context, id string) (*comment.Comment, error) {
				return c, nil
			},
		}
		svc := comment.NewService(repo, &fakeLeaveRepository{})

		actor := policy.Actor{ID: author, Role: policy.RoleEmployee}
		resp, err := svc.Update(ctx, actor, c.ID.String(), comment.UpdateCommentRequest{
			CommentText: "revised text",
		})

		assert.NoError(t, err)
		assert.Equal(t, "revised text", resp.CommentText)
	})

	t.Run("admin cannot edit someone else's comment", func(t *testing.T) {
		c := existing()
		repo := &fakeCommentRepository{
			findByIDFn: func(ctx context.Context, id string) (*comment.Comment, error) {
				return c, nil
			},
		}
		svc := comment.NewService(repo, &fakeLeaveRepository{})

		actor := policy.Actor{ID: uuid.New(), Role: policy.RoleAdmin}
		_, err := svc.Update(ctx, actor, c.ID.String(), comment.UpdateCommentRequest{
			CommentText: "admin override",
		})

		assert.ErrorIs(t, err, commenterrors.ErrNotAuthor)
	})

	t.Run("missing comment", func(t *testing.T) {
		svc := comment.NewService(&fakeCommentRepository{}, &fakeLeaveRepository{})

		actor := policy.Actor{ID: author, Role: policy.RoleEmployee}
		_, err := svc.Update(ctx, actor, uuid.New().String(), comment.UpdateCommentRequest{
			CommentText: "whatever",
		})

		assert.ErrorIs(t, err, commenterrors.ErrCommentNotFound)
	})
}

func TestCommentService_Delete(t *testing.T) {
	ctx := context.Background()
	author := uuid.New()

	t.Run("author deletes own comment", func(t *testing.T) {
		c := &comment.Comment{ID: uuid.New(), UserID: author, CommentText: "obsolete"}
		deleted := false
		repo := &fakeCommentRepository{
			findByIDFn: func(ctx context.Context, id string) (*comment.Comment, error) {
				return c, nil
			},
			deleteFn: func(ctx context.Context, id string) error {
				deleted = true
				return nil
			},
		}
		svc := comment.NewService(repo, &fakeLeaveRepository{})

		err := svc.Delete(ctx, policy.Actor{ID: author, Role: policy.RoleEmployee}, c.ID.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("manager cannot delete someone else's comment", func(t *testing.T) {
		c := &comment.Comment{ID: uuid.New(), UserID: author, CommentText: "keep me"}
		repo := &fakeCommentRepository{
			findByIDFn: func(ctx context.Context, id string) (*comment.Comment, error) {
				return c, nil
			},
		}
		svc := comment.NewService(repo, &fakeLeaveRepository{})

		err := svc.Delete(ctx, policy.Actor{ID: uuid.New(), Role: policy.RoleManager}, c.ID.String())

		assert.ErrorIs(t, err, commenterrors.ErrNotAuthor)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := comment.NewService(&fakeCommentRepository{}, &fakeLeaveRepository{})

		err := svc.Delete(ctx, policy.Actor{ID: author, Role: policy.RoleEmployee}, "nope")

		assert.ErrorIs(t, err, commenterrors.ErrInvalidCommentID)
	})
}
