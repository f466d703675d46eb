package comment

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=comment_repo.go -destination=mock/comment_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, c *Comment) error
	FindAllByLeave(ctx context.Context, leaveID string) ([]Comment, error)
	FindByID(ctx context.Context, id string) (*Comment, error)
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindAllByLeave(ctx context.Context, leaveID string) ([]Comment, error) {
	var comments []Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("leave_id = ?", leaveID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Comment, error) {
	var c Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) Update(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Comment{}, "id = ?", id).Error
}
