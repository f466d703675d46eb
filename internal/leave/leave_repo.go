package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leaveflow/internal/policy"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context) ([]Leave, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]Leave, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	TransitionStatus(ctx context.Context, id string, from, to policy.Status, decidedBy uuid.UUID, notes *string, decidedAt time.Time) (bool, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&l, "id = ?", id).Error
	return &l, err
}

// TransitionStatus performs the compare-and-set lifecycle move: the row is
// written only while its status still equals from. Under concurrent
// reviewers exactly one UPDATE matches; false tells the caller it lost the
// race (or the leave was already decided).
func (r *repository) TransitionStatus(ctx context.Context, id string, from, to policy.Status, decidedBy uuid.UUID, notes *string, decidedAt time.Time) (bool, error) {
	const query = `
UPDATE leaves
SET status = $1,
    reviewer_notes = $2,
    decided_by = $3,
    decided_at = $4,
    updated_at = NOW()
WHERE id = $5
  AND status = $6
`
	res, err := r.execer().ExecContext(ctx, query, string(to), notes, decidedBy, decidedAt, id, string(from))
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
