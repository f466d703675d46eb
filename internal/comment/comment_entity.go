package comment

import (
	"time"

	"github.com/google/uuid"

	"leaveflow/internal/user"
)

type Comment struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveID uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_leave"`
	UserID  uuid.UUID `gorm:"type:uuid;not null"`

	CommentText string `gorm:"type:text;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User *user.User `gorm:"foreignKey:UserID"`
}
