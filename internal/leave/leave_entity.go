package leave

import (
	"time"

	"github.com/google/uuid"

	"leaveflow/internal/user"
)

const (
	TypeVacation = "vacation"
	TypeSick     = "sick"
	TypePersonal = "personal"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text;not null"`

	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leaves_status"`
	ReviewerNotes *string    `gorm:"type:text"`
	DecidedBy     *uuid.UUID `gorm:"type:uuid"`
	DecidedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *user.User `gorm:"foreignKey:EmployeeID"`
}
