package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leaveflow/internal/policy"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password   string    `gorm:"type:varchar(255);not null"`
	FirstName  string    `gorm:"type:varchar(100);not null"`
	LastName   string    `gorm:"type:varchar(100);not null"`

	Role       string     `gorm:"type:varchar(20);not null;default:'employee'"`
	Department *string    `gorm:"type:varchar(100)"`
	ManagerID  *uuid.UUID `gorm:"type:uuid"`

	LeaveBalance int  `gorm:"type:int;not null;default:20"`
	IsActive     bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// PolicyRole converts the stored role string into the closed policy enum.
func (u *User) PolicyRole() (policy.Role, bool) {
	return policy.ParseRole(u.Role)
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
