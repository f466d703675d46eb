package auth

import "leaveflow/internal/policy"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type Profile struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	LeaveBalance int    `json:"leave_balance"`
}

type LoginResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         Profile `json:"user"`
}

// MeResponse carries the profile plus the capability set the frontend uses
// to derive its menu.
type MeResponse struct {
	Profile
	Capabilities []policy.Capability `json:"capabilities"`
}
