package user

import "time"

type CreateUserRequest struct {
	EmployeeID   string  `json:"employee_id" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=6"`
	FirstName    string  `json:"first_name" binding:"required"`
	LastName     string  `json:"last_name" binding:"required"`
	Role         string  `json:"role" binding:"required,oneof=employee manager admin"`
	Department   *string `json:"department"`
	ManagerID    *string `json:"manager_id" binding:"omitempty,uuid"`
	LeaveBalance *int    `json:"leave_balance" binding:"omitempty,min=0"`
}

type UpdateUserRequest struct {
	FirstName    string  `json:"first_name" binding:"required"`
	LastName     string  `json:"last_name" binding:"required"`
	Role         string  `json:"role" binding:"required,oneof=employee manager admin"`
	Department   *string `json:"department"`
	ManagerID    *string `json:"manager_id" binding:"omitempty,uuid"`
	LeaveBalance *int    `json:"leave_balance" binding:"omitempty,min=0"`
}

type UserResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Role         string  `json:"role"`
	Department   *string `json:"department,omitempty"`
	ManagerID    *string `json:"manager_id,omitempty"`
	LeaveBalance int     `json:"leave_balance"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:           u.ID.String(),
		EmployeeID:   u.EmployeeID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		Department:   u.Department,
		LeaveBalance: u.LeaveBalance,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
	if u.ManagerID != nil {
		v := u.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
