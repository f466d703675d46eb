package usererrors

import (
	"net/http"

	"leaveflow/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"email is already registered",
		http.StatusConflict,
	)
	ErrEmployeeIDTaken = apperror.New(
		apperror.CodeConflict,
		"employee_id is already registered",
		http.StatusConflict,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be one of employee, manager, admin",
		http.StatusBadRequest,
	)
	ErrNegativeBalance = apperror.New(
		apperror.CodeInvalidInput,
		"leave_balance must not be negative",
		http.StatusBadRequest,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"manager_id does not reference an existing user",
		http.StatusBadRequest,
	)
	ErrManagerRoleRequired = apperror.New(
		apperror.CodeInvalidInput,
		"manager_id must reference a user with the manager role",
		http.StatusBadRequest,
	)
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"user management requires the admin role",
		http.StatusForbidden,
	)
)
