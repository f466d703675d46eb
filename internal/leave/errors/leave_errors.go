package leaveerrors

import (
	"net/http"

	"leaveflow/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be one of vacation, sick, personal",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must not be before start_date",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrViewForbidden = apperror.New(
		apperror.CodeForbidden,
		"you may not view this leave request",
		http.StatusForbidden,
	)
	ErrNotReviewer = apperror.New(
		apperror.CodeForbidden,
		"only managers and admins may review leave requests",
		http.StatusForbidden,
	)
	ErrSelfReview = apperror.New(
		apperror.CodeForbidden,
		"you may not review your own leave request",
		http.StatusForbidden,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been decided",
		http.StatusConflict,
	)
	ErrReviewerNotesRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reviewer_notes is required when rejecting",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeConflict,
		"employee does not have enough leave balance",
		http.StatusConflict,
	)
)
