package commenterrors

import (
	"net/http"

	"leaveflow/internal/shared/apperror"
)

var (
	ErrInvalidCommentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid comment id",
		http.StatusBadRequest,
	)
	ErrCommentNotFound = apperror.New(
		apperror.CodeNotFound,
		"comment not found",
		http.StatusNotFound,
	)
	ErrEmptyComment = apperror.New(
		apperror.CodeInvalidInput,
		"comment_text must not be empty",
		http.StatusBadRequest,
	)
	ErrNotAuthor = apperror.New(
		apperror.CodeForbidden,
		"only the author may modify a comment",
		http.StatusForbidden,
	)
)
