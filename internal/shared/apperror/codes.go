package apperror

// Machine-readable error codes carried in the response envelope. Clients
// branch on these, so the set is append-only.
const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	// CodeInvalidState marks a request that is well-formed and authorized
	// but arrives after the resource left the state it targets, e.g. a
	// decision on an already decided leave.
	CodeInvalidState = "INVALID_STATE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
