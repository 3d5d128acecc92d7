// Package handlers defines HTTP-layer error codes used across endpoints.
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on messages.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
