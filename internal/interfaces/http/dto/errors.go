package dto

import "net/http"

// Transport-level error codes. Domain errors keep the code they were
// declared with.
const (
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeValidation       = "VALIDATION_FAILED"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInvalidToken     = "INVALID_TOKEN"
	ErrCodeSessionExpired   = "SESSION_EXPIRED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodeRouteNotFound    = "ROUTE_NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP statuses. Codes not listed
// are treated as business-rule failures when they come from the domain.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeInvalidToken:     http.StatusUnauthorized,
	ErrCodeSessionExpired:   http.StatusUnauthorized,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeInvalidSignature: http.StatusBadRequest,
	ErrCodeRouteNotFound:    http.StatusNotFound,
	ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,

	// validation
	ErrCodeValidation:                 http.StatusBadRequest,
	ErrCodeInvalidJSON:                http.StatusBadRequest,
	"INVALID_INPUT":                   http.StatusBadRequest,
	"INVALID_ACTION":                  http.StatusBadRequest,
	"INVALID_CLASS":                   http.StatusBadRequest,
	"INVALID_PLACEMENT":               http.StatusBadRequest,
	"INVALID_QUANTITY":                http.StatusBadRequest,
	"EMPTY_CLASS_SELECTION":           http.StatusBadRequest,
	"DOG_REQUIRED":                    http.StatusBadRequest,
	"JUNIOR_HANDLER_DETAILS_REQUIRED": http.StatusBadRequest,

	// conflict
	"ALREADY_EXISTS":        http.StatusConflict,
	"DUPLICATE_ENTRY":       http.StatusConflict,
	"DUPLICATE_ENTRY_CLASS": http.StatusConflict,
	"CONTRACT_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT":  http.StatusConflict,
	"ALREADY_RESPONDED":     http.StatusConflict,
	"SUNDRY_CAP_EXCEEDED":   http.StatusConflict,

	// not found
	"NOT_FOUND":          http.StatusNotFound,
	"SHOW_NOT_FOUND":     http.StatusNotFound,
	"DOG_NOT_FOUND":      http.StatusNotFound,
	"ENTRY_NOT_FOUND":    http.StatusNotFound,
	"ORDER_NOT_FOUND":    http.StatusNotFound,
	"PAYMENT_NOT_FOUND":  http.StatusNotFound,
	"SUNDRY_NOT_FOUND":   http.StatusNotFound,
	"CONTRACT_NOT_FOUND": http.StatusNotFound,
	"TOKEN_NOT_FOUND":    http.StatusNotFound,

	// forbidden
	ErrCodeForbidden: http.StatusForbidden,
	"DOG_NOT_OWNED":  http.StatusForbidden,

	// business rules
	"INVALID_STATE":         http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":    http.StatusUnprocessableEntity,
	"ENTRIES_NOT_OPEN":      http.StatusUnprocessableEntity,
	"ENTRY_NOT_AMENDABLE":   http.StatusUnprocessableEntity,
	"ORDER_NOT_RESUMABLE":   http.StatusUnprocessableEntity,
	"SUNDRY_DISABLED":       http.StatusUnprocessableEntity,
	"REFUND_UNAVAILABLE":    http.StatusUnprocessableEntity,
	"PAYMENT_NOT_RESUMABLE": http.StatusConflict,

	"TOKEN_EXPIRED":               http.StatusGone,
	"PAYMENT_GATEWAY_UNAVAILABLE": http.StatusBadGateway,
}

// GetHTTPStatus returns the status for a domain error code. Unknown codes
// are business-rule violations.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
