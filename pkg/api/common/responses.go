package common

import "net/http"

// ErrorResponse is the standard error envelope returned by the REST surface.
type ErrorResponse struct {
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

// NewErrorResponse builds an error envelope for an HTTP status code using
// the standard reason phrase.
func NewErrorResponse(code int) ErrorResponse {
	return ErrorResponse{Code: code, Reason: http.StatusText(code)}
}
