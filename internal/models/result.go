package models

// ErrorResponse is the error contract returned to the front end.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
