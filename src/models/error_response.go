package models

// ErrorResponse - standard error body
type ErrorResponse struct {
	Status  int    `json:"status"`          // HTTP Status Code
	Message string `json:"message"`         // what went wrong
	Unmet   string `json:"unmet,omitempty"` // the specific failed precondition, if any
}
