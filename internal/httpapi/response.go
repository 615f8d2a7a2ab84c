package httpapi

// ErrorResponse is the error body every service returns: a stable
// upper-snake code, a human message and optional detail.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
