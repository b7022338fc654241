// Package api holds the wire types shared across handlers and referenced by
// the swagger annotations.
package api

// ErrorResponse is the uniform error envelope every endpoint returns.
type ErrorResponse struct {
	Error string `json:"error" example:"membership not found"`
}

// MessageResponse acknowledges an action that has no payload to return.
type MessageResponse struct {
	Message string `json:"message" example:"payment registered"`
}

// HealthResponse reports liveness and the state of the database behind it.
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}
