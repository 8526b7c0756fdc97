// Package spectatorapi exposes a running simulation to HTTP and websocket
// spectators.
package spectatorapi

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RunInfoResponse describes the run being served.
type RunInfoResponse struct {
	RunID      string `json:"run_id"`
	State      string `json:"state"`
	Ticks      int    `json:"ticks"`
	Spectators int    `json:"spectators"`
}
