package deploy

import "github.com/autodev/autodev/internal/api"

// DeployResultMsg reports the outcome of POST /deploy for submission Run.
type DeployResultMsg struct {
	Run uint64
	Err error
}

// StatusResultMsg reports the outcome of one GET /status poll.
type StatusResultMsg struct {
	Epoch    uint64
	Seq      uint64
	Response *api.StatusResponse
	Err      error
}

// StopResultMsg reports the outcome of POST /stop.
type StopResultMsg struct {
	Err error
}
