package api

import "context"

// Client talks to the deployment engine. One job runs at a time, so none of
// the calls take a job identifier.
type Client interface {
	// Deploy asks the engine to start a deployment. Only the acknowledgment is awaited.
	Deploy(ctx context.Context, req DeployRequest) error

	// GetStatus returns the current job status and the engine's log buffer.
	GetStatus(ctx context.Context) (*StatusResponse, error)

	// Stop asks the engine to halt the current job.
	Stop(ctx context.Context) error
}
