package application

import "context"

// Worker runs a recurring job until the context is canceled.
type Worker interface {
	Start(ctx context.Context)
}
