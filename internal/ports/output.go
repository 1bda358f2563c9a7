package ports

import (
	"context"
	"encoding/json"

	"homewizard-client/internal/domain/model"
)

// Transport performs one raw HTTP exchange with the device.
type Transport interface {
	Do(ctx context.Context, method model.Method, url string) (string, error)
}

// Connection executes request descriptors against the device and returns the
// validated payload.
type Connection interface {
	Execute(ctx context.Context, req model.Request) (json.RawMessage, error)
}
