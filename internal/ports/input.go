package ports

import (
	"context"

	"homewizard-client/internal/domain/model"
)

// EntityReader is what every per-kind manager offers to its callers.
// Lookups report a missing entity through the boolean, not an error.
type EntityReader[T any] interface {
	All(ctx context.Context) ([]T, error)
	ByID(ctx context.Context, id int) (T, bool, error)
	ByName(ctx context.Context, name string) (T, bool, error)
	Refresh(ctx context.Context) error
}

// SystemPort holds the lookups that do not belong to a single entity manager.
type SystemPort interface {
	Version(ctx context.Context) (string, error)
	SceneDetail(ctx context.Context, sceneID int) (*model.SceneDetail, error)
	SensorLog(ctx context.Context, sensorID int) ([]model.SensorEvent, error)
	ThermometerHistory(ctx context.Context, thermometerID int, span model.TimeSpan) (*model.ThermometerHistory, error)
}
