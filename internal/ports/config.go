package ports

import (
	"context"

	"homewizard-client/internal/domain/model"
)

type ConfigRepository interface {
	Get(ctx context.Context) (*model.Config, error)
	Save(ctx context.Context, cfg *model.Config) error
}
