package service

import (
	"context"
	"time"

	"homewizard-client/internal/domain/manager"
	"homewizard-client/internal/domain/model"
	"homewizard-client/internal/ports"
)

const (
	pathSwitchList = "/swlist"
	pathStatus     = "/get-status"
)

// "response": [
//
//	{"id": 0, "status": "on", "name": "Lounge", "type": "switch", "favorite": "yes"},
//	{"id": 1, "status": "off", "name": "Table", "type": "dimmer", "dimlevel": 40, "favorite": "no"},
//	{"id": 2, "status": "on", "name": "Desk", "type": "hue", "color": {"hue": 180, "sat": 100, "bri": 80}}
//
// ]
type switchRecord struct {
	ID       flex            `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Status   flex            `json:"status"`
	Dimmer   flex            `json:"dimmer"`
	DimLevel flex            `json:"dimlevel"`
	Favorite flex            `json:"favorite"`
	Color    *model.HueColor `json:"color"`
}

// kind picks the variant from the type discriminator. Firmware without a
// type field only tells dimmers apart through "dimmer": "yes".
func (r switchRecord) kind() model.SwitchKind {
	switch model.SwitchKind(r.Type) {
	case model.SwitchKindDimmer, model.SwitchKindHue, model.SwitchKindStandard:
		return model.SwitchKind(r.Type)
	}
	if r.Dimmer.Bool() {
		return model.SwitchKindDimmer
	}
	return model.SwitchKindStandard
}

func switchSource(conn ports.Connection, status statusFetcher, interval time.Duration) manager.Source[model.Switch] {
	return manager.Source[model.Switch]{
		Kind: "switch",
		List: func(ctx context.Context) ([]model.Switch, error) {
			payload, err := conn.Execute(ctx, model.NewRequest(pathSwitchList))
			if err != nil {
				return nil, err
			}
			var records []switchRecord
			if err := decode(payload, pathSwitchList, &records); err != nil {
				return nil, err
			}
			out := make([]model.Switch, 0, len(records))
			for _, r := range records {
				id, err := r.ID.requireInt("id", origin{pathSwitchList, payload})
				if err != nil {
					return nil, err
				}
				sw := model.Switch{
					Entity: model.Entity{ID: id, Name: r.Name, Favorite: r.Favorite.Bool()},
					Kind:   r.kind(),
					On:     r.Status.Bool(),
				}
				switch sw.Kind {
				case model.SwitchKindDimmer:
					sw.DimLevel = intOr(r.DimLevel.Int(), 0)
				case model.SwitchKindHue:
					sw.Color = r.Color
				}
				out = append(out, sw)
			}
			return out, nil
		},
		Status: func(ctx context.Context) ([]manager.Patch[model.Switch], error) {
			records, at, err := statusMember[switchRecord](ctx, status, "switches")
			if err != nil {
				return nil, err
			}
			patches := make([]manager.Patch[model.Switch], 0, len(records))
			for _, r := range records {
				id, err := r.ID.requireInt("id", at)
				if err != nil {
					return nil, err
				}
				on := r.Status.Bool()
				dim := r.DimLevel.Int()
				color := r.Color
				patches = append(patches, manager.Patch[model.Switch]{
					ID: id,
					Apply: func(sw *model.Switch) {
						sw.On = on
						if dim != nil && sw.Kind == model.SwitchKindDimmer {
							sw.DimLevel = *dim
						}
						if color != nil && sw.Kind == model.SwitchKindHue {
							sw.Color = color
						}
					},
				})
			}
			return patches, nil
		},
		Interval: interval,
	}
}
