package service

import (
	"context"
	"fmt"
	"time"

	"homewizard-client/internal/domain/manager"
	"homewizard-client/internal/domain/model"
	"homewizard-client/internal/ports"
)

const pathSceneList = "/gplist"

type sceneRecord struct {
	ID       flex   `json:"id"`
	Name     string `json:"name"`
	Favorite flex   `json:"favorite"`
}

// Scenes carry no status feed; interval is normally -1.
func sceneSource(conn ports.Connection, interval time.Duration) manager.Source[model.Scene] {
	return manager.Source[model.Scene]{
		Kind: "scene",
		List: func(ctx context.Context) ([]model.Scene, error) {
			payload, err := conn.Execute(ctx, model.NewRequest(pathSceneList))
			if err != nil {
				return nil, err
			}
			var records []sceneRecord
			if err := decode(payload, pathSceneList, &records); err != nil {
				return nil, err
			}
			out := make([]model.Scene, 0, len(records))
			for _, r := range records {
				id, err := r.ID.requireInt("id", origin{pathSceneList, payload})
				if err != nil {
					return nil, err
				}
				out = append(out, model.Scene{
					Entity: model.Entity{ID: id, Name: r.Name, Favorite: r.Favorite.Bool()},
				})
			}
			return out, nil
		},
		Interval: interval,
	}
}

// {"type": "switch", "id": 3, "name": "Lamp", "onstatus": 1, "offstatus": 0, "dimmer": "no"}
type sceneSwitchRecord struct {
	Type      string `json:"type"`
	ID        flex   `json:"id"`
	Name      string `json:"name"`
	OnStatus  flex   `json:"onstatus"`
	OffStatus flex   `json:"offstatus"`
	Dimmer    flex   `json:"dimmer"`
}

func (r sceneSwitchRecord) toSceneSwitch(at origin) (model.SceneSwitch, error) {
	if r.Type != "switch" {
		return model.SceneSwitch{}, at.fail(fmt.Sprintf("unknown scene switch type %q", r.Type), nil)
	}
	id, err := r.ID.requireInt("id", at)
	if err != nil {
		return model.SceneSwitch{}, err
	}
	on, err := model.ActionFromNumber(intOr(r.OnStatus.Int(), -1))
	if err != nil {
		return model.SceneSwitch{}, invalid(at, err)
	}
	off, err := model.ActionFromNumber(intOr(r.OffStatus.Int(), -1))
	if err != nil {
		return model.SceneSwitch{}, invalid(at, err)
	}
	return model.SceneSwitch{ID: id, Name: r.Name, OnAction: on, OffAction: off, Dimmer: r.Dimmer.Bool()}, nil
}

// SceneDetail loads the codes, switches and timers configured for a scene.
func (s *System) SceneDetail(ctx context.Context, sceneID int) (*model.SceneDetail, error) {
	detail := &model.SceneDetail{SceneID: sceneID}

	codesPath := fmt.Sprintf("/gp/get/%d/codes", sceneID)
	payload, err := s.conn.Execute(ctx, model.NewRequest("/gp/get/", sceneID, "/codes"))
	if err != nil {
		return nil, err
	}
	if err := decode(payload, codesPath, &detail.Codes); err != nil {
		return nil, err
	}

	switchesPath := fmt.Sprintf("/gp/get/%d/switches", sceneID)
	payload, err = s.conn.Execute(ctx, model.NewRequest("/gp/get/", sceneID, "/switches"))
	if err != nil {
		return nil, err
	}
	var switches []sceneSwitchRecord
	if err := decode(payload, switchesPath, &switches); err != nil {
		return nil, err
	}
	detail.Switches = make([]model.SceneSwitch, 0, len(switches))
	for _, r := range switches {
		sw, err := r.toSceneSwitch(origin{switchesPath, payload})
		if err != nil {
			return nil, err
		}
		detail.Switches = append(detail.Switches, sw)
	}

	timersPath := fmt.Sprintf("/gp/get/%d/timers", sceneID)
	payload, err = s.conn.Execute(ctx, model.NewRequest("/gp/get/", sceneID, "/timers"))
	if err != nil {
		return nil, err
	}
	var timers []timerRecord
	if err := decode(payload, timersPath, &timers); err != nil {
		return nil, err
	}
	detail.Timers = make([]model.Timer, 0, len(timers))
	for _, r := range timers {
		t, err := r.toTimer(origin{timersPath, payload}, model.SubjectScene, &sceneID)
		if err != nil {
			return nil, err
		}
		detail.Timers = append(detail.Timers, t)
	}

	return detail, nil
}
