package service

import (
	"context"
	"time"

	"homewizard-client/internal/domain/manager"
	"homewizard-client/internal/domain/model"
	"homewizard-client/internal/ports"
)

const pathTimers = "/timers"

// "response": [
//
//	{"id": 0, "gpid": 1, "type": "scene", "action": "off", "trigger": "sunrise", "time": "-0", "days": [0, 6], "active": "yes"},
//	{"id": 3, "swid": 3, "type": "switch", "action": "off", "trigger": "time", "time": "16:30", "days": [7], "active": "yes"}
//
// ]
type timerRecord struct {
	ID      flex   `json:"id"`
	GpID    flex   `json:"gpid"`
	SwID    flex   `json:"swid"`
	Type    string `json:"type"`
	Action  string `json:"action"`
	Trigger string `json:"trigger"`
	Time    string `json:"time"`
	Days    []int  `json:"days"`
	Active  flex   `json:"active"`
}

// toTimer converts a record. subject overrides the record's own type for
// timers listed under a scene, which omit it.
func (r timerRecord) toTimer(at origin, subject model.Subject, subjectID *int) (model.Timer, error) {
	id, err := r.ID.requireInt("id", at)
	if err != nil {
		return model.Timer{}, err
	}
	trigger, err := model.ParseTrigger(r.Trigger)
	if err != nil {
		return model.Timer{}, invalid(at, err)
	}
	action, err := model.ParseAction(r.Action)
	if err != nil {
		return model.Timer{}, invalid(at, err)
	}
	days, err := model.DaysFromAPI(r.Days)
	if err != nil {
		return model.Timer{}, invalid(at, err)
	}

	if subject == "" {
		if subject, err = model.ParseSubject(r.Type); err != nil {
			return model.Timer{}, invalid(at, err)
		}
	}
	if subjectID == nil {
		field, raw := "swid", r.SwID
		if subject == model.SubjectScene {
			field, raw = "gpid", r.GpID
		}
		n, err := raw.requireInt(field, at)
		if err != nil {
			return model.Timer{}, err
		}
		subjectID = &n
	}

	return model.Timer{
		Entity:       model.Entity{ID: id},
		Trigger:      trigger,
		Action:       action,
		Subject:      subject,
		SubjectID:    *subjectID,
		Active:       r.Active.Bool(),
		TimeOrOffset: r.Time,
		Days:         days,
	}, nil
}

// Timers carry no status feed; interval is normally -1.
func timerSource(conn ports.Connection, interval time.Duration) manager.Source[model.Timer] {
	return manager.Source[model.Timer]{
		Kind: "timer",
		List: func(ctx context.Context) ([]model.Timer, error) {
			payload, err := conn.Execute(ctx, model.NewRequest(pathTimers))
			if err != nil {
				return nil, err
			}
			var records []timerRecord
			if err := decode(payload, pathTimers, &records); err != nil {
				return nil, err
			}
			out := make([]model.Timer, 0, len(records))
			for _, r := range records {
				t, err := r.toTimer(origin{pathTimers, payload}, "", nil)
				if err != nil {
					return nil, err
				}
				out = append(out, t)
			}
			return out, nil
		},
		Interval: interval,
	}
}
