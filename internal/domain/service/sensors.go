package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"homewizard-client/internal/domain/manager"
	"homewizard-client/internal/domain/model"
	"homewizard-client/internal/ports"
)

const (
	pathSensors     = "/get-sensors"
	sensorLogLayout = "2006-01-02 15:04:05"
)

// "kakusensors": [
//
//	{"id": 0, "name": "Front door", "status": null, "type": "doorbell", "favorite": "no", "timestamp": "00:00"},
//	{"id": 1, "name": "Back door", "status": "yes", "type": "contact", "favorite": "no", "timestamp": "10:22"}
//
// ]
type sensorRecord struct {
	ID        flex   `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Status    flex   `json:"status"`
	Favorite  flex   `json:"favorite"`
	Timestamp string `json:"timestamp"`
}

// lastEvent is only meaningful once the sensor reported a status.
func (r sensorRecord) lastEvent() string {
	if r.Status.IsNull() {
		return ""
	}
	return r.Timestamp
}

func sensorSource(conn ports.Connection, status statusFetcher, interval time.Duration) manager.Source[model.Sensor] {
	return manager.Source[model.Sensor]{
		Kind: "sensor",
		List: func(ctx context.Context) ([]model.Sensor, error) {
			payload, err := conn.Execute(ctx, model.NewRequest(pathSensors))
			if err != nil {
				return nil, err
			}
			records, err := member[sensorRecord](payload, pathSensors, "kakusensors")
			if err != nil {
				return nil, err
			}
			out := make([]model.Sensor, 0, len(records))
			for _, r := range records {
				id, err := r.ID.requireInt("id", origin{pathSensors, payload})
				if err != nil {
					return nil, err
				}
				out = append(out, model.Sensor{
					Entity:        model.Entity{ID: id, Name: r.Name, Favorite: r.Favorite.Bool()},
					Type:          model.SensorType(r.Type),
					On:            r.Status.Bool(),
					LastEventTime: r.lastEvent(),
				})
			}
			return out, nil
		},
		Status: func(ctx context.Context) ([]manager.Patch[model.Sensor], error) {
			records, at, err := statusMember[sensorRecord](ctx, status, "kakusensors")
			if err != nil {
				return nil, err
			}
			patches := make([]manager.Patch[model.Sensor], 0, len(records))
			for _, r := range records {
				id, err := r.ID.requireInt("id", at)
				if err != nil {
					return nil, err
				}
				on, last := r.Status.Bool(), r.lastEvent()
				patches = append(patches, manager.Patch[model.Sensor]{
					ID: id,
					Apply: func(s *model.Sensor) {
						s.On = on
						s.LastEventTime = last
					},
				})
			}
			return patches, nil
		},
		Interval: interval,
	}
}

// "response": [
//
//	{"t": "2013-07-16 22:15:04", "status": "no"},
//	{"t": "2013-07-16 22:15:11", "status": "yes"}
//
// ]
type sensorLogRecord struct {
	T      string `json:"t"`
	Status flex   `json:"status"`
}

// SensorLog returns the event log of a sensor, oldest first.
func (s *System) SensorLog(ctx context.Context, sensorID int) ([]model.SensorEvent, error) {
	path := fmt.Sprintf("/kks/get/%d/log", sensorID)
	req := model.NewRequest("/kks/get/", sensorID, "/log")
	if d := model.Interval(s.cfg.UpdateIntervals.Sensor); d > 0 {
		req = req.WithMaxAge(d)
	}

	payload, err := s.conn.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	var records []sensorLogRecord
	if err := decode(payload, path, &records); err != nil {
		return nil, err
	}

	events := make([]model.SensorEvent, 0, len(records))
	for _, r := range records {
		ts, err := time.ParseInLocation(sensorLogLayout, r.T, s.location)
		if err != nil {
			return nil, invalid(origin{path, payload}, err)
		}
		events = append(events, model.SensorEvent{Time: ts, On: r.Status.Bool()})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	return events, nil
}
