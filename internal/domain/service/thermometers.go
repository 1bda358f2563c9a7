package service

import (
	"context"
	"fmt"
	"time"

	"homewizard-client/internal/domain/manager"
	"homewizard-client/internal/domain/model"
	"homewizard-client/internal/ports"
)

const graphLayout = "2006-01-02 15:04"

// "thermometers": [
//
//	{"id": 0, "hu": null, "name": "Inside", "te": null, "favorite": "no", "channel": 2},
//	{"id": 1, "hu": 72, "name": "Outside", "te": 15.5, "favorite": "no", "channel": 1,
//	 "te+t": "12:53", "te+": 21.4, "te-": 13, "te-t": "06:39",
//	 "hu+t": "07:24", "hu+": 78, "hu-": 60, "hu-t": "13:11"}
//
// ]
type thermometerRecord struct {
	ID       flex   `json:"id"`
	Name     string `json:"name"`
	Favorite flex   `json:"favorite"`
	Channel  flex   `json:"channel"`
	Te       flex   `json:"te"`
	Hu       flex   `json:"hu"`
	TeMax    flex   `json:"te+"`
	TeMaxT   string `json:"te+t"`
	TeMin    flex   `json:"te-"`
	TeMinT   string `json:"te-t"`
	HuMax    flex   `json:"hu+"`
	HuMaxT   string `json:"hu+t"`
	HuMin    flex   `json:"hu-"`
	HuMinT   string `json:"hu-t"`
}

// applyReadings copies the current values and, when reported, the extremes.
func (r thermometerRecord) applyReadings(t *model.Thermometer) {
	t.Temperature = r.Te.Float()
	t.Humidity = r.Hu.Int()
	if v := r.TeMin.Float(); v != nil {
		t.MinTemperature, t.MinTemperatureTime = v, r.TeMinT
	}
	if v := r.TeMax.Float(); v != nil {
		t.MaxTemperature, t.MaxTemperatureTime = v, r.TeMaxT
	}
	if v := r.HuMin.Int(); v != nil {
		t.MinHumidity, t.MinHumidityTime = v, r.HuMinT
	}
	if v := r.HuMax.Int(); v != nil {
		t.MaxHumidity, t.MaxHumidityTime = v, r.HuMaxT
	}
}

func thermometerSource(conn ports.Connection, status statusFetcher, interval time.Duration) manager.Source[model.Thermometer] {
	return manager.Source[model.Thermometer]{
		Kind: "thermometer",
		List: func(ctx context.Context) ([]model.Thermometer, error) {
			payload, err := conn.Execute(ctx, model.NewRequest(pathSensors))
			if err != nil {
				return nil, err
			}
			records, err := member[thermometerRecord](payload, pathSensors, "thermometers")
			if err != nil {
				return nil, err
			}
			out := make([]model.Thermometer, 0, len(records))
			for _, r := range records {
				id, err := r.ID.requireInt("id", origin{pathSensors, payload})
				if err != nil {
					return nil, err
				}
				t := model.Thermometer{
					Entity:  model.Entity{ID: id, Name: r.Name, Favorite: r.Favorite.Bool()},
					Channel: intOr(r.Channel.Int(), 0),
				}
				r.applyReadings(&t)
				out = append(out, t)
			}
			return out, nil
		},
		Status: func(ctx context.Context) ([]manager.Patch[model.Thermometer], error) {
			records, at, err := statusMember[thermometerRecord](ctx, status, "thermometers")
			if err != nil {
				return nil, err
			}
			patches := make([]manager.Patch[model.Thermometer], 0, len(records))
			for _, r := range records {
				id, err := r.ID.requireInt("id", at)
				if err != nil {
					return nil, err
				}
				patches = append(patches, manager.Patch[model.Thermometer]{
					ID:    id,
					Apply: r.applyReadings,
				})
			}
			return patches, nil
		},
		Interval: interval,
	}
}

// Data points come in two shapes: single values for short spans, min/max
// pairs for aggregated ones.
//
//	{"t": "2013-08-13 00:10", "te": 15.5, "hu": 66}
//	{"t": "2013-07-16 12:00", "te+": 26.9, "te-": 21.1, "hu+": 60, "hu-": 55}
type graphRecord struct {
	T     string `json:"t"`
	Te    flex   `json:"te"`
	Hu    flex   `json:"hu"`
	TeMax flex   `json:"te+"`
	TeMin flex   `json:"te-"`
	HuMax flex   `json:"hu+"`
	HuMin flex   `json:"hu-"`
}

// ThermometerHistory returns temperature and humidity history for span.
// Results are served from the response cache for the configured graph
// interval, which is shorter for the day span.
func (s *System) ThermometerHistory(ctx context.Context, thermometerID int, span model.TimeSpan) (*model.ThermometerHistory, error) {
	path := fmt.Sprintf("/te/graph/%d/%s", thermometerID, span)
	maxAge := model.Interval(s.cfg.UpdateIntervals.ThermoGraphOther)
	if span == model.TimeSpanDay {
		maxAge = model.Interval(s.cfg.UpdateIntervals.ThermoGraphDay)
	}
	req := model.NewRequest("/te/graph/", thermometerID, "/", span)
	if maxAge > 0 {
		req = req.WithMaxAge(maxAge)
	}

	payload, err := s.conn.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	var records []graphRecord
	if err := decode(payload, path, &records); err != nil {
		return nil, err
	}

	history := &model.ThermometerHistory{
		Temperature: make([]model.TimeValue[float64], 0, len(records)),
		Humidity:    make([]model.TimeValue[int], 0, len(records)),
	}
	at := origin{path, payload}
	for _, r := range records {
		ts, err := time.ParseInLocation(graphLayout, r.T, s.location)
		if err != nil {
			return nil, invalid(at, err)
		}

		te, hu := r.Te.Float(), r.Hu.Int()
		var teMax *float64
		var huMax *int
		if te == nil {
			te, teMax = r.TeMin.Float(), r.TeMax.Float()
			hu, huMax = r.HuMin.Int(), r.HuMax.Int()
		}
		if te == nil || hu == nil {
			return nil, at.fail("data point without values at "+r.T, nil)
		}

		history.Temperature = append(history.Temperature, model.TimeValue[float64]{Time: ts, Value: *te, Max: teMax})
		history.Humidity = append(history.Humidity, model.TimeValue[int]{Time: ts, Value: *hu, Max: huMax})
	}
	return history, nil
}
