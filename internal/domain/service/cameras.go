package service

import (
	"context"
	"time"

	"homewizard-client/internal/domain/manager"
	"homewizard-client/internal/domain/model"
	"homewizard-client/internal/ports"
)

// "cameras": [
//
//	{"id": 0, "name": "Drive", "username": "a", "password": "a", "ip": "192.168.88.244", "port": "80", "presets": []}
//
// ]
type cameraRecord struct {
	ID       flex   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	IP       string `json:"ip"`
	Port     flex   `json:"port"`
}

func cameraSource(conn ports.Connection, interval time.Duration) manager.Source[model.Camera] {
	return manager.Source[model.Camera]{
		Kind: "camera",
		List: func(ctx context.Context) ([]model.Camera, error) {
			payload, err := conn.Execute(ctx, model.NewRequest(pathSensors))
			if err != nil {
				return nil, err
			}
			records, err := member[cameraRecord](payload, pathSensors, "cameras")
			if err != nil {
				return nil, err
			}
			out := make([]model.Camera, 0, len(records))
			for _, r := range records {
				id, err := r.ID.requireInt("id", origin{pathSensors, payload})
				if err != nil {
					return nil, err
				}
				out = append(out, model.Camera{
					Entity:   model.Entity{ID: id, Name: r.Name},
					Username: r.Username,
					Password: r.Password,
					Host:     r.IP,
					Port:     intOr(r.Port.Int(), 80),
				})
			}
			return out, nil
		},
		Interval: interval,
	}
}
