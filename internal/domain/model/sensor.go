package model

import "time"

type SensorType string

const (
	SensorContact  SensorType = "contact"
	SensorSmoke    SensorType = "smoke"
	SensorDoorbell SensorType = "doorbell"
	SensorMotion   SensorType = "motion"
)

type Sensor struct {
	Entity
	Type SensorType `json:"type"`
	On   bool       `json:"on"`
	// LastEventTime is the device's own "HH:MM" marker, empty when the sensor
	// never reported.
	LastEventTime string `json:"last_event_time,omitempty"`
}

// SensorEvent is one entry of a sensor's event log.
type SensorEvent struct {
	Time time.Time `json:"time"`
	On   bool      `json:"on"`
}
