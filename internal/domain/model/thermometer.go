package model

import (
	"fmt"
	"time"
)

type Thermometer struct {
	Entity
	Channel     int      `json:"channel"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *int     `json:"humidity,omitempty"`

	MinTemperature     *float64 `json:"min_temperature,omitempty"`
	MinTemperatureTime string   `json:"min_temperature_time,omitempty"`
	MaxTemperature     *float64 `json:"max_temperature,omitempty"`
	MaxTemperatureTime string   `json:"max_temperature_time,omitempty"`
	MinHumidity        *int     `json:"min_humidity,omitempty"`
	MinHumidityTime    string   `json:"min_humidity_time,omitempty"`
	MaxHumidity        *int     `json:"max_humidity,omitempty"`
	MaxHumidityTime    string   `json:"max_humidity_time,omitempty"`
}

type TimeSpan string

const (
	TimeSpanDay   TimeSpan = "day"
	TimeSpanWeek  TimeSpan = "week"
	TimeSpanMonth TimeSpan = "month"
	TimeSpanYear  TimeSpan = "year"
)

func ParseTimeSpan(s string) (TimeSpan, error) {
	switch ts := TimeSpan(s); ts {
	case TimeSpanDay, TimeSpanWeek, TimeSpanMonth, TimeSpanYear:
		return ts, nil
	}
	return "", fmt.Errorf("unknown time span %q", s)
}

// TimeValue is a history data point. Max is set for aggregated spans, where
// Value holds the minimum.
type TimeValue[V int | float64] struct {
	Time  time.Time `json:"time"`
	Value V         `json:"value"`
	Max   *V        `json:"max,omitempty"`
}

type ThermometerHistory struct {
	Temperature []TimeValue[float64] `json:"temperature"`
	Humidity    []TimeValue[int]     `json:"humidity"`
}
