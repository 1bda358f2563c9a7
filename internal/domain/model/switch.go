package model

type SwitchKind string

const (
	SwitchKindStandard SwitchKind = "switch"
	SwitchKindDimmer   SwitchKind = "dimmer"
	SwitchKindHue      SwitchKind = "hue"
)

// HueColor is the color of a Hue bulb as the HomeWizard reports it.
type HueColor struct {
	Hue        int `json:"hue"`
	Saturation int `json:"sat"`
	Brightness int `json:"bri"`
}

// Switch covers every switchable output. Kind selects which of the optional
// fields are meaningful: DimLevel for dimmers, Color for Hue bulbs.
type Switch struct {
	Entity
	Kind     SwitchKind `json:"type"`
	On       bool       `json:"on"`
	DimLevel int        `json:"dim_level,omitempty"`
	Color    *HueColor  `json:"color,omitempty"`
}
