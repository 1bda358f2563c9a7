package model

type Scene struct {
	Entity
}

// SceneSwitch is a switch as configured inside a scene.
type SceneSwitch struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	OnAction  Action `json:"on_action"`
	OffAction Action `json:"off_action"`
	Dimmer    bool   `json:"dimmer"`
}

type SceneDetail struct {
	SceneID  int           `json:"scene_id"`
	Codes    []string      `json:"codes"`
	Switches []SceneSwitch `json:"switches"`
	Timers   []Timer       `json:"timers"`
}
