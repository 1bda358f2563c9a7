package translator

import (
	"github.com/amimof/huego"

	"homewizard-client/internal/domain/model"
)

type StandardStrategy struct{}

func (s *StandardStrategy) ToHue(sw model.Switch) *huego.State {
	state := &huego.State{On: sw.On}
	if sw.On {
		state.Bri = 254
	}
	state.Reachable = true
	return state
}

func (s *StandardStrategy) GetMetadata() Metadata {
	return Metadata{
		Type:             "On/Off plug-in unit",
		ModelID:          "LOM001",
		ManufacturerName: "HomeWizard",
	}
}
