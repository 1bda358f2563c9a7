package translator

import (
	"github.com/amimof/huego"

	"homewizard-client/internal/domain/model"
)

// HueStrategy converts the HomeWizard color (hue in degrees, saturation and
// brightness in percent) to the Hue API ranges.
type HueStrategy struct{}

func (s *HueStrategy) ToHue(sw model.Switch) *huego.State {
	state := &huego.State{On: sw.On, ColorMode: "hs"}
	if c := sw.Color; c != nil {
		state.Hue = uint16(scale(c.Hue, 360, 65535))
		state.Sat = uint8(scale(c.Saturation, 100, 254))
		state.Bri = uint8(scale(c.Brightness, 100, 254))
	}
	state.Reachable = true
	return state
}

func (s *HueStrategy) GetMetadata() Metadata {
	return Metadata{
		Type:             "Extended color light",
		ModelID:          "LCT001",
		ManufacturerName: "Philips",
	}
}
