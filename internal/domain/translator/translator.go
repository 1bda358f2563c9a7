package translator

import (
	"strconv"

	"github.com/amimof/huego"

	"homewizard-client/internal/domain/model"
)

// Translator defines how a HomeWizard switch is presented as a Hue light
type Translator interface {
	ToHue(sw model.Switch) *huego.State
	GetMetadata() Metadata
}

// Metadata is the fixed part of a Hue light description.
type Metadata struct {
	Type             string
	ModelID          string
	ManufacturerName string
}

// Light builds the full Hue light for a switch using its kind's translator.
func (f *Factory) Light(sw model.Switch) huego.Light {
	t := f.GetTranslator(sw.Kind)
	meta := t.GetMetadata()
	return huego.Light{
		ID:               sw.ID,
		Name:             sw.Name,
		Type:             meta.Type,
		State:            t.ToHue(sw),
		ModelID:          meta.ModelID,
		UniqueID:         "homewizard-sw-" + strconv.Itoa(sw.ID),
		ManufacturerName: meta.ManufacturerName,
	}
}

// scale maps v from 0..from onto 0..to, clamping out-of-range input.
func scale(v, from, to int) int {
	if v <= 0 {
		return 0
	}
	if v >= from {
		return to
	}
	return v * to / from
}
