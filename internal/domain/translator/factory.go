package translator

import (
	"homewizard-client/internal/domain/model"
)

type Factory struct {
	strategies map[model.SwitchKind]Translator
}

// NewFactory builds the per-kind strategies. brightnessFormula may be empty.
func NewFactory(brightnessFormula string) *Factory {
	return &Factory{
		strategies: map[model.SwitchKind]Translator{
			model.SwitchKindStandard: &StandardStrategy{},
			model.SwitchKindDimmer:   &DimmerStrategy{Formula: brightnessFormula},
			model.SwitchKindHue:      &HueStrategy{},
		},
	}
}

func (f *Factory) GetTranslator(kind model.SwitchKind) Translator {
	if t, ok := f.strategies[kind]; ok {
		return t
	}
	return f.strategies[model.SwitchKindStandard]
}
