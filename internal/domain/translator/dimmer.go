package translator

import (
	"github.com/Knetic/govaluate"
	"github.com/amimof/huego"

	"homewizard-client/internal/domain/model"
)

// DimmerStrategy maps the 0-100 dim level onto Hue brightness, linearly or
// through a configured formula in x.
type DimmerStrategy struct {
	Formula string
}

func (s *DimmerStrategy) ToHue(sw model.Switch) *huego.State {
	state := &huego.State{On: sw.On}
	bri := float64(scale(sw.DimLevel, 100, 254))
	if s.Formula != "" {
		bri = s.evaluate(s.Formula, float64(sw.DimLevel), bri)
	}
	switch {
	case bri < 0:
		bri = 0
	case bri > 254:
		bri = 254
	}
	state.Bri = uint8(bri)
	state.Reachable = true
	return state
}

func (s *DimmerStrategy) GetMetadata() Metadata {
	return Metadata{
		Type:             "Dimmable light",
		ModelID:          "LWB004",
		ManufacturerName: "HomeWizard",
	}
}

// evaluate handles simple formulas like "x * 2.54" and returns fallback when
// the formula cannot be evaluated.
func (s *DimmerStrategy) evaluate(formula string, x, fallback float64) float64 {
	expression, err := govaluate.NewEvaluableExpression(formula)
	if err != nil {
		return fallback
	}
	parameters := make(map[string]interface{}, 1)
	parameters["x"] = x

	result, err := expression.Evaluate(parameters)
	if err != nil {
		return fallback
	}

	if val, ok := result.(float64); ok {
		return val
	}
	return fallback
}
