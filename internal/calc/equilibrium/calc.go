package equilibrium

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	DefaultTemperature = 1200.0   // K
	DefaultPressure    = 101325.0 // Pa
)

var (
	DefaultElements = []string{"Fe", "C"}

	ErrInvalidInput = errors.New("invalid equilibrium input")
)

type Input struct {
	Temperature *float64           `json:"temperature"`
	Pressure    *float64           `json:"pressure"`
	Elements    []string           `json:"elements"`
	Composition map[string]float64 `json:"composition"`
}

type PhaseFraction struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type PhaseComposition struct {
	Name        string             `json:"name"`
	Composition map[string]float64 `json:"composition"`
}

type Properties struct {
	GibbsEnergy string `json:"gibbs_energy"`
	Enthalpy    string `json:"enthalpy"`
	Entropy     string `json:"entropy"`
}

type Conditions struct {
	T           float64            `json:"T"`
	P           float64            `json:"P"`
	Composition map[string]float64 `json:"composition"`
}

type Result struct {
	PhaseFractions    []PhaseFraction    `json:"phaseFractions"`
	PhaseCompositions []PhaseComposition `json:"phaseCompositions"`
	Properties        Properties         `json:"properties"`
	Conditions        Conditions         `json:"conditions"`
}

// Calculate fabricates a plausible two- or three-phase split. Fractions
// always sum to one; the values are drawn from rng.
func Calculate(in Input, rng *rand.Rand) (Result, error) {
	T, P := DefaultTemperature, DefaultPressure
	if in.Temperature != nil {
		T = *in.Temperature
	}
	if in.Pressure != nil {
		P = *in.Pressure
	}
	if !(T > 0) || math.IsInf(T, 0) {
		return Result{}, fmt.Errorf("%w: temperature %v", ErrInvalidInput, T)
	}
	if !(P > 0) || math.IsInf(P, 0) {
		return Result{}, fmt.Errorf("%w: pressure %v", ErrInvalidInput, P)
	}
	elements := in.Elements
	if len(elements) == 0 {
		elements = DefaultElements
	}
	composition := in.Composition
	if composition == nil {
		composition = map[string]float64{}
	}

	a := rng.Float64()*0.6 + 0.2
	b := (1 - a) * (rng.Float64() * 0.7)
	c := 1 - a - b

	fractions := []PhaseFraction{{"FCC_A1", a}, {"BCC_A2", b}, {"LIQUID", c}}
	if c <= 0.1 {
		fractions = []PhaseFraction{{"FCC_A1", a}, {"LIQUID", 1 - a}}
	}

	compositions := make([]PhaseComposition, len(fractions))
	for i, f := range fractions {
		comp := make(map[string]float64, len(elements))
		for _, el := range elements {
			comp[el] = round(rng.Float64()*0.8+0.1, 3)
		}
		compositions[i] = PhaseComposition{Name: f.Name, Composition: comp}
	}

	gibbs := -(T / 1000) * (rng.Float64()*50 + 10)
	enthalpy := T * (rng.Float64()*0.05 + 0.9)
	entropy := rng.Float64()*25 + 10

	return Result{
		PhaseFractions:    fractions,
		PhaseCompositions: compositions,
		Properties: Properties{
			GibbsEnergy: fmt.Sprintf("%.2f kJ/mol", gibbs),
			Enthalpy:    fmt.Sprintf("%.0f J/mol", enthalpy),
			Entropy:     fmt.Sprintf("%.2f J/mol·K", entropy),
		},
		Conditions: Conditions{T: T, P: P, Composition: composition},
	}, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
