package phasediagram

import (
	"errors"
	"math"
	"math/rand/v2"
)

const (
	DefaultTMin = 900.0
	DefaultTMax = 1800.0

	curvePoints   = 41
	scatterPoints = 60
)

var ErrInvalidRange = errors.New("temperature range: min must be below max")

type Phase string

const (
	Liquid Phase = "liquid"
	Mixed  Phase = "mixed"
	Solid  Phase = "solid"
)

type Input struct {
	TMin float64 `json:"t_min"`
	TMax float64 `json:"t_max"`
}

type CurvePoint struct {
	Composition float64 `json:"composition"` // at% of the second element
	Liquidus    float64 `json:"liquidus"`
	Solidus     float64 `json:"solidus"`
}

type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Phase Phase   `json:"phase"`
	Size  float64 `json:"size"`
}

type Result struct {
	PhaseData   []CurvePoint     `json:"phaseData"`
	ScatterData []ScatterPoint   `json:"scatterData"`
	Phases      map[Phase]string `json:"phases"`
}

// Generate draws a parametric liquidus/solidus pair and a random cloud of
// labelled points. It is a display mock, not a Gibbs-energy minimization;
// rng makes it replayable.
func Generate(in Input, rng *rand.Rand) (Result, error) {
	if in.TMin == 0 && in.TMax == 0 {
		in.TMin, in.TMax = DefaultTMin, DefaultTMax
	}
	if in.TMin >= in.TMax || math.IsNaN(in.TMin) || math.IsNaN(in.TMax) {
		return Result{}, ErrInvalidRange
	}
	minT, maxT := in.TMin, in.TMax
	dT := maxT - minT

	curve := make([]CurvePoint, curvePoints)
	for i := range curve {
		x := float64(i) / float64(curvePoints-1) * 100
		hump := math.Sin(x/100*math.Pi) * 0.15
		curve[i] = CurvePoint{
			Composition: round1(x),
			Liquidus:    round1(maxT - dT*(x/100)*(0.7+hump)),
			Solidus:     round1(minT + dT*0.15*math.Cos(x/100*math.Pi) + 20),
		}
	}

	scatter := make([]ScatterPoint, scatterPoints)
	for i := range scatter {
		x := rng.Float64() * 100
		y := minT + dT*(0.2+0.6*rng.Float64())
		phase := Solid
		switch {
		case y > (minT+maxT)/2:
			phase = Liquid
		case y > minT+dT*0.35:
			phase = Mixed
		}
		scatter[i] = ScatterPoint{X: round1(x), Y: round1(y), Phase: phase, Size: 2 + rng.Float64()*4}
	}

	return Result{
		PhaseData:   curve,
		ScatterData: scatter,
		Phases:      map[Phase]string{Liquid: "LIQUID", Mixed: "LIQ+SOL", Solid: "SOLID"},
	}, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
