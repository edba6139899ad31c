package diffusion

import (
	"errors"
	"fmt"
	"math"
)

type BoundaryCondition string

const (
	BoundaryFixed    BoundaryCondition = "fixed"
	BoundaryFlux     BoundaryCondition = "flux"
	BoundaryInfinite BoundaryCondition = "infinite"
)

// Fixed-surface-concentration scenario: a pure species diffusing into a
// zero-concentration surface. BoundaryCondition does not change it.
const (
	SurfaceConcentration = 0.0   // wt%
	BulkConcentration    = 100.0 // wt%

	Samples = 121

	minTime        = 1.0   // s
	minCoefficient = 1e-20 // m^2/s
	minSpanUM      = 50.0
	maxSpanUM      = 1000.0
)

// Defaults used by the diffusion page when a field is left empty.
const (
	DefaultTemperature = 1200.0
	DefaultTime        = 3600.0
	DefaultCoefficient = 1e-12
)

var ErrInvalidParameter = errors.New("invalid diffusion parameter")

type Parameters struct {
	Temperature          float64           `json:"temperature"`           // K, echoed only
	Time                 float64           `json:"time"`                  // s
	DiffusionCoefficient float64           `json:"diffusion_coefficient"` // m^2/s
	InterfaceOffset      float64           `json:"interface_position"`    // µm
	BoundaryCondition    BoundaryCondition `json:"boundary_condition,omitempty"`
}

type Point struct {
	Position      float64 `json:"position"`      // µm
	Concentration float64 `json:"concentration"` // wt%
}

type Meta struct {
	Temperature          float64 `json:"temperature"`
	Time                 float64 `json:"time"`
	DiffusionCoefficient float64 `json:"diffusion_coefficient"`
}

type Result struct {
	Profile                     []Point           `json:"profile"`
	PenetrationDepthMicrometers float64           `json:"penetration_depth_um"`
	SurfaceFluxMagnitude        float64           `json:"surface_flux"`
	InterfaceConcentration      float64           `json:"interface_concentration"`
	BoundaryCondition           BoundaryCondition `json:"boundary_condition"`
	Meta                        Meta              `json:"meta"`
}

// Validate rejects values that would put NaN or Inf into the profile.
// Zero and negative time or coefficient are not errors; Calculate clamps them.
func (p Parameters) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"temperature", p.Temperature},
		{"time", p.Time},
		{"diffusion_coefficient", p.DiffusionCoefficient},
		{"interface_position", p.InterfaceOffset},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParameter, f.name)
		}
	}
	switch p.BoundaryCondition {
	case "", BoundaryFixed, BoundaryFlux, BoundaryInfinite:
	default:
		return fmt.Errorf("%w: unknown boundary condition %q", ErrInvalidParameter, p.BoundaryCondition)
	}
	return nil
}

// Calculate evaluates the erf solution of Fick's second law for a step
// initial condition on a fixed 121-point grid.
func Calculate(in Parameters) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	bc := in.BoundaryCondition
	if bc == "" {
		bc = BoundaryFixed
	}

	t := math.Max(in.Time, minTime)
	D := math.Max(in.DiffusionCoefficient, minCoefficient)

	// C(x,t) = Cs + (C0 - Cs) * erf(x / (2*sqrt(D t)))
	if math.IsInf(D*t, 0) {
		return Result{}, fmt.Errorf("%w: diffusion_coefficient*time overflows", ErrInvalidParameter)
	}

	denom := 2 * math.Sqrt(D*t) // m
	lengthUM := denom * 1e6
	span := SpanMicrometers(lengthUM)

	profile := make([]Point, Samples)
	for i := range profile {
		xUM := float64(i) / float64(Samples-1) * span
		xM := (xUM - in.InterfaceOffset) * 1e-6
		c := SurfaceConcentration + (BulkConcentration-SurfaceConcentration)*Erf(xM/denom)
		profile[i] = Point{
			Position:      round(xUM, 1),
			Concentration: round(clamp(c, 0, 100), 2),
		}
	}

	return Result{
		Profile:                     profile,
		PenetrationDepthMicrometers: round(lengthUM, 1),
		SurfaceFluxMagnitude:        math.Abs(BulkConcentration-SurfaceConcentration) * math.Sqrt(D/(math.Pi*t)),
		// grid starts at the unshifted origin
		InterfaceConcentration: profile[0].Concentration,
		BoundaryCondition:      bc,
		Meta: Meta{
			Temperature:          in.Temperature,
			Time:                 in.Time,
			DiffusionCoefficient: in.DiffusionCoefficient,
		},
	}, nil
}

// SpanMicrometers sizes the plotting window to about three diffusion lengths
// on each side, bounded to [50, 1000] µm.
func SpanMicrometers(lengthUM float64) float64 {
	return clamp(math.Round(6*lengthUM), minSpanUM, maxSpanUM)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
