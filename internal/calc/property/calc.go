package property

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strings"
)

const DefaultTemperature = 1200.0 // K

var (
	DefaultProperties = []string{"Gibbs energy", "Heat capacity", "Thermal conductivity"}

	ErrInvalidInput = errors.New("invalid property input")
)

type Input struct {
	Temperature *float64 `json:"temperature"`
	Properties  []string `json:"properties"`
}

type Value struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type At struct {
	T float64 `json:"T"`
}

type Result struct {
	Properties []Value `json:"properties"`
	At         At      `json:"at"`
}

// kind is matched against the property name in order; the first hit wins.
type kind struct {
	pattern *regexp.Regexp
	unit    string
	value   func(rng *rand.Rand) float64
}

var kinds = []kind{
	{regexp.MustCompile(`(?i)gibbs|energy`), "kJ/mol", func(rng *rand.Rand) float64 {
		return round(-(rng.Float64()*60 + 20), 2)
	}},
	{regexp.MustCompile(`(?i)heat capacity|cp`), "J/mol·K", func(rng *rand.Rand) float64 {
		return round(rng.Float64()*40+10, 2)
	}},
	{regexp.MustCompile(`(?i)thermal`), "W/m·K", func(rng *rand.Rand) float64 {
		return round(rng.Float64()*40+10, 1)
	}},
}

func Calculate(in Input, rng *rand.Rand) (Result, error) {
	T := DefaultTemperature
	if in.Temperature != nil {
		T = *in.Temperature
	}
	if !(T > 0) || math.IsInf(T, 0) {
		return Result{}, fmt.Errorf("%w: temperature %v", ErrInvalidInput, T)
	}
	names := in.Properties
	if len(names) == 0 {
		names = DefaultProperties
	}

	out := Result{Properties: make([]Value, 0, len(names)), At: At{T: T}}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return Result{}, fmt.Errorf("%w: empty property name", ErrInvalidInput)
		}
		out.Properties = append(out.Properties, estimate(name, rng))
	}
	return out, nil
}

func estimate(name string, rng *rand.Rand) Value {
	for _, k := range kinds {
		if k.pattern.MatchString(name) {
			return Value{Name: name, Value: k.value(rng), Unit: k.unit}
		}
	}
	return Value{Name: name, Value: round(rng.Float64()*100, 2), Unit: "SI"}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
