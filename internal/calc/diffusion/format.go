package diffusion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Placeholder is shown for any value that is missing upstream.
const Placeholder = "—"

// Value is a summary field that may be stored either as a number or as an
// already formatted string. The zero Value is absent.
type Value struct {
	Num  *float64
	Text *string
}

func Number(v float64) Value { return Value{Num: &v} }
func Text(s string) Value    { return Value{Text: &s} }

func (v Value) IsAbsent() bool { return v.Num == nil && v.Text == nil }

func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.Num != nil:
		return json.Marshal(*v.Num)
	case v.Text != nil:
		return json.Marshal(*v.Text)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	*v = Value{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v.Text = &s
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("summary value must be a number or string: %w", err)
	}
	v.Num = &f
	return nil
}

// Summary is the presentation-facing shape of a diffusion result, as stored
// in calculation records.
type Summary struct {
	PenetrationDepth       Value `json:"penetration_depth"`
	FluxRate               Value `json:"flux_rate"`
	InterfaceConcentration Value `json:"interface_concentration"`
}

type Display struct {
	PenetrationDepth       string `json:"penetration_depth"`
	FluxRate               string `json:"flux_rate"`
	InterfaceConcentration string `json:"interface_concentration"`
	ElapsedHours           string `json:"elapsed_hours"`
}

// Summary renders the flux in scientific notation, leaving the other
// metrics numeric.
func (r Result) Summary() Summary {
	return Summary{
		PenetrationDepth:       Number(r.PenetrationDepthMicrometers),
		FluxRate:               Text(FormatExponential(r.SurfaceFluxMagnitude, 2)),
		InterfaceConcentration: Number(r.InterfaceConcentration),
	}
}

// Format derives display strings from a summary. timeSeconds may be nil.
func Format(s Summary, timeSeconds *float64) Display {
	d := Display{
		PenetrationDepth:       passThrough(s.PenetrationDepth, func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) + " µm" }),
		FluxRate:               passThrough(s.FluxRate, func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }),
		InterfaceConcentration: passThrough(s.InterfaceConcentration, func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) + "%" }),
		ElapsedHours:           Placeholder,
	}
	if timeSeconds != nil {
		d.ElapsedHours = strconv.FormatFloat(*timeSeconds/3600, 'f', 2, 64)
	}
	return d
}

func passThrough(v Value, num func(float64) string) string {
	switch {
	case v.Num != nil:
		return num(*v.Num)
	case v.Text != nil:
		return *v.Text
	default:
		return Placeholder
	}
}

// FormatExponential writes f like JavaScript's toExponential, without zero
// padding in the exponent: "9.40e-7", "1.00e+3".
func FormatExponential(f float64, digits int) string {
	s := strconv.FormatFloat(f, 'e', digits, 64)
	i := strings.LastIndexByte(s, 'e')
	if i < 0 {
		return s
	}
	mant, exp := s[:i], s[i+1:]
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sign + exp
}
