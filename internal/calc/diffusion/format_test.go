package diffusion_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ThermoCalc/internal/calc/diffusion"
)

func ptr(f float64) *float64 { return &f }

func TestFormatNumbers(t *testing.T) {
	d := diffusion.Format(diffusion.Summary{
		PenetrationDepth:       diffusion.Number(120.5),
		FluxRate:               diffusion.Number(1.234),
		InterfaceConcentration: diffusion.Number(52.049),
	}, ptr(5400))

	assert.Equal(t, diffusion.Display{
		PenetrationDepth:       "120.5 µm",
		FluxRate:               "1.23",
		InterfaceConcentration: "52.05%",
		ElapsedHours:           "1.50",
	}, d)
}

func TestFormatPassesStringsThrough(t *testing.T) {
	d := diffusion.Format(diffusion.Summary{
		PenetrationDepth:       diffusion.Text("123.4"),
		FluxRate:               diffusion.Text("1.23× baseline"),
		InterfaceConcentration: diffusion.Text("12.34"),
	}, nil)

	assert.Equal(t, "123.4", d.PenetrationDepth)
	assert.Equal(t, "1.23× baseline", d.FluxRate)
	assert.Equal(t, "12.34", d.InterfaceConcentration)
	assert.Equal(t, diffusion.Placeholder, d.ElapsedHours)
}

func TestFormatMissingFields(t *testing.T) {
	d := diffusion.Format(diffusion.Summary{}, nil)
	assert.Equal(t, diffusion.Display{
		PenetrationDepth:       "—",
		FluxRate:               "—",
		InterfaceConcentration: "—",
		ElapsedHours:           "—",
	}, d)
}

func TestResultSummary(t *testing.T) {
	res, err := diffusion.Calculate(reference())
	require.NoError(t, err)

	d := diffusion.Format(res.Summary(), &res.Meta.Time)
	assert.Equal(t, "120 µm", d.PenetrationDepth)
	assert.Equal(t, "9.40e-7", d.FluxRate)
	assert.Equal(t, "0.00%", d.InterfaceConcentration)
	assert.Equal(t, "1.00", d.ElapsedHours)
}

func TestSummaryJSONAcceptsNumbersAndStrings(t *testing.T) {
	var s diffusion.Summary
	err := json.Unmarshal([]byte(`{"penetration_depth":"120.0","flux_rate":9.4e-7,"interface_concentration":null}`), &s)
	require.NoError(t, err)

	require.NotNil(t, s.PenetrationDepth.Text)
	assert.Equal(t, "120.0", *s.PenetrationDepth.Text)
	require.NotNil(t, s.FluxRate.Num)
	assert.Equal(t, 9.4e-7, *s.FluxRate.Num)
	assert.True(t, s.InterfaceConcentration.IsAbsent())

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"penetration_depth":"120.0","flux_rate":9.4e-7,"interface_concentration":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"flux_rate":[1]}`), &s))
}

func TestFormatExponential(t *testing.T) {
	assert.Equal(t, "9.40e-7", diffusion.FormatExponential(9.4031e-7, 2))
	assert.Equal(t, "1.00e+3", diffusion.FormatExponential(1000, 2))
	assert.Equal(t, "0.00e+0", diffusion.FormatExponential(0, 2))
	assert.Equal(t, "1.23e+10", diffusion.FormatExponential(1.234e10, 2))
}
