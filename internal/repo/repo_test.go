package repo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLRepository {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	r := New("sqlite", db)
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	require.NoError(t, r.Migrate(ctx))
	// second run is a no-op
	require.NoError(t, r.Migrate(ctx))
	return r
}

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func statusPtr(s ProjectStatus) *ProjectStatus { return &s }

func TestRebind(t *testing.T) {
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", dialectPostgres.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))
	assert.Equal(t, "SELECT * FROM t WHERE a = ?", dialectSQLite.rebind("SELECT * FROM t WHERE a = ?"))
}

func TestProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	first, err := r.CreateProject(ctx, Project{Name: "  Fe-C  ", SystemType: SystemBinary, Elements: []string{"Fe", "C"}})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "Fe-C", first.Name)
	assert.Equal(t, ProjectActive, first.Status)
	assert.Nil(t, first.Description)

	second, err := r.CreateProject(ctx, Project{
		Name:        "Ni superalloy",
		Description: strPtr("creep study"),
		SystemType:  SystemMulticomponent,
		Elements:    []string{"Ni", "Cr", "Al"},
		Status:      ProjectCompleted,
	})
	require.NoError(t, err)

	list, err := r.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first, list[1])

	got, err := r.GetProject(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	updated, err := r.UpdateProject(ctx, first.ID, ProjectPatch{
		Description: strPtr("carburizing"),
		Status:      statusPtr(ProjectArchived),
	})
	require.NoError(t, err)
	assert.Equal(t, "Fe-C", updated.Name)
	assert.Equal(t, "carburizing", *updated.Description)
	assert.Equal(t, ProjectArchived, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	got, err = r.GetProject(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, r.DeleteProject(ctx, first.ID))
	_, err = r.GetProject(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.DeleteProject(ctx, first.ID), ErrNotFound)
}

func TestProjectValidation(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	cases := map[string]Project{
		"empty name":    {Name: " ", SystemType: SystemBinary, Elements: []string{"Fe"}},
		"bad system":    {Name: "x", SystemType: "quaternary", Elements: []string{"Fe"}},
		"no elements":   {Name: "x", SystemType: SystemBinary},
		"blank element": {Name: "x", SystemType: SystemBinary, Elements: []string{""}},
		"bad status":    {Name: "x", SystemType: SystemBinary, Elements: []string{"Fe"}, Status: "paused"},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.CreateProject(ctx, p)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	p, err := r.CreateProject(ctx, Project{Name: "ok", SystemType: SystemTernary, Elements: []string{"Fe", "Cr", "Ni"}})
	require.NoError(t, err)
	_, err = r.UpdateProject(ctx, p.ID, ProjectPatch{Elements: []string{}})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = r.UpdateProject(ctx, "missing", ProjectPatch{Name: strPtr("y")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCalculationLifecycle(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	project, err := r.CreateProject(ctx, Project{Name: "Fe-C", SystemType: SystemBinary, Elements: []string{"Fe", "C"}})
	require.NoError(t, err)

	results := json.RawMessage(`{"penetration_depth_um":120,"profile":[]}`)
	diff, err := r.CreateCalculation(ctx, Calculation{
		ProjectID:        &project.ID,
		CalculationType:  TypeDiffusion,
		Title:            "Diffusion Simulation - Fe-C at 1200K",
		Elements:         []string{"Fe", "C"},
		TemperatureRange: &TemperatureRange{Min: f64Ptr(1200), Max: f64Ptr(1200)},
		Pressure:         f64Ptr(101325),
		Composition:      map[string]float64{"time": 3600},
		Results:          results,
		Status:           StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, "K", diff.TemperatureRange.Unit)

	bare, err := r.CreateCalculation(ctx, Calculation{
		CalculationType: TypeEquilibrium,
		Title:           "Equilibrium",
		Elements:        []string{"Fe"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, bare.Status)

	got, err := r.GetCalculation(ctx, diff.ID)
	require.NoError(t, err)
	assert.Equal(t, diff.ID, got.ID)
	assert.Equal(t, project.ID, *got.ProjectID)
	assert.Equal(t, 1200.0, *got.TemperatureRange.Min)
	assert.Equal(t, "K", got.TemperatureRange.Unit)
	assert.Equal(t, 101325.0, *got.Pressure)
	assert.Equal(t, map[string]float64{"time": 3600}, got.Composition)
	assert.JSONEq(t, string(results), string(got.Results))
	assert.Equal(t, diff.CreatedAt, got.CreatedAt)

	got, err = r.GetCalculation(ctx, bare.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)
	assert.Nil(t, got.TemperatureRange)
	assert.Nil(t, got.Pressure)
	assert.Nil(t, got.Composition)
	assert.Nil(t, got.Results)

	all, err := r.ListCalculations(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, bare.ID, all[0].ID)

	scoped, err := r.ListCalculations(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, diff.ID, scoped[0].ID)

	// deleting the project keeps the calculation but detaches it
	require.NoError(t, r.DeleteProject(ctx, project.ID))
	got, err = r.GetCalculation(ctx, diff.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)

	_, err = r.GetCalculation(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCalculationValidation(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	cases := map[string]Calculation{
		"bad type":    {CalculationType: "kinetics", Title: "x", Elements: []string{"Fe"}},
		"empty title": {CalculationType: TypeProperty, Elements: []string{"Fe"}},
		"no elements": {CalculationType: TypeProperty, Title: "x"},
		"bad status":  {CalculationType: TypeProperty, Title: "x", Elements: []string{"Fe"}, Status: "done"},
		"bad results": {CalculationType: TypeProperty, Title: "x", Elements: []string{"Fe"}, Results: json.RawMessage(`{`)},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.CreateCalculation(ctx, c)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
