package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
)

type Repository interface {
	CreateProject(ctx context.Context, p Project) (Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id string) (Project, error)
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) (Project, error)
	DeleteProject(ctx context.Context, id string) error

	CreateCalculation(ctx context.Context, c Calculation) (Calculation, error)
	// ListCalculations returns every calculation when projectID is empty.
	ListCalculations(ctx context.Context, projectID string) ([]Calculation, error)
	GetCalculation(ctx context.Context, id string) (Calculation, error)
}

type SQLRepository struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

func NewPostgresRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialectPostgres, now: time.Now}
}

func NewSQLiteRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialectSQLite, now: time.Now}
}

// New picks the dialect matching the driver name passed to Open.
func New(driver string, db *sql.DB) *SQLRepository {
	if driver == "sqlite" {
		return NewSQLiteRepository(db)
	}
	return NewPostgresRepository(db)
}

type scanner interface {
	Scan(dest ...any) error
}

const projectColumns = "id, name, description, system_type, elements, status, created_at, updated_at"

func (r *SQLRepository) CreateProject(ctx context.Context, p Project) (Project, error) {
	if err := p.normalize(); err != nil {
		return Project{}, err
	}
	p.ID = ulid.Make().String()
	p.CreatedAt = r.now().UTC().Truncate(time.Millisecond)
	p.UpdatedAt = p.CreatedAt

	elements, err := json.Marshal(p.Elements)
	if err != nil {
		return Project{}, err
	}
	query := "INSERT INTO projects (" + projectColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	_, err = r.db.ExecContext(ctx, r.dialect.rebind(query),
		p.ID, p.Name, p.Description, string(p.SystemType), string(elements), string(p.Status),
		p.CreatedAt.UnixMilli(), p.UpdatedAt.UnixMilli())
	if err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) ListProjects(ctx context.Context) ([]Project, error) {
	query := "SELECT " + projectColumns + " FROM projects ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *SQLRepository) GetProject(ctx context.Context, id string) (Project, error) {
	return r.getProject(ctx, r.db, id)
}

func (r *SQLRepository) getProject(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, id string) (Project, error) {
	query := "SELECT " + projectColumns + " FROM projects WHERE id = ?"
	p, err := scanProject(q.QueryRowContext(ctx, r.dialect.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (r *SQLRepository) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Project{}, err
	}
	defer tx.Rollback()

	p, err := r.getProject(ctx, tx, id)
	if err != nil {
		return Project{}, err
	}
	p.apply(patch)
	if err := p.normalize(); err != nil {
		return Project{}, err
	}
	p.UpdatedAt = r.now().UTC().Truncate(time.Millisecond)

	elements, err := json.Marshal(p.Elements)
	if err != nil {
		return Project{}, err
	}
	query := "UPDATE projects SET name = ?, description = ?, system_type = ?, elements = ?, status = ?, updated_at = ? WHERE id = ?"
	_, err = tx.ExecContext(ctx, r.dialect.rebind(query),
		p.Name, p.Description, string(p.SystemType), string(elements), string(p.Status), p.UpdatedAt.UnixMilli(), id)
	if err != nil {
		return Project{}, fmt.Errorf("update project: %w", err)
	}
	return p, tx.Commit()
}

// DeleteProject removes the project and detaches its calculations.
func (r *SQLRepository) DeleteProject(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, r.dialect.rebind("DELETE FROM projects WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, r.dialect.rebind("UPDATE calculations SET project_id = NULL WHERE project_id = ?"), id); err != nil {
		return fmt.Errorf("detach calculations: %w", err)
	}
	return tx.Commit()
}

func scanProject(s scanner) (Project, error) {
	var (
		p                    Project
		description          sql.NullString
		systemType, status   string
		elements             string
		createdAt, updatedAt int64
	)
	if err := s.Scan(&p.ID, &p.Name, &description, &systemType, &elements, &status, &createdAt, &updatedAt); err != nil {
		return Project{}, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	p.SystemType = SystemType(systemType)
	p.Status = ProjectStatus(status)
	if err := json.Unmarshal([]byte(elements), &p.Elements); err != nil {
		return Project{}, fmt.Errorf("decode elements of project %s: %w", p.ID, err)
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return p, nil
}

const calculationColumns = "id, project_id, calculation_type, title, elements, temperature_min, temperature_max, temperature_unit, pressure, composition, results, status, created_at"

func (r *SQLRepository) CreateCalculation(ctx context.Context, c Calculation) (Calculation, error) {
	if err := c.normalize(); err != nil {
		return Calculation{}, err
	}
	c.ID = ulid.Make().String()
	c.CreatedAt = r.now().UTC().Truncate(time.Millisecond)

	elements, err := json.Marshal(c.Elements)
	if err != nil {
		return Calculation{}, err
	}
	var composition, results sql.NullString
	if c.Composition != nil {
		b, err := json.Marshal(c.Composition)
		if err != nil {
			return Calculation{}, err
		}
		composition = sql.NullString{String: string(b), Valid: true}
	}
	if len(c.Results) > 0 {
		results = sql.NullString{String: string(c.Results), Valid: true}
	}
	var tMin, tMax *float64
	unit := "K"
	if c.TemperatureRange != nil {
		tMin, tMax, unit = c.TemperatureRange.Min, c.TemperatureRange.Max, c.TemperatureRange.Unit
	}

	query := "INSERT INTO calculations (" + calculationColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err = r.db.ExecContext(ctx, r.dialect.rebind(query),
		c.ID, c.ProjectID, string(c.CalculationType), c.Title, string(elements),
		tMin, tMax, unit, c.Pressure, composition, results, string(c.Status), c.CreatedAt.UnixMilli())
	if err != nil {
		return Calculation{}, fmt.Errorf("insert calculation: %w", err)
	}
	return c, nil
}

func (r *SQLRepository) ListCalculations(ctx context.Context, projectID string) ([]Calculation, error) {
	query := "SELECT " + calculationColumns + " FROM calculations"
	var args []any
	if projectID != "" {
		query += " WHERE project_id = ?"
		args = append(args, projectID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	defer rows.Close()

	calcs := []Calculation{}
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, c)
	}
	return calcs, rows.Err()
}

func (r *SQLRepository) GetCalculation(ctx context.Context, id string) (Calculation, error) {
	query := "SELECT " + calculationColumns + " FROM calculations WHERE id = ?"
	c, err := scanCalculation(r.db.QueryRowContext(ctx, r.dialect.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Calculation{}, fmt.Errorf("calculation %s: %w", id, ErrNotFound)
	}
	return c, err
}

func scanCalculation(s scanner) (Calculation, error) {
	var (
		c                    Calculation
		projectID            sql.NullString
		calcType, status     string
		elements, unit       string
		tMin, tMax, pressure sql.NullFloat64
		composition, results sql.NullString
		createdAt            int64
	)
	err := s.Scan(&c.ID, &projectID, &calcType, &c.Title, &elements,
		&tMin, &tMax, &unit, &pressure, &composition, &results, &status, &createdAt)
	if err != nil {
		return Calculation{}, err
	}
	if projectID.Valid {
		c.ProjectID = &projectID.String
	}
	c.CalculationType = CalculationType(calcType)
	c.Status = CalculationStatus(status)
	if err := json.Unmarshal([]byte(elements), &c.Elements); err != nil {
		return Calculation{}, fmt.Errorf("decode elements of calculation %s: %w", c.ID, err)
	}
	if tMin.Valid || tMax.Valid {
		c.TemperatureRange = &TemperatureRange{Unit: unit}
		if tMin.Valid {
			c.TemperatureRange.Min = &tMin.Float64
		}
		if tMax.Valid {
			c.TemperatureRange.Max = &tMax.Float64
		}
	}
	if pressure.Valid {
		c.Pressure = &pressure.Float64
	}
	if composition.Valid {
		if err := json.Unmarshal([]byte(composition.String), &c.Composition); err != nil {
			return Calculation{}, fmt.Errorf("decode composition of calculation %s: %w", c.ID, err)
		}
	}
	if results.Valid {
		c.Results = json.RawMessage(results.String)
	}
	c.CreatedAt = time.UnixMilli(createdAt).UTC()
	return c, nil
}
