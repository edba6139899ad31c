package repo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type SystemType string

const (
	SystemBinary         SystemType = "binary"
	SystemTernary        SystemType = "ternary"
	SystemMulticomponent SystemType = "multicomponent"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

type CalculationType string

const (
	TypePhaseDiagram  CalculationType = "phase_diagram"
	TypeEquilibrium   CalculationType = "equilibrium"
	TypeProperty      CalculationType = "property"
	TypePrecipitation CalculationType = "precipitation"
	TypeDiffusion     CalculationType = "diffusion"
)

type CalculationStatus string

const (
	StatusPending   CalculationStatus = "pending"
	StatusRunning   CalculationStatus = "running"
	StatusCompleted CalculationStatus = "completed"
	StatusFailed    CalculationStatus = "failed"
)

type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	SystemType  SystemType    `json:"system_type"`
	Elements    []string      `json:"elements"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProjectPatch carries a partial update; nil fields are left unchanged.
type ProjectPatch struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	SystemType  *SystemType    `json:"system_type"`
	Elements    []string       `json:"elements"`
	Status      *ProjectStatus `json:"status"`
}

type TemperatureRange struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Unit string   `json:"unit,omitempty"`
}

type Calculation struct {
	ID               string             `json:"id"`
	ProjectID        *string            `json:"project_id,omitempty"`
	CalculationType  CalculationType    `json:"calculation_type"`
	Title            string             `json:"title"`
	Elements         []string           `json:"elements"`
	TemperatureRange *TemperatureRange  `json:"temperature_range,omitempty"`
	Pressure         *float64           `json:"pressure,omitempty"`
	Composition      map[string]float64 `json:"composition,omitempty"`
	Results          json.RawMessage    `json:"results,omitempty"`
	Status           CalculationStatus  `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
}

func (p *Project) normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: project name required", ErrInvalid)
	}
	switch p.SystemType {
	case SystemBinary, SystemTernary, SystemMulticomponent:
	default:
		return fmt.Errorf("%w: system_type %q", ErrInvalid, p.SystemType)
	}
	if err := checkElements(p.Elements); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = ProjectActive
	}
	switch p.Status {
	case ProjectActive, ProjectCompleted, ProjectArchived:
	default:
		return fmt.Errorf("%w: status %q", ErrInvalid, p.Status)
	}
	return nil
}

func (p *Project) apply(patch ProjectPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.SystemType != nil {
		p.SystemType = *patch.SystemType
	}
	if patch.Elements != nil {
		p.Elements = patch.Elements
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
}

func (c *Calculation) normalize() error {
	switch c.CalculationType {
	case TypePhaseDiagram, TypeEquilibrium, TypeProperty, TypePrecipitation, TypeDiffusion:
	default:
		return fmt.Errorf("%w: calculation_type %q", ErrInvalid, c.CalculationType)
	}
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return fmt.Errorf("%w: title required", ErrInvalid)
	}
	if err := checkElements(c.Elements); err != nil {
		return err
	}
	if c.TemperatureRange != nil && c.TemperatureRange.Unit == "" {
		c.TemperatureRange.Unit = "K"
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	switch c.Status {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed:
	default:
		return fmt.Errorf("%w: status %q", ErrInvalid, c.Status)
	}
	if len(c.Results) > 0 && !json.Valid(c.Results) {
		return fmt.Errorf("%w: results is not valid JSON", ErrInvalid)
	}
	return nil
}

func checkElements(elements []string) error {
	if len(elements) == 0 {
		return fmt.Errorf("%w: at least one element required", ErrInvalid)
	}
	for _, el := range elements {
		if strings.TrimSpace(el) == "" {
			return fmt.Errorf("%w: empty element symbol", ErrInvalid)
		}
	}
	return nil
}
