// Package models contains domain types for quotation-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceType is the category of work a project requests.
type ServiceType string

// Service type values. "im" is injection molding.
const (
	ServiceDesign      ServiceType = "design"
	ServicePCBA        ServiceType = "pcba"
	ServiceIM          ServiceType = "im"
	ServicePrototyping ServiceType = "prototyping"
)

// ProjectStatus is the workflow stage of a project.
type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusApproved   ProjectStatus = "approved"
)

// Project represents a manufacturing/design job tracked by the dashboard.
type Project struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	ClientName   string        `json:"client_name,omitempty"`
	ServiceType  ServiceType   `json:"serviceType"`
	Status       ProjectStatus `json:"status"`
	Intake       JSONBMap      `json:"intake,omitempty"`
	CalcSnapshot JSONBMap      `json:"calc_snapshot,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ProjectCreate is the untrusted payload for creating a project.
// ID is optional; when present it must be a syntactically valid UUID
// (pre-assigned by a client that needs a stable reference before persisting).
type ProjectCreate struct {
	ID          string         `json:"id" validate:"omitempty,uuid"`
	Name        string         `json:"name" validate:"required"`
	ClientName  string         `json:"client_name"`
	ServiceType string         `json:"serviceType" validate:"required,oneof=design pcba im prototyping"`
	Status      string         `json:"status" validate:"omitempty,oneof=draft in_progress approved"`
	Intake      map[string]any `json:"intake"`
}

// ToProject converts a validated ProjectCreate into a Project, applying
// defaults. Call validate.Struct first; ToProject assumes the payload
// conforms (a malformed ID parses to uuid.Nil and is regenerated on insert).
func (in *ProjectCreate) ToProject() *Project {
	status := ProjectStatus(in.Status)
	if status == "" {
		status = ProjectStatusDraft
	}

	id, _ := uuid.Parse(in.ID)

	return &Project{
		ID:          id,
		Name:        in.Name,
		ClientName:  in.ClientName,
		ServiceType: ServiceType(in.ServiceType),
		Status:      status,
		Intake:      in.Intake,
	}
}
