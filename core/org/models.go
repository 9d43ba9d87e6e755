package org

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/jarida/core"
)

// District is the top of the tenant hierarchy: district > school > class.
type District struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type School struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	DistrictID string    `json:"district_id" db:"district_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type Class struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	SchoolID  string    `json:"school_id" db:"school_id"`
	GradeName string    `json:"grade_name,omitempty" db:"grade_name"`
	Division  string    `json:"division,omitempty" db:"division"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewDistrict contains information needed to create a new District.
type NewDistrict struct {
	Name string `json:"name" validate:"required"`
}

func (nd *NewDistrict) Validate(validate *validator.Validate) error {
	nd.Name = core.CleanString(nd.Name)
	return validate.Struct(nd)
}

type NewSchool struct {
	Name       string `json:"name" validate:"required"`
	DistrictID string `json:"district_id" validate:"required"`
}

func (ns *NewSchool) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	if err := validate.Struct(ns); err != nil {
		return err
	}
	// parent must exist
	if _, err := svc.GetDistrict(ctx, ns.DistrictID); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "district_id", Error: err.Error()})
	}
	return nil
}

type NewClass struct {
	Name      string `json:"name" validate:"required"`
	SchoolID  string `json:"school_id" validate:"required"`
	GradeName string `json:"grade_name"`
	Division  string `json:"division"`
}

func (nc *NewClass) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.GradeName = core.CleanString(nc.GradeName)
	nc.Division = core.CleanString(nc.Division)
	if err := validate.Struct(nc); err != nil {
		return err
	}
	if _, err := svc.GetSchool(ctx, nc.SchoolID); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "school_id", Error: err.Error()})
	}
	return nil
}
