package org

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

type (
	Repository interface {
		CreateDistrict(ctx context.Context, d District) (District, error)
		GetDistrictByID(ctx context.Context, id string) (District, error)
		QueryAllDistricts(ctx context.Context) ([]District, error)
		UpdateDistrict(ctx context.Context, d District) (District, error)
		DeleteDistrictsByID(ctx context.Context, ids ...string) error

		CreateSchool(ctx context.Context, s School) (School, error)
		GetSchoolByID(ctx context.Context, id string) (School, error)
		QuerySchoolsByDistrict(ctx context.Context, districtID string) ([]School, error)
		QueryAllSchools(ctx context.Context) ([]School, error)
		UpdateSchool(ctx context.Context, s School) (School, error)
		DeleteSchoolsByID(ctx context.Context, ids ...string) error

		CreateClass(ctx context.Context, c Class) (Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		QueryClassesBySchool(ctx context.Context, schoolID string) ([]Class, error)
		QueryAllClasses(ctx context.Context) ([]Class, error)
		UpdateClass(ctx context.Context, c Class) (Class, error)
		DeleteClassesByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateDistrict(ctx context.Context, nd NewDistrict) (District, error) {
	now := time.Now().UTC()
	return svc.repo.CreateDistrict(ctx, District{Name: nd.Name, CreatedAt: now, UpdatedAt: now})
}

func (svc *Service) GetDistrict(ctx context.Context, id string) (District, error) {
	return svc.repo.GetDistrictByID(ctx, id)
}

func (svc *Service) QueryDistricts(ctx context.Context) ([]District, error) {
	return svc.repo.QueryAllDistricts(ctx)
}

func (svc *Service) UpdateDistrict(ctx context.Context, id string, nd NewDistrict) (District, error) {
	d, err := svc.repo.GetDistrictByID(ctx, id)
	if err != nil {
		return District{}, err
	}
	d.Name = nd.Name
	d.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateDistrict(ctx, d)
}

func (svc *Service) DeleteDistricts(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteDistrictsByID(ctx, ids...)
}

func (svc *Service) CreateSchool(ctx context.Context, ns NewSchool) (School, error) {
	now := time.Now().UTC()
	return svc.repo.CreateSchool(ctx, School{
		Name:       ns.Name,
		DistrictID: ns.DistrictID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (svc *Service) GetSchool(ctx context.Context, id string) (School, error) {
	return svc.repo.GetSchoolByID(ctx, id)
}

func (svc *Service) QuerySchools(ctx context.Context, districtID string) ([]School, error) {
	if districtID != "" {
		return svc.repo.QuerySchoolsByDistrict(ctx, districtID)
	}
	return svc.repo.QueryAllSchools(ctx)
}

func (svc *Service) UpdateSchool(ctx context.Context, id string, ns NewSchool) (School, error) {
	s, err := svc.repo.GetSchoolByID(ctx, id)
	if err != nil {
		return School{}, err
	}
	s.Name = ns.Name
	s.DistrictID = ns.DistrictID
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSchool(ctx, s)
}

func (svc *Service) DeleteSchools(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSchoolsByID(ctx, ids...)
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	now := time.Now().UTC()
	return svc.repo.CreateClass(ctx, Class{
		Name:      nc.Name,
		SchoolID:  nc.SchoolID,
		GradeName: nc.GradeName,
		Division:  nc.Division,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetClass(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) QueryClasses(ctx context.Context, schoolID string) ([]Class, error) {
	if schoolID != "" {
		return svc.repo.QueryClassesBySchool(ctx, schoolID)
	}
	return svc.repo.QueryAllClasses(ctx)
}

func (svc *Service) UpdateClass(ctx context.Context, id string, nc NewClass) (Class, error) {
	c, err := svc.repo.GetClassByID(ctx, id)
	if err != nil {
		return Class{}, err
	}
	c.Name = nc.Name
	c.SchoolID = nc.SchoolID
	c.GradeName = nc.GradeName
	c.Division = nc.Division
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClass(ctx, c)
}

func (svc *Service) DeleteClasses(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteClassesByID(ctx, ids...)
}
