package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/jarida/core/org"
)

type orgRepository struct {
	db *orgTables
}

var _ org.Repository = (*orgRepository)(nil) // interface compliance check

func NewOrgRepository(db *DB) org.Repository {
	return &orgRepository{db: db.org}
}

func (repo *orgRepository) CreateDistrict(ctx context.Context, d org.District) (org.District, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	d.ID = uuid.NewString()
	repo.db.districts[d.ID] = &d
	return d, nil
}

func (repo *orgRepository) GetDistrictByID(ctx context.Context, id string) (org.District, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if d, ok := repo.db.districts[id]; ok {
		return *d, nil
	}
	return org.District{}, org.ErrNotFound
}

func (repo *orgRepository) QueryAllDistricts(ctx context.Context) ([]org.District, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	districts := make([]org.District, 0, len(repo.db.districts))
	for _, d := range repo.db.districts {
		districts = append(districts, *d)
	}
	return districts, nil
}

func (repo *orgRepository) UpdateDistrict(ctx context.Context, d org.District) (org.District, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.districts[d.ID]
	if !ok {
		return org.District{}, org.ErrNotFound
	}
	orig.Name = d.Name
	orig.UpdatedAt = d.UpdatedAt
	return *orig, nil
}

func (repo *orgRepository) DeleteDistrictsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.districts, id)
	}
	return nil
}

func (repo *orgRepository) CreateSchool(ctx context.Context, s org.School) (org.School, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = uuid.NewString()
	repo.db.schools[s.ID] = &s
	return s, nil
}

func (repo *orgRepository) GetSchoolByID(ctx context.Context, id string) (org.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.schools[id]; ok {
		return *s, nil
	}
	return org.School{}, org.ErrNotFound
}

func (repo *orgRepository) QuerySchoolsByDistrict(ctx context.Context, districtID string) ([]org.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var schools []org.School
	for _, s := range repo.db.schools {
		if s.DistrictID == districtID {
			schools = append(schools, *s)
		}
	}
	return schools, nil
}

func (repo *orgRepository) QueryAllSchools(ctx context.Context) ([]org.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	schools := make([]org.School, 0, len(repo.db.schools))
	for _, s := range repo.db.schools {
		schools = append(schools, *s)
	}
	return schools, nil
}

func (repo *orgRepository) UpdateSchool(ctx context.Context, s org.School) (org.School, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.schools[s.ID]
	if !ok {
		return org.School{}, org.ErrNotFound
	}
	orig.Name = s.Name
	orig.DistrictID = s.DistrictID
	orig.UpdatedAt = s.UpdatedAt
	return *orig, nil
}

func (repo *orgRepository) DeleteSchoolsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.schools, id)
	}
	return nil
}

func (repo *orgRepository) CreateClass(ctx context.Context, c org.Class) (org.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.NewString()
	repo.db.classes[c.ID] = &c
	return c, nil
}

func (repo *orgRepository) GetClassByID(ctx context.Context, id string) (org.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.classes[id]; ok {
		return *c, nil
	}
	return org.Class{}, org.ErrNotFound
}

func (repo *orgRepository) QueryClassesBySchool(ctx context.Context, schoolID string) ([]org.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var classes []org.Class
	for _, c := range repo.db.classes {
		if c.SchoolID == schoolID {
			classes = append(classes, *c)
		}
	}
	return classes, nil
}

func (repo *orgRepository) QueryAllClasses(ctx context.Context) ([]org.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]org.Class, 0, len(repo.db.classes))
	for _, c := range repo.db.classes {
		classes = append(classes, *c)
	}
	return classes, nil
}

func (repo *orgRepository) UpdateClass(ctx context.Context, c org.Class) (org.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.classes[c.ID]
	if !ok {
		return org.Class{}, org.ErrNotFound
	}
	orig.Name = c.Name
	orig.SchoolID = c.SchoolID
	orig.GradeName = c.GradeName
	orig.Division = c.Division
	orig.UpdatedAt = c.UpdatedAt
	return *orig, nil
}

func (repo *orgRepository) DeleteClassesByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.classes, id)
	}
	return nil
}
