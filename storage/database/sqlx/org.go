package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/jarida/core/org"
)

type orgRepository struct {
	db *sqlx.DB
}

var _ org.Repository = (*orgRepository)(nil) // interface compliance check

func NewOrgRepository(db *sqlx.DB) org.Repository {
	return &orgRepository{db: db}
}

func (repo *orgRepository) CreateDistrict(ctx context.Context, d org.District) (org.District, error) {
	d.ID = uuid.NewString()
	q := `INSERT INTO district (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`
	if _, err := repo.db.ExecContext(ctx, q, d.ID, d.Name, d.CreatedAt, d.UpdatedAt); err != nil {
		return org.District{}, errors.Wrap(err, "creating district")
	}
	return d, nil
}

func (repo *orgRepository) GetDistrictByID(ctx context.Context, id string) (org.District, error) {
	var d org.District
	err := repo.db.GetContext(ctx, &d, `SELECT * FROM district WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return org.District{}, org.ErrNotFound
	case err != nil:
		return org.District{}, errors.Wrap(err, "getting district")
	}
	return d, nil
}

func (repo *orgRepository) QueryAllDistricts(ctx context.Context) ([]org.District, error) {
	districts := []org.District{}
	if err := repo.db.SelectContext(ctx, &districts, `SELECT * FROM district ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying districts")
	}
	return districts, nil
}

func (repo *orgRepository) UpdateDistrict(ctx context.Context, d org.District) (org.District, error) {
	q := `UPDATE district SET name = $2, updated_at = $3 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, d.ID, d.Name, d.UpdatedAt)
	if err != nil {
		return org.District{}, errors.Wrap(err, "updating district")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return org.District{}, org.ErrNotFound
	}
	return repo.GetDistrictByID(ctx, d.ID)
}

func (repo *orgRepository) DeleteDistrictsByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM district WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting districts")
	}
	return nil
}

func (repo *orgRepository) CreateSchool(ctx context.Context, s org.School) (org.School, error) {
	s.ID = uuid.NewString()
	q := `INSERT INTO school (id, name, district_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := repo.db.ExecContext(ctx, q, s.ID, s.Name, s.DistrictID, s.CreatedAt, s.UpdatedAt); err != nil {
		return org.School{}, errors.Wrap(err, "creating school")
	}
	return s, nil
}

func (repo *orgRepository) GetSchoolByID(ctx context.Context, id string) (org.School, error) {
	var s org.School
	err := repo.db.GetContext(ctx, &s, `SELECT * FROM school WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return org.School{}, org.ErrNotFound
	case err != nil:
		return org.School{}, errors.Wrap(err, "getting school")
	}
	return s, nil
}

func (repo *orgRepository) QuerySchoolsByDistrict(ctx context.Context, districtID string) ([]org.School, error) {
	schools := []org.School{}
	q := `SELECT * FROM school WHERE district_id = $1 ORDER BY name`
	if err := repo.db.SelectContext(ctx, &schools, q, districtID); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	return schools, nil
}

func (repo *orgRepository) QueryAllSchools(ctx context.Context) ([]org.School, error) {
	schools := []org.School{}
	if err := repo.db.SelectContext(ctx, &schools, `SELECT * FROM school ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	return schools, nil
}

func (repo *orgRepository) UpdateSchool(ctx context.Context, s org.School) (org.School, error) {
	q := `UPDATE school SET name = $2, district_id = $3, updated_at = $4 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, s.ID, s.Name, s.DistrictID, s.UpdatedAt)
	if err != nil {
		return org.School{}, errors.Wrap(err, "updating school")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return org.School{}, org.ErrNotFound
	}
	return repo.GetSchoolByID(ctx, s.ID)
}

func (repo *orgRepository) DeleteSchoolsByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM school WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting schools")
	}
	return nil
}

func (repo *orgRepository) CreateClass(ctx context.Context, c org.Class) (org.Class, error) {
	c.ID = uuid.NewString()
	q := `
INSERT INTO class (id, name, school_id, grade_name, division, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, q, c.ID, c.Name, c.SchoolID, c.GradeName, c.Division, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return org.Class{}, errors.Wrap(err, "creating class")
	}
	return c, nil
}

func (repo *orgRepository) GetClassByID(ctx context.Context, id string) (org.Class, error) {
	var c org.Class
	err := repo.db.GetContext(ctx, &c, `SELECT * FROM class WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return org.Class{}, org.ErrNotFound
	case err != nil:
		return org.Class{}, errors.Wrap(err, "getting class")
	}
	return c, nil
}

func (repo *orgRepository) QueryClassesBySchool(ctx context.Context, schoolID string) ([]org.Class, error) {
	classes := []org.Class{}
	q := `SELECT * FROM class WHERE school_id = $1 ORDER BY name`
	if err := repo.db.SelectContext(ctx, &classes, q, schoolID); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classes, nil
}

func (repo *orgRepository) QueryAllClasses(ctx context.Context) ([]org.Class, error) {
	classes := []org.Class{}
	if err := repo.db.SelectContext(ctx, &classes, `SELECT * FROM class ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classes, nil
}

func (repo *orgRepository) UpdateClass(ctx context.Context, c org.Class) (org.Class, error) {
	q := `UPDATE class SET name = $2, school_id = $3, grade_name = $4, division = $5, updated_at = $6 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, c.ID, c.Name, c.SchoolID, c.GradeName, c.Division, c.UpdatedAt)
	if err != nil {
		return org.Class{}, errors.Wrap(err, "updating class")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return org.Class{}, org.ErrNotFound
	}
	return repo.GetClassByID(ctx, c.ID)
}

func (repo *orgRepository) DeleteClassesByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM class WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting classes")
	}
	return nil
}
