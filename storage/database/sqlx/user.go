package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/jarida/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	IsActive     sql.NullBool   `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	DistrictID   string         `db:"district_id"`
	DistrictName string         `db:"district_name"`
	SchoolID     string         `db:"school_id"`
	SchoolName   string         `db:"school_name"`
	ClassID      string         `db:"class_id"`
	ClassName    string         `db:"class_name"`
	GradeName    string         `db:"grade_name"`
	Division     string         `db:"division"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func (row userRow) user() user.User {
	usr := user.User{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username,
		Email:        row.Email,
		Roles:        row.Roles,
		DistrictID:   row.DistrictID,
		DistrictName: row.DistrictName,
		SchoolID:     row.SchoolID,
		SchoolName:   row.SchoolName,
		ClassID:      row.ClassID,
		ClassName:    row.ClassName,
		GradeName:    row.GradeName,
		Division:     row.Division,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.IsActive.Valid {
		usr.IsActive = &row.IsActive.Bool
	}
	if row.LastLogin.Valid {
		usr.LastLogin = row.LastLogin.Time
	}
	return usr
}

const userColumns = `id, name, username, email, is_active, roles, district_id, district_name,
school_id, school_name, class_id, class_name, grade_name, division, password_hash,
created_at, updated_at, last_login`

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	var row struct {
		UsernameTaken bool `db:"username_taken"`
		EmailTaken    bool `db:"email_taken"`
	}
	q := `
SELECT bool_or(username = $1) AS username_taken, bool_or(email = $2) AS email_taken
FROM "user" WHERE (username = $1 OR email = $2) AND id != ALL($3)`
	err := repo.db.GetContext(ctx, &row, q, username, email, pq.Array(exclIDs))
	switch {
	case err == sql.ErrNoRows:
		return nil
	case err != nil:
		return errors.Wrap(err, "checking username uniqueness")
	}
	if row.UsernameTaken {
		return user.ErrUsernameExists
	}
	if row.EmailTaken {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.NewString()
	q := `
INSERT INTO "user" (` + userColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := repo.db.ExecContext(ctx, q,
		usr.ID, usr.Name, usr.Username, usr.Email, usr.IsActive, pq.Array(usr.Roles),
		usr.DistrictID, usr.DistrictName, usr.SchoolID, usr.SchoolName,
		usr.ClassID, usr.ClassName, usr.GradeName, usr.Division,
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt, nullTime(usr.LastLogin),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	q := `SELECT ` + userColumns + ` FROM "user"`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return usersOf(rows), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.get(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, id)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.get(ctx, `SELECT `+userColumns+` FROM "user" WHERE email = $1`, email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, uname string) (user.User, error) {
	return repo.get(ctx, `SELECT `+userColumns+` FROM "user" WHERE username = $1 OR email = $1`, uname)
}

func (repo *userRepository) get(ctx context.Context, q string, args ...interface{}) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, q, args...)
	switch {
	case err == sql.ErrNoRows:
		return user.User{}, user.ErrNotFound
	case err != nil:
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.user(), nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	q := `SELECT ` + userColumns + ` FROM "user" WHERE 1=1`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return pqPlaceholder(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		q += ` AND (username ILIKE ` + p + ` OR email ILIKE ` + p + ` OR name ILIKE ` + p + `)`
	}
	if len(filter.Roles) > 0 {
		prefixes := make([]string, 0, len(filter.Roles))
		for _, r := range filter.Roles {
			prefixes = append(prefixes, r+"%")
		}
		q += ` AND EXISTS (SELECT 1 FROM unnest(roles) role WHERE role LIKE ANY(` + arg(pq.Array(prefixes)) + `))`
	}
	if filter.IsActive != nil {
		q += ` AND is_active = ` + arg(*filter.IsActive)
	}
	if filter.DistrictID != "" {
		q += ` AND district_id = ` + arg(filter.DistrictID)
	}
	if filter.SchoolID != "" {
		q += ` AND school_id = ` + arg(filter.SchoolID)
	}
	if filter.ClassID != "" {
		q += ` AND class_id = ` + arg(filter.ClassID)
	}
	if !filter.CreatedFrom.IsZero() {
		q += ` AND created_at >= ` + arg(filter.CreatedFrom.UTC())
	}
	if !filter.CreatedTo.IsZero() {
		q += ` AND created_at <= ` + arg(filter.CreatedTo.UTC())
	}

	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return usersOf(rows), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	// only save set fields
	orig, err := repo.GetUserByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, err
	}
	if usr.Roles != nil {
		orig.Roles = usr.Roles
	}
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	if isActive != nil {
		orig.IsActive = isActive
	}
	if usr.Name != "" {
		orig.Name = usr.Name
	}
	if usr.Username != "" {
		orig.Username = usr.Username
	}
	if usr.Email != "" {
		orig.Email = usr.Email
	}
	if usr.DistrictID != "" {
		orig.DistrictID, orig.DistrictName = usr.DistrictID, usr.DistrictName
	}
	if usr.SchoolID != "" {
		orig.SchoolID, orig.SchoolName = usr.SchoolID, usr.SchoolName
	}
	if usr.ClassID != "" {
		orig.ClassID, orig.ClassName = usr.ClassID, usr.ClassName
		orig.GradeName, orig.Division = usr.GradeName, usr.Division
	}
	if !usr.LastLogin.IsZero() {
		orig.LastLogin = usr.LastLogin
	}
	orig.UpdatedAt = usr.UpdatedAt

	q := `
UPDATE "user" SET name = $2, username = $3, email = $4, is_active = $5, roles = $6,
district_id = $7, district_name = $8, school_id = $9, school_name = $10,
class_id = $11, class_name = $12, grade_name = $13, division = $14,
password_hash = $15, updated_at = $16, last_login = $17
WHERE id = $1`
	_, err = repo.db.ExecContext(ctx, q,
		orig.ID, orig.Name, orig.Username, orig.Email, orig.IsActive, pq.Array(orig.Roles),
		orig.DistrictID, orig.DistrictName, orig.SchoolID, orig.SchoolName,
		orig.ClassID, orig.ClassName, orig.GradeName, orig.Division,
		orig.PasswordHash, orig.UpdatedAt, nullTime(orig.LastLogin),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return orig, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM "user" WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}

func usersOf(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.user())
	}
	return users
}
