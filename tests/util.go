package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/jarida/core/journal"
	"github.com/trezcool/jarida/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateStudent creates an active student attached to the given class, school
// and district.
func CreateStudent(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	classID, schoolID, districtID string,
) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:       name,
		Username:   uname,
		Email:      email,
		Roles:      user.StudentRoles,
		ClassID:    classID,
		SchoolID:   schoolID,
		DistrictID: districtID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	usr.SetActive(true)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStudent() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return usr
}

// CreateEntry writes a journal entry for the given owner, optionally backdated.
func CreateEntry(
	t *testing.T,
	repo journal.Repository,
	ownerID, title, text string,
	createdAt ...time.Time,
) journal.Entry {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	entry, err := repo.CreateEntry(context.Background(), journal.Entry{
		OwnerID:   ownerID,
		Title:     title,
		Content:   journal.PlainContent(text),
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateEntry() failed: %v", err)
	}
	return entry
}
