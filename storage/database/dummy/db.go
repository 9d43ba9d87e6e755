// Package dummydb is an in-memory database used in DEV and in tests.
package dummydb

import (
	"sync"

	"github.com/trezcool/jarida/core/analytics"
	"github.com/trezcool/jarida/core/journal"
	"github.com/trezcool/jarida/core/org"
	"github.com/trezcool/jarida/core/user"
)

type (
	DB struct {
		user     *userTable
		org      *orgTables
		entry    *entryTable
		snapshot *snapshotTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	orgTables struct {
		sync.RWMutex
		districts map[string]*org.District
		schools   map[string]*org.School
		classes   map[string]*org.Class
	}

	entryTable struct {
		sync.RWMutex
		table map[string]*journal.Entry
	}

	snapshotTable struct {
		sync.RWMutex
		table map[string]*analytics.Snapshot
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		org: &orgTables{
			districts: make(map[string]*org.District),
			schools:   make(map[string]*org.School),
			classes:   make(map[string]*org.Class),
		},
		entry:    &entryTable{table: make(map[string]*journal.Entry)},
		snapshot: &snapshotTable{table: make(map[string]*analytics.Snapshot)},
	}
	return db, nil
}
