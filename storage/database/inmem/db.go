// Package inmemdb keeps every table in memory. Used by tests and by the API when STORAGE=memory.
package inmemdb

import (
	"sync"

	"github.com/trezcool/luct/core/catalog"
	"github.com/trezcool/luct/core/report"
	"github.com/trezcool/luct/core/user"
)

type DB struct {
	mu sync.RWMutex

	users   map[int]*user.User
	courses map[int]*catalog.Course
	classes map[int]*catalog.Class
	reports map[int]*report.Report

	userSeq, courseSeq, classSeq, reportSeq int
}

func Open() *DB {
	db := new(DB)
	db.Reset()
	return db
}

// Reset drops every row and restarts the primary key sequences.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.users = make(map[int]*user.User)
	db.courses = make(map[int]*catalog.Course)
	db.classes = make(map[int]*catalog.Class)
	db.reports = make(map[int]*report.Report)
	db.userSeq, db.courseSeq, db.classSeq, db.reportSeq = 0, 0, 0, 0
}
