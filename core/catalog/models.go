package catalog

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Course struct {
	ID                int         `json:"id" db:"id"`
	CourseCode        string      `json:"course_code" db:"course_code"`
	CourseName        string      `json:"course_name" db:"course_name"`
	Description       null.String `json:"description" db:"description"`
	Credits           null.Int    `json:"credits" db:"credits"`
	ProgramLeaderID   null.Int    `json:"program_leader_id" db:"program_leader_id"`
	ProgramLeaderName null.String `json:"program_leader_name" db:"program_leader_name"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
}

type Class struct {
	ID                      int         `json:"id" db:"id"`
	ClassName               string      `json:"class_name" db:"class_name"`
	FacultyName             string      `json:"faculty_name" db:"faculty_name"`
	TotalRegisteredStudents int         `json:"total_registered_students" db:"total_registered_students"`
	Venue                   null.String `json:"venue" db:"venue"`
	ScheduledTime           null.String `json:"scheduled_time" db:"scheduled_time"` // HH:MM:SS
	LecturerID              null.Int    `json:"lecturer_id" db:"lecturer_id"`
	LecturerName            null.String `json:"lecturer_name" db:"lecturer_name"`
	CourseID                null.Int    `json:"course_id" db:"course_id"`
	CourseName              null.String `json:"course_name" db:"course_name"`
	CourseCode              null.String `json:"course_code" db:"course_code"`
	CreatedAt               time.Time   `json:"created_at" db:"created_at"`
}

type ClassFilter struct {
	LecturerID int // 0 means any
	CourseID   int
}
