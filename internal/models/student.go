package models

import "time"

// Student mirrors a row of the students table. Grade here is the year level
// (9-12), not a letter mark.
type Student struct {
	StudentID      int64     `db:"student_id" json:"student_id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Email          string    `db:"email" json:"email"`
	Grade          int       `db:"grade" json:"grade"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
}

// Course mirrors a row of the courses table.
type Course struct {
	CourseID    int64  `db:"course_id" json:"course_id"`
	CourseName  string `db:"course_name" json:"course_name"`
	Department  string `db:"department" json:"department"`
	Credits     int    `db:"credits" json:"credits"`
	Description string `db:"description" json:"description"`
}

// Enrollment mirrors a row of the enrollments junction table. A NULL letter
// grade means the course is still in progress.
type Enrollment struct {
	EnrollmentID   int64     `db:"enrollment_id" json:"enrollment_id"`
	StudentID      int64     `db:"student_id" json:"student_id"`
	CourseID       int64     `db:"course_id" json:"course_id"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
	Grade          *string   `db:"grade" json:"grade"`
}
