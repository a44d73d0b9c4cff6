package models

import "time"

// StudentEnrollmentRow is one course a given student is enrolled in, joined
// with the course attributes.
type StudentEnrollmentRow struct {
	StudentID      int64     `db:"student_id" json:"student_id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	EnrollmentID   int64     `db:"enrollment_id" json:"enrollment_id"`
	CourseID       int64     `db:"course_id" json:"course_id"`
	CourseName     string    `db:"course_name" json:"course_name"`
	Department     string    `db:"department" json:"department"`
	Credits        int       `db:"credits" json:"credits"`
	Grade          *string   `db:"grade" json:"grade"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
}

// StudentWithEnrollments is one row per student regardless of enrollment
// count; Courses is a comma-joined course-name string, empty when the
// student is enrolled in nothing.
type StudentWithEnrollments struct {
	StudentID        int64  `db:"student_id" json:"student_id"`
	FirstName        string `db:"first_name" json:"first_name"`
	LastName         string `db:"last_name" json:"last_name"`
	Email            string `db:"email" json:"email"`
	Grade            int    `db:"grade" json:"grade"`
	TotalEnrollments int    `db:"total_enrollments" json:"total_enrollments"`
	Courses          string `db:"courses" json:"courses"`
}

// GradeLevelSummary aggregates the student body per year level.
type GradeLevelSummary struct {
	Grade        int `db:"grade" json:"grade"`
	StudentCount int `db:"student_count" json:"student_count"`
	UniqueEmails int `db:"unique_emails" json:"unique_emails"`
}

// PopularCourse is a course with at least the requested number of
// enrollments. AverageGPA is NULL until at least one letter grade exists.
type PopularCourse struct {
	CourseID        int64    `db:"course_id" json:"course_id"`
	CourseName      string   `db:"course_name" json:"course_name"`
	Department      string   `db:"department" json:"department"`
	Credits         int      `db:"credits" json:"credits"`
	EnrollmentCount int      `db:"enrollment_count" json:"enrollment_count"`
	AverageGPA      *float64 `db:"average_gpa" json:"average_gpa"`
}

// StudentPerformance summarises a student's graded course work.
type StudentPerformance struct {
	StudentID     int64   `db:"student_id" json:"student_id"`
	FirstName     string  `db:"first_name" json:"first_name"`
	LastName      string  `db:"last_name" json:"last_name"`
	Grade         int     `db:"grade" json:"grade"`
	CoursesTaken  int     `db:"courses_taken" json:"courses_taken"`
	TotalCredits  int     `db:"total_credits" json:"total_credits"`
	GPA           float64 `db:"gpa" json:"gpa"`
	CourseHistory string  `db:"course_history" json:"course_history"`
}

// CourseParticipant is a student with at least one enrollment inside a given
// course set, annotated with how many of their enrollments fall in the set.
type CourseParticipant struct {
	StudentID           int64  `db:"student_id" json:"student_id"`
	FirstName           string `db:"first_name" json:"first_name"`
	LastName            string `db:"last_name" json:"last_name"`
	Email               string `db:"email" json:"email"`
	Grade               int    `db:"grade" json:"grade"`
	MatchingCourseCount int    `db:"matching_course_count" json:"matching_course_count"`
}

// CourseDetails is a single course's aggregate profile. Pointer fields stay
// NULL for a course without enrollments.
type CourseDetails struct {
	CourseID               int64      `db:"course_id" json:"course_id"`
	CourseName             string     `db:"course_name" json:"course_name"`
	Department             string     `db:"department" json:"department"`
	Credits                int        `db:"credits" json:"credits"`
	TotalStudents          int        `db:"total_students" json:"total_students"`
	GradeLevelsRepresented int        `db:"grade_levels_represented" json:"grade_levels_represented"`
	ACount                 int        `db:"a_count" json:"a_count"`
	BCount                 int        `db:"b_count" json:"b_count"`
	CCount                 int        `db:"c_count" json:"c_count"`
	DCount                 int        `db:"d_count" json:"d_count"`
	FCount                 int        `db:"f_count" json:"f_count"`
	APercentage            *float64   `db:"a_percentage" json:"a_percentage"`
	BPercentage            *float64   `db:"b_percentage" json:"b_percentage"`
	AverageGPA             *float64   `db:"average_gpa" json:"average_gpa"`
	LatestEnrollment       *time.Time `db:"latest_enrollment" json:"latest_enrollment"`
	TopStudentExample      *string    `db:"top_student_example" json:"top_student_example"`
}

// GradedEnrollmentRow is one graded (non-NULL letter) enrollment with the
// credit weight attached. The top-performers report aggregates these rows in
// application code.
type GradedEnrollmentRow struct {
	StudentID int64  `db:"student_id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Grade     int    `db:"grade"`
	CourseID  int64  `db:"course_id"`
	Letter    string `db:"letter"`
	Credits   int    `db:"credits"`
}

// TopPerformer is the derived per-student row of the top-performers report.
type TopPerformer struct {
	StudentID          int64   `json:"student_id"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Grade              int     `json:"grade"`
	CoursesCompleted   int     `json:"courses_completed"`
	TotalCreditsEarned int     `json:"total_credits_earned"`
	WeightedGPA        float64 `json:"weighted_gpa"`
	ACount             int     `json:"a_count"`
	PerformanceRating  string  `json:"performance_rating"`
}

// DepartmentAnalytics aggregates one department's catalogue and outcomes.
type DepartmentAnalytics struct {
	Department        string   `db:"department" json:"department"`
	TotalCourses      int      `db:"total_courses" json:"total_courses"`
	TotalStudents     int      `db:"total_students" json:"total_students"`
	TotalEnrollments  int      `db:"total_enrollments" json:"total_enrollments"`
	TotalCredits      int      `db:"total_credits" json:"total_credits"`
	AvgCourseCredits  float64  `db:"avg_course_credits" json:"avg_course_credits"`
	DepartmentAvgGPA  *float64 `db:"department_avg_gpa" json:"department_avg_gpa"`
	GradeDistribution string   `db:"grade_distribution" json:"grade_distribution"`
	SuccessRatePct    *float64 `db:"success_rate_percent" json:"success_rate_percent"`
}
