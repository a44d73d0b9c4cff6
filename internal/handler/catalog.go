package handler

// Operation describes one report endpoint for the machine-readable index.
type Operation struct {
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	Description string   `json:"description"`
	Params      []string `json:"params,omitempty"`
}

// Catalog is the declarative table of every report operation. It drives the
// index endpoint, and doubles as the authoritative list of routes.
var Catalog = []Operation{
	{
		Method:      "GET",
		Path:        "/api/students/grade/:grade",
		Description: "Students of one grade level, sorted by name",
	},
	{
		Method:      "GET",
		Path:        "/api/students/:studentId/enrollments",
		Description: "One student's enrollments with course details, newest first",
	},
	{
		Method:      "GET",
		Path:        "/api/students/all-with-enrollments",
		Description: "Every student with enrollment count and course list, including students with none",
	},
	{
		Method:      "GET",
		Path:        "/api/students/in-courses",
		Description: "Distinct students enrolled in any of the given courses",
		Params:      []string{"courseIds (required, comma-separated)"},
	},
	{
		Method:      "GET",
		Path:        "/api/courses/popular/:minEnrollments",
		Description: "Courses with at least the given number of enrollments, with average GPA",
	},
	{
		Method:      "GET",
		Path:        "/api/analytics/students-per-grade",
		Description: "Student and distinct-email counts per grade level",
	},
	{
		Method:      "GET",
		Path:        "/api/analytics/student-performance",
		Description: "Per-student GPA, credits and course history over graded work",
		Params:      []string{"minGPA (default 0)", "grade (optional)"},
	},
	{
		Method:      "GET",
		Path:        "/api/analytics/course-details/:courseId",
		Description: "One course's aggregate profile: counts, percentages, GPA, top student",
	},
	{
		Method:      "GET",
		Path:        "/api/analytics/top-performers",
		Description: "Credit-weighted GPA leaderboard, capped at 20 rows",
		Params:      []string{"minCourses (default 3)", "minGPA (default 3.5)"},
	},
	{
		Method:      "GET",
		Path:        "/api/analytics/departments",
		Description: "Per-department course, student and outcome aggregates",
	},
	{
		Method:      "GET",
		Path:        "/api/analytics/departments/export",
		Description: "Department analytics as a CSV or PDF download",
		Params:      []string{"format (csv|pdf, default csv)"},
	},
	{
		Method:      "GET",
		Path:        "/api/analytics/top-performers/export",
		Description: "Top performers as a CSV or PDF download",
		Params:      []string{"format (csv|pdf, default csv)", "minCourses (default 3)", "minGPA (default 3.5)"},
	},
}
