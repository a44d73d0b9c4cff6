package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-reports-api/internal/models"
)

// Grade-point CASE policies. Three deliberate variants exist and are kept
// side by side so the inconsistency stays a single reviewable choice:
//
//   - gradePointsElseZero: every non-NULL letter outside A-D scores 0.0
//     (popular courses).
//   - gradePointsExplicitF: F is enumerated as 0.0; other letters fall
//     through unmapped (student performance, course details).
//   - gradePointsNoF: no F branch, so F falls through as NULL and is
//     excluded from the average entirely (department analytics).
//
// NULL grades never match a branch and are always excluded.
const (
	gradePointsElseZero = `CASE
            WHEN e.grade = 'A' THEN 4.0
            WHEN e.grade = 'B' THEN 3.0
            WHEN e.grade = 'C' THEN 2.0
            WHEN e.grade = 'D' THEN 1.0
            WHEN e.grade IS NOT NULL THEN 0.0
        END`

	gradePointsExplicitF = `CASE e.grade
            WHEN 'A' THEN 4.0
            WHEN 'B' THEN 3.0
            WHEN 'C' THEN 2.0
            WHEN 'D' THEN 1.0
            WHEN 'F' THEN 0.0
        END`

	gradePointsNoF = `CASE e.grade
            WHEN 'A' THEN 4.0
            WHEN 'B' THEN 3.0
            WHEN 'C' THEN 2.0
            WHEN 'D' THEN 1.0
        END`
)

// ReportRepository exposes the read-only report queries. Every caller value
// crosses into SQL as a bound parameter; fragments are assembled with the
// composer so placeholder and argument order stay mechanically paired.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository instantiates the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// StudentsByGrade lists students of one year level. The grade arrives as the
// raw path string and is bound untyped; the store coerces or mismatches it.
func (r *ReportRepository) StudentsByGrade(ctx context.Context, grade string) ([]models.Student, error) {
	const query = `SELECT student_id, first_name, last_name, email, grade, enrollment_date
        FROM students
        WHERE grade = ?
        ORDER BY last_name, first_name`

	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, grade); err != nil {
		return nil, fmt.Errorf("query students by grade: %w", err)
	}
	return students, nil
}

// StudentEnrollments lists one student's enrollments with course attributes.
// Inner joins: a student with no enrollments yields no rows.
func (r *ReportRepository) StudentEnrollments(ctx context.Context, studentID string) ([]models.StudentEnrollmentRow, error) {
	const query = `SELECT s.student_id, s.first_name, s.last_name,
            e.enrollment_id, c.course_id, c.course_name, c.department, c.credits,
            e.grade, e.enrollment_date
        FROM students s
        JOIN enrollments e ON e.student_id = s.student_id
        JOIN courses c ON c.course_id = e.course_id
        WHERE s.student_id = ?
        ORDER BY e.enrollment_date DESC`

	rows := []models.StudentEnrollmentRow{}
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("query student enrollments: %w", err)
	}
	return rows, nil
}

// StudentsWithEnrollments returns every student exactly once, with their
// enrollment total (0 allowed) and a comma-joined course list ("" allowed).
func (r *ReportRepository) StudentsWithEnrollments(ctx context.Context) ([]models.StudentWithEnrollments, error) {
	const query = `SELECT s.student_id, s.first_name, s.last_name, s.email, s.grade,
            COUNT(e.enrollment_id) AS total_enrollments,
            COALESCE(GROUP_CONCAT(c.course_name ORDER BY c.course_name SEPARATOR ', '), '') AS courses
        FROM students s
        LEFT JOIN enrollments e ON e.student_id = s.student_id
        LEFT JOIN courses c ON c.course_id = e.course_id
        GROUP BY s.student_id, s.first_name, s.last_name, s.email, s.grade
        ORDER BY s.last_name, s.first_name`

	rows := []models.StudentWithEnrollments{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query students with enrollments: %w", err)
	}
	return rows, nil
}

// StudentsPerGrade aggregates the student body per year level.
func (r *ReportRepository) StudentsPerGrade(ctx context.Context) ([]models.GradeLevelSummary, error) {
	const query = `SELECT grade,
            COUNT(*) AS student_count,
            COUNT(DISTINCT email) AS unique_emails
        FROM students
        GROUP BY grade
        ORDER BY grade`

	rows := []models.GradeLevelSummary{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query students per grade: %w", err)
	}
	return rows, nil
}

// PopularCourses lists courses whose enrollment count meets the threshold.
// The threshold is bound as received (possibly NaN); an unusable value is
// the store's to reject. Courses without enrollments never appear.
func (r *ReportRepository) PopularCourses(ctx context.Context, minEnrollments float64) ([]models.PopularCourse, error) {
	query := `SELECT c.course_id, c.course_name, c.department, c.credits,
            COUNT(e.enrollment_id) AS enrollment_count,
            ROUND(AVG(` + gradePointsElseZero + `), 2) AS average_gpa
        FROM courses c
        JOIN enrollments e ON e.course_id = c.course_id
        GROUP BY c.course_id, c.course_name, c.department, c.credits
        HAVING COUNT(e.enrollment_id) >= ?
        ORDER BY enrollment_count DESC, c.course_name`

	rows := []models.PopularCourse{}
	if err := r.db.SelectContext(ctx, &rows, query, minEnrollments); err != nil {
		return nil, fmt.Errorf("query popular courses: %w", err)
	}
	return rows, nil
}

// StudentPerformance aggregates graded course work per student. When
// gradeLevel is non-empty an extra predicate is appended, and because the
// fragment carries its argument, the grade value is bound before the GPA
// threshold exactly as the placeholders appear.
func (r *ReportRepository) StudentPerformance(ctx context.Context, minGPA float64, gradeLevel string) ([]models.StudentPerformance, error) {
	qc := newComposer(`SELECT s.student_id, s.first_name, s.last_name, s.grade,
            COUNT(e.enrollment_id) AS courses_taken,
            COALESCE(SUM(c.credits), 0) AS total_credits,
            ROUND(AVG(` + gradePointsExplicitF + `), 2) AS gpa,
            COALESCE(GROUP_CONCAT(CONCAT(c.course_name, ' (', e.grade, ')')
                ORDER BY e.enrollment_date DESC SEPARATOR ', '), '') AS course_history
        FROM students s
        JOIN enrollments e ON e.student_id = s.student_id
        JOIN courses c ON c.course_id = e.course_id
        WHERE e.grade IS NOT NULL`)
	qc.AppendIf(gradeLevel != "", ` AND s.grade = ?`, gradeLevel)
	qc.Append(`
        GROUP BY s.student_id, s.first_name, s.last_name, s.grade
        HAVING gpa >= ?
        ORDER BY gpa DESC`, minGPA)

	query, args, err := qc.Build()
	if err != nil {
		return nil, fmt.Errorf("compose student performance: %w", err)
	}

	rows := []models.StudentPerformance{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query student performance: %w", err)
	}
	return rows, nil
}

// StudentsInCourses returns the distinct students enrolled in at least one
// of the given courses. The id list is bound twice: once for the per-student
// count subquery and once for the membership filter.
func (r *ReportRepository) StudentsInCourses(ctx context.Context, courseIDs []string) ([]models.CourseParticipant, error) {
	const template = `SELECT DISTINCT s.student_id, s.first_name, s.last_name, s.email, s.grade,
            (SELECT COUNT(*) FROM enrollments e2
                WHERE e2.student_id = s.student_id AND e2.course_id IN (?)) AS matching_course_count
        FROM students s
        JOIN enrollments e ON e.student_id = s.student_id
        WHERE e.course_id IN (?)
        ORDER BY s.last_name, s.first_name`

	query, args, err := sqlx.In(template, courseIDs, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("expand course id list: %w", err)
	}

	rows := []models.CourseParticipant{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query students in courses: %w", err)
	}
	return rows, nil
}

// CourseDetails builds one course's aggregate profile. The left joins keep a
// zero-enrollment course visible with zero/NULL aggregates; sql.ErrNoRows
// escapes only when the id matches no course at all.
func (r *ReportRepository) CourseDetails(ctx context.Context, courseID string) (*models.CourseDetails, error) {
	query := `SELECT c.course_id, c.course_name, c.department, c.credits,
            COUNT(DISTINCT e.student_id) AS total_students,
            COUNT(DISTINCT s.grade) AS grade_levels_represented,
            SUM(CASE WHEN e.grade = 'A' THEN 1 ELSE 0 END) AS a_count,
            SUM(CASE WHEN e.grade = 'B' THEN 1 ELSE 0 END) AS b_count,
            SUM(CASE WHEN e.grade = 'C' THEN 1 ELSE 0 END) AS c_count,
            SUM(CASE WHEN e.grade = 'D' THEN 1 ELSE 0 END) AS d_count,
            SUM(CASE WHEN e.grade = 'F' THEN 1 ELSE 0 END) AS f_count,
            ROUND(SUM(CASE WHEN e.grade = 'A' THEN 1 ELSE 0 END) / NULLIF(COUNT(e.enrollment_id), 0) * 100, 1) AS a_percentage,
            ROUND(SUM(CASE WHEN e.grade = 'B' THEN 1 ELSE 0 END) / NULLIF(COUNT(e.enrollment_id), 0) * 100, 1) AS b_percentage,
            ROUND(AVG(` + gradePointsExplicitF + `), 2) AS average_gpa,
            MAX(e.enrollment_date) AS latest_enrollment,
            (SELECT CONCAT(s2.first_name, ' ', s2.last_name)
                FROM enrollments e3
                JOIN students s2 ON s2.student_id = e3.student_id
                WHERE e3.course_id = c.course_id AND e3.grade = 'A'
                LIMIT 1) AS top_student_example
        FROM courses c
        LEFT JOIN enrollments e ON e.course_id = c.course_id
        LEFT JOIN students s ON s.student_id = e.student_id
        WHERE c.course_id = ?
        GROUP BY c.course_id, c.course_name, c.department, c.credits`

	var details models.CourseDetails
	if err := r.db.GetContext(ctx, &details, query, courseID); err != nil {
		return nil, err
	}
	return &details, nil
}

// GradedEnrollments returns every enrollment carrying a letter grade, with
// student identity and course credits attached. The top-performers report
// derives its aggregates from these rows in the service layer.
func (r *ReportRepository) GradedEnrollments(ctx context.Context) ([]models.GradedEnrollmentRow, error) {
	const query = `SELECT s.student_id, s.first_name, s.last_name, s.grade,
            c.course_id, e.grade AS letter, c.credits
        FROM students s
        JOIN enrollments e ON e.student_id = s.student_id
        JOIN courses c ON c.course_id = e.course_id
        WHERE e.grade IS NOT NULL
        ORDER BY s.student_id, e.enrollment_date`

	rows := []models.GradedEnrollmentRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query graded enrollments: %w", err)
	}
	return rows, nil
}

// DepartmentAnalytics aggregates courses, students and outcomes per
// department. Departments with no enrollments are filtered out after
// grouping. The GPA CASE here deliberately has no F branch; see the policy
// constants above.
func (r *ReportRepository) DepartmentAnalytics(ctx context.Context) ([]models.DepartmentAnalytics, error) {
	query := `SELECT c.department,
            COUNT(DISTINCT c.course_id) AS total_courses,
            COUNT(DISTINCT e.student_id) AS total_students,
            COUNT(e.enrollment_id) AS total_enrollments,
            (SELECT COALESCE(SUM(c2.credits), 0) FROM courses c2 WHERE c2.department = c.department) AS total_credits,
            (SELECT AVG(c3.credits) FROM courses c3 WHERE c3.department = c.department) AS avg_course_credits,
            ROUND(AVG(` + gradePointsNoF + `), 2) AS department_avg_gpa,
            CONCAT('A:', SUM(CASE WHEN e.grade = 'A' THEN 1 ELSE 0 END),
                   ' B:', SUM(CASE WHEN e.grade = 'B' THEN 1 ELSE 0 END),
                   ' C:', SUM(CASE WHEN e.grade = 'C' THEN 1 ELSE 0 END)) AS grade_distribution,
            ROUND(SUM(CASE WHEN e.grade IN ('A', 'B', 'C') THEN 1 ELSE 0 END)
                / NULLIF(SUM(CASE WHEN e.grade IS NOT NULL THEN 1 ELSE 0 END), 0) * 100, 1) AS success_rate_percent
        FROM courses c
        LEFT JOIN enrollments e ON e.course_id = c.course_id
        GROUP BY c.department
        HAVING COUNT(e.enrollment_id) > 0
        ORDER BY department_avg_gpa DESC`

	rows := []models.DepartmentAnalytics{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query department analytics: %w", err)
	}
	return rows, nil
}

// Ping verifies store connectivity for the health endpoint.
func (r *ReportRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
