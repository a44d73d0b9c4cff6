package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentsByGradeBindsRawValue(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "first_name", "last_name", "email", "grade", "enrollment_date"}).
		AddRow(1, "Ana", "Diaz", "ana@school.edu", 10, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE grade = ?")).
		WithArgs("10").
		WillReturnRows(rows)

	students, err := repo.StudentsByGrade(context.Background(), "10")
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, "Diaz", students[0].LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A hostile grade value travels as a bound parameter, never as query text.
func TestStudentsByGradeInjectionStringStaysData(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	hostile := "10 OR 1=1; DROP TABLE students"
	mock.ExpectQuery(regexp.QuoteMeta("WHERE grade = ?")).
		WithArgs(hostile).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "first_name", "last_name", "email", "grade", "enrollment_date"}))

	students, err := repo.StudentsByGrade(context.Background(), hostile)
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentEnrollmentsOrdersByDateDesc(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "first_name", "last_name", "enrollment_id", "course_id", "course_name", "department", "credits", "grade", "enrollment_date"}).
		AddRow(7, "Ben", "Okafor", 31, 2, "Calculus I", "Mathematics", 4, "A", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)).
		AddRow(7, "Ben", "Okafor", 12, 5, "Biology", "Science", 3, nil, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.student_id = ?")).
		WithArgs("7").
		WillReturnRows(rows)

	enrollments, err := repo.StudentEnrollments(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	assert.Equal(t, "A", *enrollments[0].Grade)
	assert.Nil(t, enrollments[1].Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentsWithEnrollmentsIncludesZeroEnrollmentStudents(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "first_name", "last_name", "email", "grade", "total_enrollments", "courses"}).
		AddRow(1, "Ana", "Diaz", "ana@school.edu", 10, 2, "Biology, Calculus I").
		AddRow(2, "Cy", "Lee", "cy@school.edu", 9, 0, "")
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN enrollments e ON e.student_id = s.student_id")).
		WillReturnRows(rows)

	students, err := repo.StudentsWithEnrollments(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, 0, students[1].TotalEnrollments)
	assert.Equal(t, "", students[1].Courses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPopularCoursesBindsThreshold(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"course_id", "course_name", "department", "credits", "enrollment_count", "average_gpa"}).
		AddRow(2, "Calculus I", "Mathematics", 4, 12, 3.25).
		AddRow(5, "Biology", "Science", 3, 9, nil)
	mock.ExpectQuery(regexp.QuoteMeta("HAVING COUNT(e.enrollment_id) >= ?")).
		WithArgs(5.0).
		WillReturnRows(rows)

	courses, err := repo.PopularCourses(context.Background(), 5.0)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, 12, courses[0].EnrollmentCount)
	assert.Nil(t, courses[1].AverageGPA)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentPerformanceWithoutGradeFilterBindsOneArg(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "first_name", "last_name", "grade", "courses_taken", "total_credits", "gpa", "course_history"}).
		AddRow(1, "Ana", "Diaz", 10, 3, 10, 3.67, "Calculus I (A), Biology (B)")
	mock.ExpectQuery(regexp.QuoteMeta("HAVING gpa >= ?")).
		WithArgs(3.0).
		WillReturnRows(rows)

	perf, err := repo.StudentPerformance(context.Background(), 3.0, "")
	require.NoError(t, err)
	assert.Len(t, perf, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// With a grade filter the grade binds before the GPA threshold, matching the
// order the placeholders appear in the text.
func TestStudentPerformanceWithGradeFilterBindsGradeFirst(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("AND s.grade = ?")).
		WithArgs("11", 3.5).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "first_name", "last_name", "grade", "courses_taken", "total_credits", "gpa", "course_history"}))

	_, err := repo.StudentPerformance(context.Background(), 3.5, "11")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The course id list expands into both IN clauses, subquery first.
func TestStudentsInCoursesBindsListTwice(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "first_name", "last_name", "email", "grade", "matching_course_count"}).
		AddRow(1, "Ana", "Diaz", "ana@school.edu", 10, 2)
	mock.ExpectQuery(regexp.QuoteMeta("e2.course_id IN (?, ?)")).
		WithArgs("2", "5", "2", "5").
		WillReturnRows(rows)

	participants, err := repo.StudentsInCourses(context.Background(), []string{"2", "5"})
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, 2, participants[0].MatchingCourseCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseDetailsReturnsErrNoRowsForUnknownCourse(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.course_id = ?")).
		WithArgs("999").
		WillReturnError(sql.ErrNoRows)

	details, err := repo.CourseDetails(context.Background(), "999")
	assert.Nil(t, details)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseDetailsZeroEnrollmentCourseKeepsNullAggregates(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"course_id", "course_name", "department", "credits", "total_students", "grade_levels_represented", "a_count", "b_count", "c_count", "d_count", "f_count", "a_percentage", "b_percentage", "average_gpa", "latest_enrollment", "top_student_example"}).
		AddRow(8, "Latin", "Languages", 2, 0, 0, 0, 0, 0, 0, 0, nil, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.course_id = ?")).
		WithArgs("8").
		WillReturnRows(rows)

	details, err := repo.CourseDetails(context.Background(), "8")
	require.NoError(t, err)
	assert.Equal(t, 0, details.TotalStudents)
	assert.Nil(t, details.AverageGPA)
	assert.Nil(t, details.TopStudentExample)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradedEnrollmentsExcludesNullGrades(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "first_name", "last_name", "grade", "course_id", "letter", "credits"}).
		AddRow(1, "Ana", "Diaz", 10, 2, "A", 4).
		AddRow(1, "Ana", "Diaz", 10, 5, "B", 3)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.grade IS NOT NULL")).
		WillReturnRows(rows)

	graded, err := repo.GradedEnrollments(context.Background())
	require.NoError(t, err)
	assert.Len(t, graded, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The three grade-point CASE variants are distinct on purpose; pin each
// policy so a well-meaning unification shows up in review.
func TestGradePointCasePolicies(t *testing.T) {
	assert.Contains(t, gradePointsElseZero, "WHEN e.grade IS NOT NULL THEN 0.0")
	assert.Contains(t, gradePointsExplicitF, "WHEN 'F' THEN 0.0")
	assert.NotContains(t, gradePointsNoF, "'F'")

	for _, fragment := range []string{gradePointsElseZero, gradePointsExplicitF, gradePointsNoF} {
		assert.Contains(t, fragment, "THEN 4.0")
		assert.Contains(t, fragment, "THEN 1.0")
	}
}

func TestDepartmentAnalyticsScansDistribution(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"department", "total_courses", "total_students", "total_enrollments", "total_credits", "avg_course_credits", "department_avg_gpa", "grade_distribution", "success_rate_percent"}).
		AddRow("Mathematics", 3, 40, 55, 11, 3.6667, 3.12, "A:10 B:20 C:15", 81.8)
	mock.ExpectQuery(regexp.QuoteMeta("HAVING COUNT(e.enrollment_id) > 0")).
		WillReturnRows(rows)

	departments, err := repo.DepartmentAnalytics(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "A:10 B:20 C:15", departments[0].GradeDistribution)
	require.NotNil(t, departments[0].SuccessRatePct)
	assert.InDelta(t, 81.8, *departments[0].SuccessRatePct, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}
