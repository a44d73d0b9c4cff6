package handler

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-reports-api/internal/models"
	appErrors "github.com/noah-isme/school-reports-api/pkg/errors"
)

type reportServiceMock struct {
	students     []models.Student
	enrollments  []models.StudentEnrollmentRow
	withEnr      []models.StudentWithEnrollments
	perGrade     []models.GradeLevelSummary
	popular      []models.PopularCourse
	performance  []models.StudentPerformance
	participants []models.CourseParticipant
	details      *models.CourseDetails
	performers   []models.TopPerformer
	departments  []models.DepartmentAnalytics
	cacheHit     bool
	err          error

	lastGrade          string
	lastMinEnrollments float64
	lastMinGPA         float64
	lastGradeLevel     string
	lastCourseIDs      []string
	lastMinCourses     int
}

func (m *reportServiceMock) StudentsByGrade(ctx context.Context, grade string) ([]models.Student, error) {
	m.lastGrade = grade
	return m.students, m.err
}

func (m *reportServiceMock) StudentEnrollments(ctx context.Context, studentID string) ([]models.StudentEnrollmentRow, error) {
	return m.enrollments, m.err
}

func (m *reportServiceMock) StudentsWithEnrollments(ctx context.Context) ([]models.StudentWithEnrollments, error) {
	return m.withEnr, m.err
}

func (m *reportServiceMock) StudentsPerGrade(ctx context.Context) ([]models.GradeLevelSummary, bool, error) {
	return m.perGrade, m.cacheHit, m.err
}

func (m *reportServiceMock) PopularCourses(ctx context.Context, minEnrollments float64) ([]models.PopularCourse, bool, error) {
	m.lastMinEnrollments = minEnrollments
	return m.popular, m.cacheHit, m.err
}

func (m *reportServiceMock) StudentPerformance(ctx context.Context, minGPA float64, gradeLevel string) ([]models.StudentPerformance, error) {
	m.lastMinGPA = minGPA
	m.lastGradeLevel = gradeLevel
	return m.performance, m.err
}

func (m *reportServiceMock) StudentsInCourses(ctx context.Context, courseIDs []string) ([]models.CourseParticipant, error) {
	m.lastCourseIDs = courseIDs
	if len(courseIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseIds query parameter is required")
	}
	return m.participants, m.err
}

func (m *reportServiceMock) CourseDetails(ctx context.Context, courseID string) (*models.CourseDetails, error) {
	return m.details, m.err
}

func (m *reportServiceMock) TopPerformers(ctx context.Context, minCourses int, minGPA float64) ([]models.TopPerformer, bool, error) {
	m.lastMinCourses = minCourses
	m.lastMinGPA = minGPA
	return m.performers, m.cacheHit, m.err
}

func (m *reportServiceMock) DepartmentAnalytics(ctx context.Context) ([]models.DepartmentAnalytics, bool, error) {
	return m.departments, m.cacheHit, m.err
}

func performGet(t *testing.T, target string, params gin.Params, handle gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = params
	handle(c)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestStudentsByGradeEchoesFilter(t *testing.T) {
	mockSvc := &reportServiceMock{students: []models.Student{{StudentID: 1, LastName: "Diaz"}}}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/students/grade/10", gin.Params{{Key: "grade", Value: "10"}}, h.StudentsByGrade)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, float64(1), envelope["count"])
	assert.Equal(t, map[string]interface{}{"grade": "10"}, envelope["filters"])
	assert.Equal(t, "10", mockSvc.lastGrade)
}

func TestStudentsByGradeServiceFailure(t *testing.T) {
	mockSvc := &reportServiceMock{err: appErrors.QueryFailed(assert.AnError, "Failed to fetch students")}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/students/grade/10", gin.Params{{Key: "grade", Value: "10"}}, h.StudentsByGrade)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	envelope := decodeEnvelope(t, w)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Failed to fetch students", envelope["error"])
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestPopularCoursesForwardsNaNForBadThreshold(t *testing.T) {
	mockSvc := &reportServiceMock{popular: []models.PopularCourse{}}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/courses/popular/abc", gin.Params{{Key: "minEnrollments", Value: "abc"}}, h.PopularCourses)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, math.IsNaN(mockSvc.lastMinEnrollments))

	envelope := decodeEnvelope(t, w)
	assert.Equal(t, map[string]interface{}{"min_enrollments": "abc"}, envelope["filters"])
}

func TestPopularCoursesParsesThreshold(t *testing.T) {
	mockSvc := &reportServiceMock{popular: []models.PopularCourse{{CourseID: 2}}}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/courses/popular/5", gin.Params{{Key: "minEnrollments", Value: "5"}}, h.PopularCourses)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5.0, mockSvc.lastMinEnrollments)
}

func TestStudentPerformanceDefaultsMinGPAToZero(t *testing.T) {
	mockSvc := &reportServiceMock{performance: []models.StudentPerformance{}}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/analytics/student-performance", nil, h.StudentPerformance)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, mockSvc.lastMinGPA)
	assert.Equal(t, "", mockSvc.lastGradeLevel)

	envelope := decodeEnvelope(t, w)
	filters, ok := envelope["filters"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(0), filters["min_gpa"])
	assert.NotContains(t, filters, "grade")
}

func TestStudentPerformanceEchoesGradeFilterWhenPresent(t *testing.T) {
	mockSvc := &reportServiceMock{performance: []models.StudentPerformance{}}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/analytics/student-performance?minGPA=3.5&grade=11", nil, h.StudentPerformance)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.5, mockSvc.lastMinGPA)
	assert.Equal(t, "11", mockSvc.lastGradeLevel)

	envelope := decodeEnvelope(t, w)
	filters, ok := envelope["filters"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "11", filters["grade"])
}

func TestStudentsInCoursesMissingParamIsBadRequest(t *testing.T) {
	h := NewReportHandler(&reportServiceMock{})

	w := performGet(t, "/api/students/in-courses", nil, h.StudentsInCourses)
	require.Equal(t, http.StatusBadRequest, w.Code)

	envelope := decodeEnvelope(t, w)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "courseIds query parameter is required", envelope["error"])
}

func TestStudentsInCoursesSplitsAndTrimsIDs(t *testing.T) {
	mockSvc := &reportServiceMock{participants: []models.CourseParticipant{}}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/students/in-courses?courseIds=2,%205,,8", nil, h.StudentsInCourses)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"2", "5", "8"}, mockSvc.lastCourseIDs)
}

func TestCourseDetailsNotFound(t *testing.T) {
	mockSvc := &reportServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "Course not found")}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/analytics/course-details/999", gin.Params{{Key: "courseId", Value: "999"}}, h.CourseDetails)
	require.Equal(t, http.StatusNotFound, w.Code)

	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Course not found", envelope["error"])
}

func TestCourseDetailsOmitsCount(t *testing.T) {
	mockSvc := &reportServiceMock{details: &models.CourseDetails{CourseID: 2, CourseName: "Calculus I"}}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/analytics/course-details/2", gin.Params{{Key: "courseId", Value: "2"}}, h.CourseDetails)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])
	assert.NotContains(t, envelope, "count")
}

func TestTopPerformersDefaultsCriteria(t *testing.T) {
	mockSvc := &reportServiceMock{performers: []models.TopPerformer{}}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/analytics/top-performers", nil, h.TopPerformers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, mockSvc.lastMinCourses)
	assert.Equal(t, 3.5, mockSvc.lastMinGPA)

	envelope := decodeEnvelope(t, w)
	criteria, ok := envelope["criteria"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), criteria["min_courses"])
	assert.Equal(t, 3.5, criteria["min_gpa"])
}

func TestTopPerformersParsesCriteria(t *testing.T) {
	mockSvc := &reportServiceMock{performers: []models.TopPerformer{}}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/analytics/top-performers?minCourses=5&minGPA=3.9", nil, h.TopPerformers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, mockSvc.lastMinCourses)
	assert.Equal(t, 3.9, mockSvc.lastMinGPA)
}

func TestCachedReportSetsCacheHeader(t *testing.T) {
	mockSvc := &reportServiceMock{perGrade: []models.GradeLevelSummary{}, cacheHit: true}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/analytics/students-per-grade", nil, h.StudentsPerGrade)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	mockSvc.cacheHit = false
	w = performGet(t, "/api/analytics/students-per-grade", nil, h.StudentsPerGrade)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
}

func TestDepartmentsListsRows(t *testing.T) {
	mockSvc := &reportServiceMock{departments: []models.DepartmentAnalytics{{Department: "Mathematics"}, {Department: "Science"}}}
	h := NewReportHandler(mockSvc)

	w := performGet(t, "/api/analytics/departments", nil, h.Departments)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	assert.Equal(t, float64(2), envelope["count"])
}
