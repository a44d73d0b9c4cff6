package handler

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-reports-api/internal/middleware"
	"github.com/noah-isme/school-reports-api/internal/models"
	"github.com/noah-isme/school-reports-api/pkg/response"
)

const (
	defaultMinCourses = 3
	defaultMinGPA     = 3.5
)

type reportService interface {
	StudentsByGrade(ctx context.Context, grade string) ([]models.Student, error)
	StudentEnrollments(ctx context.Context, studentID string) ([]models.StudentEnrollmentRow, error)
	StudentsWithEnrollments(ctx context.Context) ([]models.StudentWithEnrollments, error)
	StudentsPerGrade(ctx context.Context) ([]models.GradeLevelSummary, bool, error)
	PopularCourses(ctx context.Context, minEnrollments float64) ([]models.PopularCourse, bool, error)
	StudentPerformance(ctx context.Context, minGPA float64, gradeLevel string) ([]models.StudentPerformance, error)
	StudentsInCourses(ctx context.Context, courseIDs []string) ([]models.CourseParticipant, error)
	CourseDetails(ctx context.Context, courseID string) (*models.CourseDetails, error)
	TopPerformers(ctx context.Context, minCourses int, minGPA float64) ([]models.TopPerformer, bool, error)
	DepartmentAnalytics(ctx context.Context) ([]models.DepartmentAnalytics, bool, error)
}

// ReportHandler wires the report service to HTTP endpoints. Parameter
// extraction and defaulting happen here; every extracted value reaches the
// store as a bound parameter, never as query text.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs the report handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// StudentsByGrade godoc
// @Summary Students of one grade level
// @Tags Students
// @Produce json
// @Param grade path string true "Grade level"
// @Success 200 {object} response.Envelope
// @Router /api/students/grade/{grade} [get]
func (h *ReportHandler) StudentsByGrade(c *gin.Context) {
	grade := c.Param("grade")
	students, err := h.reports.StudentsByGrade(c.Request.Context(), grade)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.ListFiltered(c, len(students), students, gin.H{"grade": grade})
}

// StudentEnrollments godoc
// @Summary One student's enrollments
// @Tags Students
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /api/students/{studentId}/enrollments [get]
func (h *ReportHandler) StudentEnrollments(c *gin.Context) {
	rows, err := h.reports.StudentEnrollments(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, len(rows), rows)
}

// StudentsWithEnrollments godoc
// @Summary Every student with enrollment totals
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/students/all-with-enrollments [get]
func (h *ReportHandler) StudentsWithEnrollments(c *gin.Context) {
	rows, err := h.reports.StudentsWithEnrollments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, len(rows), rows)
}

// StudentsPerGrade godoc
// @Summary Student counts per grade level
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/analytics/students-per-grade [get]
func (h *ReportHandler) StudentsPerGrade(c *gin.Context) {
	rows, cacheHit, err := h.reports.StudentsPerGrade(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.List(c, len(rows), rows)
}

// PopularCourses godoc
// @Summary Courses meeting an enrollment threshold
// @Tags Courses
// @Produce json
// @Param minEnrollments path string true "Minimum enrollment count"
// @Success 200 {object} response.Envelope
// @Router /api/courses/popular/{minEnrollments} [get]
func (h *ReportHandler) PopularCourses(c *gin.Context) {
	raw := c.Param("minEnrollments")
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// An unparseable threshold is bound as NaN and left for the store
		// to reject, keeping the failure on the execution path.
		threshold = math.NaN()
	}

	rows, cacheHit, err := h.reports.PopularCourses(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.ListFiltered(c, len(rows), rows, gin.H{"min_enrollments": raw})
}

// StudentPerformance godoc
// @Summary Per-student GPA over graded work
// @Tags Analytics
// @Produce json
// @Param minGPA query number false "Minimum GPA (default 0)"
// @Param grade query string false "Grade level filter"
// @Success 200 {object} response.Envelope
// @Router /api/analytics/student-performance [get]
func (h *ReportHandler) StudentPerformance(c *gin.Context) {
	minGPA, err := strconv.ParseFloat(c.Query("minGPA"), 64)
	if err != nil {
		minGPA = 0
	}
	gradeLevel := c.Query("grade")

	rows, svcErr := h.reports.StudentPerformance(c.Request.Context(), minGPA, gradeLevel)
	if svcErr != nil {
		response.Error(c, svcErr)
		return
	}

	filters := gin.H{"min_gpa": minGPA}
	if gradeLevel != "" {
		filters["grade"] = gradeLevel
	}
	response.ListFiltered(c, len(rows), rows, filters)
}

// StudentsInCourses godoc
// @Summary Students enrolled in any of the given courses
// @Tags Students
// @Produce json
// @Param courseIds query string true "Comma-separated course IDs"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/students/in-courses [get]
func (h *ReportHandler) StudentsInCourses(c *gin.Context) {
	courseIDs := splitIDList(c.Query("courseIds"))

	rows, err := h.reports.StudentsInCourses(c.Request.Context(), courseIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.ListFiltered(c, len(rows), rows, gin.H{"course_ids": courseIDs})
}

// CourseDetails godoc
// @Summary One course's aggregate profile
// @Tags Analytics
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/analytics/course-details/{courseId} [get]
func (h *ReportHandler) CourseDetails(c *gin.Context) {
	details, err := h.reports.CourseDetails(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Object(c, details)
}

// TopPerformers godoc
// @Summary Credit-weighted GPA leaderboard
// @Tags Analytics
// @Produce json
// @Param minCourses query integer false "Minimum distinct courses (default 3)"
// @Param minGPA query number false "Minimum weighted GPA (default 3.5)"
// @Success 200 {object} response.Envelope
// @Router /api/analytics/top-performers [get]
func (h *ReportHandler) TopPerformers(c *gin.Context) {
	minCourses, minGPA := parsePerformerCriteria(c)

	rows, cacheHit, err := h.reports.TopPerformers(c.Request.Context(), minCourses, minGPA)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.ListWithCriteria(c, len(rows), rows, gin.H{"min_courses": minCourses, "min_gpa": minGPA})
}

// Departments godoc
// @Summary Per-department aggregates
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/analytics/departments [get]
func (h *ReportHandler) Departments(c *gin.Context) {
	rows, cacheHit, err := h.reports.DepartmentAnalytics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.List(c, len(rows), rows)
}

func parsePerformerCriteria(c *gin.Context) (int, float64) {
	minCourses, err := strconv.Atoi(c.Query("minCourses"))
	if err != nil {
		minCourses = defaultMinCourses
	}
	minGPA, err := strconv.ParseFloat(c.Query("minGPA"), 64)
	if err != nil {
		minGPA = defaultMinGPA
	}
	return minCourses, minGPA
}

func splitIDList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
