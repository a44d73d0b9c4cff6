package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-reports-api/internal/models"
	appErrors "github.com/noah-isme/school-reports-api/pkg/errors"
)

func newTestExportService(store *reportStoreStub) *ExportService {
	return NewExportService(newTestService(store, nil))
}

func TestExportRejectsUnsupportedFormat(t *testing.T) {
	svc := newTestExportService(&reportStoreStub{})

	_, err := svc.Departments(context.Background(), "xlsx")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Message, `unsupported export format "xlsx"`)
}

func TestExportDepartmentsDefaultsToCSV(t *testing.T) {
	gpa := 3.12
	rate := 81.8
	store := &reportStoreStub{departments: []models.DepartmentAnalytics{{
		Department:        "Mathematics",
		TotalCourses:      3,
		TotalStudents:     40,
		TotalEnrollments:  55,
		TotalCredits:      11,
		AvgCourseCredits:  3.6667,
		DepartmentAvgGPA:  &gpa,
		GradeDistribution: "A:10 B:20 C:15",
		SuccessRatePct:    &rate,
	}}}
	svc := newTestExportService(store)

	file, err := svc.Departments(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "departments.csv", file.Filename)

	lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Department")
	assert.Contains(t, lines[1], "Mathematics")
	assert.Contains(t, lines[1], "3.12")
	assert.Contains(t, lines[1], "A:10 B:20 C:15")
}

func TestExportDepartmentsRendersPDF(t *testing.T) {
	store := &reportStoreStub{departments: []models.DepartmentAnalytics{{Department: "Science"}}}
	svc := newTestExportService(store)

	file, err := svc.Departments(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "departments.pdf", file.Filename)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestExportTopPerformersAppliesCriteria(t *testing.T) {
	store := &reportStoreStub{graded: []models.GradedEnrollmentRow{
		gradedRow(1, 10, "A", 4),
		gradedRow(1, 11, "A", 3),
		gradedRow(1, 12, "A", 3),
		gradedRow(2, 10, "C", 4),
		gradedRow(2, 11, "C", 3),
		gradedRow(2, 12, "C", 3),
	}}
	svc := newTestExportService(store)

	file, err := svc.TopPerformers(context.Background(), "csv", 3, 3.5)
	require.NoError(t, err)

	content := string(file.Content)
	assert.Contains(t, content, "Num1")
	assert.NotContains(t, content, "Num2")
	assert.Contains(t, content, "4.00")
	assert.Contains(t, content, "Outstanding")
}

func TestExportPropagatesStoreFailure(t *testing.T) {
	store := &reportStoreStub{err: assert.AnError}
	svc := newTestExportService(store)

	_, err := svc.Departments(context.Background(), "csv")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "Failed to fetch department analytics", appErr.Message)
}
