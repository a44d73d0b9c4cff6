package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/school-reports-api/pkg/export"
	appErrors "github.com/noah-isme/school-reports-api/pkg/errors"
)

// ExportFormat is a validated download format.
type ExportFormat struct {
	Format string `validate:"required,oneof=csv pdf"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders report payloads as downloadable tables.
type ExportService struct {
	reports  *ReportService
	validate *validator.Validate
}

// NewExportService constructs an export service.
func NewExportService(reports *ReportService) *ExportService {
	return &ExportService{reports: reports, validate: validator.New()}
}

// normalizeFormat defaults the format to csv and validates it.
func (s *ExportService) normalizeFormat(format string) (string, error) {
	if format == "" {
		format = "csv"
	}
	if err := s.validate.Struct(ExportFormat{Format: format}); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q, expected csv or pdf", format))
	}
	return format, nil
}

// Departments renders the department analytics report.
func (s *ExportService) Departments(ctx context.Context, format string) (*ExportFile, error) {
	format, err := s.normalizeFormat(format)
	if err != nil {
		return nil, err
	}

	rows, _, err := s.reports.DepartmentAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   "Department Analytics",
		Columns: []string{"Department", "Courses", "Students", "Enrollments", "Credits", "Avg Credits", "Avg GPA", "Grades", "Success %"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Department,
			strconv.Itoa(row.TotalCourses),
			strconv.Itoa(row.TotalStudents),
			strconv.Itoa(row.TotalEnrollments),
			strconv.Itoa(row.TotalCredits),
			formatFloat(row.AvgCourseCredits),
			formatFloatPtr(row.DepartmentAvgGPA),
			row.GradeDistribution,
			formatFloatPtr(row.SuccessRatePct),
		})
	}

	return s.render(table, "departments", format)
}

// TopPerformers renders the top-performers report with its thresholds.
func (s *ExportService) TopPerformers(ctx context.Context, format string, minCourses int, minGPA float64) (*ExportFile, error) {
	format, err := s.normalizeFormat(format)
	if err != nil {
		return nil, err
	}

	rows, _, err := s.reports.TopPerformers(ctx, minCourses, minGPA)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   "Top Performers",
		Columns: []string{"Student ID", "First Name", "Last Name", "Grade", "Courses", "Credits", "Weighted GPA", "A Count", "Rating"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(row.StudentID, 10),
			row.FirstName,
			row.LastName,
			strconv.Itoa(row.Grade),
			strconv.Itoa(row.CoursesCompleted),
			strconv.Itoa(row.TotalCreditsEarned),
			formatFloat(row.WeightedGPA),
			strconv.Itoa(row.ACount),
			row.PerformanceRating,
		})
	}

	return s.render(table, "top-performers", format)
}

func (s *ExportService) render(table export.Table, name, format string) (*ExportFile, error) {
	switch format {
	case "pdf":
		content, err := table.PDF()
		if err != nil {
			return nil, appErrors.QueryFailed(err, "Failed to render export")
		}
		return &ExportFile{Content: content, ContentType: "application/pdf", Filename: name + ".pdf"}, nil
	default:
		content, err := table.CSV()
		if err != nil {
			return nil, appErrors.QueryFailed(err, "Failed to render export")
		}
		return &ExportFile{Content: content, ContentType: "text/csv", Filename: name + ".csv"}, nil
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
