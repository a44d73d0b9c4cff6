package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-reports-api/internal/models"
	appErrors "github.com/noah-isme/school-reports-api/pkg/errors"
)

// topPerformersLimit caps the top-performers report.
const topPerformersLimit = 20

// ReportStore describes the persistence layer required by ReportService.
type ReportStore interface {
	StudentsByGrade(ctx context.Context, grade string) ([]models.Student, error)
	StudentEnrollments(ctx context.Context, studentID string) ([]models.StudentEnrollmentRow, error)
	StudentsWithEnrollments(ctx context.Context) ([]models.StudentWithEnrollments, error)
	StudentsPerGrade(ctx context.Context) ([]models.GradeLevelSummary, error)
	PopularCourses(ctx context.Context, minEnrollments float64) ([]models.PopularCourse, error)
	StudentPerformance(ctx context.Context, minGPA float64, gradeLevel string) ([]models.StudentPerformance, error)
	StudentsInCourses(ctx context.Context, courseIDs []string) ([]models.CourseParticipant, error)
	CourseDetails(ctx context.Context, courseID string) (*models.CourseDetails, error)
	GradedEnrollments(ctx context.Context) ([]models.GradedEnrollmentRow, error)
	DepartmentAnalytics(ctx context.Context) ([]models.DepartmentAnalytics, error)
	Ping(ctx context.Context) error
}

// ReportService executes the read-only reports: it logs intent and outcome,
// applies the query timeout, consults the optional cache, and shapes store
// failures into stable operation-specific messages.
type ReportService struct {
	repo         ReportStore
	cache        *CacheService
	metrics      *MetricsService
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewReportService constructs a report service.
func NewReportService(repo ReportStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger, queryTimeout time.Duration) *ReportService {
	return &ReportService{repo: repo, cache: cache, metrics: metrics, logger: logger, queryTimeout: queryTimeout}
}

// withTimeout bounds a store call when a query timeout is configured.
func (s *ReportService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// StudentsByGrade lists students of one year level.
func (s *ReportService) StudentsByGrade(ctx context.Context, grade string) ([]models.Student, error) {
	s.logger.Info("fetching students by grade", zap.String("grade", grade))
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	students, err := s.repo.StudentsByGrade(ctx, grade)
	if err != nil {
		s.logger.Error("students by grade query failed", zap.String("grade", grade), zap.Error(err))
		return nil, appErrors.QueryFailed(err, "Failed to fetch students")
	}
	s.metrics.ObserveQuery("students_by_grade", time.Since(start))
	s.logger.Info("fetched students by grade", zap.String("grade", grade), zap.Int("count", len(students)))
	return students, nil
}

// StudentEnrollments lists one student's enrollments.
func (s *ReportService) StudentEnrollments(ctx context.Context, studentID string) ([]models.StudentEnrollmentRow, error) {
	s.logger.Info("fetching student enrollments", zap.String("student_id", studentID))
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.repo.StudentEnrollments(ctx, studentID)
	if err != nil {
		s.logger.Error("student enrollments query failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, appErrors.QueryFailed(err, "Failed to fetch student enrollments")
	}
	s.metrics.ObserveQuery("student_enrollments", time.Since(start))
	s.logger.Info("fetched student enrollments", zap.String("student_id", studentID), zap.Int("count", len(rows)))
	return rows, nil
}

// StudentsWithEnrollments returns every student with enrollment totals.
func (s *ReportService) StudentsWithEnrollments(ctx context.Context) ([]models.StudentWithEnrollments, error) {
	s.logger.Info("fetching all students with enrollments")
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.repo.StudentsWithEnrollments(ctx)
	if err != nil {
		s.logger.Error("students with enrollments query failed", zap.Error(err))
		return nil, appErrors.QueryFailed(err, "Failed to fetch students with enrollments")
	}
	s.metrics.ObserveQuery("students_with_enrollments", time.Since(start))
	s.logger.Info("fetched students with enrollments", zap.Int("count", len(rows)))
	return rows, nil
}

// StudentsPerGrade aggregates the student body per year level. The boolean
// reports whether the payload came from cache.
func (s *ReportService) StudentsPerGrade(ctx context.Context) ([]models.GradeLevelSummary, bool, error) {
	s.logger.Info("fetching students per grade")
	cacheKey := reportCacheKey("students-per-grade")
	var cached []models.GradeLevelSummary
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, true, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.repo.StudentsPerGrade(ctx)
	if err != nil {
		s.logger.Error("students per grade query failed", zap.Error(err))
		return nil, false, appErrors.QueryFailed(err, "Failed to fetch students per grade")
	}
	s.metrics.ObserveQuery("students_per_grade", time.Since(start))
	s.cache.Set(ctx, cacheKey, rows)
	s.logger.Info("fetched students per grade", zap.Int("count", len(rows)))
	return rows, false, nil
}

// PopularCourses lists courses meeting the enrollment threshold. The
// threshold is forwarded as received, NaN included.
func (s *ReportService) PopularCourses(ctx context.Context, minEnrollments float64) ([]models.PopularCourse, bool, error) {
	s.logger.Info("fetching popular courses", zap.Float64("min_enrollments", minEnrollments))
	cacheKey := reportCacheKey("popular-courses", fmt.Sprintf("%v", minEnrollments))
	var cached []models.PopularCourse
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, true, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.repo.PopularCourses(ctx, minEnrollments)
	if err != nil {
		s.logger.Error("popular courses query failed", zap.Float64("min_enrollments", minEnrollments), zap.Error(err))
		return nil, false, appErrors.QueryFailed(err, "Failed to fetch popular courses")
	}
	s.metrics.ObserveQuery("popular_courses", time.Since(start))
	s.cache.Set(ctx, cacheKey, rows)
	s.logger.Info("fetched popular courses", zap.Int("count", len(rows)))
	return rows, false, nil
}

// StudentPerformance aggregates graded course work, optionally filtered to
// one year level.
func (s *ReportService) StudentPerformance(ctx context.Context, minGPA float64, gradeLevel string) ([]models.StudentPerformance, error) {
	s.logger.Info("fetching student performance",
		zap.Float64("min_gpa", minGPA),
		zap.String("grade", gradeLevel),
	)
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.repo.StudentPerformance(ctx, minGPA, gradeLevel)
	if err != nil {
		s.logger.Error("student performance query failed", zap.Error(err))
		return nil, appErrors.QueryFailed(err, "Failed to fetch student performance")
	}
	s.metrics.ObserveQuery("student_performance", time.Since(start))
	s.logger.Info("fetched student performance", zap.Int("count", len(rows)))
	return rows, nil
}

// StudentsInCourses lists distinct students enrolled in the given course
// set. An empty set is a validation error surfaced before any store call.
func (s *ReportService) StudentsInCourses(ctx context.Context, courseIDs []string) ([]models.CourseParticipant, error) {
	if len(courseIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseIds query parameter is required")
	}

	s.logger.Info("fetching students in courses", zap.Strings("course_ids", courseIDs))
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.repo.StudentsInCourses(ctx, courseIDs)
	if err != nil {
		s.logger.Error("students in courses query failed", zap.Error(err))
		return nil, appErrors.QueryFailed(err, "Failed to fetch students in courses")
	}
	s.metrics.ObserveQuery("students_in_courses", time.Since(start))
	s.logger.Info("fetched students in courses", zap.Int("count", len(rows)))
	return rows, nil
}

// CourseDetails returns one course's aggregate profile, or a 404 when the
// id matches no course.
func (s *ReportService) CourseDetails(ctx context.Context, courseID string) (*models.CourseDetails, error) {
	s.logger.Info("fetching course details", zap.String("course_id", courseID))
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	details, err := s.repo.CourseDetails(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		s.logger.Error("course details query failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, appErrors.QueryFailed(err, "Failed to fetch course details")
	}
	s.metrics.ObserveQuery("course_details", time.Since(start))
	s.logger.Info("fetched course details",
		zap.String("course_id", courseID),
		zap.Int("total_students", details.TotalStudents),
	)
	return details, nil
}

// TopPerformers derives the credit-weighted leaderboard from graded
// enrollment rows.
func (s *ReportService) TopPerformers(ctx context.Context, minCourses int, minGPA float64) ([]models.TopPerformer, bool, error) {
	s.logger.Info("fetching top performers", zap.Int("min_courses", minCourses), zap.Float64("min_gpa", minGPA))
	cacheKey := reportCacheKey("top-performers", fmt.Sprintf("%d", minCourses), fmt.Sprintf("%v", minGPA))
	var cached []models.TopPerformer
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, true, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.repo.GradedEnrollments(ctx)
	if err != nil {
		s.logger.Error("top performers query failed", zap.Error(err))
		return nil, false, appErrors.QueryFailed(err, "Failed to fetch top performers")
	}
	s.metrics.ObserveQuery("top_performers", time.Since(start))

	performers := aggregateTopPerformers(rows, minCourses, minGPA)
	s.cache.Set(ctx, cacheKey, performers)
	s.logger.Info("fetched top performers", zap.Int("count", len(performers)))
	return performers, false, nil
}

// DepartmentAnalytics aggregates outcomes per department.
func (s *ReportService) DepartmentAnalytics(ctx context.Context) ([]models.DepartmentAnalytics, bool, error) {
	s.logger.Info("fetching department analytics")
	cacheKey := reportCacheKey("departments")
	var cached []models.DepartmentAnalytics
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, true, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.repo.DepartmentAnalytics(ctx)
	if err != nil {
		s.logger.Error("department analytics query failed", zap.Error(err))
		return nil, false, appErrors.QueryFailed(err, "Failed to fetch department analytics")
	}
	s.metrics.ObserveQuery("department_analytics", time.Since(start))
	s.cache.Set(ctx, cacheKey, rows)
	s.logger.Info("fetched department analytics", zap.Int("count", len(rows)))
	return rows, false, nil
}

// Ping verifies store connectivity for the health endpoint.
func (s *ReportService) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Ping(ctx)
}

// aggregateTopPerformers folds graded enrollment rows into per-student
// summaries, applies both thresholds, orders by weighted GPA then breadth,
// and caps the result.
func aggregateTopPerformers(rows []models.GradedEnrollmentRow, minCourses int, minGPA float64) []models.TopPerformer {
	type accum struct {
		firstName  string
		lastName   string
		gradeLevel int
		courses    map[int64]struct{}
		credits    int
		quality    float64
		points     float64
		graded     int
		aCount     int
	}

	order := make([]int64, 0)
	byStudent := make(map[int64]*accum)

	for _, row := range rows {
		points, ok := gradePoints(row.Letter)
		if !ok {
			continue
		}
		acc := byStudent[row.StudentID]
		if acc == nil {
			acc = &accum{
				firstName:  row.FirstName,
				lastName:   row.LastName,
				gradeLevel: row.Grade,
				courses:    make(map[int64]struct{}),
			}
			byStudent[row.StudentID] = acc
			order = append(order, row.StudentID)
		}
		acc.courses[row.CourseID] = struct{}{}
		acc.credits += row.Credits
		acc.quality += points * float64(row.Credits)
		acc.points += points
		acc.graded++
		if row.Letter == "A" {
			acc.aCount++
		}
	}

	performers := make([]models.TopPerformer, 0, len(order))
	for _, id := range order {
		acc := byStudent[id]
		if acc.credits == 0 || acc.graded == 0 {
			continue
		}
		weighted := round2(acc.quality / float64(acc.credits))
		if len(acc.courses) < minCourses || weighted < minGPA {
			continue
		}
		performers = append(performers, models.TopPerformer{
			StudentID:          id,
			FirstName:          acc.firstName,
			LastName:           acc.lastName,
			Grade:              acc.gradeLevel,
			CoursesCompleted:   len(acc.courses),
			TotalCreditsEarned: acc.credits,
			WeightedGPA:        weighted,
			ACount:             acc.aCount,
			PerformanceRating:  performanceRating(acc.points / float64(acc.graded)),
		})
	}

	sort.SliceStable(performers, func(i, j int) bool {
		if performers[i].WeightedGPA != performers[j].WeightedGPA {
			return performers[i].WeightedGPA > performers[j].WeightedGPA
		}
		return performers[i].CoursesCompleted > performers[j].CoursesCompleted
	})

	if len(performers) > topPerformersLimit {
		performers = performers[:topPerformersLimit]
	}
	return performers
}

func reportCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("reports")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}
