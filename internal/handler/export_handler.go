package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-reports-api/internal/service"
	"github.com/noah-isme/school-reports-api/pkg/response"
)

type exportService interface {
	Departments(ctx context.Context, format string) (*service.ExportFile, error)
	TopPerformers(ctx context.Context, format string, minCourses int, minGPA float64) (*service.ExportFile, error)
}

// ExportHandler serves downloadable report renditions.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs the export handler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Departments godoc
// @Summary Download department analytics
// @Tags Exports
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} file
// @Router /api/analytics/departments/export [get]
func (h *ExportHandler) Departments(c *gin.Context) {
	file, err := h.exports.Departments(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, file)
}

// TopPerformers godoc
// @Summary Download the top-performers leaderboard
// @Tags Exports
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf (default csv)"
// @Param minCourses query integer false "Minimum distinct courses (default 3)"
// @Param minGPA query number false "Minimum weighted GPA (default 3.5)"
// @Success 200 {file} file
// @Router /api/analytics/top-performers/export [get]
func (h *ExportHandler) TopPerformers(c *gin.Context) {
	minCourses, minGPA := parsePerformerCriteria(c)

	file, err := h.exports.TopPerformers(c.Request.Context(), c.Query("format"), minCourses, minGPA)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, file)
}

func serveDownload(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
