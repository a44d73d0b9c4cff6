package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/school-reports-api/pkg/errors"
)

// Envelope is the uniform top-level response shape. Success responses carry
// data plus an optional row count and the filters/criteria that produced
// them; failures carry only the stable error message.
type Envelope struct {
	Success  bool        `json:"success"`
	Count    *int        `json:"count,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Filters  interface{} `json:"filters,omitempty"`
	Criteria interface{} `json:"criteria,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// List sends a success envelope for a row set, with count = len(rows) filled
// in by the caller.
func List(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// ListFiltered is List with the echo of the filters applied to the query.
func ListFiltered(c *gin.Context, count int, data interface{}, filters interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data, Filters: filters})
}

// ListWithCriteria is List with the selection criteria echoed back.
func ListWithCriteria(c *gin.Context, count int, data interface{}, criteria interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data, Criteria: criteria})
}

// Object sends a success envelope for a single entity (no count).
func Object(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Error sends a failure envelope, resolving the HTTP status and stable
// message from the typed error.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, Envelope{Success: false, Error: appErr.Message})
}
