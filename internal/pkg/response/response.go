package response

import (
	"net/http"
	"reflect"

	"github.com/aben/console/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	TotalPage   int   `json:"totalPage"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"hasNextPage"`
}

// pagedResponse is the envelope for paginated list responses.
type pagedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// OK sends a 200 response. Arrays/slices are wrapped in {data: [...]}.
func OK(c *gin.Context, data interface{}) {
	if data != nil {
		v := reflect.ValueOf(data)
		if v.Kind() == reflect.Slice {
			c.JSON(http.StatusOK, gin.H{"data": data})
			return
		}
	}
	c.JSON(http.StatusOK, data)
}

// Paged sends a paginated response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedResponse{
		Data:       data,
		Pagination: pagination,
	})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Fail aborts with the error envelope {ok, code, error, message}.
func Fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": 0, "code": status, "error": code, "message": message})
}

// Error maps an *apperr.Error to its status and code. Any other error is
// attached to the context for the request logger and reported as a 500.
func Error(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		Fail(c, e.Status, e.Code, e.Message)
		return
	}
	_ = c.Error(err)
	InternalError(c)
}

// Validation sends a 400 VALIDATION_ERROR.
func Validation(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, apperr.ErrValidation.Code, message)
}

// Unauthorized sends a 401 UNAUTHENTICATED.
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, apperr.ErrUnauthenticated.Code, message)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	Fail(c, http.StatusNotFound, apperr.ErrNotFound.Code, "Not Found")
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	Fail(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method Not Allowed")
}

// InternalError sends a generic 500 error response.
func InternalError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
