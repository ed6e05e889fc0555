package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the success envelope: 200 {"success":true,"data":...}.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody is the failure envelope: {"error":...,"details":...}.
// The details field carries the provider/store message verbatim.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// BadRequest sends 400 with error message and detail.
func BadRequest(c *gin.Context, err, details string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: err, Details: details})
}

// Internal sends 500 with error message and detail.
func Internal(c *gin.Context, err, details string) {
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: err, Details: details})
}
