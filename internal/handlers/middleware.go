package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContextTeacherID is the gin context key holding the authenticated teacher.
const ContextTeacherID = "teacher_id"

// teacherIDHeader is set by the authenticating gateway in front of this
// service.
const teacherIDHeader = "X-Teacher-ID"

// TeacherMiddleware extracts the authenticated teacher id from the gateway
// header and stores it in the request context. Every route behind it receives
// an explicit teacher id; requests without one are rejected.
func TeacherMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(teacherIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing " + teacherIDHeader + " header",
			})
			return
		}

		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid " + teacherIDHeader + " header",
			})
			return
		}

		c.Set(ContextTeacherID, uint(id))
		c.Next()
	}
}
