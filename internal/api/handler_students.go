package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restroom-queue-backend/internal/model"
)

type postStudentsRequest struct {
	Students []struct {
		FullName string `json:"full_name" binding:"required"`
		Unit     string `json:"unit" binding:"required"`
		Gender   string `json:"gender" binding:"required"`
	} `json:"students" binding:"required,min=1"`
}

// PostStudents handles POST /api/students — bulk roster insert. Students
// already present (same name and unit, case-insensitive) are skipped.
func (h *Handler) PostStudents(c *gin.Context) {
	var req postStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	students := make([]model.Student, 0, len(req.Students))
	for _, st := range req.Students {
		students = append(students, model.Student{
			FullName: st.FullName,
			Unit:     st.Unit,
			Gender:   st.Gender,
		})
	}

	count, err := h.store.AddStudents(c.Request.Context(), students)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inserted": count})
}

// GetStudents handles GET /api/students.
func (h *Handler) GetStudents(c *gin.Context) {
	students, err := h.store.ListStudents(c.Request.Context())
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}
