package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/video-task-dashboard/internal/constants"
	apierrors "github.com/yukikurage/video-task-dashboard/internal/errors"
	"github.com/yukikurage/video-task-dashboard/internal/middleware"
	"github.com/yukikurage/video-task-dashboard/internal/services"
)

// DayHandler reads and stores the day selected in the session.
type DayHandler struct {
	views *services.ViewService
}

// NewDayHandler creates a new DayHandler.
func NewDayHandler(views *services.ViewService) *DayHandler {
	return &DayHandler{
		views: views,
	}
}

// GetDay returns the selected day and today.
func (h *DayHandler) GetDay(c *gin.Context) {
	day, ok := middleware.GetSelectedDay(c)
	if !ok {
		day = h.views.Today()
	}

	c.JSON(http.StatusOK, gin.H{
		"day":   day,
		"today": h.views.Today(),
	})
}

// SetDay remembers the selected day in the session.
func (h *DayHandler) SetDay(c *gin.Context) {
	type SetDayRequest struct {
		Day string `json:"day" binding:"required"`
	}

	var req SetDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, &req, err)
		return
	}
	if !middleware.IsValidDay(req.Day) {
		apierrors.InvalidFormat(c, "day must be formatted as YYYY-MM-DD")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeySelectedDay, req.Day)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"day":   req.Day,
		"today": h.views.Today(),
	})
}
