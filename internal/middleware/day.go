package middleware

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/video-task-dashboard/internal/constants"
	apierrors "github.com/yukikurage/video-task-dashboard/internal/errors"
	"github.com/yukikurage/video-task-dashboard/internal/models"
)

// Today returns the current day key
type Today func() string

// IsValidDay reports whether day is a YYYY-MM-DD calendar date
func IsValidDay(day string) bool {
	_, err := time.Parse(models.DayLayout, day)
	return err == nil
}

// SelectedDay resolves the day a request operates on: the date query
// parameter, then the day remembered in the session, then today.
func SelectedDay(today Today) gin.HandlerFunc {
	return func(c *gin.Context) {
		if day := c.Query("date"); day != "" {
			if !IsValidDay(day) {
				apierrors.InvalidFormat(c, "date must be formatted as YYYY-MM-DD")
				c.Abort()
				return
			}
			c.Set(constants.ContextKeySelectedDay, day)
			c.Next()
			return
		}

		day := today()
		session := sessions.Default(c)
		if stored, ok := session.Get(constants.SessionKeySelectedDay).(string); ok && IsValidDay(stored) {
			day = stored
		}

		c.Set(constants.ContextKeySelectedDay, day)
		c.Next()
	}
}

// GetSelectedDay retrieves the day set by SelectedDay
func GetSelectedDay(c *gin.Context) (string, bool) {
	day, exists := c.Get(constants.ContextKeySelectedDay)
	if !exists {
		return "", false
	}
	s, ok := day.(string)
	return s, ok
}
