package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/video-task-dashboard/internal/models"
)

type EditorHandler struct {
	editors []models.Editor
}

func NewEditorHandler(editors []models.Editor) *EditorHandler {
	return &EditorHandler{
		editors: editors,
	}
}

// ListEditors returns the editor roster
func (h *EditorHandler) ListEditors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"editors": h.editors,
	})
}
