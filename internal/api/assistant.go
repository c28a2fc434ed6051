package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cloudwego/eino/schema"
	"github.com/equine-kiosk/server/internal/assistant"
	"github.com/gin-gonic/gin"
)

// ToolRunner executes assistant tools with JSON arguments.
type ToolRunner interface {
	Infos() []*schema.ToolInfo
	Run(ctx context.Context, name, arguments string) (string, error)
}

// WithAssistant enables the /api/assistant endpoints.
func (h *Handler) WithAssistant(r ToolRunner) *Handler {
	h.assistant = r
	return h
}

type toolView struct {
	Name string `json:"name"`
	Desc string `json:"description"`
}

func (h *Handler) ListTools(c *gin.Context) {
	if h.assistant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assistant disabled"})
		return
	}
	infos := h.assistant.Infos()
	views := make([]toolView, 0, len(infos))
	for _, info := range infos {
		views = append(views, toolView{Name: info.Name, Desc: info.Desc})
	}
	c.JSON(http.StatusOK, gin.H{"tools": views})
}

func (h *Handler) RunTool(c *gin.Context) {
	if h.assistant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assistant disabled"})
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, err)
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		badRequest(c, errors.New("arguments must be a JSON object"))
		return
	}

	out, err := h.assistant.Run(c.Request.Context(), c.Param("name"), string(body))
	if err != nil {
		if errors.Is(err, assistant.ErrUnknownTool) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(out))
}
