package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dispatcher handles one raw invocation payload
type Dispatcher interface {
	Handle(ctx context.Context, payload map[string]any) (map[string]any, error)
}

// InvokeHandler accepts raw Lambda events over HTTP so both event shapes can
// be exercised without deploying.
type InvokeHandler struct {
	dispatcher Dispatcher
}

// NewInvokeHandler creates a new invoke handler
func NewInvokeHandler(dispatcher Dispatcher) *InvokeHandler {
	return &InvokeHandler{dispatcher: dispatcher}
}

// Invoke dispatches the request body as a Lambda event
// @Summary Dispatch one raw invocation event
// @Description Body is an API Gateway proxy event or a Bedrock Agents action-group event
// @Tags runtime
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoke [post]
func (h *InvokeHandler) Invoke(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request format",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.dispatcher.Handle(c.Request.Context(), payload)
	if err != nil {
		status, title := dispatchStatus(err)
		c.JSON(status, ErrorResponse{Error: title, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
