package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adityarawat/newsroom/internal/queue"
	queue_publisher "github.com/adityarawat/newsroom/internal/service"
)

type notifyReq struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SendNotification enqueues a broadcast for the push relay.  The background
// consumer delivers it to every registered device; a failed publish is
// reported to the caller as an upstream failure.
func SendNotification(c echo.Context) error {
	var req notifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	if req.Title == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "title and message are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ev := queue.PushBroadcastEvent{
		Title:       req.Title,
		Message:     req.Message,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishPushBroadcast(ctx, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to send notification"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "notification sent successfully"})
}
