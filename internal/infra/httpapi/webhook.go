// internal/infra/httpapi/webhook.go
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// webhookPayload mirrors the platform's event envelope. Only text
// message events matter here; everything else is acknowledged and
// dropped.
type webhookPayload struct {
	Events []webhookEvent `json:"events"`
}

type webhookEvent struct {
	Type      string         `json:"type"`
	Timestamp int64          `json:"timestamp"` // milliseconds since epoch
	Source    webhookSource  `json:"source"`
	Message   webhookMessage `json:"message"`
}

type webhookSource struct {
	UserID string `json:"userId"`
}

type webhookMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Webhook receives inbound events from the messaging platform: each
// text message registers/captures the sender's recipient ID and, when
// the text is an acknowledgement, records a confirmation for the
// current week. The platform expects a 200 regardless of how individual
// events fare, so per-event failures are logged, not returned.
func (h *Handler) Webhook(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	for _, event := range payload.Events {
		if event.Type != "message" || event.Message.Type != "text" || event.Source.UserID == "" {
			continue
		}
		at := time.Now()
		if event.Timestamp > 0 {
			at = time.UnixMilli(event.Timestamp)
		}
		if err := h.confirmations.HandleInboundMessage(c.Request.Context(), event.Source.UserID, event.Message.Text, at); err != nil {
			h.logger.WithError(err).WithField("recipient_id", event.Source.UserID).
				Warn("Inbound event not processed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
