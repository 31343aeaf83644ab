package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/app/services"
	"github.com/churchmanager/scheduler/internal/middleware"
)

// WahaController receives events from the WhatsApp gateway
type WahaController struct {
	webhookService services.WebhookService
}

// NewWahaController creates a new WahaController
func NewWahaController(webhookService services.WebhookService) *WahaController {
	return &WahaController{
		webhookService: webhookService,
	}
}

// Webhook acknowledges an event and processes it in the background
// @Summary WAHA webhook
// @Tags waha
// @Accept json
// @Produce json
// @Param payload body dto.WebhookPayload true "Gateway event"
// @Success 200 {object} dto.WebhookResponse
// @Failure 422 {object} dto.ErrorResponse "Body is not a webhook object"
// @Router /waha/webhook [post]
func (c *WahaController) Webhook(ctx *gin.Context) {
	var payload dto.WebhookPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		middleware.HandleMalformedPayload(ctx, err)
		return
	}

	c.webhookService.Dispatch(&payload)
	ctx.JSON(http.StatusOK, dto.WebhookResponse{OK: true})
}

// Health
// @Summary WAHA webhook health
// @Tags waha
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /waha/health [get]
func (c *WahaController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "healthy", Service: "waha-webhook"})
}
