package analyze

import (
	"net/http"

	"fridgemap/internal/core/suggest"
	"fridgemap/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyzeRequest is the wire format of one analysis request. Ingredients,
// when present, wins over Images (manual-entry mode).
type AnalyzeRequest struct {
	Images      []string `json:"images"`
	Ingredients []string `json:"ingredients"`
	People      string   `json:"people"`
}

// Handler serves the analysis endpoint.
type Handler struct {
	service *suggest.Service
}

// NewHandler creates the analyze handler.
func NewHandler(service *suggest.Service) *Handler {
	return &Handler{service: service}
}

// HandlePing is the GET probe on the analyze route.
func (h *Handler) HandlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "API ROUTE OK"})
}

// HandleAnalyze runs the full pipeline for one request. Recognized
// degraded outcomes (no images, nothing usable, nothing detected) are 200
// responses carrying an error_code; only credential and internal faults
// are 5xx.
func (h *Handler) HandleAnalyze(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid request format",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, &suggest.Result{
			Mode:         "empty",
			Detected:     []string{},
			ShoppingList: []string{},
			ErrorCode:    common.ErrCodeInvalidRequest,
		})
		return
	}

	if req.People == "" {
		req.People = "1"
	}

	result := h.service.Analyze(c.Request.Context(), suggest.Request{
		Images:      req.Images,
		Ingredients: req.Ingredients,
		People:      req.People,
	})

	status := http.StatusOK
	if result.ErrorCode == common.ErrCodeNoAPIKey || result.ErrorCode == common.ErrCodeInternalError {
		status = http.StatusInternalServerError
	}

	common.LogInfo("analysis finished",
		zap.String("request_id", requestID),
		zap.String("mode", result.Mode),
		zap.Int("images", len(req.Images)),
		zap.Int("manual_ingredients", len(req.Ingredients)),
		zap.Int("detected", len(result.Detected)),
		zap.String("error_code", result.ErrorCode),
	)

	c.JSON(status, result)
}
