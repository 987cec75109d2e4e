package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/merrylab/timeline/internal/errors"
	"github.com/merrylab/timeline/internal/middleware"
	"github.com/merrylab/timeline/internal/services"
)

// ReportHandler coordinates progress report HTTP handlers.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// SendReport builds the current user's report for the requested period
// and emails it to the administrator.
func (h *ReportHandler) SendReport(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SendReportRequest struct {
		Period   string `json:"period"`
		Comments string `json:"comments"`
	}

	var req SendReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	report, err := h.reportService.SendReport(user, req.Period, req.Comments)
	if err != nil {
		if errors.Is(err, services.ErrTransportFailed) {
			apierrors.BadGateway(c, "Failed to send report email")
			return
		}
		apierrors.InternalError(c, "Failed to send report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Report sent successfully",
		"period":    report.PeriodName,
		"completed": len(report.Completed),
		"pending":   len(report.Pending),
		"overdue":   report.Overdue,
	})
}
