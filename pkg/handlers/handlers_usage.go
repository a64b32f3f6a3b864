package handlers

import (
	"net/http"

	"github.com/arnavshah/shift-roster-ai/pkg/database"
	"github.com/gin-gonic/gin"
)

// GetUsage returns the daily generation counters of the last 30 days
func (h *Handler) GetUsage(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Usage tracking is disabled"})
		return
	}

	usage, err := database.RecentUsage(h.DB, 30)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	// Calculate totals
	var totalRequests, totalSuccesses, totalFailures, totalDays int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalSuccesses += int64(u.SuccessCount)
		totalFailures += int64(u.FailureCount)
		totalDays += int64(u.TotalDays)
	}

	c.JSON(http.StatusOK, gin.H{
		"usage_history":   usage,
		"active_sessions": h.Forms.Len(),
		"totals": gin.H{
			"requests":  totalRequests,
			"successes": totalSuccesses,
			"failures":  totalFailures,
			"days":      totalDays,
		},
	})
}
