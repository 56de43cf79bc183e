package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// TokenHistory returns the user's recent token ledger entries.
func (h *Handler) TokenHistory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	entries, err := h.TransactionRepo.GetByUserID(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load token history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": entries})
}
