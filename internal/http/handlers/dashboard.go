package handlers

import (
	"errors"
	"net/http"

	"habit_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type historyEntry struct {
	Date          string `json:"date"`
	Status        string `json:"status"`
	TokensAwarded int64  `json:"tokens_awarded"`
	Edited        bool   `json:"edited"`
}

// GetDashboard returns the aggregate snapshot plus the trailing 30 days.
func (h *Handler) GetDashboard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	data, err := h.Dashboard.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		return
	}

	history := make([]historyEntry, 0, len(data.History))
	for _, ci := range data.History {
		history = append(history, historyEntry{
			Date:          ci.DayString(),
			Status:        string(ci.Outcome),
			TokensAwarded: ci.TokensAwarded,
			Edited:        ci.Edited,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"current_streak":       data.CurrentStreak,
		"best_streak":          data.BestStreak,
		"token_balance":        data.TokenBalance,
		"has_checked_in_today": data.HasCheckedInToday,
		"check_ins_history":    history,
		"multiplier":           data.Multiplier,
	})
}
