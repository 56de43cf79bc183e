package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	user, err := h.UserRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             user.ID,
		"external_id":    user.ExternalID,
		"username":       user.Username,
		"first_name":     user.FirstName,
		"created_at":     user.CreatedAt,
		"tokens":         user.Tokens,
		"current_streak": user.CurrentStreak,
		"best_streak":    user.BestStreak,
	})
}
