package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"habit_webapp/internal/domain"
	"habit_webapp/internal/http/middleware"
	"habit_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// conflictMessage is the user-facing duplicate text the client switches to
// edit mode on. Do not reword without updating the frontend.
const conflictMessage = "Already checked in for this date"

type checkInPayload struct {
	Status string `json:"status"`
	Date   string `json:"date"`
	IsEdit bool   `json:"is_edit"`
}

type checkInResponse struct {
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
	TokensAwarded int64  `json:"tokens_awarded"`
	Status        string `json:"status"`
}

// CheckIn grades one calendar day for the authenticated user.
func (h *Handler) CheckIn(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var payload checkInPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	result, err := h.CheckIns.CheckIn(c.Request.Context(), service.CheckInRequest{
		UserID:  userID,
		Outcome: domain.Outcome(payload.Status),
		Date:    payload.Date,
		IsEdit:  payload.IsEdit,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			middleware.CheckInRejections.WithLabelValues("conflict").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": conflictMessage})
		case errors.Is(err, service.ErrOutOfWindow):
			middleware.CheckInRejections.WithLabelValues("out_of_window").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrValidation):
			middleware.CheckInRejections.WithLabelValues("validation").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			middleware.CheckInRejections.WithLabelValues("unavailable").Inc()
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		}
		return
	}

	middleware.CheckIns.WithLabelValues(string(result.Outcome), strconv.FormatBool(payload.IsEdit)).Inc()

	c.JSON(http.StatusOK, checkInResponse{
		CurrentStreak: result.CurrentStreak,
		BestStreak:    result.BestStreak,
		TokensAwarded: result.TokensAwarded,
		Status:        string(result.Outcome),
	})
}
