package handler

import (
	"net/http"

	"github.com/edushare/backend/internal/dto"
	"github.com/edushare/backend/internal/service"
	"github.com/edushare/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	service service.LeaderboardService
}

func NewLeaderboardHandler(service service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.service.GetLeaderboard(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LeaderboardResponse{
		Success:     true,
		Leaderboard: entries,
	})
}
