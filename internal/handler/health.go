package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/movietrack/backend/internal/model"
)

// Ping godoc
// @Summary Liveness check
// @Produce json
// @Success 200 {object} model.PingResponse
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

// Root godoc
// @Summary Service banner
// @Produce json
// @Success 200 {object} model.RootResponse
// @Router / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Status:  "ok",
		Message: "MovieTrack API server is running",
	})
}
