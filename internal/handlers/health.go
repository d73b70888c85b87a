package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

// Health answers liveness probes; it is public and never touches the stores.
func (h HandlerSet) Health(c *gin.Context) {
	ok(c, healthResponse{
		Status:      "ok",
		Environment: h.cfg.Environment,
		Uptime:      time.Since(h.started).Round(time.Second).String(),
	})
}
