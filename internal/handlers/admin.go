package handlers

import (
	"context"
	"net/http"
	"time"

	"alumni/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminHandler serves the operator endpoints.
type AdminHandler struct {
	boot *services.BootstrapService
	db   *gorm.DB
	log  logrus.FieldLogger
}

func NewAdminHandler(boot *services.BootstrapService, db *gorm.DB, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{boot: boot, db: db, log: log}
}

// InitSample 建表并写入示例账号，重复调用无副作用
func (h *AdminHandler) InitSample(c *gin.Context) {
	msg, err := h.boot.InitSample(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("init sample")
		c.String(http.StatusInternalServerError, "Initialization failed.")
		return
	}
	h.log.Info(msg)
	c.String(http.StatusOK, msg)
}

// Healthz reports liveness and database reachability.
func (h *AdminHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.log.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
