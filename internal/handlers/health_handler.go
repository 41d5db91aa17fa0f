package handlers

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meetsy/feedback-service/internal/database"
	"github.com/meetsy/feedback-service/internal/dto"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db      *gorm.DB
	started time.Time
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(h.health(c, nil))
}

// CheckEcho mirrors Check and additionally echoes the path segment, as a
// connectivity diagnostic for clients.
func (h *HealthHandler) CheckEcho(c *fiber.Ctx) error {
	pathEcho := c.Params("echo")
	return c.JSON(h.health(c, &pathEcho))
}

func (h *HealthHandler) health(c *fiber.Ctx, pathEcho *string) dto.HealthResponse {
	dbStatus := "not connected"
	if h.db != nil {
		dbStatus = "ok"
		if err := database.Ping(h.db); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	var echo *string
	if e := c.Query("echo"); e != "" {
		echo = &e
	}

	return dto.HealthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Hostname:      hostname,
		UptimeSeconds: time.Since(h.started).Seconds(),
		DB:            dbStatus,
		Echo:          echo,
		PathEcho:      pathEcho,
	}
}
