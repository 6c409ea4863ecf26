package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency the health endpoint can check.
type Pinger interface {
	Ping() error
}

const (
	healthOK       = "ok"
	healthDegraded = "degraded"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Time    time.Time         `json:"time"`
	Checks  map[string]string `json:"checks"`
}

// HealthController pings each named dependency on every request. One
// failing check turns the whole response into a 503.
type HealthController struct {
	version string
	checks  map[string]Pinger
}

func NewHealthController(version string, checks map[string]Pinger) *HealthController {
	return &HealthController{version: version, checks: checks}
}

func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  healthOK,
		Version: h.version,
		Time:    time.Now().UTC(),
		Checks:  make(map[string]string, len(h.checks)),
	}
	for name, dep := range h.checks {
		if err := dep.Ping(); err != nil {
			resp.Checks[name] = "unreachable"
			resp.Status = healthDegraded
			continue
		}
		resp.Checks[name] = healthOK
	}

	code := http.StatusOK
	if resp.Status != healthOK {
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
