package internal

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/2beens/fitstats/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const healthCheckTimeout = 3 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

type healthHandler struct {
	components map[string]pinger
}

// HandleHealth pings every dependency; a single failing one makes the service unavailable.
func (h *healthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:     "ok",
		Components: make(map[string]string, len(names)),
	}
	for _, name := range names {
		if err := h.components[name].Ping(ctx); err != nil {
			log.Warnf("health check, [%s] unavailable: %s", name, err)
			resp.Components[name] = "unavailable"
			resp.Status = "unavailable"
			continue
		}
		resp.Components[name] = "ok"
	}

	statusCode := http.StatusOK
	if resp.Status != "ok" {
		statusCode = http.StatusServiceUnavailable
	}
	pkg.WriteJSON(w, resp, statusCode)
}
