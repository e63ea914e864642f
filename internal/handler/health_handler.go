package handlers

import (
	"context"
	"net/http"
	"time"
)

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.HealthChecks))}
	status := http.StatusOK

	for _, check := range h.HealthChecks {
		if err := check.Check(ctx); err != nil {
			h.logError(r, "health check failed: "+check.Name, err)
			resp.Checks[check.Name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[check.Name] = "ok"
	}

	writeSuccess(w, resp, status)
}
