// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/platform/respond"
)

// probeTimeout bounds the whole readiness check.
const probeTimeout = 3 * time.Second

// Probe checks one backing service.
type Probe func(context context.Context) error

// HealthDependencies feeds /ready. Nil probes are skipped.
type HealthDependencies struct {
	CheckDatabase  Probe
	CheckCache     Probe
	ActiveSessions func() int
}

type probeResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type liveStatus struct {
	Status  string `json:"status"`
	App     string `json:"app"`
	Version string `json:"version"`
}

type readyStatus struct {
	Status   string        `json:"status"`
	Checks   []probeResult `json:"checks"`
	Sessions *int          `json:"sessions,omitempty"`
}

// NewHealthHandlers returns GET /health, always 200 while the process
// serves, and GET /ready, 503 as soon as one probe fails.
func NewHealthHandlers(dependencies HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	liveness = func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, liveStatus{Status: "ok", App: constants.AppName, Version: constants.AppVersion})
	}

	probes := []struct {
		name  string
		probe Probe
	}{
		{"postgres", dependencies.CheckDatabase},
		{"redis", dependencies.CheckCache},
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		context, cancel := context.WithTimeout(request.Context(), probeTimeout)
		defer cancel()

		results := make([]probeResult, len(probes))
		var group errgroup.Group
		for i, entry := range probes {
			results[i] = probeResult{Name: entry.name, OK: true}
			if entry.probe == nil {
				continue
			}
			group.Go(func() error {
				if err := entry.probe(context); err != nil {
					results[i].OK = false
					results[i].Error = err.Error()
					logger.Error("readiness_check_failed", slog.String("dependency", entry.name), slog.Any("error", err))
				}
				return nil
			})
		}
		_ = group.Wait()

		body := readyStatus{Status: "ready", Checks: results}
		if dependencies.ActiveSessions != nil {
			sessions := dependencies.ActiveSessions()
			body.Sessions = &sessions
		}

		status := http.StatusOK
		for _, result := range results {
			if !result.OK {
				body.Status, status = "degraded", http.StatusServiceUnavailable
				break
			}
		}
		respond.JSON(writer, status, respond.SuccessEnvelope{Data: body})
	}

	return liveness, readiness
}
