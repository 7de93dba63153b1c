package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rubberintel/internal/index"
	"github.com/rubberintel/internal/knowledge"
)

type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

type HealthCheck interface {
	Name() string
	Check(ctx context.Context) HealthResult
}

type HealthResult struct {
	Name     string        `json:"name"`
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

type HealthChecker struct {
	checks []HealthCheck
	mu     sync.RWMutex
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make([]HealthCheck, 0)}
}

func (hc *HealthChecker) Register(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks = append(hc.checks, check)
}

func (hc *HealthChecker) Check(ctx context.Context) map[string]HealthResult {
	hc.mu.RLock()
	checks := make([]HealthCheck, len(hc.checks))
	copy(checks, hc.checks)
	hc.mu.RUnlock()

	results := make(map[string]HealthResult)
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, c := range checks {
		wg.Add(1)
		go func(ch HealthCheck) {
			defer wg.Done()
			start := time.Now()
			res := ch.Check(ctx)
			res.Duration = time.Since(start)
			mu.Lock()
			results[ch.Name()] = res
			mu.Unlock()
		}(c)
	}
	wg.Wait()
	return results
}

func (hc *HealthChecker) OverallStatus(results map[string]HealthResult) HealthStatus {
	hasDegraded := false
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

func (hc *HealthChecker) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		results := hc.Check(ctx)
		overall := hc.OverallStatus(results)
		resp := map[string]interface{}{
			"status":    overall,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"checks":    results,
		}
		w.Header().Set("Content-Type", "application/json")
		statusCode := http.StatusOK
		if overall == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(resp)
	}
}

// KnowledgeCheck verifies the knowledge base loaded a non-empty corpus.
type KnowledgeCheck struct {
	Store *knowledge.Store
}

func (k *KnowledgeCheck) Name() string { return "knowledge" }

func (k *KnowledgeCheck) Check(ctx context.Context) HealthResult {
	res := HealthResult{Name: k.Name()}
	if k.Store.Len() == 0 {
		res.Status = StatusUnhealthy
		res.Message = "Knowledge base is empty"
	} else {
		res.Status = StatusHealthy
		res.Message = "Knowledge base loaded"
	}
	return res
}

// IndexCheck verifies the search index covers every knowledge entry.
type IndexCheck struct {
	Store *knowledge.Store
	Index index.Index
}

func (i *IndexCheck) Name() string { return "index" }

func (i *IndexCheck) Check(ctx context.Context) HealthResult {
	res := HealthResult{Name: i.Name()}
	if i.Index.Len() != i.Store.Len() {
		res.Status = StatusUnhealthy
		res.Message = "Index document count does not match knowledge base"
	} else {
		res.Status = StatusHealthy
		res.Message = "Index covers all knowledge entries"
	}
	return res
}
