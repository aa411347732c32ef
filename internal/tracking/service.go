// Package tracking reports run metrics to an MLflow tracking server.
//
// Tracking is best-effort glue: when no tracking URL is configured a noop
// sink is returned, and callers treat logging failures as diagnostics, never
// as run failures.
package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"overair/internal/config"
)

// Run describes one finished run to record.
type Run struct {
	Name    string
	Params  map[string]string
	Metrics map[string]float64
}

// Sink records finished runs.
type Sink interface {
	LogRun(ctx context.Context, run Run) error
}

// NewSink builds a tracking sink from configuration. When no tracking URL is
// configured a noop implementation is returned.
func NewSink(cfg *config.Config) Sink {
	if cfg == nil || strings.TrimSpace(cfg.Tracking.URL) == "" {
		return noopSink{}
	}
	return &mlflowSink{
		baseURL:    strings.TrimRight(cfg.Tracking.URL, "/"),
		experiment: cfg.Tracking.Experiment,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type noopSink struct{}

func (noopSink) LogRun(context.Context, Run) error { return nil }

type mlflowSink struct {
	baseURL    string
	experiment string
	client     *http.Client
}

// LogRun creates an MLflow run under the configured experiment, attaches the
// supplied params and metrics in one batch, and marks the run finished.
func (s *mlflowSink) LogRun(ctx context.Context, run Run) error {
	experimentID, err := s.experimentID(ctx)
	if err != nil {
		return err
	}

	var created struct {
		Run struct {
			Info struct {
				RunID string `json:"run_id"`
			} `json:"info"`
		} `json:"run"`
	}
	err = s.post(ctx, "/api/2.0/mlflow/runs/create", map[string]any{
		"experiment_id": experimentID,
		"run_name":      run.Name,
		"start_time":    time.Now().UnixMilli(),
	}, &created)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	runID := created.Run.Info.RunID
	if runID == "" {
		return fmt.Errorf("create run: no run id returned")
	}

	now := time.Now().UnixMilli()
	params := make([]map[string]any, 0, len(run.Params))
	for key, value := range run.Params {
		params = append(params, map[string]any{"key": key, "value": value})
	}
	metrics := make([]map[string]any, 0, len(run.Metrics))
	for key, value := range run.Metrics {
		metrics = append(metrics, map[string]any{"key": key, "value": value, "timestamp": now})
	}
	err = s.post(ctx, "/api/2.0/mlflow/runs/log-batch", map[string]any{
		"run_id":  runID,
		"params":  params,
		"metrics": metrics,
	}, nil)
	if err != nil {
		return fmt.Errorf("log batch: %w", err)
	}

	err = s.post(ctx, "/api/2.0/mlflow/runs/update", map[string]any{
		"run_id":   runID,
		"status":   "FINISHED",
		"end_time": time.Now().UnixMilli(),
	}, nil)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// experimentID resolves the configured experiment, creating it when missing.
func (s *mlflowSink) experimentID(ctx context.Context) (string, error) {
	endpoint := s.baseURL + "/api/2.0/mlflow/experiments/get-by-name?experiment_name=" + url.QueryEscape(s.experiment)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build experiment request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get experiment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var found struct {
			Experiment struct {
				ExperimentID string `json:"experiment_id"`
			} `json:"experiment"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
			return "", fmt.Errorf("decode experiment: %w", err)
		}
		if found.Experiment.ExperimentID != "" {
			return found.Experiment.ExperimentID, nil
		}
	}

	var created struct {
		ExperimentID string `json:"experiment_id"`
	}
	err = s.post(ctx, "/api/2.0/mlflow/experiments/create", map[string]any{
		"name": s.experiment,
	}, &created)
	if err != nil {
		return "", fmt.Errorf("create experiment: %w", err)
	}
	if created.ExperimentID == "" {
		return "", fmt.Errorf("create experiment: no id returned")
	}
	return created.ExperimentID, nil
}

func (s *mlflowSink) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
