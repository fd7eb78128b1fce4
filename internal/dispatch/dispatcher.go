package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
)

// Config controls delivery behavior.
type Config struct {
	Endpoint    string
	Timeout     time.Duration // per-attempt
	MaxAttempts int
	Backoff     time.Duration // fixed interval between attempts
}

// DeliveryResult reports the outcome of a delivery sequence.
type DeliveryResult struct {
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code,omitempty"`
	Attempts   int    `json:"attempts"`
	Error      string `json:"error,omitempty"`
}

// Dispatcher POSTs verdict payloads to the downstream endpoint with a fixed
// backoff and a bounded attempt count. Attempts are independent: no attempt's
// partial state leaks into the next.
type Dispatcher struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	return &Dispatcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Deliver sends the payload, retrying on network errors and non-2xx responses
// until MaxAttempts is exhausted. It returns success immediately on the first
// 2xx response.
func (d *Dispatcher) Deliver(ctx context.Context, payload *entity.DeliveryPayload) DeliveryResult {
	reqID := uuid.New().String()

	body, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("dispatch.encode_error", "req_id", reqID, "job_id", payload.JobID, "error", err)
		return DeliveryResult{OK: false, Error: fmt.Sprintf("encode payload: %v", err)}
	}

	var lastErr string
	var lastStatus int
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		status, err := d.post(ctx, body)
		if err == nil {
			d.logger.Info("dispatch.ok",
				"req_id", reqID, "job_id", payload.JobID,
				"status", status, "attempt", attempt,
			)
			return DeliveryResult{OK: true, StatusCode: status, Attempts: attempt}
		}
		lastErr = err.Error()
		lastStatus = status
		d.logger.Warn("dispatch.attempt_failed",
			"req_id", reqID, "job_id", payload.JobID,
			"attempt", attempt, "max_attempts", d.cfg.MaxAttempts,
			"status", status, "error", err,
		)

		if attempt < d.cfg.MaxAttempts {
			select {
			case <-time.After(d.cfg.Backoff):
			case <-ctx.Done():
				return DeliveryResult{OK: false, StatusCode: lastStatus, Attempts: attempt, Error: ctx.Err().Error()}
			}
		}
	}

	d.logger.Error("dispatch.exhausted",
		"req_id", reqID, "job_id", payload.JobID,
		"attempts", d.cfg.MaxAttempts, "error", lastErr,
	)
	return DeliveryResult{OK: false, StatusCode: lastStatus, Attempts: d.cfg.MaxAttempts, Error: lastErr}
}

func (d *Dispatcher) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			d.logger.Warn("dispatch.body_close_error", "error", cerr)
		}
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		return resp.StatusCode, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
