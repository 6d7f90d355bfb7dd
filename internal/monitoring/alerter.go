package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/chedr/vault-cli/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertReviewBacklog AlertType = "review_backlog"
	AlertAnomalyRate   AlertType = "anomaly_rate"
)

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a MetricsSnapshot against configured thresholds
// and sends alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()

	// Check review backlog.
	if a.cfg.ReviewBacklogMax > 0 && snap.ReviewNeeded > a.cfg.ReviewBacklogMax {
		alerts = append(alerts, Alert{
			Type:     AlertReviewBacklog,
			Severity: "high",
			Message: fmt.Sprintf(
				"%d documents awaiting review exceeds limit %d",
				snap.ReviewNeeded, a.cfg.ReviewBacklogMax,
			),
			Details: map[string]any{
				"review_needed": snap.ReviewNeeded,
				"limit":         a.cfg.ReviewBacklogMax,
				"documents":     snap.DocumentsTotal,
			},
			Timestamp: now,
		})
	}

	// Check anomaly rate. Skip tiny samples.
	if a.cfg.AnomalyRateThreshold > 0 && snap.FieldsTotal >= 10 &&
		snap.AnomalyRate > a.cfg.AnomalyRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertAnomalyRate,
			Severity: "high",
			Message: fmt.Sprintf(
				"Anomaly rate %.1f%% exceeds threshold %.1f%% (%d of %d fields)",
				snap.AnomalyRate*100, a.cfg.AnomalyRateThreshold*100,
				snap.AnomalousFields, snap.FieldsTotal,
			),
			Details: map[string]any{
				"anomaly_rate":     snap.AnomalyRate,
				"threshold":        a.cfg.AnomalyRateThreshold,
				"anomalous_fields": snap.AnomalousFields,
				"fields_total":     snap.FieldsTotal,
			},
			Timestamp: now,
		})
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

// sendWebhook posts a single alert to the webhook URL.
func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
