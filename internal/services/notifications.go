package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/colortherapy-api/internal/logger"
	"github.com/harentsoaR/colortherapy-api/internal/models"
)

// NotificationService forwards newly filed bug reports and feature requests
// to a chat webhook. It is a no-op when no webhook is configured.
type NotificationService struct {
	webhookURL string
	client     *http.Client
	log        *logger.Logger
}

func NewNotificationService(webhookURL string, log *logger.Logger) *NotificationService {
	return &NotificationService{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// NotifyReportFiled sends in a goroutine so it doesn't block the API response.
func (s *NotificationService) NotifyReportFiled(report *models.Report) {
	if s.webhookURL == "" {
		return
	}
	r := *report
	go func() {
		if err := s.send(context.Background(), &r); err != nil {
			s.log.WithComponent("notifications").WithError(err).
				WithField("report_id", r.ID.Hex()).Warn("Failed to deliver report notification")
		}
	}()
}

func (s *NotificationService) send(ctx context.Context, report *models.Report) error {
	text := fmt.Sprintf("New %s report from %s: %s\n%s", report.Kind, report.ReporterEmail, report.Title, report.Description)
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	s.log.WithComponent("notifications").WithFields(logrus.Fields{
		"report_id": report.ID.Hex(),
		"kind":      report.Kind,
	}).Info("Report notification delivered")
	return nil
}
