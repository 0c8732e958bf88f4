package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
)

// SlackNotifier posts alerts to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	client     *http.Client
}

// NewSlackNotifier creates a Slack webhook notifier.
func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *SlackNotifier) Name() string { return "slack" }

func (s *SlackNotifier) Send(ctx context.Context, n Notification) error {
	a := n.Alert
	payload := slackPayload{
		Channel: s.channel,
		Text:    n.Message,
		Attachments: []slackAttachment{
			{
				Color: severityColor(a.Severity),
				Title: fmt.Sprintf("CloudOps Pro: %s alert", a.Severity),
				Text:  a.Description,
				Fields: []slackField{
					{Title: "Alert", Value: a.Title, Short: false},
					{Title: "Resource", Value: a.Resource, Short: true},
					{Title: "Category", Value: a.Category, Short: true},
					{Title: "Status", Value: string(a.Status), Short: true},
					{Title: "ID", Value: a.ID, Short: true},
				},
				Footer: "CloudOps Pro",
				Ts:     a.Timestamp.Unix(),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}
	return nil
}

func severityColor(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "#cc0000"
	case model.SeverityWarning:
		return "#ff9900"
	default:
		return "#439fe0"
	}
}

type slackPayload struct {
	Channel     string            `json:"channel,omitempty"`
	Text        string            `json:"text,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer"`
	Ts     int64        `json:"ts"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}
