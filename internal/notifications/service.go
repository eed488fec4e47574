package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const userAgent = "Postforge/0.1.0"

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifyPostPublished(ctx context.Context, topic, publishedURL string, hasMedia bool) error
	NotifyPublishFailed(ctx context.Context, unitID string, err error) error
	NotifyDailyReport(ctx context.Context, queueSize, postedToday int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// Options configure the ntfy backend.
type Options struct {
	// Topic is the full ntfy topic URL. Empty disables notifications.
	Topic string
	// RequestTimeoutSeconds bounds each HTTP publish.
	RequestTimeoutSeconds int
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(opts Options) Service {
	topic := strings.TrimSpace(opts.Topic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(opts.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyPostPublished(ctx context.Context, topic, publishedURL string, hasMedia bool) error {
	topic = strings.TrimSpace(topic)
	kind := "text post"
	if hasMedia {
		kind = "media post"
	}
	message := fmt.Sprintf("✅ Published %s: %s", kind, topic)
	if publishedURL = strings.TrimSpace(publishedURL); publishedURL != "" {
		message = fmt.Sprintf("%s\n%s", message, publishedURL)
	}
	data := payload{
		title:   "Postforge - Published",
		message: message,
		tags:    []string{"postforge", "publish", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPublishFailed(ctx context.Context, unitID string, err error) error {
	reason := "unknown"
	if err != nil {
		reason = strings.TrimSpace(err.Error())
	}
	data := payload{
		title:    "Postforge - Publish Failed",
		message:  fmt.Sprintf("❌ Publish failed for %s: %s", strings.TrimSpace(unitID), reason),
		tags:     []string{"postforge", "publish", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDailyReport(ctx context.Context, queueSize, postedToday int) error {
	data := payload{
		title:   "Postforge - Daily Report",
		message: fmt.Sprintf("Queue: %d unpublished, %d posted today", queueSize, postedToday),
		tags:    []string{"postforge", "report"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Postforge - Error",
		message:  builder.String(),
		tags:     []string{"postforge", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Postforge - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"postforge", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyPostPublished(context.Context, string, string, bool) error { return nil }
func (noopService) NotifyPublishFailed(context.Context, string, error) error        { return nil }
func (noopService) NotifyDailyReport(context.Context, int, int) error               { return nil }
func (noopService) NotifyError(context.Context, error, string) error                { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
