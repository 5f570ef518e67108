package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const LinePushURL = "https://api.line.me/v2/bot/message/push"

type lineMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type linePush struct {
	To       string        `json:"to"`
	Messages []lineMessage `json:"messages"`
}

// Line pushes text messages to a single LINE user.
type Line struct {
	token  string
	userID string
	url    string
	http   *http.Client
	log    zerolog.Logger
}

// NewLine returns a LINE notifier. An empty url selects LinePushURL.
func NewLine(token, userID, url string, log zerolog.Logger) *Line {
	if url == "" {
		url = LinePushURL
	}
	return &Line{
		token:  token,
		userID: userID,
		url:    url,
		http:   &http.Client{Timeout: 10 * time.Second},
		log:    log.With().Str("component", "line").Logger(),
	}
}

func (l *Line) Enabled() bool { return l.token != "" && l.userID != "" }

// Notify pushes a short text rendering of the event.
func (l *Line) Notify(ctx context.Context, e Event) error {
	return l.Push(ctx, LineText(e))
}

// Push sends text. Missing credentials make it a no-op.
func (l *Line) Push(ctx context.Context, text string) error {
	if !l.Enabled() {
		l.log.Debug().Msg("line not configured, skipping")
		return nil
	}

	body, err := json.Marshal(linePush{
		To:       l.userID,
		Messages: []lineMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("%w: encode line push: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+l.token)

	resp, err := l.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: line push: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: line push status %d: %s", ErrTransport, resp.StatusCode, bytes.TrimSpace(msg))
	}
	l.log.Debug().Msg("line message sent")
	return nil
}

// LineText renders an event as a plain text message.
func LineText(e Event) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %s\n", e.Action, e.Symbol)
	fmt.Fprintf(&b, "price: %.4f\n", e.Price)
	if e.Amount > 0 {
		fmt.Fprintf(&b, "amount: %g\n", e.Amount)
	}
	if e.Action.IsClose() {
		fmt.Fprintf(&b, "pnl: %+.4f\n", e.PnL)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, "reason: %s\n", e.Reason)
	}
	if !e.Time.IsZero() {
		fmt.Fprintf(&b, "time: %s", e.Time.UTC().Format("2006-01-02 15:04:05"))
	}
	return string(bytes.TrimRight(b.Bytes(), "\n"))
}
