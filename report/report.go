package report

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/notify"
)

// FallbackHTML is returned when generation fails.
const FallbackHTML = "<p>Report generation failed, please try again later.</p>"

const (
	colorLong   = "#e6f4ea"
	colorShort  = "#fce8e6"
	colorMarket = "#e8f0fe"
)

// Options configure a Service.
type Options struct {
	// AI enables calls to the Generator. When false every report is a
	// static template and no request is made.
	AI        bool
	Timeframe string
}

// Service renders entry reports, market reports and answers as HTML.
type Service struct {
	gen  Generator
	opts Options
	now  func() time.Time
	log  zerolog.Logger
}

func NewService(gen Generator, opts Options, log zerolog.Logger) *Service {
	if gen == nil {
		opts.AI = false
	}
	return &Service{
		gen:  gen,
		opts: opts,
		now:  time.Now,
		log:  log.With().Str("component", "report").Logger(),
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) AIEnabled() bool { return s.opts.AI }

// EntryReport renders a position transition.
func (s *Service) EntryReport(ctx context.Context, e notify.Event) string {
	bg := colorShort
	if strings.Contains(string(e.Action), "LONG") {
		bg = colorLong
	}
	summary := indicators.Summary(e.Context)
	when := e.Time
	if when.IsZero() {
		when = s.now()
	}

	if !s.opts.AI {
		var b strings.Builder
		fmt.Fprintf(&b, `<div style="background-color: %s; padding: 15px; border-radius: 5px;">`, bg)
		fmt.Fprintf(&b, `<h3 style="margin-top: 0;">Trade signal: %s</h3>`, esc(e.Symbol))
		fmt.Fprintf(&b, `<p><strong>Action:</strong> %s (price: %s)</p>`, esc(string(e.Action)), price(e.Price))
		if e.Reason != "" {
			fmt.Fprintf(&b, `<p><strong>Reason:</strong> %s</p>`, esc(e.Reason))
		}
		if e.Tag != "" {
			fmt.Fprintf(&b, `<p><strong>Tag:</strong> %s</p>`, esc(e.Tag))
		}
		b.WriteString(`<hr><h4>Technical summary</h4>`)
		fmt.Fprintf(&b, `<pre style="background: #f0f0f0; padding: 10px;">%s</pre>`, esc(summary))
		fmt.Fprintf(&b, `<p><em>%s</em></p></div>`, when.UTC().Format("2006-01-02 15:04:05"))
		return b.String()
	}

	prompt := fmt.Sprintf(`You are a quantitative trading assistant. Write an HTML trade alert.

Trade:
- Symbol: %s
- Action: %s
- Price: %s
- Reason: %s
- Time: %s
- Timeframe: %s

Technical data:
%s

Requirements:
1. HTML only, background color %s.
2. Title: Trade signal (%s %s).
3. Present the indicators in a table.
4. Briefly explain why the signal fired.
5. Suggest stop-loss and take-profit levels.
6. Output HTML only, no Markdown.`,
		e.Symbol, e.Action, price(e.Price), e.Reason, when.UTC().Format(time.RFC3339), s.opts.Timeframe,
		summary, bg, e.Symbol, e.Action)
	return s.generate(ctx, prompt)
}

// MarketReport renders the periodic overview for one symbol.
func (s *Service) MarketReport(ctx context.Context, symbol string, tc indicators.Context) string {
	summary := indicators.Summary(tc)
	when := s.now().UTC().Format("2006-01-02 15:04:05")

	if !s.opts.AI {
		var b strings.Builder
		fmt.Fprintf(&b, `<div style="background-color: %s; padding: 15px; border-radius: 5px;">`, colorMarket)
		fmt.Fprintf(&b, `<h3 style="margin-top: 0;">Market report: %s</h3>`, esc(symbol))
		fmt.Fprintf(&b, `<p><strong>Time:</strong> %s</p>`, when)
		b.WriteString(`<hr><h4>Technical summary</h4>`)
		fmt.Fprintf(&b, `<pre style="background: #fff; padding: 10px;">%s</pre></div>`, esc(summary))
		return b.String()
	}

	prompt := fmt.Sprintf(`You are a senior crypto market analyst. Write an HTML market trend report.

Market:
- Symbol: %s
- Report time: %s
- Timeframe: %s

Technical summary:
%s

Requirements:
1. Professional and objective, title background %s.
2. Market reading: bullish, bearish or ranging.
3. Key levels: support and resistance.
4. Advice for flat and positioned traders.
5. Output HTML only.`, symbol, when, s.opts.Timeframe, summary, colorMarket)
	return s.generate(ctx, prompt)
}

// Answer replies to a free-form question.
func (s *Service) Answer(ctx context.Context, question string) string {
	if !s.opts.AI {
		return `<div style="border-left: 4px solid #999; padding-left: 10px;">` +
			`<p><strong>[AI disabled]</strong></p>` +
			`<p>You asked: <em>` + esc(question) + `</em></p>` +
			`<p>AI generation is turned off, no detailed answer is available.</p></div>`
	}

	prompt := fmt.Sprintf(`Question: %s

Answer as a crypto and financial trading advisor:
1. Use HTML without code fences.
2. Bold the key points.
3. Keep the tone professional and friendly.`, question)
	return s.generate(ctx, prompt)
}

func (s *Service) generate(ctx context.Context, prompt string) string {
	out, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.log.Error().Err(err).Msg("report generation failed")
		return FallbackHTML
	}
	out = StripFences(out)
	if out == "" {
		return FallbackHTML
	}
	return out
}

// StripFences removes Markdown code fences from model output.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```html", "")
	s = strings.ReplaceAll(s, "```HTML", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func esc(s string) string { return html.EscapeString(s) }

func price(p float64) string { return fmt.Sprintf("%.4f", p) }
