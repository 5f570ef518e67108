package qa

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cryptobot/notify"
)

// Answerer produces an HTML answer for a question.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}

// Service answers due questions and mails the replies.
type Service struct {
	store  *Store
	answer Answerer
	mail   notify.Mailer
	now    func() time.Time
	log    zerolog.Logger
}

func NewService(store *Store, answer Answerer, mail notify.Mailer, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		answer: answer,
		mail:   mail,
		now:    time.Now,
		log:    log.With().Str("component", "qa").Logger(),
	}
}

func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Process answers every due question. A question is marked answered only
// after its reply was mailed. It returns the number of questions handled.
func (s *Service) Process(ctx context.Context) (int, error) {
	qs, err := s.store.Load()
	if err != nil {
		return 0, err
	}

	now := s.now()
	handled := 0
	for _, q := range qs {
		if ctx.Err() != nil {
			return handled, ctx.Err()
		}
		if !q.Due(now) {
			continue
		}

		s.log.Info().Str("id", q.ID).Bool("recurring", q.Recurring()).Msg("answering question")
		answer := s.answer.Answer(ctx, q.Question)
		if err := s.mail.Send(ctx, Subject(q), Body(q, answer)); err != nil {
			s.log.Error().Err(err).Str("id", q.ID).Msg("reply not sent")
			continue
		}
		if err := s.store.MarkAnswered(q.ID, now); err != nil {
			s.log.Error().Err(err).Str("id", q.ID).Msg("mark answered")
			continue
		}
		handled++
	}

	if handled > 0 {
		s.log.Info().Int("count", handled).Msg("questions answered")
	}
	return handled, nil
}

// Subject is the mail subject for a reply.
func Subject(q Question) string {
	if q.Recurring() {
		return fmt.Sprintf("[recurring] AI answer: %s", q.ID)
	}
	return fmt.Sprintf("AI answer: %s", q.ID)
}

// Body frames the answer with the question.
func Body(q Question, answer string) string {
	return `<div style="background-color: #f8f9fa; padding: 15px; border-left: 5px solid #0d6efd; margin-bottom: 20px;">` +
		`<h3 style="margin: 0 0 10px 0; color: #0d6efd;">Question ` + html.EscapeString(q.ID) + `</h3>` +
		`<p style="font-size: 16px; font-weight: bold; margin: 0;">` + html.EscapeString(q.Question) + `</p></div>` +
		`<hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;">` +
		`<div style="line-height: 1.6;">` + answer + `</div>`
}
