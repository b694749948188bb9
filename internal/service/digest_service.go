package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"study-planner/internal/logger"
	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
)

// Notifier delivers a formatted digest to a chat.
type Notifier interface {
	SendText(chatID int64, text string) error
}

var statusIcons = map[model.Status]string{
	model.StatusPlanned: "⬜",
	model.StatusDone:    "✅",
	model.StatusPartial: "🟡",
	model.StatusMissed:  "❌",
}

// DigestService builds human-readable summaries of a user's study day.
type DigestService struct {
	userRepo *repository.UserRepository
	reads    *repository.ReadStore
	log      logger.Logger
}

func NewDigestService(userRepo *repository.UserRepository, reads *repository.ReadStore, log logger.Logger) *DigestService {
	return &DigestService{userRepo: userRepo, reads: reads, log: log}
}

// Summary lists the tasks of day with their plan and status as Telegram HTML.
func (s *DigestService) Summary(ctx context.Context, user *model.User, day time.Time) (string, error) {
	date := day.Format(model.DateLayout)
	tasks, err := s.reads.TasksOn(ctx, user.ID, date, 0)
	if err != nil {
		return "", err
	}
	ids := make([]uint, len(tasks))
	for i, t := range tasks {
		ids[i] = t.TaskID
	}
	logs, err := s.reads.LogsFor(ctx, ids)
	if err != nil {
		return "", err
	}
	statuses := planner.ResolveStatuses(logs)

	var builder strings.Builder
	builder.WriteString("📋 <b>Study plan for today</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", date))

	if len(tasks) == 0 {
		builder.WriteString("No tasks scheduled.\n")
		return strings.TrimSpace(builder.String()), nil
	}

	var done int
	for _, t := range tasks {
		status, ok := statuses[t.TaskID]
		if !ok {
			status = model.StatusPlanned
		}
		if status == model.StatusDone {
			done++
		}
		builder.WriteString(formatDigestTask(t, status))
	}
	builder.WriteString(fmt.Sprintf("\nDone %d of %d.", done, len(tasks)))

	return strings.TrimSpace(builder.String()), nil
}

// SendAll sends the digest of day to every user with a linked chat. Failures for one user are
// logged and do not stop the others; the number of failed users is returned as an error.
func (s *DigestService) SendAll(ctx context.Context, notifier Notifier, day time.Time) error {
	users, err := s.userRepo.ListDigestRecipients(ctx)
	if err != nil {
		return err
	}

	var failed int
	for i := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		user := &users[i]
		text, err := s.Summary(ctx, user, day)
		if err != nil {
			s.log.Error("build digest", err, user)
			failed++
			continue
		}
		if err := notifier.SendText(*user.TelegramChatID, text); err != nil {
			s.log.Error("send digest", err, user)
			failed++
		}
	}
	s.log.Info(fmt.Sprintf("digest sent to %d of %d users", len(users)-failed, len(users)))

	if failed > 0 {
		return errors.Errorf("digest failed for %d users", failed)
	}
	return nil
}

func formatDigestTask(t repository.DayTask, status model.Status) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s", statusIcons[status], escapeHTML(strings.TrimSpace(t.Title))))
	if plan := strings.TrimSpace(t.PlanTitle); plan != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", escapeHTML(plan)))
	}
	if t.LinkURL.Valid && t.LinkURL.String != "" {
		sb.WriteString(fmt.Sprintf("\n   🔗 %s", escapeHTML(t.LinkURL.String)))
	}

	sb.WriteByte('\n')
	return sb.String()
}

func escapeHTML(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}
