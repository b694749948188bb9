package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"study-planner/internal/api"
	"study-planner/internal/bot"
	"study-planner/internal/service"
)

// ServeCmd returns the serve command.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when a Telegram token is set, the digest bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp("PLANNER : ")
			if err != nil {
				return err
			}
			defer a.close()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	srv := api.NewServer(&api.Options{
		Address:     a.cfg.HTTPAddr,
		Debug:       a.cfg.Debug,
		SecretKey:   a.cfg.SecretKey,
		SessionTTL:  a.cfg.SessionTTL,
		Location:    a.cfg.Location,
		Logger:      a.log,
		UserSvc:     a.users,
		PlanSvc:     a.plans,
		ProgressSvc: a.progress,
		CalendarSvc: a.calendar,
		TemplateSvc: a.templates,
	})

	errs := make(chan error, 2)
	go func() {
		a.log.Info(fmt.Sprintf("listening on %s", a.cfg.HTTPAddr))
		errs <- errors.Wrap(srv.Start(), "http server")
	}()

	if a.cfg.TelegramEnabled() {
		telegramBot, err := bot.New(a.cfg.TelegramToken, a.users, a.digest, a.log, a.cfg.Location)
		if err != nil {
			return err
		}

		scheduler := service.NewSchedulerService(a.cfg.Location, a.log)
		id, err := scheduler.ScheduleDaily("digest", a.cfg.DigestAt, func(jobCtx context.Context) error {
			return a.digest.SendAll(jobCtx, telegramBot, time.Now().In(a.cfg.Location))
		})
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
		a.log.Info(fmt.Sprintf("next digest at %s", scheduler.Next(id).Format(time.RFC3339)))

		go func() {
			errs <- errors.Wrap(telegramBot.Start(ctx), "telegram bot")
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errs:
		if err != nil {
			return err
		}
	}

	a.log.Info("shutting down")
	stopCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(stopCtx); err != nil {
		return errors.Wrap(err, "stop http server")
	}
	return nil
}
