package cli

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"study-planner/internal/bot"
	"study-planner/internal/model"
	"study-planner/internal/validate"
)

// DigestCmd returns the digest command.
func DigestCmd() *cobra.Command {
	var (
		name string
		date string
		send bool
	)

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print, or send to Telegram, the daily digest of a user",
		Example: `  studyplanner digest --user kim --date 2025-01-02
  studyplanner digest --user kim --send`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp("DIGEST : ")
			if err != nil {
				return err
			}
			defer a.close()

			day := time.Now().In(a.cfg.Location)
			if date != "" {
				if day, err = validate.ParseDate(date); err != nil {
					return err
				}
			}

			usr, err := a.users.GetByName(cmd.Context(), name)
			if err != nil {
				return err
			}
			text, err := a.digest.Summary(cmd.Context(), usr, day)
			if err != nil {
				return err
			}
			if !send {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			if !a.cfg.TelegramEnabled() {
				return errors.New("PLANNER_TELEGRAM_TOKEN is not set")
			}
			if usr.TelegramChatID == nil {
				return errors.Wrapf(model.ErrNotFound, "telegram chat of %s", usr.Name)
			}
			telegramBot, err := bot.New(a.cfg.TelegramToken, a.users, a.digest, a.log, a.cfg.Location)
			if err != nil {
				return err
			}
			if err := telegramBot.SendText(*usr.TelegramChatID, text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "digest sent to chat %d\n", *usr.TelegramChatID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "user", "u", "", "user name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&send, "send", false, "send to the linked Telegram chat instead of printing")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
