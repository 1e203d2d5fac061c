// Package notify sends outbound Telegram messages to the Hashira when
// complaints are filed or triaged. It is optional wiring: when no bot token
// is configured, nothing subscribes and the mutation path is unaffected.
package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"zenitsuos/backend/internal/models"
	"zenitsuos/backend/internal/session"
)

// TelegramNotifier relays change events to a single admin chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: telegram auth: %w", err)
	}
	log.Printf("notify: telegram notifier authorized as %s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Run consumes a session subscription until the channel closes. Send
// failures are logged and never reach the mutation path.
func (n *TelegramNotifier) Run(events <-chan session.ChangeEvent) {
	for ev := range events {
		text := format(ev)
		if text == "" {
			continue
		}
		msg := tgbotapi.NewMessage(n.chatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := n.bot.Send(msg); err != nil {
			log.Printf("notify: telegram send: %v", err)
		}
	}
}

func format(ev session.ChangeEvent) string {
	switch ev.Kind {
	case session.EventComplaintCreated:
		c := ev.Complaint
		text := fmt.Sprintf("⚡ *New complaint*\n*%s*\n%s\nReported by: %s", c.Title, c.Description, c.UserName)
		if c.Location != nil {
			text += "\n📍 " + c.Location.DisplayAddress()
		}
		return text
	case session.EventComplaintStatus:
		c := ev.Complaint
		return fmt.Sprintf("🔧 Complaint *%s* moved to %s", c.Title, statusLabel(c.Status))
	}
	return ""
}

func statusLabel(s models.ComplaintStatus) string {
	switch s {
	case models.StatusPending:
		return "Pending"
	case models.StatusInProgress:
		return "In Progress"
	case models.StatusResolved:
		return "Resolved"
	}
	return string(s)
}
