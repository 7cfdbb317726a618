package helpers

import (
	"time"

	log "github.com/sirupsen/logrus"
	tb "gopkg.in/tucnak/telebot.v2"
)

// TelegramHook forwards entries flagged with NotifyField to a Telegram chat
type TelegramHook struct {
	send func(message string) error
}

func NewTelegramHook(token string, chatID string) *TelegramHook {
	return &TelegramHook{
		send: func(message string) error {
			return sendOnTelegramChannel(message, token, chatID)
		},
	}
}

func (h *TelegramHook) Levels() []log.Level {
	return []log.Level{log.InfoLevel, log.WarnLevel, log.ErrorLevel}
}

func (h *TelegramHook) Fire(entry *log.Entry) error {
	if notify, _ := entry.Data[NotifyField].(bool); !notify {
		return nil
	}
	return h.send(entry.Message)
}

func sendOnTelegramChannel(message string, token string, chatID string) error {
	b, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: &tb.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return err
	}

	id, err := b.ChatByID(chatID)
	if err != nil {
		return err
	}
	_, err = b.Send(id, message)
	return err
}
