package push

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramPusher sends alerts as messages from a Telegram bot to a single chat.
// The bot is authorized lazily, on the first permission request.
type TelegramPusher struct {
	token  string
	chatId int64
	dial   func(token string) (botSender, error)

	once       sync.Once
	bot        botSender
	permission Permission
}

func NewTelegramPusher(token string, chatId int64) *TelegramPusher {
	return &TelegramPusher{
		token:  token,
		chatId: chatId,
		dial:   dialTelegram,
	}
}

// requestTimeout bounds every Bot API call; tgbotapi's default client never gives up.
const requestTimeout = 30 * time.Second

func dialTelegram(token string) (botSender, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: requestTimeout})
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Infof("Telegram push authorized on account %s", api.Self.UserName)
	return api, nil
}

// RequestPermission is granted iff a chat is configured and the token authenticates.
// The answer is decided once and cached.
func (p *TelegramPusher) RequestPermission(ctx context.Context) Permission {
	p.once.Do(func() {
		p.permission = Denied
		if p.token == "" || p.chatId == 0 {
			log.Warn("Telegram push is not configured, token and chat id are required")
			return
		}
		bot, err := p.dial(p.token)
		if err != nil {
			log.Errorf("Telegram push denied: %v", err)
			return
		}
		p.bot = bot
		p.permission = Granted
	})
	return p.permission
}

func (p *TelegramPusher) Send(ctx context.Context, title, body string) error {
	if p.RequestPermission(ctx) != Granted {
		return ErrPermissionDenied
	}
	msg := tgbotapi.NewMessage(p.chatId, fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(title), html.EscapeString(body)))
	msg.ParseMode = tgbotapi.ModeHTML

	// the bot api takes no context, so an abandoned call finishes in the background
	result := make(chan error, 1)
	go func() {
		_, err := p.bot.Send(msg)
		result <- err
	}()
	select {
	case err := <-result:
		if err != nil {
			return fmt.Errorf("send telegram message: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send telegram message: %w", ctx.Err())
	}
}
