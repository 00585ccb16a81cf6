// Package telegram は運用者向けに予約の確定・キャンセルを通知する
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
)

// Sender はメッセージ送信の抽象（*tgbotapi.BotAPI が実装する）
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier は Telegram の運用チャットへ通知する
type Notifier struct {
	bot    Sender
	chatID int64
	logger *zap.Logger
}

// NewNotifier はトークンからボットを作成する。トークンが空なら通知は無効
func NewNotifier(token string, chatID int64, logger *zap.Logger) (*Notifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if token == "" {
		logger.Warn("Telegramトークンが未設定のため通知は無効です")
		return &Notifier{chatID: chatID, logger: logger}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("Telegramボットの作成に失敗: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// NewNotifierWithSender は任意の Sender で Notifier を作成する
func NewNotifierWithSender(bot Sender, chatID int64, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{bot: bot, chatID: chatID, logger: logger}
}

// Enabled は通知が有効かを返す
func (n *Notifier) Enabled() bool {
	return n.bot != nil && n.chatID != 0
}

// Observer は確定・キャンセル時に通知するオブザーバーを返す
func (n *Notifier) Observer() booking.ObserverFunc {
	return func(ctx context.Context, b *booking.Booking, old, new booking.Status) error {
		var title string
		switch new {
		case booking.StatusConfirmed:
			title = "Buchung bestätigt"
		case booking.StatusCancelled:
			title = "Buchung storniert"
		default:
			return nil
		}
		text := fmt.Sprintf("*%s*\n\nBuchung: #%d\nEvent: #%d\nPlatz: #%d\nKunde: #%d\nPreis: %s\nStatus: %s → %s",
			title, b.ID, b.EventID, b.SeatID, b.CustomerID, b.Price, old.DisplayName(), new.DisplayName())
		return n.send(ctx, text)
	}
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if !n.Enabled() {
		n.logger.Debug("通知をスキップしました（ボット無効）")
		return nil
	}
	if err := ctx.Err(); err != nil {
		n.logger.Debug("通知をスキップしました（コンテキスト終了）", zap.Int64("chat_id", n.chatID))
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("Telegram通知の送信に失敗: %w", err)
	}
	return nil
}
