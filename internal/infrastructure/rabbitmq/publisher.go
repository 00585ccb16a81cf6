// Package rabbitmq は予約の状態変更を RabbitMQ に配信する
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
)

// MessageType は配信メッセージの種別
const MessageType = "booking.status_changed"

// StatusChangedMessage は状態変更メッセージ
type StatusChangedMessage struct {
	Type       string         `json:"type"`
	BookingID  int64          `json:"booking_id"`
	CustomerID int64          `json:"customer_id"`
	EventID    int64          `json:"event_id"`
	SeatID     int64          `json:"seat_id"`
	From       booking.Status `json:"from"`
	To         booking.Status `json:"to"`
	Price      money.Amount   `json:"price"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Channel は Publisher が使う AMQP チャネルの操作
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher は状態変更を永続キューに配信する
type Publisher struct {
	mu     sync.Mutex
	conn   *amqp.Connection
	ch     Channel
	queue  string
	logger *zap.Logger
}

// Dial はブローカーに接続し、永続キューを宣言する
func Dial(url, queue string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("RabbitMQ接続に失敗: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("チャネル作成に失敗: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("キュー宣言に失敗: %w", err)
	}
	p := NewPublisher(ch, queue, logger)
	p.conn = conn
	return p, nil
}

// NewPublisher は宣言済みのチャネルから Publisher を作成する
func NewPublisher(ch Channel, queue string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{ch: ch, queue: queue, logger: logger}
}

// Publish はメッセージを JSON で永続配信する
func (p *Publisher) Publish(ctx context.Context, msg StatusChangedMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("メッセージのエンコードに失敗: %w", err)
	}

	// amqp のチャネルはゴルーチンセーフではない
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    msg.OccurredAt,
		Type:         msg.Type,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("メッセージ配信に失敗: %w", err)
	}
	p.logger.Debug("状態変更を配信しました", zap.Int64("booking_id", msg.BookingID), zap.String("to", string(msg.To)))
	return nil
}

// Observer は Hub に登録するオブザーバーを返す。
// ID 未採番（永続化前）の予約は配信しない
func (p *Publisher) Observer() booking.ObserverFunc {
	return func(ctx context.Context, b *booking.Booking, old, new booking.Status) error {
		if b.ID == 0 {
			return nil
		}
		return p.Publish(ctx, StatusChangedMessage{
			Type:       MessageType,
			BookingID:  b.ID,
			CustomerID: b.CustomerID,
			EventID:    b.EventID,
			SeatID:     b.SeatID,
			From:       old,
			To:         new,
			Price:      b.Price,
			OccurredAt: b.UpdatedAt.UTC(),
		})
	}
}

// Close はチャネルと接続を閉じる
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
