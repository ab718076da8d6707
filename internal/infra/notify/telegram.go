// Package notify отправляет служебные сообщения в админский чат Telegram.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/warehouse-ops/internal/domain/inventory"
)

// Sender: часть tgbotapi.BotAPI, которой достаточно для отправки.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	api    Sender
	chatID int64
	log    *slog.Logger
}

func NewTelegram(api Sender, chatID int64, log *slog.Logger) *Telegram {
	return &Telegram{api: api, chatID: chatID, log: log}
}

// Connect создаёт клиента Bot API по токену.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// StockAlert сообщает о позиции на минимальном уровне или без остатка.
// Ошибка отправки только логируется: запись уже закоммичена.
func (t *Telegram) StockAlert(_ context.Context, it inventory.Item) {
	title := "⚠️ Низкий остаток"
	if it.StockLevel == inventory.OutOfStock {
		title = "⛔ Нет в наличии"
	}
	text := fmt.Sprintf(
		"%s\nSKU: %s\nТовар: %s\nСклад: %d\nДоступно: %d (минимум %d)",
		title, it.SKU, it.ProductName, it.WarehouseID, it.QuantityAvailable, it.MinimumStockLevel,
	)
	t.send(tgbotapi.NewMessage(t.chatID, text))
}

// SendDocument отправляет файл (например, выгрузку XLSX) в админский чат.
func (t *Telegram) SendDocument(name string, data *bytes.Buffer, caption string) error {
	doc := tgbotapi.NewDocument(t.chatID, tgbotapi.FileBytes{
		Name:  name,
		Bytes: data.Bytes(),
	})
	doc.Caption = caption
	_, err := t.api.Send(doc)
	return err
}

func (t *Telegram) send(msg tgbotapi.Chattable) {
	if _, err := t.api.Send(msg); err != nil {
		t.log.Error("telegram send failed", "chat_id", t.chatID, "err", err)
	}
}
