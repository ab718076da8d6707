package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/warehouse-ops/internal/domain/inventory"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestStockAlert(t *testing.T) {
	api := &fakeSender{}
	tg := NewTelegram(api, 42, slog.Default())

	tg.StockAlert(context.Background(), inventory.Item{
		SKU: "SKU-2", ProductName: "Bolt", WarehouseID: 3,
		QuantityAvailable: 0, MinimumStockLevel: 5, StockLevel: inventory.OutOfStock,
	})

	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "Нет в наличии")
	assert.Contains(t, msg.Text, "SKU-2")
}

func TestStockAlertSendFailureIsLogged(t *testing.T) {
	api := &fakeSender{err: errors.New("forbidden")}
	var buf bytes.Buffer
	tg := NewTelegram(api, 42, slog.New(slog.NewJSONHandler(&buf, nil)))

	tg.StockAlert(context.Background(), inventory.Item{SKU: "SKU-3", StockLevel: inventory.LowStock})

	assert.Contains(t, buf.String(), "telegram send failed")
}

func TestSendDocument(t *testing.T) {
	api := &fakeSender{}
	tg := NewTelegram(api, 7, slog.Default())

	require.NoError(t, tg.SendDocument("inventory.xlsx", bytes.NewBufferString("xlsx"), "Остатки"))
	doc, ok := api.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, "Остатки", doc.Caption)
}
