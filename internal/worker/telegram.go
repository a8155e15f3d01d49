package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/niaga-next/internal/config"
)

const defaultTelegramTimeout = 5 * time.Second

// TelegramNotifier 通过 Telegram Bot API 发送订单通知
type TelegramNotifier struct {
	cfg    config.TelegramNotifyConfig
	client *http.Client
}

// NewTelegramNotifier 创建 Telegram 通知器
func NewTelegramNotifier(cfg config.TelegramNotifyConfig) *TelegramNotifier {
	timeout := defaultTelegramTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &TelegramNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Enabled 是否可用
func (n *TelegramNotifier) Enabled() bool {
	if n == nil {
		return false
	}
	return n.cfg.Enabled && strings.TrimSpace(n.cfg.BotToken) != "" && strings.TrimSpace(n.cfg.ChatID) != ""
}

// SendMessage 发送文本消息
func (n *TelegramNotifier) SendMessage(ctx context.Context, text string) error {
	if !n.Enabled() {
		return errors.New("telegram notifier disabled")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("empty message")
	}

	apiBase := strings.TrimRight(strings.TrimSpace(n.cfg.APIBase), "/")
	if apiBase == "" {
		apiBase = "https://api.telegram.org"
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", apiBase, strings.TrimSpace(n.cfg.BotToken))

	body, err := json.Marshal(map[string]string{
		"chat_id": strings.TrimSpace(n.cfg.ChatID),
		"text":    text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram send message: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("telegram send message: %s", result.Description)
	}
	return nil
}
