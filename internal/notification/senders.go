package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
)

// TelegramSender は管理者チャットへBot API経由でメッセージを送る。
type TelegramSender struct {
	token  string
	chatID string
	client *http.Client
}

func NewTelegramSender(token string, chatID string, client *http.Client) *TelegramSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &TelegramSender{token: token, chatID: chatID, client: client}
}

func (s *TelegramSender) Send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.token)

	form := url.Values{}
	form.Set("chat_id", s.chatID)
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendMessage: status %d", resp.StatusCode)
	}
	return nil
}

// SMTPSender はプレーンテキストのメールを送る。
type SMTPSender struct {
	addr string // host:port
	from string
	auth smtp.Auth
}

func NewSMTPSender(host string, port string, from string, username string, password string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr: host + ":" + port,
		from: from,
		auth: auth,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to string, subject string, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.from, to, subject, body,
	)
	return smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg))
}

// NopAlertSender はTG_TOKEN未設定時のフォールバック。何もしない
type NopAlertSender struct{}

func (NopAlertSender) Send(ctx context.Context, text string) error { return nil }

// NopEmailSender はSMTP未設定時のフォールバック。
type NopEmailSender struct{}

func (NopEmailSender) Send(ctx context.Context, to, subject, body string) error { return nil }
