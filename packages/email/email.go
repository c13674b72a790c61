package email

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"sort"
	"strings"
)

// Config 邮件服务配置
type Config struct {
	Host     string `koanf:"host"`     // SMTP 服务器地址
	Port     int    `koanf:"port"`     // 通常 587 (STARTTLS)
	Username string `koanf:"username"` // 登录用户名
	Password string `koanf:"password"` // 密码或授权码
	UseTLS   bool   `koanf:"tls"`      // 强制 STARTTLS
}

// Message 邮件消息
type Message struct {
	From        string
	To          []string
	Subject     string
	Body        string
	ContentType string // 默认 text/plain
}

var (
	ErrNoSender    = errors.New("email: sender is required")
	ErrNoRecipient = errors.New("email: at least one recipient is required")
	ErrNoSubject   = errors.New("email: subject is required")
)

// Client 邮件客户端
type Client struct {
	config Config
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewClient 创建邮件客户端
func NewClient(config Config) *Client {
	if config.Port == 0 {
		config.Port = 587
	}
	c := &Client{config: config}
	c.send = smtp.SendMail
	if config.UseTLS || config.Port == 587 {
		c.send = c.sendWithTLS
	}
	return c
}

// Build renders the RFC 5322 message with a stable header order.
func (m *Message) Build() ([]byte, error) {
	if m.From == "" {
		return nil, ErrNoSender
	}
	if len(m.To) == 0 {
		return nil, ErrNoRecipient
	}
	if m.Subject == "" {
		return nil, ErrNoSubject
	}
	contentType := m.ContentType
	if contentType == "" {
		contentType = "text/plain; charset=UTF-8"
	}

	headers := map[string]string{
		"From":         m.From,
		"To":           strings.Join(m.To, ", "),
		"Subject":      m.Subject,
		"MIME-Version": "1.0",
		"Content-Type": contentType,
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return []byte(b.String()), nil
}

// Send 发送邮件
func (c *Client) Send(msg *Message) error {
	raw, err := msg.Build()
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if c.config.Username != "" {
		auth = smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
	}
	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)

	return c.send(addr, auth, envelopeAddress(msg.From), msg.To, raw)
}

// SendHTML 发送 HTML 邮件
func (c *Client) SendHTML(from, to, subject, htmlBody string) error {
	return c.Send(&Message{
		From:        from,
		To:          []string{to},
		Subject:     subject,
		Body:        htmlBody,
		ContentType: "text/html; charset=UTF-8",
	})
}

// sendWithTLS 使用 STARTTLS 发送
func (c *Client) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: c.config.Host}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}
	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}

	return client.Quit()
}

// envelopeAddress strips the display name: "Library <a@b>" -> "a@b".
func envelopeAddress(from string) string {
	start := strings.LastIndex(from, "<")
	end := strings.LastIndex(from, ">")
	if start >= 0 && end > start {
		return from[start+1 : end]
	}
	return from
}
