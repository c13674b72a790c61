package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template 邮件模板
type Template struct {
	tmpl *template.Template
}

// NewTemplate 从 HTML 字符串创建模板
func NewTemplate(htmlContent string) (*Template, error) {
	tmpl, err := template.New("email").Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("parse email template: %w", err)
	}
	return &Template{tmpl: tmpl}, nil
}

// MustTemplate panics on a malformed built-in template.
func MustTemplate(htmlContent string) *Template {
	t, err := NewTemplate(htmlContent)
	if err != nil {
		panic(err)
	}
	return t
}

// Render 渲染模板
func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buf.String(), nil
}

// SendWithTemplate 使用模板发送邮件
func (c *Client) SendWithTemplate(from, to, subject string, tmpl *Template, data any) error {
	body, err := tmpl.Render(data)
	if err != nil {
		return err
	}
	return c.SendHTML(from, to, subject, body)
}

// BorrowReceiptTemplate 借阅回执, 数据为 BorrowReceiptData
const BorrowReceiptTemplate = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;background:#f4f6f8;font-family:Helvetica,Arial,sans-serif;color:#222">
<table role="presentation" width="100%" style="max-width:560px;margin:0 auto;background:#fff;border-collapse:collapse">
  <tr><td style="padding:16px 24px;background:#1f4e79;color:#fff;font-size:18px">Borrowing receipt</td></tr>
  <tr><td style="padding:24px">
    <p>Hello {{.Name}},</p>
    <table role="presentation" style="border-collapse:collapse;font-size:14px">
      <tr><td style="padding:4px 12px 4px 0;color:#666">Library ID</td><td>{{.LibraryID}}</td></tr>
      <tr><td style="padding:4px 12px 4px 0;color:#666">Title</td><td><strong>{{.Title}}</strong></td></tr>
      <tr><td style="padding:4px 12px 4px 0;color:#666">ISBN</td><td>{{.ISBN}}</td></tr>
      <tr><td style="padding:4px 12px 4px 0;color:#666">Borrowed</td><td>{{.BorrowedAt}}</td></tr>
      <tr><td style="padding:4px 12px 4px 0;color:#666">Due</td><td><strong>{{.DueAt}}</strong></td></tr>
    </table>
    <p style="margin-top:24px;font-size:12px;color:#888">Automated message, replies are not read.</p>
  </td></tr>
</table>
</body>
</html>
`

// BorrowReceiptData 借阅回执数据
type BorrowReceiptData struct {
	Name       string
	LibraryID  string
	Title      string
	ISBN       string
	BorrowedAt string
	DueAt      string
}
