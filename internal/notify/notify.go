// Package notify 借阅相关的邮件通知
package notify

import (
	"context"

	"terminal-terrace/library/config"
	borrowingModel "terminal-terrace/library/internal/model/borrowing"
	userModel "terminal-terrace/library/internal/model/user"
	"terminal-terrace/library/packages/email"
)

const dateLayout = "2006-01-02"

// Sender 邮件发送, *email.Client 实现
type Sender interface {
	SendWithTemplate(from, to, subject string, tmpl *email.Template, data any) error
}

// EmailNotifier 借出后发送回执
type EmailNotifier struct {
	sender  Sender
	from    string
	receipt *email.Template
}

func NewEmailNotifier(sender Sender, from string) *EmailNotifier {
	return &EmailNotifier{
		sender:  sender,
		from:    from,
		receipt: email.MustTemplate(email.BorrowReceiptTemplate),
	}
}

// FromConfig returns nil when SMTP is not configured.
func FromConfig(cfg config.SMTPConfig) *EmailNotifier {
	if !cfg.Enabled() {
		return nil
	}
	return NewEmailNotifier(email.NewClient(cfg.Config), cfg.From)
}

func (n *EmailNotifier) BorrowReceipt(ctx context.Context, reader *userModel.User, b *borrowingModel.Borrowing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := email.BorrowReceiptData{
		Name:       reader.Name,
		LibraryID:  reader.LibraryID,
		BorrowedAt: b.BorrowedAt.Format(dateLayout),
		DueAt:      b.DueAt.Format(dateLayout),
	}
	if b.Book != nil {
		data.Title = b.Book.Title
		data.ISBN = b.Book.ISBN
	}

	return n.sender.SendWithTemplate(n.from, reader.Email, "Borrowing receipt: "+data.Title, n.receipt, data)
}
