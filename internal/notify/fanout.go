package notify

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Notifier fans order events out to Telegram and email. All dispatch is
// fire-and-forget from the caller's point of view: every channel runs,
// every channel is waited for, and a channel failure is logged without
// failing the order operation that triggered it.
type Notifier struct {
	telegram *Telegram
	mailer   *Mailer
}

// NewNotifier wires the two channels together.
func NewNotifier(telegram *Telegram, mailer *Mailer) *Notifier {
	return &Notifier{telegram: telegram, mailer: mailer}
}

// OrderSubmitted announces a new order to its staff and the manager.
func (n *Notifier) OrderSubmitted(ctx context.Context, msg OrderMessage, staffCodes []string, recipients map[string]string) {
	n.telegram.Broadcast(ctx, staffCodes, recipients, msg.Markdown())
}

// OrderDecided announces a manager decision: Telegram to staff and
// manager, a receipt mail to the customer when any line was agreed,
// and a cancellation mail when every line was cancelled. The channels
// run concurrently and all of them complete before this returns; a
// plain errgroup (no shared context cancellation) keeps one channel's
// failure from cutting the others short.
func (n *Notifier) OrderDecided(ctx context.Context, msg OrderMessage, staffCodes []string, recipients map[string]string, allCancelled bool) {
	agreed := make([]MessageLine, 0, len(msg.Lines))
	var agreedTotal int64
	for _, l := range msg.Lines {
		if l.State == "Đồng ý" && l.UnitPrice > 0 {
			agreed = append(agreed, l)
			agreedTotal += l.UnitPrice
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		n.telegram.Broadcast(ctx, staffCodes, recipients, msg.Markdown())
		return nil
	})

	if len(agreed) > 0 && msg.Email != "" {
		receipt := msg
		receipt.Lines = agreed
		receipt.Total = agreedTotal
		g.Go(func() error {
			return n.mailer.Send(msg.Email, "Đơn đặt dịch vụ - Mã đơn "+msg.OrderCode, receipt.ReceiptHTML())
		})
	}
	if allCancelled && msg.Email != "" {
		g.Go(func() error {
			return n.mailer.Send(msg.Email, "Hủy đơn hàng", CancelHTML(msg.OrderCode))
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("order_code", msg.OrderCode).Msg("Notification dispatch failed")
	}
}
