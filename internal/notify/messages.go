// Package notify delivers order notifications over Telegram and SMTP.
// Delivery is best-effort: every failure is logged and none is ever
// surfaced to the customer-facing request that triggered it.
package notify

import (
	"fmt"
	"strings"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"
)

// MessageLine is one staff line as it appears in a notification.
type MessageLine struct {
	Staff     string
	Shift     string
	UnitPrice int64
	// State is the staff response shown on manager-decision messages;
	// empty on new-order messages.
	State string
}

// OrderMessage carries everything a notification about one order needs.
// The same value renders as Telegram Markdown and as the receipt email.
type OrderMessage struct {
	TitleIcon   string
	Title       string
	Time        string
	OrderCode   string
	Name        string
	Phone       string
	Email       string
	Table       string
	Note        string
	ManagerNote string
	Lines       []MessageLine
	Total       int64
}

// NewOrderMessage formats the new-order announcement.
func NewOrderMessage(time, orderCode, name, phone, email, table, note string, lines []MessageLine, total int64) OrderMessage {
	return OrderMessage{
		TitleIcon: "📝",
		Title:     "ĐƠN ĐẶT DỊCH VỤ MỚI",
		Time:      time,
		OrderCode: orderCode,
		Name:      name,
		Phone:     phone,
		Email:     email,
		Table:     table,
		Note:      note,
		Lines:     lines,
		Total:     total,
	}
}

// DecisionMessage formats the manager-decision announcement: a
// cancellation when every line was cancelled, a confirmation otherwise.
func DecisionMessage(base OrderMessage, allCancelled bool) OrderMessage {
	if allCancelled {
		base.TitleIcon = "❌"
		base.Title = "HỦY ĐƠN HÀNG SỐ " + base.OrderCode
	} else {
		base.TitleIcon = "✅"
		base.Title = "XÁC NHẬN ĐƠN HÀNG SỐ " + base.OrderCode
	}
	return base
}

// Markdown renders the Telegram message body. The layout and its
// Vietnamese labels are fixed; staff read these on their phones.
func (m OrderMessage) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n\n", m.TitleIcon, strings.ToUpper(m.Title))
	fmt.Fprintf(&b, "⏰ Thời gian: %s\n", m.Time)
	fmt.Fprintf(&b, "🆔 Mã đơn: %s\n", m.OrderCode)
	fmt.Fprintf(&b, "👤 Khách hàng: %s\n", m.Name)
	fmt.Fprintf(&b, "📞 SĐT: %s\n", m.Phone)
	fmt.Fprintf(&b, "✉️ Email: %s\n", m.Email)
	fmt.Fprintf(&b, "🪑 Thẻ bàn số: %s\n", m.Table)

	note := m.Note
	if note == "" {
		note = "_Không có_"
	}
	fmt.Fprintf(&b, "📝 Ghi chú: %s\n\n", note)

	b.WriteString("*Danh sách dịch vụ:*\n")
	for _, l := range m.Lines {
		fmt.Fprintf(&b, "- *%s*: Ca LV %s", l.Staff, l.Shift)
		if l.UnitPrice > 0 {
			fmt.Fprintf(&b, " Giá: %s", vnformat.FormatCurrencyVND(l.UnitPrice))
		}
		if l.State != "" {
			fmt.Fprintf(&b, " - %s", l.State)
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\n💰 *TỔNG CỘNG:* %s\n", vnformat.FormatCurrencyVND(m.Total))
	if m.ManagerNote != "" {
		fmt.Fprintf(&b, "\n📝 *Ghi chú quản lý:* %s\n", m.ManagerNote)
	}
	return b.String()
}

// ReceiptHTML renders the confirmation receipt mailed to the customer.
// Inline styles only; mail clients strip stylesheets.
func (m OrderMessage) ReceiptHTML() string {
	var rows strings.Builder
	for _, l := range m.Lines {
		fmt.Fprintf(&rows, `
      <tr>
        <td style="border:1px solid #e6ecf2;padding:6px 4px;text-align:center;">%s</td>
        <td style="border:1px solid #e6ecf2;padding:6px 4px;text-align:center;">%s</td>
        <td style="border:1px solid #e6ecf2;padding:6px 4px;text-align:center;">%s</td>
      </tr>`, l.Staff, l.Shift, vnformat.FormatCurrencyVND(l.UnitPrice))
	}

	detail := func(label, value string) string {
		return fmt.Sprintf(`
      <tr>
        <th style="background:#f2f7fa;width:38%%;font-weight:600;border:1px solid #dbe5ec;padding:7px 8px 7px 12px;text-align:left;font-size:14px;vertical-align:top;">%s</th>
        <td style="background:#fff;color:#222;border:1px solid #dbe5ec;padding:7px 8px;text-align:left;font-size:14px;vertical-align:top;">%s</td>
      </tr>`, label, value)
	}

	return fmt.Sprintf(`
  <div style="font-family:Arial,sans-serif;background:#fff;max-width:420px;margin:0 auto;border-radius:10px;border:1px solid #d9e2e7;box-shadow:0 2px 8px rgba(0,0,0,0.09);padding:22px 18px 18px 18px;">
    <div style="text-align:center;font-size:20px;font-weight:bold;margin-bottom:5px;color:#168d49;">Biên nhận đặt dịch vụ</div>
    <div style="text-align:center;font-size:16px;font-weight:bold;color:#d63384;margin-bottom:14px;padding:7px 0;background:#f8f9fa;border:1px solid #dee2e6;border-radius:6px;">Mã đơn hàng: %s</div>
    <table style="width:100%%;border-collapse:collapse;margin-bottom:18px;">%s%s%s%s%s%s
    </table>
    <table style="width:100%%;border-collapse:collapse;margin-bottom:10px;font-size:13.5px;">
      <tr>
        <th style="background:#f2f7fa;font-weight:600;border:1px solid #e6ecf2;padding:6px 4px;text-align:center;">Mã NV</th>
        <th style="background:#f2f7fa;font-weight:600;border:1px solid #e6ecf2;padding:6px 4px;text-align:center;">Ca LV</th>
        <th style="background:#f2f7fa;font-weight:600;border:1px solid #e6ecf2;padding:6px 4px;text-align:center;">Đơn giá</th>
      </tr>%s
      <tr>
        <td colspan="2" style="font-weight:bold;background:#fff;text-align:center;color:#111;font-size:16px;border:1px solid #e6ecf2;">Tổng cộng</td>
        <td style="font-weight:bold;background:#fff;text-align:center;color:#111;font-size:16px;border:1px solid #e6ecf2;">%s</td>
      </tr>
    </table>
  </div>`,
		m.OrderCode,
		detail("Thời gian đặt", m.Time),
		detail("Khách hàng", m.Name),
		detail("Số điện thoại", m.Phone),
		detail("Email", m.Email),
		detail("Thẻ bàn số", m.Table),
		detail("Ghi chú", m.Note),
		rows.String(),
		vnformat.FormatCurrencyVND(m.Total))
}

// CancelHTML renders the cancellation notice mailed to the customer.
func CancelHTML(orderCode string) string {
	return fmt.Sprintf(`
        <div style="background:#e3f2fd;border:1px solid #2196f3;padding:22px 16px 14px 16px;border-radius:7px;text-align:center;">
          <div style="font-size:18px;font-weight:bold;color:#1565c0;padding-bottom:8px;">Hủy đơn hàng</div>
          <div style="font-size:16px;color:#c62828;padding-bottom:4px;">Đơn hàng số %s của quý khách được chấp nhận <b>Hủy</b> thành công.</div>
          <div style="color:#1976d2;font-size:15px;">Hẹn quý khách đặt dịch vụ lần sau, xin cảm ơn!</div>
        </div>`, orderCode)
}
