package orders

import "github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"

// Row is one spreadsheet row as positional string cells. Rows are not
// self-describing; fields are addressed through a ColumnSchema.
type Row []string

// Cell returns the cell at index, tolerating short rows and -1
// (column absent in this schema version).
func (r Row) Cell(index int) string {
	if index < 0 || index >= len(r) {
		return ""
	}
	return r[index]
}

// Status returns the cell trimmed for comparison against the fixed
// status vocabulary.
func (r Row) Status(index int) string {
	return vnformat.CleanText(r.Cell(index))
}

// NormalizeRows converts the raw interface{} cells the Sheets API
// returns into Rows.
func NormalizeRows(raw [][]interface{}) []Row {
	rows := make([]Row, len(raw))
	for i, rawRow := range raw {
		row := make(Row, len(rawRow))
		for j := range rawRow {
			row[j] = vnformat.Cell(rawRow, j)
		}
		rows[i] = row
	}
	return rows
}

// ConfirmState is the derived per-order confirmation state. It is a
// pure function of the marker cells and is never persisted; persisting
// it would let it diverge from the rows it is derived from.
type ConfirmState string

const (
	Unconfirmed ConfirmState = "chuaxacnhan"
	Confirmed   ConfirmState = "daxacnhan"
	Cancelled   ConfirmState = "huydon"
)

// LineState is the staff-facing participation state carried in update
// requests from the manager screen.
type LineState string

const (
	LineAgreed   LineState = "Đồng ý"
	LineDeclined LineState = "Không tham gia"
	LineCancel   LineState = "Hủy đơn"
)

// StaffLine is one row's per-staff view: who, which shift, at what
// price, and the participation markers for that line.
type StaffLine struct {
	Staff     string
	Shift     string
	UnitPrice int64
	// Markers mirrors the schema's marker columns, primary first.
	Markers []string
	// Status is the shared payment/cancellation cell on this line.
	Status string
}

// Key identifies the line within its order. Two lines are the same
// staff line exactly when staff code and shift slot both match.
func (l StaffLine) Key() LineKey {
	return LineKey{Staff: l.Staff, Shift: l.Shift}
}

// Participation reads the staff response off the last (most recent)
// marker column.
func (l StaffLine) Participation() LineState {
	if len(l.Markers) == 0 {
		return ""
	}
	switch l.Markers[len(l.Markers)-1] {
	case MarkerAgreed:
		return LineAgreed
	case MarkerDeclined:
		return LineDeclined
	case MarkerCancelled:
		return LineCancel
	}
	return ""
}

// LineKey is the composite staff identity used by the reconciliation
// writer's set difference.
type LineKey struct {
	Staff string
	Shift string
}

// StaffLineOf extracts a StaffLine from a row under the given schema.
func StaffLineOf(row Row, schema ColumnSchema) StaffLine {
	markers := make([]string, len(schema.Markers))
	for i, col := range schema.Markers {
		markers[i] = row.Status(col)
	}
	return StaffLine{
		Staff:     vnformat.CleanText(row.Cell(schema.Staff)),
		Shift:     vnformat.CleanText(row.Cell(schema.Shift)),
		UnitPrice: vnformat.ParseCurrency(row.Cell(schema.UnitPrice)),
		Markers:   markers,
		Status:    row.Status(schema.Status),
	}
}
