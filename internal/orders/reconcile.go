package orders

import (
	"sort"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"
)

// ReconcilePath selects between the two write strategies for an order
// update.
type ReconcilePath int

const (
	// UpdateInPlace overwrites cells of the existing rows field by
	// field, leaving row positions untouched.
	UpdateInPlace ReconcilePath = iota
	// DeleteAndAppend removes the order's whole row block and appends a
	// freshly built one. The two steps are not atomic; a failure
	// between them leaves the order missing until manually reconciled.
	DeleteAndAppend
)

// ChoosePath picks the write strategy: any difference in the staff
// identity set (staff code + shift slot) forces delete-and-append,
// because line rows cannot be grown or shrunk in place. Identical sets
// take the in-place path even when prices or statuses changed.
func ChoosePath(current, requested []LineKey) ReconcilePath {
	if len(current) != len(requested) {
		return DeleteAndAppend
	}
	seen := make(map[LineKey]int, len(current))
	for _, k := range current {
		seen[k]++
	}
	for _, k := range requested {
		if seen[k] == 0 {
			return DeleteAndAppend
		}
		seen[k]--
	}
	return UpdateInPlace
}

// DeleteRanges merges sorted row indexes into minimal half-open
// [start, end) runs for batched row deletion. Indexes are in whatever
// base the caller addresses the sheet with.
func DeleteRanges(rowIndexes []int64) [][2]int64 {
	if len(rowIndexes) == 0 {
		return nil
	}
	sorted := append([]int64(nil), rowIndexes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var ranges [][2]int64
	start, end := sorted[0], sorted[0]+1
	for _, idx := range sorted[1:] {
		if idx == end {
			end++
			continue
		}
		ranges = append(ranges, [2]int64{start, end})
		start, end = idx, idx+1
	}
	return append(ranges, [2]int64{start, end})
}

// BlockLine is one staff line of a row block under construction.
type BlockLine struct {
	Staff     string
	Shift     string
	UnitPrice int64
	Amount    int64
	Markers   []string
	Status    string
}

// BlockAggregates carries the order-level fields written to a block's
// first row only. Downstream read logic takes these exclusively from
// each group's first row, so the convention must hold on every write.
type BlockAggregates struct {
	Total    int64
	Discount int64
	Net      int64
	Review   string
	Points   string
	Print    string
}

// BlockHeader carries the order-level fields repeated on every row.
type BlockHeader struct {
	Timestamp   string
	OrderID     string
	Customer    string
	Phone       string
	Email       string
	Table       string
	Note        string
	ManagerNote string
}

// BuildBlock constructs the full replacement row block for one order.
// Aggregate fields land on the first row; later rows leave them blank.
func BuildBlock(schema ColumnSchema, header BlockHeader, lines []BlockLine, agg BlockAggregates) [][]interface{} {
	block := make([][]interface{}, len(lines))
	for i, line := range lines {
		row := make([]interface{}, schema.Width)
		for j := range row {
			row[j] = ""
		}

		set := func(col int, v interface{}) {
			if col >= 0 && col < schema.Width {
				row[col] = v
			}
		}

		set(schema.Timestamp, header.Timestamp)
		set(schema.OrderID, header.OrderID)
		set(schema.Customer, header.Customer)
		set(schema.Phone, header.Phone)
		set(schema.Email, header.Email)
		set(schema.Staff, line.Staff)
		set(schema.Shift, line.Shift)
		set(schema.UnitPrice, line.UnitPrice)
		set(schema.Amount, line.Amount)
		set(schema.Table, header.Table)
		set(schema.Note, header.Note)
		set(schema.ManagerNote, header.ManagerNote)
		set(schema.Status, line.Status)

		for m, col := range schema.Markers {
			if m < len(line.Markers) {
				set(col, line.Markers[m])
			}
		}

		if i == 0 {
			set(schema.Total, agg.Total)
			set(schema.Discount, agg.Discount)
			set(schema.Net, agg.Net)
			set(schema.Points, agg.Points)
		}
		// Review and print status survive an order rewrite on every
		// row; they are carried over, not reset.
		set(schema.Review, agg.Review)
		set(schema.Print, agg.Print)

		block[i] = row
	}
	return block
}

// LineForState maps a manager-side participation state onto the marker
// and status cells, mirroring how the order screen writes them.
func LineForState(staff, shift string, unitPrice int64, state LineState, markerCount int) BlockLine {
	line := BlockLine{
		Staff:     staff,
		Shift:     shift,
		UnitPrice: unitPrice,
		Markers:   make([]string, markerCount),
	}
	switch state {
	case LineDeclined:
		for i := range line.Markers {
			line.Markers[i] = MarkerDeclined
		}
		line.Status = StatusCancelled
	case LineCancel:
		for i := range line.Markers {
			line.Markers[i] = MarkerCancelled
		}
		line.Status = StatusCancelled
	default:
		// Agreed is the default for unknown states, as the sheet has
		// always treated it.
		for i := range line.Markers {
			line.Markers[i] = MarkerAgreed
		}
		line.Amount = unitPrice
	}
	return line
}

// KeysOf extracts the staff identity set of a row group.
func KeysOf(group []Row, schema ColumnSchema) []LineKey {
	keys := make([]LineKey, len(group))
	for i, row := range group {
		keys[i] = LineKey{
			Staff: vnformat.CleanText(row.Cell(schema.Staff)),
			Shift: vnformat.CleanText(row.Cell(schema.Shift)),
		}
	}
	return keys
}
