package orders

import "github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"

// QualifiesForRevenue reports whether a single row counts toward
// revenue: its status cell must carry the paid literal exactly and its
// amount cell must parse to a strictly positive integer.
func QualifiesForRevenue(row Row, schema ColumnSchema) bool {
	return row.Status(schema.Status) == StatusPaid &&
		vnformat.ParseCurrency(row.Cell(schema.Amount)) > 0
}

// DayReport is the outcome of filtering report rows down to one day.
type DayReport struct {
	Rows  []Row
	Total int64
}

// FilterDay selects the qualifying rows of one dd/mm/yyyy day. Once an
// order identifier has contributed a qualifying row for the day,
// subsequent rows with the same identifier are excluded: the report
// counts each order's first paid line and reads the order-level total
// off it, it never sums lines. This first-match-wins policy is
// deliberate and must not be "fixed" into a sum.
func FilterDay(rows []Row, schema ColumnSchema, day string) DayReport {
	report := DayReport{}
	seen := make(map[string]bool)
	for _, row := range rows {
		if vnformat.DateOf(row.Cell(schema.Timestamp)) != day {
			continue
		}
		if !QualifiesForRevenue(row, schema) {
			continue
		}
		id := vnformat.CleanText(row.Cell(schema.OrderID))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		report.Rows = append(report.Rows, row)
		report.Total += vnformat.ParseCurrency(row.Cell(schema.Total))
	}
	return report
}
