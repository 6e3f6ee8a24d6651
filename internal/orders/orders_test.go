package orders

// Test helpers shared by the package tests. testRow builds a current-
// layout row with named fields so tests read like the sheet does.

type rowSpec struct {
	Timestamp string
	OrderID   string
	Customer  string
	Phone     string
	Email     string
	Staff     string
	Shift     string
	UnitPrice string
	Amount    string
	Total     string
	Discount  string
	Net       string
	Table     string
	Note      string
	Primary   string
	Secondary string
	Status    string
	Review    string
	Points    string
	Print     string
}

func testRow(schema ColumnSchema, spec rowSpec) Row {
	row := make(Row, schema.Width)
	set := func(col int, v string) {
		if col >= 0 && col < len(row) {
			row[col] = v
		}
	}
	set(schema.Timestamp, spec.Timestamp)
	set(schema.OrderID, spec.OrderID)
	set(schema.Customer, spec.Customer)
	set(schema.Phone, spec.Phone)
	set(schema.Email, spec.Email)
	set(schema.Staff, spec.Staff)
	set(schema.Shift, spec.Shift)
	set(schema.UnitPrice, spec.UnitPrice)
	set(schema.Amount, spec.Amount)
	set(schema.Total, spec.Total)
	set(schema.Discount, spec.Discount)
	set(schema.Net, spec.Net)
	set(schema.Table, spec.Table)
	set(schema.Note, spec.Note)
	if len(schema.Markers) > 0 {
		set(schema.Markers[0], spec.Primary)
	}
	if len(schema.Markers) > 1 {
		set(schema.Markers[1], spec.Secondary)
	}
	set(schema.Status, spec.Status)
	set(schema.Review, spec.Review)
	set(schema.Points, spec.Points)
	set(schema.Print, spec.Print)
	return row
}

func freshLine(schema ColumnSchema, orderID, staff, shift, price string) Row {
	return testRow(schema, rowSpec{
		OrderID:   orderID,
		Staff:     staff,
		Shift:     shift,
		UnitPrice: price,
		Amount:    price,
		Primary:   MarkerAgreed,
	})
}
