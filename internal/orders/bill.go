package orders

import "github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"

// BillLine is one printable line of an order's bill.
type BillLine struct {
	Timestamp string `json:"timestamp"`
	OrderCode string `json:"orderCode"`
	Customer  struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		TableNum string `json:"tableNum"`
	} `json:"customer"`
	Staff     string `json:"maNV"`
	Shift     string `json:"caLV"`
	UnitPrice int64  `json:"donGia"`
	Amount    int64  `json:"thanhTien"`
	Total     int64  `json:"tongCong"`
	Discount  int64  `json:"giamGia"`
	Net       int64  `json:"tongThu"`
	Note      string `json:"ghiChu"`
	Status    string `json:"status"`
	OrderDate string `json:"orderDate"`
}

// ComposeBill builds the printable bill for one order's row group. A
// line is billable when its staff member confirmed it (last marker "V")
// and its unit price is positive; an order has a bill only once at
// least one line was confirmed. Order-level amounts come from the
// group's first row, per the first-row convention.
func ComposeBill(group []Row, schema ColumnSchema) []BillLine {
	if len(group) == 0 {
		return nil
	}

	var bill []BillLine
	for _, row := range group {
		line := StaffLineOf(row, schema)
		if line.Participation() != LineAgreed || line.UnitPrice <= 0 {
			continue
		}

		bl := BillLine{
			Timestamp: row.Cell(schema.Timestamp),
			OrderCode: vnformat.CleanText(row.Cell(schema.OrderID)),
			Staff:     line.Staff,
			Shift:     line.Shift,
			UnitPrice: line.UnitPrice,
			Amount:    vnformat.ParseCurrency(row.Cell(schema.Amount)),
			Total:     vnformat.ParseCurrency(group[0].Cell(schema.Total)),
			Discount:  vnformat.ParseCurrency(group[0].Cell(schema.Discount)),
			Net:       vnformat.ParseCurrency(group[0].Cell(schema.Net)),
			Note:      row.Cell(schema.Note),
			Status:    row.Status(schema.Status),
			OrderDate: vnformat.DateOf(row.Cell(schema.Timestamp)),
		}
		bl.Customer.Name = row.Cell(schema.Customer)
		bl.Customer.Phone = row.Cell(schema.Phone)
		bl.Customer.Email = row.Cell(schema.Email)
		bl.Customer.TableNum = row.Cell(schema.Table)
		bill = append(bill, bl)
	}
	return bill
}
