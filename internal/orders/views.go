package orders

import (
	"sort"
	"strings"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"
)

// Summary is one row of the order list screen.
type Summary struct {
	OrderCode    string `json:"orderCode"`
	CustomerName string `json:"customerName"`
	TableNum     string `json:"tableNum"`
	StaffCodes   string `json:"maNVs"`
	Total        int64  `json:"total"`
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
}

// Summaries condenses each order group to a list row: distinct staff
// codes joined in appearance order, net total off the first row, paid
// status if any line is paid. Sorted newest first.
func Summaries(groups *Groups, schema ColumnSchema) []Summary {
	list := make([]Summary, 0, groups.Len())
	for _, id := range groups.Keys() {
		group := groups.Get(id)
		first := group[0]

		var codes []string
		seen := make(map[string]bool)
		for _, row := range group {
			code := vnformat.CleanText(row.Cell(schema.Staff))
			if code != "" && !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}

		list = append(list, Summary{
			OrderCode:    id,
			CustomerName: first.Cell(schema.Customer),
			TableNum:     first.Cell(schema.Table),
			StaffCodes:   strings.Join(codes, ", "),
			Total:        vnformat.ParseCurrency(first.Cell(schema.Net)),
			Status:       PaymentStatus(StaffLines(group, schema)),
			Timestamp:    first.Cell(schema.Timestamp),
		})
	}
	sortByTimestampDesc(list, func(s Summary) string { return s.Timestamp })
	return list
}

// ManagerLine is one staff line on the manager screen, with the staff
// response translated back to the request vocabulary.
type ManagerLine struct {
	Staff     string `json:"maNV"`
	Shift     string `json:"caLV"`
	UnitPrice int64  `json:"donGia"`
	State     string `json:"trangThai"`
}

// ManagerOrder is one order on the manager confirmation screen.
type ManagerOrder struct {
	Time          string        `json:"time"`
	OrderCode     string        `json:"orderId"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email"`
	Note          string        `json:"note"`
	TableNum      string        `json:"table"`
	StaffList     []ManagerLine `json:"staffList"`
	Total         string        `json:"total"`
	ConfirmStatus ConfirmState  `json:"confirmStatus"`
	PayStatus     string        `json:"payStatus"`
	ManagerNote   string        `json:"qlNote"`
}

// ManagerOrders builds the manager list: paid orders and orders nobody
// has responded to are hidden, confirmation state is derived fresh from
// the markers, newest orders first.
func ManagerOrders(groups *Groups, schema ColumnSchema) []ManagerOrder {
	var list []ManagerOrder
	for _, id := range groups.Keys() {
		group := groups.Get(id)
		if IsPaid(group, schema) || !HasAnyResponse(group, schema) {
			continue
		}

		lines := StaffLines(group, schema)
		staffList := make([]ManagerLine, len(lines))
		for i, l := range lines {
			staffList[i] = ManagerLine{
				Staff:     l.Staff,
				Shift:     l.Shift,
				UnitPrice: l.UnitPrice,
				State:     string(l.Participation()),
			}
		}

		first := group[0]
		list = append(list, ManagerOrder{
			Time:          first.Cell(schema.Timestamp),
			OrderCode:     id,
			Name:          first.Cell(schema.Customer),
			Phone:         first.Cell(schema.Phone),
			Email:         first.Cell(schema.Email),
			Note:          first.Cell(schema.Note),
			TableNum:      first.Cell(schema.Table),
			StaffList:     staffList,
			Total:         vnformat.FormatCurrency(vnformat.ParseCurrency(first.Cell(schema.Total))),
			ConfirmStatus: DeriveConfirmation(lines),
			PayStatus:     first.Status(schema.Status),
			ManagerNote:   first.Cell(schema.ManagerNote),
		})
	}
	sortByTimestampDesc(list, func(o ManagerOrder) string { return o.Time })
	return list
}

// DetailLine is one staff line of the order detail view.
type DetailLine struct {
	Staff     string `json:"maNV"`
	Shift     string `json:"caLV"`
	UnitPrice int64  `json:"donGia"`
	Amount    int64  `json:"thanhTien"`
}

// Detail is the full manager-side view of one order.
type Detail struct {
	OrderCode string `json:"orderCode"`
	Customer  struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	} `json:"customer"`
	TableNum    string       `json:"tableNum"`
	Note        string       `json:"ghiChu"`
	Total       int64        `json:"tongCong"`
	Discount    int64        `json:"giamGia"`
	Net         int64        `json:"tongThu"`
	ManagerNote string       `json:"noteQuanLy"`
	Print       string       `json:"inBill"`
	PayStatus   string       `json:"trangThai"`
	Review      string       `json:"danhGia"`
	Points      string       `json:"diemDanhGia"`
	Lines       []DetailLine `json:"nhanVien"`
}

// DetailOf builds the detail view from one order's group. Aggregate
// fields come exclusively from the first row.
func DetailOf(id string, group []Row, schema ColumnSchema) Detail {
	first := group[0]
	d := Detail{
		OrderCode:   id,
		TableNum:    first.Cell(schema.Table),
		Note:        first.Cell(schema.Note),
		Total:       vnformat.ParseCurrency(first.Cell(schema.Total)),
		Discount:    vnformat.ParseCurrency(first.Cell(schema.Discount)),
		Net:         vnformat.ParseCurrency(first.Cell(schema.Net)),
		ManagerNote: first.Cell(schema.ManagerNote),
		Print:       first.Cell(schema.Print),
		PayStatus:   PaymentStatus(StaffLines(group, schema)),
		Review:      first.Cell(schema.Review),
		Points:      first.Cell(schema.Points),
	}
	d.Customer.Name = first.Cell(schema.Customer)
	d.Customer.Phone = first.Cell(schema.Phone)
	d.Customer.Email = first.Cell(schema.Email)

	d.Lines = make([]DetailLine, len(group))
	for i, row := range group {
		d.Lines[i] = DetailLine{
			Staff:     vnformat.CleanText(row.Cell(schema.Staff)),
			Shift:     vnformat.CleanText(row.Cell(schema.Shift)),
			UnitPrice: vnformat.ParseCurrency(row.Cell(schema.UnitPrice)),
			Amount:    vnformat.ParseCurrency(row.Cell(schema.Amount)),
		}
	}
	return d
}

// HistoryLine is one staff line of a customer's past order.
type HistoryLine struct {
	Code  string `json:"code"`
	Shift string `json:"shift"`
	Stars int    `json:"stars"`
}

// HistoryOrder is one paid order in the customer history view.
type HistoryOrder struct {
	OrderCode    string        `json:"orderId"`
	Time         string        `json:"time"`
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email"`
	TableNum     string        `json:"table"`
	Total        int64         `json:"total"`
	Reviewed     bool          `json:"reviewed"`
	Status       string        `json:"status"`
	Point        int64         `json:"point"`
	StaffCodes   []string      `json:"staffCodes"`
	StaffList    []HistoryLine `json:"staffList"`
	ReviewButton string        `json:"reviewButton"`
	Locked       bool          `json:"locked"`
}

// History collects a customer's paid orders by phone number. Phone
// matching is digits-only on both sides; this one comparison is
// case-insensitive on the paid literal, matching how the sheet was
// filled in before the vocabulary settled.
func History(rows []Row, schema ColumnSchema, phone string) ([]HistoryOrder, int64) {
	wanted := digitsOnly(phone)
	byID := make(map[string]*HistoryOrder)
	var order []string

	for _, row := range rows {
		if digitsOnly(row.Cell(schema.Phone)) != wanted {
			continue
		}
		if !strings.EqualFold(row.Status(schema.Status), StatusPaid) {
			continue
		}

		id := vnformat.CleanText(row.Cell(schema.OrderID))
		if id == "" {
			id = "undefined"
		}
		h, ok := byID[id]
		if !ok {
			reviewed := row.Status(schema.Review) == StatusReviewed
			h = &HistoryOrder{
				OrderCode: id,
				Time:      row.Cell(schema.Timestamp),
				Name:      row.Cell(schema.Customer),
				Phone:     row.Cell(schema.Phone),
				Email:     row.Cell(schema.Email),
				TableNum:  row.Cell(schema.Table),
				Total:     vnformat.ParseCurrency(row.Cell(schema.Total)),
				Reviewed:  reviewed,
				Locked:    reviewed,
			}
			if reviewed {
				h.Status = StatusReviewed
				h.Point = vnformat.ParseCurrency(row.Cell(schema.Points))
				h.ReviewButton = StatusReviewed
			} else {
				h.ReviewButton = "Đánh giá"
			}
			byID[id] = h
			order = append(order, id)
		}

		if code := vnformat.CleanText(row.Cell(schema.Staff)); code != "" {
			h.StaffCodes = append(h.StaffCodes, code)
			h.StaffList = append(h.StaffList, HistoryLine{
				Code:  code,
				Shift: vnformat.CleanText(row.Cell(schema.Shift)),
				Stars: 5,
			})
		}
	}

	list := make([]HistoryOrder, 0, len(order))
	var totalPoint int64
	for _, id := range order {
		list = append(list, *byID[id])
		totalPoint += byID[id].Point
	}
	sortByTimestampDesc(list, func(h HistoryOrder) string { return h.Time })
	return list, totalPoint
}

// Paginate slices one page out of a list, 1-based.
func Paginate[T any](list []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	start := (page - 1) * limit
	if start >= len(list) {
		return []T{}
	}
	end := start + limit
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

func sortByTimestampDesc[T any](list []T, timestamp func(T) string) {
	sort.SliceStable(list, func(i, j int) bool {
		return vnformat.ParseTimestamp(timestamp(list[i])).
			After(vnformat.ParseTimestamp(timestamp(list[j])))
	})
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
