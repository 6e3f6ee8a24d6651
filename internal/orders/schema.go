// Package orders is the core of the ordering system: grouping flat
// spreadsheet rows into orders, deriving confirmation/payment/review
// state from marker cells, and planning reconciliation writes.
package orders

// Sheet names inside the backing spreadsheet.
const (
	OrdersSheet   = "Orders"
	ProductsSheet = "Products"
	ReviewSheet   = "KHđánh giá"
	ReportSheet   = "THONGKE"
	CounterSheet  = "COUNTER"
	RecipientsTab = "IDDISCORD"
)

// Status vocabulary. These are wire values understood by the sheet and
// by human operators; comparisons are case-sensitive exact matches and
// the non-ASCII literals must stay byte-for-byte as they are.
const (
	MarkerAgreed    = "V"
	MarkerCancelled = "X"
	MarkerDeclined  = "Không tham gia"

	StatusPaid      = "Đã thanh toán"
	StatusCancelled = "Hủy đơn hàng"
	StatusReviewed  = "Đã đánh giá"
)

// Staff availability vocabulary on the Products sheet.
const (
	StaffWorking  = "Làm việc"
	StaffResigned = "Nghỉ việc"
	StaffOnLeave  = "Nghỉ phép"
	StaffBusy     = "Đang bận"
	StaffFull     = "Đã full"
)

// ColumnSchema maps symbolic order fields to 0-based column indexes for
// one version of the Orders sheet layout. Indexes are never hardcoded
// at use sites; a layout migration touches only the definitions below.
//
// A value of -1 means the column does not exist in that version.
type ColumnSchema struct {
	Version int

	Timestamp int
	OrderID   int
	Customer  int
	Phone     int
	Email     int
	Staff     int
	Shift     int
	UnitPrice int
	Amount    int

	// Order-level fields, populated on a block's first row only.
	Total    int
	Discount int
	Net      int

	Table int
	Note  int

	// Markers holds the repeated participation marker columns, primary
	// first. Older layouts carried fewer marker columns; the derivation
	// rules are written against the set, not against fixed offsets.
	Markers []int

	// Status is the shared payment/cancellation status cell.
	Status int

	Review      int
	Points      int
	ManagerNote int
	Print       int

	// Width is the number of columns a freshly built row must span.
	Width int

	// ReadRange is the A1 range covering the populated area.
	ReadRange string
}

// SchemaCurrent is the live Orders layout (columns A..U). It grew out
// of SchemaLegacy by inserting the Discount and Net columns at K and L,
// shifting everything after them right by two.
var SchemaCurrent = ColumnSchema{
	Version:     3,
	Timestamp:   0,
	OrderID:     1,
	Customer:    2,
	Phone:       3,
	Email:       4,
	Staff:       5,
	Shift:       6,
	UnitPrice:   7,
	Amount:      8,
	Total:       9,
	Discount:    10,
	Net:         11,
	Table:       12,
	Note:        13,
	Markers:     []int{14, 15},
	Status:      16,
	Review:      17,
	Points:      18,
	ManagerNote: 19,
	Print:       20,
	Width:       21,
	ReadRange:   OrdersSheet + "!A2:U3000",
}

// SchemaLegacy is the pre-migration layout without the Discount/Net
// columns. The customer history endpoint still reads it; the two
// layouts are pinned per endpoint and never mixed in one table.
var SchemaLegacy = ColumnSchema{
	Version:     2,
	Timestamp:   0,
	OrderID:     1,
	Customer:    2,
	Phone:       3,
	Email:       4,
	Staff:       5,
	Shift:       6,
	UnitPrice:   7,
	Amount:      8,
	Total:       9,
	Discount:    -1,
	Net:         -1,
	Table:       10,
	Note:        11,
	Markers:     []int{12, 13},
	Status:      14,
	Review:      15,
	Points:      16,
	ManagerNote: -1,
	Print:       -1,
	Width:       17,
	ReadRange:   OrdersSheet + "!A2:R3000",
}

// Products sheet columns (A..H).
const (
	ProductColID     = 0
	ProductColStaff  = 1
	ProductColShift  = 2
	ProductColPrice  = 3
	ProductColPhoto  = 4
	ProductColStatus = 5
	ProductColBusy   = 6
	ProductColFull   = 7
)

// ProductsReadRange covers the populated Products area, header excluded.
const ProductsReadRange = ProductsSheet + "!A2:H201"

// CounterRange holds the [day, counter] pair backing order codes.
const CounterRange = CounterSheet + "!A1:B1"

// RecipientsRange maps staff codes to chat recipient ids.
const RecipientsRange = RecipientsTab + "!A2:B"
