package orders

import (
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"
)

// ShiftOffer is one staff/shift offer on the Products sheet.
type ShiftOffer struct {
	Shift     string `json:"caLV"`
	UnitPrice int64  `json:"donGia"`
	Status    string `json:"trangThai"`
	Busy      string `json:"dangBan"`
	Full      string `json:"daFull"`
}

// Available reports whether the offer can be put on a new order: the
// staff member works here, is not marked busy, and the shift is not full.
func (o ShiftOffer) Available() bool {
	return o.Status == StaffWorking && o.Busy != StaffBusy && o.Full != StaffFull
}

// StaffCard groups one staff member's shifts for the product picker.
type StaffCard struct {
	Staff   string       `json:"maNV"`
	Photo   string       `json:"linkAnhNV"`
	Shifts  []ShiftOffer `json:"caList"`
	AllFull bool         `json:"allCaFull"`
}

// StaffCards folds the flat Products rows into one card per staff code,
// keeping first-seen order. Resigned and on-leave staff are dropped
// entirely; a card whose every remaining shift is full or busy is kept
// but flagged so the picker can grey it out.
func StaffCards(rows []Row) []StaffCard {
	byStaff := make(map[string]*StaffCard)
	var order []string

	for _, row := range rows {
		staff := vnformat.CleanText(row.Cell(ProductColStaff))
		if staff == "" {
			continue
		}
		status := vnformat.CleanText(row.Cell(ProductColStatus))
		if status == StaffResigned || status == StaffOnLeave {
			continue
		}

		card, ok := byStaff[staff]
		if !ok {
			card = &StaffCard{
				Staff: staff,
				Photo: vnformat.CleanText(row.Cell(ProductColPhoto)),
			}
			byStaff[staff] = card
			order = append(order, staff)
		}
		if card.Photo == "" {
			card.Photo = vnformat.CleanText(row.Cell(ProductColPhoto))
		}

		card.Shifts = append(card.Shifts, ShiftOffer{
			Shift:     vnformat.CleanText(row.Cell(ProductColShift)),
			UnitPrice: vnformat.ParseCurrency(row.Cell(ProductColPrice)),
			Status:    status,
			Busy:      vnformat.CleanText(row.Cell(ProductColBusy)),
			Full:      vnformat.CleanText(row.Cell(ProductColFull)),
		})
	}

	cards := make([]StaffCard, 0, len(order))
	for _, staff := range order {
		card := byStaff[staff]
		card.AllFull = true
		for _, s := range card.Shifts {
			if s.Available() {
				card.AllFull = false
				break
			}
		}
		cards = append(cards, *card)
	}
	return cards
}

// ProductOption is one staff/shift offer in the manager's flat list.
type ProductOption struct {
	Staff      string `json:"maNV"`
	Shift      string `json:"caLV"`
	UnitPrice  int64  `json:"donGia"`
	Status     string `json:"status"`
	LockStatus string `json:"lockStatus"`
}

// ProductOptions flattens the Products rows for the manager screen.
// Unless includeAll is set, only working staff without a busy lock are
// returned.
func ProductOptions(rows []Row, includeAll bool) []ProductOption {
	var options []ProductOption
	for _, row := range rows {
		status := vnformat.CleanText(row.Cell(ProductColStatus))
		busy := vnformat.CleanText(row.Cell(ProductColBusy))
		if !includeAll && (status != StaffWorking || busy != "") {
			continue
		}
		options = append(options, ProductOption{
			Staff:      vnformat.CleanText(row.Cell(ProductColStaff)),
			Shift:      vnformat.CleanText(row.Cell(ProductColShift)),
			UnitPrice:  vnformat.ParseCurrency(row.Cell(ProductColPrice)),
			Status:     status,
			LockStatus: busy,
		})
	}
	return options
}

// OfferRow is one staff/shift offer as the order detail screen shows
// it, with the availability cells exposed raw.
type OfferRow struct {
	Staff     string `json:"maNV"`
	Shift     string `json:"caLV"`
	UnitPrice int64  `json:"donGia"`
	Lock      string `json:"lockStatus"`
	Busy      string `json:"isBusy"`
}

// OfferRows flattens every Products row.
func OfferRows(rows []Row) []OfferRow {
	offers := make([]OfferRow, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, OfferRow{
			Staff:     vnformat.CleanText(row.Cell(ProductColStaff)),
			Shift:     vnformat.CleanText(row.Cell(ProductColShift)),
			UnitPrice: vnformat.ParseCurrency(row.Cell(ProductColPrice)),
			Lock:      vnformat.CleanText(row.Cell(ProductColStatus)),
			Busy:      vnformat.CleanText(row.Cell(ProductColBusy)),
		})
	}
	return offers
}

// AvailableOfferRows keeps only offers an order can still be edited
// onto: named staff, not resigned or on leave, not busy.
func AvailableOfferRows(rows []Row) []OfferRow {
	var offers []OfferRow
	for _, offer := range OfferRows(rows) {
		if offer.Staff == "" || offer.Lock == StaffResigned || offer.Lock == StaffOnLeave || offer.Busy == StaffBusy {
			continue
		}
		offers = append(offers, offer)
	}
	return offers
}

// PriceOf looks up the unit price for a staff/shift pair on the
// Products rows. The second return is false when the pair is unknown.
func PriceOf(rows []Row, staff, shift string) (int64, bool) {
	for _, row := range rows {
		if vnformat.CleanText(row.Cell(ProductColStaff)) == staff &&
			vnformat.CleanText(row.Cell(ProductColShift)) == shift {
			return vnformat.ParseCurrency(row.Cell(ProductColPrice)), true
		}
	}
	return 0, false
}
