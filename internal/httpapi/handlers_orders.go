package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/cache"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/notify"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/orders"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"
)

type submitOrderRequest struct {
	Name     string     `json:"name"`
	Phone    flexString `json:"phone"`
	Contact  string     `json:"contact"`
	TableNum flexString `json:"tableNum"`
	Note     string     `json:"note"`
	Items    []struct {
		MaNV   string     `json:"maNV"`
		CaLV   flexString `json:"caLV"`
		DonGia flexInt    `json:"donGia"`
	} `json:"items"`
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Phone == "" || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Thiếu thông tin đơn hàng")
		return
	}
	ctx := r.Context()

	// Cache loads are shared with co-waiting requests and must not die
	// with the request that happened to trigger them.
	recipients, err := s.recipientCache.Get(cache.Singleton, func() (map[string]string, error) {
		return s.repo.Recipients(context.WithoutCancel(ctx))
	})
	if err != nil {
		serverError(w, err, "Failed to load notification recipients")
		return
	}

	orderCode, err := s.repo.NextOrderCode(ctx, req.TableNum.String())
	if err != nil {
		serverError(w, err, "Failed to generate order code")
		return
	}

	timestamp := vnformat.FormatTimestamp(vnformat.Now())
	markerCount := len(orders.SchemaCurrent.Markers)

	var total int64
	lines := make([]orders.BlockLine, len(req.Items))
	staffCodes := make([]string, len(req.Items))
	msgLines := make([]notify.MessageLine, len(req.Items))
	for i, it := range req.Items {
		price := it.DonGia.Int64()
		total += price

		// A fresh line carries the primary marker only; staff responses
		// fill the rest in later.
		markers := make([]string, markerCount)
		markers[0] = orders.MarkerAgreed
		lines[i] = orders.BlockLine{
			Staff:     it.MaNV,
			Shift:     it.CaLV.String(),
			UnitPrice: price,
			Amount:    price,
			Markers:   markers,
		}
		staffCodes[i] = it.MaNV
		msgLines[i] = notify.MessageLine{Staff: it.MaNV, Shift: it.CaLV.String(), UnitPrice: price}
	}

	block := orders.BuildBlock(orders.SchemaCurrent, orders.BlockHeader{
		Timestamp: timestamp,
		OrderID:   orderCode,
		Customer:  req.Name,
		Phone:     req.Phone.String(),
		Email:     req.Contact,
		Table:     req.TableNum.String(),
		Note:      req.Note,
	}, lines, orders.BlockAggregates{Total: total, Net: total})

	if err := s.repo.AppendOrder(ctx, block); err != nil {
		serverError(w, err, "Failed to append order rows")
		return
	}
	s.listCache.Invalidate(cache.Singleton)

	msg := notify.NewOrderMessage(timestamp, orderCode, req.Name, req.Phone.String(),
		req.Contact, req.TableNum.String(), req.Note, msgLines, total)
	s.notifier.OrderSubmitted(ctx, msg, staffCodes, recipients)

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "orderCode": orderCode})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 1000
	}
	ctx := r.Context()

	list, err := s.listCache.Get(cache.Singleton, func() ([]orders.Summary, error) {
		rows, err := s.repo.OrderRows(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		groups := orders.GroupRows(rows, orders.SchemaCurrent.OrderID)
		return orders.Summaries(groups, orders.SchemaCurrent), nil
	})
	if err != nil {
		serverError(w, err, "Failed to load order list")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders.Paginate(list, page, limit)})
}

func (s *Server) handleOrderDetail(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	ctx := r.Context()

	rows, err := s.repo.OrderRows(ctx)
	if err != nil {
		serverError(w, err, "Failed to read orders")
		return
	}
	loc, ok := orders.Locate(rows, orders.SchemaCurrent, code)
	if !ok {
		writeError(w, http.StatusNotFound, "Không tìm thấy đơn hàng")
		return
	}

	productRows, err := s.repo.ProductRows(ctx)
	if err != nil {
		serverError(w, err, "Failed to read products")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order":             orders.DetailOf(code, loc.Group, orders.SchemaCurrent),
		"products":          orders.OfferRows(productRows),
		"availableProducts": orders.AvailableOfferRows(productRows),
	})
}

type updateOrderRequest struct {
	Customer struct {
		Name  string     `json:"name"`
		Phone flexString `json:"phone"`
		Email string     `json:"email"`
	} `json:"customer"`
	TableNum flexString `json:"tableNum"`
	GhiChu   string     `json:"ghiChu"`
	NhanVien []struct {
		MaNV      string     `json:"maNV"`
		CaLV      flexString `json:"caLV"`
		DonGia    flexInt    `json:"donGia"`
		ThanhTien flexInt    `json:"thanhTien"`
	} `json:"nhanVien"`
	TongCong   flexInt `json:"tongCong"`
	GiamGia    flexInt `json:"giamGia"`
	TongThu    flexInt `json:"tongThu"`
	NoteQuanLy string  `json:"noteQuanLy"`
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var req updateOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.NhanVien) == 0 {
		writeError(w, http.StatusBadRequest, "Thiếu dữ liệu")
		return
	}
	ctx := r.Context()

	rows, err := s.repo.OrderRows(ctx)
	if err != nil {
		serverError(w, err, "Failed to read orders")
		return
	}
	loc, found := orders.Locate(rows, orders.SchemaCurrent, code)

	// Review, points, print and payment status survive an edit; the
	// customer's review must not vanish because the manager touched
	// the staff list.
	var agg orders.BlockAggregates
	statusByKey := make(map[orders.LineKey]string)
	if found {
		first := loc.Group[0]
		agg.Review = first.Cell(orders.SchemaCurrent.Review)
		agg.Points = first.Cell(orders.SchemaCurrent.Points)
		agg.Print = first.Cell(orders.SchemaCurrent.Print)
		for _, row := range loc.Group {
			line := orders.StaffLineOf(row, orders.SchemaCurrent)
			statusByKey[line.Key()] = line.Status
		}
	}
	agg.Total = req.TongCong.Int64()
	agg.Discount = req.GiamGia.Int64()
	agg.Net = req.TongThu.Int64()

	markerCount := len(orders.SchemaCurrent.Markers)
	requested := make([]orders.LineKey, len(req.NhanVien))
	reqLines := make([]orders.BlockLine, len(req.NhanVien))
	for i, nv := range req.NhanVien {
		key := orders.LineKey{Staff: nv.MaNV, Shift: nv.CaLV.String()}
		requested[i] = key

		markers := make([]string, markerCount)
		for m := range markers {
			markers[m] = orders.MarkerAgreed
		}
		reqLines[i] = orders.BlockLine{
			Staff:     nv.MaNV,
			Shift:     nv.CaLV.String(),
			UnitPrice: nv.DonGia.Int64(),
			Amount:    nv.ThanhTien.Int64(),
			Markers:   markers,
			Status:    statusByKey[key],
		}
	}

	header := orders.BlockHeader{
		Timestamp:   vnformat.FormatTimestamp(vnformat.Now()),
		OrderID:     code,
		Customer:    req.Customer.Name,
		Phone:       req.Customer.Phone.String(),
		Email:       req.Customer.Email,
		Table:       req.TableNum.String(),
		Note:        req.GhiChu,
		ManagerNote: req.NoteQuanLy,
	}

	path := orders.DeleteAndAppend
	if found {
		path = orders.ChoosePath(orders.KeysOf(loc.Group, orders.SchemaCurrent), requested)
	}

	switch path {
	case orders.UpdateInPlace:
		// Align replacement lines to the stored row order so each cell
		// lands back on its own row. An order may carry the same staff
		// and shift twice at different prices; equal keys pair up by
		// position, which ChoosePath's multiset check guarantees works.
		pending := make(map[orders.LineKey][]orders.BlockLine, len(requested))
		for i, key := range requested {
			pending[key] = append(pending[key], reqLines[i])
		}
		lines := make([]orders.BlockLine, 0, len(loc.Group))
		for i, key := range orders.KeysOf(loc.Group, orders.SchemaCurrent) {
			line := pending[key][0]
			pending[key] = pending[key][1:]
			// Each row keeps the payment status it already carried.
			line.Status = orders.StaffLineOf(loc.Group[i], orders.SchemaCurrent).Status
			lines = append(lines, line)
		}
		block := orders.BuildBlock(orders.SchemaCurrent, header, lines, agg)
		err = s.repo.UpdateOrderInPlace(ctx, loc, block)
	default:
		block := orders.BuildBlock(orders.SchemaCurrent, header, reqLines, agg)
		err = s.repo.ReplaceOrder(ctx, loc, block)
	}
	if err != nil {
		serverError(w, err, "Failed to write order update")
		return
	}

	s.listCache.Invalidate(cache.Singleton)
	s.billCache.Invalidate(code)

	// Re-read so the client gets the post-write list and bill in one
	// round trip.
	rowsAfter, err := s.repo.OrderRows(ctx)
	if err != nil {
		serverError(w, err, "Failed to re-read orders")
		return
	}
	groups := orders.GroupRows(rowsAfter, orders.SchemaCurrent.OrderID)
	var bill []orders.BillLine
	if group := groups.Get(code); len(group) > 0 {
		bill = orders.ComposeBill(group, orders.SchemaCurrent)
	}
	if bill == nil {
		bill = []orders.BillLine{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  orders.Summaries(groups, orders.SchemaCurrent),
		"bill":    bill,
	})
}

type searchOrdersRequest struct {
	Phone flexString `json:"phone"`
}

func (s *Server) handleSearchOrders(w http.ResponseWriter, r *http.Request) {
	var req searchOrdersRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Phone == "" {
		writeError(w, http.StatusBadRequest, "Missing phone number")
		return
	}

	rows, err := s.repo.LegacyRows(r.Context())
	if err != nil {
		serverError(w, err, "Failed to read order history")
		return
	}

	list, totalPoint := orders.History(rows, orders.SchemaLegacy, req.Phone.String())
	if list == nil {
		list = []orders.HistoryOrder{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": list, "totalPoint": totalPoint})
}
