package httpapi

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/cache"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/notify"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/orders"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"
)

func (s *Server) handleManagerOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := s.repo.OrderRows(r.Context())
	if err != nil {
		serverError(w, err, "Failed to read orders")
		return
	}
	groups := orders.GroupRows(rows, orders.SchemaCurrent.OrderID)
	list := orders.ManagerOrders(groups, orders.SchemaCurrent)
	if list == nil {
		list = []orders.ManagerOrder{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": list})
}

type managerSaveRequest struct {
	OrderID   flexString `json:"orderId"`
	StaffList []struct {
		MaNV      string     `json:"maNV"`
		CaLV      flexString `json:"caLV"`
		DonGia    flexInt    `json:"donGia"`
		TrangThai string     `json:"trangThai"`
	} `json:"staffList"`
	GhiChu   string     `json:"ghiChu"`
	TongCong flexInt    `json:"tongcong"`
	Name     string     `json:"name"`
	Phone    flexString `json:"phone"`
	Email    string     `json:"email"`
	Table    flexString `json:"table"`
	Note     string     `json:"note"`
}

// handleManagerSave persists the manager's per-line decisions by
// rewriting the order's row block, then fans the outcome out to staff
// and customer.
func (s *Server) handleManagerSave(w http.ResponseWriter, r *http.Request) {
	var req managerSaveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OrderID == "" || len(req.StaffList) == 0 {
		writeError(w, http.StatusBadRequest, "Thiếu thông tin đơn hàng hoặc danh sách nhân viên")
		return
	}
	ctx := r.Context()
	code := req.OrderID.String()

	rows, err := s.repo.OrderRows(ctx)
	if err != nil {
		serverError(w, err, "Failed to read orders")
		return
	}
	loc, found := orders.Locate(rows, orders.SchemaCurrent, code)

	// The discount was set on the order screen; the manager's decision
	// rewrite must not lose it.
	var oldDiscount int64
	if found {
		oldDiscount = vnformat.ParseCurrency(loc.Group[0].Cell(orders.SchemaCurrent.Discount))
	}

	markerCount := len(orders.SchemaCurrent.Markers)
	total := req.TongCong.Int64()
	lines := make([]orders.BlockLine, len(req.StaffList))
	staffCodes := make([]string, 0, len(req.StaffList))
	msgLines := make([]notify.MessageLine, len(req.StaffList))
	allCancelled := true
	var msgTotal int64
	for i, st := range req.StaffList {
		state := orders.LineState(st.TrangThai)
		if state != orders.LineCancel {
			allCancelled = false
		}
		lines[i] = orders.LineForState(st.MaNV, st.CaLV.String(), st.DonGia.Int64(), state, markerCount)
		if st.MaNV != "" {
			staffCodes = append(staffCodes, st.MaNV)
		}
		msgLines[i] = notify.MessageLine{
			Staff:     st.MaNV,
			Shift:     st.CaLV.String(),
			UnitPrice: st.DonGia.Int64(),
			State:     st.TrangThai,
		}
		msgTotal += st.DonGia.Int64()
	}

	timestamp := vnformat.FormatTimestamp(vnformat.Now())
	block := orders.BuildBlock(orders.SchemaCurrent, orders.BlockHeader{
		Timestamp:   timestamp,
		OrderID:     code,
		Customer:    req.Name,
		Phone:       req.Phone.String(),
		Email:       req.Email,
		Table:       req.Table.String(),
		Note:        req.Note,
		ManagerNote: req.GhiChu,
	}, lines, orders.BlockAggregates{
		Total:    total,
		Discount: oldDiscount,
		Net:      total - oldDiscount,
	})

	if found {
		err = s.repo.ReplaceOrder(ctx, loc, block)
	} else {
		err = s.repo.AppendOrder(ctx, block)
	}
	if err != nil {
		serverError(w, err, "Failed to save manager decision")
		return
	}

	s.listCache.Invalidate(cache.Singleton)
	s.billCache.Invalidate(code)

	recipients, err := s.recipientCache.Get(cache.Singleton, func() (map[string]string, error) {
		return s.repo.Recipients(context.WithoutCancel(ctx))
	})
	if err != nil {
		// The decision is already saved; notify what we can.
		log.Error().Err(err).Msg("Failed to load notification recipients")
		recipients = map[string]string{}
	}

	base := notify.OrderMessage{
		Time:        timestamp,
		OrderCode:   code,
		Name:        req.Name,
		Phone:       req.Phone.String(),
		Email:       req.Email,
		Table:       req.Table.String(),
		Note:        req.Note,
		ManagerNote: req.GhiChu,
		Lines:       msgLines,
		Total:       msgTotal,
	}
	msg := notify.DecisionMessage(base, allCancelled)
	s.notifier.OrderDecided(ctx, msg, staffCodes, recipients, allCancelled)

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handleManagerProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := s.repo.ProductRows(r.Context())
	if err != nil {
		serverError(w, err, "Failed to read products")
		return
	}
	includeAll := r.URL.Query().Get("all") == "1"
	list := orders.ProductOptions(rows, includeAll)
	if list == nil {
		list = []orders.ProductOption{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": list})
}
