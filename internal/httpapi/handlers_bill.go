package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/cache"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/orders"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"
)

func (s *Server) handleBill(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	ctx := r.Context()

	bill, err := s.billCache.Get(code, func() ([]orders.BillLine, error) {
		rows, err := s.repo.OrderRows(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		loc, ok := orders.Locate(rows, orders.SchemaCurrent, code)
		if !ok {
			return []orders.BillLine{}, nil
		}
		return orders.ComposeBill(loc.Group, orders.SchemaCurrent), nil
	})
	if err != nil {
		serverError(w, err, "Failed to compose bill")
		return
	}
	if len(bill) == 0 {
		// The order may have just been deleted or rewritten; make sure
		// the next call re-reads instead of confirming the empty bill.
		s.billCache.Invalidate(code)
		bill = []orders.BillLine{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bill": bill,
		"now":  vnformat.FormatTimestamp(vnformat.Now()),
	})
}

type markPaidRequest struct {
	Items []struct {
		MaNV string     `json:"maNV"`
		CaLV flexString `json:"caLV"`
	} `json:"items"`
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var req markPaidRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Missing data")
		return
	}
	ctx := r.Context()

	rows, err := s.repo.OrderRows(ctx)
	if err != nil {
		serverError(w, err, "Failed to read orders")
		return
	}
	loc, ok := orders.Locate(rows, orders.SchemaCurrent, code)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"updated": 0})
		return
	}

	keys := make([]orders.LineKey, len(req.Items))
	for i, it := range req.Items {
		keys[i] = orders.LineKey{Staff: it.MaNV, Shift: it.CaLV.String()}
	}

	updated, err := s.repo.MarkPaid(ctx, loc, keys)
	if err != nil {
		serverError(w, err, "Failed to mark order paid")
		return
	}

	s.billCache.Invalidate(code)
	s.listCache.Invalidate(cache.Singleton)

	writeJSON(w, http.StatusOK, map[string]interface{}{"updated": updated})
}
