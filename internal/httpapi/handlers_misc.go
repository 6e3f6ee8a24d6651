package httpapi

import (
	"context"
	"net/http"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/cache"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/orders"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"
)

type reviewRequest struct {
	Order struct {
		OrderID flexString `json:"orderId"`
		Name    string     `json:"name"`
		Phone   flexString `json:"phone"`
		Email   string     `json:"email"`
		Table   flexString `json:"table"`
		Point   flexInt    `json:"point"`
	} `json:"order"`
	StaffReviews []struct {
		Code  string     `json:"code"`
		Shift flexString `json:"shift"`
		Stars flexInt    `json:"stars"`
	} `json:"staffReviews"`
	ServiceStars flexInt    `json:"serviceStars"`
	Speed        flexString `json:"speed"`
	Comment      string     `json:"comment"`
}

// handleSubmitReview appends the customer's review rows and stamps the
// order as reviewed. Bonus points land on the first row only, both on
// the review sheet and on the order.
func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Order.OrderID == "" || len(req.StaffReviews) == 0 {
		writeError(w, http.StatusBadRequest, "Missing payload")
		return
	}
	ctx := r.Context()
	code := req.Order.OrderID.String()

	points := req.Order.Point.Int64()
	if points == 0 {
		points = 10
	}

	now := vnformat.FormatTimestamp(vnformat.Now())
	reviewRows := make([][]interface{}, len(req.StaffReviews))
	for i, nv := range req.StaffReviews {
		row := []interface{}{
			now,
			code,
			req.Order.Name,
			req.Order.Phone.String(),
			req.Order.Email,
			req.Order.Table.String(),
			nv.Code,
			nv.Shift.String(),
			nv.Stars.Int64(),
			req.ServiceStars.Int64(),
			req.Speed.String(),
			req.Comment,
			"",
		}
		if i == 0 {
			row[len(row)-1] = points
		}
		reviewRows[i] = row
	}

	if err := s.repo.AppendReviews(ctx, reviewRows); err != nil {
		serverError(w, err, "Failed to append review rows")
		return
	}

	rows, err := s.repo.OrderRows(ctx)
	if err != nil {
		serverError(w, err, "Failed to read orders")
		return
	}
	if loc, ok := orders.Locate(rows, orders.SchemaCurrent, code); ok {
		if err := s.repo.MarkReviewed(ctx, loc, points); err != nil {
			serverError(w, err, "Failed to mark order reviewed")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cards, err := s.productCache.Get(cache.Singleton, func() ([]orders.StaffCard, error) {
		rows, err := s.repo.ProductRows(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return orders.StaffCards(rows), nil
	})
	if err != nil {
		serverError(w, err, "Failed to load products")
		return
	}
	if cards == nil {
		cards = []orders.StaffCard{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": cards})
}

func (s *Server) handleReportRows(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rows, err := s.reportCache.Get(cache.Singleton, func() ([]orders.Row, error) {
		return s.repo.ReportRows(context.WithoutCancel(ctx))
	})
	if err != nil {
		serverError(w, err, "Failed to load report rows")
		return
	}
	if rows == nil {
		rows = []orders.Row{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
}

// handleReportDay computes the revenue report for one dd/mm/yyyy day
// straight off the Orders rows.
func (s *Server) handleReportDay(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("date")
	if day == "" {
		day = vnformat.DateOf(vnformat.FormatTimestamp(vnformat.Now()))
	}

	rows, err := s.repo.OrderRows(r.Context())
	if err != nil {
		serverError(w, err, "Failed to read orders")
		return
	}

	report := orders.FilterDay(rows, orders.SchemaCurrent, day)
	if report.Rows == nil {
		report.Rows = []orders.Row{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":  day,
		"rows":  report.Rows,
		"total": report.Total,
	})
}
