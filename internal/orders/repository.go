package orders

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/retry"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"
)

// RowStore is the slice of the spreadsheet client the repository needs.
// Narrow on purpose so tests can fake it with a struct of functions.
type RowStore interface {
	Get(ctx context.Context, range_ string) ([][]interface{}, error)
	Append(ctx context.Context, range_ string, rows [][]interface{}) error
	Update(ctx context.Context, range_ string, values [][]interface{}) error
	BatchUpdate(ctx context.Context, data map[string][][]interface{}) error
	DeleteRows(ctx context.Context, sheetName string, ranges [][2]int64) error
}

// Repository executes order reads and writes against the backing
// spreadsheet. Reads go through the retry policy; writes never do,
// because the delete+append path is not idempotent.
type Repository struct {
	store     RowStore
	readRetry retry.Config
}

// NewRepository binds a repository to a row store.
func NewRepository(store RowStore, readRetry retry.Config) *Repository {
	return &Repository{store: store, readRetry: readRetry}
}

func (r *Repository) read(ctx context.Context, range_ string) ([][]interface{}, error) {
	return retry.WithRetry(ctx, r.readRetry, func(ctx context.Context) ([][]interface{}, error) {
		return r.store.Get(ctx, range_)
	})
}

// OrderRows reads the whole populated Orders area fresh. Every
// operation starts from a fresh read; cached rows are only ever used
// by the read-only list endpoints.
func (r *Repository) OrderRows(ctx context.Context) ([]Row, error) {
	raw, err := r.read(ctx, SchemaCurrent.ReadRange)
	if err != nil {
		return nil, err
	}
	return NormalizeRows(raw), nil
}

// LegacyRows reads the Orders area under the pre-migration layout for
// the customer history endpoint.
func (r *Repository) LegacyRows(ctx context.Context) ([]Row, error) {
	raw, err := r.read(ctx, SchemaLegacy.ReadRange)
	if err != nil {
		return nil, err
	}
	return NormalizeRows(raw), nil
}

// ProductRows reads the staff/shift offer rows.
func (r *Repository) ProductRows(ctx context.Context) ([]Row, error) {
	raw, err := r.read(ctx, ProductsReadRange)
	if err != nil {
		return nil, err
	}
	return NormalizeRows(raw), nil
}

// ReportRows reads the raw statistics sheet as-is; the report screen
// owns its column meanings.
func (r *Repository) ReportRows(ctx context.Context) ([]Row, error) {
	raw, err := r.read(ctx, ReportSheet+"!A2:Z")
	if err != nil {
		return nil, err
	}
	return NormalizeRows(raw), nil
}

// Recipients loads the staff-code → chat-id map used by the
// notification fan-out. Rows with either cell blank are skipped.
func (r *Repository) Recipients(ctx context.Context) (map[string]string, error) {
	raw, err := r.read(ctx, RecipientsRange)
	if err != nil {
		return nil, err
	}
	recipients := make(map[string]string, len(raw))
	for _, row := range raw {
		code := vnformat.CleanText(vnformat.Cell(row, 0))
		chatID := vnformat.CleanText(vnformat.Cell(row, 1))
		if code != "" && chatID != "" {
			recipients[code] = chatID
		}
	}
	return recipients, nil
}

// NextOrderCode advances the day counter and returns the new order
// code: the counter value followed by the table number. The counter
// resets whenever the stored day stamp is not today in Vietnam time.
//
// Read-increment-write with no lock: two simultaneous submissions can
// draw the same counter. Accepted; submissions are human-paced.
func (r *Repository) NextOrderCode(ctx context.Context, tableNum string) (string, error) {
	raw, err := r.read(ctx, CounterRange)
	if err != nil {
		return "", fmt.Errorf("failed to read order counter: %w", err)
	}

	today := vnformat.DayStamp(vnformat.Now())
	var counter int64
	if len(raw) > 0 && vnformat.Cell(raw[0], 0) == today {
		counter, _ = strconv.ParseInt(vnformat.Cell(raw[0], 1), 10, 64)
	}
	counter++

	if err := r.store.Update(ctx, CounterRange, [][]interface{}{{today, counter}}); err != nil {
		return "", fmt.Errorf("failed to advance order counter: %w", err)
	}
	return fmt.Sprintf("%d%s", counter, tableNum), nil
}

// AppendOrder appends a freshly built row block after the last
// populated Orders row.
func (r *Repository) AppendOrder(ctx context.Context, block [][]interface{}) error {
	return r.store.Append(ctx, OrdersSheet+"!A1", block)
}

// OrderLocation is one order's rows plus where they physically sit:
// 0-based sheet row indexes (header row included in the base), ready
// for dimension deletes.
type OrderLocation struct {
	OrderCode  string
	Group      []Row
	RowIndexes []int64
}

// Locate finds an order's rows in a freshly read Orders slice. The
// data range starts at sheet row 2, so slice index i sits at dimension
// index i+1. Returns false when no row carries the code.
func Locate(rows []Row, schema ColumnSchema, orderCode string) (OrderLocation, bool) {
	loc := OrderLocation{OrderCode: orderCode}
	for i, row := range rows {
		if vnformat.CleanText(row.Cell(schema.OrderID)) == orderCode {
			loc.Group = append(loc.Group, row)
			loc.RowIndexes = append(loc.RowIndexes, int64(i)+1)
		}
	}
	return loc, len(loc.Group) > 0
}

// ReplaceOrder removes the order's current rows and appends the
// replacement block. The two steps are separate API calls; a failure
// after the delete leaves the order absent until resubmitted, which is
// why callers log the order code before starting.
func (r *Repository) ReplaceOrder(ctx context.Context, loc OrderLocation, block [][]interface{}) error {
	log.Info().
		Str("order_code", loc.OrderCode).
		Int("old_rows", len(loc.RowIndexes)).
		Int("new_rows", len(block)).
		Msg("Replacing order rows")

	if err := r.store.DeleteRows(ctx, OrdersSheet, DeleteRanges(loc.RowIndexes)); err != nil {
		return fmt.Errorf("failed to delete order rows: %w", err)
	}
	if err := r.store.Append(ctx, OrdersSheet+"!A1", block); err != nil {
		return fmt.Errorf("failed to append replacement rows: %w", err)
	}
	return nil
}

// UpdateOrderInPlace overwrites the order's existing rows cell by cell,
// leaving their positions untouched. block must be ordered to match
// loc.RowIndexes; callers align requested lines to the stored ones
// before building it.
func (r *Repository) UpdateOrderInPlace(ctx context.Context, loc OrderLocation, block [][]interface{}) error {
	if len(block) != len(loc.RowIndexes) {
		return fmt.Errorf("in-place update row mismatch: %d rows for %d positions", len(block), len(loc.RowIndexes))
	}

	lastCol := columnName(SchemaCurrent.Width)
	data := make(map[string][][]interface{}, len(block))
	for i, rowValues := range block {
		sheetRow := loc.RowIndexes[i] + 1 // dimension index → 1-based row
		range_ := fmt.Sprintf("%s!A%d:%s%d", OrdersSheet, sheetRow, lastCol, sheetRow)
		data[range_] = [][]interface{}{rowValues}
	}
	return r.store.BatchUpdate(ctx, data)
}

// MarkPaid writes the paid literal into the status cell of the order
// rows whose staff line matches one of keys, returning how many rows
// were marked. Lines outside the set keep their status.
func (r *Repository) MarkPaid(ctx context.Context, loc OrderLocation, keys []LineKey) (int, error) {
	wanted := make(map[LineKey]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	statusCol := columnName(SchemaCurrent.Status + 1)
	data := make(map[string][][]interface{})
	for i, row := range loc.Group {
		if !wanted[StaffLineOf(row, SchemaCurrent).Key()] {
			continue
		}
		sheetRow := loc.RowIndexes[i] + 1
		range_ := fmt.Sprintf("%s!%s%d", OrdersSheet, statusCol, sheetRow)
		data[range_] = [][]interface{}{{StatusPaid}}
	}
	if len(data) == 0 {
		return 0, nil
	}
	if err := r.store.BatchUpdate(ctx, data); err != nil {
		return 0, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return len(data), nil
}

// MarkReviewed stamps the review literal on every row of the order and
// the bonus points on the first row only, keeping the first-row
// aggregate convention.
func (r *Repository) MarkReviewed(ctx context.Context, loc OrderLocation, points int64) error {
	reviewCol := columnName(SchemaCurrent.Review + 1)
	pointsCol := columnName(SchemaCurrent.Points + 1)

	data := make(map[string][][]interface{})
	for i := range loc.Group {
		sheetRow := loc.RowIndexes[i] + 1
		data[fmt.Sprintf("%s!%s%d", OrdersSheet, reviewCol, sheetRow)] = [][]interface{}{{StatusReviewed}}
		if i == 0 {
			data[fmt.Sprintf("%s!%s%d", OrdersSheet, pointsCol, sheetRow)] = [][]interface{}{{points}}
		}
	}
	if err := r.store.BatchUpdate(ctx, data); err != nil {
		return fmt.Errorf("failed to mark order reviewed: %w", err)
	}
	return nil
}

// AppendReviews adds customer review rows to the review sheet. The
// sheet's first five rows are a decorated header block, so rows land
// from A6 down.
func (r *Repository) AppendReviews(ctx context.Context, rows [][]interface{}) error {
	return r.store.Append(ctx, ReviewSheet+"!A6", rows)
}

// columnName converts a 1-based column number to its A1 letter form.
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
