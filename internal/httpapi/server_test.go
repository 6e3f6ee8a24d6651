package httpapi

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/app"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/notify"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/orders"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/retry"
)

// memStore is an in-memory spreadsheet standing in for sheets.Client.
// It understands just enough A1 addressing for the repository's
// traffic.
type memStore struct {
	mu         sync.Mutex
	orders     [][]interface{} // data rows, sheet rows 2..
	products   [][]interface{}
	counter    []interface{} // [day, count]
	recipients [][]interface{}
	reviews    [][]interface{}
	reports    [][]interface{}

	getCalls    map[string]int
	deleteCalls int
}

func newMemStore() *memStore {
	return &memStore{getCalls: make(map[string]int)}
}

func sheetOf(range_ string) string {
	return strings.SplitN(range_, "!", 2)[0]
}

// parseCell splits "Q3" into column index 16 and sheet row 3.
func parseCell(cell string) (col int, row int) {
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		col = col*26 + int(cell[i]-'A') + 1
		i++
	}
	row, _ = strconv.Atoi(cell[i:])
	return col - 1, row
}

func (m *memStore) Get(_ context.Context, range_ string) ([][]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls[sheetOf(range_)]++
	switch sheetOf(range_) {
	case orders.OrdersSheet:
		return append([][]interface{}(nil), m.orders...), nil
	case orders.ProductsSheet:
		return append([][]interface{}(nil), m.products...), nil
	case orders.CounterSheet:
		if m.counter == nil {
			return nil, nil
		}
		return [][]interface{}{m.counter}, nil
	case orders.RecipientsTab:
		return append([][]interface{}(nil), m.recipients...), nil
	case orders.ReportSheet:
		return append([][]interface{}(nil), m.reports...), nil
	}
	return nil, nil
}

func (m *memStore) Append(_ context.Context, range_ string, rows [][]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch sheetOf(range_) {
	case orders.OrdersSheet:
		m.orders = append(m.orders, rows...)
	case orders.ReviewSheet:
		m.reviews = append(m.reviews, rows...)
	}
	return nil
}

func (m *memStore) Update(_ context.Context, range_ string, values [][]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sheetOf(range_) == orders.CounterSheet {
		m.counter = values[0]
	}
	return nil
}

func (m *memStore) BatchUpdate(_ context.Context, data map[string][][]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for range_, values := range data {
		if sheetOf(range_) != orders.OrdersSheet {
			continue
		}
		ref := strings.SplitN(range_, "!", 2)[1]
		start := strings.SplitN(ref, ":", 2)[0]
		col, sheetRow := parseCell(start)
		idx := sheetRow - 2 // data rows start at sheet row 2
		if idx < 0 || idx >= len(m.orders) {
			continue
		}
		if strings.Contains(ref, ":") {
			m.orders[idx] = values[0]
			continue
		}
		row := m.orders[idx]
		for len(row) <= col {
			row = append(row, "")
		}
		row[col] = values[0][0]
		m.orders[idx] = row
	}
	return nil
}

func (m *memStore) DeleteRows(_ context.Context, sheetName string, ranges [][2]int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sheetName != orders.OrdersSheet || len(ranges) == 0 {
		return nil
	}
	m.deleteCalls++
	var kept [][]interface{}
	for i, row := range m.orders {
		dim := int64(i) + 1 // data row i sits at dimension index i+1
		deleted := false
		for _, r := range ranges {
			if dim >= r[0] && dim < r[1] {
				deleted = true
				break
			}
		}
		if !deleted {
			kept = append(kept, row)
		}
	}
	m.orders = kept
	return nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var testRetryConfig = retry.Config{
	MaxRetries: 0,
	BaseDelay:  time.Millisecond,
	MaxDelay:   time.Millisecond,
	Timeout:    time.Second,
}

func newTestServer(store *memStore) (*Server, *testClock) {
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	repo := orders.NewRepository(store, testRetryConfig)
	notifier := notify.NewNotifier(notify.NewTelegram("", ""), notify.NewMailer("", 0, "", "", false))
	return NewServer(repo, notifier, clock.Now), clock
}

func testRouterConfig() app.Config {
	return app.Config{Port: "0"}
}
