// Package sheets wraps the Google Sheets v4 API with the handful of
// range-level operations the order system needs. Column semantics are
// entirely positional and live with the callers; this package only
// moves rows.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client is bound to a single spreadsheet at construction; every range
// argument is sheet-name plus A1-style bounds within it.
type Client struct {
	service       *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// NewClient authenticates with a service-account credentials file.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// NewClientFromServiceAccount authenticates with the email + private
// key env pair. The key may carry literal "\n" sequences when injected
// through the environment; they are unescaped here.
func NewClientFromServiceAccount(ctx context.Context, email, privateKey, spreadsheetID string) (*Client, error) {
	conf := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(strings.ReplaceAll(privateKey, `\n`, "\n")),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	service, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// Get reads every populated row in range_.
func (c *Client) Get(ctx context.Context, range_ string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, range_).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return resp.Values, nil
}

// Append inserts rows after the last populated row of range_'s sheet.
func (c *Client) Append(ctx context.Context, range_ string, rows [][]interface{}) error {
	valueRange := &sheets.ValueRange{Values: rows}

	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, range_, valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}
	return nil
}

// Update overwrites cells in place starting at range_'s top-left corner.
func (c *Client) Update(ctx context.Context, range_ string, values [][]interface{}) error {
	valueRange := &sheets.ValueRange{Values: values}

	_, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, range_, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range: %w", err)
	}
	return nil
}

// BatchUpdate overwrites several disjoint ranges in one API call.
func (c *Client) BatchUpdate(ctx context.Context, data map[string][][]interface{}) error {
	req := &sheets.BatchUpdateValuesRequest{ValueInputOption: "RAW"}
	for range_, values := range data {
		req.Data = append(req.Data, &sheets.ValueRange{Range: range_, Values: values})
	}

	_, err := c.service.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to batch update values: %w", err)
	}
	return nil
}

// DeleteRows physically removes the given half-open row index ranges
// (0-based, header included) from the named sheet. Callers are expected
// to pass minimal contiguous runs; each range becomes one
// deleteDimension request in a single batch.
func (c *Client) DeleteRows(ctx context.Context, sheetName string, ranges [][2]int64) error {
	if len(ranges) == 0 {
		return nil
	}

	sheetID, err := c.SheetID(ctx, sheetName)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{}
	for _, r := range ranges {
		req.Requests = append(req.Requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: r[0],
					EndIndex:   r[1],
				},
			},
		})
	}

	_, err = c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete rows: %w", err)
	}
	return nil
}

// SheetID resolves a sheet name to its numeric id, caching the answer.
// Sheet ids are stable for the life of the spreadsheet.
func (c *Client) SheetID(ctx context.Context, sheetName string) (int64, error) {
	c.mu.Lock()
	if id, ok := c.sheetIDs[sheetName]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	meta, err := c.service.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == sheetName {
			c.mu.Lock()
			c.sheetIDs[sheetName] = s.Properties.SheetId
			c.mu.Unlock()
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", sheetName)
}
