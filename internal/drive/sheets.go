package drive

import (
	"context"
	"fmt"

	"github.com/storeops/replenish-backend/internal/sheet"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetSource reads vendor data published as a Google Sheet instead of a
// workbook attachment. Same service-account credentials as the Drive client.
type SheetSource struct {
	srv *sheets.Service
}

func NewSheetSource(credentialsJSON string) (*SheetSource, error) {
	config, err := google.JWTConfigFromJSON(
		[]byte(credentialsJSON),
		sheets.SpreadsheetsReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %v", err)
	}

	client := config.Client(context.Background())

	srv, err := sheets.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Sheets client: %v", err)
	}

	return &SheetSource{srv: srv}, nil
}

// FetchRows reads a range (first row is the header row) into parsed rows.
func (s *SheetSource) FetchRows(ctx context.Context, spreadsheetID, readRange string) ([]sheet.Row, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	resp, err := s.srv.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to fetch sheet values: %v", err)
	}

	return sheet.RowsFromTable(resp.Values), nil
}
