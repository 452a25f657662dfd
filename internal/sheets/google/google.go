// Package google exports the ledger workbook to a Google spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"katha/internal/config"
	ports "katha/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
	summarySheet  string
}

var _ ports.LedgerExporter = (*Client)(nil)

// New creates an exporter over an existing Sheets service.
func New(svc *gsheet.Service, spreadsheetID, ledgerSheet, summarySheet string) (*Client, error) {
	if svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
		summarySheet:  summarySheet,
	}, nil
}

// NewFromConfig authenticates with the configured service account and
// creates an exporter.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	if strings.TrimSpace(cfg.GoogleSpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return New(svc, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, cfg.GoogleSummarySheetName)
}

// newSheetsService initializes a Sheets service using service account
// credentials, inline JSON taking precedence over a file path.
func newSheetsService(ctx context.Context, inlineJSON, file string) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(inlineJSON) != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(inlineJSON)
	case strings.TrimSpace(file) != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	creds, err := goauth.CredentialsFromJSON(ctx, credentialsJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	// Token refreshes go through the pooled client too.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, newHTTPClientWithPooling())
	httpClient := oauth2.NewClient(ctx, creds.TokenSource)
	httpClient.Timeout = 60 * time.Second

	service, err := gsheet.NewService(ctx, goption.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created", "scope", gsheet.SpreadsheetsScope)
	return service, nil
}

// newHTTPClientWithPooling creates an HTTP client with connection pooling
// and bounded timeouts for the Sheets API.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext: dialer.DialContext,

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// ExportLedger clears both tabs and writes the workbook in one batch update.
func (c *Client) ExportLedger(ctx context.Context, wb ports.Workbook) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	ledgerRange := sheetRange(c.ledgerSheet, "A:H")
	summaryRange := sheetRange(c.summarySheet, "A:H")

	clearReq := &gsheet.BatchClearValuesRequest{Ranges: []string{ledgerRange, summaryRange}}
	if _, err := c.svc.Spreadsheets.Values.BatchClear(c.spreadsheetID, clearReq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s and %s: %w", ledgerRange, summaryRange, err)
	}

	update := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data: []*gsheet.ValueRange{
			{Range: sheetRange(c.ledgerSheet, "A1"), Values: wb.Ledger},
			{Range: sheetRange(c.summarySheet, "A1"), Values: wb.Summary},
		},
	}
	resp, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, update).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write workbook revision %d: %w", wb.Revision, err)
	}

	slog.InfoContext(ctx, "Exported ledger to Google Sheets",
		"revision", wb.Revision,
		"rows", wb.Rows(),
		"updated_cells", resp.TotalUpdatedCells)
	return nil
}

// sheetRange builds an A1 range, quoting sheet names that need it.
func sheetRange(sheet, cells string) string {
	if strings.ContainsAny(sheet, " '!:") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet + "!" + cells
}
