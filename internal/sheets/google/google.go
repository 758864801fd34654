package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"earnings/internal/log"
	ports "earnings/internal/sheets"
)

// Client writes the earnings list to one sheet of a spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

var _ ports.EarningsWriter = (*Client)(nil)

// New creates a client authenticated from the environment: service account
// credentials when present, otherwise an OAuth user token saved by
// earnings-sheets-auth.
func New(ctx context.Context, spreadsheetID, sheetName string, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Earnings"
	}

	if len(opts) == 0 {
		var err error
		opts, err = envClientOptions(ctx)
		if err != nil {
			return nil, fmt.Errorf("sheets service: %w", err)
		}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        log.Wrap(nil, log.ComponentSheets),
	}, nil
}

func envClientOptions(ctx context.Context) ([]goption.ClientOption, error) {
	creds, err := serviceAccountCredentials(ctx)
	if err == nil {
		return []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}, nil
	}
	if !errors.Is(err, errNoServiceAccount) {
		return nil, err
	}

	ts, oauthErr := oauthTokenSource(ctx)
	switch {
	case oauthErr == nil:
		return []goption.ClientOption{goption.WithTokenSource(ts)}, nil
	case errors.Is(oauthErr, errNoOAuthClient):
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS) or oauth client (GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)")
	default:
		return nil, oauthErr
	}
}

var errNoServiceAccount = errors.New("missing service account credentials")

// serviceAccountCredentials reads GOOGLE_SERVICE_ACCOUNT_JSON, then
// GOOGLE_SERVICE_ACCOUNT_FILE, then GOOGLE_APPLICATION_CREDENTIALS.
func serviceAccountCredentials(ctx context.Context) ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}

	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errNoServiceAccount
	}

	creds, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	log.Wrap(nil, log.ComponentSheets).DebugContext(ctx, "Read service account credentials", "path", path, "size", len(creds))
	return creds, nil
}

// ReplaceEarnings clears the sheet's A:E columns and writes the header plus
// one row per earning starting at A1.
func (c *Client) ReplaceEarnings(ctx context.Context, rows []ports.Row) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:E", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", clearRange, err)
	}

	values := toValues(rows)
	ref := fmt.Sprintf("%s!A1:E%d", c.sheetName, len(values))
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, ref, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("update %s: %w", ref, err)
	}

	c.logger.InfoContext(ctx, "Earnings written to Google Sheets",
		log.FieldOperation, log.OpExport, "range", ref, "rows", len(rows))
	return ref, nil
}
