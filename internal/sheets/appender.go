package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/NammaThalle/grocery-tracker/constants"
	"github.com/NammaThalle/grocery-tracker/internal/entity"
)

// Appender writes processed expense rows to a Google Sheets
// spreadsheet, one row per item.
type Appender struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

// Config selects one of two auth paths: a service-account credentials
// file, or an OAuth client with a stored refresh token.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
}

func NewAppender(ctx context.Context, cfg Config, logger *slog.Logger) (*Appender, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Expenses"
	}

	var auth option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		auth = option.WithCredentialsFile(cfg.CredentialsFile)
	case cfg.RefreshToken != "":
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		ts := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		auth = option.WithTokenSource(ts)
	default:
		return nil, fmt.Errorf("either a credentials file or an oauth refresh token is required")
	}

	svc, err := sheets.NewService(ctx, auth, option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Appender{
		service:       svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger,
	}, nil
}

// AppendExpense appends one row per item after making sure the header
// row exists.
func (a *Appender) AppendExpense(ctx context.Context, e *entity.Expense) error {
	if err := a.ensureHeader(ctx); err != nil {
		return err
	}

	rows := e.Rows()
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, r.Values())
	}

	vr := &sheets.ValueRange{Values: values}
	_, err := a.service.Spreadsheets.Values.
		Append(a.spreadsheetID, a.sheetName, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append rows: %w", err)
	}

	a.logger.Info("sheets.rows_appended",
		"spreadsheet_id", a.spreadsheetID,
		"sheet", a.sheetName,
		"rows", len(values),
	)
	return nil
}

// ensureHeader writes the column header into row 1 when the sheet is
// still empty.
func (a *Appender) ensureHeader(ctx context.Context) error {
	resp, err := a.service.Spreadsheets.Values.
		Get(a.spreadsheetID, a.sheetName+"!A1:H1").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	header := make([]any, len(constants.SheetColumns))
	for i, c := range constants.SheetColumns {
		header[i] = c
	}
	vr := &sheets.ValueRange{Values: [][]any{header}}
	_, err = a.service.Spreadsheets.Values.
		Update(a.spreadsheetID, a.sheetName+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	a.logger.Info("sheets.header_written", "sheet", a.sheetName)
	return nil
}
