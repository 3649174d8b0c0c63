package sheetstore

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/VndrewJ/AI-Shift-Scheduler/internal/config"
)

// GoogleSheets 是 Store 的 Google Sheets 实现，表格本身就是系统的唯一数据源
type GoogleSheets struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	timeout       time.Duration
}

func NewGoogleSheets(ctx context.Context, cfg *config.Config) (*GoogleSheets, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.Sheets.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, err
	}

	return &GoogleSheets{
		svc:           svc,
		spreadsheetID: cfg.Sheets.SpreadsheetID,
		sheetName:     cfg.Sheets.SheetName,
		timeout:       time.Duration(cfg.Sheets.RequestTimeout) * time.Second,
	}, nil
}

func (g *GoogleSheets) FindPersonRow(ctx context.Context, name string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// 花名册在 A 列，第 1 行是表头
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.rangeRef("A2:A")).Context(ctx).Do()
	if err != nil {
		return 0, unavailable(err)
	}

	for i, row := range resp.Values {
		if len(row) > 0 && cellText(row[0]) == name {
			return i + 2, nil
		}
	}

	return 0, ErrPersonNotFound
}

func (g *GoogleSheets) FindDayColumn(ctx context.Context, day string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.rangeRef("1:1")).Context(ctx).Do()
	if err != nil {
		return 0, unavailable(err)
	}

	if len(resp.Values) > 0 {
		for j, cell := range resp.Values[0] {
			if cellText(cell) == day {
				return j + 1, nil
			}
		}
	}

	return 0, ErrDayNotFound
}

func (g *GoogleSheets) ReadCell(ctx context.Context, row, column int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.cellRef(row, column)).Context(ctx).Do()
	if err != nil {
		return "", unavailable(err)
	}

	// 空单元格不会出现在返回值里
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}

	return cellText(resp.Values[0][0]), nil
}

func (g *GoogleSheets) WriteCell(ctx context.Context, row, column int, value string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	vr := &sheets.ValueRange{
		Values: [][]any{{value}},
	}

	_, err := g.svc.Spreadsheets.Values.
		Update(g.spreadsheetID, g.cellRef(row, column), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return unavailable(err)
	}

	return nil
}

func (g *GoogleSheets) CountDayEntries(ctx context.Context, column int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	letter := columnLetter(column)
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.rangeRef(fmt.Sprintf("%s2:%s", letter, letter))).Context(ctx).Do()
	if err != nil {
		return 0, unavailable(err)
	}

	count := 0
	for _, row := range resp.Values {
		if len(row) > 0 && cellText(row[0]) != "" {
			count++
		}
	}

	return count, nil
}

func (g *GoogleSheets) Snapshot(ctx context.Context) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.sheetName).Context(ctx).Do()
	if err != nil {
		return nil, unavailable(err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cellText(cell))
		}
		grid = append(grid, cells)
	}

	return grid, nil
}

// cellRef 把行列坐标转成 A1 记法，比如 (2, 3) -> "Schedule!C2"
func (g *GoogleSheets) cellRef(row, column int) string {
	return g.rangeRef(fmt.Sprintf("%s%d", columnLetter(column), row))
}

func (g *GoogleSheets) rangeRef(a1 string) string {
	return fmt.Sprintf("'%s'!%s", g.sheetName, a1)
}

// columnLetter 把 1 起始的列号转成字母列名（1 -> A，27 -> AA）
func columnLetter(column int) string {
	letters := ""
	for column > 0 {
		column--
		letters = string(rune('A'+column%26)) + letters
		column /= 26
	}
	return letters
}

func cellText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
