// Package statement parses bank statement CSV exports into ledger rows.
//
// The layout is detected by matching header names against known profiles, so
// preamble lines before the header and footer lines after the data are ignored.
package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

var ErrUnknownFormat = errors.New("no known statement format found")

var dateLayouts = []string{"02/01/2006", "02-01-2006", "2006-01-02", "2006/01/02"}

// delimiters are tried in order until one yields a known header.
var delimiters = []rune{';', ',', '\t'}

type Row struct {
	Date        time.Time
	Description string
	Kind        ledger.Kind
	Amount      decimal.Decimal
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]Row, error) {
	utf8r, err := DecodeUTF8(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	for _, comma := range delimiters {
		records, err := readRecords(content, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(records)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, records[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrUnknownFormat
}

func readRecords(content []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return records, nil
}

type colIndex map[string]int

func detectProfile(records [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range records {
		cols := make(colIndex, len(row))

		for i, cell := range row {
			if name := strings.ToLower(strings.TrimSpace(cell)); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips lines without a date or a non-zero amount; those are page
// footers and totals.
func parseRows(p *Profile, cols colIndex, records [][]string, headerRowNum int) ([]Row, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var rows []Row

	for i, record := range records {
		line := headerRowNum + i + 1

		date, ok := parseDate(cell(record, dateIdx))
		if !ok {
			continue
		}

		amount, kind, ok := rowAmount(p, cols, record)
		if !ok {
			continue
		}

		desc := cell(record, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("line %d: missing description", line)
		}

		rows = append(rows, Row{Date: date, Description: desc, Kind: kind, Amount: amount})
	}

	return rows, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func rowAmount(p *Profile, cols colIndex, record []string) (decimal.Decimal, ledger.Kind, bool) {
	switch p.AmountMode {
	case amountSingle:
		d, ok := nonZero(cell(record, cols[p.AmountCol]), p.DecimalComma)
		if !ok {
			return decimal.Zero, "", false
		}

		if d.IsNegative() {
			return d.Neg(), ledger.KindExpense, true
		}

		return d, ledger.KindIncome, true
	case amountSplit:
		if d, ok := nonZero(cell(record, cols[p.DebitCol]), p.DecimalComma); ok {
			return d.Abs(), ledger.KindExpense, true
		}

		if d, ok := nonZero(cell(record, cols[p.CreditCol]), p.DecimalComma); ok {
			return d.Abs(), ledger.KindIncome, true
		}
	}

	return decimal.Zero, "", false
}

func nonZero(s string, decimalComma bool) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseAmount(s, decimalComma)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}
