package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// File names inside the data directory.
const (
	UsersFile        = "users.csv"
	TransactionsFile = "transactions.csv"
	LoansFile        = "loans.csv"
	AssignmentsFile  = "ab_assignments.csv"
)

var errMissingColumn = errors.New("missing required column")

// table is a CSV file indexed by header name.
type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func readTable(path string, required ...string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	t := &table{name: path, columns: make(map[string]int, len(header))}
	for i, h := range header {
		t.columns[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, fmt.Errorf("%w %q in %s", errMissingColumn, col, path)
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		t.rows = append(t.rows, rec)
	}

	return t, nil
}

// row gives typed access to one record of a table. Parse errors are kept and
// reported once through err.
type row struct {
	t   *table
	rec []string
	err error
}

func (t *table) row(i int) *row {
	return &row{t: t, rec: t.rows[i]}
}

func (r *row) str(col string) string {
	i, ok := r.t.columns[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *row) fail(col, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("column %s value %q: %w", col, value, err)
	}
}

func (r *row) dec(col string) decimal.Decimal {
	v := r.str(col)
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		r.fail(col, v, err)
	}
	return d
}

func (r *row) float(col string) float64 {
	v := r.str(col)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(col, v, err)
	}
	return f
}

func (r *row) integer(col string) int {
	v := r.str(col)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// integral floats such as "3.0" appear in exported data
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int(f)) {
			r.fail(col, v, err)
		}
		return int(f)
	}
	return n
}

func (r *row) flag(col string) bool {
	v := strings.ToLower(r.str(col))
	switch v {
	case "", "0", "false", "f", "no", "n", "0.0":
		return false
	case "1", "true", "t", "yes", "y", "1.0":
		return true
	}
	r.fail(col, v, errors.New("not a boolean"))
	return false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTime accepts RFC 3339, naive ISO timestamps and plain dates. Values
// without a zone are UTC.
func parseTime(v string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognised timestamp")
}

func (r *row) timestamp(col string) time.Time {
	v := r.str(col)
	if v == "" {
		return time.Time{}
	}
	t, err := parseTime(v)
	if err != nil {
		r.fail(col, v, err)
	}
	return t
}

func (r *row) optTimestamp(col string) *time.Time {
	if r.str(col) == "" {
		return nil
	}
	t := r.timestamp(col)
	if t.IsZero() {
		return nil
	}
	return &t
}
