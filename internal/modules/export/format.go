package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Format is an export encoding
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatMsgPack Format = "msgpack"
)

// ParseFormat accepts csv, json or msgpack (case-insensitive); empty means csv
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMsgPack:
		return FormatMsgPack, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json;charset=utf-8"
	case FormatMsgPack:
		return "application/msgpack"
	default:
		return "text/csv;charset=utf-8"
	}
}

// Encode renders records in format f
func Encode(f Format, records []Record) ([]byte, error) {
	switch f {
	case FormatCSV:
		return CSV(records)
	case FormatJSON:
		return JSON(records)
	case FormatMsgPack:
		return MsgPack(records)
	}
	return nil, fmt.Errorf("unsupported export format %q", f)
}

// CSV renders records the way the dashboard always has: the header is the keys of
// the first record joined by commas, each row is that record's values joined by
// commas, rows are separated by \n with no trailing newline. Nothing is quoted or
// escaped. Empty input returns ErrNoRecords.
func CSV(records []Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	var b strings.Builder
	b.WriteString(strings.Join(records[0].Keys(), ","))
	b.WriteByte('\n')
	for i, rec := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, f := range rec {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(formatValue(f.Value))
		}
	}
	return []byte(b.String()), nil
}

// JSON renders records as a 2-space indented array, key order preserved
func JSON(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	var raw bytes.Buffer
	enc := json.NewEncoder(&raw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimRight(raw.Bytes(), "\n"), "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent records: %w", err)
	}
	return out.Bytes(), nil
}

// MsgPack renders records as an array of maps with sorted keys
func MsgPack(records []Record) ([]byte, error) {
	rows := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		rows[i] = rec.Map()
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(rows); err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return buf.Bytes(), nil
}

// formatValue stringifies a value the way Array.prototype.join does:
// nil becomes the empty string and numbers use the shortest round-trip form.
func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatNumber(x)
	case *float64:
		if x == nil {
			return ""
		}
		return formatNumber(*x)
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case time.Time:
		return x.UTC().Format("2006-01-02T15:04:05.000Z")
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.UTC().Format("2006-01-02T15:04:05.000Z")
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// formatNumber follows Number.prototype.toString: plain decimals between 1e-6
// and 1e21, exponent form outside, no padding in the exponent.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + string(sign) + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
