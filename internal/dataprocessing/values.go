package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order for string dates. Slash dates are month first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"01-02-06",
	"02-Jan-2006",
	"January 2, 2006",
}

// maxExcelSerial is 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958465

// parseDate interprets a cell as a timestamp. Numbers are Excel serial dates.
func parseDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case *time.Time:
		if x != nil {
			return *x, nil
		}
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return excelSerialToTime(f)
		}
		return time.Time{}, fmt.Errorf("unrecognised date format %q", s)
	default:
		if f, ok := toFloat(v); ok {
			return excelSerialToTime(f)
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date value of type %T", v)
}

func excelSerialToTime(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 || f > maxExcelSerial {
		return time.Time{}, fmt.Errorf("excel serial date %v out of range", f)
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, err
	}
	// excelize pads the fraction with an epsilon; serials carry no sub-second data.
	return t.Round(time.Second).UTC(), nil
}

// parseAmount interprets a cell as a finite number. Thousands separators,
// spaces and currency symbols are stripped from strings.
func parseAmount(v any) (float64, error) {
	if f, ok := toFloat(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("non-finite number %v", f)
		}
		return f, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unsupported numeric value of type %T", v)
	}
	cleaned := strings.NewReplacer(",", "", " ", "", "€", "", "$", "", "£", "").Replace(strings.TrimSpace(s))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return f, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

// canonicalKey renders a key cell so that 1, 1.0 and "1" compare equal.
func canonicalKey(v any) string {
	if f, ok := toFloat(v); ok {
		return formatNumber(f)
	}
	s := cellString(v)
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return formatNumber(f)
	}
	return s
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cellString renders a non-null cell as trimmed text.
func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case *string:
		if x == nil {
			return ""
		}
		return strings.TrimSpace(*x)
	case time.Time:
		return x.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(x)
	}
	if f, ok := toFloat(v); ok {
		return formatNumber(f)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
