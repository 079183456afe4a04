package utils

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout renders time.Time values scanned by the database/sql
// drivers (lib/pq, go-mssqldb). The pgx source never produces time.Time, it
// hands over the server's own text rendering.
const TimestampLayout = "2006-01-02 15:04:05.999999-07:00"

// ConvertToText renders a value scanned from a driver as CSV field text.
// The boolean result is false for SQL NULL.
func ConvertToText(val interface{}) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		if v == nil {
			return "", false
		}
		return string(v), true
	case sql.NullString:
		return v.String, v.Valid
	case *sql.NullString:
		if v == nil {
			return "", false
		}
		return v.String, v.Valid
	case time.Time:
		return v.Format(TimestampLayout), true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case driver.Valuer:
		inner, err := v.Value()
		if err != nil {
			return fmt.Sprintf("%v", v), true
		}
		return ConvertToText(inner)
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}
