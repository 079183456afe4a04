package utils

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConvertToText(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 500000000, time.FixedZone("", 2*3600))

	tests := []struct {
		name  string
		in    interface{}
		want  string
		valid bool
	}{
		{"nil", nil, "", false},
		{"nil bytes", []byte(nil), "", false},
		{"empty bytes", []byte{}, "", true},
		{"bytes", []byte("abc"), "abc", true},
		{"string", "x,y", "x,y", true},
		{"null string", sql.NullString{}, "", false},
		{"valid null string", sql.NullString{String: "v", Valid: true}, "v", true},
		{"int64", int64(-42), "-42", true},
		{"int", 7, "7", true},
		{"float", 1.5, "1.5", true},
		{"bool", true, "true", true},
		{"time", ts, "2024-03-01 12:30:00.5+02:00", true},
		{"valuer null", sql.NullInt64{}, "", false},
		{"valuer", sql.NullInt64{Int64: 9, Valid: true}, "9", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, valid := ConvertToText(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, valid)
		})
	}
}
