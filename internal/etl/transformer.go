package etl

import (
	"fmt"

	"github.com/BartekS5/pghdfs/pkg/utils"
)

// Transformer turns source rows into CSV records.
type Transformer struct {
	// NullString is written for SQL NULL. Empty by default, which makes NULL
	// and '' indistinguishable in the output.
	NullString string
}

func NewTransformer(nullString string) *Transformer {
	return &Transformer{NullString: nullString}
}

func (t *Transformer) TransformRow(values []interface{}, width int) ([]string, error) {
	if len(values) != width {
		return nil, fmt.Errorf("row has %d values, expected %d", len(values), width)
	}
	record := make([]string, len(values))
	for i, v := range values {
		text, ok := utils.ConvertToText(v)
		if !ok {
			text = t.NullString
		}
		record[i] = text
	}
	return record, nil
}
