package etl

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generatedRows(n int) *fakeRows {
	data := make([][]interface{}, n)
	for i := range data {
		data[i] = []interface{}{[]byte(strconv.Itoa(i)), []byte("row " + strconv.Itoa(i))}
	}
	return &fakeRows{columns: []string{"id", "label"}, data: data}
}

func TestBuildSnapshotBatching(t *testing.T) {
	batched, err := BuildSnapshot("events", generatedRows(2500), 1000, NewTransformer(""))
	require.NoError(t, err)
	assert.Equal(t, 3, batched.Batches)
	assert.EqualValues(t, 2500, batched.Rows)

	single, err := BuildSnapshot("events", generatedRows(2500), 5000, NewTransformer(""))
	require.NoError(t, err)
	assert.Equal(t, 1, single.Batches)

	assert.Equal(t, single.Data, batched.Data)
}

func TestBuildSnapshotExactMultipleOfBatch(t *testing.T) {
	snap, err := BuildSnapshot("events", generatedRows(2000), 1000, NewTransformer(""))
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Batches)
}

func TestBuildSnapshotEmptyTable(t *testing.T) {
	snap, err := BuildSnapshot("empty", &fakeRows{columns: []string{"a", "b"}}, 1000, NewTransformer(""))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(snap.Data))
	assert.Zero(t, snap.Batches)
	assert.Zero(t, snap.Rows)
}

func TestBuildSnapshotRoundTrip(t *testing.T) {
	rows := &fakeRows{
		columns: []string{"id", "comment", "note"},
		data: [][]interface{}{
			{[]byte("1"), []byte("plain"), nil},
			{[]byte("2"), []byte("has,comma"), []byte("")},
			{[]byte("3"), []byte(`say "hi"`), []byte("multi\nline")},
		},
	}

	snap, err := BuildSnapshot("comments", rows, 2, NewTransformer(""))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(snap.Data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "comment", "note"},
		{"1", "plain", ""},
		{"2", "has,comma", ""},
		{"3", `say "hi"`, "multi\nline"},
	}, records)
	assert.Contains(t, string(snap.Data), `"has,comma"`)
	assert.Contains(t, string(snap.Data), `"say ""hi"""`)
}

func TestBuildSnapshotQuotesOnlyWhenNeeded(t *testing.T) {
	rows := &fakeRows{
		columns: []string{"a", "b"},
		data: [][]interface{}{
			{[]byte(" leading"), []byte(`\.`)},
			{[]byte("\ttab"), []byte("x")},
			{[]byte("x,y"), []byte("trailing ")},
		},
	}

	snap, err := BuildSnapshot("t", rows, 1000, NewTransformer(""))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n leading,\\.\n\ttab,x\n\"x,y\",trailing \n", string(snap.Data))

	records, err := csv.NewReader(bytes.NewReader(snap.Data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"a", "b"},
		{" leading", `\.`},
		{"\ttab", "x"},
		{"x,y", "trailing "},
	}, records)
}

func TestSnapshotWriterQuotesLineBreaks(t *testing.T) {
	sw := newSnapshotWriter()
	sw.write([]string{"cr\rhere", "lf\nhere", `q"`})
	assert.Equal(t, "\"cr\rhere\",\"lf\nhere\",\"q\"\"\"\n", string(sw.bytes()))
}

func TestBuildSnapshotSingleEmptyColumn(t *testing.T) {
	rows := &fakeRows{
		columns: []string{"v"},
		data:    [][]interface{}{{nil}, {[]byte("x")}, {[]byte("")}},
	}

	snap, err := BuildSnapshot("t", rows, 1000, NewTransformer(""))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(snap.Data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"v"}, {""}, {"x"}, {""}}, records)
}

func TestBuildSnapshotRowsError(t *testing.T) {
	rows := generatedRows(3)
	rows.err = errors.New("connection reset by peer")

	_, err := BuildSnapshot("events", rows, 1000, NewTransformer(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset by peer")
}

func TestBuildSnapshotRejectsBadBatchSize(t *testing.T) {
	_, err := BuildSnapshot("events", generatedRows(1), 0, NewTransformer(""))
	assert.Error(t, err)
}

func TestTransformRowWidthMismatch(t *testing.T) {
	_, err := NewTransformer("").TransformRow([]interface{}{"a"}, 2)
	assert.Error(t, err)
}
