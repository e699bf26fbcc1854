package lake

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet"
	"github.com/apache/arrow/go/v10/parquet/compress"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
)

const parquetChunkSize = 4096

// EncodeParquet serializes a frame into snappy-compressed parquet bytes.
func EncodeParquet(f *frame.Frame) ([]byte, error) {
	mem := memory.NewGoAllocator()
	cols := f.Columns()

	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Kind), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	chunks := make([]arrow.Array, len(cols))
	for i, c := range cols {
		arr, err := buildColumn(mem, f, i, c.Kind)
		if err != nil {
			return nil, err
		}
		defer arr.Release()
		chunks[i] = arr
	}

	rec := array.NewRecord(schema, chunks, int64(f.NumRows()))
	defer rec.Release()
	table := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer table.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithDictionaryDefault(false),
	)

	var buf bytes.Buffer
	if err := pqarrow.WriteTable(table, &buf, parquetChunkSize, props, pqarrow.DefaultWriterProps()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func arrowType(kind frame.Kind) arrow.DataType {
	switch kind {
	case frame.Int64:
		return arrow.PrimitiveTypes.Int64
	case frame.Float64:
		return arrow.PrimitiveTypes.Float64
	case frame.Bool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

func buildColumn(mem memory.Allocator, f *frame.Frame, col int, kind frame.Kind) (arrow.Array, error) {
	switch kind {
	case frame.Int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for r := 0; r < f.NumRows(); r++ {
			v := f.Row(r)[col]
			if v == nil {
				b.AppendNull()
				continue
			}
			b.Append(v.(int64))
		}
		return b.NewArray(), nil
	case frame.Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for r := 0; r < f.NumRows(); r++ {
			v := f.Row(r)[col]
			if v == nil {
				b.AppendNull()
				continue
			}
			b.Append(v.(float64))
		}
		return b.NewArray(), nil
	case frame.Bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for r := 0; r < f.NumRows(); r++ {
			v := f.Row(r)[col]
			if v == nil {
				b.AppendNull()
				continue
			}
			b.Append(v.(bool))
		}
		return b.NewArray(), nil
	case frame.String:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for r := 0; r < f.NumRows(); r++ {
			v := f.Row(r)[col]
			if v == nil {
				b.AppendNull()
				continue
			}
			b.Append(v.(string))
		}
		return b.NewArray(), nil
	}
	return nil, fmt.Errorf("lake: unsupported column kind %d", kind)
}
