// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package export

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/table"
)

// factorType stores factor columns as dictionary-encoded strings.
var factorType = &arrow.DictionaryType{
	IndexType: arrow.PrimitiveTypes.Int32,
	ValueType: arrow.BinaryTypes.String,
	Ordered:   false,
}

// Schema returns the arrow schema WriteParquet uses for t. Numeric columns
// are float64, text columns are strings, and factor and labelled columns
// are dictionary-encoded strings. Every field is nullable.
func Schema(t table.Table) *arrow.Schema {
	cols := t.Columns()
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.Name(), Type: arrowType(c), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(c table.Column) arrow.DataType {
	switch c.Kind() {
	case table.KindNumeric:
		return arrow.PrimitiveTypes.Float64
	case table.KindFactor, table.KindLabelled:
		return factorType
	default:
		return arrow.BinaryTypes.String
	}
}

// Record converts t to a single arrow record. The caller releases it.
func Record(t table.Table, mem memory.Allocator) arrow.Record {
	schema := Schema(t)
	cols := make([]arrow.Array, t.NCol())
	for i, c := range t.Columns() {
		cols[i] = buildArray(c, mem)
	}
	record := array.NewRecord(schema, cols, int64(t.NRow()))
	for i := range cols {
		cols[i].Release()
	}
	return record
}

func buildArray(c table.Column, mem memory.Allocator) arrow.Array {
	switch v := c.(type) {
	case *table.Numeric:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for i := 0; i < v.Len(); i++ {
			if x, ok := v.At(i); ok {
				b.Append(x)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray()
	case *table.Factor:
		return dictionaryArray(v, mem)
	case *table.Labelled:
		return dictionaryArray(v.AsFactor(), mem)
	default:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for i := 0; i < c.Len(); i++ {
			if c.IsNA(i) {
				b.AppendNull()
				continue
			}
			b.Append(c.String(i))
		}
		return b.NewArray()
	}
}

func dictionaryArray(f *table.Factor, mem memory.Allocator) arrow.Array {
	dict := array.NewStringBuilder(mem)
	defer dict.Release()
	dict.AppendValues(f.Levels(), nil)
	values := dict.NewArray()
	defer values.Release()

	idx := array.NewInt32Builder(mem)
	defer idx.Release()
	for i := 0; i < f.Len(); i++ {
		if f.IsNA(i) {
			idx.AppendNull()
			continue
		}
		idx.Append(int32(f.Code(i)))
	}
	indices := idx.NewArray()
	defer indices.Release()

	return array.NewDictionaryArray(factorType, indices, values)
}

// WriteParquet writes t as a snappy-compressed parquet file with the arrow
// schema stored, so readers that understand it get factors back as
// dictionaries.
func WriteParquet(w io.Writer, t table.Table) error {
	mem := memory.NewGoAllocator()
	schema := Schema(t)

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithAllocator(mem),
	)
	arrProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	// closing the parquet writer closes its sink; the caller owns w
	fw, err := pqarrow.NewFileWriter(schema, struct{ io.Writer }{w}, props, arrProps)
	if err != nil {
		return gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to create parquet writer", err)
	}

	record := Record(t, mem)
	defer record.Release()

	if err := fw.Write(record); err != nil {
		_ = fw.Close()
		return gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to write parquet row group", err)
	}
	if err := fw.Close(); err != nil {
		return gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to close parquet writer", err)
	}
	return nil
}
