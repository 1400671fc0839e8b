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


package stata

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"testing"
)

// testVar is one variable of a generated dta file. Numeric cells are taken
// from nums; a non-negative entry in miss writes missing value k instead.
type testVar struct {
	name   string
	typ    int
	label  string
	vlname string
	nums   []float64
	miss   []int
	strs   []string
}

type testLabels struct {
	name  string
	codes []int32
	texts []string
}

// dtaBuilder writes minimal but complete dta files for tests.
type dtaBuilder struct {
	release int
	order   binary.ByteOrder
	label   string
	vars    []testVar
	labels  []testLabels
}

func (b *dtaBuilder) nobs() int {
	if len(b.vars) == 0 {
		return 0
	}
	v := b.vars[0]
	if isString(v.typ) {
		return len(v.strs)
	}
	return len(v.nums)
}

func (b *dtaBuilder) putUint(buf *bytes.Buffer, width int, v uint64) {
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		shift := uint(8 * i)
		if b.order == binary.BigEndian {
			out[width-1-i] = byte(v >> shift)
		} else {
			out[i] = byte(v >> shift)
		}
	}
	buf.Write(out)
}

func padded(s string, n int) []byte {
	out := make([]byte, n)
	copy(out, s)
	return out
}

func (b *dtaBuilder) cell(buf *bytes.Buffer, v testVar, i, j int) {
	lay := layouts[b.release]
	switch {
	case v.typ == typeStrL:
		b.putUint(buf, lay.strlVLen, uint64(j+1))
		b.putUint(buf, lay.strlOLen, uint64(i+1))
		return
	case v.typ <= maxStrF:
		buf.Write(padded(v.strs[i], v.typ))
		return
	}
	k := -1
	if v.miss != nil {
		k = v.miss[i]
	}
	x := v.nums[i]
	switch v.typ {
	case typeByte:
		if k >= 0 {
			x = float64(maxByte + 1 + k)
		}
		buf.WriteByte(byte(int8(x)))
	case typeInt:
		if k >= 0 {
			x = float64(maxInt + 1 + k)
		}
		b.putUint(buf, 2, uint64(uint16(int16(x))))
	case typeLong:
		if k >= 0 {
			x = float64(maxLong + 1 + k)
		}
		b.putUint(buf, 4, uint64(uint32(int32(x))))
	case typeFloat:
		bits := math.Float32bits(float32(x))
		if k >= 0 {
			bits = floatMissingBits + uint32(k)<<11
		}
		b.putUint(buf, 4, uint64(bits))
	case typeDouble:
		bits := math.Float64bits(x)
		if k >= 0 {
			bits = doubleMissingBits + uint64(k)<<40
		}
		b.putUint(buf, 8, bits)
	}
}

func (b *dtaBuilder) build(t *testing.T) []byte {
	t.Helper()
	lay, ok := layouts[b.release]
	if !ok {
		t.Fatalf("unsupported release %d", b.release)
	}
	var seek [sectionCount]uint64
	buf := &bytes.Buffer{}
	mark := func(sec int) { seek[sec] = uint64(buf.Len()) }

	bo := "LSF"
	if b.order == binary.BigEndian {
		bo = "MSF"
	}
	mark(secStataData)
	buf.WriteString("<stata_dta><header><release>" + strconv.Itoa(b.release) + "</release><byteorder>" + bo + "</byteorder><K>")
	b.putUint(buf, lay.nvarLen, uint64(len(b.vars)))
	buf.WriteString("</K><N>")
	b.putUint(buf, lay.nobsLen, uint64(b.nobs()))
	buf.WriteString("</N><label>")
	b.putUint(buf, lay.labelLen, uint64(len(b.label)))
	buf.WriteString(b.label)
	buf.WriteString("</label><timestamp>")
	ts := "17 Oct 2026 09:30"
	buf.WriteByte(byte(len(ts)))
	buf.WriteString(ts)
	buf.WriteString("</timestamp></header>")

	mark(secMap)
	buf.WriteString("<map>")
	mapPos := buf.Len()
	buf.Write(make([]byte, 8*sectionCount))
	buf.WriteString("</map>")

	mark(secVariableTypes)
	buf.WriteString("<variable_types>")
	for _, v := range b.vars {
		b.putUint(buf, 2, uint64(v.typ))
	}
	buf.WriteString("</variable_types>")

	mark(secVarnames)
	buf.WriteString("<varnames>")
	for _, v := range b.vars {
		buf.Write(padded(v.name, lay.nameLen))
	}
	buf.WriteString("</varnames>")

	mark(secSortlist)
	buf.WriteString("<sortlist>")
	sortWidth := 2
	if b.release == 119 {
		sortWidth = 4
	}
	buf.Write(make([]byte, sortWidth*(len(b.vars)+1)))
	buf.WriteString("</sortlist>")

	mark(secFormats)
	buf.WriteString("<formats>")
	for _, v := range b.vars {
		format := "%9.0g"
		if isString(v.typ) {
			format = "%9s"
		}
		buf.Write(padded(format, lay.formatLen))
	}
	buf.WriteString("</formats>")

	mark(secValueLabelNames)
	buf.WriteString("<value_label_names>")
	for _, v := range b.vars {
		buf.Write(padded(v.vlname, lay.nameLen))
	}
	buf.WriteString("</value_label_names>")

	mark(secVariableLabels)
	buf.WriteString("<variable_labels>")
	for _, v := range b.vars {
		buf.Write(padded(v.label, lay.varLabelLen))
	}
	buf.WriteString("</variable_labels>")

	mark(secCharacteristics)
	buf.WriteString("<characteristics></characteristics>")

	mark(secData)
	buf.WriteString("<data>")
	for i := 0; i < b.nobs(); i++ {
		for j, v := range b.vars {
			b.cell(buf, v, i, j)
		}
	}
	buf.WriteString("</data>")

	mark(secStrls)
	buf.WriteString("<strls>")
	for j, v := range b.vars {
		if v.typ != typeStrL {
			continue
		}
		for i, s := range v.strs {
			buf.WriteString("GSO")
			b.putUint(buf, 4, uint64(j+1))
			b.putUint(buf, lay.gsoOLen, uint64(i+1))
			buf.WriteByte(gsoASCIIZ)
			b.putUint(buf, 4, uint64(len(s)+1))
			buf.WriteString(s)
			buf.WriteByte(0)
		}
	}
	buf.WriteString("</strls>")

	mark(secValueLabels)
	buf.WriteString("<value_labels>")
	for _, l := range b.labels {
		txt := &bytes.Buffer{}
		offs := make([]int, len(l.texts))
		for k, s := range l.texts {
			offs[k] = txt.Len()
			txt.WriteString(s)
			txt.WriteByte(0)
		}
		buf.WriteString("<lbl>")
		b.putUint(buf, 4, uint64(8+8*len(l.codes)+txt.Len()))
		buf.Write(padded(l.name, lay.nameLen))
		buf.Write(make([]byte, 3))
		b.putUint(buf, 4, uint64(len(l.codes)))
		b.putUint(buf, 4, uint64(txt.Len()))
		for _, o := range offs {
			b.putUint(buf, 4, uint64(o))
		}
		for _, c := range l.codes {
			b.putUint(buf, 4, uint64(uint32(c)))
		}
		buf.Write(txt.Bytes())
		buf.WriteString("</lbl>")
	}
	buf.WriteString("</value_labels>")

	mark(secStataDataClose)
	buf.WriteString("</stata_dta>")
	mark(secEOF)

	out := buf.Bytes()
	for i, off := range seek {
		tmp := &bytes.Buffer{}
		b.putUint(tmp, 8, off)
		copy(out[mapPos+8*i:], tmp.Bytes())
	}
	return out
}
