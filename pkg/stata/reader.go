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
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/table"
)

// Storage types as written in the variable_types section.
const (
	maxStrF    = 2045
	typeStrL   = 32768
	typeDouble = 65526
	typeFloat  = 65527
	typeLong   = 65528
	typeInt    = 65529
	typeByte   = 65530
)

// GSO content types.
const (
	gsoBinary = 129
	gsoASCIIZ = 130
)

// Section offsets in the file map, in map order.
const (
	secStataData = iota
	secMap
	secVariableTypes
	secVarnames
	secSortlist
	secFormats
	secValueLabelNames
	secVariableLabels
	secCharacteristics
	secData
	secStrls
	secValueLabels
	secStataDataClose
	secEOF
	sectionCount
)

// layout holds the field widths that differ between releases.
type layout struct {
	nvarLen     int
	nobsLen     int
	labelLen    int
	nameLen     int
	formatLen   int
	varLabelLen int
	strlVLen    int
	strlOLen    int
	gsoOLen     int
}

var layouts = map[int]layout{
	117: {nvarLen: 2, nobsLen: 4, labelLen: 1, nameLen: 33, formatLen: 49, varLabelLen: 81, strlVLen: 4, strlOLen: 4, gsoOLen: 4},
	118: {nvarLen: 2, nobsLen: 8, labelLen: 2, nameLen: 129, formatLen: 57, varLabelLen: 321, strlVLen: 2, strlOLen: 6, gsoOLen: 8},
	119: {nvarLen: 4, nobsLen: 8, labelLen: 2, nameLen: 129, formatLen: 57, varLabelLen: 321, strlVLen: 3, strlOLen: 5, gsoOLen: 8},
}

// SupportedReleases returns the dta releases Read understands.
func SupportedReleases() []int {
	return []int{117, 118, 119}
}

// Variable describes one variable of a dta file.
type Variable struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Format      string `json:"format" yaml:"format"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	ValueLabels string `json:"valueLabels,omitempty" yaml:"valueLabels,omitempty"`
}

// File is a decoded dta file.
type File struct {
	Release   int
	BigEndian bool
	Label     string
	Timestamp string
	Variables []Variable
	// LabelSets holds every value-label table in the file by name.
	LabelSets map[string]*table.LabelSet
	Table     table.Table
}

// Read decodes a dta file and returns its data.
func Read(ctx context.Context, r io.ReadSeeker) (table.Table, error) {
	f, err := Decode(ctx, r)
	if err != nil {
		return table.Table{}, err
	}
	return f.Table, nil
}

// ReadFile decodes the dta file at path.
func ReadFile(ctx context.Context, path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, gsserrors.WrapWithContext(gsserrors.ErrCodeNotFound, "failed to open dta file", err,
			map[string]any{"path": path})
	}
	defer fh.Close()

	f, err := Decode(ctx, fh)
	if err != nil {
		return nil, err
	}
	slog.Debug("dta file decoded",
		"path", path,
		"release", f.Release,
		"variables", len(f.Variables),
		"rows", f.Table.NRow(),
	)
	return f, nil
}

// Decode reads the header, metadata, data, strLs and value labels of a dta
// file. ctx is checked between sections and periodically while reading
// observations.
func Decode(ctx context.Context, r io.ReadSeeker) (*File, error) {
	d := &decoder{ctx: ctx, r: r, file: &File{}}
	if err := d.readHeader(); err != nil {
		return nil, err
	}
	steps := []func() error{
		d.readVariableTypes,
		d.readVarnames,
		d.readFormats,
		d.readValueLabelNames,
		d.readVariableLabels,
		d.readData,
		d.readStrls,
		d.readValueLabels,
	}
	for _, step := range steps {
		if err := d.canceled(); err != nil {
			return nil, err
		}
		if err := step(); err != nil {
			return nil, err
		}
	}
	t, err := d.build()
	if err != nil {
		return nil, err
	}
	d.file.Table = t
	return d.file, nil
}

type strlKey struct {
	v, o uint64
}

// rowsPerCheck is how many observations are decoded between context checks.
const rowsPerCheck = 4096

type decoder struct {
	ctx    context.Context
	r      io.ReadSeeker
	order  binary.ByteOrder
	lay    layout
	file   *File
	nvar   int
	nobs   int
	seek   [sectionCount]int64
	types  []int
	vlabel []string

	// raw data by variable
	nums  [][]float64
	miss  [][]int
	strs  [][]string
	strls [][]strlKey
	gso   map[strlKey]string
	sets  map[string]*table.LabelSet
}

func (d *decoder) canceled() error {
	if err := d.ctx.Err(); err != nil {
		return gsserrors.Wrap(gsserrors.ErrCodeTimeout, "dta decode canceled", err)
	}
	return nil
}

func malformed(msg string, cause error) error {
	if cause == nil {
		return gsserrors.New(gsserrors.ErrCodeInvalidRequest, "malformed dta file: "+msg)
	}
	return gsserrors.Wrap(gsserrors.ErrCodeInvalidRequest, "malformed dta file: "+msg, cause)
}

func (d *decoder) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, malformed("truncated", err)
	}
	return buf, nil
}

func (d *decoder) expect(tag string) error {
	buf, err := d.read(len(tag))
	if err != nil {
		return err
	}
	if string(buf) != tag {
		return malformed(fmt.Sprintf("expected %q, found %q", tag, buf), nil)
	}
	return nil
}

func (d *decoder) readUint(width int) (uint64, error) {
	buf, err := d.read(width)
	if err != nil {
		return 0, err
	}
	return decodeUint(buf, d.order), nil
}

// decodeUint reads an unsigned integer of any width up to eight bytes.
func decodeUint(buf []byte, order binary.ByteOrder) uint64 {
	var v uint64
	if order == binary.BigEndian {
		for _, b := range buf {
			v = v<<8 | uint64(b)
		}
		return v
	}
	for i := len(buf) - 1; i >= 0; i-- {
		v = v<<8 | uint64(buf[i])
	}
	return v
}

// partition returns everything before the first NUL byte.
func partition(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

func (d *decoder) section(sec int, tag string) error {
	if _, err := d.r.Seek(d.seek[sec], io.SeekStart); err != nil {
		return malformed("bad section offset", err)
	}
	return d.expect(tag)
}

func (d *decoder) readHeader() error {
	if _, err := d.r.Seek(0, io.SeekStart); err != nil {
		return malformed("not seekable", err)
	}
	if err := d.expect("<stata_dta><header><release>"); err != nil {
		return gsserrors.Wrap(gsserrors.ErrCodeInvalidRequest, "not a dta file of release 117 or later", err)
	}
	buf, err := d.read(3)
	if err != nil {
		return err
	}
	release, err := strconv.Atoi(string(buf))
	if err != nil {
		return malformed("bad release", err)
	}
	lay, ok := layouts[release]
	if !ok {
		return gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest, "unsupported dta release",
			map[string]any{"release": release, "supported": SupportedReleases()})
	}
	d.lay = lay
	d.file.Release = release

	if err = d.expect("</release><byteorder>"); err != nil {
		return err
	}
	if buf, err = d.read(3); err != nil {
		return err
	}
	switch string(buf) {
	case "MSF":
		d.order = binary.BigEndian
		d.file.BigEndian = true
	case "LSF":
		d.order = binary.LittleEndian
	default:
		return malformed(fmt.Sprintf("unknown byte order %q", buf), nil)
	}

	if err = d.expect("</byteorder><K>"); err != nil {
		return err
	}
	nvar, err := d.readUint(lay.nvarLen)
	if err != nil {
		return err
	}
	if err = d.expect("</K><N>"); err != nil {
		return err
	}
	nobs, err := d.readUint(lay.nobsLen)
	if err != nil {
		return err
	}
	if nobs > math.MaxInt32 {
		return malformed("observation count out of range", nil)
	}
	d.nvar, d.nobs = int(nvar), int(nobs)

	if err = d.expect("</N><label>"); err != nil {
		return err
	}
	n, err := d.readUint(lay.labelLen)
	if err != nil {
		return err
	}
	if buf, err = d.read(int(n)); err != nil {
		return err
	}
	d.file.Label = string(buf)

	if err = d.expect("</label><timestamp>"); err != nil {
		return err
	}
	if n, err = d.readUint(1); err != nil {
		return err
	}
	if buf, err = d.read(int(n)); err != nil {
		return err
	}
	d.file.Timestamp = string(buf)

	if err = d.expect("</timestamp></header><map>"); err != nil {
		return err
	}
	for i := range d.seek {
		off, err := d.readUint(8)
		if err != nil {
			return err
		}
		d.seek[i] = int64(off)
	}
	return nil
}

func (d *decoder) readVariableTypes() error {
	if err := d.section(secVariableTypes, "<variable_types>"); err != nil {
		return err
	}
	d.types = make([]int, d.nvar)
	d.file.Variables = make([]Variable, d.nvar)
	for j := range d.types {
		t, err := d.readUint(2)
		if err != nil {
			return err
		}
		name, ok := typeName(int(t))
		if !ok {
			return malformed(fmt.Sprintf("unknown variable type %d", t), nil)
		}
		d.types[j] = int(t)
		d.file.Variables[j].Type = name
	}
	return nil
}

func typeName(t int) (string, bool) {
	switch {
	case t >= 1 && t <= maxStrF:
		return "str" + strconv.Itoa(t), true
	case t == typeStrL:
		return "strL", true
	case t == typeDouble:
		return "double", true
	case t == typeFloat:
		return "float", true
	case t == typeLong:
		return "long", true
	case t == typeInt:
		return "int", true
	case t == typeByte:
		return "byte", true
	}
	return "", false
}

func width(t int) int {
	switch t {
	case typeStrL, typeDouble:
		return 8
	case typeFloat, typeLong:
		return 4
	case typeInt:
		return 2
	case typeByte:
		return 1
	}
	return t
}

func isString(t int) bool {
	return t <= maxStrF || t == typeStrL
}

// fixed reads nvar NUL-padded fields of the given width.
func (d *decoder) fixed(sec int, tag string, size int, set func(j int, s string)) error {
	if err := d.section(sec, tag); err != nil {
		return err
	}
	for j := 0; j < d.nvar; j++ {
		buf, err := d.read(size)
		if err != nil {
			return err
		}
		set(j, partition(buf))
	}
	return nil
}

func (d *decoder) readVarnames() error {
	return d.fixed(secVarnames, "<varnames>", d.lay.nameLen, func(j int, s string) {
		d.file.Variables[j].Name = s
	})
}

func (d *decoder) readFormats() error {
	return d.fixed(secFormats, "<formats>", d.lay.formatLen, func(j int, s string) {
		d.file.Variables[j].Format = s
	})
}

func (d *decoder) readValueLabelNames() error {
	d.vlabel = make([]string, d.nvar)
	return d.fixed(secValueLabelNames, "<value_label_names>", d.lay.nameLen, func(j int, s string) {
		d.vlabel[j] = s
		d.file.Variables[j].ValueLabels = s
	})
}

func (d *decoder) readVariableLabels() error {
	return d.fixed(secVariableLabels, "<variable_labels>", d.lay.varLabelLen, func(j int, s string) {
		d.file.Variables[j].Label = s
	})
}

func (d *decoder) readData() error {
	if err := d.section(secData, "<data>"); err != nil {
		return err
	}
	d.nums = make([][]float64, d.nvar)
	d.miss = make([][]int, d.nvar)
	d.strs = make([][]string, d.nvar)
	d.strls = make([][]strlKey, d.nvar)
	rowWidth := 0
	for j, t := range d.types {
		rowWidth += width(t)
		switch {
		case t == typeStrL:
			d.strls[j] = make([]strlKey, d.nobs)
		case t <= maxStrF:
			d.strs[j] = make([]string, d.nobs)
		default:
			d.nums[j] = make([]float64, d.nobs)
			d.miss[j] = make([]int, d.nobs)
		}
	}

	br := bufio.NewReaderSize(d.r, 1<<16)
	row := make([]byte, rowWidth)
	for i := 0; i < d.nobs; i++ {
		if i%rowsPerCheck == 0 {
			if err := d.canceled(); err != nil {
				return err
			}
		}
		if _, err := io.ReadFull(br, row); err != nil {
			return malformed(fmt.Sprintf("truncated at observation %d", i+1), err)
		}
		pos := 0
		for j, t := range d.types {
			w := width(t)
			cell := row[pos : pos+w]
			pos += w
			switch {
			case t == typeStrL:
				vl := d.lay.strlVLen
				d.strls[j][i] = strlKey{v: decodeUint(cell[:vl], d.order), o: decodeUint(cell[vl:], d.order)}
			case t <= maxStrF:
				d.strs[j][i] = partition(cell)
			default:
				v, bits := d.number(t, cell)
				d.nums[j][i] = v
				d.miss[j][i] = missingIndex(t, v, bits)
			}
		}
	}
	return nil
}

// number decodes a numeric cell and also returns its raw bits.
func (d *decoder) number(t int, cell []byte) (float64, uint64) {
	switch t {
	case typeByte:
		return float64(int8(cell[0])), uint64(cell[0])
	case typeInt:
		u := d.order.Uint16(cell)
		return float64(int16(u)), uint64(u)
	case typeLong:
		u := d.order.Uint32(cell)
		return float64(int32(u)), uint64(u)
	case typeFloat:
		u := d.order.Uint32(cell)
		return float64(math.Float32frombits(u)), uint64(u)
	default:
		u := d.order.Uint64(cell)
		return math.Float64frombits(u), u
	}
}

func (d *decoder) readStrls() error {
	d.gso = map[strlKey]string{}
	if err := d.section(secStrls, "<strls>"); err != nil {
		return err
	}
	for {
		buf, err := d.read(3)
		if err != nil {
			return err
		}
		if string(buf) != "GSO" {
			return nil
		}
		v, err := d.readUint(4)
		if err != nil {
			return err
		}
		o, err := d.readUint(d.lay.gsoOLen)
		if err != nil {
			return err
		}
		kind, err := d.readUint(1)
		if err != nil {
			return err
		}
		n, err := d.readUint(4)
		if err != nil {
			return err
		}
		data, err := d.read(int(n))
		if err != nil {
			return err
		}
		switch kind {
		case gsoASCIIZ:
			d.gso[strlKey{v, o}] = partition(data)
		case gsoBinary:
			d.gso[strlKey{v, o}] = string(data)
		default:
			return malformed(fmt.Sprintf("unknown strL type %d", kind), nil)
		}
	}
}

func (d *decoder) readValueLabels() error {
	d.sets = map[string]*table.LabelSet{}
	if err := d.section(secValueLabels, "<value_labels>"); err != nil {
		return err
	}
	missing := extendedCodes()
	for {
		buf, err := d.read(5)
		if err != nil {
			return err
		}
		if string(buf) != "<lbl>" {
			break
		}
		// table length, redundant with n and txtlen
		if _, err = d.readUint(4); err != nil {
			return err
		}
		if buf, err = d.read(d.lay.nameLen); err != nil {
			return err
		}
		name := partition(buf)
		if _, err = d.read(3); err != nil {
			return err
		}
		n, err := d.readUint(4)
		if err != nil {
			return err
		}
		txtlen, err := d.readUint(4)
		if err != nil {
			return err
		}
		off := make([]uint64, n)
		for k := range off {
			if off[k], err = d.readUint(4); err != nil {
				return err
			}
		}
		val := make([]int32, n)
		for k := range val {
			u, err := d.readUint(4)
			if err != nil {
				return err
			}
			val[k] = int32(uint32(u))
		}
		txt, err := d.read(int(txtlen))
		if err != nil {
			return err
		}
		entries := make([]table.Label, 0, n)
		for k := range val {
			if off[k] >= txtlen {
				return malformed(fmt.Sprintf("label offset out of range in %q", name), nil)
			}
			entries = append(entries, table.Label{Code: float64(val[k]), Text: partition(txt[off[k]:])})
		}
		d.sets[name] = table.NewLabelSet(name, entries, missing)
		if err = d.expect("</lbl>"); err != nil {
			return err
		}
	}
	d.file.LabelSets = d.sets
	return nil
}

func (d *decoder) build() (table.Table, error) {
	cols := make([]table.Column, d.nvar)
	for j, t := range d.types {
		name := d.file.Variables[j].Name
		switch {
		case t == typeStrL:
			values := make([]string, d.nobs)
			for i, key := range d.strls[j] {
				values[i] = d.gso[key]
			}
			cols[j] = table.NewText(name, values, nil)
		case t <= maxStrF:
			cols[j] = table.NewText(name, d.strs[j], nil)
		default:
			cols[j] = d.numericColumn(j, name)
		}
	}
	t, err := table.New(cols...)
	if err != nil {
		return table.Table{}, malformed("inconsistent variables", err)
	}
	return t, nil
}

func (d *decoder) numericColumn(j int, name string) table.Column {
	values := d.nums[j]
	na := make([]bool, d.nobs)
	ls, labelled := d.sets[d.vlabel[j]]
	for i, k := range d.miss[j] {
		switch {
		case k < 0:
		case k > 0 && labelled:
			values[i] = MissingCode(k)
		default:
			na[i] = true
		}
	}
	if labelled {
		return table.NewLabelled(name, values, na, ls)
	}
	return table.NewNumeric(name, values, na)
}
