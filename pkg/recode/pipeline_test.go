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

package recode

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/table"
)

// GSS-style labels with the classic 0/8/9 missing codes.
func likertLabels() *table.LabelSet {
	return table.NewLabelSet("fefam", []table.Label{
		{Code: 0, Text: "IAP"},
		{Code: 1, Text: "STRONGLY AGREE"},
		{Code: 2, Text: "AGREE"},
		{Code: 3, Text: "DISAGREE"},
		{Code: 4, Text: "STRONGLY DISAGREE"},
		{Code: 8, Text: "DON'T KNOW"},
		{Code: 9, Text: "NO ANSWER"},
	}, []float64{0, 8, 9})
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.NumericColumns = []string{"year", "age", "oversamp", "formwt", "wtssall", "sample"}
	cfg.FactorColumns = []string{"sex", "fefam"}
	return cfg
}

func rawTable(t *testing.T) table.Table {
	t.Helper()
	sexLabels := table.NewLabelSet("sex", []table.Label{{Code: 1, Text: "MALE"}, {Code: 2, Text: "FEMALE"}}, nil)
	ageLabels := table.NewLabelSet("age", []table.Label{{Code: 89, Text: "89 OR OLDER"}, {Code: 98, Text: "DON'T KNOW"}}, []float64{98})
	tbl, err := table.New(
		table.NewNumeric("year", []float64{2016, 2016, 2018, 2018, 2018}, nil),
		table.NewLabelled("age", []float64{20, 30, 45, 70, 89}, nil, ageLabels),
		table.NewLabelled("sex", []float64{1, 2, 1, 2, 1}, nil, sexLabels),
		table.NewLabelled("fefam", []float64{1, 2, 3, 4, 8}, nil, likertLabels()),
		table.NewNumeric("oversamp", []float64{1, 1, 1, 1, 0}, []bool{false, false, false, false, true}),
		table.NewNumeric("formwt", []float64{1, 1, 1, 1, 1}, nil),
		table.NewText("wtssall", []string{"0.5", "1", "1.5", "2", "1"}, nil),
		table.NewNumeric("sample", []float64{3, 4, 6, 7, 10}, nil),
	)
	require.NoError(t, err)
	return tbl
}

func cells(c table.Column) []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.String(i)
	}
	return out
}

func column(t *testing.T, tbl table.Table, name string) table.Column {
	t.Helper()
	c, err := tbl.Column(name)
	require.NoError(t, err)
	return c
}

func TestDefaultPipelineSteps(t *testing.T) {
	p, err := Default(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"zap", "numeric", "factor", "capwords", "ageq", "agequint", "year_f",
		"young", "fefam", "fefam_d", "fefam_n", "compwt", "samplerc",
	}, p.Steps())
}

func TestPipelineEndToEnd(t *testing.T) {
	p, err := Default(testConfig())
	require.NoError(t, err)

	raw := rawTable(t)
	out, err := p.Run(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, 5, out.NRow())

	ageq := column(t, out, ColumnAgeQuartile).(*table.Factor)
	assert.Equal(t, []string{"Age 20-30", "Age 30-45", "Age 45-70", "Age 70+"}, ageq.Levels())
	assert.Equal(t, []string{"Age 20-30", "Age 20-30", "Age 30-45", "Age 45-70", "Age 70+"}, cells(ageq))

	quint := column(t, out, ColumnAgeQuintile).(*table.Factor)
	assert.Len(t, quint.Levels(), 5)
	assert.Equal(t, "Age 20-28", quint.Levels()[0])
	assert.Equal(t, "Age 73.8+", quint.Levels()[4])
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, quint.Code(i), "one age per quintile")
	}

	yearF := column(t, out, ColumnYearFactor).(*table.Factor)
	assert.Equal(t, []string{"2016", "2018"}, yearF.Levels())

	assert.Equal(t, []string{"Yes", "No", "No", "No", "No"}, cells(column(t, out, ColumnYoung)))

	sex := column(t, out, "sex").(*table.Factor)
	assert.Equal(t, []string{"Male", "Female"}, sex.Levels())

	fefam := column(t, out, "fefam").(*table.Factor)
	assert.Equal(t, []string{"Strongly Agree", "Agree", "Disagree", "Strongly Disagree"}, fefam.Levels())
	assert.True(t, fefam.IsNA(4), "don't know zapped")

	assert.Equal(t, []string{"Agree", "Agree", "Disagree", "Disagree", ""}, cells(column(t, out, ColumnBinary)))
	assert.Equal(t, []string{"0", "0", "1", "1", ""}, cells(column(t, out, ColumnBinaryCode)))
	assert.Equal(t, []string{"0.5", "1", "1.5", "2", ""}, cells(column(t, out, ColumnCompositeWt)))
	assert.Equal(t, []string{"3", "3", "6", "6", "10"}, cells(column(t, out, ColumnSampleRC)))

	age := column(t, out, "age")
	assert.Equal(t, table.KindNumeric, age.Kind())

	rawFefam := column(t, raw, "fefam")
	assert.Equal(t, table.KindLabelled, rawFefam.Kind(), "raw table untouched")
	assert.False(t, rawFefam.IsNA(4))
}

func TestBinaryDomain(t *testing.T) {
	levels := []string{"Strongly Agree", "Agree", "Disagree", "Strongly Disagree", "Iap", "Don't Know", "No Answer", "Neither"}
	values := append([]string(nil), levels...)
	tbl := table.MustNew(table.FactorFromStrings("fefam", values, nil, levels))

	cfg := DefaultConfig()
	p := New(
		NonSubstantiveStep("fefam", cfg.NonSubstantive),
		BinaryStep("fefam", cfg.Collapse, cfg.AgreeLevel, cfg.DisagreeLevel),
		BinaryCodeStep(cfg.AgreeLevel, cfg.DisagreeLevel),
	)
	out, err := p.Run(context.Background(), tbl)
	require.NoError(t, err)

	d := column(t, out, ColumnBinary).(*table.Factor)
	assert.Equal(t, []string{"Agree", "Disagree"}, d.Levels())
	for i := 0; i < d.Len(); i++ {
		s, ok := d.At(i)
		if ok {
			assert.Contains(t, []string{"Agree", "Disagree"}, s)
		}
	}
	assert.Equal(t, []string{"Agree", "Agree", "Disagree", "Disagree", "", "", "", ""}, cells(d))
	assert.Equal(t, []string{"0", "0", "1", "1", "", "", "", ""}, cells(column(t, out, ColumnBinaryCode)))
}

func TestSampleRecodeDomain(t *testing.T) {
	codes := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 2.5}
	tbl := table.MustNew(table.NewNumeric("sample", codes, nil))
	out, err := New(SampleRecodeStep("sample", DefaultConfig().SamplePools)).Run(context.Background(), tbl)
	require.NoError(t, err)

	rc := column(t, out, ColumnSampleRC).(*table.Numeric)
	for i, in := range codes {
		want := in
		switch in {
		case 3, 4:
			want = 3
		case 6, 7:
			want = 6
		}
		got, ok := rc.At(i)
		require.True(t, ok)
		assert.Equal(t, want, got, "sample %v", in)
	}
}

func TestCompositeWeightProduct(t *testing.T) {
	tbl := table.MustNew(
		table.NewNumeric("oversamp", []float64{1, 2, 0.5, 1}, []bool{false, false, false, true}),
		table.NewNumeric("formwt", []float64{1, 1, 2, 1}, nil),
		table.NewNumeric("wtssall", []float64{0.9, 1.1, 3, 1}, nil),
	)
	out, err := New(CompositeWeightStep("oversamp", "formwt", "wtssall")).Run(context.Background(), tbl)
	require.NoError(t, err)

	w := column(t, out, ColumnCompositeWt).(*table.Numeric)
	for i, want := range []float64{0.9, 2.2, 3} {
		got, ok := w.At(i)
		require.True(t, ok)
		assert.InDelta(t, want, got, 1e-12)
	}
	assert.True(t, w.IsNA(3))
}

func TestYoungMissingAge(t *testing.T) {
	tbl := table.MustNew(table.NewNumeric("age", []float64{25, 26, 0}, []bool{false, false, true}))
	out, err := New(YoungStep("age", 26)).Run(context.Background(), tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"Yes", "No", ""}, cells(column(t, out, ColumnYoung)))
}

func TestNumericConversionFailureIsNA(t *testing.T) {
	tbl := table.MustNew(table.NewText("wtssall", []string{"1.2", "n/a"}, nil))
	out, err := New(NumericStep([]string{"wtssall"})).Run(context.Background(), tbl)
	require.NoError(t, err)
	c := column(t, out, "wtssall")
	assert.False(t, c.IsNA(0))
	assert.True(t, c.IsNA(1))
}

func TestMissingColumnIsConfigurationError(t *testing.T) {
	p, err := Default(testConfig())
	require.NoError(t, err)

	raw := rawTable(t).Drop("wtssall")
	out, err := p.Run(context.Background(), raw)
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeConfiguration, gsserrors.CodeOf(err))
	assert.Contains(t, err.Error(), "wtssall")
	assert.Equal(t, 0, out.NCol(), "no partial table")

	var se *gsserrors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "numeric", se.Context["step"])
}

func TestRunCanceled(t *testing.T) {
	p, err := Default(testConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx, rawTable(t))
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeTimeout, gsserrors.CodeOf(err))
}

func TestStepErrorWrapped(t *testing.T) {
	boom := Step{Name: "boom", Apply: func(table.Table) (table.Table, error) {
		return table.Table{}, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "bad")
	}}
	_, err := New(boom).Run(context.Background(), table.Table{})
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeInvalidRequest, gsserrors.CodeOf(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"empty age", func(c *Config) { c.AgeColumn = "" }, true},
		{"same levels", func(c *Config) { c.DisagreeLevel = c.AgreeLevel }, true},
		{"bad collapse target", func(c *Config) { c.Collapse = map[string]string{"Strongly Agree": "Yes"} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				assert.Equal(t, gsserrors.ErrCodeConfiguration, gsserrors.CodeOf(err))
				_, derr := Default(cfg)
				assert.Error(t, derr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recode.yaml")
	content := `
factorColumns: [sex, race]
youngAge: 30
samplePools:
  4: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sex", "race"}, cfg.FactorColumns)
	assert.Equal(t, float64(30), cfg.YoungAge)
	assert.Equal(t, map[int]int{4: 3}, cfg.SamplePools)
	assert.Equal(t, "age", cfg.AgeColumn, "defaults fill unset fields")
	assert.Equal(t, DefaultConfig().NumericColumns, cfg.NumericColumns)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeConfiguration, gsserrors.CodeOf(err))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("collapse: {Strongly Agree: Maybe}\n"), 0o600))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}
