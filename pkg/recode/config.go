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
	"fmt"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/serializer"
)

// Output column names.
const (
	ColumnAgeQuartile = "ageq"
	ColumnAgeQuintile = "agequint"
	ColumnYearFactor  = "year_f"
	ColumnYoung       = "young"
	ColumnBinary      = "fefam_d"
	ColumnBinaryCode  = "fefam_n"
	ColumnCompositeWt = "compwt"
	ColumnSampleRC    = "samplerc"
)

// Config names the input columns and level sets used by the default
// pipeline.
type Config struct {
	// NumericColumns are converted to plain numbers in step 2.
	NumericColumns []string `json:"numericColumns" yaml:"numericColumns"`
	// FactorColumns are converted to title-cased factors in steps 3 and 4.
	FactorColumns []string `json:"factorColumns" yaml:"factorColumns"`

	AgeColumn  string `json:"ageColumn" yaml:"ageColumn"`
	YearColumn string `json:"yearColumn" yaml:"yearColumn"`
	// YoungAge is the exclusive upper age bound of "young".
	YoungAge float64 `json:"youngAge" yaml:"youngAge"`

	// LikertColumn is the agreement item recoded in steps 9 to 11.
	LikertColumn string `json:"likertColumn" yaml:"likertColumn"`
	// NonSubstantive levels of LikertColumn become NA.
	NonSubstantive []string `json:"nonSubstantive" yaml:"nonSubstantive"`
	// Collapse maps four-point levels onto AgreeLevel and DisagreeLevel.
	Collapse      map[string]string `json:"collapse" yaml:"collapse"`
	AgreeLevel    string            `json:"agreeLevel" yaml:"agreeLevel"`
	DisagreeLevel string            `json:"disagreeLevel" yaml:"disagreeLevel"`

	OversampColumn string `json:"oversampColumn" yaml:"oversampColumn"`
	FormwtColumn   string `json:"formwtColumn" yaml:"formwtColumn"`
	WtssallColumn  string `json:"wtssallColumn" yaml:"wtssallColumn"`

	SampleColumn string `json:"sampleColumn" yaml:"sampleColumn"`
	// SamplePools maps a sample code to the code it is pooled with.
	// Codes not listed pass through.
	SamplePools map[int]int `json:"samplePools" yaml:"samplePools"`
}

// DefaultConfig returns the column names of the GSS cumulative file.
func DefaultConfig() Config {
	return Config{
		NumericColumns: []string{"year", "id", "age", "vpsu", "vstrat", "oversamp", "formwt", "wtssall", "sample"},
		FactorColumns:  []string{"sex", "race", "region", "degree", "polviews", "fefam"},
		AgeColumn:      "age",
		YearColumn:     "year",
		YoungAge:       26,
		LikertColumn:   "fefam",
		NonSubstantive: []string{"Iap", "Inapplicable", "Don't Know", "No Answer"},
		Collapse: map[string]string{
			"Strongly Agree":    "Agree",
			"Strongly Disagree": "Disagree",
		},
		AgreeLevel:     "Agree",
		DisagreeLevel:  "Disagree",
		OversampColumn: "oversamp",
		FormwtColumn:   "formwt",
		WtssallColumn:  "wtssall",
		SampleColumn:   "sample",
		SamplePools:    map[int]int{4: 3, 7: 6},
	}
}

// LoadConfig reads a Config from a local path or URL. Fields left empty in
// the file keep their DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	loaded, err := serializer.FromFile[Config](path)
	if err != nil {
		return Config{}, gsserrors.WrapWithContext(gsserrors.ErrCodeConfiguration,
			"failed to load recode config", err, map[string]any{"path": path})
	}
	cfg := loaded.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.NumericColumns == nil {
		c.NumericColumns = d.NumericColumns
	}
	if c.FactorColumns == nil {
		c.FactorColumns = d.FactorColumns
	}
	if c.AgeColumn == "" {
		c.AgeColumn = d.AgeColumn
	}
	if c.YearColumn == "" {
		c.YearColumn = d.YearColumn
	}
	if c.YoungAge == 0 {
		c.YoungAge = d.YoungAge
	}
	if c.LikertColumn == "" {
		c.LikertColumn = d.LikertColumn
	}
	if c.NonSubstantive == nil {
		c.NonSubstantive = d.NonSubstantive
	}
	if c.Collapse == nil {
		c.Collapse = d.Collapse
	}
	if c.AgreeLevel == "" {
		c.AgreeLevel = d.AgreeLevel
	}
	if c.DisagreeLevel == "" {
		c.DisagreeLevel = d.DisagreeLevel
	}
	if c.OversampColumn == "" {
		c.OversampColumn = d.OversampColumn
	}
	if c.FormwtColumn == "" {
		c.FormwtColumn = d.FormwtColumn
	}
	if c.WtssallColumn == "" {
		c.WtssallColumn = d.WtssallColumn
	}
	if c.SampleColumn == "" {
		c.SampleColumn = d.SampleColumn
	}
	if c.SamplePools == nil {
		c.SamplePools = d.SamplePools
	}
	return c
}

// Validate checks that every required name is set.
func (c Config) Validate() error {
	required := map[string]string{
		"ageColumn":      c.AgeColumn,
		"yearColumn":     c.YearColumn,
		"likertColumn":   c.LikertColumn,
		"agreeLevel":     c.AgreeLevel,
		"disagreeLevel":  c.DisagreeLevel,
		"oversampColumn": c.OversampColumn,
		"formwtColumn":   c.FormwtColumn,
		"wtssallColumn":  c.WtssallColumn,
		"sampleColumn":   c.SampleColumn,
	}
	for field, v := range required {
		if v == "" {
			return gsserrors.NewWithContext(gsserrors.ErrCodeConfiguration,
				fmt.Sprintf("recode config: %s is empty", field), map[string]any{"field": field})
		}
	}
	if c.AgreeLevel == c.DisagreeLevel {
		return gsserrors.New(gsserrors.ErrCodeConfiguration,
			"recode config: agreeLevel and disagreeLevel must differ")
	}
	for from, to := range c.Collapse {
		if to != c.AgreeLevel && to != c.DisagreeLevel {
			return gsserrors.NewWithContext(gsserrors.ErrCodeConfiguration,
				fmt.Sprintf("recode config: collapse target %q for %q is not a binary level", to, from),
				map[string]any{"level": from})
		}
	}
	return nil
}
