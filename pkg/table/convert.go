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

package table

import (
	"fmt"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

// ToNumeric converts c to a Numeric column. Labelled columns keep their
// codes, text is parsed, and factors must have numeric levels.
func ToNumeric(c Column) (*Numeric, error) {
	switch v := c.(type) {
	case *Numeric:
		return v, nil
	case *Labelled:
		return v.AsNumeric(), nil
	case *Text:
		return v.AsNumeric(), nil
	case *Factor:
		return v.AsNumeric(), nil
	default:
		return nil, gsserrors.New(gsserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("column %q of kind %s cannot be numeric", c.Name(), c.Kind()))
	}
}

// ToFactor converts c to a Factor. Labelled columns use their labels, text
// uses its sorted distinct values, numbers use their sorted distinct values.
func ToFactor(c Column) (*Factor, error) {
	switch v := c.(type) {
	case *Factor:
		return v, nil
	case *Labelled:
		return v.AsFactor(), nil
	case *Text:
		return FactorFromStrings(v.name, v.values, v.na, nil), nil
	case *Numeric:
		return FactorFromNumeric(v.name, v), nil
	default:
		return nil, gsserrors.New(gsserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("column %q of kind %s cannot be a factor", c.Name(), c.Kind()))
	}
}

// NumericColumn looks up name in t and converts it with ToNumeric.
func NumericColumn(t Table, name string) (*Numeric, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return ToNumeric(c)
}

// FactorColumn looks up name in t and converts it with ToFactor.
func FactorColumn(t Table, name string) (*Factor, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return ToFactor(c)
}
