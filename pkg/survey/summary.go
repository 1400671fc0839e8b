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


package survey

// Summary describes the structure of a design.
type Summary struct {
	Rows            int       `json:"rows" yaml:"rows"`
	Strata          int       `json:"strata" yaml:"strata"`
	PSUs            int       `json:"psus" yaml:"psus"`
	Singletons      int       `json:"singletons" yaml:"singletons"`
	SingletonStrata []string  `json:"singletonStrata,omitempty" yaml:"singletonStrata,omitempty"`
	WeightTotal     float64   `json:"weightTotal" yaml:"weightTotal"`
	Nest            bool      `json:"nest" yaml:"nest"`
	LonelyPSU       LonelyPSU `json:"lonelyPSU,omitempty" yaml:"lonelyPSU,omitempty"`
}

// Summary counts rows, strata, sampling units and singleton strata (strata
// holding exactly one sampling unit), and totals the weights.
func (d *Design) Summary() Summary {
	levels := d.strata.Levels()
	units := make([]map[string]struct{}, len(levels))
	for i := range units {
		units[i] = map[string]struct{}{}
	}
	all := map[string]struct{}{}
	total := 0.0
	for i := 0; i < d.data.NRow(); i++ {
		units[d.strata.Code(i)][d.psu[i]] = struct{}{}
		all[d.PSU(i)] = struct{}{}
		total += d.Weight(i)
	}

	s := Summary{
		Rows:        d.data.NRow(),
		Strata:      len(levels),
		PSUs:        len(all),
		WeightTotal: total,
		Nest:        d.spec.Nest,
	}
	for k, u := range units {
		if len(u) == 1 {
			s.SingletonStrata = append(s.SingletonStrata, levels[k])
		}
	}
	s.Singletons = len(s.SingletonStrata)
	if mode, ok := LonelyPSUOption(); ok {
		s.LonelyPSU = mode
	}
	return s
}
