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


package dataset

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gssr_dataset_loads_total",
			Help: "Total number of dataset loads from disk by result",
		},
		[]string{"dataset", "result"},
	)
	datasetLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gssr_dataset_load_duration_seconds",
			Help:    "Time spent reading and validating a dataset",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"dataset"},
	)
	datasetCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gssr_dataset_cache_hits_total",
			Help: "Total number of dataset loads served from a loader cache",
		},
		[]string{"dataset"},
	)
)
