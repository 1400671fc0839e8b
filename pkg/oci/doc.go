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


// Package oci distributes GSS data files as OCI artifacts using ORAS.
//
// Each dataset file becomes one layer whose title annotation is the file
// name, so a pulled artifact lands as plain files that the dataset loader
// reads directly.
//
// # Usage
//
// Package locally, then push:
//
//	res, err := oci.Package(ctx, oci.PackageOptions{
//	    SourceDir: dataDir,
//	    OutputDir: "./gss-layout",
//	    Tag:       "2022",
//	})
//	if err != nil {
//	    return err
//	}
//	_, err = oci.PushFromStore(ctx, res.StorePath, oci.PushOptions{
//	    Registry:   "ghcr.io",
//	    Repository: "gssr/gss",
//	    Tag:        "2022",
//	})
//
// Fetch into the data directory:
//
//	_, err := oci.Pull(ctx, oci.PullOptions{
//	    Reference: "oci://ghcr.io/gssr/gss:2022",
//	    DestDir:   dataDir,
//	})
//
// # Authentication
//
// Credentials come from the standard Docker configuration
// (~/.docker/config.json) through the ORAS credentials package.
//
// # Artifact Type
//
// Artifacts carry the type "application/vnd.gssr.dataset". Pull refuses
// manifests of any other type.
package oci
