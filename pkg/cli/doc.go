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

// Package cli implements the rgbrelay command line tool.
//
// # Commands
//
// serve - run the relay service:
//
//	rgbrelay serve --port 5000 --downstream-url http://127.0.0.1:8080/rgb
//
// Configuration is layered: defaults, then --config (file path or
// cm://namespace/name), then environment variables, then flags.
//
// render - print the CSS color for a template:
//
//	rgbrelay render --template "rgb({red}, {green}, {blue})" --red 10 --green 20 --blue 30
//
// Prints rgb(10, 20, 30). With --format json or yaml the template, the
// components and the rendered value are printed as a document.
//
// send - post a payload file to a running relay:
//
//	rgbrelay send --url http://localhost:5000/rgb --payload payload.yaml
//
// The payload may be JSON or YAML. The response status and body are
// printed; a non-2xx status makes the command fail.
//
// # Global Flags
//
//	--log-level    debug, info, warn or error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
package cli
