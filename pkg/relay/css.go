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

package relay

import (
	"maps"
	"strconv"
	"strings"
)

// FormatCSS replaces every {red}, {green} and {blue} in template with the
// decimal value of the matching component. Nothing else is touched.
func FormatCSS(template string, red, green, blue int) string {
	return strings.NewReplacer(
		PlaceholderRed, strconv.Itoa(red),
		PlaceholderGreen, strconv.Itoa(green),
		PlaceholderBlue, strconv.Itoa(blue),
	).Replace(template)
}

// Outgoing builds the downstream payload: a copy of p without the template
// and components, plus the rendered background color. p is not modified.
func Outgoing(p Payload, c Color) Payload {
	out := make(Payload, len(p))
	maps.Copy(out, p)
	delete(out, KeyBackgroundTemplate)
	delete(out, KeyRed)
	delete(out, KeyGreen)
	delete(out, KeyBlue)
	out[KeyBackgroundColor] = c.CSS()
	return out
}
