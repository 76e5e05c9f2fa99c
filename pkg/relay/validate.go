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
	"encoding/json"
	"strings"
)

// Validate checks p in order and returns the rendering input, or a
// *ValidationError for the first rule that fails.
func Validate(p Payload) (Color, error) {
	if !p.Has(KeySessionID) {
		return Color{}, &ValidationError{Cause: CauseMissingSessionID, Field: KeySessionID}
	}
	if !p.Has(KeyTimestamp) {
		return Color{}, &ValidationError{Cause: CauseMissingTimestamp, Field: KeyTimestamp}
	}

	raw, ok := p[KeyBackgroundTemplate]
	if !ok {
		return Color{}, &ValidationError{Cause: CauseMissingTemplate, Field: KeyBackgroundTemplate}
	}
	template, isString := raw.(string)
	if !isString || !HasPlaceholders(template) {
		return Color{}, &ValidationError{Cause: CauseMissingRGBValuesInTemplate, Field: KeyBackgroundTemplate}
	}

	if !p.Has(KeyRed) || !p.Has(KeyGreen) || !p.Has(KeyBlue) {
		return Color{}, &ValidationError{Cause: CauseMissingRGBValues}
	}

	c := Color{Template: template}
	for _, comp := range []struct {
		key string
		dst *int
	}{
		{KeyRed, &c.Red},
		{KeyGreen, &c.Green},
		{KeyBlue, &c.Blue},
	} {
		v, ok := componentValue(p[comp.key])
		if !ok {
			return Color{}, &ValidationError{Cause: CauseRGBValueOutOfRange, Field: comp.key}
		}
		*comp.dst = v
	}

	return c, nil
}

// HasPlaceholders reports whether template contains all three placeholders.
func HasPlaceholders(template string) bool {
	return strings.Contains(template, PlaceholderRed) &&
		strings.Contains(template, PlaceholderGreen) &&
		strings.Contains(template, PlaceholderBlue)
}

// ValidComponent reports whether v is within [MinComponent, MaxComponent].
func ValidComponent(v int64) bool {
	return v >= MinComponent && v <= MaxComponent
}

// componentValue accepts integral JSON numbers and Go integers in range.
// Booleans, strings, floats, exponent forms and null are rejected.
func componentValue(v any) (int, bool) {
	var n int64
	switch t := v.(type) {
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, false
		}
		n = i
	case int:
		n = int64(t)
	case int8:
		n = int64(t)
	case int16:
		n = int64(t)
	case int32:
		n = int64(t)
	case int64:
		n = t
	case uint8:
		n = int64(t)
	case uint16:
		n = int64(t)
	case uint32:
		n = int64(t)
	case uint64:
		if t > MaxComponent {
			return 0, false
		}
		n = int64(t)
	case uint:
		if t > MaxComponent {
			return 0, false
		}
		n = int64(t)
	default:
		return 0, false
	}

	if !ValidComponent(n) {
		return 0, false
	}
	return int(n), true
}
