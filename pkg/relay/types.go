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
	"net/http"
	"time"

	"github.com/NVIDIA/rgb-relay/pkg/defaults"
)

// Payload keys.
const (
	KeySessionID          = "sessionId"
	KeyTimestamp          = "timestamp"
	KeyBackgroundTemplate = "cssBackgroundColorTemplate"
	KeyBackgroundColor    = "cssBackgroundColor"
	KeyTextTemplate       = "cssTextColorTemplate"
	KeyText               = "text"
	KeyRed                = "red"
	KeyGreen              = "green"
	KeyBlue               = "blue"
)

// Template placeholders substituted by FormatCSS.
const (
	PlaceholderRed   = "{red}"
	PlaceholderGreen = "{green}"
	PlaceholderBlue  = "{blue}"
)

// Valid range for a color component.
const (
	MinComponent = 0
	MaxComponent = 255
)

// DefaultDownstreamURL is the downstream endpoint used when none is configured.
const DefaultDownstreamURL = "http://127.0.0.1:8080/rgb"

// Payload is a decoded JSON object. Numbers decoded by the handler are
// json.Number so they are forwarded with their original text.
type Payload map[string]any

// Has reports whether key is present, including with a null value.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Color is the validated rendering input of a payload.
type Color struct {
	Template string `json:"template" yaml:"template"`
	Red      int    `json:"red" yaml:"red"`
	Green    int    `json:"green" yaml:"green"`
	Blue     int    `json:"blue" yaml:"blue"`
}

// CSS renders the color template.
func (c Color) CSS() string {
	return FormatCSS(c.Template, c.Red, c.Green, c.Blue)
}

// Messages holds the response texts. Empty fields fall back to
// DefaultMessages.
type Messages struct {
	Prefix                     string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	MissingSessionID           string `json:"missingSessionId,omitempty" yaml:"missingSessionId,omitempty"`
	MissingTimestamp           string `json:"missingTimestamp,omitempty" yaml:"missingTimestamp,omitempty"`
	MissingTemplate            string `json:"missingTemplate,omitempty" yaml:"missingTemplate,omitempty"`
	MissingRGBValuesInTemplate string `json:"missingRgbValuesInTemplate,omitempty" yaml:"missingRgbValuesInTemplate,omitempty"`
	MissingRGBValues           string `json:"missingRgbValues,omitempty" yaml:"missingRgbValues,omitempty"`
	RGBValueOutOfRange         string `json:"rgbValueOutOfRange,omitempty" yaml:"rgbValueOutOfRange,omitempty"`
	MalformedPayload           string `json:"malformedPayload,omitempty" yaml:"malformedPayload,omitempty"`
	PayloadTooLarge            string `json:"payloadTooLarge,omitempty" yaml:"payloadTooLarge,omitempty"`
	MethodNotAllowed           string `json:"methodNotAllowed,omitempty" yaml:"methodNotAllowed,omitempty"`
	UnsupportedMediaType       string `json:"unsupportedMediaType,omitempty" yaml:"unsupportedMediaType,omitempty"`
	Internal                   string `json:"internal,omitempty" yaml:"internal,omitempty"`
	DownstreamUnavailable      string `json:"downstreamUnavailable,omitempty" yaml:"downstreamUnavailable,omitempty"`
	Success                    string `json:"success,omitempty" yaml:"success,omitempty"`
}

// DefaultMessages returns the built-in response texts.
func DefaultMessages() Messages {
	return Messages{
		Prefix:                     "The Horror! ",
		MissingSessionID:           "Missing session id.",
		MissingTimestamp:           "Missing timestamp.",
		MissingTemplate:            "Missing background color css template.",
		MissingRGBValuesInTemplate: "Missing one or more RGB values in the template.",
		MissingRGBValues:           "Missing one or more RGB values.",
		RGBValueOutOfRange:         "The RGB values should be integers between 0 and 255.",
		MalformedPayload:           "Malformed JSON payload.",
		PayloadTooLarge:            "Payload too large.",
		MethodNotAllowed:           "Method not allowed.",
		UnsupportedMediaType:       "Content-Type must be application/json.",
		Internal:                   "Something went wrong.",
		DownstreamUnavailable:      "The java server is sad and not answering any calls :(",
		Success:                    "Java server is up and happily running!",
	}
}

// WithDefaults returns a copy of m with every empty field set from
// DefaultMessages.
func (m Messages) WithDefaults() Messages {
	d := DefaultMessages()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&m.Prefix, d.Prefix)
	fill(&m.MissingSessionID, d.MissingSessionID)
	fill(&m.MissingTimestamp, d.MissingTimestamp)
	fill(&m.MissingTemplate, d.MissingTemplate)
	fill(&m.MissingRGBValuesInTemplate, d.MissingRGBValuesInTemplate)
	fill(&m.MissingRGBValues, d.MissingRGBValues)
	fill(&m.RGBValueOutOfRange, d.RGBValueOutOfRange)
	fill(&m.MalformedPayload, d.MalformedPayload)
	fill(&m.PayloadTooLarge, d.PayloadTooLarge)
	fill(&m.MethodNotAllowed, d.MethodNotAllowed)
	fill(&m.UnsupportedMediaType, d.UnsupportedMediaType)
	fill(&m.Internal, d.Internal)
	fill(&m.DownstreamUnavailable, d.DownstreamUnavailable)
	fill(&m.Success, d.Success)
	return m
}

// ForCause returns the message for a validation cause, without prefix.
func (m Messages) ForCause(cause ValidationCause) string {
	switch cause {
	case CauseMissingSessionID:
		return m.MissingSessionID
	case CauseMissingTimestamp:
		return m.MissingTimestamp
	case CauseMissingTemplate:
		return m.MissingTemplate
	case CauseMissingRGBValuesInTemplate:
		return m.MissingRGBValuesInTemplate
	case CauseMissingRGBValues:
		return m.MissingRGBValues
	case CauseRGBValueOutOfRange:
		return m.RGBValueOutOfRange
	default:
		return string(cause)
	}
}

// Config configures a Handler.
type Config struct {
	// DownstreamURL is the absolute http(s) URL the payload is POSTed to.
	DownstreamURL string

	// Timeout bounds a single downstream call. Zero uses defaults.DownstreamTimeout.
	Timeout time.Duration

	// HandlerTimeout bounds a whole relay request, decode through reply.
	// It must stay below the server write timeout or the caller never sees
	// the response. Zero uses defaults.RelayHandlerTimeout.
	HandlerTimeout time.Duration

	// MaxBodyBytes caps the inbound body. Zero uses defaults.MaxRequestBodyBytes.
	MaxBodyBytes int64

	Messages Messages

	// Client overrides the downstream HTTP client. Timeout is ignored when set.
	Client *http.Client
}

// DefaultConfig returns a Config pointing at DefaultDownstreamURL.
func DefaultConfig() Config {
	return Config{
		DownstreamURL:  DefaultDownstreamURL,
		Timeout:        defaults.DownstreamTimeout,
		HandlerTimeout: defaults.RelayHandlerTimeout,
		MaxBodyBytes:   defaults.MaxRequestBodyBytes,
		Messages:       DefaultMessages(),
	}
}
