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
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NVIDIA/rgb-relay/pkg/defaults"
	"github.com/NVIDIA/rgb-relay/pkg/errors"
	"github.com/NVIDIA/rgb-relay/pkg/serializer"
	"github.com/NVIDIA/rgb-relay/pkg/server"
)

// Handler serves the relay endpoint.
type Handler struct {
	forwarder      *Forwarder
	messages       Messages
	maxBodyBytes   int64
	handlerTimeout time.Duration
}

// NewHandler validates cfg and creates a Handler.
func NewHandler(cfg Config) (*Handler, error) {
	if err := ValidateDownstreamURL(cfg.DownstreamURL); err != nil {
		return nil, err
	}

	client := cfg.Client
	if client == nil {
		client = NewHTTPClient(cfg.Timeout)
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaults.MaxRequestBodyBytes
	}

	handlerTimeout := cfg.HandlerTimeout
	if handlerTimeout <= 0 {
		handlerTimeout = defaults.RelayHandlerTimeout
	}

	return &Handler{
		forwarder:      NewForwarder(cfg.DownstreamURL, client),
		messages:       cfg.Messages.WithDefaults(),
		maxBodyBytes:   maxBody,
		handlerTimeout: handlerTimeout,
	}, nil
}

// ValidateDownstreamURL requires an absolute http or https URL with a host.
func ValidateDownstreamURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "downstream URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid downstream URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "downstream URL must use http or https",
			map[string]any{"url": raw})
	}
	if u.Host == "" {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "downstream URL must include a host",
			map[string]any{"url": raw})
	}
	return nil
}

// DownstreamURL returns the configured downstream URL.
func (h *Handler) DownstreamURL() string {
	return h.forwarder.URL()
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Handle(w, r)
}

// Handle processes one relay request and writes a plain text response.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		relayOutcomes.WithLabelValues(outcomeMethod).Inc()
		w.Header().Set("Allow", http.MethodPost)
		serializer.RespondText(w, http.StatusMethodNotAllowed, h.messages.Prefix+h.messages.MethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.handlerTimeout)
	defer cancel()

	err := h.process(ctx, w, r)
	h.respond(ctx, w, err)
}

// process decodes, validates and relays the request body.
func (h *Handler) process(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := checkContentType(r.Header.Get("Content-Type")); err != nil {
		return err
	}

	payload, err := h.decode(w, r)
	if err != nil {
		return err
	}

	color, err := Validate(payload)
	if err != nil {
		return err
	}

	return h.forwarder.Relay(ctx, Outgoing(payload, color))
}

// decode reads a single JSON object from the body, keeping numbers as json.Number.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Payload, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.UseNumber()

	var payload Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, decodeError(err, h.maxBodyBytes)
	}
	if payload == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "payload must be a JSON object")
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !stderrors.Is(err, io.EOF) {
		if err != nil {
			return nil, decodeError(err, h.maxBodyBytes)
		}
		return nil, errors.New(errors.ErrCodeInvalidRequest, "unexpected data after JSON object")
	}

	return payload, nil
}

// checkContentType accepts an absent Content-Type, application/json and
// any +json media type.
func checkContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil && (mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")) {
		return nil
	}
	return errors.NewWithContext(errors.ErrCodeUnsupportedMediaType, "unsupported content type",
		map[string]any{"contentType": contentType})
}

func decodeError(err error, limit int64) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.WrapWithContext(errors.ErrCodePayloadTooLarge, "request body too large", err,
			map[string]any{"limit": limit})
	}
	return errors.Wrap(errors.ErrCodeInvalidRequest, "failed to decode JSON payload", err)
}

// respond maps the outcome of process to the HTTP response.
func (h *Handler) respond(ctx context.Context, w http.ResponseWriter, err error) {
	m := h.messages

	if err == nil {
		relayOutcomes.WithLabelValues(outcomeSuccess).Inc()
		slog.Info("payload relayed",
			"requestID", server.RequestIDFromContext(ctx),
			"downstream", h.forwarder.URL(),
		)
		serializer.RespondText(w, http.StatusOK, m.Success)
		return
	}

	var verr *ValidationError
	if stderrors.As(err, &verr) {
		relayOutcomes.WithLabelValues(outcomeInvalid).Inc()
		validationFailures.WithLabelValues(string(verr.Cause)).Inc()
		slog.Debug("payload rejected", "cause", verr.Cause, "field", verr.Field)
		serializer.RespondText(w, http.StatusUnprocessableEntity, m.Prefix+m.ForCause(verr.Cause))
		return
	}

	var serr *DownstreamStatusError
	if stderrors.As(err, &serr) {
		relayOutcomes.WithLabelValues(outcomeDownstreamStatus).Inc()
		slog.Warn("downstream returned error status",
			"downstream", h.forwarder.URL(),
			"status", serr.StatusCode,
		)
		contentType := serr.ContentType
		if contentType == "" && len(serr.Body) > 0 {
			contentType = serializer.ContentTypeText
		}
		serializer.RespondRaw(w, serr.StatusCode, contentType, serr.Body)
		return
	}

	code, _ := errors.CodeOf(err)
	switch code {
	case errors.ErrCodeUnavailable:
		relayOutcomes.WithLabelValues(outcomeUnavailable).Inc()
		slog.Warn("downstream unavailable", "downstream", h.forwarder.URL(), "error", err)
		serializer.RespondText(w, http.StatusServiceUnavailable, m.DownstreamUnavailable)
	case errors.ErrCodePayloadTooLarge:
		relayOutcomes.WithLabelValues(outcomeTooLarge).Inc()
		serializer.RespondText(w, http.StatusRequestEntityTooLarge, m.Prefix+m.PayloadTooLarge)
	case errors.ErrCodeUnsupportedMediaType:
		relayOutcomes.WithLabelValues(outcomeMediaType).Inc()
		slog.Debug("unsupported content type", "error", err)
		serializer.RespondText(w, http.StatusUnsupportedMediaType, m.Prefix+m.UnsupportedMediaType)
	case errors.ErrCodeInvalidRequest:
		relayOutcomes.WithLabelValues(outcomeMalformed).Inc()
		slog.Debug("malformed payload", "error", err)
		serializer.RespondText(w, http.StatusBadRequest, m.Prefix+m.MalformedPayload)
	default:
		relayOutcomes.WithLabelValues(outcomeInternal).Inc()
		slog.Error("relay failed", "error", err)
		serializer.RespondText(w, http.StatusInternalServerError, m.Prefix+m.Internal)
	}
}

// String describes the handler for logs.
func (h *Handler) String() string {
	return fmt.Sprintf("relay(downstream=%s, maxBody=%d, timeout=%s)",
		h.forwarder.URL(), h.maxBodyBytes, h.handlerTimeout)
}
