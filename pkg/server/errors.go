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


package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/serializer"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code      string         `json:"code" yaml:"code"`
	Message   string         `json:"message" yaml:"message"`
	Details   map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	RequestID string         `json:"requestId" yaml:"requestId"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Retryable bool           `json:"retryable" yaml:"retryable"`
}

var statusByCode = map[gsserrors.ErrorCode]int{
	gsserrors.ErrCodeNotFound:          http.StatusNotFound,
	gsserrors.ErrCodeInvalidRequest:    http.StatusBadRequest,
	gsserrors.ErrCodeConfiguration:     http.StatusInternalServerError,
	gsserrors.ErrCodeInternal:          http.StatusInternalServerError,
	gsserrors.ErrCodeTimeout:           http.StatusGatewayTimeout,
	gsserrors.ErrCodeUnavailable:       http.StatusServiceUnavailable,
	gsserrors.ErrCodeMethodNotAllowed:  http.StatusMethodNotAllowed,
	gsserrors.ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
}

// HTTPStatusFromCode maps a structured error code to an HTTP status.
// Unknown codes map to 500.
func HTTPStatusFromCode(code gsserrors.ErrorCode) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func retryable(code gsserrors.ErrorCode) bool {
	switch code {
	case gsserrors.ErrCodeTimeout, gsserrors.ErrCodeUnavailable, gsserrors.ErrCodeRateLimitExceeded:
		return true
	default:
		return false
	}
}

// WriteError writes an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code gsserrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID := RequestID(r)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr writes err, taking status, code and details from its
// StructuredError when it has one.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error) {
	var se *gsserrors.StructuredError
	if !errors.As(err, &se) {
		WriteError(w, r, http.StatusInternalServerError, gsserrors.ErrCodeInternal, err.Error(), false, nil)
		return
	}
	WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message, retryable(se.Code), se.Context)
}
