// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
// The segment after the last dot is the reason used for classification.
type Code string

const (
	CodeStoreEntityNotFound     Code = "store.entity.not_found"
	CodeStoreDatabaseFailure    Code = "store.database.failure"
	CodeStoreBackendUnsupported Code = "store.backend.unsupported"
	CodeStoreConflict           Code = "store.conflict"
	CodeStoreInvalidInput       Code = "store.invalid_input"
	CodeStoreGraphNotEmpty      Code = "store.graph.delete.conflict"
	CodeStoreTenantNotEmpty     Code = "store.tenant.delete.conflict"
	CodeStoreBatchConflict      Code = "store.batch.create.conflict"
	CodeStoreDataInvalid        Code = "store.data.invalid_format"

	CodeTraversalSearchInvalid   Code = "traversal.search.invalid_input"
	CodeTraversalEndpointMissing Code = "traversal.endpoint.not_found"

	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeCLISetupFailure Code = "cli.setup.failure"
	CodeCLIInputInvalid Code = "cli.input.invalid"

	CodeInternalFailure Code = "internal.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldTenantID(value string) Attr {
	return Field("tenant_guid", value)
}

func FieldGraphID(value string) Attr {
	return Field("graph_guid", value)
}

func FieldGUID(value string) Attr {
	return Field("guid", value)
}

func FieldEntity(value string) Attr {
	return Field("entity", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

// With adds structured fields to an existing error chain.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeInternalFailure
	}

	return oops.Code(code).With(flatten(fields)...).Wrap(err)
}

// NotFound reports that a referenced entity does not exist.
func NotFound(entity, guid string, fields ...Attr) error {
	fields = append(fields, FieldEntity(entity), FieldGUID(guid))
	return New(CodeStoreEntityNotFound, entity+" "+guid+" does not exist", fields...)
}

// InvalidInput reports a malformed argument detected before any store access.
func InvalidInput(format string, args ...any) error {
	return Errorf(CodeStoreInvalidInput, format, args...)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsConflict(err error) bool {
	return reason(CodeOf(err)) == "conflict"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format"
}

func HTTPStatus(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	case IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Envelope is the JSON error body handed to HTTP clients.
type Envelope struct {
	Error       Code           `json:"error"`
	Description string         `json:"description"`
	Context     map[string]any `json:"context,omitempty"`
}

// ToEnvelope converts err into its wire representation. Statement text is
// dropped from the context so SQL never leaves the process.
func ToEnvelope(err error) Envelope {
	if err == nil {
		return Envelope{}
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeInternalFailure
	}

	env := Envelope{Error: code, Description: err.Error()}
	if oopsErr, ok := oops.AsOops(err); ok {
		env.Description = oopsErr.Error()
	}

	for k, v := range FieldsOf(err) {
		if k == "statement" {
			continue
		}
		if env.Context == nil {
			env.Context = make(map[string]any)
		}
		env.Context[k] = v
	}
	return env
}

func Join(errs ...error) error {
	joined := stderrors.Join(errs...)
	if joined == nil {
		return nil
	}
	return oops.Code(CodeInternalFailure).Wrap(joined)
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
