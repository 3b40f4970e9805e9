// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package validation provides struct validation using go-playground/validator
// v10 through a thread-safe singleton instance. Field errors translate to
// human-readable messages suitable for API responses.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error returns the human-readable message.
func (e FieldError) Error() string {
	return e.Message
}

// RequestError collects the field errors of one failed validation.
type RequestError struct {
	fields []FieldError
}

// Fields returns the individual field errors.
func (re *RequestError) Fields() []FieldError {
	return re.fields
}

// Error joins all field messages.
func (re *RequestError) Error() string {
	if len(re.fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(re.fields))
	for i, fe := range re.fields {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// seasons are the accepted travel season names.
var seasons = map[string]bool{
	"spring": true,
	"summer": true,
	"fall":   true,
	"winter": true,
}

// Get returns the singleton validator. Initialization is lazy and
// thread-safe; the instance caches struct metadata across calls.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// custom tag: season names
		validate.RegisterValidation("season", func(fl validator.FieldLevel) bool { //nolint:errcheck
			return seasons[strings.ToLower(fl.Field().String())]
		})
	})
	return validate
}

// ValidateVar validates a single value against a tag expression, e.g.
// ValidateVar(trip.Season, "omitempty,season").
func ValidateVar(value interface{}, tag string) error {
	return Get().Var(value, tag)
}

// ValidateStruct validates s against its validate tags. Nil means valid.
func ValidateStruct(s interface{}) *RequestError {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{fields: []FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: translate(fe),
		}
	}
	return &RequestError{fields: fields}
}

var messageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"datetime": "%s must be a valid RFC3339 date/time",
	"url":      "%s must be a valid URL",
	"season":   "%s must be a season (spring, summer, fall, winter)",
}

var messageTemplatesWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

// translate converts a validator.FieldError to a human-readable message.
func translate(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if tpl, ok := messageTemplates[tag]; ok {
		return fmt.Sprintf(tpl, field)
	}
	if tpl, ok := messageTemplatesWithParam[tag]; ok {
		return fmt.Sprintf(tpl, field, param)
	}

	isString := fe.Kind().String() == "string"
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
