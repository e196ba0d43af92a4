// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/animestats/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil {
		t.Fatal("GetValidator() returned nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same instance")
	}
}

type request struct {
	Timezone string `validate:"required,iana_tz"`
	Clock    string `validate:"omitempty,hhmm"`
	Limit    int    `validate:"min=1,max=100"`
	Name     string `validate:"omitempty,min=3"`
	Order    string `validate:"omitempty,oneof=asc desc"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input request
	}{
		{"minimal", request{Timezone: "UTC", Limit: 1}},
		{"all fields", request{Timezone: "Asia/Tokyo", Clock: "23:30", Limit: 100, Name: "abc", Order: "desc"}},
		{"single digit hour", request{Timezone: "Europe/Berlin", Clock: "9:05", Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   request
		field   string
		tag     string
		message string
	}{
		{"missing timezone", request{Limit: 1}, "Timezone", "required", "Timezone is required"},
		{"unknown timezone", request{Timezone: "Mars/Olympus", Limit: 1}, "Timezone", "iana_tz", "IANA timezone"},
		{"local timezone", request{Timezone: "Local", Limit: 1}, "Timezone", "iana_tz", "IANA timezone"},
		{"bad clock", request{Timezone: "UTC", Clock: "24:00", Limit: 1}, "Clock", "hhmm", "HH:MM"},
		{"limit low", request{Timezone: "UTC"}, "Limit", "min", "Limit must be at least 1"},
		{"limit high", request{Timezone: "UTC", Limit: 101}, "Limit", "max", "Limit must be at most 100"},
		{"short name", request{Timezone: "UTC", Limit: 1, Name: "ab"}, "Name", "min", "at least 3 characters"},
		{"bad order", request{Timezone: "UTC", Limit: 1, Order: "up"}, "Order", "oneof", "Order must be one of: asc desc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(&tt.input)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if len(verr.Errors()) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(verr.Errors()), verr)
			}
			fe := verr.Errors()[0]
			if fe.Field() != tt.field || fe.Tag() != tt.tag {
				t.Errorf("got %s/%s, want %s/%s", fe.Field(), fe.Tag(), tt.field, tt.tag)
			}
			if !strings.Contains(fe.Error(), tt.message) {
				t.Errorf("message %q does not contain %q", fe.Error(), tt.message)
			}
		})
	}
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct("nope")
	if verr == nil {
		t.Fatal("expected an error for a non-struct")
	}
	if verr.Errors()[0].Field() != "unknown" {
		t.Errorf("field = %q, want unknown", verr.Errors()[0].Field())
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&request{Timezone: "UTC", Limit: 0})
	apiErr := verr.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q", apiErr.Code)
	}
	if apiErr.Message != "Limit must be at least 1" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Limit" || apiErr.Details["tag"] != "min" {
		t.Errorf("details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&request{Timezone: "", Limit: 0})
	apiErr := verr.ToAPIError()

	if !strings.Contains(apiErr.Message, "Timezone: Timezone is required") ||
		!strings.Contains(apiErr.Message, "Limit: Limit must be at least 1") {
		t.Errorf("message = %q", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("fields = %v", apiErr.Details["fields"])
	}
}

func TestToAPIError_Empty(t *testing.T) {
	t.Parallel()

	verr := &RequestValidationError{}
	if verr.Error() != "validation failed" {
		t.Errorf("Error() = %q", verr.Error())
	}
	if got := verr.ToAPIError().Message; got != "Validation failed" {
		t.Errorf("message = %q", got)
	}
}

func TestValidateSlice_UserAnimeRecords(t *testing.T) {
	t.Parallel()

	score := 11.0
	records := []models.UserAnimeRecord{
		{AnimeID: 1, WatchStatus: models.WatchStatusWatching},
		{AnimeID: 0, WatchStatus: "binging"},
		{AnimeID: 3, Scored: &score},
	}

	verr := ValidateSlice(records)
	if verr == nil {
		t.Fatal("ValidateSlice() = nil, want error")
	}

	var fields []string
	for _, e := range verr.Errors() {
		fields = append(fields, e.Field())
	}
	want := "[1].AnimeID,[1].WatchStatus,[2].Scored"
	if got := strings.Join(fields, ","); got != want {
		t.Errorf("fields = %s, want %s", got, want)
	}
	if !strings.HasPrefix(verr.Errors()[2].Error(), "item 2: ") {
		t.Errorf("message = %q", verr.Errors()[2].Error())
	}
}

func TestValidateSlice_AllValid(t *testing.T) {
	t.Parallel()

	records := []models.UserAnimeRecord{{AnimeID: 1}, {AnimeID: 2, WatchStatus: models.WatchStatusCompleted}}
	if verr := ValidateSlice(records); verr != nil {
		t.Errorf("ValidateSlice() = %v, want nil", verr)
	}
	if verr := ValidateSlice[models.UserAnimeRecord](nil); verr != nil {
		t.Errorf("ValidateSlice(nil) = %v, want nil", verr)
	}
}
