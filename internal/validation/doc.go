// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

/*
Package validation wraps go-playground/validator v10 with a shared,
lazily-built validator and human-readable error messages.

It validates configuration after loading, the user watch records of a stats
request and the request body itself:

	type statsRequest struct {
	    Timezone string                   `validate:"required,iana_tz"`
	    UserList []models.UserAnimeRecord `validate:"dive"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
	    return
	}

Failures come back as *RequestValidationError. A single failure becomes a
VALIDATION_ERROR with field, tag and value details; several failures are
joined into one message with a per-field list:

	{
	    "code": "VALIDATION_ERROR",
	    "message": "AnimeID: AnimeID is required; Scored: Scored must be less than or equal to 10",
	    "details": {"fields": [...]}
	}

Besides the built-in tags the validator understands iana_tz (a timezone name
accepted by schedule.LoadLocation; "Local" is refused) and hhmm (a 24 hour
clock such as "23:30").
*/
package validation
