// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/platform/ctxutil"
	"github.com/accesshub/accesshub/internal/platform/validate"
	"github.com/accesshub/accesshub/internal/rbac"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Actor extracts the authenticated actor view from the request context.

Returns nil if the request is not authenticated.
*/
func Actor(request *http.Request) *rbac.Actor {
	return ctxutil.GetActor(request.Context())
}

/*
RequiredActor ensures the request is authenticated and returns the actor view.

Returns:
  - *rbac.Actor: The authenticated actor
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredActor(request *http.Request) (*rbac.Actor, error) {

	// Get the actor placed in the context by the authentication middleware
	actor := ctxutil.GetActor(request.Context())

	// If the request is anonymous, return an error
	if actor == nil {
		return nil, apperr.Unauthorized("Access denied. Token not provided")
	}

	return actor, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {

	// Get the actor view
	actor, err := RequiredActor(request)

	// If the request is anonymous, return an error
	if err != nil {
		return "", err
	}

	return actor.ID, nil
}
