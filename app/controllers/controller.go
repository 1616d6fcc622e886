// Package controllers adapts HTTP requests to the catalog, cart and admin
// services.
package controllers

import (
	"errors"
	"net/http"

	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/pkg/ctx"
)

// fail maps a service error onto the response envelope:
// validation → 400, not found → 404, anything else → logged 500.
func fail(c *ctx.Context, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		c.ValidationError(ve.Fields)
	case errors.Is(err, models.ErrNotFound):
		c.NotFound("Fabric not found")
	default:
		c.Log().Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

// fabricID reads the {id} path parameter, writing a 400 when it is not a
// positive integer.
func fabricID(c *ctx.Context) (uint, bool) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Error(http.StatusBadRequest, "Invalid fabric id")
	}
	return id, ok
}
