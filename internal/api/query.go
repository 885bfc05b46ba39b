package api

import (
	"net/url"

	"github.com/oapi-codegen/runtime"
)

// BindQuery decodes the optional form-style query parameter name into dest.
// dest is left untouched when the parameter is absent.
func BindQuery(values url.Values, name string, dest any) error {
	return runtime.BindQueryParameter("form", true, false, name, values, dest)
}
