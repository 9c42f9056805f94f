// Package generated holds the HTTP models and chi routing generated from
// api/openapi.yaml. Edit the OpenAPI document and regenerate; never edit
// api.gen.go by hand.
package generated

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 -config oapi-codegen.yaml ../../../api/openapi.yaml
