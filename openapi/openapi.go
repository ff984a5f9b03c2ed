// Package openapi embeds the OpenAPI description of the HTTP API.
// It is served by the handler package at /openapi.yaml.
package openapi

import _ "embed"

// Spec contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var Spec []byte
