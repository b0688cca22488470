// Package interfaces defines service contracts for Vantage
package interfaces

import (
	"context"

	"github.com/rgower/vantage/internal/schema"
)

// GenAIClient provides schema-constrained access to the generative-language
// service. Implementations send exactly one request per call and return the
// raw textual payload; parsing and validation belong to the caller.
type GenAIClient interface {
	// GenerateStructured sends a single user-role prompt and instructs the
	// service to return JSON constrained to the given schema.
	GenerateStructured(ctx context.Context, prompt string, s *schema.Schema) (string, error)

	// Close releases client resources.
	Close() error
}
