// Package reports delegates report generation to the manager API. The
// console only forwards the request and hands the payload back; building
// the document and interpreting its content are server concerns.
package reports

import (
	"context"
	"errors"
	"fmt"
)

// Caller is the slice of the resource client the generator needs.
type Caller interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Request names what to generate.
type Request struct {
	Type   string `json:"type"`   // e.g. "paie", "presences", "budget"
	Format string `json:"format"` // e.g. "pdf", "excel"
	Period string `json:"period"` // e.g. "2025-03"
}

// Document is the generated file as the server returned it, base64 payload
// included. The console passes it through to whatever saves or shares it.
type Document struct {
	Filename string `json:"filename"`
	Mime     string `json:"mime"`
	Content  string `json:"contenu"` // base64
}

// Generator posts generation requests.
type Generator struct {
	caller Caller
}

// NewGenerator constructs a Generator.
func NewGenerator(caller Caller) *Generator {
	return &Generator{caller: caller}
}

// Generate asks the server for a document.
func (g *Generator) Generate(ctx context.Context, req Request) (*Document, error) {
	if req.Type == "" || req.Format == "" {
		return nil, errors.New("reports: type and format required")
	}
	var doc Document
	if err := g.caller.Post(ctx, "/manager/reports/generate", req, &doc); err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	return &doc, nil
}
