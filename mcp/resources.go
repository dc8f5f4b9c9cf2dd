package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/Nikhilpandey8/smartdocshub/catalog"
)

// RegisterDefaultResources exposes the read-only catalogs under the
// catalog:// scheme.
func RegisterDefaultResources(s *Server, lib *catalog.Library) {
	s.AddResource(Resource{
		URI:         "catalog://templates",
		Name:        "Document Templates",
		Description: "Every document template with its fields.",
		MIMEType:    "application/json",
		Handler:     jsonResource(func() interface{} { return lib.Templates() }),
	})

	s.AddResource(Resource{
		URI:         "catalog://tools",
		Name:        "Conversion Tools",
		Description: "Conversion and utility tools with input and output formats.",
		MIMEType:    "application/json",
		Handler:     jsonResource(func() interface{} { return lib.Tools() }),
	})

	s.AddResource(Resource{
		URI:         "catalog://assignments",
		Name:        "Course Assignments",
		Description: "Course assignments, newest first.",
		MIMEType:    "application/json",
		Handler:     jsonResource(func() interface{} { return lib.Assignments() }),
	})

	s.AddResource(Resource{
		URI:         "catalog://blogs",
		Name:        "Blog Posts",
		Description: "Blog posts, newest first.",
		MIMEType:    "application/json",
		Handler:     jsonResource(func() interface{} { return lib.Blogs() }),
	})
}

func jsonResource(load func() interface{}) ResourceHandler {
	return func(uri string) ([]ResourceContent, error) {
		jsonBytes, err := json.MarshalIndent(load(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", uri, err)
		}
		return []ResourceContent{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		}}, nil
	}
}
