// Package openapi assembles the OpenAPI description of a generated Slim
// project from its routes file, its controller and service sources and the
// live database schema.
package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	// Version is the OpenAPI version written into every document.
	Version = "3.1.1"

	SecuritySchemeName = "bearerAuth"
	UnauthorizedName   = "UnauthorizedError"
	UnauthorizedRef    = "#/components/responses/" + UnauthorizedName

	unauthorizedDescription = "Access token is missing or invalid"
	defaultDescription      = "Generated API documentation"

	// InfoFile is the optional info override in the project root.
	InfoFile = "swagger.info.json"
)

// Info is the document's info block.
type Info struct {
	Title       string   `json:"title"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Contact     *Contact `json:"contact,omitempty"`
}

type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// DefaultInfo builds the info block used when no override file exists.
func DefaultInfo(title, version string) Info {
	return Info{Title: title, Version: version, Description: defaultDescription}
}

// LoadInfo reads an info override from path. A missing file returns
// fallback with no error; a malformed file returns fallback and the
// parse error.
func LoadInfo(path string, fallback Info) (Info, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("read %s: %w", path, err)
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return fallback, fmt.Errorf("parse %s: %w", path, err)
	}
	if info.Title == "" {
		info.Title = fallback.Title
	}
	if info.Version == "" {
		info.Version = fallback.Version
	}
	return info, nil
}

func (i Info) toOpenAPI() *openapi3.Info {
	out := &openapi3.Info{
		Title:       i.Title,
		Version:     i.Version,
		Description: i.Description,
	}
	if i.Contact != nil {
		out.Contact = &openapi3.Contact{Name: i.Contact.Name, URL: i.Contact.URL, Email: i.Contact.Email}
	}
	return out
}

// NewDocument returns an empty document carrying the bearer security
// scheme, the shared unauthorized response and a single server.
func NewDocument(info Info, serverURL string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: Version,
		Info:    info.toOpenAPI(),
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				SecuritySchemeName: &openapi3.SecuritySchemeRef{
					Value: &openapi3.SecurityScheme{Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
				},
			},
			Responses: openapi3.ResponseBodies{
				UnauthorizedName: &openapi3.ResponseRef{
					Value: openapi3.NewResponse().WithDescription(unauthorizedDescription),
				},
			},
		},
		Security: openapi3.SecurityRequirements{
			openapi3.SecurityRequirement{SecuritySchemeName: []string{}},
		},
	}
	if serverURL != "" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: serverURL, Description: "Local server"}}
	}
	return doc
}

// unauthorized references the shared 401 response.
func unauthorized() *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Ref: UnauthorizedRef}
}
