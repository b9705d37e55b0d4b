// Package sparql implements readers for catalogs exposed as SPARQL
// endpoints. Searching runs one select query over the full dataset and
// loads every hit at once; the hits themselves are lazy records whose
// properties are retrieved on first use.
package sparql

import (
	"context"
	"net/url"
	"strings"

	"github.com/edpop/explorer/pkg/clients"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/json"
)

// Term is one RDF term in a SPARQL result binding.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Binding maps result variable names to terms.
type Binding map[string]Term

// SelectResult is one parsed SPARQL select response.
type SelectResult struct {
	Vars     []string
	Bindings []Binding
}

type selectResponse struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Client performs select queries against one SPARQL endpoint.
type Client struct {
	http     *clients.HTTPClient
	endpoint string
}

// NewClient creates a SPARQL client for the given endpoint.
func NewClient(http *clients.HTTPClient, endpoint string) *Client {
	return &Client{http: http, endpoint: endpoint}
}

// Select performs one select query and returns the parsed bindings.
func (c *Client) Select(ctx context.Context, query string) (*SelectResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")
	requestURL := c.endpoint + "?" + params.Encode()

	body, err := c.http.GetBody(ctx, requestURL, map[string]string{
		"Accept": "application/sparql-results+json",
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeReader, "SPARQL request failed")
	}

	var parsed selectResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeReader, "malformed SPARQL response")
	}
	return &SelectResult{Vars: parsed.Head.Vars, Bindings: parsed.Results.Bindings}, nil
}

// EscapeLiteral escapes a string for embedding in a SPARQL string
// literal.
func EscapeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
	)
	return replacer.Replace(s)
}
