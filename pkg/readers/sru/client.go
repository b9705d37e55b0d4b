// Package sru implements readers for catalogs exposed over the SRU
// (Search/Retrieve via URL) protocol, including the MARC21 and Dublin
// Core record schemas carried in SRU responses.
package sru

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/edpop/explorer/pkg/clients"
	"github.com/edpop/explorer/pkg/errors"
)

// Client performs searchRetrieve requests against one SRU endpoint.
type Client struct {
	http     *clients.HTTPClient
	endpoint string
	version  string
	extra    url.Values
}

// NewClient creates an SRU client for the given endpoint. Extra
// parameters are sent with every request; some endpoints require them
// to select a collection.
func NewClient(http *clients.HTTPClient, endpoint, version string, extra url.Values) *Client {
	return &Client{http: http, endpoint: endpoint, version: version, extra: extra}
}

// Response is one parsed searchRetrieve response.
type Response struct {
	// NumberOfRecords is the total hit count for the query
	NumberOfRecords int
	// Records holds the raw recordData payload of each returned
	// record, in result order
	Records [][]byte
}

type recordPayload struct {
	Inner []byte `xml:",innerxml"`
}

type diagnostic struct {
	URI     string `xml:"uri"`
	Message string `xml:"message"`
	Details string `xml:"details"`
}

type searchRetrieveResponse struct {
	NumberOfRecords int `xml:"numberOfRecords"`
	Records         []struct {
		RecordData recordPayload `xml:"recordData"`
	} `xml:"records>record"`
	Diagnostics []diagnostic `xml:"diagnostics>diagnostic"`
}

// Search performs one searchRetrieve request. SRU start records are
// 1-based.
func (c *Client) Search(ctx context.Context, query string, startRecord, maximumRecords int, schema string) (*Response, error) {
	params := url.Values{}
	for key, values := range c.extra {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	params.Set("operation", "searchRetrieve")
	params.Set("version", c.version)
	params.Set("query", query)
	params.Set("startRecord", fmt.Sprintf("%d", startRecord))
	params.Set("maximumRecords", fmt.Sprintf("%d", maximumRecords))
	if schema != "" {
		params.Set("recordSchema", schema)
	}

	requestURL := c.endpoint + "?" + params.Encode()
	body, err := c.http.GetBody(ctx, requestURL, map[string]string{"Accept": "application/xml"})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeReader, "SRU request failed")
	}

	var parsed searchRetrieveResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeReader, "malformed SRU response")
	}
	if len(parsed.Diagnostics) > 0 {
		d := parsed.Diagnostics[0]
		return nil, errors.Newf(errors.ErrorTypeReader,
			"server returned error: %s %s", d.Message, d.Details).
			WithDetail("uri", d.URI)
	}

	resp := &Response{NumberOfRecords: parsed.NumberOfRecords}
	for _, rec := range parsed.Records {
		resp.Records = append(resp.Records, rec.RecordData.Inner)
	}
	return resp, nil
}
