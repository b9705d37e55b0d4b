package reader

import (
	"context"

	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/rdf"
	"github.com/edpop/explorer/pkg/record"
)

// GetByIDViaQuery implements single-record lookup on top of a reader
// that only exposes list search: it runs the given query on a fresh
// reader, fetches one page and scans it for a record with the wanted
// identifier. Catalogs without a direct lookup endpoint use this as
// their GetByID.
func GetByIDViaQuery(ctx context.Context, r Reader, query PreparedQuery, identifier string) (record.Record, error) {
	if err := r.SetQuery(query); err != nil {
		return nil, err
	}
	if _, err := r.Fetch(ctx, 0); err != nil {
		return nil, err
	}
	total, _ := r.NumberOfResults()
	if total == 0 {
		return nil, errors.New(errors.ErrorTypeNotFound, "no results returned").
			WithDetail("identifier", identifier)
	}
	for _, rec := range r.Records() {
		if rec.Identifier() == identifier {
			return rec, nil
		}
	}
	return nil, errors.Newf(errors.ErrorTypeNotFound,
		"record with identifier %s not present among %d returned results",
		identifier, total)
}

// GetByIRI resolves a record IRI to its catalog-local identifier and
// delegates to the reader's direct lookup.
func GetByIRI(ctx context.Context, r GetByIDReader, iri rdf.IRI) (record.Record, error) {
	identifier, err := r.Catalog().IRIToIdentifier(iri)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, identifier)
}
