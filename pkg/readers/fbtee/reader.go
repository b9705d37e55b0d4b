// Package fbtee implements the reader for the French Book Trade in
// Enlightenment Europe database, a downloadable sqlite file queried
// locally. Author rows from the join table are folded into their book
// records.
package fbtee

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.uber.org/zap"

	"github.com/edpop/explorer/pkg/clients"
	"github.com/edpop/explorer/pkg/config"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/logger"
	"github.com/edpop/explorer/pkg/reader"
	"github.com/edpop/explorer/pkg/reader/registry"
	"github.com/edpop/explorer/pkg/record"
)

func init() {
	registry.MustRegister(Catalog, Factory)
}

const (
	databaseURL     = "https://dhstatic.hum.uu.nl/edpop/cl.sqlite3"
	databaseLicense = "https://dhstatic.hum.uu.nl/edpop/LICENSE.txt"
	linkFormat      = "http://fbtee.uws.edu.au/stn/interface/browse.php?t=book&id=%s"
)

// Catalog is the static FBTEE catalog descriptor.
var Catalog = &record.Catalog{
	Name:        "French Book Trade in Enlightenment Europe",
	Slug:        "fbtee",
	Description: "Database of the book trade of the Société Typographique de Neuchâtel",
	URI:         record.CatalogIRI("fbtee"),
	IRIPrefix:   "https://edpop.hum.uu.nl/readers/fbtee/",
	Type:        record.Bibliographical,
}

// SQLQuery is a prepared query over the local database: a WHERE clause
// with placeholder arguments.
type SQLQuery struct {
	Where string
	Args  []interface{}
}

// QueryString renders the query for display and session identifiers.
func (q SQLQuery) QueryString() string {
	parts := make([]string, 0, len(q.Args)+1)
	parts = append(parts, q.Where)
	for _, arg := range q.Args {
		parts = append(parts, fmt.Sprintf("%v", arg))
	}
	return strings.Join(parts, " ")
}

// Reader queries the local FBTEE database. The data is local, so the
// complete result set is loaded on the first fetch.
type Reader struct {
	*reader.BaseReader

	dbFile  reader.DatabaseFile
	dataDir string
	http    *clients.HTTPClient
	db      *sql.DB
	// borrowsDB marks a reader sharing another reader's handle; its
	// Close must not close the shared database.
	borrowsDB bool
	log       *zap.Logger
}

// NewReader creates a fresh reader for one search session. The
// database file is provisioned lazily on the first fetch.
func NewReader(cfg *config.BaseConfig) *Reader {
	dataDir := ""
	httpCfg := clients.DefaultHTTPConfig()
	if cfg != nil {
		dataDir = cfg.DataDir
		httpCfg.RequestTimeout = cfg.Timeouts.Request
		httpCfg.DialTimeout = cfg.Timeouts.Connection
	}

	log := logger.With(zap.String("catalog", Catalog.Slug))
	r := &Reader{
		dbFile: reader.DatabaseFile{
			URL:      databaseURL,
			Filename: "cl.sqlite3",
			License:  databaseLicense,
		},
		dataDir: dataDir,
		http:    clients.NewHTTPClient(httpCfg, log),
		log:     log,
	}
	r.BaseReader = reader.NewBaseReader(Catalog, r,
		reader.WithFetchAllAtOnce(),
		reader.WithTransform(transformQuery))
	return r
}

// Factory is the registry factory for FBTEE.
func Factory(cfg *config.BaseConfig) (reader.Reader, error) {
	return NewReader(cfg), nil
}

func transformQuery(query string) (reader.PreparedQuery, error) {
	return SQLQuery{
		Where: "WHERE full_book_title LIKE ?",
		Args:  []interface{}{"%" + query + "%"},
	}, nil
}

// prepareData provisions the database file and opens it read-only.
func (r *Reader) prepareData(ctx context.Context) error {
	if r.db != nil {
		return nil
	}
	path, err := r.dbFile.Prepare(ctx, r.dataDir, r.http)
	if err != nil {
		return err
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeReader, "opening database")
	}
	r.db = db
	return nil
}

// Close releases the database handle. A borrowing reader only drops
// its reference; the owner closes the database.
func (r *Reader) Close() error {
	if r.db == nil {
		return nil
	}
	db := r.db
	r.db = nil
	if r.borrowsDB {
		return nil
	}
	return db.Close()
}

// FetchRange runs the search and loads the complete result set. The
// requested span is ignored; the populated span covers every hit.
func (r *Reader) FetchRange(ctx context.Context, span reader.Span) (reader.Span, error) {
	if r.FetchingStarted() {
		return reader.Span{Start: span.Start, End: span.Start}, nil
	}
	if err := r.prepareData(ctx); err != nil {
		return reader.Span{}, err
	}

	query, ok := r.PreparedQuery().(SQLQuery)
	if !ok {
		return reader.Span{}, errors.New(errors.ErrorTypeReader, "expected a SQL prepared query")
	}

	records, err := r.queryBooks(ctx, query)
	if err != nil {
		return reader.Span{}, err
	}
	r.SetNumberOfResults(len(records))
	for i, rec := range records {
		r.StoreRecord(i, rec)
	}
	return reader.Span{Start: 0, End: len(records)}, nil
}

// queryBooks runs the join query and folds repeated book rows, one per
// author, into single records.
func (r *Reader) queryBooks(ctx context.Context, query SQLQuery) ([]record.Record, error) {
	stmt := "SELECT B.*, A.author_name FROM books B " +
		"LEFT OUTER JOIN books_authors BA ON B.book_code = BA.book_code " +
		"LEFT OUTER JOIN authors A ON BA.author_code = A.author_code " +
		query.Where + " ORDER BY B.book_code"

	rows, err := r.db.QueryContext(ctx, stmt, query.Args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeReader, "querying books")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeReader, "reading result columns")
	}

	var records []record.Record
	var current *record.BibliographicalRecord
	var authors []string
	lastBookCode := ""

	flush := func() {
		if current == nil {
			return
		}
		data := current.Data.(record.MapData)
		names := make([]interface{}, len(authors))
		for i, a := range authors {
			names[i] = a
		}
		data["authors"] = names
		populateFields(current, data, authors)
		records = append(records, current)
	}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeReader, "scanning book row")
		}

		data := make(record.MapData, len(columns))
		for i, col := range columns[:len(columns)-1] {
			data[col] = normalizeValue(values[i])
		}
		bookCode, _ := data["book_code"].(string)
		authorName, _ := normalizeValue(values[len(columns)-1]).(string)

		// the author join repeats book rows, one per author
		if bookCode != lastBookCode {
			flush()
			current = record.NewBibliographicalRecord(Catalog)
			current.ID = bookCode
			current.URL = fmt.Sprintf(linkFormat, bookCode)
			current.Data = data
			authors = nil
			lastBookCode = bookCode
		}
		if authorName != "" {
			authors = append(authors, authorName)
		}
	}
	flush()

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeReader, "iterating book rows")
	}
	return records, nil
}

// normalizeValue maps driver values to plain strings where possible.
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func stringColumn(data record.MapData, name string) string {
	s, _ := data[name].(string)
	return s
}

func populateFields(rec *record.BibliographicalRecord, data record.MapData, authors []string) {
	if title := stringColumn(data, "full_book_title"); title != "" {
		rec.Title = record.NewField(title)
	}
	if langs := stringColumn(data, "languages"); langs != "" {
		for _, l := range strings.Split(langs, ", ") {
			language := record.NewLanguageField(l)
			language.Normalize()
			rec.Languages = append(rec.Languages, language)
		}
	}
	if pages := stringColumn(data, "pages"); pages != "" {
		rec.Extent = record.NewField(pages)
	}
	if place := stringColumn(data, "stated_publication_places"); place != "" {
		location := record.NewLocationField(place)
		location.LocationType = record.LocationLocality
		rec.PlacesOfPublication = append(rec.PlacesOfPublication, location)
	}
	if year := stringColumn(data, "stated_publication_years"); year != "" {
		rec.Dating = record.NewDatingField(year)
	}
	if publisher := stringColumn(data, "stated_publishers"); publisher != "" {
		rec.PublisherOrPrinter = record.NewField(publisher)
	}
	for _, author := range authors {
		rec.Contributors = append(rec.Contributors, record.NewContributorField(author))
	}
}

// borrow creates a reader with fresh fetch state over the same
// database handle.
func (r *Reader) borrow() *Reader {
	fresh := NewReader(nil)
	fresh.dataDir = r.dataDir
	fresh.dbFile = r.dbFile
	fresh.db = r.db
	fresh.borrowsDB = r.db != nil
	return fresh
}

// GetByID looks up a single book through a query on a borrowed reader.
func (r *Reader) GetByID(ctx context.Context, identifier string) (record.Record, error) {
	query := SQLQuery{Where: "WHERE B.book_code = ?", Args: []interface{}{identifier}}
	return reader.GetByIDViaQuery(ctx, r.borrow(), query, identifier)
}
