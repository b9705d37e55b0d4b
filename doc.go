// Package explorer searches heterogeneous library catalogs of early
// modern books and people through one uniform reader interface and
// serializes the results as RDF graphs in the EDPOPREC vocabulary.
//
// Explorer speaks to four kinds of catalog back ends:
//
//   - SRU endpoints returning MARC21 or Dublin Core records (HPB, the
//     VD catalogs, Gallica, the Dutch national bibliography)
//   - SPARQL endpoints with lazily dereferenced records (STCN)
//   - JSON search APIs (the CERL Thesaurus and SBTI person databases)
//   - downloadable SQLite databases queried locally (FBTEE)
//
// Every back end is wrapped in a reader that pages through results on
// demand, remembers which result indexes it has populated, and can be
// repositioned so an interrupted search resumes where it stopped.
//
// # Quick Start
//
// Search a catalog and serialize one record:
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/edpop/explorer/pkg/config"
//	    "github.com/edpop/explorer/pkg/reader/registry"
//	    "github.com/edpop/explorer/pkg/record"
//
//	    _ "github.com/edpop/explorer/pkg/readers/hpb"
//	)
//
//	cfg, _ := config.LoadBase("")
//	r, _ := registry.Create("hpb", cfg)
//	_ = r.PrepareQuery("coornhert")
//
//	span, _ := r.Fetch(context.Background(), 0)
//	for i := span.Start; i < span.End; i++ {
//	    rec, _ := r.Record(i)
//	    g, _ := record.ToGraph(context.Background(), rec)
//	    fmt.Print(g.NTriples())
//	}
//
// # Key Packages
//
//	pkg/reader    - reader contract, paging state machine, registry
//	pkg/record    - normalized records, fields, graph serialization
//	pkg/rdf       - triple-set graph model and N-Triples output
//	pkg/edpoprec  - the EDPOPREC vocabulary terms
//	pkg/readers   - one package per catalog family and catalog
//	pkg/clients   - rate-limited retrying HTTP client
//	pkg/config    - YAML configuration with per-catalog overrides
//
// The explorer command in cmd/explorer exposes searching, record
// lookup, graph output and session resumption on the command line.
package explorer
