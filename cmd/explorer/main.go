// Command explorer searches early modern book catalogs from the
// command line and serializes the results as RDF.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edpop/explorer/internal/session"
	"github.com/edpop/explorer/pkg/config"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/logger"
	"github.com/edpop/explorer/pkg/reader"
	"github.com/edpop/explorer/pkg/reader/registry"
	"github.com/edpop/explorer/pkg/record"

	// Import all catalog readers to register them
	_ "github.com/edpop/explorer/pkg/readers/cerl"
	_ "github.com/edpop/explorer/pkg/readers/fbtee"
	_ "github.com/edpop/explorer/pkg/readers/gallica"
	_ "github.com/edpop/explorer/pkg/readers/hpb"
	_ "github.com/edpop/explorer/pkg/readers/kb"
	_ "github.com/edpop/explorer/pkg/readers/stcn"
	_ "github.com/edpop/explorer/pkg/readers/vd"
)

var version = "0.1.0"

func main() {
	_ = godotenv.Load()

	var configFile string
	var logLevel string

	root := &cobra.Command{
		Use:   "explorer",
		Short: "Explorer - early modern catalog search",
		Long: `Explorer searches heterogeneous library catalogs (SRU, SPARQL,
REST and local databases) through one uniform interface and serializes
records as RDF graphs in the EDPOPREC vocabulary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	loadConfig := func() (*config.BaseConfig, error) {
		cfg, err := config.LoadBase(configFile)
		if err != nil {
			return nil, err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if err := logger.Init(logger.Config{
			Level:       cfg.Logging.Level,
			Encoding:    cfg.Logging.Encoding,
			Development: cfg.Logging.Development,
		}); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Explorer v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "catalogs",
		Short: "List available catalogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			for _, cat := range registry.Catalogs() {
				fmt.Printf("%-16s %s (%s)\n", cat.Slug, cat.Name, cat.Type)
			}
			return nil
		},
	})

	var pages int
	var timeout time.Duration
	searchCmd := &cobra.Command{
		Use:   "search <catalog> <query>",
		Short: "Search a catalog and page through results",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runSearch(cfg, args[0], args[1], pages, timeout)
		},
	}
	searchCmd.Flags().IntVar(&pages, "pages", 1, "number of result pages to fetch")
	searchCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall request timeout")
	root.AddCommand(searchCmd)

	resumeCmd := &cobra.Command{
		Use:   "resume <session-id>",
		Short: "Resume a saved search session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runResume(cfg, args[0], pages, timeout)
		},
	}
	resumeCmd.Flags().IntVar(&pages, "pages", 1, "number of result pages to fetch")
	resumeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall request timeout")
	root.AddCommand(resumeCmd)

	root.AddCommand(&cobra.Command{
		Use:   "sessions",
		Short: "List saved search sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sessions, err := session.NewStore(cfg.DataDir).List()
			if err != nil {
				return err
			}
			for _, s := range sessions {
				fmt.Printf("%s  %-12s %-30q position %d\n", s.ID, s.Catalog, s.Query, s.Position)
			}
			return nil
		},
	})

	getCmd := &cobra.Command{
		Use:   "get <catalog> <identifier>",
		Short: "Retrieve a single record by identifier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rec, err := fetchByID(cfg, args[0], args[1], timeout)
			if err != nil {
				return err
			}
			printRecord(rec)
			return nil
		},
	}
	getCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall request timeout")
	root.AddCommand(getCmd)

	graphCmd := &cobra.Command{
		Use:   "graph <catalog> <identifier>",
		Short: "Retrieve a record and print its RDF graph as N-Triples",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rec, err := fetchByID(cfg, args[0], args[1], timeout)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			g, err := record.ToGraph(ctx, rec)
			if err != nil {
				return err
			}
			fmt.Print(g.NTriples())
			return nil
		},
	}
	graphCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall request timeout")
	root.AddCommand(graphCmd)

	if err := root.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// runSearch performs a fresh search, prints the fetched results and
// saves the session for later resumption.
func runSearch(cfg *config.BaseConfig, catalog, query string, pages int, timeout time.Duration) error {
	r, err := registry.Create(catalog, cfg)
	if err != nil {
		return err
	}
	if err := r.PrepareQuery(query); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := fetchPages(ctx, r, pages); err != nil {
		return err
	}

	store := session.NewStore(cfg.DataDir)
	s, err := store.Begin(catalog, query, r)
	if err != nil {
		logger.Warn("could not save session", zap.Error(err))
		return nil
	}
	if !r.FetchingExhausted() {
		fmt.Printf("\nSession %s saved; resume with: explorer resume %s\n", s.ID, s.ID)
	}
	return nil
}

// runResume restores a saved session and continues fetching from its
// stored position.
func runResume(cfg *config.BaseConfig, id string, pages int, timeout time.Duration) error {
	store := session.NewStore(cfg.DataDir)
	s, err := store.Load(id)
	if err != nil {
		return err
	}
	r, err := store.Resume(s, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := fetchPages(ctx, r, pages); err != nil {
		return err
	}
	return store.Save(s, r)
}

// fetchPages fetches up to the given number of pages and prints each
// result with its index.
func fetchPages(ctx context.Context, r reader.Reader, pages int) error {
	for page := 0; page < pages; page++ {
		span, err := r.Fetch(ctx, 0)
		if err != nil {
			return err
		}
		if span.IsEmpty() {
			break
		}
		for i := span.Start; i < span.End; i++ {
			rec, ok := r.Record(i)
			if !ok {
				continue
			}
			fmt.Printf("%4d. %s\n", i+1, rec)
		}
	}

	if total, ok := r.NumberOfResults(); ok {
		fmt.Printf("\nFetched %d of %d results.\n", r.NumberFetched(), total)
	}
	return nil
}

// fetchByID resolves a record through the catalog's direct lookup.
func fetchByID(cfg *config.BaseConfig, catalog, identifier string, timeout time.Duration) (record.Record, error) {
	r, err := registry.Create(catalog, cfg)
	if err != nil {
		return nil, err
	}
	byID, ok := r.(reader.GetByIDReader)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeReader,
			"catalog %s does not support retrieval by identifier", catalog)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return byID.GetByID(ctx, identifier)
}

// printRecord renders every populated field of a record.
func printRecord(rec record.Record) {
	if id := rec.Identifier(); id != "" {
		fmt.Printf("identifier: %s\n", id)
	}
	if link := rec.Link(); link != "" {
		fmt.Printf("link: %s\n", link)
	}
	for _, entry := range rec.Fields() {
		fields, err := record.EntryFields(entry)
		if err != nil {
			continue
		}
		for _, f := range fields {
			fmt.Printf("%s: %s\n", entry.Name, f.SummaryText())
		}
	}
}

// reportError renders a failure at the query boundary. Reader and
// lookup failures are expected operational outcomes, reported without
// a stack trace.
func reportError(err error) {
	var typed *errors.Error
	if stderrors.As(err, &typed) {
		fmt.Fprintf(os.Stderr, "error (%s): %s\n", typed.Type, typed.Message)
		if cause := typed.Unwrap(); cause != nil {
			fmt.Fprintf(os.Stderr, "  cause: %s\n", cause)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
}
