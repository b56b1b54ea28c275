// Command regrade recomputes the cached grades of a profile export, optionally
// against a criteria export, without a running server.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/ajharbinger/vetted-api/internal/catalog"
	"github.com/ajharbinger/vetted-api/internal/criteria"
	"github.com/ajharbinger/vetted-api/internal/logger"
	"github.com/ajharbinger/vetted-api/internal/profiles"
	"github.com/ajharbinger/vetted-api/internal/repository"
	"github.com/ajharbinger/vetted-api/internal/scoring"
)

func main() {
	profilesPath := flag.String("profiles", "", "profile export to regrade (required)")
	criteriaPath := flag.String("criteria", "", "criteria export to grade against (default: built-in defaults)")
	catalogPath := flag.String("catalog", "", "catalog override file (default: $CATALOG_PATH or the embedded catalog)")
	outPath := flag.String("out", "", "write the regraded export here instead of printing a table")
	flag.Parse()

	if *profilesPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	if *catalogPath == "" {
		*catalogPath = os.Getenv("CATALOG_PATH")
	}

	appLog, err := logger.New(os.Getenv("LOG_LEVEL"), "console")
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer appLog.Sync()

	result, err := run(*profilesPath, *criteriaPath, *catalogPath, appLog)
	if err != nil {
		appLog.Fatal("Regrade failed", err)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(result.export), 0o644); err != nil {
			appLog.Fatal("Failed to write export", err, "path", *outPath)
		}
		appLog.Info("Wrote regraded export", "path", *outPath, "profiles", len(result.rows), "changed", result.changed)
		return
	}

	printTable(os.Stdout, result)
}

type row struct {
	name     string
	before   string
	after    string
	green    int
	red      int
	breakers int
	archived bool
}

type regradeResult struct {
	rows    []row
	changed int
	export  string
}

func run(profilesPath, criteriaPath, catalogPath string, log logger.Logger) (*regradeResult, error) {
	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	profileData, err := os.ReadFile(profilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	docs := repository.NewMemoryStore()
	resolver := criteria.NewResolver(docs, log)
	if criteriaPath != "" {
		criteriaData, err := os.ReadFile(criteriaPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read criteria: %w", err)
		}
		if err := resolver.Import(string(criteriaData)); err != nil {
			return nil, err
		}
	}

	store := profiles.NewStore(docs, func() (criteria.Snapshot, error) {
		return resolver.Snapshot(cat)
	}, scoring.NewEngine(), log)
	if err := store.Import(string(profileData)); err != nil {
		return nil, err
	}

	before, err := store.List(true)
	if err != nil {
		return nil, err
	}
	grades := make(map[string]string, len(before))
	for _, p := range before {
		grades[p.ID] = string(p.Grade)
	}

	changed, err := store.Regrade()
	if err != nil {
		return nil, err
	}
	after, err := store.List(true)
	if err != nil {
		return nil, err
	}

	result := &regradeResult{changed: changed}
	for _, p := range after {
		result.rows = append(result.rows, row{
			name:     p.Name,
			before:   grades[p.ID],
			after:    string(p.Grade),
			green:    p.GradeDetails.GreenPercent,
			red:      p.GradeDetails.RedPercent,
			breakers: p.GradeDetails.DealbreakerCount,
			archived: p.IsArchived,
		})
	}
	if result.export, err = store.Export(); err != nil {
		return nil, err
	}
	return result, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Load()
	}
	return catalog.LoadFile(path)
}

func printTable(out io.Writer, result *regradeResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBEFORE\tAFTER\tGREEN%\tRED%\tDEALBREAKERS\tARCHIVED")
	for _, r := range result.rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\n", r.name, r.before, r.after, r.green, r.red, r.breakers, r.archived)
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d of %d grades changed\n", result.changed, len(result.rows))
}
