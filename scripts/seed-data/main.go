// seed-data loads markup schemas from a YAML file into the database.
//
// Schemas are upserted by name, so the tool is safe to re-run; the rules and
// active flag of an existing schema are replaced.
//
// Usage: go run ./scripts/seed-data [-file scripts/seed-data/markup_schemas.yaml]
//
// Database connection: uses config.yaml plus standard PG* environment variables
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fabworks-io/quotation-engine/pkg/config"
	"github.com/fabworks-io/quotation-engine/pkg/database"
	"github.com/fabworks-io/quotation-engine/pkg/models"
	"github.com/fabworks-io/quotation-engine/pkg/repositories"
)

type seedFile struct {
	Schemas []seedSchema `yaml:"schemas"`
}

type seedSchema struct {
	Name     string                `yaml:"name"`
	IsActive bool                  `yaml:"is_active"`
	Rules    map[string][]seedBand `yaml:"rules"`
}

type seedBand struct {
	MinQty        int    `yaml:"min_qty"`
	MaxQty        *int   `yaml:"max_qty"`
	MarkupPercent string `yaml:"markup_percent"`
}

func main() {
	file := flag.String("file", "scripts/seed-data/markup_schemas.yaml", "Path to the seed YAML file")
	flag.Parse()

	if err := run(*file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(seed.Schemas) == 0 {
		return fmt.Errorf("seed file %s contains no schemas", path)
	}

	cfg, err := config.Load("seed")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: 2,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewMarkupSchemaRepository(db)

	for _, s := range seed.Schemas {
		schema, err := toModel(s)
		if err != nil {
			return fmt.Errorf("schema %q: %w", s.Name, err)
		}
		if err := repo.Create(ctx, schema); err != nil {
			return fmt.Errorf("failed to upsert schema %q: %w", s.Name, err)
		}
		fmt.Printf("Upserted markup schema %q (active=%v, categories=%d)\n",
			schema.Name, schema.IsActive, len(schema.Rules))
	}

	return nil
}

func toModel(s seedSchema) (*models.MarkupSchema, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("schema name is required")
	}

	rules := make(map[string]models.MarkupRules, len(s.Rules))
	for category, bands := range s.Rules {
		converted := make([]models.MarkupBand, 0, len(bands))
		for i, b := range bands {
			pct, err := decimal.NewFromString(b.MarkupPercent)
			if err != nil {
				return nil, fmt.Errorf("category %q band %d: invalid markup_percent %q: %w",
					category, i, b.MarkupPercent, err)
			}
			converted = append(converted, models.MarkupBand{
				MinQty:        b.MinQty,
				MaxQty:        b.MaxQty,
				MarkupPercent: pct,
			})
		}
		rules[category] = models.MarkupRules{Bands: converted}
	}

	return &models.MarkupSchema{
		Name:     s.Name,
		IsActive: s.IsActive,
		Rules:    rules,
	}, nil
}
