// Package graph keeps a terminology glossary in Neo4j. Terms are
// (:Term {source, language, target}) nodes, unique per (source, language).
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Term is a glossary entry for one target language.
type Term struct {
	Source   string
	Language string
	Target   string
}

// Glossary reads and writes glossary terms.
type Glossary struct {
	driver neo4j.DriverWithContext
}

// NewGlossary creates a glossary on an open driver.
func NewGlossary(driver neo4j.DriverWithContext) *Glossary {
	return &Glossary{driver: driver}
}

// Connect opens and verifies a Neo4j driver.
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("connect Neo4j: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")
	return driver, nil
}

// EnsureSchema creates the term uniqueness constraint.
func (g *Glossary) EnsureSchema(ctx context.Context) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		"CREATE CONSTRAINT IF NOT EXISTS FOR (t:Term) REQUIRE (t.source, t.language) IS UNIQUE",
		nil,
	)
	if err != nil {
		return fmt.Errorf("create constraint: %w", err)
	}
	return nil
}

// Upsert creates or updates terms.
func (g *Glossary) Upsert(ctx context.Context, terms []Term) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for _, t := range terms {
		_, err := session.Run(ctx, `
			MERGE (t:Term {source: $source, language: $language})
			SET t.target = $target
		`, map[string]any{
			"source":   t.Source,
			"language": t.Language,
			"target":   t.Target,
		})
		if err != nil {
			return fmt.Errorf("upsert term %s/%s: %w", t.Language, t.Source, err)
		}
	}

	log.Info().Int("terms", len(terms)).Msg("Glossary updated")
	return nil
}

// Terms returns source -> target for every term of language contained in text.
func (g *Glossary) Terms(ctx context.Context, text, language string) (map[string]string, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (t:Term {language: $language})
		WHERE $text CONTAINS t.source
		RETURN t.source AS source, t.target AS target
		ORDER BY size(t.source) DESC
	`, map[string]any{"text": text, "language": language})
	if err != nil {
		return nil, fmt.Errorf("query terms: %w", err)
	}

	terms := make(map[string]string)
	for result.Next(ctx) {
		record := result.Record()
		source, _ := record.Get("source")
		target, _ := record.Get("target")
		terms[fmt.Sprintf("%v", source)] = fmt.Sprintf("%v", target)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read terms: %w", err)
	}

	return terms, nil
}
