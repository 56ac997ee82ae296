// Package importer bulk-loads recipes from the legacy store into the graph,
// deduplicating by id and pacing batches to bound load on the source.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/checksum"
	"github.com/starford/jera/internal/graph"
	"github.com/starford/jera/internal/parser"
)

// Record is one legacy recipe record. Field names follow the legacy export.
type Record struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	Category     string   `json:"category,omitempty"`
	Cuisine      string   `json:"cuisine,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	Author       string   `json:"author,omitempty"`
	Servings     string   `json:"servings,omitempty"`
	PrepTime     string   `json:"prep_time,omitempty"`
	URL          string   `json:"url,omitempty"`
}

// Summary counts the outcome of an import run.
type Summary struct {
	Total      int `json:"total"`
	Processed  int `json:"processed"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// Importer writes legacy records into the graph store.
type Importer struct {
	store     graph.Store
	batchSize int
	pause     time.Duration
	logger    *slog.Logger
}

// New creates an Importer. batchSize <= 0 defaults to 10, a negative pause
// to zero.
func New(store graph.Store, batchSize int, pause time.Duration, logger *slog.Logger) *Importer {
	if batchSize <= 0 {
		batchSize = 10
	}
	if pause < 0 {
		pause = 0
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Importer{store: store, batchSize: batchSize, pause: pause, logger: logger}
}

// Import processes records in fixed-size batches with an inter-batch pause.
// Already-imported ids are skipped; individual failures increment the failure
// counter and the run continues. Batches are strictly sequential.
func (im *Importer) Import(ctx context.Context, records []Record) (*Summary, error) {
	sum := &Summary{Total: len(records)}

	for start := 0; start < len(records); start += im.batchSize {
		if start > 0 && im.pause > 0 {
			select {
			case <-ctx.Done():
				return sum, ctx.Err()
			case <-time.After(im.pause):
			}
		}
		end := start + im.batchSize
		if end > len(records) {
			end = len(records)
		}
		for _, rec := range records[start:end] {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			sum.Processed++
			switch err := im.importRecord(rec); {
			case err == nil:
				sum.Successful++
			case errors.Is(err, errSkipped):
				sum.Skipped++
			default:
				sum.Failed++
				im.logger.Warn("import: record failed",
					slog.String("id", rec.ID),
					slog.String("error", err.Error()))
			}
		}
	}
	return sum, nil
}

var errSkipped = errors.New("already imported")

func (im *Importer) importRecord(rec Record) error {
	if rec.ID == "" || rec.Title == "" {
		return fmt.Errorf("importer: record needs id and title: %w", apperr.ErrInvalidArgument)
	}

	if _, err := im.store.GetNode(rec.ID); err == nil {
		return errSkipped
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("importer: check %s: %w", rec.ID, err)
	}

	if _, err := im.store.CreateNode(rec.ID, graph.TypeRecipe, rec.properties()); err != nil {
		return fmt.Errorf("importer: create recipe %s: %w", rec.ID, err)
	}

	linked := map[string]struct{}{}
	for _, line := range rec.Ingredients {
		if err := im.linkIngredient(rec.ID, line, linked); err != nil {
			return err
		}
	}
	for _, tag := range rec.tags() {
		if err := im.linkTag(rec.ID, tag.value, tag.kind, linked); err != nil {
			return err
		}
	}
	return nil
}

// linkIngredient creates-or-reuses the ingredient node derived from one line
// and links the recipe to it, carrying the parsed quantity and unit on the
// edge.
func (im *Importer) linkIngredient(recipeID, line string, linked map[string]struct{}) error {
	ing := parser.Parse(line)
	name := ing.Name
	if name == "" {
		name = ing.Raw
	}
	norm := parser.Normalize(name)
	if norm == "" {
		return nil
	}
	id := checksum.DeriveID("ingredient", norm)
	if _, dup := linked[id]; dup {
		return nil
	}
	linked[id] = struct{}{}

	if err := im.ensureNode(id, graph.TypeIngredient, map[string]any{"name": name}); err != nil {
		return err
	}

	props := map[string]any{"raw": ing.Raw}
	if ing.Quantity > 0 {
		props["quantity"] = ing.Quantity
	}
	if ing.Unit != "" {
		props["unit"] = ing.Unit
	}
	if _, err := im.store.CreateEdge(recipeID, id, graph.EdgeHasIngredient, props); err != nil {
		return fmt.Errorf("importer: link ingredient %s: %w", id, err)
	}
	return nil
}

func (im *Importer) linkTag(recipeID, value, kind string, linked map[string]struct{}) error {
	norm := parser.Normalize(value)
	if norm == "" {
		return nil
	}
	id := checksum.DeriveID("tag", norm)
	if _, dup := linked[id]; dup {
		return nil
	}
	linked[id] = struct{}{}

	if err := im.ensureNode(id, graph.TypeTag, map[string]any{"name": value}); err != nil {
		return err
	}
	if _, err := im.store.CreateEdge(recipeID, id, graph.EdgeHasTag, map[string]any{"kind": kind}); err != nil {
		return fmt.Errorf("importer: link tag %s: %w", id, err)
	}
	return nil
}

// ensureNode creates a node, treating an id conflict as reuse.
func (im *Importer) ensureNode(id, nodeType string, properties map[string]any) error {
	_, err := im.store.CreateNode(id, nodeType, properties)
	if err != nil && !errors.Is(err, apperr.ErrConflict) {
		return fmt.Errorf("importer: ensure %s: %w", id, err)
	}
	return nil
}

type tagValue struct {
	value string
	kind  string
}

func (r Record) tags() []tagValue {
	var out []tagValue
	if r.Category != "" {
		out = append(out, tagValue{r.Category, "category"})
	}
	if r.Cuisine != "" {
		out = append(out, tagValue{r.Cuisine, "cuisine"})
	}
	for _, kw := range r.Keywords {
		if kw != "" {
			out = append(out, tagValue{kw, "keyword"})
		}
	}
	return out
}

// properties builds the recipe's schema-less property document. Only fields
// present in the legacy record are set.
func (r Record) properties() map[string]any {
	p := map[string]any{"title": r.Title}
	if r.Description != "" {
		p["description"] = r.Description
	}
	if len(r.Ingredients) > 0 {
		p["ingredients"] = r.Ingredients
	}
	if len(r.Instructions) > 0 {
		p["instructions"] = r.Instructions
	}
	if r.Category != "" {
		p["category"] = r.Category
	}
	if r.Cuisine != "" {
		p["cuisine"] = r.Cuisine
	}
	if len(r.Keywords) > 0 {
		p["keywords"] = r.Keywords
	}
	if r.Author != "" {
		p["author"] = r.Author
	}
	if r.Servings != "" {
		p["servings"] = r.Servings
	}
	if r.PrepTime != "" {
		p["prep_time"] = r.PrepTime
	}
	if r.URL != "" {
		p["url"] = r.URL
	}
	return p
}
