// Package shopping orchestrates the recipe-shopping pipeline: normalize each
// ingredient, search the aggregator, group results by platform, pick the
// best product per (ingredient, platform) pair, and build the final cart.
package shopping

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/saveit/shopping-service/internal/cart"
	"github.com/saveit/shopping-service/internal/normalize"
	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/recipe"
	"github.com/saveit/shopping-service/internal/search"
	"github.com/saveit/shopping-service/internal/selector"
)

// Searcher fetches raw products for a simplified search term. Failures are
// absorbed by the implementation and surface as an empty slice.
type Searcher interface {
	Search(ctx context.Context, term string) []search.RawProduct
}

// BestSelector picks the best product for one (ingredient, platform) pair.
// ok is false when the platform has no available candidate.
type BestSelector interface {
	SelectBest(ctx context.Context, ing recipe.Ingredient, p platform.Platform, products []search.RawProduct) (selector.Selected, bool)
}

// RecipeFinder resolves a recipe name into an ingredient list.
type RecipeFinder interface {
	FindIngredients(ctx context.Context, recipeName string) (recipe.Recipe, string, error)
}

// Fallback answers a whole price-search request from general knowledge when
// the real pipeline fails. Last resort, not the common path.
type Fallback interface {
	Search(ctx context.Context, ingredients []recipe.Ingredient, platforms []platform.Platform) (SearchResult, error)
}

// SearchResult is the stable output shape of SearchIngredientPrices.
type SearchResult struct {
	Results []selector.Selected `json:"results"`
	Message string              `json:"message"`
}

// Config tunes the orchestrator's fan-out.
type Config struct {
	MaxConcurrentSearches   int `mapstructure:"max_concurrent_searches"`
	MaxConcurrentSelections int `mapstructure:"max_concurrent_selections"`
}

// DefaultConfig returns sensible fan-out limits.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentSearches:   8,
		MaxConcurrentSelections: 4,
	}
}

// Orchestrator runs the pipeline. Stateless across requests; every
// invocation is independent.
type Orchestrator struct {
	searcher Searcher
	selector BestSelector
	finder   RecipeFinder
	fallback Fallback
	config   Config
	metrics  *MetricsRecorder
	logger   zerolog.Logger
}

// New creates an orchestrator. finder and fallback may be nil when the
// caller only uses SearchIngredientPrices directly with no degrade path.
func New(searcher Searcher, sel BestSelector, finder RecipeFinder, fallback Fallback, cfg Config) *Orchestrator {
	if cfg.MaxConcurrentSearches < 1 {
		cfg.MaxConcurrentSearches = 1
	}
	if cfg.MaxConcurrentSelections < 1 {
		cfg.MaxConcurrentSelections = 1
	}
	return &Orchestrator{
		searcher: searcher,
		selector: sel,
		finder:   finder,
		fallback: fallback,
		config:   cfg,
		metrics:  NewMetricsRecorder(),
		logger:   log.With().Str("component", "shopping_orchestrator").Logger(),
	}
}

// ingredientOutcome is the per-task-local result of one ingredient's search.
// Outcomes are written only by their own goroutine and merged after the join.
type ingredientOutcome struct {
	ingredient recipe.Ingredient
	term       string
	skipped    bool
	found      bool // raw search returned at least one product
	byPlatform map[platform.Platform][]search.RawProduct
}

// SearchIngredientPrices searches every ingredient across the requested
// platforms and picks the best product for each pair. Partial results are
// always preferred over total failure: per-ingredient and per-pair problems
// are absorbed, and only a failure of the whole orchestration degrades to
// the holistic LLM fallback.
func (o *Orchestrator) SearchIngredientPrices(ctx context.Context, ingredients []recipe.Ingredient, platforms []platform.Platform) (SearchResult, error) {
	if len(ingredients) == 0 {
		return SearchResult{Results: []selector.Selected{}, Message: "Nothing to search for."}, nil
	}
	if len(platforms) == 0 {
		platforms = platform.DefaultSearchSet()
	}

	runID := uuid.NewString()
	logger := o.logger.With().Str("run_id", runID).Logger()
	start := time.Now()

	result, err := o.searchAll(ctx, logger, ingredients, platforms)
	if err != nil {
		logger.Error().Err(err).Msg("orchestration failed, degrading to holistic fallback")
		if o.fallback == nil {
			return SearchResult{}, err
		}
		o.metrics.RecordHolisticFallback()
		degraded, fbErr := o.fallback.Search(ctx, ingredients, platforms)
		if fbErr != nil {
			return SearchResult{}, fmt.Errorf("search failed and fallback failed (%v): %w", fbErr, err)
		}
		return degraded, nil
	}

	logger.Info().
		Int("ingredients", len(ingredients)).
		Int("results", len(result.Results)).
		Dur("elapsed", time.Since(start)).
		Msg("price search completed")
	return result, nil
}

func (o *Orchestrator) searchAll(ctx context.Context, logger zerolog.Logger, ingredients []recipe.Ingredient, platforms []platform.Platform) (SearchResult, error) {
	start := time.Now()
	requested := make(map[platform.Platform]bool, len(platforms))
	for _, p := range platforms {
		requested[p] = true
	}

	// Phase 1: search all ingredients concurrently and settle on all of
	// them. The unavailable list depends on every ingredient's outcome, so
	// no short-circuiting.
	outcomes := make([]ingredientOutcome, len(ingredients))
	sem := semaphore.NewWeighted(int64(o.config.MaxConcurrentSearches))
	for i, ing := range ingredients {
		if err := sem.Acquire(ctx, 1); err != nil {
			return SearchResult{}, err
		}
		go func(idx int, ing recipe.Ingredient) {
			defer sem.Release(1)
			outcomes[idx] = o.searchIngredient(ctx, logger, ing, requested)
		}(i, ing)
	}
	// Acquiring the full weight joins on every in-flight search.
	if err := sem.Acquire(ctx, int64(o.config.MaxConcurrentSearches)); err != nil {
		return SearchResult{}, err
	}
	sem.Release(int64(o.config.MaxConcurrentSearches))

	// Phase 2: pick the best product per (ingredient, platform) pair.
	type selectionTask struct {
		ingredient recipe.Ingredient
		platform   platform.Platform
		products   []search.RawProduct
	}
	var tasks []selectionTask
	for _, outcome := range outcomes {
		for _, p := range orderedPlatforms(outcome.byPlatform, platforms) {
			tasks = append(tasks, selectionTask{
				ingredient: outcome.ingredient,
				platform:   p,
				products:   outcome.byPlatform[p],
			})
		}
	}

	type selectionSlot struct {
		product selector.Selected
		ok      bool
	}
	slots := make([]selectionSlot, len(tasks))
	selSem := semaphore.NewWeighted(int64(o.config.MaxConcurrentSelections))
	for i, task := range tasks {
		if err := selSem.Acquire(ctx, 1); err != nil {
			return SearchResult{}, err
		}
		go func(idx int, task selectionTask) {
			defer selSem.Release(1)
			product, ok := o.selector.SelectBest(ctx, task.ingredient, task.platform, task.products)
			slots[idx] = selectionSlot{product: product, ok: ok}
		}(i, task)
	}
	if err := selSem.Acquire(ctx, int64(o.config.MaxConcurrentSelections)); err != nil {
		return SearchResult{}, err
	}
	selSem.Release(int64(o.config.MaxConcurrentSelections))

	// Merge per-task results in task order for deterministic output.
	results := make([]selector.Selected, 0, len(slots))
	platformsSeen := make(map[platform.Platform]bool)
	for _, slot := range slots {
		if !slot.ok {
			continue
		}
		results = append(results, slot.product)
		platformsSeen[slot.product.Platform] = true
	}

	var unavailable []string
	skipped := 0
	for _, outcome := range outcomes {
		if outcome.skipped {
			skipped++
			continue
		}
		if !outcome.found {
			unavailable = append(unavailable, outcome.ingredient.Name)
		}
	}

	message := fmt.Sprintf("Found %d products across %d platforms.", len(results), len(platformsSeen))
	if len(unavailable) > 0 {
		message += fmt.Sprintf(" Unable to find: %s.", strings.Join(unavailable, ", "))
	}

	o.metrics.RecordSearch(len(ingredients), len(results), len(unavailable), skipped, time.Since(start))
	return SearchResult{Results: results, Message: message}, nil
}

// searchIngredient normalizes one ingredient, searches it, and groups the
// raw products by classified platform, keeping only requested platforms.
func (o *Orchestrator) searchIngredient(ctx context.Context, logger zerolog.Logger, ing recipe.Ingredient, requested map[platform.Platform]bool) ingredientOutcome {
	outcome := ingredientOutcome{ingredient: ing}

	term, skip := normalize.Simplify(ing.Name)
	if skip {
		logger.Debug().Str("ingredient", ing.Name).Msg("skipping pantry staple")
		outcome.skipped = true
		return outcome
	}
	outcome.term = term

	products := o.searcher.Search(ctx, term)
	if len(products) == 0 {
		logger.Debug().Str("ingredient", ing.Name).Str("term", term).Msg("no products found")
		return outcome
	}
	outcome.found = true

	outcome.byPlatform = make(map[platform.Platform][]search.RawProduct)
	for _, product := range products {
		if product.Platform.Name == "" {
			continue
		}
		p := platform.Classify(product.Platform.Name)
		if !requested[p] {
			continue
		}
		outcome.byPlatform[p] = append(outcome.byPlatform[p], product)
	}
	if len(outcome.byPlatform) == 0 {
		// Products exist but none on a requested platform.
		outcome.byPlatform = nil
	}
	return outcome
}

// orderedPlatforms returns the platforms present in grouped, in the
// requested order, so selection tasks are deterministic.
func orderedPlatforms(grouped map[platform.Platform][]search.RawProduct, requested []platform.Platform) []platform.Platform {
	if len(grouped) == 0 {
		return nil
	}
	ordered := make([]platform.Platform, 0, len(grouped))
	seen := make(map[platform.Platform]bool, len(grouped))
	for _, p := range requested {
		if _, ok := grouped[p]; ok {
			ordered = append(ordered, p)
			seen[p] = true
		}
	}
	var extras []platform.Platform
	for p := range grouped {
		if !seen[p] {
			extras = append(extras, p)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	return append(ordered, extras...)
}

// Shop is the end-to-end flow: recipe discovery, price search across every
// platform, cart build. Discovery failure degrades to an empty cart with an
// apologetic message rather than an error.
func (o *Orchestrator) Shop(ctx context.Context, recipeName string) (cart.Cart, error) {
	platforms := platform.All()

	rec, _, err := o.finder.FindIngredients(ctx, recipeName)
	if err != nil {
		o.logger.Error().Err(err).Str("recipe", recipeName).Msg("recipe discovery failed")
		c := cart.Build(nil, platforms)
		c.Message = "Sorry, there was an error finding ingredients. Please try again."
		return c, nil
	}

	result, err := o.SearchIngredientPrices(ctx, rec.Ingredients, platforms)
	if err != nil {
		o.logger.Error().Err(err).Str("recipe", recipeName).Msg("price search failed")
		c := cart.Build(nil, platforms)
		c.Message = "Sorry, there was an error finding ingredients. Please try again."
		return c, nil
	}

	return cart.Build(result.Results, platforms), nil
}
