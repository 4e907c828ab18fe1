// Package recipe turns a recipe name into a structured ingredient list via
// the LLM.
package recipe

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saveit/shopping-service/internal/llm"
)

// Ingredient is one ingredient of a recipe. Quantity is free text as a cook
// would write it ("2 cups", "500g"). Immutable once produced.
type Ingredient struct {
	Name         string   `json:"name" binding:"required"`
	Quantity     string   `json:"quantity"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Recipe is a named ingredient list.
type Recipe struct {
	Name        string       `json:"name"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Discovery resolves recipe names to ingredient lists.
type Discovery struct {
	llm    *llm.Client
	logger zerolog.Logger
}

// NewDiscovery creates a recipe discovery service.
func NewDiscovery(client *llm.Client) *Discovery {
	return &Discovery{
		llm:    client,
		logger: log.With().Str("component", "recipe_discovery").Logger(),
	}
}

type discoveryReply struct {
	Recipe  Recipe `json:"recipe"`
	Message string `json:"message"`
}

const discoveryPrompt = `You are an expert chef and nutritionist who helps people find recipes and identify the ingredients needed.

Please provide a detailed list of ingredients needed for this recipe. For each ingredient, include:
- The exact name as it would appear in a grocery store (use simple, searchable terms)
- The required quantity with units (e.g., "2 cups", "500g")

Be specific about the type and form of each ingredient (e.g., "fresh basil leaves" rather than just "basil").

For the recipe: %s`

// FindIngredients asks the LLM for the ingredient list of the named recipe.
// The returned message is a friendly summary for the user.
func (d *Discovery) FindIngredients(ctx context.Context, recipeName string) (Recipe, string, error) {
	if recipeName == "" {
		return Recipe{}, "", fmt.Errorf("recipe name is empty")
	}

	var reply discoveryReply
	if err := d.llm.CompleteJSON(ctx, "recipe_ingredients", fmt.Sprintf(discoveryPrompt, recipeName), &reply); err != nil {
		return Recipe{}, "", fmt.Errorf("find ingredients for %q: %w", recipeName, err)
	}
	if reply.Recipe.Name == "" {
		reply.Recipe.Name = recipeName
	}

	d.logger.Info().
		Str("recipe", reply.Recipe.Name).
		Int("ingredients", len(reply.Recipe.Ingredients)).
		Msg("recipe resolved")
	return reply.Recipe, reply.Message, nil
}
