// Package equivalency decides whether two differently named products from
// different platforms are the same thing.
package equivalency

import (
	"context"
	"fmt"
	"strings"

	"github.com/saveit/shopping-service/internal/llm"
)

// Product is the minimal description compared for equivalency.
type Product struct {
	Name     string `json:"name" binding:"required"`
	Brand    string `json:"brand,omitempty"`
	Quantity string `json:"quantity,omitempty"`
}

// Result is the equivalency verdict.
type Result struct {
	Equivalent bool   `json:"equivalent"`
	Reason     string `json:"reason"`
}

// Checker compares products via the LLM.
type Checker struct {
	llm *llm.Client
}

// NewChecker creates an equivalency checker.
func NewChecker(client *llm.Client) *Checker {
	return &Checker{llm: client}
}

// Check determines whether the two products are equivalent, even if their
// names differ, considering brand, quantity, and implied packaging.
func (c *Checker) Check(ctx context.Context, product1, product2 Product) (Result, error) {
	var sb strings.Builder
	sb.WriteString(`You are an expert product comparison agent.

Determine if two products are equivalent, even if their names are slightly different. Consider brand, quantity, and packaging variations implied by quantity.

`)
	writeProduct(&sb, "Product 1", product1)
	writeProduct(&sb, "Product 2", product2)
	sb.WriteString(`Set 'equivalent' to true if they are equivalent, false if not. Provide a concise reason, e.g., "Same brand and quantity" or "Different brand".`)

	var result Result
	if err := c.llm.CompleteJSON(ctx, "product_equivalency", sb.String(), &result); err != nil {
		return Result{}, fmt.Errorf("check equivalency of %q and %q: %w", product1.Name, product2.Name, err)
	}
	return result, nil
}

func writeProduct(sb *strings.Builder, label string, p Product) {
	fmt.Fprintf(sb, "%s:\nName: %s\n", label, p.Name)
	if p.Brand != "" {
		fmt.Fprintf(sb, "Brand: %s\n", p.Brand)
	}
	if p.Quantity != "" {
		fmt.Fprintf(sb, "Quantity: %s\n", p.Quantity)
	}
	sb.WriteString("\n")
}
