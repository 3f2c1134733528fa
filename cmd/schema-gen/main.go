// Schema Generator
//
// Generates JSON Schema files from the API request and response types so
// clients in other languages can validate payloads. Go is the source of truth.
//
// Usage:
//
//	go run ./cmd/schema-gen -out ./schemas
//
// Output:
//
//	<out>/basket.json
//	<out>/catalog.json
//	<out>/delivery.json
//	<out>/recognition.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"github.com/kosarica/basket-service/internal/basket"
	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/handlers"
	"github.com/kosarica/basket-service/internal/optimizer"
	"github.com/kosarica/basket-service/internal/recognition"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

var groups = []SchemaGroup{
	{
		Name: "basket",
		Types: []any{
			// Request types
			basket.Line{},
			handlers.OriginRequest{},
			handlers.PricingRequest{},
			handlers.QuoteRequest{},
			handlers.BasketRequest{},
			handlers.LineRequest{},
			handlers.CompareSavedRequest{},
			// Response types
			basket.Basket{},
			handlers.BasketListResponse{},
			optimizer.StoreQuote{},
			optimizer.Ranking{},
			optimizer.Allocation{},
			optimizer.Comparison{},
		},
		Output: "basket.json",
	},
	{
		Name: "catalog",
		Types: []any{
			catalog.Store{},
			catalog.Product{},
			catalog.PriceEntry{},
			handlers.StoresResponse{},
			handlers.ProductsResponse{},
			handlers.ProductPricesResponse{},
			handlers.CatalogStatsResponse{},
		},
		Output: "catalog.json",
	},
	{
		Name: "delivery",
		Types: []any{
			handlers.DeliveryQuoteRequest{},
			handlers.DistanceResponse{},
			optimizer.DeliveryQuote{},
		},
		Output: "delivery.json",
	},
	{
		Name: "recognition",
		Types: []any{
			recognition.Input{},
			recognition.Result{},
			handlers.ErrorResponse{},
		},
		Output: "recognition.json",
	},
}

func main() {
	outputDir := flag.String("out", "./schemas", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, group := range groups {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(*outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

var (
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
)

// mapDecimal describes money values the way they are marshalled: as strings.
func mapDecimal(t reflect.Type) *jsonschema.Schema {
	switch t {
	case decimalType:
		return &jsonschema.Schema{Type: "string", Pattern: `^-?\d+(\.\d+)?$`, Description: "Decimal amount"}
	case nullDecimalType:
		return &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Type: "string", Pattern: `^-?\d+(\.\d+)?$`},
				{Type: "null"},
			},
			Description: "Decimal amount or null",
		}
	}
	return nil
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: false,
		ExpandedStruct: false,
		Mapper:         mapDecimal,
	}

	definitions := make(map[string]any)

	for _, t := range group.Types {
		schema := reflector.Reflect(t)

		typeName := ""
		if schema.Ref != "" {
			// "#/$defs/PricingRequest"
			typeName = filepath.Base(schema.Ref)
		}

		for name, def := range schema.Definitions {
			definitions[name] = def
		}
		if typeName != "" && schema.Definitions[typeName] != nil {
			definitions[typeName] = schema.Definitions[typeName]
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://kosarica.hr/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
