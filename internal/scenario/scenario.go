// Package scenario provides reproducible procurement test scenarios for
// the suggestion engine. Scenarios pair an input snapshot (materials,
// suppliers, usage history) with expectations on the resulting
// envelope, and run against a stubbed oracle so results are
// deterministic.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"procura/internal/models"
)

// Scenario defines one reproducible engine run for evaluation.
type Scenario struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Materials []models.Material      `yaml:"materials"`
	Suppliers []models.Supplier      `yaml:"suppliers"`
	UsageLogs []models.UsageLogEntry `yaml:"usageLogs"`

	Expect Expectation `yaml:"expect"`
}

// Expectation constrains the envelope a scenario must produce. Nil
// fields are not checked.
type Expectation struct {
	Success         *bool  `yaml:"success"`
	Partial         *bool  `yaml:"partial"`
	SuggestionCount *int   `yaml:"suggestionCount"`
	MinSuggestions  *int   `yaml:"minSuggestions"`
	FirstUrgency    string `yaml:"firstUrgency"`
	FirstMaterial   string `yaml:"firstMaterial"`
}

// Catalog holds the available scenarios.
type Catalog struct {
	scenarios map[string]*Scenario
}

// NewCatalog creates a catalog preloaded with the built-in scenarios.
func NewCatalog() *Catalog {
	c := &Catalog{scenarios: make(map[string]*Scenario)}
	c.loadBuiltins()
	return c
}

// Has checks if a scenario exists
func (c *Catalog) Has(id string) bool {
	_, exists := c.scenarios[id]
	return exists
}

// Get returns a scenario by ID.
func (c *Catalog) Get(id string) (*Scenario, bool) {
	s, ok := c.scenarios[id]
	return s, ok
}

// All returns the scenarios sorted by ID.
func (c *Catalog) All() []*Scenario {
	scenarios := make([]*Scenario, 0, len(c.scenarios))
	for _, s := range c.scenarios {
		scenarios = append(scenarios, s)
	}
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].ID < scenarios[j].ID })
	return scenarios
}

// LoadFile adds a YAML-defined scenario to the catalog. A file may hold
// a single scenario document.
func (c *Catalog) LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	if s.ID == "" {
		s.ID = filepath.Base(path)
	}
	c.scenarios[s.ID] = &s
	return &s, nil
}

// LoadDir adds every *.yaml scenario in a directory.
func (c *Catalog) LoadDir(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return err
	}
	for _, path := range matches {
		if _, err := c.LoadFile(path); err != nil {
			return err
		}
	}
	return nil
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }

// loadBuiltins populates the catalog with canned procurement
// situations covering the engine's main behaviors.
func (c *Catalog) loadBuiltins() {
	c.scenarios["critical_shortage"] = &Scenario{
		ID:          "critical_shortage",
		Name:        "Critical Shortage",
		Description: "A safety-critical material far below its reorder level with one strong supplier.",
		Materials: []models.Material{{
			ID:              "MAT-001",
			Name:            "Safety Gloves",
			Category:        "Safety",
			StockQty:        5,
			ReorderLevel:    50,
			MaxStock:        floatPtr(200),
			Unit:            "PC",
			AvgMonthlyUsage: floatPtr(10),
		}},
		Suppliers: []models.Supplier{{
			ID:              "SUP-001",
			Name:            "Global Safety Supplies",
			IsActive:        true,
			Rating:          5,
			FulfillmentRate: 98,
			DeliveryTime:    7,
			PricePerUnit:    floatPtr(12.50),
		}},
		Expect: Expectation{
			Success:         boolPtr(true),
			SuggestionCount: intPtr(1),
			FirstUrgency:    string(models.UrgencyHigh),
			FirstMaterial:   "MAT-001",
		},
	}

	c.scenarios["quiet_warehouse"] = &Scenario{
		ID:          "quiet_warehouse",
		Name:        "Quiet Warehouse",
		Description: "Nothing is low on stock; the engine should return an empty success envelope.",
		Suppliers: []models.Supplier{{
			ID: "SUP-001", Name: "Acme Industrial", IsActive: true, Rating: 4, FulfillmentRate: 92, DeliveryTime: 5,
		}},
		Expect: Expectation{
			Success:         boolPtr(true),
			SuggestionCount: intPtr(0),
		},
	}

	c.scenarios["no_suppliers"] = &Scenario{
		ID:          "no_suppliers",
		Name:        "No Active Suppliers",
		Description: "Low stock everywhere but every supplier is inactive; the batch cannot start.",
		Materials: []models.Material{{
			ID: "MAT-010", Name: "Copper Wire", Category: "Electrical", StockQty: 2, ReorderLevel: 30,
		}},
		Suppliers: []models.Supplier{{
			ID: "SUP-009", Name: "Dormant Trading", IsActive: false, Rating: 4, FulfillmentRate: 90, DeliveryTime: 4,
		}},
		Expect: Expectation{
			Success:         boolPtr(false),
			SuggestionCount: intPtr(0),
		},
	}

	c.scenarios["mixed_urgency"] = &Scenario{
		ID:          "mixed_urgency",
		Name:        "Mixed Urgency",
		Description: "Several materials at different stock positions; ordering must surface the most urgent first.",
		Materials: []models.Material{
			{ID: "MAT-020", Name: "Lubricant", Category: "Maintenance", StockQty: 45, ReorderLevel: 50, AvgMonthlyUsage: floatPtr(8)},
			{ID: "MAT-021", Name: "Electrical Fuses", Category: "Electrical", StockQty: 4, ReorderLevel: 40, AvgMonthlyUsage: floatPtr(60)},
			{ID: "MAT-022", Name: "Packing Tape", Category: "Packaging", StockQty: 30, ReorderLevel: 35, AvgMonthlyUsage: floatPtr(25)},
		},
		Suppliers: []models.Supplier{
			{ID: "SUP-020", Name: "Maintenance Depot", IsActive: true, Rating: 4.2, FulfillmentRate: 93, DeliveryTime: 6, PricePerUnit: floatPtr(4.75)},
			{ID: "SUP-021", Name: "Electrical Wholesale", IsActive: true, Rating: 4.8, FulfillmentRate: 97, DeliveryTime: 3, PricePerUnit: floatPtr(1.10)},
		},
		Expect: Expectation{
			Success:         boolPtr(true),
			SuggestionCount: intPtr(3),
			FirstUrgency:    string(models.UrgencyHigh),
			FirstMaterial:   "MAT-021",
		},
	}
}
