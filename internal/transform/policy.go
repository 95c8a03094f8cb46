package transform

import (
	"encoding/json"
	"fmt"
	"os"
)

// MarkupRule is a price multiplier plus the decimal precision the result is
// rounded to.
type MarkupRule struct {
	Multiplier float64 `json:"multiplier"`
	RoundTo    int     `json:"roundTo"`
}

// SaleRules controls whether the vendor's discounted price is carried into
// the catalog as a sale price.
type SaleRules struct {
	UseDiscountedPrice bool `json:"useDiscountedPrice"`
}

// MarkupConfig is the pricing policy: a default rule plus overrides keyed by
// raw vendor category. Overrides are matched against the raw labels, not the
// mapped ones.
type MarkupConfig struct {
	Default           MarkupRule            `json:"default"`
	CategoryOverrides map[string]MarkupRule `json:"categoryOverrides"`
	SaleRules         SaleRules             `json:"saleRules"`
}

// CategoryMap translates the vendor's category vocabulary into the site's.
// A nil mapping target drops the label. Exclusion is checked before the
// mapping lookup and always wins.
type CategoryMap struct {
	Mapping           map[string]*string `json:"mapping"`
	ExcludeCategories []string           `json:"excludeCategories"`
	Passthrough       bool               `json:"passthrough"`
}

func (c *CategoryMap) isExcluded(category string) bool {
	for _, excluded := range c.ExcludeCategories {
		if excluded == category {
			return true
		}
	}
	return false
}

// LoadMarkupConfig reads the pricing policy file. Decoded with encoding/json
// directly: the override keys are case-sensitive vendor labels (often Greek),
// which viper's case-insensitive key handling would mangle.
func LoadMarkupConfig(path string) (MarkupConfig, error) {
	var cfg MarkupConfig
	if err := loadJSON(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load markup config: %w", err)
	}
	return cfg, nil
}

// LoadCategoryMap reads the category mapping policy file.
func LoadCategoryMap(path string) (CategoryMap, error) {
	var cfg CategoryMap
	if err := loadJSON(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load category map: %w", err)
	}
	return cfg, nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
