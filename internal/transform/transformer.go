package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"inspirehome-sync/internal/domain"
	"inspirehome-sync/internal/feed"
)

const (
	// vendorIDPrefix makes catalog ids stable and traceable to the vendor SKU.
	vendorIDPrefix = "liberta-"

	// excerptLength is the rune budget for the short description shown on
	// listing pages.
	excerptLength = 200
)

// Transformer applies the pricing and category policies to raw feed records.
type Transformer struct {
	markup MarkupConfig
	catmap CategoryMap
}

// New creates a Transformer bound to the given policies.
func New(markup MarkupConfig, catmap CategoryMap) *Transformer {
	return &Transformer{markup: markup, catmap: catmap}
}

// Transform converts one raw record into a canonical product. A nil result
// means the record was skipped: out of stock, missing name or SKU, or no
// positive retail price.
func (t *Transformer) Transform(raw feed.RawProduct) *domain.Product {
	quantity := parseIntLenient(raw.Quantity)
	if quantity <= 0 {
		return nil
	}

	if raw.Name == "" || raw.SKU == "" {
		return nil
	}

	categories := t.mapCategories(raw.Categories)
	rule := t.markupRule(raw.Categories)

	retailPrice := parseFloatLenient(raw.RetailPrice)
	if retailPrice <= 0 {
		return nil
	}
	price := roundTo(retailPrice*rule.Multiplier, rule.RoundTo)

	var salePrice *float64
	if t.markup.SaleRules.UseDiscountedPrice && raw.DiscountedPrice != "" {
		discounted := parseFloatLenient(raw.DiscountedPrice)
		// A vendor "discount" at or above list price is not a sale.
		if discounted > 0 && discounted < retailPrice {
			v := roundTo(discounted*rule.Multiplier, rule.RoundTo)
			salePrice = &v
		}
	}

	description := raw.Description
	if raw.Comments != "" {
		description = raw.Description + "\n\n" + raw.Comments
	}

	return &domain.Product{
		ID:          vendorIDPrefix + raw.SKU,
		Title:       raw.Name,
		Slug:        Slugify(raw.Name),
		Description: description,
		Excerpt:     excerpt(raw.Description),
		Price:       price,
		SalePrice:   salePrice,
		Images:      collectImages(raw),
		Categories:  categories,
		Color:       raw.Color,
		Dimensions:  raw.Dimensions,
		Material:    raw.Material,
		InStock:     true,
		Stock:       quantity,
	}
}

// TransformAll runs Transform over the whole batch and resolves slug
// collisions: the first product keeps the bare slug, later collisions get an
// incrementing numeric suffix in encounter order. Returns the products and
// the number of skipped records.
func (t *Transformer) TransformAll(records []feed.RawProduct) ([]domain.Product, int) {
	products := make([]domain.Product, 0, len(records))
	slugCounts := make(map[string]int)
	skipped := 0

	for _, raw := range records {
		product := t.Transform(raw)
		if product == nil {
			skipped++
			continue
		}

		if count, ok := slugCounts[product.Slug]; ok {
			slugCounts[product.Slug] = count + 1
			product.Slug = fmt.Sprintf("%s-%d", product.Slug, count+1)
		} else {
			slugCounts[product.Slug] = 1
		}

		products = append(products, *product)
	}

	return products, skipped
}

// mapCategories resolves raw vendor labels through exclusion, mapping, and
// passthrough, deduplicating while preserving first occurrence.
func (t *Transformer) mapCategories(rawCategories []string) []string {
	mapped := make([]string, 0, len(rawCategories))
	seen := make(map[string]bool)

	appendOnce := func(label string) {
		if !seen[label] {
			seen[label] = true
			mapped = append(mapped, label)
		}
	}

	for _, category := range rawCategories {
		if t.catmap.isExcluded(category) {
			continue
		}

		if target, ok := t.catmap.Mapping[category]; ok {
			if target != nil {
				appendOnce(*target)
			}
		} else if t.catmap.Passthrough {
			appendOnce(category)
		}
	}

	return mapped
}

// markupRule returns the first category-specific override, scanning the raw
// labels in feed order, or the default rule when none matches.
func (t *Transformer) markupRule(rawCategories []string) MarkupRule {
	for _, category := range rawCategories {
		if rule, ok := t.markup.CategoryOverrides[category]; ok {
			return rule
		}
	}
	return t.markup.Default
}

// collectImages gathers the primary photo plus the auxiliary list,
// deduplicated by a normalized key (protocol and query string stripped) so
// the same asset served over http/https or with cache-buster params appears
// once. First-seen order and the original URL are preserved.
func collectImages(raw feed.RawProduct) []string {
	images := make([]string, 0, len(raw.Photos)+1)
	seen := make(map[string]bool)

	add := func(url string) {
		key := imageKey(url)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		images = append(images, url)
	}

	if raw.Photo != "" {
		add(raw.Photo)
	}
	for _, url := range raw.Photos {
		add(url)
	}

	return images
}

func imageKey(url string) string {
	key := url
	if i := strings.Index(key, "://"); i != -1 {
		key = key[i+3:]
	}
	if i := strings.IndexByte(key, '?'); i != -1 {
		key = key[:i]
	}
	return key
}

// excerpt truncates the description to the listing-page budget, marking the
// cut with an ellipsis. Counted in runes so Greek text is not cut mid-byte.
func excerpt(description string) string {
	runes := []rune(description)
	if len(runes) <= excerptLength {
		return description
	}
	return string(runes[:excerptLength]) + "..."
}

// parseIntLenient mirrors the feed tooling's forgiving number handling:
// anything unparseable is zero, which downstream filters reject.
func parseIntLenient(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloatLenient(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
