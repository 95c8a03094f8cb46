package delta

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"

	"inspirehome-sync/internal/domain"
)

// Delta classifies each product id relative to the previous run. Unchanged
// products are counted, not listed.
type Delta struct {
	New       []string
	Removed   []string
	Changed   []string
	Unchanged int
}

// HasChanges reports whether anything differs from the previous run. An
// all-unchanged delta is the expected steady state, not an error.
func (d Delta) HasChanges() bool {
	return len(d.New) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// hashFields is the fixed subset of product fields covered by the content
// hash. The hash is the MD5 of this struct's JSON encoding, which is
// deterministic because Go marshals struct fields in declaration order.
// Note the hash is sensitive to the order of the images and categories
// lists: a feed that reorders an otherwise-identical list reclassifies the
// product as changed.
type hashFields struct {
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	SalePrice   *float64 `json:"salePrice"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	Dimensions  string   `json:"dimensions"`
	Material    string   `json:"material"`
}

// HashProduct computes the content hash used for change detection. The
// digest choice is not load-bearing; it only has to be stable and cheap.
func HashProduct(p domain.Product) string {
	payload, _ := json.Marshal(hashFields{
		Title:       p.Title,
		Price:       p.Price,
		SalePrice:   p.SalePrice,
		Stock:       p.Stock,
		Images:      p.Images,
		Categories:  p.Categories,
		Description: p.Description,
		Color:       p.Color,
		Dimensions:  p.Dimensions,
		Material:    p.Material,
	})
	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:])
}

// Compute classifies every product against the previous run's hash table and
// returns the table for the next run. Removed ids are sorted so the sampled
// ids persisted from them are deterministic; new and changed ids follow
// batch order.
func Compute(products []domain.Product, previous map[string]string) (Delta, map[string]string) {
	hashes := make(map[string]string, len(products))
	var d Delta

	for _, product := range products {
		hash := HashProduct(product)
		hashes[product.ID] = hash

		prev, existed := previous[product.ID]
		switch {
		case !existed:
			d.New = append(d.New, product.ID)
		case prev != hash:
			d.Changed = append(d.Changed, product.ID)
		default:
			d.Unchanged++
		}
	}

	for id := range previous {
		if _, ok := hashes[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}
	sort.Strings(d.Removed)

	return d, hashes
}
