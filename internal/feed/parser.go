package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoProducts = errors.New("invalid XML structure: missing <products><product> elements")
)

// RawProduct is one vendor-schema record as it appears in the feed. Numeric
// fields stay strings here; the transformer parses them leniently the same
// way the feed's own tooling does (unparseable means zero).
type RawProduct struct {
	SKU             string   `xml:"sku"`
	Name            string   `xml:"name"`
	Quantity        string   `xml:"quantity"`
	RetailPrice     string   `xml:"retail-price"`
	DiscountedPrice string   `xml:"discounted-price"`
	Categories      []string `xml:"categories>item"`
	Photo           string   `xml:"photo"`
	Photos          []string `xml:"photos>item"`
	Description     string   `xml:"description"`
	Comments        string   `xml:"comments"`
	Color           string   `xml:"color"`
	Dimensions      string   `xml:"dimensions"`
	Material        string   `xml:"material"`
}

type feedDocument struct {
	XMLName  xml.Name     `xml:"products"`
	Products []RawProduct `xml:"product"`
}

// Parse deserializes the vendor feed. The `parent>item` field tags coerce
// the schema's single-vs-repeated elements into slices for any cardinality
// (zero, one, or many <item> children), so downstream code never has to
// branch on shape. A document without the expected root or without any
// <product> elements is a parse failure, never an empty batch.
func Parse(data []byte) ([]RawProduct, error) {
	var doc feedDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse feed XML: %w", err)
	}

	if len(doc.Products) == 0 {
		return nil, ErrNoProducts
	}

	for i := range doc.Products {
		normalize(&doc.Products[i])
	}

	return doc.Products, nil
}

// normalize trims whitespace the vendor leaves around element text and
// drops blank list items.
func normalize(p *RawProduct) {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Name = strings.TrimSpace(p.Name)
	p.Quantity = strings.TrimSpace(p.Quantity)
	p.RetailPrice = strings.TrimSpace(p.RetailPrice)
	p.DiscountedPrice = strings.TrimSpace(p.DiscountedPrice)
	p.Photo = strings.TrimSpace(p.Photo)
	p.Description = strings.TrimSpace(p.Description)
	p.Comments = strings.TrimSpace(p.Comments)
	p.Color = strings.TrimSpace(p.Color)
	p.Dimensions = strings.TrimSpace(p.Dimensions)
	p.Material = strings.TrimSpace(p.Material)
	p.Categories = coerceList(p.Categories)
	p.Photos = coerceList(p.Photos)
}

// coerceList trims every entry and removes blanks, always returning a
// non-nil slice.
func coerceList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
