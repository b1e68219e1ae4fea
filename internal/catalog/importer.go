package catalog

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/quickview/internal/progress"
)

// importFile is the YAML layout accepted by Import.
type importFile struct {
	Products []importProduct `yaml:"products"`
}

// importProduct mirrors Product but lets availability flags default to true
// when a file omits them.
type importProduct struct {
	Product     `yaml:",inline"`
	Purchasable *bool             `yaml:"purchasable"`
	InStock     *bool             `yaml:"in_stock"`
	Variations  []importVariation `yaml:"variations"`
}

type importVariation struct {
	Variation `yaml:",inline"`
	InStock   *bool `yaml:"in_stock"`
}

// ImportResult summarises an Import run.
type ImportResult struct {
	Imported int
	Names    []string
}

// Import reads products from YAML and upserts them into store.
func Import(ctx context.Context, store *Store, r io.Reader, reporter progress.Reporter) (*ImportResult, error) {
	var f importFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	if reporter == nil {
		reporter = progress.Discard
	}

	reporter.Start(len(f.Products))
	defer reporter.Finish()

	res := &ImportResult{}
	for i, rec := range f.Products {
		p := rec.toProduct()
		if err := store.Upsert(ctx, p); err != nil {
			return res, fmt.Errorf("importing product %q: %w", p.Name, err)
		}
		res.Imported++
		res.Names = append(res.Names, p.Name)
		reporter.Update(i+1, p.Name)
	}
	return res, nil
}

func (rec importProduct) toProduct() Product {
	p := rec.Product
	p.Purchasable = boolOr(rec.Purchasable, true)
	p.InStock = boolOr(rec.InStock, true)
	p.Variations = nil
	for _, v := range rec.Variations {
		variation := v.Variation
		variation.InStock = boolOr(v.InStock, true)
		p.Variations = append(p.Variations, variation)
	}
	if p.Price == "" {
		p.Price = p.RegularPrice
		if p.SalePrice != "" {
			p.Price = p.SalePrice
		}
	}
	return p
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
