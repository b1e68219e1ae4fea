package cmd

import (
	"context"
	"testing"

	"github.com/ziadkadry99/quickview/internal/audit"
	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/db"
)

func TestDeleteProduct(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	ctx := context.Background()
	products := catalog.NewStore(database)
	trail := audit.NewStore(database)

	err = products.Upsert(ctx, catalog.Product{
		ID: 12, Type: catalog.TypeSimple, Name: "Beanie", Purchasable: true, InStock: true,
		Images: []catalog.Image{{Src: "/uploads/beanie.jpg"}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := deleteProduct(ctx, products, trail, "root", 12); err != nil {
		t.Fatalf("deleteProduct: %v", err)
	}
	if p, _ := products.Get(ctx, 12); p != nil {
		t.Error("product still present")
	}

	var images int
	if err := database.QueryRow(`SELECT COUNT(*) FROM product_images WHERE product_id = 12`).Scan(&images); err != nil {
		t.Fatalf("counting images: %v", err)
	}
	if images != 0 {
		t.Errorf("%d image rows left", images)
	}

	entries, err := trail.Query(ctx, audit.QueryFilter{Action: audit.ActionProductDeleted})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 || entries[0].ScopeID != "12" || entries[0].ActorType != audit.ActorCLI || entries[0].PreviousValue != "Beanie" {
		t.Errorf("audit entries = %+v", entries)
	}

	if err := deleteProduct(ctx, products, trail, "root", 12); err == nil {
		t.Error("expected an error deleting a missing product")
	}
}
