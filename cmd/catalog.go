package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/quickview/internal/audit"
	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/progress"
)

var catalogType string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the product catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.yml>",
	Short: "Import products from a YAML file",
	Long:  `Reads products from a YAML file and creates or replaces them in the catalog.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openCLIApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening catalog file: %w", err)
		}
		defer f.Close()

		result, err := catalog.Import(ctx, a.catalog, f, progress.NewReporter("Importing products"))
		if err != nil {
			return err
		}

		if err := a.audit.Log(ctx, audit.Entry{
			ActorType: audit.ActorCLI,
			ActorID:   cliActor(),
			Action:    audit.ActionCatalogImported,
			Scope:     audit.ScopeCatalog,
			ScopeID:   uuid.New().String(),
			Summary:   fmt.Sprintf("Imported %d products from %s", result.Imported, args[0]),
			NewValue:  strings.Join(result.Names, ", "),
		}); err != nil {
			return err
		}

		total, err := a.catalog.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d products, catalog holds %d\n", result.Imported, total)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog products",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openCLIApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		products, err := a.catalog.List(ctx, catalog.ListFilter{Type: catalog.ProductType(catalogType)})
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("No products. Run `quickview catalog import <file.yml>` to add some.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tNAME\tPRICE\tSTOCK")
		for _, p := range products {
			stock := "in stock"
			if !p.InStock {
				stock = "out of stock"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Type, p.Name, p.Price, stock)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		total, err := a.catalog.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d of %d products\n", len(products), total)
		return nil
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product with its images, attributes and variations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		ctx := context.Background()
		a, err := openCLIApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := deleteProduct(ctx, a.catalog, a.audit, cliActor(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted product %d\n", id)
		return nil
	},
}

// deleteProduct removes product id and records who removed it.
func deleteProduct(ctx context.Context, products *catalog.Store, trail *audit.Store, actorID string, id int64) error {
	p, err := products.Get(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("product %d not found", id)
	}
	if _, err := products.Delete(ctx, id); err != nil {
		return err
	}
	return trail.Log(ctx, audit.Entry{
		ActorType:     audit.ActorCLI,
		ActorID:       actorID,
		Action:        audit.ActionProductDeleted,
		Scope:         audit.ScopeProduct,
		ScopeID:       strconv.FormatInt(id, 10),
		Summary:       fmt.Sprintf("Deleted product %q", p.Name),
		PreviousValue: p.Name,
	})
}

func init() {
	catalogListCmd.Flags().StringVar(&catalogType, "type", "", "only list products of this type")
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogDeleteCmd)
	rootCmd.AddCommand(catalogCmd)
}
