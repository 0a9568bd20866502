package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"onlineretail/client"
)

const defaultAPIURL = "http://localhost:5000"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var apiURL string

	root := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Gestion du catalogue produits via l'API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiURL, "url", envOr("CATALOG_API_URL", defaultAPIURL), "URL de base de l'API")

	view := func() *client.View {
		return client.NewView(client.New(apiURL))
	}

	root.AddCommand(
		newListCmd(view),
		newGetCmd(view),
		newCreateCmd(view),
		newUpdateCmd(view),
		newDeleteCmd(view),
	)
	return root
}

func newListCmd(view func() *client.View) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Liste les produits (filtre sur code, description ou prix)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := view()
			if err := v.Refresh(cmd.Context()); err != nil {
				return err
			}
			v.SetFilter(filter)
			printProducts(cmd.OutOrStdout(), v.Visible())
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "sous-chaîne recherchée (insensible à la casse)")
	return cmd
}

func newGetCmd(view func() *client.View) *cobra.Command {
	return &cobra.Command{
		Use:   "get STOCK_CODE",
		Short: "Affiche un produit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := view().Client().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), []client.Product{*p})
			return nil
		},
	}
}

func newCreateCmd(view func() *client.View) *cobra.Command {
	return &cobra.Command{
		Use:   "create STOCK_CODE DESCRIPTION UNIT_PRICE",
		Short: "Ajoute un produit",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parsePrice(args[2])
			if err != nil {
				return err
			}
			v := view()
			p := client.Product{StockCode: args[0], Description: args[1], UnitPrice: price}
			if err := v.Create(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Produit %s ajouté (%d produits)\n", p.StockCode, len(v.Products()))
			return nil
		},
	}
}

func newUpdateCmd(view func() *client.View) *cobra.Command {
	return &cobra.Command{
		Use:   "update STOCK_CODE DESCRIPTION UNIT_PRICE",
		Short: "Modifie la description et le prix d'un produit",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parsePrice(args[2])
			if err != nil {
				return err
			}
			if err := view().Update(cmd.Context(), args[0], args[1], price); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Produit %s modifié\n", args[0])
			return nil
		},
	}
}

func newDeleteCmd(view func() *client.View) *cobra.Command {
	return &cobra.Command{
		Use:   "delete STOCK_CODE",
		Short: "Supprime un produit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := view().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Produit %s supprimé\n", args[0])
			return nil
		},
	}
}

func parsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid unit price %q", s)
	}
	return price, nil
}

func printProducts(out io.Writer, products []client.Product) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STOCK CODE\tDESCRIPTION\tUNIT PRICE")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.StockCode, p.Description, client.FormatPrice(p.UnitPrice))
	}
	w.Flush()
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
