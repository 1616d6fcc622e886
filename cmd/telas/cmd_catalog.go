package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/telascatalogo/telas/app/cart"
	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/app/order"
	"github.com/telascatalogo/telas/app/repositories"
	"github.com/telascatalogo/telas/app/services"
	"github.com/telascatalogo/telas/config"
	"github.com/telascatalogo/telas/pkg/cache"
	"github.com/telascatalogo/telas/pkg/database"
	"github.com/telascatalogo/telas/pkg/event"
	"github.com/telascatalogo/telas/pkg/logger"
	"github.com/telascatalogo/telas/pkg/storage"
)

// cliCart maps CART_FILE onto a FileStore directory and snapshot key.
func cliCart() (cart.FileStore, string) {
	file := config.CartFile()
	return cart.FileStore{Dir: filepath.Dir(file)}, strings.TrimSuffix(filepath.Base(file), ".json")
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid fabric id %q", s)
	}
	return uint(id), nil
}

func parseMeters(s string) (float64, error) {
	m, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid meters %q", s)
	}
	return m, nil
}

// catalog opens the store and the listing cache shared with a running server.
func catalog(ctx context.Context) (*services.Catalog, *repositories.FabricRepository, error) {
	if err := bootDB(); err != nil {
		return nil, nil, err
	}
	repo := repositories.NewFabricRepository(database.DB)
	return shareListingCache(ctx, repo), repo, nil
}

// shareListingCache connects Redis when it answers and drops the cached
// listing on every catalog write made by this process.
func shareListingCache(ctx context.Context, store services.FabricLister) *services.Catalog {
	if err := cache.Connect(ctx); err != nil {
		logger.Debug("cache: redis unavailable, listing cache not shared", "error", err)
	}
	cat := services.NewCatalog(store)
	cat.InvalidateOn(event.Default())
	return cat
}

// ─── fabrics ──────────────────────────────────────────────────────────────────

var fabricsCmd = &cobra.Command{
	Use:   "fabrics",
	Short: "Browse and maintain the catalog",
}

var fabricsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fabrics, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		category, _ := cmd.Flags().GetString("category")

		cat, _, err := catalog(cmd.Context())
		if err != nil {
			return err
		}
		fabrics, err := cat.Search(cmd.Context(), search, category)
		if err != nil {
			return err
		}
		if len(fabrics) == 0 {
			fmt.Println("No fabrics found.")
			return nil
		}

		currency := order.Composer{Currency: config.OrderCurrency()}.CurrencyCode()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tCOLOR\tPRICE/M\tSTOCK\t")
		for _, f := range fabrics {
			name := f.Name
			if f.Featured {
				name += " *"
			}
			stock := fmt.Sprintf("%dm", f.Stock)
			if !services.InStock(f) {
				stock = "agotado"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s %s\t%s\t\n",
				f.ID, name, f.Category, f.Color, humanize.Commaf(f.PricePerMeter), currency, stock)
		}
		return w.Flush()
	},
}

var fabricsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a fabric",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		_, repo, err := catalog(cmd.Context())
		if err != nil {
			return err
		}
		if err := services.NewFabricEditor(repo, nil).Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Fabric deleted:", id)
		return nil
	},
}

// telas fabrics image <id> <file> stores an image and points the fabric at it.
var fabricsImageCmd = &cobra.Command{
	Use:   "image <id> <file>",
	Short: "Upload an image and attach it to a fabric",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		cat, repo, err := catalog(cmd.Context())
		if err != nil {
			return err
		}
		images, err := uploader(cmd.Context())
		if err != nil {
			return err
		}
		f, err := cat.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		file, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer file.Close()

		editor := services.NewFabricEditor(repo, images)
		editor.Edit(f)
		url, err := editor.AttachImage(cmd.Context(), filepath.Base(args[1]), file)
		if err != nil {
			return err
		}
		if _, err := editor.Submit(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Image attached:", url)
		return nil
	},
}

func uploader(ctx context.Context) (*storage.ImageUploader, error) {
	storage.Connect(ctx)
	disk, err := storage.Default()
	if err != nil {
		return nil, err
	}
	return storage.NewImageUploader(disk, config.UploadMaxBytes()), nil
}

// ─── cart ─────────────────────────────────────────────────────────────────────

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the local cart kept in CART_FILE",
}

func openCart(ctx context.Context) *cart.Ledger {
	store, key := cliCart()
	return cart.Open(ctx, store, key)
}

func printCart(l *cart.Ledger) error {
	lines := l.Lines()
	if len(lines) == 0 {
		fmt.Println("Cart is empty.")
		return nil
	}
	currency := order.Composer{Currency: config.OrderCurrency()}.CurrencyCode()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMETERS\tPRICE/M\tSUBTOTAL\t")
	for _, ln := range lines {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s %s\t\n",
			ln.ID, ln.Name, humanize.Ftoa(ln.Meters), humanize.Commaf(ln.PricePerMeter),
			order.Amount(ln.Subtotal()), currency)
	}
	fmt.Fprintf(w, "\t\t\tTOTAL\t%s %s\t\n", order.Amount(l.Total()), currency)
	if err := w.Flush(); err != nil {
		return err
	}
	if l.Degraded() {
		fmt.Fprintln(os.Stderr, "warning: cart could not be saved; changes are not persisted")
	}
	return nil
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCart(openCart(cmd.Context()))
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <id> [meters]",
	Short: "Add a fabric (default 1 meter)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		meters := 1.0
		if len(args) == 2 {
			if meters, err = parseMeters(args[1]); err != nil {
				return err
			}
		}
		cat, _, err := catalog(cmd.Context())
		if err != nil {
			return err
		}
		f, err := cat.Get(cmd.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("fabric %d not found", id)
			}
			return err
		}
		l := openCart(cmd.Context())
		l.Add(cmd.Context(), f, meters)
		return printCart(l)
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set <id> <meters>",
	Short: "Set the meters of a line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		meters, err := parseMeters(args[1])
		if err != nil {
			return err
		}
		l := openCart(cmd.Context())
		l.SetMeters(cmd.Context(), id, meters)
		return printCart(l)
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		l := openCart(cmd.Context())
		l.Remove(cmd.Context(), id)
		return printCart(l)
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		openCart(cmd.Context()).Clear(cmd.Context())
		fmt.Println("Cart cleared.")
		return nil
	},
}

var cartOrderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print the order message and WhatsApp link",
	RunE: func(cmd *cobra.Command, args []string) error {
		composer := order.Composer{Currency: config.OrderCurrency(), Phone: config.WhatsAppNumber()}
		o, err := composer.Dispatch(openCart(cmd.Context()).Lines())
		if err != nil {
			return err
		}
		fmt.Println(o.Message)
		fmt.Println()
		fmt.Println(o.URL)
		return nil
	},
}

func init() {
	fabricsListCmd.Flags().String("search", "", "match name, description or category")
	fabricsListCmd.Flags().String("category", "", "exact category")
	fabricsCmd.AddCommand(fabricsListCmd, fabricsDeleteCmd, fabricsImageCmd)

	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartSetCmd, cartRemoveCmd, cartClearCmd, cartOrderCmd)
}
