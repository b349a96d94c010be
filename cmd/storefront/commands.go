package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"qkart/storefront/internal/client"
	"qkart/storefront/internal/container"
	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/storefront"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	username  string
	password  string
	confirm   string
	addressID string
	address   string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *storefront.Store) error {
			if err := store.LoadCatalog(ctx); err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), store.Products())
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search products by name or category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *storefront.Store) error {
			if err := store.LoadCatalog(ctx); err != nil {
				return err
			}
			if err := store.Search(ctx, args[0]); err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), store.Products())
			return nil
		})
	},
}

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart of the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *storefront.Store) error {
			if err := store.Load(ctx); err != nil {
				return err
			}
			if !store.LoggedIn() {
				return storefront.ErrNotLoggedIn
			}
			printCart(cmd.OutOrStdout(), store.Cart(), store.CartTotal())
			return nil
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the storefront",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, false, func(ctx context.Context, app *container.Container) error {
			if !app.Persistent() {
				log.Warn("⚠️ Redis is disabled; the session ends with this command")
			}
			return runWithNotifications(cmd, app.Store, func() error {
				return app.Store.Login(ctx, username, password)
			})
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a storefront account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *storefront.Store) error {
			if confirm == "" {
				confirm = password
			}
			return store.Register(ctx, username, password, confirm)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *storefront.Store) error {
			return store.Logout(ctx)
		})
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the cart",
	Long: `Places an order for everything in the cart.

Pass --address with an address ID, or --new-address to add one and ship there.
Without either flag the saved addresses are listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *storefront.Store) error {
			if err := store.Load(ctx); err != nil {
				return err
			}
			if !store.LoggedIn() {
				return storefront.ErrNotLoggedIn
			}

			target := addressID
			if address != "" {
				addresses, err := store.AddAddress(ctx, address)
				if err != nil {
					return err
				}
				if len(addresses) == 0 {
					return fmt.Errorf("%w: no addresses returned after adding one", client.ErrInvalidResponse)
				}
				target = addresses[len(addresses)-1].ID
			}

			if target == "" {
				addresses, err := store.Addresses(ctx)
				if err != nil {
					return err
				}
				printAddresses(cmd.OutOrStdout(), addresses)
				return nil
			}

			order, err := store.Checkout(ctx, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed, total $%.2f\n", order.ID, order.Total)
			return nil
		})
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders placed from this client",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *storefront.Store) error {
			if err := store.Load(ctx); err != nil {
				return err
			}
			orders, err := store.Orders(ctx)
			if err != nil {
				return err
			}
			printOrders(cmd.OutOrStdout(), orders)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&username, "username", "u", "", "Username")
		c.Flags().StringVarP(&password, "password", "p", "", "Password")
	}
	registerCmd.Flags().StringVar(&confirm, "confirm", "", "Password confirmation (default: same as --password)")

	checkoutCmd.Flags().StringVar(&addressID, "address", "", "ID of a saved shipping address")
	checkoutCmd.Flags().StringVar(&address, "new-address", "", "Add this shipping address and ship there")
}

// withStore is withContainer for one-shot commands: notifications go to stderr
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store *storefront.Store) error) error {
	return withContainer(cmd, false, func(ctx context.Context, app *container.Container) error {
		return runWithNotifications(cmd, app.Store, func() error {
			return fn(ctx, app.Store)
		})
	})
}

// runWithNotifications prints store notifications while fn runs. A
// validation failure has already been shown, so it is not repeated as an error.
func runWithNotifications(cmd *cobra.Command, store *storefront.Store, fn func() error) error {
	out := cmd.ErrOrStderr()
	store.Subscribe(func(ev storefront.Event) {
		if ev.Kind == storefront.EventNotification {
			fmt.Fprintf(out, "[%s] %s\n", ev.Notification.Level, ev.Notification.Message)
		}
	})

	err := fn()
	store.Wait()

	var vErr *storefront.ValidationError
	if errors.As(err, &vErr) {
		return errors.New("validation failed")
	}
	return err
}

func printProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CATEGORY", "COST", "RATING")
	for _, p := range products {
		t.Row(p.ID, p.Name, p.Category, fmt.Sprintf("$%.2f", p.Cost), fmt.Sprintf("%d/5", p.Rating))
	}
	fmt.Fprintln(w, t.Render())
}

func printCart(w io.Writer, items []domain.CartItem, total float64) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Cart is empty. Add more items to the cart to checkout.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PRODUCT", "QTY", "COST")
	for _, item := range items {
		t.Row(item.Name, fmt.Sprintf("%d", item.Qty), fmt.Sprintf("$%.2f", item.Cost*float64(item.Qty)))
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "Order total $%.2f\n", total)
}

func printAddresses(w io.Writer, addresses []domain.Address) {
	if len(addresses) == 0 {
		fmt.Fprintln(w, "No addresses found for this account. Please add one to proceed")
		return
	}
	for _, a := range addresses {
		fmt.Fprintf(w, "%s  %s\n", a.ID, a.Address)
	}
}

func printOrders(w io.Writer, orders []domain.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ORDER", "PLACED", "ITEMS", "TOTAL")
	for _, o := range orders {
		t.Row(o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), fmt.Sprintf("%d", len(o.Items)), fmt.Sprintf("$%.2f", o.Total))
	}
	fmt.Fprintln(w, t.Render())
}
