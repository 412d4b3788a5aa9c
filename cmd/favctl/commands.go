package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nftfavorites/pkg/config"
	"nftfavorites/pkg/favorites"
)

func newPriceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "price <collection-id>",
		Short: "Print the floor price of an NFT collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := opts.priceLookup(opts.Config.Price).GetPrice(cmd.Context(), args[0])
			return printResult(cmd, msg, err)
		},
	}
}

type favoritesOptions struct {
	*rootOptions
	Identity string
}

func newFavoritesCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &favoritesOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage the favorites of one identity",
	}
	cmd.PersistentFlags().StringVar(&opts.Identity, "identity", "", "caller identity (UUID)")
	_ = cmd.MarkPersistentFlagRequired("identity")

	var item favorites.Item
	add := &cobra.Command{
		Use:   "add",
		Short: "Append an item to the favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(cmd, func(store *favorites.Store, id favorites.Identity) error {
				msg, err := store.Add(cmd.Context(), id, item)
				return printResult(cmd, msg, err)
			})
		},
	}
	add.Flags().StringVar(&item.Name, "name", "", "item name")
	add.Flags().StringVar(&item.Symbol, "symbol", "", "item symbol")

	remove := &cobra.Command{
		Use:   "remove <symbol>",
		Short: "Remove every item with the symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(cmd, func(store *favorites.Store, id favorites.Identity) error {
				msg, err := store.Remove(cmd.Context(), id, args[0])
				return printResult(cmd, msg, err)
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the favorites in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(cmd, func(store *favorites.Store, id favorites.Identity) error {
				items, err := store.List(cmd.Context(), id)
				return printResult(cmd, items, err)
			})
		},
	}

	cmd.AddCommand(add, remove, list)
	return cmd
}

func (o *favoritesOptions) withStore(cmd *cobra.Command, fn func(*favorites.Store, favorites.Identity) error) error {
	id, err := favorites.ParseIdentity(o.Identity)
	if err != nil {
		return fmt.Errorf("invalid --identity: %w", err)
	}
	kv, closeKV, err := o.openStore(cmd.Context(), o.Config.Store, o.Log)
	if err != nil {
		return err
	}
	defer closeKV()
	return fn(favorites.NewStore(kv), id)
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema of the configured backend",
		Long: `Apply the schema of the configured backend.

PostgreSQL runs the embedded migrations. SQLite applies its schema on open.
Memory and Redis need no schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config.Store
			switch cfg.Driver {
			case config.DriverPostgres:
				if err := opts.migrate(cmd.Context(), cfg.DatabaseURL, opts.Log); err != nil {
					return err
				}
			case config.DriverSQLite:
				_, closeKV, err := opts.openStore(cmd.Context(), cfg, opts.Log)
				if err != nil {
					return err
				}
				if err := closeKV(); err != nil {
					return err
				}
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "driver %s has no schema\n", cfg.Driver)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema up to date\n", cfg.Driver)
			return nil
		},
	}
}
