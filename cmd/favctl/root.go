package main

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"nftfavorites/pkg/bootstrap"
	"nftfavorites/pkg/config"
	"nftfavorites/pkg/errs"
	"nftfavorites/pkg/favorites"
	"nftfavorites/pkg/logger"
	"nftfavorites/pkg/migrations"
	"nftfavorites/pkg/price"
	"nftfavorites/pkg/result"
)

// errReported marks an error whose Err envelope was already printed.
var errReported = errors.New("reported")

// rootOptions holds global flags and the dependencies commands are built from.
type rootOptions struct {
	ConfigPath string
	Verbose    bool

	Config config.Config
	Log    *logger.Logger

	openStore   func(ctx context.Context, cfg config.Store, log *logger.Logger) (favorites.KV, bootstrap.CloseFunc, error)
	priceLookup func(cfg config.Price) price.Lookup
	migrate     func(ctx context.Context, dsn string, log *logger.Logger) error
}

func defaultOptions() *rootOptions {
	return &rootOptions{
		openStore:   bootstrap.OpenStore,
		priceLookup: bootstrap.PriceLookup,
		migrate:     migrations.Apply,
	}
}

// newRootCommand creates the root command for favctl.
func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favctl",
		Short: "Administer NFT favorites",
		Long: `favctl runs the favorites operations against the configured backend.

Results are printed as {"Ok": ...} or {"Err": "..."} envelopes, one per line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			level, err := logger.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			if opts.Verbose {
				level = logger.LevelDebug
			}
			opts.Config = cfg
			opts.Log = logger.New(cmd.ErrOrStderr(), level, "favctl", nil)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config YAML (default config.yaml when present)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newPriceCommand(opts))
	cmd.AddCommand(newFavoritesCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))

	return cmd
}

// printResult prints the envelope for v and err. Fatal errors are returned
// unprinted; expected ones come back as errReported.
func printResult[T any](cmd *cobra.Command, v T, err error) error {
	if err != nil && errs.KindOf(err) == errs.KindFatal {
		return err
	}
	if encErr := json.NewEncoder(cmd.OutOrStdout()).Encode(result.From(v, err)); encErr != nil {
		return encErr
	}
	if err != nil {
		return errReported
	}
	return nil
}
