package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/example/storefront-client/internal/apiclient"
	"github.com/example/storefront-client/internal/cart"
	"github.com/example/storefront-client/internal/config"
	"github.com/example/storefront-client/internal/logging"
	"github.com/example/storefront-client/internal/order"
	"github.com/example/storefront-client/internal/session"
	"github.com/example/storefront-client/internal/storefront"
	"github.com/example/storefront-client/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sess, err := session.Load(cfg.SessionFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load session: %v\n", err)
		os.Exit(1)
	}

	api := apiclient.New(cfg.APIBaseURL, sess, logger)
	if cfg.HTTPTimeout > 0 {
		api.SetTimeout(cfg.HTTPTimeout)
	}

	cartStore := cart.NewStore(api, logger)
	orderStore := order.NewStore(api, logger)
	sf := storefront.New(sess, cartStore, orderStore, storefront.Options{
		FreeShippingThreshold: cfg.Shipping.FreeThreshold,
		FlatShippingCost:      cfg.Shipping.FlatCost,
	}, logger)

	p := tea.NewProgram(tui.New(sf, api, sess, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running storefront: %v\n", err)
		os.Exit(1)
	}
}
