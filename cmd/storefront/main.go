package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	app "storefront/pkg/store/application/service"
	"storefront/pkg/store/domain/model"
	"storefront/pkg/store/domain/service"
	"storefront/pkg/store/infrastructure/config"
	"storefront/pkg/store/infrastructure/event"
	"storefront/pkg/store/infrastructure/generative"
	"storefront/pkg/store/infrastructure/metrics"
	"storefront/pkg/store/infrastructure/storage"
	"storefront/pkg/store/infrastructure/transport"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	a := &cli.App{
		Name:  "storefront",
		Usage: "liquor storefront backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Usage: "HTTP listen address, overrides STOREFRONT_LISTEN_ADDRESS"},
			&cli.StringFlag{Name: "driver", Usage: "storage driver: memory, file, mysql or postgres"},
		},
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP API", Action: serve},
			{Name: "migrate", Usage: "apply MySQL schema migrations", Action: migrate},
			{Name: "reset", Usage: "restore the seed catalog, orders and config", Action: reset},
			{Name: "catalog", Usage: "print the product catalog", Action: catalog},
			{Name: "orders", Usage: "print orders, newest first", Action: orders},
			{Name: "price", Usage: "set a product price", ArgsUsage: "<product id> <amount>", Action: setPrice},
		},
		DefaultCommand: "serve",
	}

	if err := a.Run(os.Args); err != nil {
		log.WithError(err).Fatal("storefront failed")
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if listen := c.String("listen"); listen != "" {
		cfg.ListenAddress = listen
	}
	if driver := c.String("driver"); driver != "" {
		cfg.StorageDriver = driver
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, errors.Wrap(err, "parse log level")
	}
	log.SetLevel(level)
	return cfg, nil
}

type closer func()

func openStorage(ctx context.Context, cfg config.Config) (model.Storage, closer, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemoryStorage(), func() {}, nil
	case config.DriverFile:
		s, err := storage.NewFileStorage(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case config.DriverMySQL:
		db, err := storage.OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := storage.MigrateMySQL(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return storage.NewMySQLStorage(db), func() { db.Close() }, nil
	case config.DriverPostgres:
		s, err := storage.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return nil, nil, errors.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func newDispatcher(cfg config.Config) (service.EventDispatcher, closer) {
	logDispatcher := event.NewLogDispatcher(log.StandardLogger())
	brokers := event.ParseBrokers(cfg.KafkaBrokers)
	if len(brokers) == 0 {
		return logDispatcher, func() {}
	}

	kafka := event.NewKafkaDispatcher(brokers, cfg.KafkaTopic, "storefront")
	return event.MultiDispatcher{logDispatcher, kafka}, func() {
		if err := kafka.Close(); err != nil {
			log.WithError(err).Warn("close kafka writer")
		}
	}
}

func openStore(c *cli.Context) (service.StoreService, config.Config, closer, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	s, closeStorage, err := openStorage(c.Context, cfg)
	if err != nil {
		return nil, config.Config{}, nil, errors.Wrapf(err, "open %s storage", cfg.StorageDriver)
	}
	dispatcher, closeDispatcher := newDispatcher(cfg)

	store := service.NewStoreService(s, dispatcher, service.WithLogger(log.StandardLogger()))
	return store, cfg, func() {
		closeDispatcher()
		closeStorage()
	}, nil
}

func serve(c *cli.Context) error {
	store, cfg, closeStore, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	var generator model.ImageGenerator
	if cfg.APIKey == "" {
		log.Warn("API_KEY is not set, image generation is disabled")
	} else {
		gemini, err := generative.NewGeminiGenerator(c.Context, cfg.APIKey, cfg.ImageModel)
		if err != nil {
			return err
		}
		generator = gemini
	}

	router := transport.Router(
		store,
		app.NewCheckoutService(store, cfg.PaymentDelay),
		app.NewProductImageService(store, generator, cfg.GenerationTimeout),
		metrics.NewServerMetrics(),
	)
	srv := &http.Server{Addr: cfg.ListenAddress, Handler: router}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{"url": cfg.ListenAddress, "storage": cfg.StorageDriver}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func migrate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.StorageDriver != config.DriverMySQL {
		return errors.Errorf("migrations apply to the mysql driver, got %q", cfg.StorageDriver)
	}

	db, err := storage.OpenMySQL(cfg.MySQLDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.MigrateMySQL(db); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func reset(c *cli.Context) error {
	store, _, closeStore, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.ResetToSeed(); err != nil {
		return err
	}
	log.Info("store reset to seed data")
	return nil
}

func catalog(c *cli.Context) error {
	store, _, closeStore, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range store.Products() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, model.FormatCents(p.PriceCents), p.Stock)
	}
	return w.Flush()
}

func orders(c *cli.Context) error {
	store, _, closeStore, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tDATE\tSTATUS\tTOTAL")
	for _, o := range store.Orders() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.CustomerName, o.Date.Format(time.DateOnly), o.Status, model.FormatCents(o.TotalCents))
	}
	return w.Flush()
}

func setPrice(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.ShowCommandHelp(c, "price")
	}
	id, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		return errors.Wrap(err, "parse product id")
	}
	cents, err := model.ParseAmount(c.Args().Get(1))
	if err != nil {
		return errors.Wrap(err, "parse amount")
	}
	if cents < 0 {
		return errors.New("price cannot be negative")
	}

	store, _, closeStore, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := store.Product(id); err != nil {
		return err
	}
	if err := store.UpdateProduct(id, model.ProductPatch{PriceCents: &cents}); err != nil {
		return err
	}
	log.WithFields(log.Fields{"product_id": id, "price": model.FormatCents(cents)}).Info("price updated")
	return nil
}
