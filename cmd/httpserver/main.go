package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/attestia/certificate-registry-backend/cmd/flags"
	"github.com/attestia/certificate-registry-backend/httpserver"
	"github.com/attestia/certificate-registry-backend/interfaces"
	"github.com/attestia/certificate-registry-backend/metrics"
	"github.com/attestia/certificate-registry-backend/registry"
	"github.com/attestia/certificate-registry-backend/storage"
)

var cliFlags = append([]cli.Flag{
	&cli.StringFlag{
		Name:  "listen-addr",
		Value: "127.0.0.1:8080",
		Usage: "address to listen on for API",
	},
	&cli.StringFlag{
		Name:  "deployer",
		Usage: "deployer identity (40-char hex); becomes owner and first issuer of a fresh registry",
	},
	&cli.StringSliceFlag{
		Name:  "storage",
		Value: cli.NewStringSlice("mem://"),
		Usage: "state store location URI (repeatable): mem://, file:///path/, s3://bucket/prefix?region=.., vault://host:port/mount/path",
	},
}, flags.CommonFlags...)

func main() {
	app := &cli.App{
		Name:  "registry-server",
		Usage: "Serve the certificate registry API",
		Flags: cliFlags,
		Action: func(cCtx *cli.Context) error {
			listenAddr := cCtx.String("listen-addr")
			deployerHex := cCtx.String("deployer")
			storageLocations := cCtx.StringSlice("storage")

			logger := flags.SetupLogger(cCtx)

			var deployer interfaces.Identity
			if deployerHex != "" {
				var err error
				deployer, err = interfaces.NewIdentityFromHex(deployerHex)
				if err != nil {
					logger.Error("Invalid deployer identity", "err", err)
					return err
				}
			}

			storeFactory := storage.NewStateStoreFactory(logger)
			locations := make([]interfaces.StoreLocation, 0, len(storageLocations))
			for _, loc := range storageLocations {
				locations = append(locations, interfaces.StoreLocation(loc))
			}
			store, err := storeFactory.CreateMultiStore(locations)
			if err != nil {
				logger.Error("Failed to create state stores", "err", err)
				return err
			}

			m := metrics.New("certificate_registry")

			reg, err := registry.New(context.Background(), &registry.Config{
				Deployer: deployer,
				Store:    store,
				Log:      logger,
				Metrics:  m,
			})
			if err != nil {
				logger.Error("Failed to create registry", "err", err)
				return err
			}

			cfg := flags.ConfigureServer(cCtx, logger, listenAddr)
			cfg.Metrics = m

			handler := httpserver.NewHandler(reg, reg, logger)
			server, err := httpserver.New(cfg, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting server")
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
