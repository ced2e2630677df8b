package main

import (
	"fmt"
	"log"
	"os"

	"github.com/LavaJover/shvark-checkout-service/internal/config"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const serviceName = "checkout-service"

var Version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	rootCmd := &cobra.Command{
		Use:     serviceName,
		Short:   "PIX checkout payments and commission settlement",
		Version: Version,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap() (*config.CheckoutConfig, *logrus.Logger) {
	cfg := config.MustLoad()
	return cfg, logger.New(cfg.LogConfig, serviceName)
}
