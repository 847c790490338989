package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"blogd/internal/config"
	"blogd/internal/seed"
	web "blogd/internal/server"
	"blogd/internal/store"
	"blogd/internal/worker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	configPath string
	redisAddr  string
	badgerPath string
	listenAddr string
)

var rootCmd = &cobra.Command{
	Use:   "blogd",
	Short: "blogd - A self-hosted blog post service",
}

// loadConfig merges the YAML file with any explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("redis") {
		cfg.RedisAddr = redisAddr
	}
	if cmd.Flags().Changed("badger") {
		cfg.BadgerPath = badgerPath
	}
	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = listenAddr
	}
	return cfg, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and import worker",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			logger.Fatal("Failed to load config", zap.Error(err))
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			logger.Info("Shutting down...")
			cancel()
		}()

		// Initialize Store (FULL MODE - Redis + Badger)
		st, err := store.NewHybridStore(cfg.RedisAddr, cfg.BadgerPath)
		if err != nil {
			logger.Fatal("Failed to init store", zap.Error(err))
		}
		defer st.Close()

		w := worker.NewWorker(st, logger, cfg.ImportTimeout())
		go w.Start(ctx)

		srv := web.NewServer(st, logger)
		go func() {
			if err := srv.Start(cfg.ListenAddr); err != nil {
				logger.Error("Server stopped", zap.Error(err))
				cancel()
			}
		}()

		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("Shutdown error", zap.Error(err))
		}
		logger.Info("Goodbye!")
	},
}

var seedReset bool

var seedCmd = &cobra.Command{
	Use:   "seed [n]",
	Short: "Insert random posts for local development",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			logger.Fatal("Failed to load config", zap.Error(err))
		}

		n := 10
		if len(args) == 1 {
			n, err = strconv.Atoi(args[0])
			if err != nil || n < 1 {
				logger.Fatal("Seed count must be a positive number", zap.String("arg", args[0]))
			}
		}

		st, err := store.NewHybridStore(cfg.RedisAddr, cfg.BadgerPath)
		if err != nil {
			logger.Fatal("Failed to init store", zap.Error(err))
		}
		defer st.Close()

		ctx := context.Background()
		if seedReset {
			if err := st.DropAll(ctx); err != nil {
				logger.Fatal("Failed to drop collection", zap.Error(err))
			}
			logger.Info("Collection dropped")
		}

		g := seed.NewGenerator(rand.NewSource(time.Now().UnixNano()))
		posts, err := g.Populate(ctx, st, n)
		if err != nil {
			logger.Fatal("Seeding failed", zap.Error(err))
		}

		logger.Info("Seeding complete", zap.Int("posts", len(posts)))
	},
}

var importCmd = &cobra.Command{
	Use:   "import [url]",
	Short: "Queue a URL to be imported as a post",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			logger.Fatal("Failed to load config", zap.Error(err))
		}
		url := args[0]

		// Initialize Store (CLIENT MODE - Redis Only)
		// Passing "" keeps us off the BadgerDB file lock held by the server.
		st, err := store.NewHybridStore(cfg.RedisAddr, "")
		if err != nil {
			logger.Fatal("Failed to init store", zap.Error(err))
		}
		defer st.Close()

		if err := st.PushImport(context.Background(), url); err != nil {
			logger.Fatal("Failed to queue import", zap.Error(err))
		}

		logger.Info("Import queued", zap.String("url", url))
	},
}

func main() {
	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", "localhost:6379", "Address of Redis server")
	rootCmd.PersistentFlags().StringVar(&badgerPath, "badger", "./badger-data", "Path to BadgerDB data directory")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "addr", ":8080", "HTTP listen address")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Drop the collection before seeding")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
