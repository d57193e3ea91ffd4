package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ttsd/internal/common/fsutil"
	"ttsd/internal/config"
	"ttsd/internal/engine"
	"ttsd/internal/httpapi"
	"ttsd/internal/registry"
	"ttsd/internal/router"
	"ttsd/pkg/types"
)

const (
	defaultAddr     = ":8080"
	defaultCacheDir = "~/.cache/ttsd"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

// loadConfig reads the optional config file. An empty path yields the zero
// config and every default applies.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	return config.Load(path)
}

// buildRouter assembles the registry with every known engine and wraps it
// in a dispatch router. Engines that fail to construct stay registered and
// report unavailable on first use.
func buildRouter(cfg config.Config, log zerolog.Logger) (*router.Router, string, error) {
	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = defaultCacheDir
	}
	cacheDir, err := fsutil.ExpandHome(cacheDir)
	if err != nil {
		return nil, "", fmt.Errorf("cache dir: %w", err)
	}
	if err := fsutil.EnsureDir(cacheDir); err != nil {
		return nil, "", fmt.Errorf("cache dir: %w", err)
	}

	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	tempDir, err = fsutil.ExpandHome(tempDir)
	if err != nil {
		return nil, "", fmt.Errorf("temp dir: %w", err)
	}
	if err := fsutil.EnsureDir(tempDir); err != nil {
		return nil, "", fmt.Errorf("temp dir: %w", err)
	}

	ecfg := engine.Config{TempDir: tempDir, LameFlags: cfg.LameFlags}

	reg := registry.New(log)
	reg.Register("espeak", "eSpeak", []types.Trait{types.TraitTranscoding},
		func() (engine.Engine, error) { return engine.NewESpeak(ecfg) })
	reg.Register("say", "Say", []types.Trait{types.TraitTranscoding},
		func() (engine.Engine, error) { return engine.NewSay(ecfg) })
	reg.Register("google", "Google Translate", []types.Trait{types.TraitInternet},
		func() (engine.Engine, error) { return engine.NewGoogle(ecfg) })
	reg.Alias("g", "google")
	for from, to := range cfg.Aliases {
		reg.Alias(from, to)
	}

	rt := router.New(router.Config{
		Registry:   reg,
		CacheDir:   cacheDir,
		MaxWorkers: cfg.MaxWorkers,
		Logger:     log,
	})
	return rt, cacheDir, nil
}

// parseOptionFlags turns repeated key=value flags into an options map.
func parseOptionFlags(pairs []string) (map[string]any, error) {
	opts := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("option %q is not key=value", p)
		}
		opts[k] = v
	}
	return opts, nil
}

func buildRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "ttsd",
		Short:         "Text-to-speech dispatch daemon with a content-addressed cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", envOr("TTSD_CONFIG", ""), "Path to config file (.yaml/.json/.toml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", envOr("TTSD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP synthesis daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			cacheDirFlag, _ := cmd.Flags().GetString("cache-dir")
			maxWorkers, _ := cmd.Flags().GetInt("max-workers")

			log := newLogger(logLevel)
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if cacheDirFlag != "" {
				cfg.CacheDir = cacheDirFlag
			}
			if maxWorkers > 0 {
				cfg.MaxWorkers = maxWorkers
			}
			if cfg.Addr == "" {
				cfg.Addr = defaultAddr
			}

			rt, cacheDir, err := buildRouter(cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			httpapi.SetLogger(log)
			mux := httpapi.NewMux(rt, cacheDir)
			srv := &http.Server{Addr: cfg.Addr, Handler: mux}

			go func() {
				log.Info().Str("addr", cfg.Addr).Str("cache_dir", cacheDir).Msg("ttsd listening")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("server error")
				}
			}()

			// Graceful shutdown (Ctrl+C / SIGTERM)
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown error")
			}
			return nil
		},
	}
	serve.Flags().String("addr", envOr("TTSD_ADDR", ""), "HTTP listen address, e.g. :8080")
	serve.Flags().String("cache-dir", "", "Directory for synthesized artifacts")
	serve.Flags().Int("max-workers", 0, "Maximum concurrent synthesis workers")
	root.AddCommand(serve)

	say := &cobra.Command{
		Use:   "say <text>...",
		Short: "Synthesize one phrase and print the cached artifact path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, _ := cmd.Flags().GetString("service")
			pairs, _ := cmd.Flags().GetStringArray("option")

			log := newLogger(logLevel)
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if service == "" {
				service = cfg.DefaultService
			}
			if service == "" {
				service = "espeak"
			}
			opts, err := parseOptionFlags(pairs)
			if err != nil {
				return err
			}

			rt, _, err := buildRouter(cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			path, err := rt.Say(service, strings.Join(args, " "), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	say.Flags().StringP("service", "s", "", "Service id (defaults to config default_service, then espeak)")
	say.Flags().StringArrayP("option", "o", nil, "Service option as key=value (repeatable)")
	root.AddCommand(say)

	services := &cobra.Command{
		Use:   "services",
		Short: "List available services",
		RunE: func(cmd *cobra.Command, args []string) error {
			trait, _ := cmd.Flags().GetString("trait")

			log := newLogger(logLevel)
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			rt, _, err := buildRouter(cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			if trait != "" {
				for _, name := range rt.ByTrait(types.Trait(trait)) {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			for _, s := range rt.Services() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.ID, s.Name)
			}
			return nil
		},
	}
	services.Flags().String("trait", "", "Only list services advertising this trait (internet|transcoding)")
	root.AddCommand(services)

	return root
}

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ttsd:", err)
		os.Exit(1)
	}
}
