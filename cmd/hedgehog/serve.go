package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/milk9111/hedgehog/flagapi"
	"github.com/milk9111/hedgehog/flags"
	"github.com/milk9111/hedgehog/prefabs"
	"github.com/spf13/cobra"
)

var (
	serveAddr  string
	rulesFile  string
	watchRules bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve per-player flag values on " + flagapi.Path,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings
		if cmd.Flags().Changed("addr") {
			s.ServeAddr = serveAddr
		}
		if cmd.Flags().Changed("rules") {
			s.RulesFile = rulesFile
		}
		settings = s
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&rulesFile, "rules", "", "tengo targeting script (defaults to the prefab script)")
	serveCmd.Flags().BoolVar(&watchRules, "watch", false, "recompile the targeting script when it changes")
}

func loadRules(path string) (*flags.Rules, error) {
	if path == "" {
		return flags.LoadDefaultRules()
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return flags.LoadRules(src)
}

func reloadRules(rules *flags.Rules, path string) error {
	var (
		src []byte
		err error
	)
	if path == "" {
		src, err = prefabs.LoadScript(flags.DefaultRulesScript)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	return rules.Reload(src)
}

// watchRulesFile recompiles rules whenever the script file is saved. A
// script that fails to compile leaves the previous one in place.
func watchRulesFile(ctx context.Context, rules *flags.Rules, path string) {
	dir, name := filepath.Join(prefabs.Dir(), "scripts"), flags.DefaultRulesScript
	if path != "" {
		dir, name = filepath.Dir(path), filepath.Base(path)
	}
	w, err := prefabs.NewWatcher(dir)
	if err != nil {
		logger.Warn("rules watch disabled", "dir", dir, "error", err)
		return
	}
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case changed, ok := <-w.Events:
				if !ok {
					return
				}
				if changed != name {
					continue
				}
				if err := reloadRules(rules, path); err != nil {
					logger.Error("rules reload failed", "file", changed, "error", err)
					continue
				}
				logger.Info("rules reloaded", "file", changed)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("rules watcher", "error", err)
			}
		}
	}()
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rules, err := loadRules(settings.RulesFile)
	if err != nil {
		return err
	}
	if watchRules {
		watchRulesFile(ctx, rules, settings.RulesFile)
	}

	srv := &http.Server{
		Addr:              settings.ServeAddr,
		Handler:           flagapi.Routes(flagapi.NewHandler(flagapi.Options{Rules: rules, Logger: logger})),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving flags", "addr", settings.ServeAddr, "path", flagapi.Path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdown, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	return srv.Shutdown(shutdown)
}
