// Command atomic is the CLI entrypoint wiring the store kernel to its
// external collaborators: the TOML config file, the interactive
// resource-creation prompt, and the HTTP server. Structured the way the
// teacher's cmd/synnergy/main.go wires command groups onto a bare cobra
// root command.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/atomicdata-dev/atomic-go/core"
	"github.com/atomicdata-dev/atomic-go/pkg/cli"
	"github.com/atomicdata-dev/atomic-go/pkg/config"
	"github.com/atomicdata-dev/atomic-go/pkg/server"
)

func main() {
	// Mirrors the teacher's cmd/cli/*.go convention of loading a .env file
	// at startup; a missing file is not an error (nothing to load).
	_ = godotenv.Load()

	rootCmd := &cobra.Command{Use: "atomic"}
	rootCmd.AddCommand(newCmd())
	rootCmd.AddCommand(serveCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadOrCreateConfig(path string) (*config.Config, error) {
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func newCmd() *cobra.Command {
	var configPath, mappingPath string
	cmd := &cobra.Command{
		Use:   "new [class]",
		Short: "create a new instance of a class through a series of prompts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadOrCreateConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store := core.NewStore(cfg.Server, nil, core.SystemClock, core.CryptoRNG)
			if err := store.Populate(); err != nil {
				return err
			}
			mapping, err := core.LoadMapping(mappingPath)
			if err != nil {
				return err
			}
			prompter := cli.NewStdinPrompter(os.Stdin, os.Stdout)
			subject, shortname, err := cli.New(store, mapping, args[0], prompter, core.SystemClock)
			if err != nil {
				return err
			}
			if err := mapping.Save(mappingPath); err != nil {
				return err
			}
			if shortname != "" {
				fmt.Printf("Saved %s as bookmark %s\n", subject, shortname)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config.toml (defaults to ~/.config/atomic/config.toml)")
	cmd.Flags().StringVar(&mappingPath, "mapping", "mapping.env", "path to the local shortname mapping file")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the store over HTTP (TPF, path and commit endpoints)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadOrCreateConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store := core.NewStore(cfg.Server, nil, core.SystemClock, core.CryptoRNG)
			if err := store.Populate(); err != nil {
				return err
			}
			srv := server.New(store, log.StandardLogger())
			log.WithField("addr", addr).Info("atomic server listening")
			return http.ListenAndServe(addr, srv.Router())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9883", "address to listen on")
	cmd.Flags().StringVar(&configPath, "config", "", "path to config.toml (defaults to ~/.config/atomic/config.toml)")
	return cmd
}
