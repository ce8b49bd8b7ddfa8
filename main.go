package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/billingcat/userapi/controller"
	"github.com/billingcat/userapi/model"
	"github.com/billingcat/userapi/worker"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "userapi",
	Short:         "User record management backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := model.LoadConfig(configFile)
		if err != nil {
			return err
		}
		logger := controller.NewLogger(cfg.Mode)

		store, err := model.InitDatabase(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if err = store.AutoMigrate(); err != nil {
			return fmt.Errorf("cannot migrate schema: %w", err)
		}

		pool, err := worker.New(cfg.Workers, logger)
		if err != nil {
			return err
		}
		defer pool.Close(10 * time.Second)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return controller.Run(ctx, controller.NewServer(store, pool, logger), cfg.Port, logger)
	},
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the SQL migrations",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := model.LoadConfig(configFile)
		if err != nil {
			return err
		}
		dir := migrationsDir()
		if dir == "" {
			return errors.New("build with -tags postgres or -tags sqlite to run migrations")
		}
		m, err := migrate.New("file://"+dir, migrateDSN(cfg))
		if err != nil {
			return fmt.Errorf("cannot open migrations: %w", err)
		}
		defer m.Close()

		switch args[0] {
		case "up":
			err = m.Up()
		case "down":
			err = m.Steps(-1)
		default:
			return fmt.Errorf("unknown direction %q", args[0])
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Fprintln(cmd.OutOrStdout(), "no change")
			return nil
		}
		return err
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo users into an empty database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := model.LoadConfig(configFile)
		if err != nil {
			return err
		}
		store, err := model.InitDatabase(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if err = store.AutoMigrate(); err != nil {
			return err
		}
		n, err := store.SeedDemoUsers(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d users\n", n)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := model.LoadConfig(configFile)
		if err != nil {
			return err
		}
		out := *cfg
		out.Servers = make(map[string]model.ServerConfig, len(cfg.Servers))
		for k, v := range cfg.Servers {
			if v.DBPassword != "" {
				v.DBPassword = "********"
			}
			out.Servers[k] = v
		}
		data, err := toml.Marshal(out)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.toml", "path to the TOML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, configCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
