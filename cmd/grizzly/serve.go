package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/cache/redis"
	_ "github.com/autom8ter/grizzly/kv/badger"
	_ "github.com/autom8ter/grizzly/kv/tikv"
	"github.com/autom8ter/grizzly/transport/openapi"
	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"
)

// ServerConfig configures a grizzly server process.
type ServerConfig struct {
	Title          string         `json:"title"`
	Version        string         `json:"version"`
	Description    string         `json:"description"`
	Port           int            `json:"port"`
	Database       string         `json:"database"`
	Provider       string         `json:"provider"`
	ProviderParams map[string]any `json:"providerParams"`
	CollectionsDir string         `json:"collectionsDir"`
	RedisAddr      string         `json:"redisAddr"`
	AllowOrigins   []string       `json:"allowOrigins"`
	LogLevel       string         `json:"logLevel"`
}

func serveCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the database over an openapi http api",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			bits, err := os.ReadFile(configPath)
			if err != nil {
				return err
			}
			var config ServerConfig
			if err := yaml.Unmarshal(bits, &config); err != nil {
				return err
			}
			var opts []grizzly.DBOpt
			if config.Database != "" {
				opts = append(opts, grizzly.WithDatabase(config.Database))
			}
			if config.RedisAddr != "" {
				opts = append(opts, grizzly.WithCache(redis.Open(config.RedisAddr)))
			}
			db, err := grizzly.Open(ctx, config.Provider, config.ProviderParams, opts...)
			if err != nil {
				return err
			}
			defer db.Close(ctx)
			if config.CollectionsDir != "" {
				err := filepath.Walk(config.CollectionsDir, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if info.IsDir() || !strings.HasSuffix(path, ".yaml") {
						return nil
					}
					bits, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					return db.ConfigureCollection(ctx, bits)
				})
				if err != nil {
					return err
				}
			}
			oapi, err := openapi.New(openapi.Config{
				Title:        config.Title,
				Version:      config.Version,
				Description:  config.Description,
				Port:         config.Port,
				AllowOrigins: config.AllowOrigins,
				LogLevel:     config.LogLevel,
			})
			if err != nil {
				return err
			}
			fmt.Printf("starting openapi http server on port :%v\n", config.Port)
			return oapi.Serve(ctx, db)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "grizzly.yaml", "path to the server configuration")
	return cmd
}
