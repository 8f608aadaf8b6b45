package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tornwatch/tornwatch/internal/utils"
	"github.com/tornwatch/tornwatch/pkg/crimes"
	"github.com/tornwatch/tornwatch/pkg/rotation"
	"github.com/tornwatch/tornwatch/pkg/storage"
	"github.com/tornwatch/tornwatch/pkg/thresholds"
	"github.com/tornwatch/tornwatch/pkg/torn"
)

// app wires the process-wide stateful services around one storage
// handle. Commands build it once, use it, and Close it.
type app struct {
	db       *storage.DB
	keys     *rotation.Rotator
	registry *thresholds.Registry
	cache    *crimes.Cache
}

func openApp(cmd *cobra.Command) (*app, error) {
	dbPath, _ := cmd.Flags().GetString("dbpath")
	if dbPath == "" {
		dbPath = viper.GetString("dbpath")
	}
	if dbPath == "" {
		dbPath = "tornwatch.sqlite"
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, err
	}

	keys, ok, err := db.LoadAPIKeys()
	if err != nil {
		db.Close()
		return nil, err
	}
	if !ok {
		keys = nil
	}

	registry := thresholds.New(db)
	if err := registry.Load(); err != nil {
		// Broken threshold blob: fall back to defaults rather than refuse
		// to start.
		utils.Log.Warnf("Could not load saved thresholds, using defaults: %v", err)
	}

	cache := crimes.NewCache(db)
	if err := cache.Load(); err != nil {
		utils.Log.Warnf("Could not load saved crime data: %v", err)
	}

	return &app{
		db:       db,
		keys:     rotation.New(db, keys),
		registry: registry,
		cache:    cache,
	}, nil
}

func (a *app) Close() {
	a.db.Close()
}

// newClient builds the Torn API client from config and the global proxy
// flag.
func (a *app) newClient(cmd *cobra.Command) (*torn.Client, error) {
	proxy, _ := cmd.Flags().GetString("proxy")
	return torn.NewClient(viper.GetString("torn.apiurl"), a.keys, proxy)
}
