package cmd

import (
	"github.com/bnema/addonctl/internal/addons"
	"github.com/bnema/addonctl/internal/logger"
	"github.com/bnema/addonctl/internal/network"
	"github.com/bnema/addonctl/internal/updater"
	"github.com/bnema/addonctl/internal/wowi"
)

var addonManager *updater.Manager

// getAddonManager returns the shared addon manager, initializing it if needed
func getAddonManager() *updater.Manager {
	if addonManager != nil {
		return addonManager
	}

	client := network.NewClient(logger.Log)
	catalog := wowi.NewClient(client, cfg.WowiBaseURL, cfg.WowiToken, logger.Log)
	addonManager = updater.NewManager(updater.Options{
		AddonsDir:   cfg.AddonsDir,
		DownloadDir: cfg.DownloadDir,
		DataDir:     cfg.DataDir,
		Concurrency: cfg.Concurrency,
	}, client, catalog, logger.Log)

	if err := addonManager.Load(); err != nil {
		logger.Warn("Failed to load details cache", "error", err)
	}

	return addonManager
}

// loadCollection scans the AddOns directory with cached details applied
func loadCollection() (*updater.Manager, addons.Collection, error) {
	manager := getAddonManager()
	collection, err := manager.Collection()
	if err != nil {
		return nil, nil, err
	}
	return manager, collection, nil
}
