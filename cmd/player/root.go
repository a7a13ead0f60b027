// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taibuivan/zled/internal/kiosk"
)

// config is shared by every command; flags are bound to it in init.
var config = viper.New()

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./zled-player.yaml)")

	rootCmd.PersistentFlags().String("server", "", "Base URL of the Zled API")
	lo.Must0(config.BindPFlag(kiosk.KeyServer, rootCmd.PersistentFlags().Lookup("server")))

	rootCmd.PersistentFlags().Bool("debug", false, "Log to stderr")
	lo.Must0(config.BindPFlag(kiosk.KeyDebug, rootCmd.PersistentFlags().Lookup("debug")))
}

var rootCmd = &cobra.Command{
	Use:   "zled-player",
	Short: "Kiosk player for Zled digital signage",
	Long: "zled-player plays a screen's PDF playlist page by page, renders each page\n" +
		"locally and publishes the current page as a PNG file.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return kiosk.Setup(config, configFile)
	},
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
