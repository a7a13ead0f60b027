// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"os"
	"runtime"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/taibuivan/zled/internal/platform/constants"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constants.AppVersion)
			return
		}
		cmd.Printf("zled-player %s %s/%s (%s)\n", constants.AppVersion, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}
