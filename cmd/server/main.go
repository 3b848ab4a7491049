// Package main is the entry point for the game engine server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jianghu-api",
	Short: "Wuxia chat RPG engine",
	Long:  `jianghu-api runs the persistent multiplayer wuxia RPG engine: the command dispatcher, monster spawner, world events, and the merchant HTTP surface.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
