package main

import (
	"fmt"
	"os"

	"github.com/chefchat/chefchat/cmd/configure/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "chefchat-configure",
		Short: "Operations tool for the ChefChat API",
		Long:  "CLI tool for inspecting and maintaining the ChefChat persistence store",
	}

	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewWipeCmd())
	rootCmd.AddCommand(commands.NewTestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
