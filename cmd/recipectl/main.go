package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "recipectl",
		Short:         "Administer a recipebox deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Database
	root.AddCommand(newMigrateCmd())

	// Users
	root.AddCommand(newCreateSuperuserCmd())
	root.AddCommand(newSetActiveCmd())

	return root
}
