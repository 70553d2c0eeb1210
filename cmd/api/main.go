package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kaniu",
		Short: "kaniu - API de adopción de animales",
		Long:  "kaniu expone refugios, animales, adopciones y avisos de perdidos/encontrados sobre HTTP.",
	}
	cmd.SilenceUsage = true
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	return cmd
}
