package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "mwctl",
		Short:         "mwctl - Merchant Warrior gateway operations from the command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// a missing .env is fine, the environment may already be set
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with MW_* settings")

	rootCmd.AddCommand(
		paymentCmd("authorize", "Authorize an amount without capturing it", authorize),
		paymentCmd("purchase", "Authorize and capture an amount", purchase),
		referenceCmd("capture", "Capture a previous authorization", capture),
		referenceCmd("refund", "Refund a captured transaction", refund),
		voidCmd(),
		storeCmd(),
		scrubCmd(),
		hashCmd(),
	)

	return rootCmd
}
