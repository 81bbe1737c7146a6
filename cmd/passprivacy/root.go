package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for passprivacy.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passprivacy",
		Short: "Measure password k-anonymity over truncated hashes",
		Long: `passprivacy measures how much k-anonymity a set of passwords keeps when
each password is replaced by a truncated cryptographic hash.

Given a CSV corpus, it buckets passwords by the leading hex characters of
their digest and reports the size of the smallest bucket. Runs are kept in
a local history database; hashes and passwords are never stored.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewDigestsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
