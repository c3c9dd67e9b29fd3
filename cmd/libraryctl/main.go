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
	root := &cobra.Command{
		Use:           "libraryctl",
		Short:         "Command line client for the library lending service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", defaultAddr(), "base URL of the service")

	root.AddCommand(
		newRegisterCmd(),
		newLoginCmd(),
		newBooksCmd(),
		newBorrowCmd(),
		newReturnCmd(),
		newBorrowedCmd(),
		newHistoryCmd(),
		newUsersCmd(),
		newStatsCmd(),
		newHealthCmd(),
	)
	return root
}

var addr string

func defaultAddr() string {
	if v := os.Getenv("LIBRARY_ADDR"); v != "" {
		return v
	}
	return "http://localhost:8080"
}
