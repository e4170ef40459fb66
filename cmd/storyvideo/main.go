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
		Use:           "storyvideo",
		Short:         "Submit story-to-video generation jobs and follow them to completion",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCreateProjectCmd(),
		newUpdateShotCmd(),
		newGenerateVideoCmd(),
	)

	return root
}
