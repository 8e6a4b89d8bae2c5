package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:   "grizzly",
		Short: "grizzly is an embedded document database with a mongo style command surface",
	}
	cmd.AddCommand(serveCmd(), initCmd())
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
	}
}
