package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check backend connectivity",
	Run: func(cmd *cobra.Command, args []string) {
		if err := backendClient().Ping(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "%s is unreachable: %v\n", viper.GetString("server.url"), err)
			os.Exit(1)
		}
		fmt.Printf("%s is up\n", viper.GetString("server.url"))
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
