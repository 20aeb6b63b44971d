package cmd

import (
	"fmt"
	"os"

	"github.com/medimind/mindline/pkg/config"
	"github.com/medimind/mindline/pkg/controllers"
	"github.com/medimind/mindline/pkg/logger"
	"github.com/medimind/mindline/pkg/medimind"
	"github.com/medimind/mindline/pkg/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mindline",
	Short: "Terminal chat client for a MediMind clinical document backend",
	Long: `mindline talks to a MediMind backend: upload patient documents,
ask questions about them, and watch the answer stream in live.`,
	Run: func(cmd *cobra.Command, args []string) {
		client := backendClient()
		controller := controllers.NewChatController(client)

		if err := tui.StartApp(controller, client); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// backendClient builds the API client from the loaded configuration.
func backendClient() *medimind.Client {
	settings := config.Get()
	return medimind.NewClient(settings.Server.URL, settings.Server.Timeout)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .mindline/settings.yaml)")

	rootCmd.PersistentFlags().StringP("server", "s", "", "backend base URL")
	viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault("server.url", "http://localhost:8000")
	viper.SetDefault("server.timeout", "30s")

	viper.SetDefault("logging.log_file", "./.mindline/system.log")
	viper.SetDefault("logging.preserve", true)
	viper.SetDefault("logging.level", "info")

	viper.SetDefault("ui.show_banners", true)
	viper.SetDefault("ui.width", 80)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./.mindline")
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.SetEnvPrefix("MINDLINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file: %s", viper.ConfigFileUsed())
	}

	if _, err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}
