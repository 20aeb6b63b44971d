package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/medimind/mindline/pkg/controllers"
	"github.com/medimind/mindline/pkg/tui"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the streamed answer",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.Join(args, " ")

		controller := controllers.NewChatController(backendClient())
		if err := controller.Submit(context.Background(), question); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if answer, ok := controller.Conversation().Last(); ok {
			fmt.Println(tui.RenderMessage(answer))
		}
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
