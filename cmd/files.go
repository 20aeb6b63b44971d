package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage the uploaded patient documents",
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Run: func(cmd *cobra.Command, args []string) {
		files, err := backendClient().Files(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if files.Count == 0 {
			fmt.Println("No documents uploaded.")
			return
		}
		for _, f := range files.Files {
			fmt.Printf("%-40s %8.2f KB\n", f.Name, f.SizeKB)
		}
		fmt.Printf("%d document(s)\n", files.Count)
	},
}

var filesUploadCmd = &cobra.Command{
	Use:   "upload <path>...",
	Short: "Upload one or more documents",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		uploaded, err := backendClient().UploadPaths(context.Background(), args...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		for _, name := range uploaded.Files {
			fmt.Printf("uploaded %s\n", name)
		}
		for _, e := range uploaded.Errors {
			fmt.Fprintf(os.Stderr, "failed %s: %s\n", e.File, e.Error)
		}
	},
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a document by name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deleted, err := backendClient().Delete(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if deleted.Status == "deleted" {
			fmt.Printf("deleted %s\n", deleted.File)
		} else {
			fmt.Println(deleted.Message)
		}
	},
}

func init() {
	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesUploadCmd)
	filesCmd.AddCommand(filesDeleteCmd)
	rootCmd.AddCommand(filesCmd)
}
