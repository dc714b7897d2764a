package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var detectHTMLFile string

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Report the table format of pasted text",
	Long: `Reads text from a file, or stdin when no file is given, and prints the
detected format: markdown, tsv, csv, space, dash, html or none.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectHTMLFile, "html", "", "file holding the clipboard HTML")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	fragment, err := readFile(detectHTMLFile)
	if err != nil {
		return err
	}

	cmd.Println(service.Detect(context.Background(), text, fragment))
	return nil
}
