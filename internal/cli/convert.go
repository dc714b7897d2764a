package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/postdesk/internal/core"
	"github.com/JonMunkholm/postdesk/internal/paste"
)

var (
	convertHTMLFile string
	convertCell     string
	convertFormat   string
	convertMarkup   bool
	convertJSON     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Run pasted content through the pipeline",
	Long: `Pastes the input into a document, or into a table cell with --cell, and
prints what the editor would insert.
Tables are printed as an aligned grid by default, as canonical markup with
--markup, or as the full paste result with --json. --format skips detection
and converts the input as markdown, tsv, csv, space, dash or html.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertHTMLFile, "html", "", "file holding the clipboard HTML")
	convertCmd.Flags().StringVar(&convertCell, "cell", "", "paste into the table cell with this id")
	convertCmd.Flags().BoolVar(&convertMarkup, "markup", false, "print the markup to insert")
	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "print the paste result as JSON")
	convertCmd.Flags().StringVar(&convertFormat, "format", "", "convert as this table format instead of detecting one")
	convertCmd.MarkFlagsMutuallyExclusive("markup", "json")
	convertCmd.MarkFlagsMutuallyExclusive("cell", "format")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	fragment, err := readFile(convertHTMLFile)
	if err != nil {
		return err
	}

	result, err := convert(text, fragment)
	if errors.Is(err, core.ErrEmptyPaste) {
		return errors.New("nothing to convert: input is empty")
	}
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	switch {
	case convertJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
	case convertMarkup:
		if result.HTML == "" {
			cmd.Print(text)
			return nil
		}
		cmd.Println(result.HTML)
	default:
		printResult(cmd, result, text)
	}
	return nil
}

// convert runs a forced conversion when --format is set and a normal paste
// otherwise.
func convert(text, fragment string) (*core.PasteResult, error) {
	ctx := context.Background()

	if convertFormat != "" {
		f := paste.ParseFormat(convertFormat)
		if f == paste.None {
			return nil, fmt.Errorf("unknown format %q: use markdown, tsv, csv, space, dash or html", convertFormat)
		}
		return service.ConvertAs(ctx, text, fragment, f)
	}

	target := paste.PasteTarget{Kind: paste.TargetDocument, DocumentID: "pastectl"}
	if convertCell != "" {
		target = paste.PasteTarget{Kind: paste.TargetCell, DocumentID: "pastectl", CellID: convertCell}
	}
	return service.Paste(ctx, core.PasteRequest{
		Text:   text,
		HTML:   fragment,
		Target: target,
	})
}

func printResult(cmd *cobra.Command, result *core.PasteResult, text string) {
	switch result.Action {
	case paste.InsertTable:
		cmd.Printf("%s table, %d columns, %d rows\n\n", result.Format, result.Table.Columns(), len(result.Table.Body))
		writeGrid(cmd.OutOrStdout(), result.Table)
	case paste.InsertMedia:
		cmd.Printf("%s: %s\n", result.Classification.Kind, result.Classification.URL)
		if result.EmbedURL != "" {
			cmd.Printf("embed: %s\n", result.EmbedURL)
		}
	default:
		cmd.Print(text)
	}
}
