// Package cli implements pastectl, a command-line front end to the paste
// pipeline. It runs the same classification, detection and table
// conversion as the server, against files or stdin.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/postdesk/internal/config"
	"github.com/JonMunkholm/postdesk/internal/core"
	"github.com/JonMunkholm/postdesk/internal/logging"
)

var (
	verbose bool

	// service is built in PersistentPreRunE from the PASTE_* and MEDIA_*
	// environment.
	service *core.Service
)

var rootCmd = &cobra.Command{
	Use:   "pastectl",
	Short: "Inspect and convert clipboard content",
	Long: `pastectl runs pasted content through the same pipeline as the editor:
URL classification, table format detection and conversion to a canonical table.

Configuration is read from the PASTE_* and MEDIA_* environment variables.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline decisions to stderr")
}

// Execute runs the root command. Results go to stdout so they can be piped.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	if verbose {
		slog.SetDefault(logging.New(cmd.ErrOrStderr(), "debug", "text"))
	} else {
		slog.SetDefault(logging.Discard())
	}

	var pasteCfg config.PasteConfig
	if err := config.LoadSection(&pasteCfg); err != nil {
		return fmt.Errorf("load paste configuration: %w", err)
	}
	var mediaCfg config.MediaConfig
	if err := config.LoadSection(&mediaCfg); err != nil {
		return fmt.Errorf("load media configuration: %w", err)
	}

	service = core.NewService(core.NewMemoryStore(), core.Options{
		MaxPasteBytes:    pasteCfg.MaxBytes,
		MaxContentBytes:  pasteCfg.MaxContentBytes,
		Placeholder:      pasteCfg.Placeholder,
		NormalizeUnicode: pasteCfg.NormalizeUnicode,
		ImageHosts:       mediaCfg.ImageHosts,
		EmbedBase:        mediaCfg.YouTubeEmbedBase,
		MaxConcurrent:    1,
	})
	return nil
}

// readInput returns the contents of args[0], or stdin when no file is
// given or the file is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return readFile(args[0])
}

// readFile returns the file contents, or "" for an empty path.
func readFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
