package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/postdesk/internal/paste"
)

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify <url>",
	Short: "Classify a URL as image, video or plain text",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output the classification as JSON")
	rootCmd.AddCommand(classifyCmd)
}

type classifyOutput struct {
	paste.Classification
	EmbedURL string `json:"embed_url,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	c := service.Classify(context.Background(), args[0])
	out := classifyOutput{Classification: c, EmbedURL: service.EmbedURL(c)}

	if classifyJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal classification: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("kind:     %s\n", c.Kind)
	if c.Kind == paste.PlainText {
		return nil
	}
	cmd.Printf("url:      %s\n", c.URL)
	if c.Kind == paste.Video {
		cmd.Printf("platform: %s\n", c.Platform)
		cmd.Printf("video:    %s\n", c.VideoID)
		if c.PlaylistID != "" {
			cmd.Printf("playlist: %s\n", c.PlaylistID)
		}
		if c.StartIndex != nil {
			cmd.Printf("index:    %d\n", *c.StartIndex)
		}
		cmd.Printf("embed:    %s\n", out.EmbedURL)
	}
	return nil
}
