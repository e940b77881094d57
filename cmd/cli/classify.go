package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citypages/sentinel/internal/core"
	"github.com/citypages/sentinel/internal/wire"
)

var classifyType string

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Run a one-off classification against the configured model",
	Long: `Run a one-off classification against the configured model.

Prints the raw verdict without writing to the review queue, which makes it
useful for tuning the site policy file.

Examples:
  sentinel-cli classify --type post "Buy cheap watches at ..."
  sentinel-cli classify --type article "Title: ..."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	classifyCmd.Flags().StringVarP(&classifyType, "type", "t", "post", "Content type (article|how_to|post|business)")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	itemType := core.ItemType(classifyType)
	if !itemType.Valid() {
		return fmt.Errorf("invalid content type %q", classifyType)
	}

	appInstance, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer cleanup()

	verdict := appInstance.Classifier.Classify(ctx, strings.Join(args, " "), itemType)

	if verdict.IsFlagged {
		errorColor.Printf("FLAGGED (%d/100)\n", verdict.ConfidenceScore)
		if len(verdict.Categories) > 0 {
			infoColor.Printf("categories: %s\n", strings.Join(verdict.Categories, ", "))
		}
		if verdict.Reason != "" {
			infoColor.Printf("reason: %s\n", verdict.Reason)
		}
		if verdict.ConfidenceScore < appInstance.Cfg.Moderation.ConfidenceThreshold {
			dimColor.Printf("below threshold %d, would not be queued\n", appInstance.Cfg.Moderation.ConfidenceThreshold)
		}
	} else {
		successColor.Println("clean")
	}
	return nil
}
