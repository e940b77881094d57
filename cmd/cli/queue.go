package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/citypages/sentinel/internal/core"
	"github.com/citypages/sentinel/internal/wire"
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgWhite)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

var (
	queueStatus string
	reviewedBy  string
	reviewNotes string
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect and resolve the AI review queue",
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List review queue items, newest first",
	Long: `List review queue items, newest first.

Examples:
  sentinel-cli queue list
  sentinel-cli queue list --status pending`,
	RunE: runQueueList,
}

var queueApproveCmd = &cobra.Command{
	Use:   "approve [id]",
	Short: "Approve a flagged item (publishes the listing for business items)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueueResolve(args[0], core.StatusApproved)
	},
}

var queueRejectCmd = &cobra.Command{
	Use:   "reject [id]",
	Short: "Reject a flagged item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueueResolve(args[0], core.StatusRejected)
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	queueListCmd.Flags().StringVarP(&queueStatus, "status", "s", "", "Filter by status (pending|approved|rejected)")

	for _, cmd := range []*cobra.Command{queueApproveCmd, queueRejectCmd} {
		cmd.Flags().StringVarP(&reviewedBy, "reviewed-by", "r", "", "Admin identity recorded on the resolution (required)")
		cmd.Flags().StringVarP(&reviewNotes, "notes", "n", "", "Optional review notes")
		_ = cmd.MarkFlagRequired("reviewed-by")
	}

	queueCmd.AddCommand(queueListCmd, queueApproveCmd, queueRejectCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueueList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	status := core.ReviewStatus(queueStatus)
	switch status {
	case "", core.StatusPending, core.StatusApproved, core.StatusRejected:
	default:
		return fmt.Errorf("invalid status %q (expected pending, approved or rejected)", queueStatus)
	}

	appInstance, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer cleanup()

	items, err := appInstance.Store.ListReviewQueueItems(ctx, status)
	if err != nil {
		return fmt.Errorf("failed to list review queue: %w", err)
	}

	titleColor.Printf("Review queue (%d items)\n", len(items))
	if len(items) == 0 {
		successColor.Println("Nothing waiting for review.")
		return nil
	}

	for _, item := range items {
		fmt.Println()
		printStatusBadge(item.Status)
		boldColor.Printf(" #%d", item.ID)
		infoColor.Printf(" %s/%d", item.ItemType, item.ItemID)
		dimColor.Printf("  score=%d  flags=[%s]\n", item.AIScore, strings.Join(item.Flags, ", "))
		if item.AIReasoning != "" {
			infoColor.Printf("   %s\n", item.AIReasoning)
		}
		if item.ReviewedBy != nil {
			dimColor.Printf("   resolved by %s at %s", *item.ReviewedBy, item.ReviewedAt.Format("2006-01-02 15:04"))
			if item.ReviewNotes != nil {
				dimColor.Printf(" — %s", *item.ReviewNotes)
			}
			fmt.Println()
		}
	}
	return nil
}

func runQueueResolve(rawID string, status core.ReviewStatus) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid queue item id %q", rawID)
	}

	appInstance, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer cleanup()

	item, err := appInstance.Store.ResolveReviewQueueItem(ctx, id, status, reviewedBy, reviewNotes)
	if err != nil {
		return fmt.Errorf("failed to resolve item %d: %w", id, err)
	}

	if status == core.StatusApproved && item.ItemType == core.ItemTypeBusiness {
		if _, err := appInstance.Store.PublishPendingBusiness(ctx, item.ItemID); err != nil {
			warnColor.Printf("item approved, but listing %d could not be published: %v\n", item.ItemID, err)
			return nil
		}
		successColor.Printf("listing %d published\n", item.ItemID)
	}

	printStatusBadge(item.Status)
	boldColor.Printf(" #%d", item.ID)
	infoColor.Printf(" %s/%d resolved\n", item.ItemType, item.ItemID)
	return nil
}

func printStatusBadge(status core.ReviewStatus) {
	switch status {
	case core.StatusPending:
		color.New(color.BgYellow, color.FgBlack).Printf(" %s ", status)
	case core.StatusApproved:
		color.New(color.BgGreen, color.FgWhite).Printf(" %s ", status)
	case core.StatusRejected:
		color.New(color.BgRed, color.FgWhite, color.Bold).Printf(" %s ", status)
	default:
		color.New(color.BgWhite, color.FgBlack).Printf(" %s ", status)
	}
}
