// Package cli implements the manuals command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-manuals/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// FileExtractor turns uploaded file bytes into manual text.
type FileExtractor interface {
	Extract(ctx context.Context, name, mimeType string, content []byte) (domain.FileInput, error)
}

// Services holds the ports the commands operate on.
type Services struct {
	Manuals   driving.ManualService
	Retrieval driving.RetrievalService
	Owners    driving.OwnerResolver
	Settings  driving.SettingsService
	Extractor FileExtractor
	Registry  driven.ConversationRegistry
}

var (
	manualService    driving.ManualService
	retrievalService driving.RetrievalService
	ownerResolver    driving.OwnerResolver
	settingsService  driving.SettingsService
	fileExtractor    FileExtractor
	registry         driven.ConversationRegistry
)

var (
	verbose        bool
	conversationID string
	principalID    string
)

var rootCmd = &cobra.Command{
	Use:   "manuals",
	Short: "Attach reference manuals to conversations",
	Long: `Manuals stores user-supplied files and instructions per project,
conversation or guest session, and retrieves the fragments most relevant to
a query by embedding similarity.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&conversationID, "conversation", "c", "", "conversation or guest session id")
	rootCmd.PersistentFlags().StringVarP(&principalID, "principal", "u", "", "principal id (omit for a guest session)")
}

// SetServices injects the services used by all commands.
func SetServices(s Services) {
	manualService = s.Manuals
	retrievalService = s.Retrieval
	ownerResolver = s.Owners
	settingsService = s.Settings
	fileExtractor = s.Extractor
	registry = s.Registry
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// resolveOwner maps the --conversation and --principal flags to an owner.
func resolveOwner(ctx context.Context) (domain.Owner, error) {
	if ownerResolver == nil {
		return domain.Owner{}, errors.New("owner resolver not configured")
	}
	id := strings.TrimSpace(conversationID)
	if id == "" {
		return domain.Owner{}, errors.New("--conversation is required")
	}

	var principal *domain.Principal
	if p := strings.TrimSpace(principalID); p != "" {
		principal = &domain.Principal{ID: p}
	}

	owner, err := ownerResolver.Resolve(ctx, id, principal)
	if err != nil {
		return domain.Owner{}, fmt.Errorf("resolving conversation %s: %w", id, err)
	}
	logger.Debug("resolved %s to owner %s", id, owner)
	return owner, nil
}
