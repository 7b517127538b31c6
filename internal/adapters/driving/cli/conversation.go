package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

var (
	registerProject   string
	registerPrincipal string
)

var conversationCmd = &cobra.Command{
	Use:   "conversation",
	Short: "Register conversations for local use",
	Long: `Conversations and projects are normally owned by the host application.
These commands register them in the local directory so the other commands can
resolve owners.`,
}

var conversationAddCmd = &cobra.Command{
	Use:   "add [conversation-id]",
	Short: "Register a conversation, optionally inside a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationAdd,
}

func init() {
	conversationAddCmd.Flags().StringVar(&registerProject, "project", "", "project the conversation belongs to")
	conversationAddCmd.Flags().StringVar(&registerPrincipal, "owner", "", "principal owning the conversation")
	conversationCmd.AddCommand(conversationAddCmd)
	rootCmd.AddCommand(conversationCmd)
}

func runConversationAdd(cmd *cobra.Command, args []string) error {
	if registry == nil {
		return errors.New("conversation registry not configured")
	}
	if registerPrincipal == "" {
		return errors.New("--owner is required")
	}

	ctx := cmd.Context()
	if registerProject != "" {
		project := &domain.Project{ID: registerProject, PrincipalID: registerPrincipal}
		if err := registry.SaveProject(ctx, project); err != nil {
			return fmt.Errorf("saving project: %w", err)
		}
	}

	conv := &domain.Conversation{ID: args[0], ProjectID: registerProject, PrincipalID: registerPrincipal}
	if err := registry.SaveConversation(ctx, conv); err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}

	if conv.InProject() {
		cmd.Printf("Registered conversation %s in project %s\n", conv.ID, conv.ProjectID)
	} else {
		cmd.Printf("Registered conversation %s\n", conv.ID)
	}
	return nil
}
