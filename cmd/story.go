package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/brief"
	"github.com/KaramelBytes/insightloom/internal/project"
	"github.com/spf13/cobra"
)

var (
	stProject   string
	stTitle     string
	stObjective string
	stContext   string
	stType      string
	stAudience  string
	stDataset   string
	stOutcome   string
	stBrief     string
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Manage the data stories of a project",
}

var storyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a story bound to a project dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if stProject == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := loadProject(stProject)
		if err != nil {
			return err
		}
		context := stContext
		if stBrief != "" {
			text, err := brief.ReadFile(stBrief)
			if err != nil {
				return err
			}
			context = strings.TrimSpace(context + "\n\n" + text)
		}
		s, err := p.AddStory(project.Story{
			Title:         stTitle,
			Objective:     stObjective,
			Context:       context,
			StoryType:     stType,
			Audience:      stAudience,
			DatasetID:     stDataset,
			OutcomeColumn: stOutcome,
		})
		if err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Story created: %s (%s, %s) id=%s\n", s.Title, s.StoryType, s.Audience, s.ID)
		return nil
	},
}

var storyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's stories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if stProject == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := loadProject(stProject)
		if err != nil {
			return err
		}
		printStories(cmd.OutOrStdout(), p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storyCmd)
	storyCmd.AddCommand(storyCreateCmd)
	storyCmd.AddCommand(storyListCmd)

	storyCmd.PersistentFlags().StringVarP(&stProject, "project", "p", "", "project name")
	storyCreateCmd.Flags().StringVar(&stTitle, "title", "", "story title")
	storyCreateCmd.Flags().StringVar(&stObjective, "objective", "", "business objective")
	storyCreateCmd.Flags().StringVar(&stContext, "context", "", "additional context")
	storyCreateCmd.Flags().StringVar(&stType, "type", "", "story type: exploratory|trend|comparative|root_cause|predictive")
	storyCreateCmd.Flags().StringVar(&stAudience, "audience", "", "target audience: technical|executive|general")
	storyCreateCmd.Flags().StringVar(&stDataset, "dataset", "", "dataset id or file name")
	storyCreateCmd.Flags().StringVar(&stOutcome, "outcome", "", "outcome column for fairness scoring")
	storyCreateCmd.Flags().StringVar(&stBrief, "brief", "", "read additional context from a .txt, .md or .docx brief")
}
