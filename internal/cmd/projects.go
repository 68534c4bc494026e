package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hunseop/automated-task-launcher/internal/api"
	"github.com/hunseop/automated-task-launcher/internal/errors"
	"github.com/hunseop/automated-task-launcher/internal/ux"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects on the backend",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects, newest first",
	RunE:  runProjectsList,
}

var projectsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the available project templates",
	RunE:  runProjectsTypes,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project from a template",
	RunE:  runProjectsCreate,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and all of its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDelete,
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	projects, err := client.Projects(cmd.Context())
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "" {
		formatter, err := ux.NewFormatter(format, nil)
		if err != nil {
			return err
		}
		return formatter.Format(projects)
	}

	if len(projects) == 0 {
		fmt.Println("No projects yet. Create one with 'atl projects create'.")
		return nil
	}

	for _, p := range projects {
		fmt.Printf("%s  %-28s %-10s %s\n", p.ID, p.Name, statusBadge(p.Status), p.CreatedAt)
		for i, t := range p.Tasks {
			fmt.Printf("    %d. %-28s %s\n", i+1, t.Name, statusBadge(t.Status))
		}
	}
	return nil
}

func runProjectsTypes(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	types, err := client.ProjectTypes(cmd.Context())
	if err != nil {
		return err
	}

	for _, t := range types {
		fmt.Println(t.Name)
		for i, task := range t.Tasks {
			fmt.Printf("    %d. %s (%s)\n", i+1, task.Name, task.Type)
		}
	}
	return nil
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	types, err := client.ProjectTypes(ctx)
	if err != nil {
		return err
	}
	if len(types) == 0 {
		return errors.New(errors.ErrCodeProjectTypeUnknown, "the backend exposes no project templates")
	}

	typeName, _ := cmd.Flags().GetString("type")
	name, _ := cmd.Flags().GetString("name")

	if typeName == "" {
		options := make([]huh.Option[string], 0, len(types))
		for _, t := range types {
			options = append(options, huh.NewOption(t.Name, t.Name))
		}
		prompt := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Project type").
				Options(options...).
				Value(&typeName),
			huh.NewInput().
				Title("Project name").
				Placeholder("defaults to the template name").
				Value(&name),
		))
		if err := prompt.Run(); err != nil {
			return err
		}
	}

	var template *api.ProjectType
	for i := range types {
		if strings.EqualFold(types[i].Name, typeName) {
			template = &types[i]
			break
		}
	}
	if template == nil {
		return errors.New(errors.ErrCodeProjectTypeUnknown,
			fmt.Sprintf("unknown project type: %s", typeName)).
			WithSuggestion("Run 'atl projects types' to see the available templates")
	}

	if name == "" {
		name = template.Name
	}

	if err := client.CreateProject(ctx, name, *template); err != nil {
		return err
	}

	fmt.Printf("Created project %q with %d tasks. Run it with 'atl run'.\n", name, len(template.Tasks))
	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	projectID := args[0]

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		confirm := false
		prompt := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete project %s and all of its tasks?", projectID)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&confirm),
		))
		if err := prompt.Run(); err != nil {
			return err
		}
		if !confirm {
			fmt.Println("Kept.")
			return nil
		}
	}

	if err := client.DeleteProject(cmd.Context(), projectID); err != nil {
		return err
	}
	fmt.Println("Deleted.")
	return nil
}

// statusBadge colors a status for terminal display
func statusBadge(s api.Status) string {
	var style lipgloss.Style
	switch s {
	case api.StatusCompleted:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case api.StatusError:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	default:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}
	return style.Render(string(s))
}

func init() {
	projectsListCmd.Flags().String("format", "text", "output format (text, json, yaml)")
	projectsCreateCmd.Flags().String("type", "", "project template name")
	projectsCreateCmd.Flags().String("name", "", "project name")
	projectsDeleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsTypesCmd)
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	rootCmd.AddCommand(projectsCmd)
}
