package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hunseop/automated-task-launcher/internal/api"
	"github.com/hunseop/automated-task-launcher/internal/form"
	"github.com/hunseop/automated-task-launcher/internal/log"
	"github.com/hunseop/automated-task-launcher/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run <project-id>",
	Short: "Walk a project's task pipeline to completion",
	Long: `Walk the project's task pipeline: for each task in order, fetch its input
schema, prompt for the declared fields (tasks without fields execute
automatically), submit together with the previous task's result, and move on.
Failed submissions can be retried; the authoritative project state is
re-fetched after every submission.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(client, fillTaskForm, promptRetry, log.DefaultLogger())

	project, err := runner.Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("\n%s  %s\n", project.Name, statusBadge(project.Status))
	if project.Status == api.StatusCompleted {
		fmt.Printf("View the results with 'atl result %s'.\n", project.ID)
	}
	return nil
}

// fillTaskForm renders the task's schema as a form and collects the values.
// A schema without fields yields an empty map without prompting.
func fillTaskForm(task *api.Task, schema *api.TaskSchema) (map[string]string, error) {
	builder, err := form.Build(task.Name, schema)
	if err != nil {
		return nil, err
	}
	if builder.Empty() {
		return map[string]string{}, nil
	}
	if err := builder.Run(); err != nil {
		return nil, err
	}
	return builder.Values(), nil
}

// promptRetry surfaces a failed submission and asks whether to try again
func promptRetry(task *api.Task, message string) (bool, error) {
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	fmt.Printf("\n%s %s\n", errStyle.Render(task.Name+" failed:"), message)

	retry := false
	prompt := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Retry this task?").
			Affirmative("Retry").
			Negative("Stop").
			Value(&retry),
	))
	if err := prompt.Run(); err != nil {
		return false, err
	}
	return retry, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
