package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hunseop/automated-task-launcher/internal/errors"
	"github.com/hunseop/automated-task-launcher/internal/log"
	"github.com/hunseop/automated-task-launcher/internal/pipeline"
)

var restartCmd = &cobra.Command{
	Use:   "restart <project-id> <task-name>",
	Short: "Reset a completed or errored task back to Waiting",
	Long: `Reset a terminal task so the pipeline can run it again. Only Completed or
Error tasks can be restarted; the task's collected input is discarded and the
server clears its stored result. With --run, the pipeline continues
immediately from the restarted task.`,
	Args: cobra.ExactArgs(2),
	RunE: runRestart,
}

func runRestart(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	projectID, taskName := args[0], args[1]

	project, err := client.Project(ctx, projectID)
	if err != nil {
		return err
	}

	nodes := pipeline.BuildNodes(project, log.DefaultLogger())
	var node *pipeline.TaskNode
	for _, n := range nodes {
		if n.Task.Name == taskName {
			node = n
			break
		}
	}
	if node == nil {
		return errors.NewTaskNotFoundError(taskName)
	}

	if err := node.Restart(ctx, client); err != nil {
		return err
	}
	fmt.Printf("Restarted %q; it is back to Waiting.\n", taskName)

	if resume, _ := cmd.Flags().GetBool("run"); resume {
		runner := pipeline.NewRunner(client, fillTaskForm, promptRetry, log.DefaultLogger())
		if _, err := runner.Run(ctx, projectID); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	restartCmd.Flags().Bool("run", false, "continue the pipeline after restarting")
	rootCmd.AddCommand(restartCmd)
}
