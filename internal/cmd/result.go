package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hunseop/automated-task-launcher/internal/api"
	"github.com/hunseop/automated-task-launcher/internal/errors"
	"github.com/hunseop/automated-task-launcher/internal/export"
	"github.com/hunseop/automated-task-launcher/internal/table"
)

var resultCmd = &cobra.Command{
	Use:   "result <project-id>",
	Short: "View or export a completed project's result",
	Long: `Fetch and render a completed project's stored result. Policy-shaped results
open an interactive table with filtering, pagination and spreadsheet export;
text and json results print verbatim. Results exist only for Completed
projects.`,
	Args: cobra.ExactArgs(1),
	RunE: runResult,
}

func runResult(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	projectID := args[0]

	project, err := client.Project(ctx, projectID)
	if err != nil {
		return err
	}

	// Results are fetched only for completed projects; a project that
	// regressed (e.g. after a restart) has nothing to show yet.
	if project.Status != api.StatusCompleted {
		return errors.New(errors.ErrCodeResultMissing,
			fmt.Sprintf("project %q is %s; results exist only for completed projects",
				project.Name, project.Status)).
			WithSuggestion(fmt.Sprintf("Continue the pipeline with 'atl run %s'", projectID))
	}

	result, err := client.ProjectResult(ctx, projectID)
	if err != nil {
		return err
	}
	if result == nil {
		return errors.New(errors.ErrCodeResultMissing, "the project has no stored result")
	}

	filter, _ := cmd.Flags().GetString("filter")
	exportPath, _ := cmd.Flags().GetString("export")
	plain, _ := cmd.Flags().GetBool("plain")

	switch result.Type {
	case api.ResultKindPolicy:
		return showPolicyResult(project, result, filter, exportPath, plain)

	case api.ResultKindText:
		fmt.Println(result.Text())
		return nil

	case api.ResultKindJSON:
		fmt.Println(result.PrettyJSON())
		return nil

	default:
		return errors.NewResultUnsupportedError(string(result.Type))
	}
}

// showPolicyResult renders the tabular view over a policy result
func showPolicyResult(project *api.Project, result *api.Result, filter, exportPath string, plain bool) error {
	rows := result.PolicyRows()

	exporter := func(columns []table.Column, filtered []map[string]any) (string, error) {
		path := exportPath
		if path == "" {
			path = filepath.Join(cfg.ExportDir,
				export.Filename(project.Name, project.Type(), time.Now()))
		}
		if err := export.WriteXLSX(path, columns, filtered); err != nil {
			return "", err
		}
		return path, nil
	}

	// An explicit --export writes straight to disk without opening the view.
	if exportPath != "" {
		columns := table.InferColumns(rows)
		filtered := table.Filter(rows, columns, filter)
		path, err := exporter(columns, filtered)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d rows to %s\n", len(filtered), path)
		return nil
	}

	if plain {
		fmt.Print(table.RenderStatic(rows, filter, 1, cfg.PageSize))
		return nil
	}

	return table.Run(rows, table.ViewOptions{
		Title:    project.Name,
		PageSize: cfg.PageSize,
		Export:   exporter,
	})
}

func init() {
	resultCmd.Flags().String("filter", "", "free-text filter applied across all columns")
	resultCmd.Flags().String("export", "", "write the filtered rows to this xlsx file and exit")
	resultCmd.Flags().Bool("plain", false, "print the first page instead of the interactive view")
	rootCmd.AddCommand(resultCmd)
}
