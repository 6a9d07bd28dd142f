package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/strategiclayer/api/internal/config"
	"github.com/strategiclayer/api/internal/database"
	"github.com/strategiclayer/api/internal/models"
	"github.com/strategiclayer/api/internal/validation"
)

// taskFile is the YAML document format for bulk import/export
type taskFile struct {
	Tasks []taskEntry `yaml:"tasks"`
}

type taskEntry struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description,omitempty"`
	Intensity   int     `yaml:"intensity"`
	Deadline    *string `yaml:"deadline,omitempty"`
	Layer       string  `yaml:"layer"`
	Category    string  `yaml:"category"`
}

// NewTasksCmd creates the tasks command with import and export subcommands.
func NewTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Bulk import and export tasks",
		Long:  "Import tasks from a YAML file or export the stored tasks to one",
	}
	cmd.AddCommand(newTasksImportCmd())
	cmd.AddCommand(newTasksExportCmd())
	return cmd
}

func newTasksImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import tasks from a YAML file",
		Long:  "Validate and store every task in the file. The whole file is rejected on the first invalid entry so imports stay all-or-nothing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			var doc taskFile
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parse yaml: %w", err)
			}
			if len(doc.Tasks) == 0 {
				return fmt.Errorf("no tasks in %s", file)
			}

			// Validate everything before touching the database
			tasks := make([]*models.Task, 0, len(doc.Tasks))
			for i, entry := range doc.Tasks {
				title := validation.SanitizeText(entry.Title)
				if title == "" {
					return fmt.Errorf("task %d: title is required", i+1)
				}
				if err := validation.ValidateLayer(entry.Layer); err != nil {
					return fmt.Errorf("task %d: %w", i+1, err)
				}
				if err := validation.ValidateCategory(entry.Category); err != nil {
					return fmt.Errorf("task %d: %w", i+1, err)
				}
				if entry.Deadline != nil && *entry.Deadline != "" {
					if err := validation.ValidateDeadline(*entry.Deadline); err != nil {
						return fmt.Errorf("task %d: %w", i+1, err)
					}
				}
				if entry.Intensity < 0 || entry.Intensity > 100 {
					return fmt.Errorf("task %d: intensity %d out of range [0, 100]", i+1, entry.Intensity)
				}

				tasks = append(tasks, &models.Task{
					ID:          uuid.New(),
					Title:       title,
					Description: validation.SanitizeText(entry.Description),
					Intensity:   entry.Intensity,
					Deadline:    entry.Deadline,
					Layer:       models.Layer(entry.Layer),
					Category:    models.Category(entry.Category),
				})
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() { _ = db.Close() }()

			repo := database.NewTaskRepository(db)
			ctx := context.Background()
			for _, task := range tasks {
				if err := repo.Create(ctx, task); err != nil {
					return fmt.Errorf("create task %q: %w", task.Title, err)
				}
			}

			fmt.Printf("Imported %d tasks.\n", len(tasks))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML file of tasks to import (required)")
	return cmd
}

func newTasksExportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored tasks to a YAML file",
		Long:  "Write every stored task to a YAML file, or stdout when no file is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() { _ = db.Close() }()

			repo := database.NewTaskRepository(db)
			tasks, err := repo.GetAll(context.Background())
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}

			doc := taskFile{Tasks: make([]taskEntry, 0, len(tasks))}
			for _, task := range tasks {
				doc.Tasks = append(doc.Tasks, taskEntry{
					Title:       task.Title,
					Description: task.Description,
					Intensity:   task.Intensity,
					Deadline:    task.Deadline,
					Layer:       string(task.Layer),
					Category:    string(task.Category),
				})
			}

			data, err := yaml.Marshal(&doc)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}

			if file == "" {
				fmt.Print(string(data))
				return nil
			}
			if err := os.WriteFile(file, data, 0o600); err != nil {
				return fmt.Errorf("write file: %w", err)
			}
			fmt.Printf("Exported %d tasks to %s.\n", len(tasks), file)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Destination YAML file (stdout when omitted)")
	return cmd
}
