package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"taskmanager/internal/database"
	"taskmanager/internal/repository"

	"github.com/spf13/cobra"
)

// MigrateCmd returns the migrate subcommand
func MigrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(open)
			if err != nil {
				return err
			}
			if err := database.Migrate(e.db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Database schema is up to date")
			return nil
		},
	}
}

// DeleteProjectCmd returns the deleteproject subcommand
func DeleteProjectCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteproject ID",
		Short: "Delete a project and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := connect(open)
			if err != nil {
				return err
			}
			count, err := e.tasks.CountByProjectID(cmd.Context(), id)
			if err != nil {
				return err
			}
			err = e.projects.Delete(cmd.Context(), id)
			if errors.Is(err, repository.ErrProjectNotFound) {
				return fmt.Errorf("project %d not found", id)
			}
			if err != nil {
				return fmt.Errorf("failed to delete project: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Project %d deleted with %d task(s)\n", id, count)
			return nil
		},
	}
}

// ProjectsCmd returns the projects subcommand
func ProjectsCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(open)
			if err != nil {
				return err
			}
			projects, err := e.projects.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMANAGER\tTASKS\tCREATED")
			for _, p := range projects {
				manager := "-"
				if p.Manager != nil {
					manager = p.Manager.Username
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.Name, manager, len(p.Tasks), p.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

// TasksCmd returns the tasks subcommand
func TasksCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks PROJECT_ID",
		Short: "List the tasks of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := connect(open)
			if err != nil {
				return err
			}
			tasks, err := e.tasks.GetByProjectID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tASSIGNED TO\tDUE")
			for _, t := range tasks {
				assignee, due := "-", "-"
				if t.AssignedTo != nil {
					assignee = t.AssignedTo.Username
				}
				if t.DueDate != nil {
					due = t.DueDate.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Status.Label(), assignee, due)
			}
			return w.Flush()
		},
	}
}

// ClearSessionsCmd returns the clearsessions subcommand
func ClearSessionsCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "clearsessions",
		Short: "Remove expired sessions from the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(open)
			if err != nil {
				return err
			}
			n, err := e.sessions.DeleteExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d expired session(s)\n", n)
			return nil
		},
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
