// Package cli implements the manage command used to administer users,
// groups, projects and sessions from the shell.
package cli

import (
	"fmt"

	"taskmanager/internal/repository"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Opener connects to the database. Subcommands call it lazily so that
// --help works without one.
type Opener func() (*gorm.DB, error)

type env struct {
	db       *gorm.DB
	users    *repository.UserRepository
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
	sessions *repository.SessionRepository
}

func connect(open Opener) (*env, error) {
	db, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &env{
		db:       db,
		users:    repository.NewUserRepository(db),
		projects: repository.NewProjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
		sessions: repository.NewSessionRepository(db),
	}, nil
}

// NewRootCmd returns the manage command with every subcommand attached.
func NewRootCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "manage",
		Short:         "Administer the task manager",
		Long:          `manage runs schema migrations and administrative tasks against the task manager database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(MigrateCmd(open))
	cmd.AddCommand(CreateUserCmd(open))
	cmd.AddCommand(AddGroupCmd(open))
	cmd.AddCommand(RemoveGroupCmd(open))
	cmd.AddCommand(DeleteUserCmd(open))
	cmd.AddCommand(DeleteProjectCmd(open))
	cmd.AddCommand(ProjectsCmd(open))
	cmd.AddCommand(TasksCmd(open))
	cmd.AddCommand(ClearSessionsCmd(open))

	return cmd
}
