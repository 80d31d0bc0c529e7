package cli

import (
	"errors"
	"fmt"
	"strings"

	"taskmanager/internal/auth"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"

	"github.com/spf13/cobra"
)

// CreateUserCmd returns the createuser subcommand
func CreateUserCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a user account",
		Long: `Create an active user account, optionally with staff or superuser rights and group memberships.

Examples:
  manage createuser --username=alice --password='s3cret-Words'
  manage createuser --username=root --password='s3cret-Words' --superuser
  manage createuser --username=mia --password='s3cret-Words' --group=Manager
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateUser(cmd, open)
		},
	}

	cmd.Flags().String("username", "", "Username (required)")
	cmd.Flags().String("password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().Bool("staff", false, "Grant staff status")
	cmd.Flags().Bool("superuser", false, "Grant superuser status")
	cmd.Flags().StringArray("group", nil, "Add the user to this group (repeatable)")
	cmd.Flags().Bool("skip-validation", false, "Accept weak passwords")

	return cmd
}

func runCreateUser(cmd *cobra.Command, open Opener) error {
	ctx := cmd.Context()
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	email, _ := cmd.Flags().GetString("email")
	staff, _ := cmd.Flags().GetBool("staff")
	superuser, _ := cmd.Flags().GetBool("superuser")
	groups, _ := cmd.Flags().GetStringArray("group")
	skipValidation, _ := cmd.Flags().GetBool("skip-validation")

	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username must not be empty")
	}
	if !skipValidation {
		if problems := auth.ValidatePassword(password, username); len(problems) > 0 {
			return fmt.Errorf("password rejected: %s", strings.Join(problems, " "))
		}
	}

	e, err := connect(open)
	if err != nil {
		return err
	}

	taken, err := e.users.UsernameTaken(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("user %q already exists", username)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		IsStaff:      staff || superuser,
		IsSuperuser:  superuser,
		IsActive:     true,
	}
	if err := e.users.Create(ctx, user); errors.Is(err, repository.ErrUsernameTaken) {
		return fmt.Errorf("user %q already exists", username)
	} else if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	for _, g := range groups {
		if err := e.users.AddToGroup(ctx, user, g); err != nil {
			return fmt.Errorf("failed to add %s to group %s: %w", username, g, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ User '%s' created (id %d)\n", user.Username, user.ID)
	return nil
}

// AddGroupCmd returns the addgroup subcommand
func AddGroupCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "addgroup USERNAME GROUP",
		Short: "Add a user to a group, creating the group if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(open)
			if err != nil {
				return err
			}
			user, err := findUser(cmd, e, args[0])
			if err != nil {
				return err
			}
			if err := e.users.AddToGroup(cmd.Context(), user, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added '%s' to group '%s'\n", user.Username, args[1])
			return nil
		},
	}
}

// RemoveGroupCmd returns the removegroup subcommand
func RemoveGroupCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "removegroup USERNAME GROUP",
		Short: "Remove a user from a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(open)
			if err != nil {
				return err
			}
			user, err := findUser(cmd, e, args[0])
			if err != nil {
				return err
			}
			err = e.users.RemoveFromGroup(cmd.Context(), user, args[1])
			if errors.Is(err, repository.ErrGroupNotFound) {
				return fmt.Errorf("group %q does not exist", args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed '%s' from group '%s'\n", user.Username, args[1])
			return nil
		},
	}
}

// DeleteUserCmd returns the deleteuser subcommand
func DeleteUserCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteuser USERNAME",
		Short: "Delete a user",
		Long:  `Delete a user. Projects it manages and tasks assigned to it are kept with the reference cleared.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(open)
			if err != nil {
				return err
			}
			user, err := findUser(cmd, e, args[0])
			if err != nil {
				return err
			}
			if err := e.users.Delete(cmd.Context(), user.ID); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ User '%s' deleted\n", user.Username)
			return nil
		},
	}
}

func findUser(cmd *cobra.Command, e *env, username string) (*model.User, error) {
	user, err := e.users.FindByUsername(cmd.Context(), username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("user %q not found", username)
	}
	return user, err
}
