package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/lunalog/internal/db"
	"github.com/terraincognita07/lunalog/internal/security"
	"github.com/terraincognita07/lunalog/internal/services"
)

const temporaryPasswordLength = 12

func newResetPasswordCommand(env *environment) *cobra.Command {
	var prompt bool
	cmd := &cobra.Command{
		Use:   "reset-password EMAIL",
		Short: "Reset a user's password in the server database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := env.openDatabase(env.cfg.DBPath, env.logger)
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			defer closeDatabase(database, env.logger)
			auth := services.NewAuthService(db.NewUserRepository(database))
			out := cmd.OutOrStdout()

			if prompt {
				password, err := promptSecret(out, os.Stdin, "New password: ")
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				if err := auth.ResetPassword(args[0], password, false); err != nil {
					return describeResetError(args[0], err)
				}
				fmt.Fprintln(out, "Password updated.")
				return nil
			}

			temporary, err := security.TemporaryPassword(temporaryPasswordLength)
			if err != nil {
				return fmt.Errorf("generate temporary password: %w", err)
			}
			if err := auth.ResetPassword(args[0], temporary, true); err != nil {
				return describeResetError(args[0], err)
			}
			fmt.Fprintln(out, "Password reset successful")
			fmt.Fprintf(out, "Temporary password: %s\n", temporary)
			fmt.Fprintln(out, "User must change password on next login.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&prompt, "prompt", false, "read the new password from stdin instead of generating one")
	return cmd
}

func describeResetError(email string, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return fmt.Errorf("user %s not found", email)
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return fmt.Errorf("invalid email address %q", email)
	case errors.Is(err, services.ErrWeakPassword):
		return errors.New("password must be at least 8 characters with upper, lower case letters and a digit")
	default:
		return fmt.Errorf("update user password: %w", err)
	}
}

