package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jovincart/storefront/apperrors"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		google, _ := cmd.Flags().GetBool("google")

		if email == "" {
			return errors.New("--email is required")
		}

		a := newApp()
		ctx := cmd.Context()

		var err error
		if google {
			err = a.session.LoginWithGoogle(ctx, email)
			if errors.Is(err, apperrors.ErrAccountNotRegistered) {
				return errors.New("account not registered, finish signup with: storefront signup")
			}
		} else {
			if password == "" {
				return errors.New("--password is required")
			}
			err = a.session.LoginWithPassword(ctx, email, password)
		}
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			return errors.New("no account with that email")
		case errors.Is(err, apperrors.ErrIncorrectPassword):
			return errors.New("incorrect password")
		case err != nil:
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Printf("Logged in as %s\n", email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		a.session.Logout()
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		snap := a.session.Current()
		if !snap.Authenticated || snap.Identity == nil {
			fmt.Println("Not logged in")
			return nil
		}
		fmt.Printf("%s (%s)\n", snap.Identity.Email, snap.Identity.Role)
		if snap.Identity.ExpiresAt != nil {
			fmt.Printf("Session expires %s\n", snap.Identity.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" || password == "" {
			return errors.New("--email and --password are required")
		}

		a := newApp()
		if err := a.client.CreateUser(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}
		fmt.Printf("Account created for %s, log in with: storefront login\n", email)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
	loginCmd.Flags().Bool("google", false, "federated login with a verified email")

	signupCmd.Flags().String("email", "", "account email")
	signupCmd.Flags().String("password", "", "account password")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, signupCmd)
}
