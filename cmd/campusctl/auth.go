package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/security"
	"github.com/Rrens/campus-console/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	// login
	var username, password string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if username == "" {
				if username, err = prompt("Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptSecret("Password: "); err != nil {
					return err
				}
			}
			if err := cli.sessions.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			return printSignedIn()
		},
	}
	loginCmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)

	// signup
	var email, newUser, newPassword, fullName string
	signupCmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if newPassword == "" {
				var err error
				if newPassword, err = promptSecret("Password: "); err != nil {
					return err
				}
			}
			if err := cli.sessions.Signup(cmd.Context(), email, newUser, newPassword, fullName); err != nil {
				return err
			}
			return printSignedIn()
		},
	}
	signupCmd.Flags().StringVarP(&email, "email", "e", "", "Email (required)")
	signupCmd.Flags().StringVarP(&newUser, "username", "u", "", "Username, 3 to 50 characters (required)")
	signupCmd.Flags().StringVarP(&newPassword, "password", "p", "", "Password, at least 8 characters (prompted when omitted)")
	signupCmd.Flags().StringVarP(&fullName, "name", "n", "", "Full name")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(signupCmd)

	// logout
	rootCmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Forget the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "Signed out")
			return nil
		},
	})

	// whoami
	rootCmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and token expiry",
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			snap := cli.sessions.Snapshot()
			info, _ := security.InspectToken(snap.Token)

			if jsonOutput() {
				return printJSON(os.Stdout, map[string]any{"user": snap.User, "token": info})
			}

			u := snap.User
			fmt.Fprintf(os.Stdout, "%s (%s)\n", u.DisplayName(), u.Username)
			fmt.Fprintf(os.Stdout, "  id:     %s\n", u.ID)
			fmt.Fprintf(os.Stdout, "  email:  %s\n", u.Email)
			fmt.Fprintf(os.Stdout, "  admin:  %t\n", u.IsAdmin)
			if info != nil && !info.ExpiresAt.IsZero() {
				fmt.Fprintf(os.Stdout, "  token expires %s (in %s)\n",
					info.ExpiresAt.Local().Format(time.RFC1123),
					time.Until(info.ExpiresAt).Round(time.Second))
			}
			return nil
		}),
	})

	// profile update
	profileCmd := &cobra.Command{Use: "profile", Short: "Profile operations"}
	var changePassword bool
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update email, name or password",
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			current := *cli.sessions.Snapshot().User
			form := domain.ProfileForm{Email: current.Email, FullName: current.FullName}
			if cmd.Flags().Changed("email") {
				form.Email, _ = cmd.Flags().GetString("email")
			}
			if cmd.Flags().Changed("name") {
				form.FullName, _ = cmd.Flags().GetString("name")
			}

			if changePassword {
				var err error
				if form.CurrentPassword, err = promptSecret("Current password: "); err != nil {
					return err
				}
				if form.NewPassword, err = promptSecret("New password: "); err != nil {
					return err
				}
				if form.ConfirmPassword, err = promptSecret("Confirm new password: "); err != nil {
					return err
				}
			}

			profiles := service.NewProfileService(cli.client, cli.sessions)
			user, err := profiles.Update(cmd.Context(), form)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, user)
			}
			fmt.Fprintln(os.Stdout, "Profile updated")
			return nil
		}),
	}
	updateCmd.Flags().String("email", "", "New email")
	updateCmd.Flags().String("name", "", "New full name")
	updateCmd.Flags().BoolVar(&changePassword, "change-password", false, "Prompt for a password change")
	profileCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(profileCmd)

	// users
	rootCmd.AddCommand(&cobra.Command{
		Use:   "users",
		Short: "List accounts",
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			users, err := cli.client.Users(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, users)
			}

			tw := newTable(os.Stdout, "ID", "USERNAME", "EMAIL", "NAME", "ACTIVE", "ADMIN")
			for _, u := range users {
				row(tw, u.ID, u.Username, u.Email, orDash(u.FullName), strconv.FormatBool(u.IsActive), strconv.FormatBool(u.IsAdmin))
			}
			return tw.Flush()
		}),
	})
}

func printSignedIn() error {
	snap := cli.sessions.Snapshot()
	if jsonOutput() {
		return printJSON(os.Stdout, snap.User)
	}
	fmt.Fprintf(os.Stdout, "Signed in as %s\n", snap.User.DisplayName())
	return nil
}
