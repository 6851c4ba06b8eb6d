package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bookreview/internal/session"
	"bookreview/pkg/domain"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the session",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session and profile stats",
	RunE:  runWhoami,
}

var (
	registerUsername string
	registerEmail    string
	registerPassword string
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "username")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "account password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(loginEmail)
	if email == "" {
		return errors.New("--email is required")
	}
	password := loginPassword
	if password == "" {
		var err error
		password, err = promptSecret("Password: ")
		if err != nil {
			return err
		}
	}

	res, err := app.Users.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	if err := app.Sessions.Login(res); err != nil {
		return err
	}

	// Best-effort profile refresh; the login response already carries
	// the identity fields the session needs.
	if me, err := app.Users.Me(cmd.Context()); err == nil {
		if err := app.Sessions.SetUser(&me); err != nil {
			return err
		}
	}

	fmt.Printf("Logged in as %s <%s>\n", res.Username, res.Email)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(registerUsername) == "" || strings.TrimSpace(registerEmail) == "" {
		return errors.New("--username and --email are required")
	}
	password := registerPassword
	if password == "" {
		var err error
		password, err = promptSecret("Password: ")
		if err != nil {
			return err
		}
	}
	user, err := app.Users.Register(cmd.Context(), domain.RegisterRequest{
		Username: strings.TrimSpace(registerUsername),
		Email:    strings.TrimSpace(registerEmail),
		Password: password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Account created for %s. Run 'bookreview login' to sign in.\n", user.Username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := app.Sessions.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	sess := app.Sessions.Current()
	if sess.Empty() {
		fmt.Println("Not logged in.")
		return nil
	}
	if sess.User == nil {
		// Token present, identity not yet fetched: login in progress or
		// a bare token adopted from durable storage.
		fmt.Println("Logged in (profile not yet loaded).")
		return nil
	}
	fmt.Printf("%s <%s>\n", sess.User.Username, sess.User.Email)
	if sess.User.Bio != "" {
		fmt.Printf("Bio: %s\n", sess.User.Bio)
	}
	if info, ok := session.InspectToken(sess.Token); ok && !info.ExpiresAt.IsZero() {
		fmt.Printf("Token expires: %s\n", info.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	stats, err := app.Users.Stats(cmd.Context(), sess.User.ID)
	if err != nil {
		fmt.Println("Stats unavailable.")
		return nil
	}
	fmt.Printf("Reviews: %d  Average rating: %.1f  Books read: %d\n",
		stats.ReviewsCount, stats.AverageRating, stats.BooksRead)
	return nil
}

func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
