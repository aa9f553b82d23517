package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored bearer token",
	Long: `Store, inspect and forget the bearer token used to talk to the backend.

Tokens are kept per profile in ~/.kbhub/data. A token passed with --token or
KBHUB_TOKEN is used for that invocation only and is never stored.

Examples:
  # Paste a token at a hidden prompt
  kbhub auth login

  # Read the token from a pipe
  echo "$TOKEN" | kbhub auth login

  # Show who you are and what you can do
  kbhub auth status`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a bearer token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"whoami"},
	Short:   "Show the signed-in user and their roles",
	Args:    cobra.NoArgs,
	RunE:    runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.Auth == nil {
		return errors.New("auth service not configured")
	}

	raw, err := readToken(cmd)
	if err != nil {
		return err
	}

	stored, err := svc.Auth.Login(cmd.Context(), raw)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Printf("Token stored for profile %s.\n", stored.Profile)
	if !stored.ExpiresAt.IsZero() {
		cmd.Printf("Expires: %s (in %s)\n", formatTime(stored.ExpiresAt), time.Until(stored.ExpiresAt).Round(time.Minute))
	}

	if tokenFlag != "" || svc.Gate == nil {
		return nil
	}
	ws, err := svc.Gate.Open(cmd.Context())
	if err != nil {
		cmd.Printf("Could not resolve identity: %v\n", err)
		return nil
	}
	printSession(cmd, ws.Session())
	return nil
}

// readToken prompts without echo on a terminal and reads one line otherwise.
func readToken(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cmd.Print("Bearer token: ")
		data, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("%w: no token on input", domain.ErrInvalidInput)
	}
	return strings.TrimSpace(line), nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.Auth == nil {
		return errors.New("auth service not configured")
	}
	if err := svc.Auth.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	cmd.Println("Logged out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}

	if tokenFlag == "" && svc.Auth != nil {
		stored, err := svc.Auth.Status(cmd.Context())
		if errors.Is(err, domain.ErrNoSession) {
			cmd.Println("Not logged in. Run 'kbhub auth login'.")
			return nil
		}
		if err != nil {
			return err
		}
		cmd.Printf("Profile:  %s\n", stored.Profile)
		cmd.Printf("Subject:  %s\n", orDash(stored.Subject))
		cmd.Printf("Saved:    %s\n", formatTime(stored.SavedAt))
		cmd.Printf("Expires:  %s\n", formatTime(stored.ExpiresAt))
		if stored.Expired(time.Now()) {
			cmd.Println("The stored token has expired.")
			return nil
		}
	}

	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	printSession(cmd, ws.Session())
	return nil
}

func printSession(cmd *cobra.Command, session *domain.Session) {
	caps := session.Capabilities()
	cmd.Printf("User:     %s\n", orDash(session.Username))
	if len(session.Groups) == 0 {
		cmd.Println("Groups:   (none)")
	} else {
		cmd.Printf("Groups:   %s\n", strings.Join(session.Groups, ", "))
	}
	if session.Degraded {
		cmd.Println("Identity lookup failed; running with read-only access.")
	}

	tabs := make([]string, 0, 3)
	for _, t := range caps.Tabs() {
		tabs = append(tabs, t.String())
	}
	cmd.Printf("Views:    %s\n", strings.Join(tabs, ", "))
	cmd.Printf("Upload:   %t\n", caps.CanUpload())
	cmd.Printf("Admin:    %t\n", caps.CanAdminister())
}
