package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AmanDhiman07/dataguard/internal/cloud"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login <mobile-number>",
	Short: "Sign in to the cloud backup account",
	Long: `Sign in with a mobile number.

An OTP is sent to the number; entering it establishes a session that
'dataguard upload' uses to push exported contact files.`,
	Example: `  # Sign in
  dataguard login +15550100

  See Also: dataguard upload, dataguard logout`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	a := newApp(cmd)
	ctx := cmd.Context()
	mobile := strings.TrimSpace(args[0])

	if err := a.client.LoginRequest(ctx, mobile); err != nil {
		return errors.Wrap(err, "requesting otp")
	}
	fmt.Printf("OTP sent to %s\n", mobile)

	otp, err := readOTP()
	if err != nil {
		return err
	}

	session, err := a.client.VerifyOTP(ctx, mobile, otp)
	if err != nil {
		return errors.Wrap(err, "verifying otp")
	}
	if err := cloud.SaveSession(a.sessionPath, session); err != nil {
		return errors.Wrap(err, "saving session")
	}

	name := session.User.Name
	if name == "" {
		name = session.User.MobileNumber
	}
	fmt.Printf("%s✓ Signed in as %s%s\n", colorGreen, name, colorReset)
	return nil
}

// readOTP reads the one-time code from stdin, without echo when stdin
// is a terminal.
func readOTP() (string, error) {
	fmt.Print("Enter OTP: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		code, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", errors.Wrap(err, "reading otp")
		}
		return strings.TrimSpace(string(code)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "reading otp")
	}
	return strings.TrimSpace(line), nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the cloud backup account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApp(cmd)
		if err := cloud.ClearSession(a.sessionPath); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}
