package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewAccountCmd создаёт группу команд для управления аккаунтами соцсетей.
func NewAccountCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage connected social accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(clientFn, outputFn),
		newAccountConnectCmd(clientFn, outputFn),
		newAccountRefreshCmd(clientFn, outputFn),
	)

	return cmd
}

var accountHeaders = []string{"ID", "PLATFORM", "ACTIVE", "SYNC", "EXPIRES", "LAST_SYNC"}

func accountRow(a AccountResponse) []string {
	return []string{
		a.ID,
		a.Platform,
		strconv.FormatBool(a.IsActive),
		a.SyncStatus,
		orDash(a.TokenExpiresAt),
		orDash(a.LastSyncAt),
	}
}

func newAccountListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List connected accounts for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			accounts, err := client.ListAccounts(userID)
			if err != nil {
				return err
			}

			rows := make([][]string, len(accounts))
			for i, a := range accounts {
				rows[i] = accountRow(a)
			}

			out.Print(accountHeaders, rows, accounts)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	cmd.MarkFlagRequired("user")

	return cmd
}

func newAccountConnectCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var userID, platform, accessToken, refreshToken, expiresAt string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect a social account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			account, err := client.ConnectAccount(ConnectAccountRequest{
				UserID:         userID,
				Platform:       platform,
				AccessToken:    accessToken,
				RefreshToken:   refreshToken,
				TokenExpiresAt: expiresAt,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Account connected: %s (%s)", account.ID, account.Platform))
			out.Print(accountHeaders, [][]string{accountRow(*account)}, account)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	cmd.Flags().StringVar(&platform, "platform", "", "Platform name (required)")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "OAuth access token (required)")
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "OAuth refresh token")
	cmd.Flags().StringVar(&expiresAt, "expires-at", "", "Token expiry in RFC3339")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("platform")
	cmd.MarkFlagRequired("access-token")

	return cmd
}

func newAccountRefreshCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "refresh PROVIDER",
		Short: "Refresh the access token for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.RefreshAccount(userID, args[0])
			if err != nil {
				return err
			}

			if result.Refreshed {
				out.Success(fmt.Sprintf("Token refreshed for %s", args[0]))
			} else {
				out.Error(fmt.Sprintf("refresh failed for %s, check account sync_error", args[0]))
			}
			out.JSON(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	cmd.MarkFlagRequired("user")

	return cmd
}
