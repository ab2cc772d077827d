package cli

import (
	"github.com/spf13/cobra"
)

// NewNotificationCmd создаёт группу команд для просмотра уведомлений.
func NewNotificationCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notification",
		Short: "View user notifications",
	}

	cmd.AddCommand(newNotificationListCmd(clientFn, outputFn))

	return cmd
}

func newNotificationListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var userID string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			notifications, err := client.ListNotifications(userID, limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "TYPE", "REFERENCE", "CREATED"}
			rows := make([][]string, len(notifications))
			for i, n := range notifications {
				rows[i] = []string{n.ID, n.Type, n.ReferenceID, n.CreatedAt}
			}

			out.Print(headers, rows, notifications)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max notifications to return")
	cmd.MarkFlagRequired("user")

	return cmd
}
