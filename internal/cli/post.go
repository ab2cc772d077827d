package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewPostCmd создаёт группу команд для управления постами.
func NewPostCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage posts",
	}

	cmd.AddCommand(
		newPostListCmd(clientFn, outputFn),
		newPostCreateCmd(clientFn, outputFn),
		newPostShowCmd(clientFn, outputFn),
	)

	return cmd
}

func postRow(p PostResponse) []string {
	return []string{
		p.ID,
		p.Status,
		strings.Join(p.Platforms, ","),
		orDash(p.ScheduledAt),
		truncate(p.Content, 40),
	}
}

var postHeaders = []string{"ID", "STATUS", "PLATFORMS", "SCHEDULED", "CONTENT"}

func newPostListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var userID, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			posts, err := client.ListPosts(ListPostsOpts{UserID: userID, Status: status, Limit: limit})
			if err != nil {
				return err
			}

			rows := make([][]string, len(posts))
			for i, p := range posts {
				rows[i] = postRow(p)
			}

			out.Print(postHeaders, rows, posts)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max posts to return")
	cmd.MarkFlagRequired("user")

	return cmd
}

func newPostCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var userID, content, scheduledAt string
	var platforms []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new post",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreatePostRequest{
				UserID:    userID,
				Content:   content,
				Platforms: platforms,
			}
			if scheduledAt != "" {
				if _, err := time.Parse(time.RFC3339, scheduledAt); err != nil {
					return fmt.Errorf("invalid --at value, expected RFC3339: %w", err)
				}
				req.ScheduledAt = scheduledAt
			}

			post, err := client.CreatePost(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Post created: %s", post.ID))
			out.Print(postHeaders, [][]string{postRow(*post)}, post)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	cmd.Flags().StringVar(&content, "content", "", "Post content (required)")
	cmd.Flags().StringSliceVar(&platforms, "platforms", nil, "Target platforms, comma-separated (required)")
	cmd.Flags().StringVar(&scheduledAt, "at", "", "Publish time in RFC3339; omit for a draft")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("content")
	cmd.MarkFlagRequired("platforms")

	return cmd
}

func newPostShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show post details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			post, err := client.GetPost(args[0])
			if err != nil {
				return err
			}

			out.Print(postHeaders, [][]string{postRow(*post)}, post)
			return nil
		},
	}
}
