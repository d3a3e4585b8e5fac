// forumctl is a command-line client for the forum REST API.
//
// Examples:
//
//	forumctl users create alice secret
//	forumctl login alice secret
//	FORUMCTL_TOKEN=<token> forumctl posts create --title "Hello" --body "First post" --user 1
//	forumctl posts get 1 --comments
//	forumctl users delete 1
package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	authToken string
)

var rootCmd = &cobra.Command{
	Use:           "forumctl",
	Short:         "Command-line client for the forum API",
	Long:          "forumctl talks to a running forum server over its REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the forum server")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "bearer token (defaults to FORUMCTL_TOKEN)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(commentsCmd)
}

func client() *apiClient {
	return newAPIClient(serverURL, authToken)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in and print a bearer token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := client().do(http.MethodPost, "/auth/login",
			map[string]string{"username": args[0], "password": args[1]})
		if err != nil {
			return err
		}
		printJSON(raw)
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Manage posts",
}

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Manage comments",
}

func init() {
	var startsWith, sortBy string
	listUsers := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if startsWith != "" {
				q.Set("startsWith", startsWith)
			}
			if sortBy != "" {
				q.Set("sortBy", sortBy)
			}
			raw, err := client().do(http.MethodGet, "/users?"+q.Encode(), nil)
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	listUsers.Flags().StringVar(&startsWith, "starts-with", "", "filter by username prefix")
	listUsers.Flags().StringVar(&sortBy, "sort-by", "", "sort order: username, id_asc, id_desc")

	getUser := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			raw, err := client().do(http.MethodGet, fmt.Sprintf("/users/%d", id), nil)
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}

	createUser := &cobra.Command{
		Use:   "create <username> <password>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := client().do(http.MethodPost, "/users",
				map[string]string{"username": args[0], "password": args[1]})
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}

	var username, password string
	updateUser := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			raw, err := client().do(http.MethodPut, fmt.Sprintf("/users/%d/update", id),
				map[string]string{"username": username, "password": password})
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	updateUser.Flags().StringVar(&username, "username", "", "new username")
	updateUser.Flags().StringVar(&password, "password", "", "new password (blank keeps the current one)")
	_ = updateUser.MarkFlagRequired("username")

	deleteUser := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user and everything they authored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := client().do(http.MethodDelete, fmt.Sprintf("/users/%d", id), nil); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}

	usersCmd.AddCommand(listUsers, getUser, createUser, updateUser, deleteUser)
}

func init() {
	var title, authorName string
	var userID int64
	listPosts := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if title != "" {
				q.Set("title", title)
			}
			if authorName != "" {
				q.Set("authorName", authorName)
			}
			if cmd.Flags().Changed("user") {
				q.Set("userid", strconv.FormatInt(userID, 10))
			}
			raw, err := client().do(http.MethodGet, "/posts?"+q.Encode(), nil)
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	listPosts.Flags().StringVar(&title, "title", "", "filter by title substring")
	listPosts.Flags().StringVar(&authorName, "author", "", "filter by author username substring")
	listPosts.Flags().Int64Var(&userID, "user", 0, "filter by author id")

	var withComments bool
	getPost := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			path := fmt.Sprintf("/posts/%d", id)
			if withComments {
				path += "?include=comments"
			}
			raw, err := client().do(http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	getPost.Flags().BoolVar(&withComments, "comments", false, "embed the post's comments")

	var createTitle, createBody string
	var createUserID int64
	createPost := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := client().do(http.MethodPost, "/posts", map[string]interface{}{
				"title":  createTitle,
				"body":   createBody,
				"userId": createUserID,
			})
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	createPost.Flags().StringVar(&createTitle, "title", "", "post title")
	createPost.Flags().StringVar(&createBody, "body", "", "post body")
	createPost.Flags().Int64Var(&createUserID, "user", 0, "author id")
	_ = createPost.MarkFlagRequired("title")
	_ = createPost.MarkFlagRequired("body")
	_ = createPost.MarkFlagRequired("user")

	var updateTitle, updateBody string
	updatePost := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a post's title and body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			raw, err := client().do(http.MethodPut, fmt.Sprintf("/posts/%d/update", id),
				map[string]string{"title": updateTitle, "body": updateBody})
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	updatePost.Flags().StringVar(&updateTitle, "title", "", "new title")
	updatePost.Flags().StringVar(&updateBody, "body", "", "new body")
	_ = updatePost.MarkFlagRequired("title")
	_ = updatePost.MarkFlagRequired("body")

	deletePost := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := client().do(http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}

	postsCmd.AddCommand(listPosts, getPost, createPost, updatePost, deletePost)
}

func init() {
	var authorName, sortBy string
	var userID, postID int64
	listComments := &cobra.Command{
		Use:   "list",
		Short: "List comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if authorName != "" {
				q.Set("authorName", authorName)
			}
			if sortBy != "" {
				q.Set("sortBy", sortBy)
			}
			if cmd.Flags().Changed("user") {
				q.Set("userid", strconv.FormatInt(userID, 10))
			}
			if cmd.Flags().Changed("post") {
				q.Set("postid", strconv.FormatInt(postID, 10))
			}
			raw, err := client().do(http.MethodGet, "/comments?"+q.Encode(), nil)
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	listComments.Flags().StringVar(&authorName, "author", "", "filter by author username substring")
	listComments.Flags().StringVar(&sortBy, "sort-by", "", "sort order: userid_asc, userid_desc, postid_asc, postid_desc")
	listComments.Flags().Int64Var(&userID, "user", 0, "filter by author id")
	listComments.Flags().Int64Var(&postID, "post", 0, "filter by post id")

	getComment := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			raw, err := client().do(http.MethodGet, fmt.Sprintf("/comments/%d", id), nil)
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}

	var createBody string
	var createUserID, createPostID int64
	createComment := &cobra.Command{
		Use:   "create",
		Short: "Create a comment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := client().do(http.MethodPost, "/comments", map[string]interface{}{
				"body":   createBody,
				"postId": createPostID,
				"userId": createUserID,
			})
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	createComment.Flags().StringVar(&createBody, "body", "", "comment body")
	createComment.Flags().Int64Var(&createPostID, "post", 0, "post id")
	createComment.Flags().Int64Var(&createUserID, "user", 0, "author id")
	_ = createComment.MarkFlagRequired("body")
	_ = createComment.MarkFlagRequired("post")
	_ = createComment.MarkFlagRequired("user")

	var updateBody string
	updateComment := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a comment's body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			raw, err := client().do(http.MethodPut, fmt.Sprintf("/comments/%d/update", id),
				map[string]string{"body": updateBody})
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	updateComment.Flags().StringVar(&updateBody, "body", "", "new body")
	_ = updateComment.MarkFlagRequired("body")

	deleteComment := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := client().do(http.MethodDelete, fmt.Sprintf("/comments/%d", id), nil); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}

	commentsCmd.AddCommand(listComments, getComment, createComment, updateComment, deleteComment)
}
