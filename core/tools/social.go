package tools

import (
	"encoding/json"
	"fmt"
)

type createPostArgs struct {
	Text string `json:"text" jsonschema:"description=Text of the post to publish"`
}

type deletePostArgs struct {
	PostID string `json:"post_id" jsonschema:"description=Identifier of the post to delete"`
}

type replyToPostArgs struct {
	PostID string `json:"post_id" jsonschema:"description=Identifier of the post to reply to"`
	Text   string `json:"text" jsonschema:"description=Text of the reply"`
}

type repostArgs struct {
	PostID string `json:"post_id" jsonschema:"description=Identifier of the post to repost"`
}

type likePostArgs struct {
	PostID string `json:"post_id" jsonschema:"description=Identifier of the post to like"`
}

type followUserArgs struct {
	Username string `json:"username" jsonschema:"description=Handle of the user to follow"`
}

type unfollowUserArgs struct {
	Username string `json:"username" jsonschema:"description=Handle of the user to unfollow"`
}

type sendDirectMessageArgs struct {
	Username string `json:"username" jsonschema:"description=Handle of the recipient"`
	Text     string `json:"text" jsonschema:"description=Text of the direct message"`
}

type bookmarkArgs struct {
	PostID string `json:"post_id" jsonschema:"description=Identifier of the post"`
}

type searchPostsArgs struct {
	Query string `json:"query" jsonschema:"description=Search query"`
}

type getTimelineArgs struct {
	Count int `json:"count,omitempty" jsonschema:"description=Maximum number of posts to return"`
}

type getPostArgs struct {
	PostID string `json:"post_id" jsonschema:"description=Identifier of the post to fetch"`
}

type getUserArgs struct {
	Username string `json:"username" jsonschema:"description=Handle of the user to look up"`
}

// DefaultSocialActions is the action table for a social media account:
// read-only queries auto-execute, state-mutating actions are gated behind
// user confirmation with a preview.
func DefaultSocialActions() []Spec {
	return []Spec{
		{
			Name:        "search_posts",
			Description: "Search recent posts",
			Parameters:  searchPostsArgs{},
			Mode:        AutoExecute,
		},
		{
			Name:        "get_timeline",
			Description: "Fetch the user's home timeline",
			Parameters:  getTimelineArgs{},
			Mode:        AutoExecute,
		},
		{
			Name:        "get_post",
			Description: "Fetch a single post by id",
			Parameters:  getPostArgs{},
			Mode:        AutoExecute,
		},
		{
			Name:        "get_user",
			Description: "Look up a user profile",
			Parameters:  getUserArgs{},
			Mode:        AutoExecute,
		},
		{
			Name:        "get_mentions",
			Description: "Fetch recent mentions of the user",
			Mode:        AutoExecute,
		},
		{
			Name:        "list_bookmarks",
			Description: "List the user's bookmarked posts",
			Mode:        AutoExecute,
		},
		{
			Name:        "create_post",
			Description: "Publish a new post on the user's account",
			Parameters:  createPostArgs{},
			Mode:        RequiresConfirmation,
			Preview:     previewTemplate("Post: %q", "text"),
		},
		{
			Name:        "delete_post",
			Description: "Delete one of the user's posts",
			Parameters:  deletePostArgs{},
			Mode:        RequiresConfirmation,
			Preview:     previewTemplate("Delete post %s", "post_id"),
		},
		{
			Name:        "reply_to_post",
			Description: "Reply to a post on the user's behalf",
			Parameters:  replyToPostArgs{},
			Mode:        RequiresConfirmation,
			Preview:     previewTemplate("Reply: %q", "text"),
		},
		{
			Name:        "repost",
			Description: "Repost a post to the user's followers",
			Parameters:  repostArgs{},
			Mode:        RequiresConfirmation,
			Preview:     previewTemplate("Repost %s", "post_id"),
		},
		{
			Name:        "like_post",
			Description: "Like a post",
			Parameters:  likePostArgs{},
			Mode:        RequiresConfirmation,
			Preview:     previewTemplate("Like post %s", "post_id"),
		},
		{
			Name:        "follow_user",
			Description: "Follow a user",
			Parameters:  followUserArgs{},
			Mode:        RequiresConfirmation,
			Preview:     previewTemplate("Follow @%s", "username"),
		},
		{
			Name:        "unfollow_user",
			Description: "Unfollow a user",
			Parameters:  unfollowUserArgs{},
			Mode:        RequiresConfirmation,
			Preview:     previewTemplate("Unfollow @%s", "username"),
		},
		{
			Name:        "send_direct_message",
			Description: "Send a direct message on the user's behalf",
			Parameters:  sendDirectMessageArgs{},
			Mode:        RequiresConfirmation,
			Preview:     previewDirectMessage,
		},
		{
			Name:        "add_bookmark",
			Description: "Bookmark a post",
			Parameters:  bookmarkArgs{},
			Mode:        RequiresConfirmation,
			Preview:     previewTemplate("Bookmark post %s", "post_id"),
		},
		{
			Name:        "remove_bookmark",
			Description: "Remove a post from bookmarks",
			Parameters:  bookmarkArgs{},
			Mode:        RequiresConfirmation,
			Preview:     previewTemplate("Remove bookmark for post %s", "post_id"),
		},
	}
}

// previewTemplate formats a single argument field into the template. Falls
// back to the raw arguments when they fail to parse.
func previewTemplate(format, field string) func(string) string {
	return func(arguments string) string {
		value, ok := argumentField(arguments, field)
		if !ok {
			return fmt.Sprintf(format, arguments)
		}
		return fmt.Sprintf(format, value)
	}
}

func previewDirectMessage(arguments string) string {
	username, _ := argumentField(arguments, "username")
	text, _ := argumentField(arguments, "text")
	return fmt.Sprintf("Message @%s: %q", username, text)
}

func argumentField(arguments, field string) (string, bool) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(arguments), &parsed); err != nil {
		return "", false
	}

	value, ok := parsed[field]
	if !ok {
		return "", false
	}

	switch typed := value.(type) {
	case string:
		return typed, true
	default:
		return fmt.Sprintf("%v", typed), true
	}
}
