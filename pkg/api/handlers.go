package api

import (
	"fmt"
	"net/http"

	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/forum"
	"github.com/studhub/forum/pkg/model"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input model.Login
	if err := decodeJSON(r, &input); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	result, err := s.svc.Auth.Login(r.Context(), input)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var input model.CreateUser
	if err := decodeJSON(r, &input); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	user, err := s.svc.Users.Create(r.Context(), input)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/users/%d", user.ID))
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	filter := forum.UserFilter{
		StartsWith: r.URL.Query().Get("startsWith"),
		SortBy:     r.URL.Query().Get("sortBy"),
	}

	users, err := s.svc.Users.List(r.Context(), filter)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	user, err := s.svc.Users.GetSingle(r.Context(), id)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	var input model.UpdateUser
	if err := decodeJSON(r, &input); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	user, err := s.svc.Users.Update(r.Context(), id, input)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	if err := s.svc.Users.Delete(r.Context(), id); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var input model.CreatePost
	if err := decodeJSON(r, &input); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	post, err := s.svc.Posts.Create(r.Context(), input)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/posts/%d", post.ID))
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "userid")
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	filter := forum.PostFilter{
		Title:      r.URL.Query().Get("title"),
		UserID:     userID,
		AuthorName: r.URL.Query().Get("authorName"),
	}

	posts, err := s.svc.Posts.List(r.Context(), filter)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	if r.URL.Query().Get("include") == "comments" {
		view, err := s.svc.Posts.GetWithComments(r.Context(), id)
		if err != nil {
			errors.WriteHTTPError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}

	post, err := s.svc.Posts.GetSingle(r.Context(), id)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	var input model.UpdatePost
	if err := decodeJSON(r, &input); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	post, err := s.svc.Posts.Update(r.Context(), id, input)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	if err := s.svc.Posts.Delete(r.Context(), id); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var input model.CreateComment
	if err := decodeJSON(r, &input); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	comment, err := s.svc.Comments.Create(r.Context(), input)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/comments/%d", comment.ID))
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "userid")
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	postID, err := queryInt64(r, "postid")
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	filter := forum.CommentFilter{
		UserID:     userID,
		PostID:     postID,
		AuthorName: r.URL.Query().Get("authorName"),
		SortBy:     r.URL.Query().Get("sortBy"),
	}

	comments, err := s.svc.Comments.List(r.Context(), filter)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	comment, err := s.svc.Comments.GetSingle(r.Context(), id)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	var input model.UpdateComment
	if err := decodeJSON(r, &input); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	comment, err := s.svc.Comments.Update(r.Context(), id, input)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	if err := s.svc.Comments.Delete(r.Context(), id); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
