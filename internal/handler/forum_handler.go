package handlers

import (
	"context"
	"errors"
	"net/http"

	"todoforum/internal/service"
)

func (h *Handlers) Forum(w http.ResponseWriter, r *http.Request) {
	posts, err := h.ForumService.Feed(r.Context(), identity(r).UserID)
	if err != nil {
		h.serverError(w, r, "failed to load forum", err)
		return
	}
	h.render(w, r, http.StatusOK, "forum.html", page{Posts: posts})
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	if _, err := h.ForumService.CreatePost(r.Context(), identity(r).UserID, r.PostFormValue("content")); err != nil {
		h.serverError(w, r, "failed to create post", err)
		return
	}
	http.Redirect(w, r, "/forum", http.StatusFound)
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	if postID, ok := pathID(r, "post_id"); ok {
		if _, err := h.ForumService.CreateComment(r.Context(), postID, identity(r).UserID, r.PostFormValue("content")); err != nil {
			h.serverError(w, r, "failed to create comment", err)
			return
		}
	}
	http.Redirect(w, r, "/forum", http.StatusFound)
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, h.ForumService.ToggleLike)
}

func (h *Handlers) ToggleComplaint(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, h.ForumService.ToggleComplaint)
}

func (h *Handlers) toggleReaction(w http.ResponseWriter, r *http.Request, toggle func(ctx context.Context, postID, userID int64) (bool, error)) {
	if postID, ok := pathID(r, "post_id"); ok {
		if _, err := toggle(r.Context(), postID, identity(r).UserID); err != nil {
			h.serverError(w, r, "failed to toggle reaction", err)
			return
		}
	}
	http.Redirect(w, r, "/forum", http.StatusFound)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	if postID, ok := pathID(r, "post_id"); ok {
		err := h.ForumService.DeletePost(r.Context(), identity(r), postID)
		if err != nil && !errors.Is(err, service.ErrForbidden) {
			h.serverError(w, r, "failed to delete post", err)
			return
		}
	}
	http.Redirect(w, r, "/forum", http.StatusFound)
}

func (h *Handlers) APIPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.ForumService.Feed(r.Context(), identity(r).UserID)
	if err != nil {
		h.apiError(w, r, "failed to load forum", err)
		return
	}
	writeSuccess(w, map[string]interface{}{"posts": posts}, http.StatusOK)
}
