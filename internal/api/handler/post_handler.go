package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flocknet/social-api/internal/core/ports"
)

// PostHandler handles the post, comment, like, and feed endpoints. All of
// them sit behind the session gate; identity comes from ctxUser only.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /api/posts/create.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      createPostRequest  true  "Post content"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  envelope
// @Router       /api/posts/create [post]
func (h *PostHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	post, err := h.service.CreatePost(c.Request().Context(), user, ports.CreatePostInput{
		Text:             req.Text,
		Media:            req.Media,
		MediaContentType: req.MediaContentType,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postResponse{
		envelope: envelope{Success: true, Message: "post created"},
		Post:     post,
	})
}

// Delete handles DELETE /api/posts/:id.
//
// @Summary      Delete an owned post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  envelope
// @Failure      400  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePost(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "post deleted"})
}

// Comment handles POST /api/posts/comment/:id.
func (h *PostHandler) Comment(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.service.CommentPost(c.Request().Context(), user, c.Param("id"), req.Text); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "comment added"})
}

// Like handles POST /api/posts/like/:id, a toggle whose two effects are
// exact inverses.
func (h *PostHandler) Like(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	result, err := h.service.LikeUnlikePost(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}

	msg := "post liked"
	if !result.Liked {
		msg = "post unliked"
	}
	return c.JSON(http.StatusOK, likeResponse{
		envelope: envelope{Success: true, Message: msg},
		Liked:    result.Liked,
	})
}

// All handles GET /api/posts/all.
func (h *PostHandler) All(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}

	posts, err := h.service.GetAllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{
		envelope: envelope{Success: true, Message: "posts fetched"},
		Posts:    posts,
	})
}

// Following handles GET /api/posts/following.
func (h *PostHandler) Following(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	posts, err := h.service.GetFollowingPosts(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{
		envelope: envelope{Success: true, Message: "following posts fetched"},
		Posts:    posts,
	})
}

// Liked handles GET /api/posts/liked.
func (h *PostHandler) Liked(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	posts, err := h.service.GetLikedPosts(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{
		envelope: envelope{Success: true, Message: "liked posts fetched"},
		Posts:    posts,
	})
}

// ByUser handles GET /api/posts/user/:handle.
func (h *PostHandler) ByUser(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}

	posts, err := h.service.GetUserPosts(c.Request().Context(), c.Param("handle"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{
		envelope: envelope{Success: true, Message: "user posts fetched"},
		Posts:    posts,
	})
}
