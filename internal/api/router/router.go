package router

import (
	"music-go/internal/api/handler"
	"music-go/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers 业务路由依赖的全部 Handler
type Handlers struct {
	User        *handler.UserHandler
	Track       *handler.TrackHandler
	Upload      *handler.UploadHandler
	Like        *handler.LikeHandler
	Comment     *handler.CommentHandler
	Follow      *handler.FollowHandler
	Playlist    *handler.PlaylistHandler
	PlayHistory *handler.PlayHistoryHandler
}

// Setup 注册所有业务路由；uploadLimit 为空时上传接口不限流
func Setup(r *gin.Engine, h *Handlers, authn *middleware.Authenticator, uploadLimit gin.HandlerFunc) {
	v1 := r.Group("/api/v1")

	required := authn.Required()
	optional := authn.Optional()
	if uploadLimit == nil {
		uploadLimit = func(c *gin.Context) { c.Next() }
	}

	// --- 用户模块 ---
	users := v1.Group("/users")
	{
		users.POST("", h.User.Create)
		users.GET("/me", required, h.User.GetMe)
		users.PATCH("/me", required, h.User.UpdateMe)
		users.GET("/me/likes", required, h.Like.MyLikes)
		users.GET("/me/history", required, h.PlayHistory.History)
		users.GET("/me/recently-played", required, h.PlayHistory.RecentlyPlayed)
		users.GET("/:id", h.User.GetUser)
		users.GET("/:id/tracks", optional, h.Track.ListByUser)
	}

	// --- 音轨模块 ---
	tracks := v1.Group("/tracks")
	{
		tracks.GET("", optional, h.Track.List)
		tracks.GET("/search", optional, h.Track.Search)
		tracks.GET("/:id", optional, h.Track.Get)
		tracks.GET("/:id/stream", optional, h.Track.Stream)
		tracks.GET("/:id/play-count", h.PlayHistory.PlayCount)

		tracks.PATCH("/:id", required, h.Track.Update)
		tracks.DELETE("/:id", required, h.Track.Delete)
		tracks.POST("/:id/likes", required, h.Like.Add)
		tracks.DELETE("/:id/likes", required, h.Like.Remove)
		tracks.POST("/:id/play", required, h.PlayHistory.Record)

		// 上传
		tracks.POST("/upload/initiate", uploadLimit, required, h.Upload.Initiate)
		tracks.POST("/upload/finalize", required, h.Upload.Finalize)
		tracks.POST("/upload/local", uploadLimit, required, h.Upload.UploadLocal)
		tracks.PUT("/upload/:upload_id/:filename", uploadLimit, required, h.Upload.WriteLocal)
	}

	// --- 点赞模块 ---
	likes := v1.Group("/likes")
	{
		likes.POST("", required, h.Like.Toggle)
		likes.GET("/track/:track_id", h.Like.ListByTrack)
	}

	// --- 评论模块 ---
	comments := v1.Group("/comments")
	{
		comments.POST("", required, h.Comment.Create)
		comments.GET("/tracks/:track_id/comments", h.Comment.ListByTrack)
		comments.GET("/:id", h.Comment.Get)
		comments.PATCH("/:id", required, h.Comment.Update)
		comments.DELETE("/:id", required, h.Comment.Delete)
	}

	// --- 关注模块 ---
	follows := v1.Group("/follows/users/:id")
	{
		follows.POST("/follow", required, h.Follow.Follow)
		follows.DELETE("/follow", required, h.Follow.Unfollow)
		follows.GET("/followers", h.Follow.Followers)
		follows.GET("/following", h.Follow.Following)
		follows.GET("/follow-status", required, h.Follow.Status)
	}

	// --- 歌单模块 ---
	playlists := v1.Group("/playlists")
	{
		playlists.POST("", required, h.Playlist.Create)
		playlists.GET("/users/:user_id/playlists", optional, h.Playlist.ListByUser)
		playlists.GET("/:id", optional, h.Playlist.Get)
		playlists.PATCH("/:id", required, h.Playlist.Update)
		playlists.DELETE("/:id", required, h.Playlist.Delete)
		playlists.POST("/:id/tracks", required, h.Playlist.AddTrack)
		playlists.DELETE("/:id/tracks/:track_id", required, h.Playlist.RemoveTrack)
		playlists.PATCH("/:id/tracks/reorder", required, h.Playlist.Reorder)
	}
}
