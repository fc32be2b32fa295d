package service

import "music-go/pkg/apperr"

var (
	ErrUserNotFound      = apperr.NotFound("用户不存在")
	ErrUserExists        = apperr.Duplicate("该身份已创建过用户资料")
	ErrUserInactive      = apperr.Unauthorized("用户已被停用")
	ErrTrackNotFound     = apperr.NotFound("音轨不存在")
	ErrTrackNoPermission = apperr.Forbidden("没有权限操作该音轨")
	ErrEmptySearchQuery  = apperr.Validation("搜索关键词不能为空")
	ErrBlankField        = apperr.Validation("内容不能为空")

	ErrAlreadyLiked = apperr.Duplicate("您已经点赞过该音轨了")
	ErrNotLiked     = apperr.NotFound("您尚未点赞该音轨")

	ErrCommentNotFound     = apperr.NotFound("评论不存在")
	ErrCommentNoPermission = apperr.Forbidden("没有权限操作该评论")

	ErrCannotFollowSelf = apperr.Validation("不能关注自己")
	ErrAlreadyFollowed  = apperr.Duplicate("您已经关注过该用户了")
	ErrNotFollowed      = apperr.NotFound("您尚未关注该用户")

	ErrPlaylistNotFound     = apperr.NotFound("歌单不存在")
	ErrPlaylistNoPermission = apperr.Forbidden("没有权限操作该歌单")
	ErrPlaylistPrivate      = apperr.Forbidden("该歌单未公开")
	ErrTrackAlreadyInList   = apperr.Duplicate("该音轨已在歌单中")
	ErrTrackNotInList       = apperr.NotFound("歌单中没有该音轨")

	ErrUploadTooLarge   = apperr.Validation("文件过大")
	ErrUploadType       = apperr.Validation("不支持的文件类型")
	ErrUploadFilename   = apperr.Validation("文件名无效")
	ErrUploadModeRemote = apperr.Validation("当前使用对象存储直传，不支持写入本地")
	ErrUploadIDInvalid  = apperr.Validation("upload_id 无效")
)
