package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"music-go/internal/api/dto"
	"music-go/internal/auth"
	"music-go/internal/model"
	"music-go/internal/repository"
	"music-go/internal/storage"
	"music-go/internal/testutil"
	"music-go/pkg/apperr"

	"gorm.io/gorm"
)

type services struct {
	db        *gorm.DB
	users     *UserService
	tracks    *TrackService
	likes     *LikeService
	comments  *CommentService
	follows   *FollowService
	playlists *PlaylistService
	plays     *PlayHistoryService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testutil.NewDB(t)

	userRepo := repository.NewUserRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	tagRepo := repository.NewTagRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	playRepo := repository.NewPlayHistoryRepository(db)
	txm := repository.NewTxManager(db)

	return &services{
		db:        db,
		users:     NewUserService(userRepo, followRepo),
		tracks:    NewTrackService(trackRepo, tagRepo, likeRepo, commentRepo, playRepo, playlistRepo, txm),
		likes:     NewLikeService(likeRepo, trackRepo, tagRepo, commentRepo, playRepo, txm),
		comments:  NewCommentService(commentRepo, trackRepo),
		follows:   NewFollowService(followRepo, userRepo, txm),
		playlists: NewPlaylistService(playlistRepo, trackRepo, userRepo, tagRepo, likeRepo, commentRepo, playRepo, txm),
		plays:     NewPlayHistoryService(playRepo, trackRepo, tagRepo, likeRepo, commentRepo),
	}
}

func (s *services) user(t *testing.T, externalID string) *model.UserProfile {
	t.Helper()
	p, err := s.users.EnsureProfile(&auth.Identity{ExternalID: externalID, DisplayName: externalID})
	if err != nil {
		t.Fatalf("EnsureProfile(%s): %v", externalID, err)
	}
	return p
}

func (s *services) track(t *testing.T, ownerID int64, title string, tags ...string) *dto.TrackInfo {
	t.Helper()
	info, err := s.tracks.Create(ownerID, &NewTrack{
		Title:      title,
		ArtistName: "artist",
		FileURL:    "/uploads/tracks/" + title + ".mp3",
		Status:     model.TrackStatusReady,
		Tags:       tags,
	})
	if err != nil {
		t.Fatalf("create track %s: %v", title, err)
	}
	return info
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if !apperr.IsKind(err, kind) {
		t.Fatalf("expected kind %v, got %v", kind, err)
	}
}

func TestEnsureProfileCreatesOnce(t *testing.T) {
	s := newServices(t)
	id := &auth.Identity{ExternalID: "auth0|abc", Email: "dj@example.com"}

	first, err := s.users.EnsureProfile(id)
	if err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if first.Nickname != "dj" {
		t.Fatalf("nickname should come from email, got %q", first.Nickname)
	}
	second, err := s.users.EnsureProfile(id)
	if err != nil {
		t.Fatalf("EnsureProfile again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("profile should be reused, got %d and %d", first.ID, second.ID)
	}
}

func TestEnsureProfileRejectsInactive(t *testing.T) {
	s := newServices(t)
	p := s.user(t, "ext-off")
	if err := s.db.Model(&model.UserProfile{}).Where("id = ?", p.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err := s.users.EnsureProfile(&auth.Identity{ExternalID: "ext-off"})
	if !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
	requireKind(t, err, apperr.KindAuthentication)
}

func TestCreateProfileDuplicate(t *testing.T) {
	s := newServices(t)
	s.user(t, "ext-1")

	_, err := s.users.CreateProfile(&dto.UserProfileCreateRequest{UserID: "ext-1", Nickname: "again"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	s := newServices(t)
	u1 := s.user(t, "u1")
	u2 := s.user(t, "u2")
	tr := s.track(t, u1.ID, "song")

	res, err := s.likes.Toggle(u1.ID, tr.ID)
	if err != nil || !res.IsLiked || res.LikeCount != 1 {
		t.Fatalf("first toggle: %+v %v", res, err)
	}
	res, err = s.likes.Toggle(u2.ID, tr.ID)
	if err != nil || !res.IsLiked || res.LikeCount != 2 {
		t.Fatalf("second user toggle: %+v %v", res, err)
	}
	res, err = s.likes.Toggle(u1.ID, tr.ID)
	if err != nil || res.IsLiked || res.LikeCount != 1 {
		t.Fatalf("toggle back: %+v %v", res, err)
	}

	info, err := s.tracks.Get(tr.ID, u2.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if info.LikeCount != 1 || !info.IsLiked {
		t.Fatalf("track view should reflect likes, got count=%d liked=%v", info.LikeCount, info.IsLiked)
	}
}

func TestLikeAddRemoveErrors(t *testing.T) {
	s := newServices(t)
	u := s.user(t, "u1")
	tr := s.track(t, u.ID, "song")

	if _, err := s.likes.Add(u.ID, tr.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, err := s.likes.Add(u.ID, tr.ID)
	requireKind(t, err, apperr.KindDuplicate)

	if _, err := s.likes.Remove(u.ID, tr.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	_, err = s.likes.Remove(u.ID, tr.ID)
	if !errors.Is(err, ErrNotLiked) {
		t.Fatalf("expected ErrNotLiked, got %v", err)
	}

	_, err = s.likes.Toggle(u.ID, 9999)
	if !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("toggle on missing track should be not found, got %v", err)
	}
}

func TestFollowRules(t *testing.T) {
	s := newServices(t)
	a := s.user(t, "a")
	b := s.user(t, "b")

	_, err := s.follows.Follow(a.ID, a.ID)
	requireKind(t, err, apperr.KindValidation)

	res, err := s.follows.Follow(a.ID, b.ID)
	if err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if !res.IsFollowing || res.FollowerCount != 1 {
		t.Fatalf("unexpected follow result %+v", res)
	}

	_, err = s.follows.Follow(a.ID, b.ID)
	requireKind(t, err, apperr.KindDuplicate)

	_, err = s.follows.Follow(a.ID, 9999)
	requireKind(t, err, apperr.KindNotFound)

	st, err := s.follows.Status(b.ID, a.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.IsFollowing || !st.IsFollowedBy {
		t.Fatalf("b should be followed by a, got %+v", st)
	}

	list, err := s.follows.Followers(b.ID, 0, 50)
	if err != nil || list.Total != 1 || len(list.Users) != 1 || list.Users[0].ID != a.ID {
		t.Fatalf("followers: %+v %v", list, err)
	}

	if _, err := s.follows.Unfollow(a.ID, b.ID); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	_, err = s.follows.Unfollow(a.ID, b.ID)
	if !errors.Is(err, ErrNotFollowed) {
		t.Fatalf("expected ErrNotFollowed, got %v", err)
	}
}

func TestCommentAuthorOnly(t *testing.T) {
	s := newServices(t)
	author := s.user(t, "author")
	other := s.user(t, "other")
	tr := s.track(t, author.ID, "song")

	c, err := s.comments.Create(author.ID, &dto.CommentCreateRequest{TrackID: tr.ID, Content: "  nice  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Content != "nice" || c.User == nil || c.User.ID != author.ID {
		t.Fatalf("unexpected comment %+v", c)
	}

	_, err = s.comments.Update(c.ID, other.ID, &dto.CommentUpdateRequest{Content: "hijack"})
	requireKind(t, err, apperr.KindAuthorization)
	err = s.comments.Delete(c.ID, other.ID)
	requireKind(t, err, apperr.KindAuthorization)

	err = s.comments.Delete(9999, other.ID)
	requireKind(t, err, apperr.KindNotFound)

	updated, err := s.comments.Update(c.ID, author.ID, &dto.CommentUpdateRequest{Content: "edited"})
	if err != nil || updated.Content != "edited" {
		t.Fatalf("author update: %+v %v", updated, err)
	}
	if err := s.comments.Delete(c.ID, author.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}

	_, err = s.comments.Create(author.ID, &dto.CommentCreateRequest{TrackID: 9999, Content: "x"})
	if !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("comment on missing track: %v", err)
	}
}

func TestBlankTextRejectedAfterTrim(t *testing.T) {
	s := newServices(t)
	u := s.user(t, "writer")
	tr := s.track(t, u.ID, "song")
	blank := "   "

	_, err := s.comments.Create(u.ID, &dto.CommentCreateRequest{TrackID: tr.ID, Content: blank})
	if !errors.Is(err, ErrBlankField) {
		t.Fatalf("blank comment: %v", err)
	}
	c, err := s.comments.Create(u.ID, &dto.CommentCreateRequest{TrackID: tr.ID, Content: "ok"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = s.comments.Update(c.ID, u.ID, &dto.CommentUpdateRequest{Content: "\t"})
	requireKind(t, err, apperr.KindValidation)

	_, err = s.tracks.Update(tr.ID, u.ID, &dto.TrackUpdateRequest{Title: &blank})
	requireKind(t, err, apperr.KindValidation)
	got, _ := s.tracks.Get(tr.ID, u.ID)
	if got.Title != "song" {
		t.Fatalf("title changed to %q", got.Title)
	}

	_, err = s.playlists.Create(u.ID, &dto.PlaylistCreateRequest{Name: blank})
	requireKind(t, err, apperr.KindValidation)
	p, err := s.playlists.Create(u.ID, &dto.PlaylistCreateRequest{Name: " mix "})
	if err != nil || p.Name != "mix" {
		t.Fatalf("playlist create: %+v %v", p, err)
	}
	_, err = s.playlists.Update(p.ID, u.ID, &dto.PlaylistUpdateRequest{Name: &blank})
	requireKind(t, err, apperr.KindValidation)

	_, err = s.users.UpdateProfile(u.ID, &dto.UserProfileUpdateRequest{Nickname: &blank})
	requireKind(t, err, apperr.KindValidation)
	_, err = s.users.CreateProfile(&dto.UserProfileCreateRequest{UserID: "fresh", Nickname: blank})
	requireKind(t, err, apperr.KindValidation)

	e, _ := apperr.As(err)
	if e.Details["field"] != "nickname" {
		t.Fatalf("details should name the field: %v", e.Details)
	}
}

func TestPrivatePlaylistVisibility(t *testing.T) {
	s := newServices(t)
	owner := s.user(t, "owner")
	stranger := s.user(t, "stranger")
	a := s.track(t, owner.ID, "a")
	b := s.track(t, owner.ID, "b")

	private := false
	p, err := s.playlists.Create(owner.ID, &dto.PlaylistCreateRequest{Name: "secret", IsPublic: &private})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.IsPublic {
		t.Fatalf("playlist should stay private")
	}

	for _, id := range []int64{b.ID, a.ID} {
		if _, err := s.playlists.AddTrack(p.ID, owner.ID, id); err != nil {
			t.Fatalf("AddTrack(%d): %v", id, err)
		}
	}

	_, err = s.playlists.Get(p.ID, 0)
	requireKind(t, err, apperr.KindAuthorization)
	_, err = s.playlists.Get(p.ID, stranger.ID)
	requireKind(t, err, apperr.KindAuthorization)

	got, err := s.playlists.Get(p.ID, owner.ID)
	if err != nil {
		t.Fatalf("owner Get: %v", err)
	}
	if len(got.Tracks) != 2 || got.Tracks[0].Track.ID != b.ID || got.Tracks[1].Track.ID != a.ID {
		t.Fatalf("tracks should be in insertion order, got %+v", got.Tracks)
	}
	if got.Tracks[0].TrackOrder != 0 || got.Tracks[1].TrackOrder != 1 {
		t.Fatalf("orders should start at 0, got %d,%d", got.Tracks[0].TrackOrder, got.Tracks[1].TrackOrder)
	}

	list, err := s.playlists.ListByUser(owner.ID, stranger.ID, 0, 50)
	if err != nil || list.Total != 0 {
		t.Fatalf("stranger should see no playlists: %+v %v", list, err)
	}
	list, err = s.playlists.ListByUser(owner.ID, owner.ID, 0, 50)
	if err != nil || list.Total != 1 || list.Playlists[0].TrackCount != 2 {
		t.Fatalf("owner listing: %+v %v", list, err)
	}

	_, err = s.playlists.AddTrack(p.ID, stranger.ID, a.ID)
	requireKind(t, err, apperr.KindAuthorization)
}

func TestPlaylistConcurrentAddSameTrack(t *testing.T) {
	s := newServices(t)
	owner := s.user(t, "owner")
	tr := s.track(t, owner.ID, "song")
	p, err := s.playlists.Create(owner.ID, &dto.PlaylistCreateRequest{Name: "mix"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.playlists.AddTrack(p.ID, owner.ID, tr.ID)
		}(i)
	}
	wg.Wait()

	success, dup := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrTrackAlreadyInList):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 || dup != 1 {
		t.Fatalf("expected one success and one duplicate, got %d/%d", success, dup)
	}
}

func TestPlaylistReorderAndRemove(t *testing.T) {
	s := newServices(t)
	owner := s.user(t, "owner")
	a := s.track(t, owner.ID, "a")
	b := s.track(t, owner.ID, "b")
	p, err := s.playlists.Create(owner.ID, &dto.PlaylistCreateRequest{Name: "mix"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, _ = s.playlists.AddTrack(p.ID, owner.ID, a.ID)
	_, _ = s.playlists.AddTrack(p.ID, owner.ID, b.ID)

	order := 5
	if _, err := s.playlists.Reorder(p.ID, owner.ID, &dto.PlaylistReorderRequest{TrackID: a.ID, NewOrder: &order}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	got, err := s.playlists.Get(p.ID, owner.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Tracks[0].Track.ID != b.ID || got.Tracks[1].TrackOrder != 5 {
		t.Fatalf("reorder should move a to the end, got %+v", got.Tracks)
	}

	if _, err := s.playlists.RemoveTrack(p.ID, owner.ID, b.ID); err != nil {
		t.Fatalf("RemoveTrack: %v", err)
	}
	_, err = s.playlists.RemoveTrack(p.ID, owner.ID, b.ID)
	if !errors.Is(err, ErrTrackNotInList) {
		t.Fatalf("expected ErrTrackNotInList, got %v", err)
	}

	if err := s.playlists.Delete(p.ID, owner.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = s.playlists.Get(p.ID, owner.ID)
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("deleted playlist should be gone, got %v", err)
	}
}

func TestRecentlyPlayedDeduplicates(t *testing.T) {
	s := newServices(t)
	u := s.user(t, "listener")
	a := s.track(t, u.ID, "a")
	b := s.track(t, u.ID, "b")
	c := s.track(t, u.ID, "c")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	s.plays.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}
	for _, id := range []int64{a.ID, b.ID, a.ID, c.ID} {
		if _, err := s.plays.Record(u.ID, id); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	recent, err := s.plays.RecentlyPlayed(u.ID, 0)
	if err != nil {
		t.Fatalf("RecentlyPlayed: %v", err)
	}
	want := []int64{c.ID, a.ID, b.ID}
	if len(recent.Tracks) != len(want) {
		t.Fatalf("expected %d tracks, got %d", len(want), len(recent.Tracks))
	}
	for i, id := range want {
		if recent.Tracks[i].ID != id {
			t.Fatalf("position %d: want %d got %d", i, id, recent.Tracks[i].ID)
		}
	}

	history, err := s.plays.History(u.ID, 0, 50)
	if err != nil || history.Total != 4 {
		t.Fatalf("history should keep duplicates: %+v %v", history, err)
	}
	count, err := s.plays.PlayCount(a.ID)
	if err != nil || count.PlayCount != 2 {
		t.Fatalf("play count: %+v %v", count, err)
	}
}

func TestTrackSearchAndUpdate(t *testing.T) {
	s := newServices(t)
	owner := s.user(t, "owner")
	other := s.user(t, "other")
	tr := s.track(t, owner.ID, "Midnight City", "Synth", " synth ", "pop")

	if len(tr.Tags) != 2 {
		t.Fatalf("tags should be normalized and deduplicated, got %v", tr.Tags)
	}

	_, err := s.tracks.Search("   ", 0, 50, 0)
	requireKind(t, err, apperr.KindValidation)

	found, err := s.tracks.Search("midnight", 0, 50, 0)
	if err != nil || found.Total != 1 {
		t.Fatalf("search: %+v %v", found, err)
	}

	title := "Renamed"
	_, err = s.tracks.Update(tr.ID, other.ID, &dto.TrackUpdateRequest{Title: &title})
	requireKind(t, err, apperr.KindAuthorization)

	tags := []string{"house"}
	updated, err := s.tracks.Update(tr.ID, owner.ID, &dto.TrackUpdateRequest{Title: &title, Tags: &tags})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Renamed" || len(updated.Tags) != 1 || updated.Tags[0] != "house" {
		t.Fatalf("unexpected update result %+v", updated)
	}
}

func TestTrackDeleteCascades(t *testing.T) {
	s := newServices(t)
	owner := s.user(t, "owner")
	fan := s.user(t, "fan")
	tr := s.track(t, owner.ID, "song", "rock")

	if _, err := s.likes.Add(fan.ID, tr.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := s.comments.Create(fan.ID, &dto.CommentCreateRequest{TrackID: tr.ID, Content: "hi"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := s.plays.Record(fan.ID, tr.ID); err != nil {
		t.Fatalf("play: %v", err)
	}
	p, err := s.playlists.Create(fan.ID, &dto.PlaylistCreateRequest{Name: "fav"})
	if err != nil {
		t.Fatalf("playlist: %v", err)
	}
	if _, err := s.playlists.AddTrack(p.ID, fan.ID, tr.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	err = s.tracks.Delete(tr.ID, fan.ID)
	requireKind(t, err, apperr.KindAuthorization)

	if err := s.tracks.Delete(tr.ID, owner.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, m := range []interface{}{&model.Like{}, &model.Comment{}, &model.PlayHistory{}, &model.PlaylistTrack{}, &model.TrackTag{}} {
		var n int64
		if err := s.db.Model(m).Count(&n).Error; err != nil {
			t.Fatalf("count %T: %v", m, err)
		}
		if n != 0 {
			t.Fatalf("%T rows should be removed, got %d", m, n)
		}
	}
	_, err = s.tracks.Get(tr.ID, 0)
	if !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("deleted track should be gone, got %v", err)
	}
}

type fakeObjectStore struct {
	presigned []string
}

func (f *fakeObjectStore) PresignPut(_ context.Context, key string, _ time.Duration) (string, error) {
	f.presigned = append(f.presigned, key)
	return "https://minio.example.com/music/" + key + "?X-Amz-Signature=abc", nil
}

func (f *fakeObjectStore) ObjectURL(key string) string {
	return "https://cdn.example.com/music/" + key
}

func uploadOptions() UploadOptions {
	return UploadOptions{
		MaxInitiateSize: 100 << 20,
		MaxLocalSize:    1 << 10,
		AllowedTypes:    []string{"audio/mpeg", "audio/wav"},
	}
}

func TestLocalUploadFlow(t *testing.T) {
	s := newServices(t)
	u := s.user(t, "uploader")
	svc := NewUploadService(nil, storage.NewLocalStore(t.TempDir()), s.tracks, uploadOptions())

	_, err := svc.Initiate(context.Background(), u, &dto.UploadInitiateRequest{Filename: "a.mp3", ContentType: "audio/mpeg", FileSize: 200 << 20})
	requireKind(t, err, apperr.KindValidation)
	_, err = svc.Initiate(context.Background(), u, &dto.UploadInitiateRequest{Filename: "a.txt", ContentType: "text/plain", FileSize: 10})
	if !errors.Is(err, ErrUploadType) {
		t.Fatalf("expected ErrUploadType, got %v", err)
	}

	init, err := svc.Initiate(context.Background(), u, &dto.UploadInitiateRequest{Filename: "song.mp3", ContentType: "audio/mpeg; charset=binary", FileSize: 10})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if init.Mode != dto.UploadModeLocal || init.UploadURL != "/api/v1/tracks/upload/"+init.UploadID+"/song.mp3" {
		t.Fatalf("unexpected initiate response %+v", init)
	}

	written, err := svc.WriteLocal(init.UploadID, "song.mp3", strings.NewReader("ID3-audio"))
	if err != nil {
		t.Fatalf("WriteLocal: %v", err)
	}
	if written.Size != int64(len("ID3-audio")) {
		t.Fatalf("size got=%d", written.Size)
	}

	_, err = svc.WriteLocal(init.UploadID, "big.mp3", bytes.NewReader(make([]byte, 2<<10)))
	if !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("expected ErrUploadTooLarge, got %v", err)
	}
	_, err = svc.WriteLocal(init.UploadID, "../escape.mp3", strings.NewReader("x"))
	if !errors.Is(err, ErrUploadFilename) {
		t.Fatalf("expected ErrUploadFilename, got %v", err)
	}

	track, err := svc.Finalize(context.Background(), u, &dto.UploadFinalizeRequest{
		UploadID: init.UploadID,
		Filename: "song.mp3",
		Title:    "First Song",
		Tags:     []string{"demo"},
	})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if track.FileURL != "/uploads/tracks/"+init.UploadID+"/song.mp3" {
		t.Fatalf("file url got=%s", track.FileURL)
	}
	if track.ArtistName != u.Nickname || track.Status != model.TrackStatusReady {
		t.Fatalf("unexpected track %+v", track)
	}
}

func TestRemoteUploadUsesObjectStore(t *testing.T) {
	s := newServices(t)
	u := s.user(t, "auth0|remote")
	remote := &fakeObjectStore{}
	svc := NewUploadService(remote, storage.NewLocalStore(t.TempDir()), s.tracks, uploadOptions())

	init, err := svc.Initiate(context.Background(), u, &dto.UploadInitiateRequest{Filename: "song.wav", ContentType: "audio/wav", FileSize: 10})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	wantKey := "uploads/auth0|remote/" + init.UploadID + "/song.wav"
	if init.Mode != dto.UploadModeRemote || init.ObjectKey != wantKey || init.ExpiresIn != 3600 {
		t.Fatalf("unexpected initiate response %+v", init)
	}
	if len(remote.presigned) != 1 || remote.presigned[0] != wantKey {
		t.Fatalf("presign calls: %v", remote.presigned)
	}

	_, err = svc.WriteLocal(init.UploadID, "song.wav", strings.NewReader("x"))
	if !errors.Is(err, ErrUploadModeRemote) {
		t.Fatalf("local write should be refused in remote mode, got %v", err)
	}

	track, err := svc.Finalize(context.Background(), u, &dto.UploadFinalizeRequest{UploadID: init.UploadID, Filename: "song.wav", Title: "Remote"})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if track.FileURL != "https://cdn.example.com/music/"+wantKey {
		t.Fatalf("file url got=%s", track.FileURL)
	}
}
