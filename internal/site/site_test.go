package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spatail/vbdplayer/internal/config"
	"github.com/spatail/vbdplayer/pkg/types"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}

const letterPage = `<html><body>
<a href="../index.html">Home</a>
<a href="albums/ancient.html">Ancient
   Rites</a>
<a href="http://other.example/abyss.html"><b>Abyss</b></a>
<a href="albums/ancient.html">Ancient Rites</a>
<a href="aa/index.html">Back</a>
</body></html>`

const albumPage = `<html><body>
<img src="/img/logo.gif">
<img src="/covers/ancient.png">
<img src="/covers/other.png">
<a href="tracks/one.ram">One</a>
<a href="tracks/one.mp3">One (mp3)</a>
<a href="/tracks/two.ram"> Two </a>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/test/aa.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, letterPage)
	})
	mux.HandleFunc("/test/albums/ancient.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, albumPage)
	})
	mux.HandleFunc("/test/albums/bare.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><img src="/img/logo.gif"><a href="x.ram">X</a></body></html>`)
	})
	mux.HandleFunc("/test/albums/broken.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><img src="/covers/broken.png"></body></html>`)
	})
	mux.HandleFunc("/covers/ancient.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes)
	})
	mux.HandleFunc("/covers/broken.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("not really an image"))
	})
	mux.HandleFunc("/test/albums/tracks/one.ram", func(w http.ResponseWriter, r *http.Request) {
		if r.UserAgent() != "VBDPlayer/1.0" {
			http.Error(w, "unexpected user agent", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "\n  \n# comment\nhttp://media.example/one.mp3\nhttp://media.example/ignored.mp3\n")
	})
	mux.HandleFunc("/tracks/relative.ram", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "streams/relative.mp3\n")
	})
	mux.HandleFunc("/tracks/empty.ram", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "\n\n")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.Site.BaseURL = srv.URL + "/test/"
	cfg.Site.RateLimit.RequestsPerSecond = 1000
	cfg.Site.RateLimit.BurstSize = 100
	return NewClient(cfg)
}

func TestPageForLetter(t *testing.T) {
	require.Equal(t, "aa.html", PageForLetter("a"))
	require.Equal(t, "qq.html", PageForLetter("Q"))
}

func TestAlbums(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv)

	albums, err := c.Albums(context.Background(), "aa.html")
	require.NoError(t, err)
	require.Equal(t, []types.MediaItem{
		{DisplayName: "Ancient Rites", ResourceURL: srv.URL + "/test/albums/ancient.html"},
		{DisplayName: "Abyss", ResourceURL: "http://other.example/abyss.html"},
		{DisplayName: "Ancient Rites", ResourceURL: srv.URL + "/test/albums/ancient.html"},
	}, albums)
}

func TestAlbumsNotFound(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv)

	_, err := c.Albums(context.Background(), "zz.html")
	require.Error(t, err)

	var fe *types.FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "albums", fe.Op)
	require.Equal(t, "zz.html", fe.Key)

	requests, failures := c.Stats()
	require.Equal(t, int64(1), requests)
	require.Equal(t, int64(1), failures)
}

func TestSongs(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv)

	songs, err := c.Songs(context.Background(), srv.URL+"/test/albums/ancient.html")
	require.NoError(t, err)
	require.Equal(t, []types.MediaItem{
		{DisplayName: "One", ResourceURL: srv.URL + "/test/albums/tracks/one.ram"},
		{DisplayName: "Two", ResourceURL: srv.URL + "/tracks/two.ram"},
	}, songs)
}

func TestCover(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv)

	img, err := c.Cover(context.Background(), srv.URL+"/test/albums/ancient.html")
	require.NoError(t, err)
	require.Equal(t, "ancient.png", img.Name)
	require.Equal(t, pngBytes, img.Data)
}

func TestCoverMissing(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv)

	_, err := c.Cover(context.Background(), srv.URL+"/test/albums/bare.html")
	require.ErrorIs(t, err, types.ErrNoCover)
}

func TestCoverRejectsInvalidImage(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv)

	_, err := c.Cover(context.Background(), srv.URL+"/test/albums/broken.html")
	require.ErrorIs(t, err, ErrInvalidImage)
	require.NotErrorIs(t, err, types.ErrNoCover)
}

func TestResolveStream(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv)
	ctx := context.Background()

	stream, err := c.ResolveStream(ctx, srv.URL+"/test/albums/tracks/one.ram")
	require.NoError(t, err)
	require.Equal(t, "http://media.example/one.mp3", stream)

	stream, err = c.ResolveStream(ctx, srv.URL+"/tracks/relative.ram")
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/tracks/streams/relative.mp3", stream)

	_, err = c.ResolveStream(ctx, srv.URL+"/tracks/empty.ram")
	require.ErrorIs(t, err, ErrEmptyPointer)
}

func TestFetchHonorsCancelledContext(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Songs(ctx, srv.URL+"/test/albums/ancient.html")
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsImageData(t *testing.T) {
	require.True(t, IsImageData(pngBytes))
	require.True(t, IsImageData([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0}))
	require.False(t, IsImageData([]byte{0x89, 0x50}))
	require.False(t, IsImageData([]byte("<html></html>")))
}
