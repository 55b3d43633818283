package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spatail/vbdplayer/internal/config"
	"github.com/spatail/vbdplayer/pkg/types"
)

var albums = []types.MediaItem{
	types.NewMediaItem("Black Sabbath", "b1"),
	types.NewMediaItem("Abyssal Black", "b2"),
	types.NewMediaItem("Bolt Thrower", "b3"),
	types.NewMediaItem("Blk Rites", "b4"),
}

func newEngine(fuzzy bool) *Engine {
	cfg := config.Default()
	cfg.Search.Fuzzy = fuzzy
	return NewEngine(cfg)
}

func TestFilterEmptyQueryReturnsEverything(t *testing.T) {
	got := newEngine(true).Filter(albums, "  ")
	require.Equal(t, albums, got)

	got[0] = types.NewMediaItem("changed", "x")
	require.Equal(t, "Black Sabbath", albums[0].DisplayName)
}

func TestFilterRanksPrefixMatchesFirst(t *testing.T) {
	got := newEngine(true).Filter(albums, "black")
	require.GreaterOrEqual(t, len(got), 2)
	require.Equal(t, "Black Sabbath", got[0].DisplayName)
	require.Equal(t, "Abyssal Black", got[1].DisplayName)
	require.NotContains(t, got, types.NewMediaItem("Bolt Thrower", "b3"))
}

func TestFilterFuzzySubsequence(t *testing.T) {
	got := newEngine(true).Filter(albums, "bkrt")
	require.Equal(t, []types.MediaItem{types.NewMediaItem("Blk Rites", "b4")}, got)

	require.Empty(t, newEngine(false).Filter(albums, "bkrt"))
}

func TestFilterSubstringOnly(t *testing.T) {
	got := newEngine(false).Filter(albums, "THROW")
	require.Equal(t, []types.MediaItem{types.NewMediaItem("Bolt Thrower", "b3")}, got)
}
