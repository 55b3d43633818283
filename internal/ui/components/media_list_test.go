package components

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/require"

	"github.com/spatail/vbdplayer/internal/listmodel"
	"github.com/spatail/vbdplayer/pkg/types"
)

func TestMediaListFollowsModel(t *testing.T) {
	test.NewApp()

	model := listmodel.New[types.MediaItem]()
	var events []int
	model.AddListener(listmodel.NewListener("record", func(ev listmodel.SelectionEvent[types.MediaItem]) {
		events = append(events, ev.Index)
	}))

	ml := NewMediaList(model, "Nothing loaded")
	require.Zero(t, ml.list.Length())

	populate := listmodel.Protect(model, nil)
	populate([]types.MediaItem{
		types.NewMediaItem("Abyss", "a"),
		types.NewMediaItem("Bolt Thrower", "b"),
	})
	require.Equal(t, 2, ml.list.Length())
	require.Empty(t, events)

	// a click on the widget selects in the model
	ml.list.Select(1)
	idx, item, ok := model.Selected()
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.Equal(t, "Bolt Thrower", item.DisplayName)
	require.Equal(t, []int{1}, events)

	// a guarded refresh clears the widget selection silently
	populate([]types.MediaItem{types.NewMediaItem("Cianide", "c")})
	require.Equal(t, 1, ml.list.Length())
	require.Equal(t, []int{1}, events)
	_, _, ok = model.Selected()
	require.False(t, ok)
}
