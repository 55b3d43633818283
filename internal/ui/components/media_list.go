package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/spatail/vbdplayer/internal/listmodel"
	"github.com/spatail/vbdplayer/pkg/types"
)

// MediaList renders a listmodel.Model in a fyne List. User clicks select in
// the model; model changes redraw the list.
type MediaList struct {
	model *listmodel.Model[types.MediaItem]
	list  *widget.List

	// set while the widget is being brought in line with the model
	syncing bool
}

func NewMediaList(model *listmodel.Model[types.MediaItem], empty string) *MediaList {
	ml := &MediaList{model: model}

	ml.list = widget.NewList(
		model.Len,
		func() fyne.CanvasObject {
			l := widget.NewLabel(empty)
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if item, ok := model.Item(id); ok {
				obj.(*widget.Label).SetText(item.DisplayName)
			}
		},
	)

	ml.list.OnSelected = func(id widget.ListItemID) {
		if ml.syncing {
			return
		}
		if idx, _, ok := model.Selected(); ok && idx == id {
			return
		}
		model.Select(id)
	}
	ml.list.OnUnselected = func(id widget.ListItemID) {
		if ml.syncing {
			return
		}
		if idx, _, ok := model.Selected(); ok && idx == id {
			model.ClearSelection()
		}
	}

	model.OnContentsChanged(ml.sync)
	return ml
}

func (ml *MediaList) sync() {
	ml.syncing = true
	defer func() { ml.syncing = false }()

	if idx, _, ok := ml.model.Selected(); ok {
		ml.list.Select(idx)
	} else {
		ml.list.UnselectAll()
	}
	ml.list.Refresh()
}

func (ml *MediaList) Widget() fyne.CanvasObject {
	return ml.list
}
