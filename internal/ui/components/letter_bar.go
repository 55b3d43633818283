package components

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// NewLetterBar lays out one button per letter in two rows.
func NewLetterBar(letters string, onPress func(letter string)) fyne.CanvasObject {
	var buttons []fyne.CanvasObject
	for _, r := range letters {
		letter := strings.ToLower(string(r))
		buttons = append(buttons, widget.NewButton(letter, func() {
			onPress(letter)
		}))
	}

	cols := (len(buttons) + 1) / 2
	if cols == 0 {
		cols = 1
	}
	return container.NewGridWithColumns(cols, buttons...)
}
