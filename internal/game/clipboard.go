package game

import "github.com/atotto/clipboard"

// setClipboardText copies text to the system clipboard. Platforms without a
// clipboard backend return an error.
func setClipboardText(text string) error {
	if text == "" {
		text = " "
	}
	return clipboard.WriteAll(text)
}
