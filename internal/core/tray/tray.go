// Package tray is the host-UI surface: the tray icon stands in for the
// action icon, its title for the unread badge, and desktop notifications
// for the notification popups.
package tray

import (
	"fmt"

	"github.com/energye/systray"
	"github.com/gen2brain/beeep"
)

// Run starts the tray event loop. onReady runs once the tray is live,
// onExit when the user quits. Blocks until quit.
func Run(onReady, onExit func()) {
	systray.Run(onReady, onExit)
}

// Quit stops the tray event loop.
func Quit() {
	systray.Quit()
}

// OnClick registers the action-click handler.
func OnClick(fn func()) {
	systray.SetOnClick(func(systray.IMenu) {
		fn()
	})
}

// UI implements the badge and notifier against the live tray.
type UI struct {
	appName string
}

func New(appName string) *UI {
	return &UI{appName: appName}
}

// SetBadge renders the unread badge as the tray title. An empty badge
// clears the title, matching the empty-at-zero badge contract.
func (u *UI) SetBadge(text string) {
	systray.SetTitle(text)
	if text == "" {
		systray.SetTooltip(u.appName)
		return
	}
	systray.SetTooltip(fmt.Sprintf("%s: %s unread", u.appName, text))
}

// Notify posts a desktop notification.
func (u *UI) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}
