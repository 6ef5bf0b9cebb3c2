/*
Copyright © 2026 The pinwatch authors
*/

// The open command runs the tray-click workflow once, without a tray
// session: sync the cache if the remote changed, open up to --max-tabs
// unread bookmarks as background tabs, and mark the opened ones read.
//
// Example usage:
//
//	pinwatch open --browser-url=http://127.0.0.1:9222
//	pinwatch open -n 5 --chrome-path="/usr/bin/chromium"
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// consoleNotifier stands in for desktop notifications when no tray session
// exists.
type consoleNotifier struct{}

func (consoleNotifier) Notify(title, body string) error {
	log.Printf("%s: %s", title, body)
	return nil
}

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open unread bookmarks as background tabs and mark them read",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runOpen(cmd); err != nil {
			log.Fatalf("Open failed: %v", err)
		}
	},
}

func runOpen(cmd *cobra.Command) error {
	st, err := initStore(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("failed to close cache: %v", err)
		}
	}()

	opener, err := newOpener(cmd)
	if err != nil {
		return err
	}
	defer opener.Close()

	agent, err := newAgent(cmd, st, opener, consoleNotifier{})
	if err != nil {
		return err
	}

	opened, err := agent.OpenUnread(context.Background())
	if err != nil {
		return err
	}
	log.Printf("Opened and marked read %d bookmark(s)", opened)
	return nil
}

func init() {
	rootCmd.AddCommand(openCmd)
}
