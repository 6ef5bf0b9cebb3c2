/*
Copyright © 2026 The pinwatch authors
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/pinwatch/pinwatch/internal/core"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Check the remote for changes and refresh the local cache",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSync(cmd); err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
	},
}

func runSync(cmd *cobra.Command) error {
	st, err := initStore(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("failed to close cache: %v", err)
		}
	}()

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	// No tabs or notifications in a one-shot sync.
	agent := core.NewAgent(st, client, nil, nil, 0)

	refreshed, err := agent.Sync(context.Background())
	if err != nil {
		return err
	}
	if refreshed {
		log.Println("Cache refreshed from remote")
	} else {
		log.Println("Cache already up to date")
	}

	count, err := st.UnreadCount()
	if err != nil {
		return err
	}
	log.Printf("%d unread bookmark(s)", count)
	return nil
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
