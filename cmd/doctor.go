/*
Copyright © 2026 The pinwatch authors
*/

// The doctor command probes the cached bookmarks' URLs and reports dead or
// unreachable links. It reads the cache only; nothing is changed locally or
// on the remote.
//
// Example usage:
//
//	pinwatch doctor
//	pinwatch doctor --all --concurrency=8 --timeout=30s
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/pinwatch/pinwatch/internal/core"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check cached bookmarks for dead or unreachable links",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDoctor(cmd); err != nil {
			log.Fatalf("Doctor failed: %v", err)
		}
	},
}

func runDoctor(cmd *cobra.Command) error {
	st, err := initStore(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("failed to close cache: %v", err)
		}
	}()

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to read --all: %w", err)
	}
	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return fmt.Errorf("failed to read --concurrency: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to read --timeout: %w", err)
	}

	bookmarks, err := st.Bookmarks()
	if err != nil {
		return err
	}
	if !all {
		bookmarks = core.FilterUnread(bookmarks)
	}
	if len(bookmarks) == 0 {
		log.Println("Nothing to check; sync first?")
		return nil
	}

	log.Printf("Checking %d bookmark(s)...", len(bookmarks))
	reports := core.CheckLinks(context.Background(), bookmarks, core.CheckLinksOptions{
		Concurrency: concurrency,
		Timeout:     timeout,
	})

	var dead, unreachable int
	for _, rep := range reports {
		switch rep.Status {
		case core.LinkDead:
			dead++
			fmt.Printf("DEAD        %-3d %s (%s)\n", rep.StatusCode, rep.Bookmark.Href, rep.Bookmark.Description)
		case core.LinkUnreachable:
			unreachable++
			detail := rep.Err
			if detail == "" {
				detail = fmt.Sprintf("HTTP %d", rep.StatusCode)
			}
			fmt.Printf("UNREACHABLE     %s (%s)\n", rep.Bookmark.Href, detail)
		default:
			title := rep.PageTitle
			if title == "" {
				title = rep.Bookmark.Description
			}
			fmt.Printf("OK          %-3d %s (%s)\n", rep.StatusCode, rep.Bookmark.Href, title)
		}
	}

	if dead+unreachable > 0 {
		return fmt.Errorf("found %d dead and %d unreachable link(s)", dead, unreachable)
	}
	log.Println("All links look healthy.")
	return nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().Bool("all", false, "Check every cached bookmark, not just unread ones")
	doctorCmd.Flags().Int("concurrency", core.DefaultDoctorConcurrency, "Number of parallel link checks")
	doctorCmd.Flags().Duration("timeout", core.DefaultDoctorTimeout, "Per-link timeout")
}
