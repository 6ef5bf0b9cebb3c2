/*
Copyright © 2026 The pinwatch authors
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pinwatch/pinwatch/internal/core"
	"github.com/pinwatch/pinwatch/internal/core/browser"
	"github.com/pinwatch/pinwatch/internal/core/pinboard"
	"github.com/pinwatch/pinwatch/internal/core/store"
	"github.com/pinwatch/pinwatch/internal/core/tray"
)

// tokenEnvVar names the environment variable holding the API token when the
// --token flag is not given. A .env file in the working directory is loaded
// first, so the token can live there.
const tokenEnvVar = "PINWATCH_AUTH_TOKEN"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pinwatch",
	Short: "Keep unread Pinboard bookmarks one tray click away",
	Long: `pinwatch sits in the system tray and watches a Pinboard account.

It polls the posts/update endpoint every five minutes, refetches the full
bookmark list into a local SQLite cache when the account changed, and shows
the number of unread ("to read") bookmarks as the tray badge. Clicking the
tray icon opens up to ten unread bookmarks as background browser tabs and
marks them read, on Pinboard and in the cache.

Tabs open in an already running browser when --browser-url points at its
DevTools endpoint (chrome --remote-debugging-port=9222); otherwise a browser
window is launched on the first click.`,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := initStore(cmd)
		if err != nil {
			log.Fatalf("Failed to initialize cache: %v", err)
		}
		defer st.Close()

		ui := tray.New("pinwatch")

		// The badge follows the cache: every write that can change the
		// unread count recomputes it from the event payload.
		st.RegisterEventListener(store.OnBookmarksReplacedEvent, func(event store.Event) error {
			ev := event.(store.BookmarksReplacedEvent)
			ui.SetBadge(core.BadgeText(len(core.FilterUnread(ev.Bookmarks))))
			return nil
		})
		st.RegisterEventListener(store.OnBookmarksMarkedReadEvent, func(event store.Event) error {
			ev := event.(store.BookmarksMarkedReadEvent)
			ui.SetBadge(core.BadgeText(len(core.FilterUnread(ev.Bookmarks))))
			return nil
		})

		opener, err := newOpener(cmd)
		if err != nil {
			log.Fatalf("Failed to configure browser: %v", err)
		}
		defer opener.Close()

		agent, err := newAgent(cmd, st, opener, ui)
		if err != nil {
			log.Fatalf("Failed to configure agent: %v", err)
		}

		interval, err := cmd.Flags().GetDuration("interval")
		if err != nil {
			log.Fatalf("Failed to get interval: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tray.Run(func() {
			log.Println("Tray ready")

			tray.OnClick(func() {
				// Run off the tray loop; the agent serializes against the
				// background sync internally.
				go func() {
					opened, err := agent.OpenUnread(ctx)
					if err != nil {
						log.Printf("Open-unread failed: %v", err)
						return
					}
					log.Printf("Opened and marked read %d bookmark(s)", opened)
				}()
			})

			// Paint the badge from whatever the cache already holds, then
			// sync once and settle into the poll loop.
			go func() {
				count, err := st.UnreadCount()
				if err != nil {
					log.Printf("Failed to read cached unread count: %v", err)
				} else {
					ui.SetBadge(core.BadgeText(count))
				}
				if _, err := agent.Sync(ctx); err != nil {
					log.Printf("Initial sync failed: %v", err)
				}
				agent.Poll(ctx, interval)
			}()
		}, func() {
			log.Println("Shutting down")
			cancel()
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("db", "d", "pinwatch.db", "Path to the SQLite cache file")
	rootCmd.PersistentFlags().String("token", "", "Pinboard API token (user:hexkey); falls back to $"+tokenEnvVar)
	rootCmd.PersistentFlags().String("api-base", pinboard.DefaultBaseURL, "Bookmarking API base URL")
	rootCmd.PersistentFlags().IntP("max-tabs", "n", core.DefaultMaxTabs, "Maximum unread bookmarks opened per click")
	rootCmd.PersistentFlags().String("browser-url", "", "DevTools URL of a running browser (e.g. http://127.0.0.1:9222)")
	rootCmd.PersistentFlags().String("chrome-path", "", "Path to Chrome/Chromium executable")
	rootCmd.Flags().Duration("interval", core.DefaultPollInterval, "Background sync interval")
}

func initStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return nil, fmt.Errorf("failed to read --db: %w", err)
	}
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if err := st.Migrate(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to migrate cache: %w", err)
	}
	return st, nil
}

func resolveToken(cmd *cobra.Command) (string, error) {
	token, err := cmd.Flags().GetString("token")
	if err != nil {
		return "", fmt.Errorf("failed to read --token: %w", err)
	}
	if token != "" {
		return token, nil
	}

	// Best-effort .env load; a missing file is fine.
	_ = godotenv.Load()
	if token = os.Getenv(tokenEnvVar); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("no API token: pass --token or set %s", tokenEnvVar)
}

func newClient(cmd *cobra.Command) (*pinboard.Client, error) {
	token, err := resolveToken(cmd)
	if err != nil {
		return nil, err
	}
	base, err := cmd.Flags().GetString("api-base")
	if err != nil {
		return nil, fmt.Errorf("failed to read --api-base: %w", err)
	}
	return pinboard.New(token, pinboard.WithBaseURL(base))
}

func newOpener(cmd *cobra.Command) (*browser.Opener, error) {
	remoteURL, err := cmd.Flags().GetString("browser-url")
	if err != nil {
		return nil, fmt.Errorf("failed to read --browser-url: %w", err)
	}
	chromePath, err := cmd.Flags().GetString("chrome-path")
	if err != nil {
		return nil, fmt.Errorf("failed to read --chrome-path: %w", err)
	}
	if chromePath == "" && remoteURL == "" && runtime.GOOS == "darwin" {
		// Best-effort default for macOS.
		chromePath = "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
	}
	return browser.NewOpener(browser.Options{
		RemoteURL:  remoteURL,
		ChromePath: chromePath,
	}), nil
}

func newAgent(cmd *cobra.Command, st *store.Store, tabs core.TabOpener, notif core.Notifier) (*core.Agent, error) {
	client, err := newClient(cmd)
	if err != nil {
		return nil, err
	}
	maxTabs, err := cmd.Flags().GetInt("max-tabs")
	if err != nil {
		return nil, fmt.Errorf("failed to read --max-tabs: %w", err)
	}
	return core.NewAgent(st, client, tabs, notif, maxTabs), nil
}
