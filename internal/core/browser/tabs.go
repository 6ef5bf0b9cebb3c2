package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// Options controls how the opener reaches a Chrome/Chromium instance.
type Options struct {
	// RemoteURL is the DevTools endpoint of an already running browser,
	// e.g. "http://127.0.0.1:9222" (start Chrome with
	// --remote-debugging-port=9222). When set, tabs open in that browser
	// and survive pinwatch exiting.
	RemoteURL string
	// ChromePath optionally overrides the executable used when no remote
	// browser is given and one has to be launched.
	ChromePath string
}

// Opener creates background tabs over the DevTools protocol. The browser
// connection is established lazily on the first tab and reused afterwards.
type Opener struct {
	opts Options

	mu         sync.Mutex
	browserCtx context.Context
	cancels    []context.CancelFunc
}

func NewOpener(opts Options) *Opener {
	return &Opener{opts: opts}
}

// connect attaches to the remote browser, or launches one with a visible
// window when no remote endpoint is configured. Caller holds o.mu.
func (o *Opener) connect() (context.Context, error) {
	if o.browserCtx != nil {
		return o.browserCtx, nil
	}

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if o.opts.RemoteURL != "" {
		log.Printf("Attaching to browser at %s", o.opts.RemoteURL)
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(context.Background(), o.opts.RemoteURL)
	} else {
		log.Println("Launching a browser window")
		allocatorOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		allocatorOpts = append(allocatorOpts,
			chromedp.NoDefaultBrowserCheck,
			chromedp.NoFirstRun,
			// Tabs are opened for the user to read; never headless.
			chromedp.Flag("headless", false),
		)
		if o.opts.ChromePath != "" {
			allocatorOpts = append(allocatorOpts, chromedp.ExecPath(o.opts.ChromePath))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(context.Background(), allocatorOpts...)
	}

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Start (or attach to) the browser eagerly so connection errors surface
	// on the first open instead of hanging later.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	o.browserCtx = browserCtx
	o.cancels = []context.CancelFunc{cancelBrowser, cancelAlloc}
	return browserCtx, nil
}

// OpenBackgroundTab opens url in a new tab without stealing focus.
func (o *Opener) OpenBackgroundTab(ctx context.Context, url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	browserCtx, err := o.connect()
	if err != nil {
		return err
	}

	c := chromedp.FromContext(browserCtx)
	if c == nil || c.Browser == nil {
		return errors.New("browser connection not initialized")
	}

	execCtx := cdp.WithExecutor(browserCtx, c.Browser)
	if _, err := target.CreateTarget(url).WithBackground(true).Do(execCtx); err != nil {
		return fmt.Errorf("create tab for %s: %w", url, err)
	}
	return nil
}

// Close tears down the browser connection. Tabs opened in a remote browser
// stay open; a browser launched by the opener exits with it.
func (o *Opener) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, cancel := range o.cancels {
		cancel()
	}
	o.browserCtx = nil
	o.cancels = nil
}
