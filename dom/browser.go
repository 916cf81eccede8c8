package dom

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"trivia-finder/utils"
	"trivia-finder/widget"
)

// BrowserDocument is a host page running in headless Chrome. Every call to
// Mounts reads the live DOM again, so markup inserted by page scripts after
// load is picked up by later discovery passes.
type BrowserDocument struct {
	url     string
	tab     context.Context
	timeout time.Duration
	logger  *utils.Logger

	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// OpenBrowser starts Chrome and navigates to pageURL. chromeBin overrides
// the binary lookup when set. Close must be called to stop the browser.
func OpenBrowser(pageURL, chromeBin string, timeout time.Duration, logger *utils.Logger) (*BrowserDocument, error) {
	bin := FindChromeBinary(chromeBin)
	if bin != "" {
		logger.Info("[dom] Using browser binary: %s", bin)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), AllocatorOptions(bin)...)
	// Suppress chromedp log noise
	tab, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	d := &BrowserDocument{
		url:         pageURL,
		tab:         tab,
		timeout:     timeout,
		logger:      logger,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}

	// The first Run allocates the browser; its context must outlive the page.
	if err := chromedp.Run(tab); err != nil {
		d.Close()
		return nil, fmt.Errorf("dom: start browser: %w", err)
	}

	ctx, cancel := context.WithTimeout(tab, timeout)
	defer cancel()
	if err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		d.Close()
		return nil, fmt.Errorf("dom: load %s: %w", pageURL, err)
	}

	logger.Info("[dom] Loaded %s", pageURL)
	return d, nil
}

// stampScript gives every mount without an id a KeyAttr that never changes,
// so inserting markup ahead of a mount does not alter its key. The counter
// lives on window and survives between discovery passes.
var stampScript = fmt.Sprintf(`(() => {
  let seq = window.__triviaFinderSeq || 0;
  let stamped = 0;
  document.querySelectorAll(%q).forEach((el) => {
    if (el.id || el.hasAttribute(%q)) return;
    seq++;
    stamped++;
    el.setAttribute(%q, %q + seq);
  });
  window.__triviaFinderSeq = seq;
  return stamped;
})()`, "."+ContainerClass, KeyAttr, KeyAttr, stampPrefix)

const stampPrefix = "trivia-finder-"

// Mounts stamps unkeyed mounts in the live DOM, then snapshots and parses it.
func (d *BrowserDocument) Mounts() ([]widget.MountPoint, error) {
	ctx, cancel := context.WithTimeout(d.tab, d.timeout)
	defer cancel()

	var stamped int
	var markup string
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(stampScript, &stamped),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("dom: read %s: %w", d.url, err)
	}
	if stamped > 0 {
		d.logger.Debug("[dom] %s: stamped %d new mounts", d.url, stamped)
	}
	mounts, err := ParseMounts(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	d.logger.Debug("[dom] %s: %d mounts in live page", d.url, len(mounts))
	return mounts, nil
}

// Close stops the browser.
func (d *BrowserDocument) Close() {
	d.cancelTab()
	d.cancelAlloc()
}

// AllocatorOptions returns the headless Chrome flags used for host pages.
func AllocatorOptions(chromeBin string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(1280, 900),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}
	return opts
}

// FindChromeBinary locates a Chrome or Chromium binary. An explicit path
// wins; an empty result lets chromedp use its own lookup.
func FindChromeBinary(override string) string {
	if override != "" {
		return override
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
