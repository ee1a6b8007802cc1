package badge

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const renderTimeout = 60 * time.Second

// mm per inch; PrintToPDF takes paper dimensions in inches.
const mmPerInch = 25.4

// Rasterizer turns an HTML document into PDF bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string, widthMM, heightMM float64) ([]byte, error)
}

// ChromeRenderer rasterizes HTML to PDF via headless Chrome. One long-lived
// exec allocator is shared across all renders; each render runs in its own
// isolated tab so no state leaks between requests, and concurrent renders
// need no external serialization.
type ChromeRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeRenderer builds the shared allocator. chromePath overrides Chrome
// discovery when set.
func NewChromeRenderer(chromePath string) *ChromeRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromeRenderer{allocCtx: allocCtx, allocCancel: cancel}
}

func (r *ChromeRenderer) Rasterize(ctx context.Context, html string, widthMM, heightMM float64) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.allocCtx)
	defer cancelTab()

	runCtx, cancelRun := context.WithTimeout(tabCtx, renderTimeout)
	defer cancelRun()

	// Propagate caller cancellation into the render.
	go func() {
		select {
		case <-ctx.Done():
			cancelRun()
		case <-runCtx.Done():
		}
	}()

	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(widthMM / mmPerInch).
				WithPaperHeight(heightMM / mmPerInch).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("rasterize pdf: %w", err)
	}
	return pdf, nil
}

// Close shuts down the shared Chrome process.
func (r *ChromeRenderer) Close() {
	r.allocCancel()
}
