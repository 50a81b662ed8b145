package printing

import (
	"context"
	"errors"
	"fmt"
	"time"

	containerapp "github.com/ams/backend/internal/application/container"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const defaultPrintTimeout = 30 * time.Second

// Sheet margins in millimeters. The bottom margin leaves room for the footer.
const (
	sheetMargin  = 15.0
	footerMargin = 18.0
)

// boxListFooter numbers every page. Chrome fills the title, pageNumber and
// totalPages spans; the title is the container reference code.
const boxListFooter = `<div style="font-size:8pt;width:100%;text-align:center;">` +
	`<span class="title"></span> - <span class="pageNumber"></span>/<span class="totalPages"></span></div>`

// ChromedpConfig configures box list printing
type ChromedpConfig struct {
	// RemoteURL points at a running Chrome; empty launches a local headless one
	RemoteURL string
	NoSandbox bool
	PaperSize PaperSize
	// Timeout bounds one box list render
	Timeout time.Duration
	Logger  *zap.Logger
}

// ChromedpRenderer prints container box lists through headless Chrome
type ChromedpRenderer struct {
	paperSize   PaperSize
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a box list printer. The paper size falls back
// to A4 and the timeout to 30s.
func NewChromedpRenderer(cfg ChromedpConfig) *ChromedpRenderer {
	r := &ChromedpRenderer{
		paperSize: cfg.PaperSize,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
	}
	if !r.paperSize.IsValid() {
		r.paperSize = PaperSizeA4
	}
	if r.timeout <= 0 {
		r.timeout = defaultPrintTimeout
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// RenderBoxList implements containerapp.BoxListRenderer
func (r *ChromedpRenderer) RenderBoxList(ctx context.Context, list *containerapp.BoxList) ([]byte, error) {
	doc, err := RenderBoxListHTML(list)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplate, "box list template failed", err)
	}

	start := time.Now()
	pdf, err := r.print(ctx, doc)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Box list rendered",
		zap.String("container", list.ReferenceCode),
		zap.Int("entries", len(list.Entries)),
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", estimatePageCount(pdf)),
		zap.Duration("duration", time.Since(start)),
	)
	return pdf, nil
}

func (r *ChromedpRenderer) print(ctx context.Context, doc string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()
	// the browser context hangs off the allocator, so tie it to the caller's deadline
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := r.printParams().Do(ctx)
			pdf = data
			return err
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("box list rendering timed out after %v", r.timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "box list rendering was cancelled", err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}
	return pdf, nil
}

// printParams lays out a portrait sheet with the page-numbered footer
func (r *ChromedpRenderer) printParams() *page.PrintToPDFParams {
	width, height := r.paperSize.Dimensions()
	return page.PrintToPDF().
		WithPaperWidth(mmToInches(width)).
		WithPaperHeight(mmToInches(height)).
		WithMarginTop(mmToInches(sheetMargin)).
		WithMarginRight(mmToInches(sheetMargin)).
		WithMarginBottom(mmToInches(footerMargin)).
		WithMarginLeft(mmToInches(sheetMargin)).
		WithPrintBackground(true).
		WithDisplayHeaderFooter(true).
		// an empty header suppresses Chrome's default date and URL line
		WithHeaderTemplate("<span></span>").
		WithFooterTemplate(boxListFooter)
}

// Close shuts down the browser allocator
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

var _ containerapp.BoxListRenderer = (*ChromedpRenderer)(nil)
