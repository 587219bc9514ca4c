package doctolib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"vaccine-slot-scraper/utils"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 8 << 20

// Browser fetches JSON through a headless Chrome tab so requests carry the
// cookies and fingerprint of a real browser session.
type Browser struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	timeout       time.Duration
	limiter       *rate.Limiter
	profile       utils.BrowserProfile
}

func NewBrowser(headless bool, timeout time.Duration, rps float64, burst int) (*Browser, error) {
	utils.Info("Launching Chrome browser...")
	profile := utils.NewFrenchProfile()
	allocCtx, allocCancel := chromedp.NewExecAllocator(
		context.Background(),
		profile.ExecAllocatorOptions(headless)...,
	)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// start the browser now so every tab shares it
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, errors.Wrap(err, "start chrome")
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}

	utils.Success("Browser ready")
	return &Browser{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		timeout:       timeout,
		limiter:       rate.NewLimiter(limit, burst),
		profile:       profile,
	}, nil
}

func (b *Browser) Close() {
	utils.Info("Closing browser...")
	b.browserCancel()
	b.allocCancel()
}

type fetchAnswer struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func (b *Browser) Get(ctx context.Context, target string) (int, []byte, error) {
	u, err := url.Parse(target)
	if err != nil {
		return 0, nil, errors.Wrap(err, "parse target")
	}
	origin := u.Scheme + "://" + u.Host + "/"

	if err := b.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	defer tabCancel()

	runCtx, cancel := context.WithTimeout(tabCtx, b.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var answer fetchAnswer
	err = chromedp.Run(runCtx,
		b.profile.Apply(),
		chromedp.Navigate(origin),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return utils.RandomDelay(ctx, 200*time.Millisecond, 800*time.Millisecond)
		}),
		chromedp.Evaluate(fmt.Sprintf(`fetch(%q, {
			credentials: 'include',
			headers: {'Accept': 'application/json'}
		}).then(async r => ({status: r.status, body: await r.text()}))`, target),
			&answer,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			},
		),
	)
	if err != nil {
		return 0, nil, errors.Wrap(err, "chromedp failed")
	}
	return answer.Status, []byte(answer.Body), nil
}

// HTTPGetter is the plain HTTP fallback used when no browser is available.
type HTTPGetter struct {
	Client *http.Client
}

func (g HTTPGetter) Get(ctx context.Context, target string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", utils.FrenchAcceptLanguage)
	req.Header.Set("User-Agent", utils.RandomUserAgent())

	resp, err := g.Client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
