package utils

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/go-json-experiment/json"
)

// FrenchAcceptLanguage is sent on every request to the booking platforms,
// which serve French-speaking patients.
const FrenchAcceptLanguage = "fr-FR,fr;q=0.9,en-US;q=0.6,en;q=0.4"

const parisTimezone = "Europe/Paris"

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
}

// common laptop and desktop viewports
var screenSizes = [][2]int{{1920, 1080}, {1536, 864}, {1440, 900}, {1366, 768}}

func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// BrowserProfile is the identity one Chrome session presents to Doctolib:
// a desktop browser in France, in French, on Paris time.
type BrowserProfile struct {
	UserAgent      string
	AcceptLanguage string
	Languages      []string
	Timezone       string
	Width, Height  int
}

// NewFrenchProfile picks a user agent and a screen size at random.
func NewFrenchProfile() BrowserProfile {
	size := screenSizes[rand.Intn(len(screenSizes))]
	return BrowserProfile{
		UserAgent:      RandomUserAgent(),
		AcceptLanguage: FrenchAcceptLanguage,
		Languages:      []string{"fr-FR", "fr", "en-US", "en"},
		Timezone:       parisTimezone,
		Width:          size[0],
		Height:         size[1],
	}
}

// ExecAllocatorOptions are the Chrome command-line switches for the profile.
// Chrome is started without its automation switch so navigator.webdriver
// is not set by the browser itself.
func (p BrowserProfile) ExecAllocatorOptions(headless bool) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("lang", p.Languages[0]),
		chromedp.Flag("accept-lang", p.AcceptLanguage),
		chromedp.WindowSize(p.Width, p.Height),
		chromedp.UserAgent(p.UserAgent),
	}

	if headless {
		opts = append(opts,
			chromedp.Flag("headless", "new"),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("hide-scrollbars", true),
			chromedp.Flag("mute-audio", true),
		)
	}
	return opts
}

// MaskScript patches what Doctolib's bot checks read from the page. It must
// be installed before navigation so it runs ahead of the page's own scripts.
func (p BrowserProfile) MaskScript() string {
	langs, err := json.Marshal(p.Languages)
	if err != nil {
		langs = []byte(`["fr-FR","fr"]`)
	}
	return fmt.Sprintf(`(() => {
	const langs = %s;
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	Object.defineProperty(navigator, 'language', { get: () => langs[0] });
	Object.defineProperty(navigator, 'languages', { get: () => langs });
	Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3] });
	window.chrome = window.chrome || { runtime: {} };
})();`, langs)
}

// Apply sets up a fresh tab: French locale and headers, Paris time zone
// and the mask script. Run it before the first Navigate of the tab.
func (p BrowserProfile) Apply() chromedp.Tasks {
	return chromedp.Tasks{
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": p.AcceptLanguage}),
		emulation.SetTimezoneOverride(p.Timezone),
		emulation.SetLocaleOverride().WithLocale(p.Languages[0]),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(p.MaskScript()).Do(ctx)
			return err
		}),
	}
}
