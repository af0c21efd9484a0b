package resources

import (
	"bytes"
	"context"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"

	// decoders for intrinsic-size probing
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/benoitkugler/textlayout/fonts/truetype"
	"github.com/npillmayer/weft/core"
)

// Handle identifies one in-flight fetch. The zero handle is invalid.
type Handle int64

// EventKind discriminates fetch completion events.
type EventKind int8

const (
	FetchDone EventKind = iota
	FetchFailed
)

// Event is the completion record of a fetch. Either Data or Err is set.
// Events are delivered on the fetcher's goroutine; receivers must hand
// them over to their own thread before touching shared state.
type Event struct {
	Handle Handle
	Kind   EventKind
	Data   []byte
	Err    error
}

// Callback receives the completion event of a fetch.
type Callback func(Event)

// Fetcher starts and cancels asynchronous resource fetches. Retrieve
// returns immediately with a handle; the callback fires exactly once,
// unless the fetch is cancelled first.
type Fetcher interface {
	Retrieve(href string, base string, cb Callback) Handle
	Cancel(h Handle)
}

// --- HTTP and file fetcher -------------------------------------------------

// NetFetcher retrieves resources over HTTP(S) and from local files.
// Relative hrefs resolve against the base URL of the document.
type NetFetcher struct {
	mu     sync.Mutex
	nextID Handle
	cancel map[Handle]context.CancelFunc
	client *http.Client
}

// NewNetFetcher creates a fetcher using the given HTTP client, or
// http.DefaultClient if client is nil.
func NewNetFetcher(client *http.Client) *NetFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &NetFetcher{
		cancel: make(map[Handle]context.CancelFunc),
		client: client,
	}
}

// Retrieve starts a fetch on its own goroutine and returns its handle.
func (nf *NetFetcher) Retrieve(href string, base string, cb Callback) Handle {
	nf.mu.Lock()
	nf.nextID++
	h := nf.nextID
	ctx, cancel := context.WithCancel(context.Background())
	nf.cancel[h] = cancel
	nf.mu.Unlock()
	go func() {
		data, err := nf.get(ctx, href, base)
		nf.mu.Lock()
		_, live := nf.cancel[h]
		delete(nf.cancel, h)
		nf.mu.Unlock()
		if !live || ctx.Err() != nil {
			return // cancelled, no event
		}
		ev := Event{Handle: h, Kind: FetchDone, Data: data}
		if err != nil {
			ev = Event{Handle: h, Kind: FetchFailed, Err: err}
			tracer().Infof("fetch of %s failed: %v", href, err)
		}
		if cb != nil {
			cb(ev)
		}
	}()
	return h
}

// Cancel aborts an in-flight fetch. The callback will not fire.
// Cancelling a completed or unknown handle is a no-op.
func (nf *NetFetcher) Cancel(h Handle) {
	nf.mu.Lock()
	cancel, ok := nf.cancel[h]
	delete(nf.cancel, h)
	nf.mu.Unlock()
	if ok {
		cancel()
	}
}

func (nf *NetFetcher) get(ctx context.Context, href string, base string) ([]byte, error) {
	u, err := resolveHref(href, base)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "", "file":
		return os.ReadFile(u.Path)
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := nf.client.Do(req)
		if err != nil {
			return nil, core.WrapError(err, core.ECONNECTION, "cannot retrieve %s", u)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, core.Error(core.ECONNECTION, "retrieving %s: %s", u, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	return nil, core.Error(core.EINVALID, "unsupported URL scheme: %s", u.Scheme)
}

func resolveHref(href string, base string) (*url.URL, error) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid resource URL: %s", href)
	}
	if base == "" || u.IsAbs() {
		return u, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid base URL: %s", base)
	}
	return b.ResolveReference(u), nil
}

// --- Content probing -------------------------------------------------------

// ProbeImage reads the header of fetched image bytes and returns the
// intrinsic pixel size and format, without decoding the pixel data.
func ProbeImage(data []byte) (width int, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", core.WrapError(err, core.EINVALID, "cannot determine image size")
	}
	return cfg.Width, cfg.Height, format, nil
}

// ProbeFont checks that fetched bytes are a parsable sfnt font before
// they get registered.
func ProbeFont(data []byte) error {
	if _, err := truetype.Parse(bytes.NewReader(data), true); err != nil {
		return core.WrapError(err, core.EINVALID, "downloaded font-face is not a usable font")
	}
	return nil
}
