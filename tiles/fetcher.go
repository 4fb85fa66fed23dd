package tiles

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"resgeo/types"
)

// Some public tile servers reject default Go clients.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Fetcher downloads single tiles from a templated tile-server URL.
// Failures are always local: a bad tile never aborts the grid.
type Fetcher struct {
	URLTemplate string
	Client      *http.Client
}

// NewFetcher builds a fetcher with the reference 10 s request timeout.
func NewFetcher(urlTemplate string) *Fetcher {
	return &Fetcher{
		URLTemplate: urlTemplate,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch GETs one tile and writes the raw body to destPath. Returns Fetched on
// 2xx, FetchFailed on any network error, non-2xx status, timeout or write
// failure. Never returns an error: per-tile loss is expected and reported.
func (f *Fetcher) Fetch(x, y, zoom int, destPath string) types.FetchOutcome {
	url := f.tileURL(x, y, zoom)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		log.Printf("Error building tile request %d,%d,%d: %v", x, y, zoom, err)
		return types.FetchFailed
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		log.Printf("Error downloading tile %d,%d,%d: %v", x, y, zoom, err)
		return types.FetchFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		log.Printf("Tile %d,%d,%d returned status %s", x, y, zoom, resp.Status)
		return types.FetchFailed
	}

	if err := writeBody(destPath, resp.Body); err != nil {
		log.Printf("Error saving tile %d,%d,%d: %v", x, y, zoom, err)
		return types.FetchFailed
	}
	return types.Fetched
}

func (f *Fetcher) tileURL(x, y, zoom int) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(zoom),
		"{y}", strconv.Itoa(y),
		"{x}", strconv.Itoa(x),
	)
	return r.Replace(f.URLTemplate)
}

func writeBody(destPath string, body io.Reader) error {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, body); err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	return nil
}
