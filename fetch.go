package statsboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cloudradar-monitoring/statsboard/pkg/utils/datacounters"
	"github.com/cloudradar-monitoring/statsboard/pkg/utils/gzipreader"
)

// Fetcher provides stats snapshots from the collaborator endpoint
type Fetcher interface {
	Fetch(ctx context.Context) (*StatsSnapshot, error)
}

// StatsClient fetches snapshots from the /api/stats endpoint
type StatsClient struct {
	url       string
	userAgent string
	client    *http.Client

	// called with the number of body bytes read by every request
	onBytesRead func(n uint64)
}

func NewStatsClient(cfg *Config, version string) *StatsClient {
	transport := &http.Transport{
		ResponseHeaderTimeout: secToDuration(cfg.FetchTimeout),
		// compression is handled by us so the received bytes can be counted
		DisableCompression: true,
	}
	if cfg.Proxy != "" {
		proxy := cfg.Proxy
		if !strings.HasPrefix(proxy, "http://") && !strings.HasPrefix(proxy, "https://") {
			proxy = "http://" + proxy
		}
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"url": cfg.Proxy,
			}).Warningln("failed to parse proxy URL")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &StatsClient{
		url:       cfg.StatsURL,
		userAgent: userAgent(version),
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func userAgent(version string) string {
	if version == "" {
		version = "{undefined}"
	}
	parts := strings.Split(version, "-")

	return fmt.Sprintf("Statsboard v%s %s %s", parts[0], runtime.GOOS, runtime.GOARCH)
}

// Fetch returns ErrDataUnavailable wrapping the cause for network errors,
// non-2xx responses and bodies that do not decode.
func (sc *StatsClient) Fetch(ctx context.Context) (*StatsSnapshot, error) {
	req, err := http.NewRequest(http.MethodGet, sc.url, nil)
	if err != nil {
		return nil, dataUnavailable(errors.WithStack(err))
	}
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", sc.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := sc.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.New("connection timeout")
		}
		return nil, dataUnavailable(err)
	}

	counter := datacounters.NewReadCloserCounter(resp.Body, sc.onBytesRead)
	defer func() {
		_, _ = io.Copy(ioutil.Discard, counter)
		counter.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, dataUnavailable(errors.Errorf("HTTP %d", resp.StatusCode))
	}

	var body io.ReadCloser = counter
	if resp.Header.Get("Content-Encoding") == "gzip" {
		body = &gzipreader.GzipReader{Reader: counter}
	}

	var snapshot StatsSnapshot
	if err := json.NewDecoder(body).Decode(&snapshot); err != nil {
		return nil, dataUnavailable(errors.Wrap(err, "failed to decode stats"))
	}

	return &snapshot, nil
}
