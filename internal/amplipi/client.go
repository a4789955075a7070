package amplipi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// API defines the controller operations the CLI dispatches to. It is
// implemented by *Client and can be swapped out in tests.
type API interface {
	Status(ctx context.Context) (*Status, error)
	Info(ctx context.Context) (*Info, error)
	LoadConfig(ctx context.Context, config json.RawMessage) (*Status, error)
	FactoryReset(ctx context.Context) (*Status, error)
	Reset(ctx context.Context) (*Status, error)
	Reboot(ctx context.Context) (*Status, error)
	Shutdown(ctx context.Context) (*Status, error)

	Sources(ctx context.Context) ([]Source, error)
	Source(ctx context.Context, id int) (*Source, error)
	SetSource(ctx context.Context, id int, update SourceUpdate) (*Status, error)
	SourceImage(ctx context.Context, id, height int) ([]byte, error)

	Zones(ctx context.Context) ([]Zone, error)
	Zone(ctx context.Context, id int) (*Zone, error)
	SetZone(ctx context.Context, id int, update ZoneUpdate) (*Status, error)
	SetZones(ctx context.Context, update MultiZoneUpdate) (*Status, error)

	Groups(ctx context.Context) ([]Group, error)
	Group(ctx context.Context, id int) (*Group, error)
	CreateGroup(ctx context.Context, group Group) (*Group, error)
	SetGroup(ctx context.Context, id int, update GroupUpdate) (*Status, error)
	DeleteGroup(ctx context.Context, id int) (*Status, error)

	Streams(ctx context.Context) ([]Stream, error)
	Stream(ctx context.Context, id int) (*Stream, error)
	CreateStream(ctx context.Context, stream Stream) (*Status, error)
	SetStream(ctx context.Context, id int, update StreamUpdate) (*Status, error)
	DeleteStream(ctx context.Context, id int) (*Status, error)
	PlayStream(ctx context.Context, id int) (*Status, error)
	PauseStream(ctx context.Context, id int) (*Status, error)
	StopStream(ctx context.Context, id int) (*Status, error)
	NextStream(ctx context.Context, id int) (*Status, error)
	PreviousStream(ctx context.Context, id int) (*Status, error)
	ChangeStation(ctx context.Context, id, station int) (*Status, error)

	Presets(ctx context.Context) ([]Preset, error)
	Preset(ctx context.Context, id int) (*Preset, error)
	CreatePreset(ctx context.Context, preset Preset) (*Preset, error)
	SetPreset(ctx context.Context, id int, update PresetUpdate) (*Status, error)
	DeletePreset(ctx context.Context, id int) (*Status, error)
	LoadPreset(ctx context.Context, id int) (*Status, error)

	Announce(ctx context.Context, a Announcement, timeout time.Duration) (*Status, error)
	PlayMedia(ctx context.Context, media PlayMedia) (*Status, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the AmpliPi controller's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	timeout   time.Duration
	userAgent string
	log       *slog.Logger

	versionMu    sync.Mutex
	version      [3]int
	versionKnown bool
}

const (
	defaultEndpoint  = "http://amplipi.local/api"
	defaultUserAgent = "amplictl/0.1"
	defaultTimeout   = 10 * time.Second

	// play_media appeared on the controller in 0.4.1; older firmware gets
	// the announce fallback.
	minPlayMediaMajor = 0
	minPlayMediaMinor = 4
	minPlayMediaPatch = 1
)

// Options tune client construction. The zero value is usable.
type Options struct {
	Timeout    time.Duration // per-request deadline; zero uses 10s
	HTTPClient *http.Client  // zero uses a fresh http.Client
	Logger     *slog.Logger  // zero discards request logs
}

// NewClient builds a Client for the given endpoint. The endpoint may be a
// bare host, a base URL, or a full .../api URL; it is normalized so requests
// land under the controller's /api/ prefix.
func NewClient(endpoint string, opts Options) (*Client, error) {
	base, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		timeout:   timeout,
		userAgent: defaultUserAgent,
		log:       logger,
	}, nil
}

// -- status calls

// Status retrieves the full controller configuration and state.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var payload Status
	if err := c.get(ctx, "", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Info retrieves controller settings and version information.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	var payload Info
	if err := c.get(ctx, "info", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// LoadConfig replaces the controller configuration wholesale.
func (c *Client) LoadConfig(ctx context.Context, config json.RawMessage) (*Status, error) {
	return c.statusPost(ctx, "load", config)
}

// FactoryReset restores the controller's factory configuration.
func (c *Client) FactoryReset(ctx context.Context) (*Status, error) {
	return c.statusPost(ctx, "factory_reset", nil)
}

// Reset restarts the controller software.
func (c *Client) Reset(ctx context.Context) (*Status, error) {
	return c.statusPost(ctx, "reset", nil)
}

// Reboot reboots the controller hardware.
func (c *Client) Reboot(ctx context.Context) (*Status, error) {
	return c.statusPost(ctx, "reboot", nil)
}

// Shutdown powers the controller down.
func (c *Client) Shutdown(ctx context.Context) (*Status, error) {
	return c.statusPost(ctx, "shutdown", nil)
}

// -- source calls

// Sources lists the controller's audio inputs.
func (c *Client) Sources(ctx context.Context) ([]Source, error) {
	var payload sourcesEnvelope
	if err := c.get(ctx, "sources", &payload); err != nil {
		return nil, err
	}
	return payload.Sources, nil
}

// Source retrieves one audio input.
func (c *Client) Source(ctx context.Context, id int) (*Source, error) {
	var payload Source
	if err := c.get(ctx, fmt.Sprintf("sources/%d", id), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SourceImage fetches the album art for one source, scaled to the given
// height in pixels. The response is raw image bytes, not JSON.
func (c *Client) SourceImage(ctx context.Context, id, height int) ([]byte, error) {
	return c.getBytes(ctx, fmt.Sprintf("sources/%d/image/%d", id, height))
}

// SetSource applies a partial update to one source.
func (c *Client) SetSource(ctx context.Context, id int, update SourceUpdate) (*Status, error) {
	return c.statusPatch(ctx, fmt.Sprintf("sources/%d", id), update)
}

// -- zone calls

// Zones lists the controller's output zones.
func (c *Client) Zones(ctx context.Context) ([]Zone, error) {
	var payload zonesEnvelope
	if err := c.get(ctx, "zones", &payload); err != nil {
		return nil, err
	}
	return payload.Zones, nil
}

// Zone retrieves one output zone.
func (c *Client) Zone(ctx context.Context, id int) (*Zone, error) {
	var payload Zone
	if err := c.get(ctx, fmt.Sprintf("zones/%d", id), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SetZone applies a partial update to one zone.
func (c *Client) SetZone(ctx context.Context, id int, update ZoneUpdate) (*Status, error) {
	return c.statusPatch(ctx, fmt.Sprintf("zones/%d", id), update)
}

// SetZones applies one update to several zones and/or groups at once.
func (c *Client) SetZones(ctx context.Context, update MultiZoneUpdate) (*Status, error) {
	return c.statusPatch(ctx, "zones", update)
}

// -- group calls

// Groups lists the zone groups.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var payload groupsEnvelope
	if err := c.get(ctx, "groups", &payload); err != nil {
		return nil, err
	}
	return payload.Groups, nil
}

// Group retrieves one zone group.
func (c *Client) Group(ctx context.Context, id int) (*Group, error) {
	var payload Group
	if err := c.get(ctx, fmt.Sprintf("groups/%d", id), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateGroup adds a new zone group and returns it with its assigned id.
func (c *Client) CreateGroup(ctx context.Context, group Group) (*Group, error) {
	var payload Group
	if err := c.do(ctx, http.MethodPost, "group", group, &payload, 0); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SetGroup applies a partial update to one group.
func (c *Client) SetGroup(ctx context.Context, id int, update GroupUpdate) (*Status, error) {
	return c.statusPatch(ctx, fmt.Sprintf("groups/%d", id), update)
}

// DeleteGroup removes a group.
func (c *Client) DeleteGroup(ctx context.Context, id int) (*Status, error) {
	var payload Status
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("groups/%d", id), nil, &payload, 0); err != nil {
		return nil, err
	}
	return &payload, nil
}

// -- stream calls

// Streams lists the configured digital streams.
func (c *Client) Streams(ctx context.Context) ([]Stream, error) {
	var payload streamsEnvelope
	if err := c.get(ctx, "streams", &payload); err != nil {
		return nil, err
	}
	return payload.Streams, nil
}

// Stream retrieves one stream.
func (c *Client) Stream(ctx context.Context, id int) (*Stream, error) {
	var payload Stream
	if err := c.get(ctx, fmt.Sprintf("streams/%d", id), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateStream adds a new stream.
func (c *Client) CreateStream(ctx context.Context, stream Stream) (*Status, error) {
	return c.statusPost(ctx, "stream", stream)
}

// SetStream applies a partial update to one stream.
func (c *Client) SetStream(ctx context.Context, id int, update StreamUpdate) (*Status, error) {
	return c.statusPatch(ctx, fmt.Sprintf("streams/%d", id), update)
}

// DeleteStream removes a stream.
func (c *Client) DeleteStream(ctx context.Context, id int) (*Status, error) {
	var payload Status
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("streams/%d", id), nil, &payload, 0); err != nil {
		return nil, err
	}
	return &payload, nil
}

// PlayStream starts playback on a stream.
func (c *Client) PlayStream(ctx context.Context, id int) (*Status, error) {
	return c.statusPost(ctx, fmt.Sprintf("streams/%d/play", id), nil)
}

// PauseStream pauses playback on a stream.
func (c *Client) PauseStream(ctx context.Context, id int) (*Status, error) {
	return c.statusPost(ctx, fmt.Sprintf("streams/%d/pause", id), nil)
}

// StopStream stops playback on a stream.
func (c *Client) StopStream(ctx context.Context, id int) (*Status, error) {
	return c.statusPost(ctx, fmt.Sprintf("streams/%d/stop", id), nil)
}

// NextStream skips a stream forward to its next item.
func (c *Client) NextStream(ctx context.Context, id int) (*Status, error) {
	return c.statusPost(ctx, fmt.Sprintf("streams/%d/next", id), nil)
}

// PreviousStream moves a stream back to its previous item.
func (c *Client) PreviousStream(ctx context.Context, id int) (*Status, error) {
	return c.statusPost(ctx, fmt.Sprintf("streams/%d/prev", id), nil)
}

// ChangeStation switches a stream to a different station.
func (c *Client) ChangeStation(ctx context.Context, id, station int) (*Status, error) {
	return c.statusPost(ctx, fmt.Sprintf("streams/%d/station=%d", id, station), nil)
}

// -- preset calls

// Presets lists the stored presets.
func (c *Client) Presets(ctx context.Context) ([]Preset, error) {
	var payload presetsEnvelope
	if err := c.get(ctx, "presets", &payload); err != nil {
		return nil, err
	}
	return payload.Presets, nil
}

// Preset retrieves one preset.
func (c *Client) Preset(ctx context.Context, id int) (*Preset, error) {
	var payload Preset
	if err := c.get(ctx, fmt.Sprintf("presets/%d", id), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreatePreset stores a new preset and returns it with its assigned id.
func (c *Client) CreatePreset(ctx context.Context, preset Preset) (*Preset, error) {
	var payload Preset
	if err := c.do(ctx, http.MethodPost, "preset", preset, &payload, 0); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SetPreset replaces a preset's state and commands.
func (c *Client) SetPreset(ctx context.Context, id int, update PresetUpdate) (*Status, error) {
	return c.statusPatch(ctx, fmt.Sprintf("presets/%d", id), update)
}

// DeletePreset removes a preset.
func (c *Client) DeletePreset(ctx context.Context, id int) (*Status, error) {
	var payload Status
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("presets/%d", id), nil, &payload, 0); err != nil {
		return nil, err
	}
	return &payload, nil
}

// LoadPreset applies a stored preset to the controller.
func (c *Client) LoadPreset(ctx context.Context, id int) (*Status, error) {
	return c.statusPost(ctx, fmt.Sprintf("presets/%d/load", id), nil)
}

// -- announce and media calls

// Announce plays a one-shot PA announcement. A positive timeout overrides the
// client deadline for this call only, since the device holds the request open
// while the clip plays.
func (c *Client) Announce(ctx context.Context, a Announcement, timeout time.Duration) (*Status, error) {
	var payload Status
	if err := c.do(ctx, http.MethodPost, "announce", a, &payload, timeout); err != nil {
		return nil, err
	}
	return &payload, nil
}

// PlayMedia plays a media URL on a source. Controllers older than 0.4.1 lack
// the play endpoint, so the request degrades to an announcement there.
func (c *Client) PlayMedia(ctx context.Context, media PlayMedia) (*Status, error) {
	version, err := c.controllerVersion(ctx)
	if err != nil {
		return nil, err
	}
	if versionLess(version, [3]int{minPlayMediaMajor, minPlayMediaMinor, minPlayMediaPatch}) {
		return c.Announce(ctx, Announcement{Media: media.Media, SourceID: media.SourceID}, 0)
	}
	return c.statusPost(ctx, "play", media)
}

// controllerVersion fetches and caches the firmware version triple. Only a
// successful lookup is cached, so a transient network failure does not pin
// PlayMedia to an error for the rest of the session.
func (c *Client) controllerVersion(ctx context.Context) ([3]int, error) {
	c.versionMu.Lock()
	defer c.versionMu.Unlock()
	if c.versionKnown {
		return c.version, nil
	}
	info, err := c.Info(ctx)
	if err != nil {
		return [3]int{}, fmt.Errorf("query controller version: %w", err)
	}
	c.version = parseVersion(info.Version)
	c.versionKnown = true
	return c.version, nil
}

func versionLess(a, b [3]int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// parseVersion extracts up to three numeric components from a free-form
// version string, e.g. "0.4.5-rc1" -> {0, 4, 5}.
func parseVersion(raw string) [3]int {
	var out [3]int
	idx, cur, seen := 0, 0, false
	flush := func() {
		if seen && idx < len(out) {
			out[idx] = cur
			idx++
		}
		cur, seen = 0, false
	}
	for _, ch := range raw {
		if ch >= '0' && ch <= '9' {
			cur = cur*10 + int(ch-'0')
			seen = true
		} else {
			flush()
		}
	}
	flush()
	return out
}

// -- request plumbing

func (c *Client) get(ctx context.Context, path string, dest any) error {
	return c.do(ctx, http.MethodGet, path, nil, dest, 0)
}

func (c *Client) statusPost(ctx context.Context, path string, body any) (*Status, error) {
	var payload Status
	if err := c.do(ctx, http.MethodPost, path, body, &payload, 0); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) statusPatch(ctx context.Context, path string, body any) (*Status, error) {
	var payload Status
	if err := c.do(ctx, http.MethodPatch, path, body, &payload, 0); err != nil {
		return nil, err
	}
	return &payload, nil
}

// getBytes issues a GET for a non-JSON payload and returns the body as-is.
func (c *Client) getBytes(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.log.Debug("api request", "method", http.MethodGet, "url", reqURL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, apiError(path, resp)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any, timeout time.Duration) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("api request", "method", method, "url", reqURL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return apiError(path, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		msg := ""
		if err := json.Unmarshal(raw, &payload); err == nil {
			msg = strings.TrimSpace(strings.TrimSpace(payload.Error) + " " + strings.TrimSpace(payload.Message))
		}
		return &AccessDeniedError{Path: path, StatusCode: resp.StatusCode, Message: msg}
	}
	return &APIError{Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
}

// parseEndpoint normalizes the configured endpoint so every request lands
// under the controller's /api/ prefix.
func parseEndpoint(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = defaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	path := strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(path, "/api") {
		path += "/api"
	}
	u.Path = path + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
