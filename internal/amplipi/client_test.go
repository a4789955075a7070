package amplipi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseEndpoint_NormalizesAllForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "http://amplipi.local/api/"},
		{"amplipi.local", "http://amplipi.local/api/"},
		{"http://10.0.0.5", "http://10.0.0.5/api/"},
		{"http://10.0.0.5/", "http://10.0.0.5/api/"},
		{"http://10.0.0.5/api", "http://10.0.0.5/api/"},
		{"http://10.0.0.5/api/", "http://10.0.0.5/api/"},
		{"https://amp.example.com:8080/api", "https://amp.example.com:8080/api/"},
	}
	for _, tc := range cases {
		u, err := parseEndpoint(tc.in)
		if err != nil {
			t.Fatalf("parseEndpoint(%q) returned error: %v", tc.in, err)
		}
		if u.String() != tc.want {
			t.Fatalf("parseEndpoint(%q) = %q, want %q", tc.in, u.String(), tc.want)
		}
	}
}

func TestClient_StatusAndCollections(t *testing.T) {
	t.Parallel()

	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/":
			_ = json.NewEncoder(w).Encode(Status{Info: &Info{Version: "0.4.5"}})
		case "/api/sources":
			_ = json.NewEncoder(w).Encode(sourcesEnvelope{Sources: []Source{{Name: "TV", Input: "local"}}})
		case "/api/zones":
			_ = json.NewEncoder(w).Encode(zonesEnvelope{Zones: []Zone{{Name: "Kitchen", Vol: -40}}})
		case "/api/groups":
			_ = json.NewEncoder(w).Encode(groupsEnvelope{Groups: []Group{{Name: "Upstairs", Zones: []int{1, 2}}}})
		case "/api/streams":
			_ = json.NewEncoder(w).Encode(streamsEnvelope{Streams: []Stream{{Name: "KEXP", Type: "internetradio"}}})
		case "/api/presets":
			_ = json.NewEncoder(w).Encode(presetsEnvelope{Presets: []Preset{{Name: "Mornings"}}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	status, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if status.Info == nil || status.Info.Version != "0.4.5" {
		t.Fatalf("Status payload = %#v, want info version 0.4.5", status)
	}

	sources, err := c.Sources(ctx)
	if err != nil {
		t.Fatalf("Sources returned error: %v", err)
	}
	if len(sources) != 1 || sources[0].Name != "TV" {
		t.Fatalf("Sources = %#v, want 1 source named TV", sources)
	}

	zones, err := c.Zones(ctx)
	if err != nil {
		t.Fatalf("Zones returned error: %v", err)
	}
	if len(zones) != 1 || zones[0].Vol != -40 {
		t.Fatalf("Zones = %#v, want 1 zone vol=-40", zones)
	}

	groups, err := c.Groups(ctx)
	if err != nil {
		t.Fatalf("Groups returned error: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Zones) != 2 {
		t.Fatalf("Groups = %#v, want 1 group with 2 zones", groups)
	}

	streams, err := c.Streams(ctx)
	if err != nil {
		t.Fatalf("Streams returned error: %v", err)
	}
	if len(streams) != 1 || streams[0].Type != "internetradio" {
		t.Fatalf("Streams = %#v, want 1 internetradio stream", streams)
	}

	presets, err := c.Presets(ctx)
	if err != nil {
		t.Fatalf("Presets returned error: %v", err)
	}
	if len(presets) != 1 || presets[0].Name != "Mornings" {
		t.Fatalf("Presets = %#v, want 1 preset named Mornings", presets)
	}

	if !strings.HasPrefix(gotUserAgent, "amplictl/") {
		t.Fatalf("User-Agent = %q, want amplictl/*", gotUserAgent)
	}
}

func TestClient_SetZoneSendsOnlySetFields(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotContentType string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Status{})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	vol := -35
	if _, err := c.SetZone(context.Background(), 3, ZoneUpdate{Vol: &vol}); err != nil {
		t.Fatalf("SetZone returned error: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/zones/3" {
		t.Fatalf("request = %s %s, want PATCH /api/zones/3", gotMethod, gotPath)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	if len(gotBody) != 1 {
		t.Fatalf("body = %v, want only the vol field", gotBody)
	}
	if v, ok := gotBody["vol"].(float64); !ok || int(v) != -35 {
		t.Fatalf("body vol = %v, want -35", gotBody["vol"])
	}
}

func TestClient_GroupLifecyclePathsAndMethods(t *testing.T) {
	t.Parallel()

	type call struct{ method, path string }
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost && r.URL.Path == "/api/group" {
			id := 9
			_ = json.NewEncoder(w).Encode(Group{ID: &id, Name: "Patio"})
			return
		}
		_ = json.NewEncoder(w).Encode(Status{})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	created, err := c.CreateGroup(ctx, Group{Name: "Patio", Zones: []int{4}})
	if err != nil {
		t.Fatalf("CreateGroup returned error: %v", err)
	}
	if created.ID == nil || *created.ID != 9 {
		t.Fatalf("CreateGroup id = %v, want 9", created.ID)
	}

	name := "Deck"
	if _, err := c.SetGroup(ctx, 9, GroupUpdate{Name: &name}); err != nil {
		t.Fatalf("SetGroup returned error: %v", err)
	}
	if _, err := c.DeleteGroup(ctx, 9); err != nil {
		t.Fatalf("DeleteGroup returned error: %v", err)
	}

	want := []call{
		{http.MethodPost, "/api/group"},
		{http.MethodPatch, "/api/groups/9"},
		{http.MethodDelete, "/api/groups/9"},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestClient_StreamTransportCommands(t *testing.T) {
	t.Parallel()

	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Status{})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	for _, fn := range []func(context.Context, int) (*Status, error){
		c.PlayStream, c.PauseStream, c.StopStream, c.NextStream, c.PreviousStream,
	} {
		if _, err := fn(ctx, 7); err != nil {
			t.Fatalf("stream command returned error: %v", err)
		}
	}
	if _, err := c.ChangeStation(ctx, 7, 42); err != nil {
		t.Fatalf("ChangeStation returned error: %v", err)
	}

	want := []string{
		"/api/streams/7/play",
		"/api/streams/7/pause",
		"/api/streams/7/stop",
		"/api/streams/7/next",
		"/api/streams/7/prev",
		"/api/streams/7/station=42",
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("path %d = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestClient_ErrorShapes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/zones":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/api/sources":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"forbidden","message":"no api key"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	if _, err := c.Status(ctx); err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("Status error = %v, want decode response error", err)
	}

	_, err = c.Zones(ctx)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Zones error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Body != "boom" {
		t.Fatalf("APIError = %#v, want status 500 body boom", apiErr)
	}

	_, err = c.Sources(ctx)
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("Sources error = %v, want *AccessDeniedError", err)
	}
	if !strings.Contains(denied.Message, "no api key") {
		t.Fatalf("AccessDeniedError message = %q, want it to mention no api key", denied.Message)
	}
}

func TestClient_UnreachableWrapsSentinel(t *testing.T) {
	// Port 1 is essentially never listening.
	c, err := NewClient("127.0.0.1:1", Options{Timeout: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Status(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("Status error = %v, want ErrUnreachable", err)
	}
}

func TestClient_PlayMediaFallsBackOnOldFirmware(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, version, wantPath string) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Path == "/api/info" {
				_ = json.NewEncoder(w).Encode(Info{Version: version})
				return
			}
			gotPath = r.URL.Path
			_ = json.NewEncoder(w).Encode(Status{})
		}))
		t.Cleanup(server.Close)

		c, err := NewClient(server.URL, Options{})
		if err != nil {
			t.Fatalf("NewClient returned error: %v", err)
		}
		src := 1
		if _, err := c.PlayMedia(context.Background(), PlayMedia{Media: "http://x/clip.mp3", SourceID: &src}); err != nil {
			t.Fatalf("PlayMedia returned error: %v", err)
		}
		if gotPath != wantPath {
			t.Fatalf("PlayMedia hit %q, want %q", gotPath, wantPath)
		}
	}

	t.Run("old firmware announces", func(t *testing.T) { run(t, "0.3.9", "/api/announce") })
	t.Run("new firmware plays", func(t *testing.T) { run(t, "0.4.1", "/api/play") })
}

func TestClient_PlayMediaRetriesVersionAfterFailure(t *testing.T) {
	t.Parallel()

	infoCalls := 0
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/info" {
			infoCalls++
			if infoCalls == 1 {
				http.Error(w, "not ready", http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(Info{Version: "0.4.5"})
			return
		}
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(Status{})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	src := 1
	media := PlayMedia{Media: "http://x/clip.mp3", SourceID: &src}

	if _, err := c.PlayMedia(context.Background(), media); err == nil {
		t.Fatal("PlayMedia succeeded during the info outage, want error")
	}
	if _, err := c.PlayMedia(context.Background(), media); err != nil {
		t.Fatalf("PlayMedia after recovery returned error: %v", err)
	}
	if gotPath != "/api/play" {
		t.Fatalf("PlayMedia hit %q, want /api/play", gotPath)
	}
	if infoCalls != 2 {
		t.Fatalf("info calls = %d, want 2 (failure must not be cached)", infoCalls)
	}

	// The cached version serves later calls without another info request.
	if _, err := c.PlayMedia(context.Background(), media); err != nil {
		t.Fatalf("PlayMedia with cached version returned error: %v", err)
	}
	if infoCalls != 2 {
		t.Fatalf("info calls = %d after cached call, want 2", infoCalls)
	}
}

func TestClient_SourceImageReturnsRawBytes(t *testing.T) {
	t.Parallel()

	art := []byte{0xff, 0xd8, 0xff, 0xe0, 'f', 'a', 'k', 'e'}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/sources/1/image/128" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(art)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	raw, err := c.SourceImage(context.Background(), 1, 128)
	if err != nil {
		t.Fatalf("SourceImage returned error: %v", err)
	}
	if !bytes.Equal(raw, art) {
		t.Fatalf("SourceImage = %v, want %v", raw, art)
	}

	_, err = c.SourceImage(context.Background(), 2, 128)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("SourceImage on missing source = %v, want *APIError with 404", err)
	}
}

func TestParseVersion(t *testing.T) {
	cases := []struct {
		in   string
		want [3]int
	}{
		{"0.4.5", [3]int{0, 4, 5}},
		{"0.4.5-rc1", [3]int{0, 4, 5}},
		{"v1.2", [3]int{1, 2, 0}},
		{"garbage", [3]int{0, 0, 0}},
	}
	for _, tc := range cases {
		if got := parseVersion(tc.in); got != tc.want {
			t.Fatalf("parseVersion(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
