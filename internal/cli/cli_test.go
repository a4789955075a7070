package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdirTemp is a pre-Go 1.24 stand-in for t.Chdir: it changes the working
// directory and restores the original one when the test finishes.
func chdirTemp(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// isolateConfig keeps the host machine's environment, home directory and
// working directory out of the resolver's view.
func isolateConfig(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AMPLIPI_API_URL", "AMPLIPI_TIMEOUT", "LOGCONF",
		"AMPLIPI_ANNOUNCE_MEDIA", "AMPLIPI_ANNOUNCE_VOL_F", "AMPLIPI_ANNOUNCE_SOURCE",
	} {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { _ = os.Setenv(key, prev) })
		} else {
			t.Cleanup(func() { _ = os.Unsetenv(key) })
		}
		_ = os.Unsetenv(key)
	}
	t.Setenv("HOME", t.TempDir())
	chdirTemp(t, t.TempDir())
}

func newTestApp(stdin string) (*App, *bytes.Buffer, *bytes.Buffer) {
	app := NewApp()
	app.stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	app.stdout = &stdout
	app.stderr = &stderr
	return app, &stdout, &stderr
}

func runApp(app *App, args ...string) error {
	root := NewRootCommand(app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// fakeController serves just enough of the device API for dispatch tests.
func fakeController(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		record := r.Method + " " + r.URL.Path
		if len(body) > 0 {
			record += " " + string(body)
		}
		requests = append(requests, record)

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/zones/3":
			if r.Method == http.MethodGet {
				_, _ = w.Write([]byte(`{"id":3,"name":"Kitchen","source_id":1,"vol":-40}`))
				return
			}
			_, _ = w.Write([]byte(`{"zones":[]}`))
		case "/api/sources/0/image/64":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("jpegbytes"))
		case "/api/sources":
			_, _ = w.Write([]byte(`{"sources":[{"id":0,"name":"TV","input":"local"}]}`))
		case "/api/zones":
			_, _ = w.Write([]byte(`{"zones":[{"id":3,"name":"Kitchen","source_id":1,"vol":-40}]}`))
		default:
			_, _ = w.Write([]byte(`{"sources":[],"zones":[],"groups":[],"streams":[],"presets":[]}`))
		}
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestZoneGet_DumpsJSON(t *testing.T) {
	isolateConfig(t)
	server, _ := fakeController(t)

	app, stdout, _ := newTestApp("")
	if err := runApp(app, "-a", server.URL, "zone", "get", "3"); err != nil {
		t.Fatalf("zone get returned error: %v", err)
	}

	var zone struct {
		Name string `json:"name"`
		Vol  int    `json:"vol"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &zone); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout.String())
	}
	if zone.Name != "Kitchen" || zone.Vol != -40 {
		t.Fatalf("zone = %+v, want Kitchen vol=-40", zone)
	}
}

func TestZoneSet_BuildsBodyFromInputPairs(t *testing.T) {
	isolateConfig(t)
	server, requests := fakeController(t)

	app, _, _ := newTestApp("")
	if err := runApp(app, "-a", server.URL, "zone", "set", "3", "--input", "vol=-30", "--input", "mute=false"); err != nil {
		t.Fatalf("zone set returned error: %v", err)
	}

	var patch string
	for _, r := range *requests {
		if strings.HasPrefix(r, "PATCH /api/zones/3 ") {
			patch = r
		}
	}
	if patch == "" {
		t.Fatalf("requests = %v, want a PATCH to /api/zones/3", *requests)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(strings.TrimPrefix(patch, "PATCH /api/zones/3 ")), &body); err != nil {
		t.Fatalf("patch body is not JSON: %v", err)
	}
	if v, ok := body["vol"].(float64); !ok || int(v) != -30 {
		t.Fatalf("body vol = %v, want -30", body["vol"])
	}
	if v, ok := body["mute"].(bool); !ok || v {
		t.Fatalf("body mute = %v, want false", body["mute"])
	}
	if len(body) != 2 {
		t.Fatalf("body = %v, want exactly vol and mute", body)
	}
}

func TestZoneSet_ReadsStdinJSON(t *testing.T) {
	isolateConfig(t)
	server, requests := fakeController(t)

	app, _, _ := newTestApp(`{"vol": -25}`)
	if err := runApp(app, "-a", server.URL, "zone", "set", "3"); err != nil {
		t.Fatalf("zone set returned error: %v", err)
	}
	found := false
	for _, r := range *requests {
		if strings.HasPrefix(r, "PATCH /api/zones/3 ") && strings.Contains(r, `"vol":-25`) {
			found = true
		}
	}
	if !found {
		t.Fatalf("requests = %v, want PATCH with vol=-25", *requests)
	}
}

func TestZoneSet_MultiZoneForm(t *testing.T) {
	isolateConfig(t)
	server, requests := fakeController(t)

	app, _, _ := newTestApp("")
	err := runApp(app, "-a", server.URL, "zone", "set", "--zones", "1,2", "--groups", "4", "--input", "mute=true")
	if err != nil {
		t.Fatalf("zone set returned error: %v", err)
	}
	found := ""
	for _, r := range *requests {
		if strings.HasPrefix(r, "PATCH /api/zones ") {
			found = r
		}
	}
	if found == "" {
		t.Fatalf("requests = %v, want PATCH /api/zones", *requests)
	}
	for _, want := range []string{`"zones":[1,2]`, `"groups":[4]`, `"mute":true`} {
		if !strings.Contains(found, want) {
			t.Fatalf("multi-zone body %q missing %q", found, want)
		}
	}
}

func TestSourceGet_StarFetchesAll(t *testing.T) {
	isolateConfig(t)
	server, _ := fakeController(t)

	app, stdout, _ := newTestApp("")
	if err := runApp(app, "-a", server.URL, "source", "get", "*"); err != nil {
		t.Fatalf("source get * returned error: %v", err)
	}
	var sources []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &sources); err != nil {
		t.Fatalf("stdout is not a JSON array: %v\n%s", err, stdout.String())
	}
	if len(sources) != 1 || sources[0]["name"] != "TV" {
		t.Fatalf("sources = %v, want one named TV", sources)
	}
}

func TestZoneList_RendersOverview(t *testing.T) {
	isolateConfig(t)
	server, _ := fakeController(t)

	app, stdout, _ := newTestApp("")
	if err := runApp(app, "-a", server.URL, "zone", "list"); err != nil {
		t.Fatalf("zone list returned error: %v", err)
	}
	for _, want := range []string{"Zones", "Kitchen", "source=1"} {
		if !strings.Contains(stdout.String(), want) {
			t.Fatalf("overview = %q, want it to contain %q", stdout.String(), want)
		}
	}
}

func TestOutfile_WritesFileInsteadOfStdout(t *testing.T) {
	isolateConfig(t)
	server, _ := fakeController(t)

	outfile := filepath.Join(t.TempDir(), "zone.json")
	app, stdout, _ := newTestApp("")
	if err := runApp(app, "-a", server.URL, "zone", "get", "3", "--outfile", outfile); err != nil {
		t.Fatalf("zone get returned error: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout = %q, want empty when --outfile is set", stdout.String())
	}
	raw, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(raw), "Kitchen") {
		t.Fatalf("outfile = %q, want the zone JSON", raw)
	}
}

func TestAnnounce_UsesConfiguredDefaults(t *testing.T) {
	isolateConfig(t)
	server, requests := fakeController(t)

	t.Setenv("AMPLIPI_ANNOUNCE_MEDIA", "http://x/doorbell.mp3")
	t.Setenv("AMPLIPI_ANNOUNCE_VOL_F", "0.4")
	t.Setenv("AMPLIPI_ANNOUNCE_SOURCE", "2")

	app, _, _ := newTestApp("")
	if err := runApp(app, "-a", server.URL, "announce"); err != nil {
		t.Fatalf("announce returned error: %v", err)
	}
	found := ""
	for _, r := range *requests {
		if strings.HasPrefix(r, "POST /api/announce ") {
			found = r
		}
	}
	if found == "" {
		t.Fatalf("requests = %v, want POST /api/announce", *requests)
	}
	for _, want := range []string{`"media":"http://x/doorbell.mp3"`, `"vol_f":0.4`, `"source_id":2`} {
		if !strings.Contains(found, want) {
			t.Fatalf("announce body %q missing %q", found, want)
		}
	}
}

func TestAnnounce_FlagsBeatDefaultsAndValidate(t *testing.T) {
	isolateConfig(t)
	server, requests := fakeController(t)

	app, _, _ := newTestApp("")
	if err := runApp(app, "-a", server.URL, "announce", "http://x/chime.mp3", "--vol-f", "0.9", "--zones", "1,2"); err != nil {
		t.Fatalf("announce returned error: %v", err)
	}
	found := ""
	for _, r := range *requests {
		if strings.HasPrefix(r, "POST /api/announce ") {
			found = r
		}
	}
	for _, want := range []string{`"media":"http://x/chime.mp3"`, `"vol_f":0.9`, `"zones":[1,2]`} {
		if !strings.Contains(found, want) {
			t.Fatalf("announce body %q missing %q", found, want)
		}
	}

	app, _, _ = newTestApp("")
	if err := runApp(app, "-a", server.URL, "announce", "http://x/chime.mp3", "--vol-f", "1.5"); err == nil {
		t.Fatalf("announce accepted vol-f 1.5, want range error")
	}

	app, _, _ = newTestApp("")
	if err := runApp(app, "-a", server.URL, "announce"); err == nil || !strings.Contains(err.Error(), "no media URL") {
		t.Fatalf("announce without URL or default = %v, want no media URL error", err)
	}
}

func TestAnnounce_ShortTimeoutFlag(t *testing.T) {
	isolateConfig(t)
	server, requests := fakeController(t)

	app, _, _ := newTestApp("")
	if err := runApp(app, "-a", server.URL, "announce", "http://x/chime.mp3", "-t", "5"); err != nil {
		t.Fatalf("announce -t returned error: %v", err)
	}
	found := false
	for _, r := range *requests {
		if strings.HasPrefix(r, "POST /api/announce ") {
			found = true
		}
	}
	if !found {
		t.Fatalf("requests = %v, want POST /api/announce", *requests)
	}
}

func TestSourceImage_WritesRawBytes(t *testing.T) {
	isolateConfig(t)
	server, _ := fakeController(t)

	app, stdout, _ := newTestApp("")
	if err := runApp(app, "-a", server.URL, "source", "image", "0", "64"); err != nil {
		t.Fatalf("source image returned error: %v", err)
	}
	if stdout.String() != "jpegbytes" {
		t.Fatalf("stdout = %q, want the raw image bytes", stdout.String())
	}

	outfile := filepath.Join(t.TempDir(), "art.jpg")
	app, stdout, _ = newTestApp("")
	if err := runApp(app, "-a", server.URL, "source", "image", "0", "64", "--outfile", outfile); err != nil {
		t.Fatalf("source image returned error: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout = %q, want empty with --outfile", stdout.String())
	}
	raw, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(raw) != "jpegbytes" {
		t.Fatalf("outfile = %q, want the raw image bytes", raw)
	}
}

func TestStreamTransportVerbs(t *testing.T) {
	isolateConfig(t)
	server, requests := fakeController(t)

	app, _, _ := newTestApp("")
	for _, verb := range []string{"play", "pause", "stop", "next", "previous"} {
		if err := runApp(app, "-a", server.URL, "stream", verb, "7"); err != nil {
			t.Fatalf("stream %s returned error: %v", verb, err)
		}
	}
	joined := strings.Join(*requests, "\n")
	for _, want := range []string{
		"POST /api/streams/7/play",
		"POST /api/streams/7/pause",
		"POST /api/streams/7/stop",
		"POST /api/streams/7/next",
		"POST /api/streams/7/prev",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("requests = %v, want %q", *requests, want)
		}
	}
}

func TestBadIDIsRejectedBeforeAnyRequest(t *testing.T) {
	isolateConfig(t)
	server, requests := fakeController(t)

	app, _, _ := newTestApp("")
	if err := runApp(app, "-a", server.URL, "zone", "get", "kitchen"); err == nil || !strings.Contains(err.Error(), "bad id") {
		t.Fatalf("zone get kitchen = %v, want bad id error", err)
	}
	if len(*requests) != 0 {
		t.Fatalf("requests = %v, want none", *requests)
	}
}
