package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/klauern/slackmoji/internal/reserved"
	"github.com/klauern/slackmoji/internal/slack"
)

// fakeWorkspace serves a listing of emoji, their images, and the
// emoji.add endpoint, recording activity for assertions.
type fakeWorkspace struct {
	srv *httptest.Server

	emoji        []fakeEmoji
	failListAt   int // page offset that 500s; -1 for never
	failImageFor string

	listRequests atomic.Int64
	uploads      []string
}

type fakeEmoji struct {
	name     string
	aliasFor string
}

func newFakeWorkspace(t *testing.T) *fakeWorkspace {
	t.Helper()
	f := &fakeWorkspace{failListAt: -1}

	mux := http.NewServeMux()
	mux.HandleFunc("/emoji.adminList", func(w http.ResponseWriter, r *http.Request) {
		f.listRequests.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse listing form: %v", err)
		}
		offset := 0
		if cursor := r.FormValue("cursor"); cursor != "" {
			offset, _ = strconv.Atoi(cursor)
		}
		if f.failListAt >= 0 && offset == f.failListAt {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		count, _ := strconv.Atoi(r.FormValue("count"))

		type wireEmoji struct {
			Name     string `json:"name"`
			URL      string `json:"url"`
			IsAlias  int    `json:"is_alias"`
			AliasFor string `json:"alias_for"`
		}
		var page struct {
			OK               bool        `json:"ok"`
			Emoji            []wireEmoji `json:"emoji"`
			ResponseMetadata struct {
				NextCursor string `json:"next_cursor"`
			} `json:"response_metadata"`
		}
		page.OK = true
		end := min(offset+count, len(f.emoji))
		for _, e := range f.emoji[offset:end] {
			entry := wireEmoji{Name: e.name}
			if e.aliasFor != "" {
				entry.IsAlias = 1
				entry.AliasFor = e.aliasFor
			} else {
				entry.URL = f.srv.URL + "/img/" + e.name + ".png"
			}
			page.Emoji = append(page.Emoji, entry)
		}
		if end < len(f.emoji) {
			page.ResponseMetadata.NextCursor = strconv.Itoa(end)
		}
		json.NewEncoder(w).Encode(page)
	})
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/img/"), ".png")
		if name == f.failImageFor {
			http.Error(w, "gone", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "image-bytes-%s", name)
	})
	mux.HandleFunc("/emoji.add", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse upload form: %v", err)
		}
		f.uploads = append(f.uploads, r.FormValue("name"))
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeWorkspace) client() *slack.Client {
	return slack.New(slack.Options{
		Token:      "xoxs-test",
		BaseURL:    f.srv.URL,
		HTTPClient: f.srv.Client(),
	})
}

func TestExportWritesArchive(t *testing.T) {
	f := newFakeWorkspace(t)
	for i := range 250 {
		f.emoji = append(f.emoji, fakeEmoji{name: fmt.Sprintf("emoji_%03d", i)})
	}

	dir := filepath.Join(t.TempDir(), "backup")
	syncer := New(f.client(), reserved.Default(), Options{PageSize: 100})

	res, err := syncer.Export(context.Background(), dir)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if got := len(res.Downloaded()); got != 250 {
		t.Errorf("downloaded %d emoji, want 250", got)
	}
	if got := f.listRequests.Load(); got != 3 {
		t.Errorf("issued %d listing requests, want 3", got)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read archive dir: %v", err)
	}
	if len(files) != 250 {
		t.Errorf("archive holds %d files, want 250", len(files))
	}

	content, err := os.ReadFile(filepath.Join(dir, "emoji_007.png"))
	if err != nil {
		t.Fatalf("read archived image: %v", err)
	}
	if string(content) != "image-bytes-emoji_007" {
		t.Errorf("archived content = %q", content)
	}
}

func TestExportContinuesOnDownloadFailure(t *testing.T) {
	f := newFakeWorkspace(t)
	f.emoji = []fakeEmoji{{name: "good_one"}, {name: "broken"}, {name: "good_two"}}
	f.failImageFor = "broken"

	dir := filepath.Join(t.TempDir(), "backup")
	syncer := New(f.client(), reserved.Default(), Options{})

	res, err := syncer.Export(context.Background(), dir)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if got := len(res.Downloaded()); got != 2 {
		t.Errorf("downloaded %d emoji, want 2", got)
	}
	failed := res.Failed()
	if len(failed) != 1 || failed[0].Name != "broken" {
		t.Errorf("failed items = %+v, want exactly [broken]", failed)
	}
}

func TestExportStopsOnListingFailure(t *testing.T) {
	f := newFakeWorkspace(t)
	for i := range 250 {
		f.emoji = append(f.emoji, fakeEmoji{name: fmt.Sprintf("emoji_%03d", i)})
	}
	f.failListAt = 100

	dir := filepath.Join(t.TempDir(), "backup")
	syncer := New(f.client(), reserved.Default(), Options{PageSize: 100})

	res, err := syncer.Export(context.Background(), dir)
	var listErr *slack.ListError
	if !errors.As(err, &listErr) {
		t.Fatalf("Export error = %v (%T), want *slack.ListError", err, err)
	}
	// The first page was archived before the cursor broke; nothing past
	// it was attempted.
	if got := len(res.Downloaded()); got != 100 {
		t.Errorf("downloaded %d emoji before the failure, want 100", got)
	}
}

func TestExportSkipsAliases(t *testing.T) {
	f := newFakeWorkspace(t)
	f.emoji = []fakeEmoji{{name: "party"}, {name: "woo", aliasFor: "party"}}

	dir := filepath.Join(t.TempDir(), "backup")
	syncer := New(f.client(), reserved.Default(), Options{})

	res, err := syncer.Export(context.Background(), dir)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	skipped := res.SkippedAliases()
	if len(skipped) != 1 || skipped[0].Name != "woo" {
		t.Errorf("skipped aliases = %+v, want exactly [woo]", skipped)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read archive dir: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("archive holds %d files, want 1 (aliases have no image)", len(files))
	}
}

func TestImportSkipsReservedAndUploadsRest(t *testing.T) {
	f := newFakeWorkspace(t)

	dir := t.TempDir()
	for _, name := range []string{"seal.png", "team_mascot.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	syncer := New(f.client(), reserved.Default(), Options{})
	res, err := syncer.Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	conflicts := res.Conflicts()
	if len(conflicts) != 1 || conflicts[0].Name != "seal" {
		t.Errorf("conflicts = %+v, want exactly [seal]", conflicts)
	}
	if len(f.uploads) != 1 || f.uploads[0] != "team_mascot" {
		t.Errorf("uploads = %v, want exactly [team_mascot]", f.uploads)
	}
	uploaded := res.Uploaded()
	if len(uploaded) != 1 || uploaded[0].Name != "team_mascot" {
		t.Errorf("uploaded items = %+v, want exactly [team_mascot]", uploaded)
	}
}

func TestImportMissingDirectory(t *testing.T) {
	f := newFakeWorkspace(t)
	syncer := New(f.client(), reserved.Default(), Options{})

	_, err := syncer.Import(context.Background(), filepath.Join(t.TempDir(), "absent"))
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("Import error = %v (%T), want *ConfigurationError", err, err)
	}
	if len(f.uploads) != 0 {
		t.Errorf("no uploads should be attempted, got %v", f.uploads)
	}
}

func TestResultSummary(t *testing.T) {
	res := &Result{Operation: OpImport, Directory: "backup"}
	res.add(ItemResult{Name: "a", Action: ActionUploaded})
	res.add(ItemResult{Name: "b", Action: ActionConflict})
	res.add(ItemResult{Name: "c", Action: ActionFailed, Error: errors.New("x")})

	summary := res.Summary()
	for _, want := range []string{"import", "3 processed", "1 uploaded", "1 conflicts", "1 failed"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary() = %q, missing %q", summary, want)
		}
	}
	if strings.Contains(summary, "downloaded") {
		t.Errorf("Summary() = %q, should not mention downloads", summary)
	}
}
