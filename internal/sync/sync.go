// Package sync implements the export and import flows that move custom
// emoji between a Slack workspace and a local archive directory.
//
// Both flows process one emoji at a time, in the order the source
// sequence yields them. A fault on a single item is recorded in the run's
// Result and never aborts the remaining items; only whole-sequence faults
// (a broken listing cursor, a missing archive directory) end a run early.
// No partial-run state is persisted: a rerun is a clean retry from the
// top, safe because archive writes overwrite.
package sync

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauern/slackmoji/internal/archive"
	"github.com/klauern/slackmoji/internal/logging"
	"github.com/klauern/slackmoji/internal/model"
	"github.com/klauern/slackmoji/internal/progress"
	"github.com/klauern/slackmoji/internal/reserved"
	"github.com/klauern/slackmoji/internal/slack"
)

// Options configures a Syncer.
type Options struct {
	// PageSize is the listing page size for export. Zero selects
	// slack.DefaultPageSize.
	PageSize int
	// Progress enables progress indicators on stderr.
	Progress bool
}

// Syncer runs export and import flows against one workspace.
type Syncer struct {
	client   *slack.Client
	reserved *reserved.Set
	opts     Options
}

// New creates a Syncer. A nil reserved set disables the import-time
// conflict check.
func New(client *slack.Client, reservedSet *reserved.Set, opts Options) *Syncer {
	return &Syncer{client: client, reserved: reservedSet, opts: opts}
}

// Export downloads every custom emoji in the workspace into the archive
// directory at dir, creating it if needed.
//
// A failed download of a single image is recorded and the flow moves on;
// a listing-page failure ends the flow and is returned, since the page
// cursor is gone and the remaining pages cannot be reached. The partial
// Result is returned in both cases.
func (s *Syncer) Export(ctx context.Context, dir string) (*Result, error) {
	defer logging.Timer("export")()

	d := archive.New(dir)
	if err := d.EnsureExists(); err != nil {
		return nil, &ConfigurationError{Directory: dir, Err: err}
	}

	res := &Result{Operation: OpExport, Directory: dir}
	bar := progress.New(progress.Options{
		Max:         -1,
		Description: "Exporting emoji",
		Enabled:     s.opts.Progress,
	})
	defer bar.Finish()

	for emoji, err := range slack.NewPaginator(s.client, s.opts.PageSize).Emoji(ctx) {
		if err != nil {
			logging.Error("emoji listing failed", logging.Err(err))
			return res, err
		}
		bar.Add(1)

		if emoji.IsAlias() {
			res.add(ItemResult{
				Name:    emoji.Name,
				Action:  ActionSkippedAlias,
				Message: fmt.Sprintf("alias for %s, no image to download", emoji.AliasFor),
			})
			continue
		}

		if err := s.download(ctx, emoji, d); err != nil {
			logging.Error("emoji download failed", logging.Emoji(emoji.Name), logging.Err(err))
			res.add(ItemResult{Name: emoji.Name, Action: ActionFailed, Error: err})
			continue
		}
		logging.Info("exported emoji", logging.Emoji(emoji.Name))
		res.add(ItemResult{Name: emoji.Name, Action: ActionDownloaded})
	}
	return res, nil
}

// download streams one emoji image into the archive.
func (s *Syncer) download(ctx context.Context, emoji model.Emoji, d *archive.Dir) error {
	body, err := s.client.Download(ctx, emoji.ImageURL)
	if err != nil {
		return err
	}
	defer body.Close()
	if _, err := d.Write(emoji, body); err != nil {
		return err
	}
	return nil
}

// Import uploads every archived emoji in dir to the workspace, skipping
// names reserved by the Unicode emoji standard.
//
// A missing or inaccessible archive directory is a precondition failure
// and returns a ConfigurationError before any entry is touched. Per-entry
// upload failures are recorded and do not stop the remaining entries.
func (s *Syncer) Import(ctx context.Context, dir string) (*Result, error) {
	defer logging.Timer("import")()

	d := archive.New(dir)
	ok, err := d.Exists()
	if err != nil {
		return nil, &ConfigurationError{Directory: dir, Err: err}
	}
	if !ok {
		return nil, &ConfigurationError{Directory: dir}
	}

	res := &Result{Operation: OpImport, Directory: dir}
	bar := progress.New(progress.Options{
		Max:         -1,
		Description: "Importing emoji",
		Enabled:     s.opts.Progress,
	})
	defer bar.Finish()

	for entry, err := range d.Scan() {
		if err != nil {
			// The only scan failure is reading the directory itself,
			// which makes the whole run unusable.
			return res, &ConfigurationError{Directory: dir, Err: err}
		}
		bar.Add(1)

		if s.reserved != nil && s.reserved.Contains(entry.Name) {
			logging.Warn("cannot import due to conflicting short code name (Unicode emoji standard)",
				logging.Emoji(entry.Name))
			res.add(ItemResult{
				Name:    entry.Name,
				Action:  ActionConflict,
				Message: "name collides with the Unicode emoji standard",
			})
			continue
		}

		if err := s.upload(ctx, entry); err != nil {
			logging.Error("emoji upload failed", logging.Emoji(entry.Name), logging.Err(err))
			res.add(ItemResult{Name: entry.Name, Action: ActionFailed, Error: err})
			continue
		}
		logging.Info("uploaded emoji", logging.Emoji(entry.Name), logging.Path(entry.Filename))
		res.add(ItemResult{Name: entry.Name, Action: ActionUploaded})
	}
	return res, nil
}

// upload submits one archive entry through the rate-limited requester.
// The file is re-opened on every attempt so a retried request never
// reuses a consumed stream.
func (s *Syncer) upload(ctx context.Context, entry archive.Entry) error {
	return s.client.UploadEmoji(ctx, entry.Name, entry.Filename, func() (io.ReadCloser, error) {
		return os.Open(entry.Path)
	})
}
