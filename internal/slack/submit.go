package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/klauern/slackmoji/internal/logging"
)

// addEndpoint registers a new custom emoji, either from image data or as
// an alias for an existing one.
const addEndpoint = "emoji.add"

// maxRetries is the number of additional attempts made after the first
// when the server answers with a rate-limit signal.
const maxRetries = 3

// submission describes one logical emoji.add call. The same retry loop
// serves both uploads and aliases; they differ only in the form payload
// and in how the item is identified in messages.
type submission struct {
	// Operation is a short verb phrase used in error messages, e.g.
	// "upload emoji".
	Operation string
	// Key identifies the payload: the emoji name, or the alias pair.
	Key string
	// BuildForm writes the mode-specific multipart fields for one attempt.
	// It is invoked freshly on every attempt so single-use resources such
	// as file handles are re-opened rather than reused.
	BuildForm func(w *multipart.Writer) error
}

// apiResponse is the minimal emoji.add response body.
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// UploadEmoji registers name with the image produced by open. open is
// called once per attempt; each returned reader is fully consumed and
// closed before the request is sent.
func (c *Client) UploadEmoji(ctx context.Context, name, filename string, open func() (io.ReadCloser, error)) error {
	return c.submit(ctx, submission{
		Operation: "upload emoji",
		Key:       name,
		BuildForm: func(w *multipart.Writer) error {
			if err := w.WriteField("mode", "data"); err != nil {
				return err
			}
			if err := w.WriteField("name", name); err != nil {
				return err
			}
			part, err := w.CreateFormFile("image", filename)
			if err != nil {
				return err
			}
			src, err := open()
			if err != nil {
				return err
			}
			defer src.Close()
			_, err = io.Copy(part, src)
			return err
		},
	})
}

// AddAlias registers name as an alias for aliasFor.
func (c *Client) AddAlias(ctx context.Context, name, aliasFor string) error {
	return c.submit(ctx, submission{
		Operation: "add alias",
		Key:       fmt.Sprintf("'%s' for '%s'", name, aliasFor),
		BuildForm: func(w *multipart.Writer) error {
			if err := w.WriteField("mode", "alias"); err != nil {
				return err
			}
			if err := w.WriteField("name", name); err != nil {
				return err
			}
			return w.WriteField("alias_for", aliasFor)
		},
	})
}

// submit runs the bounded retry loop around one emoji.add call.
//
// A Retry-After header on the response is treated as a throttle signal:
// the loop waits the server-dictated number of seconds and rebuilds the
// request from scratch, up to maxRetries additional attempts. Exceeding
// the bound terminates with RetryExhaustedError. Otherwise the body is
// parsed; an ok:false response terminates with RejectedError.
//
// On both the success and rejected paths a fixed one-second cool-down is
// imposed before returning, damping the request rate so the very next
// call is less likely to re-trigger the limit. The exhausted path has
// already waited and skips it.
func (c *Client) submit(ctx context.Context, sub submission) error {
	var attempts int
	for {
		body := &bytes.Buffer{}
		form := multipart.NewWriter(body)
		if err := sub.BuildForm(form); err != nil {
			return fmt.Errorf("%s %s: build form: %w", sub.Operation, sub.Key, err)
		}
		if err := form.WriteField("token", c.token); err != nil {
			return fmt.Errorf("%s %s: build form: %w", sub.Operation, sub.Key, err)
		}
		if err := form.Close(); err != nil {
			return fmt.Errorf("%s %s: build form: %w", sub.Operation, sub.Key, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL(addEndpoint), body)
		if err != nil {
			return fmt.Errorf("%s %s: build request: %w", sub.Operation, sub.Key, err)
		}
		req.Header.Set("Content-Type", form.FormDataContentType())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", sub.Operation, sub.Key, err)
		}

		if wait := resp.Header.Get("Retry-After"); wait != "" {
			resp.Body.Close()
			if attempts == maxRetries {
				return &RetryExhaustedError{
					Operation: sub.Operation,
					Key:       sub.Key,
					Attempts:  attempts + 1,
				}
			}
			attempts++
			seconds, err := strconv.Atoi(wait)
			if err != nil {
				return fmt.Errorf("%s %s: parse retry-after %q: %w", sub.Operation, sub.Key, wait, err)
			}
			logging.Debug("hit rate limit, backing off",
				logging.Endpoint(addEndpoint),
				logging.Operation(sub.Operation),
				logging.Emoji(sub.Key),
				logging.KeyWait, seconds,
				logging.KeyAttempt, attempts)
			if err := c.sleep(ctx, time.Duration(seconds)*time.Second); err != nil {
				return err
			}
			continue
		}

		var result apiResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("%s %s: parse response: %w", sub.Operation, sub.Key, err)
		}

		if cerr := c.sleep(ctx, c.cooldown); cerr != nil && result.OK {
			return cerr
		}
		if !result.OK || result.Error != "" {
			return &RejectedError{
				Operation: sub.Operation,
				Key:       sub.Key,
				Reason:    result.Error,
			}
		}
		return nil
	}
}
