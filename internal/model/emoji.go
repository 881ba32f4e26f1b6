// Package model defines the core data types shared across slackmoji.
package model

import (
	"errors"
	"fmt"
)

// Emoji is a single custom emoji known to the remote workspace.
// Exactly one of ImageURL and AliasFor is set: an emoji either carries its
// own image or aliases another emoji's image.
type Emoji struct {
	// Name is the emoji short code and the unique identifier within a
	// workspace.
	Name string

	// ImageURL is the remote URL of the original image for image-backed
	// emoji. Empty for aliases.
	ImageURL string

	// AliasFor names the emoji this entry aliases. Empty for image-backed
	// emoji.
	AliasFor string
}

// IsAlias reports whether the emoji aliases another emoji rather than
// carrying its own image.
func (e Emoji) IsAlias() bool {
	return e.AliasFor != ""
}

// Validate checks the image/alias invariant.
func (e Emoji) Validate() error {
	if e.Name == "" {
		return errors.New("emoji has no name")
	}
	if e.ImageURL == "" && e.AliasFor == "" {
		return fmt.Errorf("emoji %q has neither an image URL nor an alias target", e.Name)
	}
	if e.ImageURL != "" && e.AliasFor != "" {
		return fmt.Errorf("emoji %q has both an image URL and an alias target", e.Name)
	}
	return nil
}

// String returns a short human-readable description.
func (e Emoji) String() string {
	if e.IsAlias() {
		return fmt.Sprintf("%s (alias for %s)", e.Name, e.AliasFor)
	}
	return e.Name
}
