// This file is part of sectionmap (https://github.com/spezifisch/sectionmap).
// Copyright (C) 2021-2022 spezifisch <spezifisch-7e6@below.fr> (https://github.com/spezifisch).
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, version 3 of the License.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE. See the GNU Affero General Public License for more
// details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package docsource loads content documents from disk or over HTTP.
package docsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrNotFile is returned for local paths that are not regular files.
	ErrNotFile = errors.New("not a file")
	// ErrStatus is returned for unsuccessful HTTP responses.
	ErrStatus = errors.New("unexpected status")
)

var (
	dataPrefix = regexp.MustCompile(`^(data/)?`)
	jsonSuffix = regexp.MustCompile(`(\.json)?$`)
)

// NormalizeName puts a document name under data/ and gives it a .json
// suffix, unless it already has them. "acts" becomes "data/acts.json".
func NormalizeName(name string) string {
	name = dataPrefix.ReplaceAllLiteralString(name, "data/")
	return jsonSuffix.ReplaceAllLiteralString(name, ".json")
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Source is one content document location.
type Source struct {
	location string
	remote   bool
	client   *retryablehttp.Client
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Doc []byte
	Err error
}

// New resolves name against base, a directory or an http(s) URL. A name that
// is itself an http(s) URL is used as is. Local documents must exist.
func New(base, name string) (s *Source, err error) {
	s = &Source{}
	switch {
	case isRemote(name):
		s.location, s.remote = name, true
	case isRemote(base):
		var u *url.URL
		u, err = url.Parse(base)
		if err != nil {
			return nil, err
		}
		u.Path = path.Join(u.Path, NormalizeName(name))
		s.location, s.remote = u.String(), true
	default:
		s.location = filepath.Join(base, filepath.FromSlash(NormalizeName(name)))
		if err = checkFiles([]string{s.location}); err != nil {
			return nil, err
		}
	}

	if s.remote {
		s.client = retryablehttp.NewClient()
		s.client.HTTPClient.Timeout = 30 * time.Second
		s.client.Logger = nil
		s.client.RetryMax = 3
	}
	return
}

func checkFiles(files []string) (err error) {
	for _, file := range files {
		var fi os.FileInfo
		fi, err = os.Stat(file)
		if err != nil {
			return
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("'%s': %w", file, ErrNotFile)
		}
	}
	return
}

// Location returns the resolved path or URL.
func (s *Source) Location() string { return s.location }

// Remote reports whether the document is fetched over HTTP.
func (s *Source) Remote() bool { return s.remote }

// Fetch reads the whole document.
func (s *Source) Fetch(ctx context.Context) (doc []byte, err error) {
	logger := log.WithField("location", s.location)
	if s.remote {
		doc, err = s.get(ctx)
	} else {
		doc, err = os.ReadFile(s.location)
	}
	if err != nil {
		logger.WithError(err).Error("document fetch failed")
		return nil, err
	}
	logger.WithField("bytes", len(doc)).Info("document fetched")
	return
}

func (s *Source) get(ctx context.Context) (doc []byte, err error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Run fetches the document and delivers the outcome on output. It is meant
// to be started as a goroutine.
func (s *Source) Run(ctx context.Context, output chan<- Result) {
	doc, err := s.Fetch(ctx)
	select {
	case output <- Result{Doc: doc, Err: err}:
	case <-ctx.Done():
		log.WithField("location", s.location).Info("document load cancelled")
	}
}
