// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package hubenv computes per-user cache environment variables for spawned
// notebook servers.
//
// Shared hub deployments run every single-user server from the same image,
// so library caches that default to a shared location (matplotlib's font
// cache, numba's JIT cache) collide between users. The Hook maps a user name
// to cache directories under that user's home and renders them as
// environment variables for the spawner.
package hubenv

import (
	"errors"
	"fmt"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrInvalidUsername is returned for names that are empty or could
	// escape the home directory layout.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrUnknownUser is returned when the home directory of a user cannot
	// be resolved.
	ErrUnknownUser = errors.New("unknown user")
)

// CacheDir binds an environment variable to a directory relative to the
// user's home.
type CacheDir struct {
	// EnvVar is the variable the spawner sets, e.g. "MPLCONFIGDIR".
	EnvVar string `yaml:"env_var" json:"env_var" validate:"required"`

	// Subdir is joined onto the user's home, e.g. ".mpl".
	Subdir string `yaml:"subdir" json:"subdir" validate:"required"`
}

// DefaultCacheDirs returns the matplotlib and numba cache directories.
func DefaultCacheDirs() []CacheDir {
	return []CacheDir{
		{EnvVar: "MPLCONFIGDIR", Subdir: ".mpl"},
		{EnvVar: "NUMBA_CACHE_DIR", Subdir: ".numba"},
	}
}

// HomeResolver looks up a user's home directory.
type HomeResolver interface {
	HomeDir(username string) (string, error)
}

// OSHomeResolver resolves home directories from the host user database.
type OSHomeResolver struct{}

// HomeDir implements HomeResolver.
func (OSHomeResolver) HomeDir(username string) (string, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnknownUser, username, err)
	}
	if u.HomeDir == "" {
		return "", fmt.Errorf("%w: %s has no home directory", ErrUnknownUser, username)
	}
	return u.HomeDir, nil
}

// StaticHomeResolver resolves every user to Root/<username>. It suits
// deployments where homes live on a shared volume that the hub host has no
// passwd entries for.
type StaticHomeResolver struct {
	Root string
}

// HomeDir implements HomeResolver.
func (s StaticHomeResolver) HomeDir(username string) (string, error) {
	if s.Root == "" {
		return "", fmt.Errorf("%w: no home root configured", ErrUnknownUser)
	}
	return filepath.Join(s.Root, username), nil
}

// Hook computes cache environment variables for a user.
//
// # Thread Safety
//
// Safe for concurrent use if the HomeResolver is.
type Hook struct {
	dirs     []CacheDir
	resolver HomeResolver
}

// NewHook creates a Hook. A nil resolver uses OSHomeResolver; an empty dirs
// uses DefaultCacheDirs.
func NewHook(resolver HomeResolver, dirs []CacheDir) *Hook {
	if resolver == nil {
		resolver = OSHomeResolver{}
	}
	if len(dirs) == 0 {
		dirs = DefaultCacheDirs()
	}
	cp := make([]CacheDir, len(dirs))
	copy(cp, dirs)
	return &Hook{dirs: cp, resolver: resolver}
}

// Environment returns the cache variables for username.
//
// # Description
//
// Each configured CacheDir becomes <home>/<subdir>, where home is the
// resolver's answer for username.
//
// # Outputs
//
//   - map[string]string: EnvVar -> absolute directory.
//   - error: ErrInvalidUsername or ErrUnknownUser.
//
// # Example
//
//	env, err := hubenv.NewHook(nil, nil).Environment("alice")
//	// env["MPLCONFIGDIR"] == "/home/alice/.mpl"
func (h *Hook) Environment(username string) (map[string]string, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	home, err := h.resolver.HomeDir(username)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownUser, username, err)
	}
	env := make(map[string]string, len(h.dirs))
	for _, d := range h.dirs {
		env[d.EnvVar] = filepath.Join(home, d.Subdir)
	}
	return env, nil
}

// Apply returns a copy of environ (KEY=VALUE entries, as from os.Environ)
// with the cache variables for username set. Existing entries for those
// variables are replaced in place; new ones are appended in sorted order.
func (h *Hook) Apply(environ []string, username string) ([]string, error) {
	env, err := h.Environment(username)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(environ)+len(env))
	set := make(map[string]bool, len(env))
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		if v, ok := env[key]; ok {
			out = append(out, key+"="+v)
			set[key] = true
			continue
		}
		out = append(out, kv)
	}
	for _, key := range SortedKeys(env) {
		if !set[key] {
			out = append(out, key+"="+env[key])
		}
	}
	return out, nil
}

// ValidateUsername rejects names that are empty, contain a path separator or
// NUL, or are "." or "..".
func ValidateUsername(username string) error {
	switch {
	case username == "":
		return fmt.Errorf("%w: empty", ErrInvalidUsername)
	case username == "." || username == "..":
		return fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	case strings.ContainsAny(username, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidUsername, username)
	}
	return nil
}

// SortedKeys returns the keys of env in lexical order.
func SortedKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
