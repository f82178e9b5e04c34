// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package hubenv

import (
	"errors"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[string]string

func (f fakeResolver) HomeDir(username string) (string, error) {
	if h, ok := f[username]; ok {
		return h, nil
	}
	return "", errors.New("no such user")
}

func TestHook_Environment(t *testing.T) {
	hook := NewHook(fakeResolver{"alice": "/home/alice"}, nil)

	env, err := hook.Environment("alice")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"MPLCONFIGDIR":    "/home/alice/.mpl",
		"NUMBA_CACHE_DIR": "/home/alice/.numba",
	}, env)
}

func TestHook_CustomDirs(t *testing.T) {
	hook := NewHook(fakeResolver{"bob": "/srv/bob"}, []CacheDir{{EnvVar: "XDG_CACHE_HOME", Subdir: ".cache"}})

	env, err := hook.Environment("bob")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"XDG_CACHE_HOME": "/srv/bob/.cache"}, env)
}

func TestHook_UnknownUser(t *testing.T) {
	hook := NewHook(fakeResolver{}, nil)

	_, err := hook.Environment("mallory")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestHook_InvalidUsername(t *testing.T) {
	hook := NewHook(fakeResolver{"..": "/"}, nil)

	for _, name := range []string{"", ".", "..", "a/b", `a\b`, "a\x00b"} {
		t.Run(name, func(t *testing.T) {
			_, err := hook.Environment(name)
			assert.ErrorIs(t, err, ErrInvalidUsername)
		})
	}
}

func TestHook_Apply(t *testing.T) {
	hook := NewHook(fakeResolver{"alice": "/home/alice"}, nil)
	environ := []string{"PATH=/usr/bin", "MPLCONFIGDIR=/tmp/shared", "LANG=C"}

	got, err := hook.Apply(environ, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"PATH=/usr/bin",
		"MPLCONFIGDIR=/home/alice/.mpl",
		"LANG=C",
		"NUMBA_CACHE_DIR=/home/alice/.numba",
	}, got)

	// The input is left untouched.
	assert.Equal(t, "MPLCONFIGDIR=/tmp/shared", environ[1])
}

func TestHook_ApplyError(t *testing.T) {
	hook := NewHook(fakeResolver{}, nil)
	_, err := hook.Apply(nil, "ghost")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestStaticHomeResolver(t *testing.T) {
	home, err := StaticHomeResolver{Root: "/home"}.HomeDir("carol")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home", "carol"), home)

	_, err = StaticHomeResolver{}.HomeDir("carol")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestOSHomeResolver_CurrentUser(t *testing.T) {
	me, err := user.Current()
	if err != nil || me.HomeDir == "" {
		t.Skip("current user not resolvable on this host")
	}

	env, err := NewHook(nil, nil).Environment(me.Username)
	if errors.Is(err, ErrInvalidUsername) {
		t.Skip("current username is not a plain name on this host")
	}
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(me.HomeDir, ".mpl"), env["MPLCONFIGDIR"])
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, SortedKeys(map[string]string{"C": "", "A": "", "B": ""}))
}
