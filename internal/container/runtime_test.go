// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImage = "pdftotext:latest"

// fakeExec answers LookPath from onPath and RunSilent from ok, keyed by the
// full command line.
type fakeExec struct {
	onPath []string
	ok     []string
	piped  func(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

func (f *fakeExec) LookPath(file string) (string, error) {
	if slices.Contains(f.onPath, file) {
		return "/usr/local/bin/" + file, nil
	}
	return "", fmt.Errorf("%s: executable file not found in $PATH", file)
}

func (f *fakeExec) RunSilent(name string, args ...string) error {
	line := strings.Join(append([]string{name}, args...), " ")
	if slices.Contains(f.ok, line) {
		return nil
	}
	return fmt.Errorf("exit status 1: %s", line)
}

func (f *fakeExec) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	if f.piped == nil {
		return nil
	}
	return f.piped(name, args, stdin, stdout)
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name   string
		onPath []string
		ok     []string
		want   string
	}{
		{"docker only", []string{"docker"}, []string{"docker info"}, "docker"},
		{"podman only", []string{"podman"}, []string{"podman info"}, "podman"},
		{"docker daemon down", []string{"docker", "podman"}, []string{"podman info"}, "podman"},
		{"docker preferred", []string{"docker", "podman"}, []string{"docker info", "podman info"}, "docker"},
		{"podman installed but broken", []string{"podman"}, nil, ""},
		{"nothing installed", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(&fakeExec{onPath: tt.onPath, ok: tt.ok})
			if tt.want == "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				assert.Nil(t, rt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	present := []string{
		"docker image inspect " + testImage,
		"podman image exists " + testImage,
	}
	for _, rt := range []*runtime{newDockerRuntime(&fakeExec{ok: present}), newPodmanRuntime(&fakeExec{ok: present})} {
		t.Run(rt.Name(), func(t *testing.T) {
			assert.NoError(t, rt.ImageExists(testImage))

			err := rt.ImageExists("ocr:missing")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "image ocr:missing not found in "+rt.Name())
		})
	}
}

func TestRun(t *testing.T) {
	var gotArgs []string
	rt := newDockerRuntime(&fakeExec{
		piped: func(name string, args []string, stdin io.Reader, stdout io.Writer) error {
			gotArgs = append([]string{name}, args...)
			data, _ := io.ReadAll(stdin)
			_, _ = stdout.Write([]byte("text of " + string(data)))
			return nil
		},
	})

	var out bytes.Buffer
	err := rt.Run(context.Background(), testImage, []string{"-layout", "-", "-"}, strings.NewReader("pdf"), &out)
	require.NoError(t, err)
	assert.Equal(t, "text of pdf", out.String())
	assert.Equal(t, []string{"docker", "run", "--rm", "-i", "--network", "none", testImage, "-layout", "-", "-"}, gotArgs)
}

func TestRunFailureWrapsError(t *testing.T) {
	rt := newPodmanRuntime(&fakeExec{
		piped: func(string, []string, io.Reader, io.Writer) error {
			return errors.New("container exited with code 1")
		},
	})
	err := rt.Run(context.Background(), testImage, nil, strings.NewReader(""), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running podman container "+testImage)
	assert.Contains(t, err.Error(), "exited with code 1")
}
