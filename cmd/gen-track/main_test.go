package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"line-tracer/internal/track"
)

func TestGenerateOvalWithPNG(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "oval.toml")
	img := filepath.Join(dir, "oval.png")

	rootCmd.SetArgs([]string{"--program", "oval", "--straight", "0.8", "--radius", "0.3",
		"--out", out, "--png", img, "--scale", "200"})
	require.NoError(t, rootCmd.Execute())

	c, err := track.LoadFile(out)
	require.NoError(t, err)
	segs := c.Segments()
	require.Len(t, segs, 4)
	assert.True(t, track.IsClosed(segs, track.Epsilon))
	assert.Len(t, c.Marks(), 5)

	f, err := os.Open(img)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	// 1.4 m wide plus line width and a 20 px margin each side
	assert.InDelta(t, 1.419*200+40, cfg.Width, 2)
}

func TestUnknownProgram(t *testing.T) {
	rootCmd.SetArgs([]string{"--program", "spiral", "--out", filepath.Join(t.TempDir(), "x.toml"), "--png", ""})
	assert.ErrorContains(t, rootCmd.Execute(), "unknown program")
}
