package track

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	orig, err := Generate(OvalProgram(1, 0.5), DefaultParams())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, orig))
	assert.Contains(t, buf.String(), `type = "arc"`)

	loaded, err := Load(&buf)
	require.NoError(t, err)

	approx := cmpopts.EquateApprox(0, 1e-12)
	if d := cmp.Diff(orig.Segments(), loaded.Segments(), approx); d != "" {
		t.Errorf("segments differ (-want +got):\n%s", d)
	}
	if d := cmp.Diff(orig.Marks(), loaded.Marks(), approx); d != "" {
		t.Errorf("marks differ (-want +got):\n%s", d)
	}
	assert.Equal(t, orig.Params, loaded.Params)
}

func TestSaveSkipsPending(t *testing.T) {
	c := NewCourse(DefaultParams())
	c.SetStartPoint(v(0, 0))
	c.ProposeLine(v(1, 0))

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, c))
	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Empty(t, loaded.Segments())
}

func TestLoadUnknownType(t *testing.T) {
	doc := `
half_line_width = 0.0095

[[segments]]
type = "spiral"
`
	_, err := Load(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrUnknownSegmentType)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(strings.NewReader("segments = ["))
	assert.Error(t, err)
}

func TestFileRoundTrip(t *testing.T) {
	c, err := Generate(DefaultProgram(), DefaultParams())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "course.toml")
	require.NoError(t, SaveFile(path, c))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Segments(), len(c.Segments()))
	assert.NoError(t, Validate(loaded.Segments(), Epsilon))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
