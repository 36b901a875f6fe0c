package pack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/packforge/internal/model"
)

func writeSounds(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("pcm:"+name), 0644))
	}
}

func newTestAssembler() *Assembler {
	return NewAssembler(DefaultKeywordTable(), "tester", "test pack", nil)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"ocean-calm", "Ocean Calm"},
		{"demo", "Demo"},
		{"my-big-pack", "My Big Pack"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, DisplayName(tt.id), tt.id)
	}
}

func TestAssemble_KeywordPriority(t *testing.T) {
	soundsDir := t.TempDir()
	outputRoot := t.TempDir()
	// stop_chime matches the first keyword "stop"; alert_bell only
	// matches the later keyword "bell" and must lose.
	writeSounds(t, soundsDir, "alert_bell.aiff", "stop_chime.aiff")

	manifest, err := newTestAssembler().Assemble("demo", "1.0.0", soundsDir, outputRoot)
	require.NoError(t, err)

	assert.Equal(t, "stop_chime.aiff", manifest.Events[EventStop])
}

func TestAssemble_FallbackToFirstFile(t *testing.T) {
	soundsDir := t.TempDir()
	outputRoot := t.TempDir()
	// Nothing here matches any subagent keyword.
	writeSounds(t, soundsDir, "zz_last.aiff", "aa_first.aiff")

	manifest, err := newTestAssembler().Assemble("demo", "1.0.0", soundsDir, outputRoot)
	require.NoError(t, err)

	assert.Equal(t, "aa_first.aiff", manifest.Events[EventSubagent])
}

func TestAssemble_OmitsEventsWhenNoFiles(t *testing.T) {
	soundsDir := t.TempDir()
	outputRoot := t.TempDir()

	manifest, err := newTestAssembler().Assemble("demo", "1.0.0", soundsDir, outputRoot)
	require.NoError(t, err)

	assert.Empty(t, manifest.Events)

	// The key must be absent, not empty, in the written JSON too.
	data, err := os.ReadFile(filepath.Join(outputRoot, "demo", ManifestFileName))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	events, ok := raw["events"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, events, EventStop)
}

func TestAssemble_CopiesEntireNormalizedSet(t *testing.T) {
	soundsDir := t.TempDir()
	outputRoot := t.TempDir()
	writeSounds(t, soundsDir, "stop_chime.aiff", "unmatched_noise.aiff")

	_, err := newTestAssembler().Assemble("demo", "1.0.0", soundsDir, outputRoot)
	require.NoError(t, err)

	// All files are copied, not only the selected ones.
	assert.FileExists(t, filepath.Join(outputRoot, "demo", SoundsDirName, "stop_chime.aiff"))
	assert.FileExists(t, filepath.Join(outputRoot, "demo", SoundsDirName, "unmatched_noise.aiff"))
}

func TestAssemble_ManifestContents(t *testing.T) {
	soundsDir := t.TempDir()
	outputRoot := t.TempDir()
	writeSounds(t, soundsDir, "stop_chime.aiff")

	manifest, err := newTestAssembler().Assemble("ocean-calm", "2.1.0", soundsDir, outputRoot)
	require.NoError(t, err)

	assert.Equal(t, "ocean-calm", manifest.ID)
	assert.Equal(t, "Ocean Calm", manifest.Name)
	assert.Equal(t, "tester", manifest.Author)
	assert.Equal(t, "test pack", manifest.Description)
	assert.Equal(t, "2.1.0", manifest.Version)
}

func TestAssemble_Deterministic(t *testing.T) {
	soundsDir := t.TempDir()
	writeSounds(t, soundsDir, "stop_chime.aiff", "idle_soft.aiff", "agent_task.aiff")

	run := func() []byte {
		outputRoot := t.TempDir()
		_, err := newTestAssembler().Assemble("demo", "1.0.0", soundsDir, outputRoot)
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(outputRoot, "demo", ManifestFileName))
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, run(), run())
}

func TestAssemble_Idempotent(t *testing.T) {
	soundsDir := t.TempDir()
	outputRoot := t.TempDir()
	writeSounds(t, soundsDir, "stop_chime.aiff")

	assembler := newTestAssembler()
	first, err := assembler.Assemble("demo", "1.0.0", soundsDir, outputRoot)
	require.NoError(t, err)

	// Second run overwrites in place, no merge with the prior manifest.
	second, err := assembler.Assemble("demo", "1.0.0", soundsDir, outputRoot)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssemble_ManifestEventsReferenceExistingFiles(t *testing.T) {
	soundsDir := t.TempDir()
	outputRoot := t.TempDir()
	writeSounds(t, soundsDir, "stop_chime.aiff", "idle_soft.aiff")

	manifest, err := newTestAssembler().Assemble("demo", "1.0.0", soundsDir, outputRoot)
	require.NoError(t, err)

	for event, file := range manifest.Events {
		assert.FileExists(t, filepath.Join(outputRoot, "demo", SoundsDirName, file), event)
	}
}

func TestAssemble_RejectsEmptyPackID(t *testing.T) {
	_, err := newTestAssembler().Assemble("", "1.0.0", t.TempDir(), t.TempDir())
	assert.ErrorIs(t, err, model.ErrEmptyPackID)
}

func TestMatchKeywords_CaseSensitive(t *testing.T) {
	// Matching is a case-sensitive substring check.
	_, matched := matchKeywords([]string{"stop"}, []string{"STOP_chime.aiff"})
	assert.False(t, matched)

	file, matched := matchKeywords([]string{"stop"}, []string{"stop_chime.aiff"})
	assert.True(t, matched)
	assert.Equal(t, "stop_chime.aiff", file)
}
