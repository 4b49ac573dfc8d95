package refstore

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("aligned corpus loads", func(t *testing.T) {
		dir := writeCorpus(t,
			[]int64{0, 0, 1},
			[][]float32{{1, 0}, {0, 1}, {0.5, 0.5}},
			[]string{
				`{"names":[{"ja":"山田","jaKana":"やまだ","en":"Yamada"}]}`,
				`{"names":[{"ja":null,"jaKana":null,"en":"Suzuki"}],"fanza":{"url":"https://example.test"}}`,
			})
		store, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, 3, store.Count())
		assert.Equal(t, 2, store.Dim())
		assert.Equal(t, int64(0), store.IdentityAt(1))
		assert.Equal(t, []float32{0.5, 0.5}, store.EmbeddingAt(2))

		record, err := store.MetadataFor(1)
		require.NoError(t, err)
		require.Len(t, record.Names, 1)
		assert.Equal(t, "Suzuki", *record.Names[0].En)
		assert.Nil(t, record.Names[0].Ja)
		assert.JSONEq(t, `{"url":"https://example.test"}`, string(record.Fanza))
	})

	t.Run("id beyond metadata length fails", func(t *testing.T) {
		dir := writeCorpus(t,
			[]int64{0, 5},
			[][]float32{{1}, {2}},
			[]string{`{"names":[]}`})
		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "misaligned")
	})

	t.Run("negative id fails", func(t *testing.T) {
		dir := writeCorpus(t,
			[]int64{-1},
			[][]float32{{1}},
			[]string{`{"names":[]}`})
		_, err := Load(dir)
		require.Error(t, err)
	})

	t.Run("missing embedding file fails", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFileName), []byte(`{"names":[]}`+"\n"), 0o644))
		_, err := Load(dir)
		require.Error(t, err)
	})

	t.Run("corrupt metadata line fails", func(t *testing.T) {
		dir := writeCorpus(t, []int64{0}, [][]float32{{1}}, nil)
		require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFileName), []byte("{\"names\":[]}\nnot json\n"), 0o644))
		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}

func TestMetadataForOutOfRange(t *testing.T) {
	dir := writeCorpus(t, []int64{0}, [][]float32{{1}}, []string{`{"names":[]}`})
	store, err := Load(dir)
	require.NoError(t, err)

	_, err = store.MetadataFor(9)
	assert.Error(t, err)
	_, err = store.MetadataFor(-1)
	assert.Error(t, err)
}

// writeCorpus materializes actor.npy and actor.jsonl in a temp dir. A nil
// metadata slice skips the jsonl file so the caller can write its own.
func writeCorpus(t *testing.T, ids []int64, embeddings [][]float32, metadataLines []string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EmbeddingFileName), buildTableBytes(ids, embeddings), 0o644))
	if metadataLines != nil {
		content := ""
		for _, line := range metadataLines {
			content += line + "\n"
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFileName), []byte(content), 0o644))
	}
	return dir
}

// buildTableBytes renders the structured array layout np.save produces for
// [('id','<i8'),('embedding','<f4',(d,))].
func buildTableBytes(ids []int64, embeddings [][]float32) []byte {
	dim := 0
	if len(embeddings) > 0 {
		dim = len(embeddings[0])
	}
	dict := fmt.Sprintf(
		"{'descr': [('id', '<i8'), ('embedding', '<f4', (%d,))], 'fortran_order': False, 'shape': (%d,), }\n",
		dim, len(ids))
	out := []byte("\x93NUMPY")
	out = append(out, 1, 0)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(dict)))
	out = append(out, dict...)
	for row := range ids {
		out = binary.LittleEndian.AppendUint64(out, uint64(ids[row]))
		for _, v := range embeddings[row] {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out
}
