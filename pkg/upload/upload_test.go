package upload

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/netcfg-audit/pkg/auditerr"
	"github.com/user/netcfg-audit/pkg/logging"
)

func buildZip(t *testing.T, entries map[string]string, dirs ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, d := range dirs {
		_, err := zw.Create(d)
		require.NoError(t, err)
	}
	for _, name := range []string{"site-a/sw1.cfg", "site-a/sw2.cfg", "r1.txt"} {
		content, ok := entries[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	assert.Equal(t, "hostname sw1", Decode([]byte("hostname sw1")))
	assert.Equal(t, "hostname sw1", Decode([]byte("\xef\xbb\xbfhostname sw1")))
	assert.Equal(t, "description café", Decode([]byte("description caf\xe9")))
	assert.Equal(t, "", Decode(nil))
}

func TestExpand_PlainFile(t *testing.T) {
	srcs, err := Expand("configs/sw1.txt", []byte("hostname sw1"))
	require.NoError(t, err)
	require.Len(t, srcs, 1)
	assert.Equal(t, "configs/sw1.txt", srcs[0].Name)
}

func TestExpand_Zip(t *testing.T) {
	data := buildZip(t, map[string]string{
		"site-a/sw1.cfg": "hostname sw1",
		"site-a/sw2.cfg": "hostname sw2",
		"r1.txt":         "hostname r1",
	}, "site-a/")

	srcs, err := Expand("batch.ZIP", data)
	require.NoError(t, err)
	require.Len(t, srcs, 3)
	assert.Equal(t, "site-a/sw1.cfg", srcs[0].Name)
	assert.Equal(t, "site-a/sw2.cfg", srcs[1].Name)
	assert.Equal(t, "r1.txt", srcs[2].Name)
	assert.Equal(t, "hostname r1", string(srcs[2].Data))
}

func TestExpand_ZipWithoutExtensionIsSniffed(t *testing.T) {
	data := buildZip(t, map[string]string{"r1.txt": "hostname r1"})

	srcs, err := Expand("upload", data)
	require.NoError(t, err)
	require.Len(t, srcs, 1)
	assert.Equal(t, "r1.txt", srcs[0].Name)
}

// testdata/configs.rar is a RAR 4 archive with stored entries: the directory
// site1, site1\core.cfg and edge.cfg.
func TestExpand_Rar(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "configs.rar"))
	require.NoError(t, err)

	for _, name := range []string{"configs.rar", "upload"} {
		t.Run(name, func(t *testing.T) {
			srcs, err := Expand(name, data)
			require.NoError(t, err)
			require.Len(t, srcs, 2)
			assert.Equal(t, "site1/core.cfg", srcs[0].Name)
			assert.Equal(t, "hostname core\nip http server\n", string(srcs[0].Data))
			assert.Equal(t, "edge.cfg", srcs[1].Name)
			assert.Equal(t, "hostname edge\naaa new-model\n", string(srcs[1].Data))
		})
	}
}

func TestExpand_CorruptArchives(t *testing.T) {
	for _, name := range []string{"broken.zip", "broken.rar"} {
		t.Run(name, func(t *testing.T) {
			srcs, err := Expand(name, []byte("definitely not an archive"))
			require.Error(t, err)
			assert.Empty(t, srcs)
			assert.Equal(t, auditerr.KindArchive, auditerr.KindOf(err))
		})
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "sw1.cfg"), []byte("hostname sw1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.zip"), []byte("garbage"), 0o644))
	zipPath := filepath.Join(dir, "bundle.zip")
	require.NoError(t, os.WriteFile(zipPath, buildZip(t, map[string]string{"r1.txt": "hostname r1"}), 0o644))

	paths := []string{
		filepath.Join(dir, "configs"),
		filepath.Join(dir, "bad.zip"),
		filepath.Join(dir, "missing.cfg"),
		zipPath,
	}
	srcs, errs := Collect(paths, logging.Discard())

	assert.Len(t, errs, 2)
	require.Len(t, srcs, 2)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "configs", "sw1.cfg")), srcs[0].Name)
	assert.Equal(t, "r1.txt", srcs[1].Name)

	docs := Documents(srcs)
	require.Len(t, docs, 2)
	assert.Equal(t, "hostname r1", docs[1].Text)
}
