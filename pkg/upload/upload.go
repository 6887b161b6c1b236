package upload

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/nwaples/rardecode"
	"github.com/sirupsen/logrus"

	"github.com/user/netcfg-audit/pkg/auditerr"
	"github.com/user/netcfg-audit/pkg/engine"
)

// Source is one uploaded configuration before decoding.
type Source struct {
	Name string
	Data []byte
}

type kind int

const (
	kindPlain kind = iota
	kindZip
	kindRar
)

func detect(name string, data []byte) kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zip":
		return kindZip
	case ".rar":
		return kindRar
	case "":
		// no extension: fall back to content sniffing
	default:
		return kindPlain
	}

	head := data
	if len(head) > 261 {
		head = head[:261]
	}
	if !filetype.IsArchive(head) {
		return kindPlain
	}
	t, err := filetype.Match(head)
	if err != nil {
		return kindPlain
	}
	switch t.Extension {
	case "zip":
		return kindZip
	case "rar":
		return kindRar
	default:
		return kindPlain
	}
}

// Expand turns one upload into device sources. Archives are expanded entry by
// entry with the inner path as the device name; directory entries are
// skipped. The returned error covers the archive as a whole or the entries
// that could not be read; sources read before a failure are still returned.
func Expand(name string, data []byte) ([]Source, error) {
	switch detect(name, data) {
	case kindZip:
		return expandZip(name, data)
	case kindRar:
		return expandRar(name, data)
	default:
		return []Source{{Name: name, Data: data}}, nil
	}
}

func expandZip(name string, data []byte) ([]Source, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, auditerr.E("upload.Expand", auditerr.KindArchive, "open zip "+name, err)
	}

	var (
		sources []Source
		errs    []error
	)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		entry := decodeEntryName(f.Name, f.Flags&0x800 != 0)
		raw, err := readZipEntry(f)
		if err != nil {
			errs = append(errs, auditerr.E("upload.Expand", auditerr.KindArchive, "read "+name+":"+entry, err))
			continue
		}
		sources = append(sources, Source{Name: entry, Data: raw})
	}
	return sources, errors.Join(errs...)
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func expandRar(name string, data []byte) ([]Source, error) {
	rr, err := rardecode.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return nil, auditerr.E("upload.Expand", auditerr.KindArchive, "open rar "+name, err)
	}

	var sources []Source
	for {
		hdr, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// rar is a stream: nothing after a bad header can be read
			return sources, auditerr.E("upload.Expand", auditerr.KindArchive, "read rar "+name, err)
		}
		if hdr.IsDir || strings.HasSuffix(hdr.Name, "/") {
			continue
		}
		raw, err := io.ReadAll(rr)
		if err != nil {
			return sources, auditerr.E("upload.Expand", auditerr.KindArchive, "read "+name+":"+hdr.Name, err)
		}
		sources = append(sources, Source{Name: filepath.ToSlash(hdr.Name), Data: raw})
	}
	return sources, nil
}

// Collect reads files and directories (walked recursively) and expands every
// upload. A failing path or archive is logged, returned in errs, and skipped;
// the rest of the batch continues.
func Collect(paths []string, log logrus.FieldLogger) (sources []Source, errs []error) {
	add := func(path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			log.WithError(err).WithField("path", path).Warn("failed to read file")
			return
		}
		srcs, err := Expand(filepath.ToSlash(path), data)
		if err != nil {
			errs = append(errs, err)
			log.WithError(err).WithField("path", path).Warn("failed to process archive")
		}
		sources = append(sources, srcs...)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			errs = append(errs, err)
			log.WithError(err).WithField("path", p).Warn("skipping path")
			continue
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			if d.Type().IsRegular() {
				add(path)
			}
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return sources, errs
}

// Documents decodes sources into engine input, keeping their order.
func Documents(sources []Source) []engine.Document {
	docs := make([]engine.Document, 0, len(sources))
	for _, s := range sources {
		docs = append(docs, engine.Document{Name: s.Name, Text: Decode(s.Data)})
	}
	return docs
}
