package fasta

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

// IndexSuffix is appended to a FASTA path to find its samtools index.
const IndexSuffix = ".fai"

// File is a Fasta backed by a (local or remote) path.  It must be closed
// after use.
type File struct {
	Fasta
	// in is the open FASTA file when reads are served lazily through an
	// index, and nil when the data was loaded into memory.
	in file.File
}

// Open opens the FASTA file at path.  If path+".fai" can be opened, sequences
// are read lazily through the index.  Otherwise the whole file is loaded into
// memory, decompressing it first if path ends in ".gz".
func Open(ctx context.Context, path string) (*File, error) {
	if fileio.DetermineType(path) != fileio.Gzip {
		if idx, err := file.Open(ctx, path+IndexSuffix); err == nil {
			f, err := openIndexed(ctx, path, idx)
			if cerr := idx.Close(ctx); cerr != nil && err == nil {
				err = cerr
			}
			if err != nil {
				return nil, err
			}
			return f, nil
		}
		log.Debug.Printf("fasta.Open: no index for %s, loading into memory", path)
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil {
			log.Error.Printf("fasta.Open: close %s: %v", path, cerr)
		}
	}()
	reader := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, path)
		}
	}
	fa, err := New(reader)
	if err != nil {
		return nil, errors.E(err, path)
	}
	return &File{Fasta: fa}, nil
}

func openIndexed(ctx context.Context, path string, idx file.File) (*File, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	fa, err := NewIndexed(in.Reader(ctx), idx.Reader(ctx))
	if err != nil {
		_ = in.Close(ctx)
		return nil, errors.E(err, path+IndexSuffix)
	}
	return &File{Fasta: fa, in: in}, nil
}

// Close releases the underlying file, if any.  The Fasta must not be used
// afterwards.
func (f *File) Close(ctx context.Context) error {
	if f.in == nil {
		return nil
	}
	err := f.in.Close(ctx)
	f.in = nil
	return err
}
