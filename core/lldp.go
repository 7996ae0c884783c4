package core

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Each LLDP frame is at most MTU size, but allow up to 4KiB just in case
const maxSpoolFrameSize = 4096

// NeighborSpool gives access to the LLDP frames the network daemon
// caches for each interface: one file per interface index holding
// a sequence of (little-endian uint64 length, frame) pairs.
type NeighborSpool struct {
	dir     string
	decoder FrameDecoder
}

func NewNeighborSpool(dir string, decoder FrameDecoder) *NeighborSpool {
	return &NeighborSpool{dir: dir, decoder: decoder}
}

// Open returns a reader for the spool file of the interface.
// If the interface has no spool file, the error wraps ErrNoData.
func (s *NeighborSpool) Open(ifindex int) (*SpoolReader, error) {
	fname := filepath.Join(s.dir, strconv.Itoa(ifindex))

	f, err := os.Open(fname)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", fname, ErrNoData)
		}
		return nil, err
	}

	return &SpoolReader{
		f:       f,
		r:       bufio.NewReader(f),
		decoder: s.decoder,
	}, nil
}

// ReadAll returns every neighbor cached for the interface.
// A missing spool file yields an empty list.
func (s *NeighborSpool) ReadAll(ifindex int) ([]*LLDPNeighbor, error) {
	sr, err := s.Open(ifindex)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return nil, nil
		}
		return nil, err
	}
	defer sr.Close()

	var neighbors []*LLDPNeighbor

	for {
		n, err := sr.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return neighbors, err
		}

		neighbors = append(neighbors, n)
	}

	return neighbors, nil
}

type SpoolReader struct {
	f       io.Closer
	r       io.Reader
	decoder FrameDecoder
}

// NewSpoolReader wraps an arbitrary stream in the spool format.
func NewSpoolReader(r io.ReadCloser, decoder FrameDecoder) *SpoolReader {
	return &SpoolReader{f: r, r: bufio.NewReader(r), decoder: decoder}
}

// NextFrame returns the raw bytes of the next frame. It returns
// io.EOF only at a frame boundary; a truncated or oversized frame
// is reported as ErrBadMessage.
func (sr *SpoolReader) NextFrame() ([]byte, error) {
	var hdr [8]byte

	switch n, err := io.ReadFull(sr.r, hdr[:]); {
	case err == io.EOF:
		return nil, io.EOF
	case err == io.ErrUnexpectedEOF:
		return nil, fmt.Errorf("truncated frame length (%d bytes): %w", n, ErrBadMessage)
	case err != nil:
		return nil, err
	}

	size := binary.LittleEndian.Uint64(hdr[:])

	if size >= maxSpoolFrameSize {
		return nil, fmt.Errorf("frame too large (%d bytes): %w", size, ErrBadMessage)
	}

	raw := make([]byte, size)

	if _, err := io.ReadFull(sr.r, raw); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated frame (%d bytes expected): %w", size, ErrBadMessage)
		}
		return nil, err
	}

	return raw, nil
}

// Next reads and decodes the next frame.
func (sr *SpoolReader) Next() (*LLDPNeighbor, error) {
	raw, err := sr.NextFrame()
	if err != nil {
		return nil, err
	}

	if sr.decoder == nil {
		return nil, fmt.Errorf("no frame decoder defined")
	}

	n, err := sr.decoder.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode LLDP frame: %w", err)
	}

	return n, nil
}

func (sr *SpoolReader) Close() error {
	return sr.f.Close()
}

// LLDPNeighbors returns the cached LLDP neighbors of every link
// matching the patterns. A broken spool file of one link is
// reported and does not affect the others.
func (s *Server) LLDPNeighbors(ctx context.Context, patterns []string) ([]*LinkLLDPNeighbor, error) {
	links, err := s.CollectLinks(ctx, patterns)
	if err != nil {
		return nil, err
	}

	var neighbors []*LinkLLDPNeighbor

	if s.spool == nil {
		return neighbors, nil
	}

	for _, link := range links {
		nn, err := s.spool.ReadAll(link.Index)
		if err != nil {
			log.Warnf("Failed to read LLDP data for %d, ignoring: %s", link.Index, err)
		}

		for _, n := range nn {
			neighbors = append(neighbors, &LinkLLDPNeighbor{LinkName: link.Name, LLDPNeighbor: n})
		}
	}

	return neighbors, nil
}
