// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


package imageio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/compress/zstd"
	"github.com/mlnoga/daylight/internal/pixel"
)

// Magic bytes at the start of a pxz file
var pxzMagic = [4]byte{'D', 'L', 'P', 'X'}

// Current version of the pxz container
const pxzVersion = 1

// Size of the pxz header: magic, version, width and height
const pxzHeaderSize = 4 + 1 + 4 + 4

// Largest zstd window written or accepted in a pxz stream
const pxzWindowSize = 8 << 20

// Largest image a pxz header may declare, in pixels
const MaxPXZPixels = 1 << 27

// Writes the image as a pxz container: a small header followed by the zstd-compressed
// interleaved RGB bytes. Lossless.
func EncodePXZ(w io.Writer, img *pixel.Buffer) error {
	if err := pixel.CheckNotNil(img); err != nil {
		return err
	}
	header := make([]byte, pxzHeaderSize)
	copy(header, pxzMagic[:])
	header[4] = pxzVersion
	binary.BigEndian.PutUint32(header[5:], uint32(img.Width()))
	binary.BigEndian.PutUint32(header[9:], uint32(img.Height()))
	if _, err := w.Write(header); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderConcurrency(runtime.NumCPU()),
		zstd.WithWindowSize(pxzWindowSize))
	if err != nil {
		return err
	}
	if _, err := enc.Write(img.Bytes()); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Reads a pxz container written by EncodePXZ. The decompressed payload must match the
// dimensions in the header exactly. Headers declaring more than MaxPXZPixels are rejected
// before anything is decompressed.
func DecodePXZ(r io.Reader) (*pixel.Buffer, error) {
	header := make([]byte, pxzHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("pxz: reading header: %w", err)
	}
	if !bytes.Equal(header[:4], pxzMagic[:]) {
		return nil, errors.New("pxz: bad magic")
	}
	if header[4] != pxzVersion {
		return nil, fmt.Errorf("pxz: unsupported version %d", header[4])
	}
	w := uint64(binary.BigEndian.Uint32(header[5:]))
	h := uint64(binary.BigEndian.Uint32(header[9:]))
	if w*h > MaxPXZPixels {
		return nil, fmt.Errorf("pxz: %dx%d exceeds the limit of %d pixels", w, h, MaxPXZPixels)
	}
	n := int64(w * h * pixel.Channels)

	dec, err := zstd.NewReader(r,
		zstd.WithDecoderMaxWindow(pxzWindowSize),
		zstd.WithDecoderMaxMemory(uint64(max(n, pxzWindowSize))))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	data, err := io.ReadAll(io.LimitReader(dec, n+1))
	if err != nil {
		return nil, fmt.Errorf("pxz: zstd decode: %w", err)
	}
	if int64(len(data)) > n {
		return nil, fmt.Errorf("pxz: payload exceeds %d bytes declared by %dx%d header", n, w, h)
	}
	return pixel.Wrap(int(h), int(w), data)
}
