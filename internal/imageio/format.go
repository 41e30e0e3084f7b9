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


// Package imageio loads and saves RGB images in a range of file formats.
package imageio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// An image file format
type Format int

const (
	FormatPPM Format = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatTIFF
	FormatBMP
	FormatWebP
	FormatPXZ
)

// Returned for file extensions and formats which are not supported
var ErrUnsupportedFormat = errors.New("unsupported image format")

var formatNames = []string{"ppm", "png", "jpeg", "gif", "tiff", "bmp", "webp", "pxz"}

var extensions = map[string]Format{
	".ppm":  FormatPPM,
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".gif":  FormatGIF,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".bmp":  FormatBMP,
	".webp": FormatWebP,
	".pxz":  FormatPXZ,
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatPPM:
		return "image/x-portable-pixmap"
	case FormatPXZ:
		return "application/octet-stream"
	default:
		return "image/" + f.String()
	}
}

// Determines the image format from the extension of the given file name, case-insensitive
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: file extension '%s' of %s", ErrUnsupportedFormat, ext, path)
}
