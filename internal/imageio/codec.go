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
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/mlnoga/daylight/internal/pixel"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Quality setting for JPEG output
const JPEGQuality = 95

// Reads an image in the given format
func Decode(r io.Reader, format Format) (*pixel.Buffer, error) {
	var img image.Image
	var err error
	switch format {
	case FormatPPM:
		return DecodePPM(r)
	case FormatPXZ:
		return DecodePXZ(r)
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	case FormatGIF:
		img, err = gif.Decode(r)
	case FormatTIFF:
		img, err = tiff.Decode(r)
	case FormatBMP:
		img, err = bmp.Decode(r)
	case FormatWebP:
		img, err = webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// Writes an image in the given format
func Encode(w io.Writer, img *pixel.Buffer, format Format) error {
	if err := pixel.CheckNotNil(img); err != nil {
		return err
	}
	switch format {
	case FormatPPM:
		return EncodePPM(w, img)
	case FormatPXZ:
		return EncodePXZ(w, img)
	case FormatPNG:
		return png.Encode(w, ToImage(img))
	case FormatJPEG:
		return jpeg.Encode(w, ToImage(img), &jpeg.Options{Quality: JPEGQuality})
	case FormatGIF:
		return gif.Encode(w, ToImage(img), nil)
	case FormatTIFF:
		return tiff.Encode(w, ToImage(img), &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		return bmp.Encode(w, ToImage(img))
	default:
		return fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, format)
	}
}

// Loads an image from file, choosing the format by file extension
func Load(fileName string) (*pixel.Buffer, error) {
	format, err := FormatFromPath(fileName)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := Decode(bufio.NewReader(file), format)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", fileName, err)
	}
	return img, nil
}

// Saves an image to file, choosing the format by file extension
func Save(fileName string, img *pixel.Buffer) error {
	format, err := FormatFromPath(fileName)
	if err != nil {
		return err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	err = Encode(writer, img, format)
	if err == nil {
		err = writer.Flush()
	}
	if err != nil {
		file.Close()
		os.Remove(fileName)
		return fmt.Errorf("saving %s: %w", fileName, err)
	}
	return file.Close()
}
