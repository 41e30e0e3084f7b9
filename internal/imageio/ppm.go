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
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mlnoga/daylight/internal/pixel"
)

// Reads a plain text PPM image (magic P3). Lines starting with # are comments.
// The maximum color value must be 255.
func DecodePPM(r io.Reader) (*pixel.Buffer, error) {
	var tokens []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(tokens) == 0 || tokens[0] != "P3" {
		return nil, errors.New("invalid PPM file: plain RAW file should begin with P3")
	}
	header := make([]int, 3)
	for i := range header {
		if 1+i >= len(tokens) {
			return nil, errors.New("invalid PPM file: truncated header")
		}
		v, err := strconv.Atoi(tokens[1+i])
		if err != nil {
			return nil, fmt.Errorf("invalid PPM file: header: %w", err)
		}
		header[i] = v
	}
	width, height, maxValue := header[0], header[1], header[2]
	if maxValue != 255 {
		return nil, fmt.Errorf("invalid PPM file: maximum color value should be 255, got %d", maxValue)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid PPM file: negative dimensions %dx%d", width, height)
	}

	body := tokens[4:]
	n := width * height * pixel.Channels
	if len(body) < n {
		return nil, fmt.Errorf("invalid PPM file: expected %d values, got %d", n, len(body))
	}
	values := make([]int, n)
	for i := range values {
		v, err := strconv.Atoi(body[i])
		if err != nil {
			return nil, fmt.Errorf("invalid PPM file: value %d: %w", i, err)
		}
		values[i] = v
	}
	return pixel.New(height, width, values)
}

// Writes a plain text PPM image, one line of "r g b " triplets per row
func EncodePPM(w io.Writer, img *pixel.Buffer) error {
	if err := pixel.CheckNotNil(img); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			r, g, b := img.Pixel(y, x)
			fmt.Fprintf(bw, "%d %d %d ", r, g, b)
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}
