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

package pixel_test

import (
	"errors"
	"testing"

	"github.com/mlnoga/daylight/internal/pixel"
	"github.com/mlnoga/daylight/internal/pixel/pixeltest"
)

func mustNew(t *testing.T, height, width int, values []int) *pixel.Buffer {
	t.Helper()
	b, err := pixel.New(height, width, values)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", height, width, err)
	}
	return b
}

func TestNewValidates(t *testing.T) {
	if _, err := pixel.New(1, 1, []int{1, 2}); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("short data: got %v, want ErrInvalidArgument", err)
	}
	if _, err := pixel.New(1, 1, []int{1, 256, 3}); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("value 256: got %v, want ErrInvalidArgument", err)
	}
	if _, err := pixel.New(1, 1, []int{-1, 0, 3}); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("value -1: got %v, want ErrInvalidArgument", err)
	}
	b, err := pixel.New(0, 0, nil)
	if err != nil || b.Height() != 0 || b.Width() != 0 {
		t.Errorf("empty image: got %v, %v", b, err)
	}
}

func TestNewCopiesData(t *testing.T) {
	data := []uint8{1, 2, 3}
	b, err := pixel.NewFromBytes(1, 1, data)
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 99
	if v, _ := b.Get(0, 0, 0); v != 1 {
		t.Errorf("buffer aliases caller data: got %d, want 1", v)
	}
	out := b.Bytes()
	out[1] = 99
	if v, _ := b.Get(0, 0, 1); v != 2 {
		t.Errorf("Bytes() aliases buffer data: got %d, want 2", v)
	}
}

func TestGet(t *testing.T) {
	b := pixeltest.Sequence(2, 3)
	if b.Channels() != 3 {
		t.Errorf("Channels()=%d, want 3", b.Channels())
	}
	v, err := b.Get(1, 2, 1)
	if err != nil || v != 17 {
		t.Errorf("Get(1,2,1)=%d, %v; want 17", v, err)
	}
	bad := [][3]int{{-1, 0, 0}, {2, 0, 0}, {0, -1, 0}, {0, 3, 0}, {0, 0, -1}, {0, 0, 3}}
	for _, idx := range bad {
		if _, err := b.Get(idx[0], idx[1], idx[2]); !errors.Is(err, pixel.ErrOutOfRange) {
			t.Errorf("Get%v: got %v, want ErrOutOfRange", idx, err)
		}
	}
}

func TestNilInputs(t *testing.T) {
	fns := map[string]func() (*pixel.Buffer, error){
		"IsolateChannel":    func() (*pixel.Buffer, error) { return pixel.IsolateChannel(nil, 0) },
		"VisualizeChannel":  func() (*pixel.Buffer, error) { return pixel.VisualizeChannel(nil, 0) },
		"MaxProjection":     func() (*pixel.Buffer, error) { return pixel.MaxProjection(nil) },
		"LumaProjection":    func() (*pixel.Buffer, error) { return pixel.LumaProjection(nil) },
		"AverageProjection": func() (*pixel.Buffer, error) { return pixel.AverageProjection(nil) },
		"Combine":           func() (*pixel.Buffer, error) { return pixel.Combine(nil, nil, nil) },
		"Brighten":          func() (*pixel.Buffer, error) { return pixel.Brighten(nil, 10) },
		"FlipHorizontal":    func() (*pixel.Buffer, error) { return pixel.FlipHorizontal(nil) },
		"FlipVertical":      func() (*pixel.Buffer, error) { return pixel.FlipVertical(nil) },
		"Blur":              func() (*pixel.Buffer, error) { return pixel.Blur(nil) },
		"Sepia":             func() (*pixel.Buffer, error) { return pixel.Sepia(nil) },
	}
	for name, fn := range fns {
		if _, err := fn(); !errors.Is(err, pixel.ErrInvalidArgument) {
			t.Errorf("%s(nil): got %v, want ErrInvalidArgument", name, err)
		}
	}
}

func TestIsolateAndVisualizeChannel(t *testing.T) {
	src := mustNew(t, 1, 2, []int{10, 20, 30, 40, 50, 60})
	tcs := []struct {
		channel   int
		isolated  []int
		visualize []int
	}{
		{pixel.Red, []int{10, 0, 0, 40, 0, 0}, []int{10, 10, 10, 40, 40, 40}},
		{pixel.Green, []int{0, 20, 0, 0, 50, 0}, []int{20, 20, 20, 50, 50, 50}},
		{pixel.Blue, []int{0, 0, 30, 0, 0, 60}, []int{30, 30, 30, 60, 60, 60}},
	}
	for _, tc := range tcs {
		got, err := pixel.IsolateChannel(src, tc.channel)
		if err != nil {
			t.Fatal(err)
		}
		if d := pixeltest.Diff(mustNew(t, 1, 2, tc.isolated), got); d != "" {
			t.Errorf("IsolateChannel(%d) mismatch (-want +got):\n%s", tc.channel, d)
		}
		got, err = pixel.VisualizeChannel(src, tc.channel)
		if err != nil {
			t.Fatal(err)
		}
		if d := pixeltest.Diff(mustNew(t, 1, 2, tc.visualize), got); d != "" {
			t.Errorf("VisualizeChannel(%d) mismatch (-want +got):\n%s", tc.channel, d)
		}
	}
	for _, ch := range []int{-1, 3} {
		if _, err := pixel.IsolateChannel(src, ch); !errors.Is(err, pixel.ErrInvalidArgument) {
			t.Errorf("IsolateChannel(%d): got %v, want ErrInvalidArgument", ch, err)
		}
	}
}

func TestProjections(t *testing.T) {
	src := mustNew(t, 1, 2, []int{100, 200, 50, 0, 0, 0})
	tcs := []struct {
		c    pixel.Component
		want []int
	}{
		{pixel.ComponentValue, []int{200, 200, 200, 0, 0, 0}},
		// 0.2126*100 + 0.7152*200 + 0.0722*50 = 167.91
		{pixel.ComponentLuma, []int{167, 167, 167, 0, 0, 0}},
		{pixel.ComponentIntensity, []int{116, 116, 116, 0, 0, 0}},
	}
	for _, tc := range tcs {
		got, err := pixel.ExtractComponent(src, tc.c)
		if err != nil {
			t.Fatal(err)
		}
		if d := pixeltest.Diff(mustNew(t, 1, 2, tc.want), got); d != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", tc.c, d)
		}
	}
}

func TestSplitCombineRoundTrip(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {3, 5}, {17, 9}, {64, 64}} {
		src := pixeltest.Random(dims[0], dims[1], uint32(dims[0]*100+dims[1]))
		r, g, b, err := pixel.SplitChannels(src)
		if err != nil {
			t.Fatal(err)
		}
		got, err := pixel.Combine(r, g, b)
		if err != nil {
			t.Fatal(err)
		}
		if d := pixeltest.Diff(src, got); d != "" {
			t.Errorf("%dx%d round trip mismatch (-want +got):\n%s", dims[0], dims[1], d)
		}
	}
}

func TestCombineMismatchedDimensions(t *testing.T) {
	a, b := pixeltest.Random(2, 2, 1), pixeltest.Random(2, 3, 2)
	if _, err := pixel.Combine(a, a, b); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
}

func TestBrighten(t *testing.T) {
	src := mustNew(t, 1, 1, []int{0, 100, 250})
	tcs := []struct {
		amount int
		want   []int
	}{
		{10, []int{10, 110, 255}},
		{-50, []int{0, 50, 200}},
		{0, []int{0, 100, 250}},
	}
	for _, tc := range tcs {
		got, err := pixel.Brighten(src, tc.amount)
		if err != nil {
			t.Fatal(err)
		}
		if d := pixeltest.Diff(mustNew(t, 1, 1, tc.want), got); d != "" {
			t.Errorf("Brighten(%d) mismatch (-want +got):\n%s", tc.amount, d)
		}
	}
}

func TestLargeImageMatchesRowByRow(t *testing.T) {
	// exercises the parallel batching path
	src := pixeltest.Random(257, 31, 42)
	got, err := pixel.Brighten(src, 7)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			for c := 0; c < 3; c++ {
				want := pixel.Clamp(int(src.At(y, x, c)) + 7)
				if got.At(y, x, c) != want {
					t.Fatalf("(%d,%d,%d)=%d, want %d", y, x, c, got.At(y, x, c), want)
				}
			}
		}
	}
}

func TestParseComponent(t *testing.T) {
	for c := pixel.ComponentRed; c <= pixel.ComponentIntensity; c++ {
		got, err := pixel.ParseComponent(c.String())
		if err != nil || got != c {
			t.Errorf("ParseComponent(%q)=%v, %v", c.String(), got, err)
		}
	}
	if _, err := pixel.ParseComponent("alpha"); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("alpha: got %v, want ErrInvalidArgument", err)
	}
}
