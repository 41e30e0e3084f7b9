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


package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mlnoga/daylight/internal/imageio"
	"github.com/mlnoga/daylight/internal/pixel"
	"github.com/mlnoga/daylight/internal/pixel/pixeltest"
	"github.com/mlnoga/daylight/internal/stats"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Builds a multipart request uploading img as PPM, with additional form fields
func newUpload(t *testing.T, path string, img *pixel.Buffer, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if img != nil {
		part, err := w.CreateFormFile("image", "upload.ppm")
		if err != nil {
			t.Fatal(err)
		}
		if err := imageio.EncodePPM(part, img); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewRouter(io.Discard, 2).ServeHTTP(rec, req)
	return rec
}

func decodePNG(t *testing.T, rec *httptest.ResponseRecorder) *pixel.Buffer {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type %s, want image/png", ct)
	}
	img, err := imageio.Decode(rec.Body, imageio.FormatPNG)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestPing(t *testing.T) {
	rec := serve(httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"message":"pong"`) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestStaticAssets(t *testing.T) {
	rec := serve(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "js/app.js") {
		t.Errorf("index: got %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(httptest.NewRequest(http.MethodGet, "/js/app.js", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "api/v1/operators") {
		t.Errorf("app.js: got %d", rec.Code)
	}
}

func TestOperators(t *testing.T) {
	rec := serve(httptest.NewRequest(http.MethodGet, "/api/v1/operators", nil))
	var resp struct {
		Operators []string `json:"operators"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"blur", "compress", "rgbSplit", "seq", "splitPreview"} {
		found := false
		for _, o := range resp.Operators {
			found = found || o == want
		}
		if !found {
			t.Errorf("operator %s not listed in %v", want, resp.Operators)
		}
	}
}

func TestProcess(t *testing.T) {
	src := pixeltest.Random(5, 8, 17)
	pipeline := `{"type":"seq","steps":[{"type":"flip","axis":"vertical"},{"type":"brighten","amount":20}]}`
	got := decodePNG(t, serve(newUpload(t, "/api/v1/process", src, map[string]string{"pipeline": pipeline})))

	flipped, _ := pixel.FlipVertical(src)
	want, _ := pixel.Brighten(flipped, 20)
	if d := pixeltest.Diff(want, got); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}

func TestProcessOutputFormat(t *testing.T) {
	src := pixeltest.Random(3, 3, 1)
	req := newUpload(t, "/api/v1/process?format=ppm", src, map[string]string{"pipeline": `{"type":"greyscale"}`})
	rec := serve(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got, err := imageio.DecodePPM(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := pixel.Greyscale(src)
	if d := pixeltest.Diff(want, got); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}

	req = newUpload(t, "/api/v1/process?format=webp", src, map[string]string{"pipeline": `{"type":"greyscale"}`})
	if rec := serve(req); rec.Code != http.StatusBadRequest {
		t.Errorf("webp output: status %d, want 400", rec.Code)
	}
}

func TestProcessErrors(t *testing.T) {
	src := pixeltest.Random(2, 2, 3)
	tcs := []struct {
		name   string
		img    *pixel.Buffer
		fields map[string]string
		status int
	}{
		{"missing image", nil, map[string]string{"pipeline": `{"type":"blur"}`}, http.StatusBadRequest},
		{"missing pipeline", src, nil, http.StatusBadRequest},
		{"unknown operator", src, map[string]string{"pipeline": `{"type":"nope"}`}, http.StatusBadRequest},
		{"invalid axis", src, map[string]string{"pipeline": `{"type":"flip","axis":"diagonal"}`}, http.StatusUnprocessableEntity},
		{"save outside tree", src, map[string]string{"pipeline": `{"type":"save","filePattern":"/tmp/escape.png"}`}, http.StatusUnprocessableEntity},
	}
	for _, tc := range tcs {
		rec := serve(newUpload(t, "/api/v1/process", tc.img, tc.fields))
		if rec.Code != tc.status {
			t.Errorf("%s: status %d, want %d: %s", tc.name, rec.Code, tc.status, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Errorf("%s: no error in body %s", tc.name, rec.Body.String())
		}
	}
}

func TestHistogram(t *testing.T) {
	src := pixeltest.Random(10, 10, 5)
	got := decodePNG(t, serve(newUpload(t, "/api/v1/histogram", src, nil)))
	want, err := stats.RenderHistogram(src)
	if err != nil {
		t.Fatal(err)
	}
	if d := pixeltest.Diff(want, got); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}

func TestStats(t *testing.T) {
	rec := serve(newUpload(t, "/api/v1/stats", pixeltest.Uniform(4, 3, 10, 20, 30), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var s stats.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if s.Width != 3 || s.Height != 4 || s.MeanColor != "#0a141e" || s.Channels[1].Mean != 20 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestMakeSandboxNoop(t *testing.T) {
	var log bytes.Buffer
	if err := MakeSandbox(&log, "", -1); err != nil {
		t.Fatal(err)
	}
	if log.Len() != 0 {
		t.Errorf("unexpected output %q", log.String())
	}
}
