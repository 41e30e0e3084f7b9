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
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlnoga/daylight/internal/imageio"
	"github.com/mlnoga/daylight/internal/ops"
	_ "github.com/mlnoga/daylight/internal/ops/filter" // register operators for JSON decoding
	_ "github.com/mlnoga/daylight/internal/ops/rgb"
	_ "github.com/mlnoga/daylight/internal/ops/tone"
	"github.com/mlnoga/daylight/internal/pixel"
	"github.com/mlnoga/daylight/internal/stats"
	"github.com/mlnoga/daylight/web"
)

// Maximum accepted size of multipart uploads held in memory
const MaxUploadBytes = 64 << 20

type server struct {
	log        io.Writer
	maxThreads int
}

// Creates the HTTP router for the image processing API. Operator progress is logged to logWriter
func NewRouter(logWriter io.Writer, maxThreads int) *gin.Engine {
	s := &server{log: logWriter, maxThreads: maxThreads}
	r := gin.Default()
	r.MaxMultipartMemory = MaxUploadBytes
	r.GET("/", getIndex)
	r.StaticFS("/js", web.JavascriptFS())
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.GET("/operators", getOperators)
			v1.POST("/process", s.postProcess)
			v1.POST("/histogram", s.postHistogram)
			v1.POST("/stats", s.postStats)
		}
	}
	return r
}

// Serves the API on the given address until the listener fails
func Serve(addr string, logWriter io.Writer, maxThreads int) error {
	return NewRouter(logWriter, maxThreads).Run(addr)
}

func getIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
}

func getPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

func getOperators(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"operators": ops.OperatorTypes(),
	})
}

// Creates an operator context for a single request. File access is restricted
// to the current directory tree
func (s *server) newContext() *ops.Context {
	ctx := ops.NewContext(s.log)
	ctx.RestrictPaths = true
	if s.maxThreads > 0 {
		ctx.MaxThreads = s.maxThreads
	}
	return ctx
}

// Decodes the uploaded image from the multipart form field "image". The format
// is chosen by the extension of the uploaded file name
func readImage(c *gin.Context) (*pixel.Buffer, string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, "", fmt.Errorf("missing image upload: %w", err)
	}
	format, err := imageio.FormatFromPath(fh.Filename)
	if err != nil {
		return nil, "", err
	}
	file, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	img, err := imageio.Decode(file, format)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", fh.Filename, err)
	}
	return img, fh.Filename, nil
}

// Returns the output format requested by the "format" query parameter, PNG by default
func outputFormat(c *gin.Context) (imageio.Format, error) {
	name := c.DefaultQuery("format", imageio.FormatPNG.String())
	return imageio.FormatFromPath("out." + name)
}

// Encodes the image in the requested format and writes it as the response body
func writeImage(c *gin.Context, img *pixel.Buffer) {
	format, err := outputFormat(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, format); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, imageio.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Applies the operator pipeline from the "pipeline" form field to the uploaded image,
// and responds with the first resulting image
func (s *server) postProcess(c *gin.Context) {
	img, fileName, err := readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	op, err := ops.UnmarshalOperator([]byte(c.PostForm("pipeline")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid pipeline: %s", err.Error())})
		return
	}

	ctx := s.newContext()
	fmt.Fprintf(s.log, "0: Processing %s image %s with %s pipeline\n", img.DimensionsToString(), fileName, op.GetType())
	promises, err := op.MakePromises([]ops.Promise{ops.Resolved(ops.NewFrame(0, fileName, img))}, ctx)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	frames, err := ops.MaterializeAll(promises, ctx.MaxThreads, false)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if len(frames) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "pipeline produced no image"})
		return
	}
	writeImage(c, frames[0].Pixels)
}

func (s *server) postHistogram(c *gin.Context) {
	img, _, err := readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	graph, err := stats.RenderHistogram(img)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	writeImage(c, graph)
}

func (s *server) postStats(c *gin.Context) {
	img, _, err := readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := stats.NewStats(img)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}
