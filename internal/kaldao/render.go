package kaldao

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"runtime"
	"sync"
)

// shadeRow fills out (3 floats per pixel) with one scanline. y runs top-down;
// v flips so +v is up like the GL path.
func shadeRow(f *Frame, cam CameraFrame, width, height, y int, out []float64) {
	pix := 2.0 / float64(height)
	v := (float64(height) - 1 - 2*float64(y)) / float64(height)
	for x := 0; x < width; x++ {
		u := (2*float64(x) - float64(width) + 1) / float64(height)
		r, g, b := f.ShadePixel(cam, u, v, pix)
		out[x*3] = r
		out[x*3+1] = g
		out[x*3+2] = b
	}
}

// renderRows fans scanlines out over one worker per CPU and hands each
// finished row to sink. Rows are independent, so this is the whole
// parallelism story. sink may run concurrently; callers synchronize if the
// target needs it.
func renderRows(f *Frame, width, height int, sink func(y int, row []float64)) {
	cam := f.Camera()
	workers := runtime.NumCPU()
	if workers > height {
		workers = height
	}
	if workers < 1 {
		workers = 1
	}
	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			row := make([]float64, width*3)
			for y := range rows {
				shadeRow(f, cam, width, height, y, row)
				sink(y, row)
			}
		}()
	}
	for y := 0; y < height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()
}

// RenderFrame rasterizes a full frame on the CPU into tightly packed RGBA8.
// Deterministic for a given frame: same input, same bytes.
func RenderFrame(f *Frame, width, height int) []uint8 {
	buf := make([]uint8, width*height*4)
	renderRows(f, width, height, func(y int, row []float64) {
		o := y * width * 4
		for x := 0; x < width; x++ {
			buf[o+x*4] = uint8(row[x*3]*255 + 0.5)
			buf[o+x*4+1] = uint8(row[x*3+1]*255 + 0.5)
			buf[o+x*4+2] = uint8(row[x*3+2]*255 + 0.5)
			buf[o+x*4+3] = 255
		}
	})
	return buf
}

// RenderImage rasterizes into a 16-bit image for export, where 8 bits would
// band visibly in the slow gradients.
func RenderImage(f *Frame, width, height int) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, width, height))
	// Rows land in disjoint pixel ranges, so workers write without locking.
	renderRows(f, width, height, func(y int, row []float64) {
		for x := 0; x < width; x++ {
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: uint16(row[x*3]*65535 + 0.5),
				G: uint16(row[x*3+1]*65535 + 0.5),
				B: uint16(row[x*3+2]*65535 + 0.5),
				A: 65535,
			})
		}
	})
	return img
}

// SavePNG writes a single rendered frame with maximum compression.
func SavePNG(f *Frame, width, height int, path string) error {
	img := RenderImage(f, width, height)
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	defer out.Close()
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(out, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
