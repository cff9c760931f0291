// Command display runs a ROM image against an SDL2 window that blits
// the emulated framebuffer, polling it once per host frame rather than
// tying rendering to the CPU's own cycle rate.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/image/draw"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/mitchchn/6502/cpu"
	"github.com/mitchchn/6502/loader"
)

var (
	romPath    = flag.String("rom", "", "Path to the ROM image to load")
	scale      = flag.Int("scale", 8, "Scale factor to render the framebuffer window at")
	cyclesHz   = flag.Uint64("hz", 1_000_000, "Target CPU cycles per second")
	frameSleep = flag.Duration("frame", 16*time.Millisecond, "Host render interval")
)

// scaleGray scales src up by factor using nearest-neighbor
// interpolation (the right choice for a pixel-art framebuffer; linear
// filtering would blur sharp 1-pixel sprites) and returns the result
// as RGBA, ready to blit into the window surface.
func scaleGray(src *image.Gray, factor int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

type fastImage struct {
	surface *sdl.Surface
}

// blit copies an RGBA image into the window surface, poking bytes
// directly rather than calling Surface.Set per pixel (which chews CPU
// converting color.Color on every call).
func (f *fastImage) blit(img *image.RGBA) {
	data := f.surface.Pixels()
	bpp := int(f.surface.Format.BytesPerPixel)
	pitch := int(f.surface.Pitch)
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.RGBAAt(x, y)
			i := y*pitch + x*bpp
			data[i+0] = c.R
			data[i+1] = c.G
			data[i+2] = c.B
			if bpp > 3 {
				data[i+3] = 0xFF
			}
		}
	}
}

func main() {
	flag.Parse()
	if *romPath == "" {
		log.Fatalf("display: -rom is required")
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("display: can't load rom: %v", err)
	}

	machine, err := loader.NewDefaultMachine(rom)
	if err != nil {
		log.Fatalf("display: can't build machine: %v", err)
	}

	chip, err := cpu.New(cpu.Config{Bus: machine.Bus})
	if err != nil {
		log.Fatalf("display: can't build CPU: %v", err)
	}

	fb := machine.Framebuffer
	w, h := fb.Width(), fb.Height()

	var window *sdl.Window
	fi := &fastImage{}

	sdl.Main(func() {
		var wg sync.WaitGroup
		wg.Add(1)
		sdl.Do(func() {
			if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
				log.Fatalf("display: can't init SDL: %v", err)
			}
			window, err = sdl.CreateWindow(
				fmt.Sprintf("6502 display — %s", *romPath),
				sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
				int32(w**scale), int32(h**scale), sdl.WINDOW_SHOWN,
			)
			if err != nil {
				log.Fatalf("display: can't create window: %v", err)
			}
			fi.surface, err = window.GetSurface()
			if err != nil {
				log.Fatalf("display: can't get window surface: %v", err)
			}
			wg.Done()
		})
		wg.Wait()
		defer func() {
			window.Destroy()
			sdl.Quit()
		}()

		go runCPU(chip, *cyclesHz)

		running := true
		for running {
			sdl.Do(func() {
				for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
					switch event.(type) {
					case *sdl.QuitEvent:
						running = false
					}
				}
				if fb.Dirty() {
					fi.blit(scaleGray(fb.Image(), *scale))
					window.UpdateSurface()
				}
			})
			time.Sleep(*frameSleep)
		}
	})
}

// runCPU drives the core at approximately hz cycles per second,
// stopping on an unrecoverable error (illegal opcode) since there's
// no way to make further progress without a Reset the front-end
// doesn't attempt on its own.
func runCPU(chip *cpu.Chip, hz uint64) {
	const tick = 10 * time.Millisecond
	budget := hz / uint64(time.Second/tick)
	for {
		if _, err := chip.RunFor(budget); err != nil {
			log.Printf("display: CPU halted: %v", err)
			return
		}
		time.Sleep(tick)
	}
}
