package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/agoramachina/kaldao-web/internal/kaldao"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("kaldao: ")

	var cfg kaldao.Config
	flag.IntVar(&cfg.Width, "width", kaldao.WindowWidth, "window width")
	flag.IntVar(&cfg.Height, "height", kaldao.WindowHeight, "window height")
	flag.BoolVar(&cfg.Fullscreen, "fullscreen", false, "fullscreen on the primary monitor")
	flag.StringVar(&cfg.AudioPath, "audio", "", "wav or mp3 file to play and react to")
	flag.StringVar(&cfg.StatePath, "state", "", "state file to load at startup and target for S/L")
	flag.StringVar(&cfg.OSCAddr, "osc", kaldao.DefaultOSCAddr, "UDP listen address for OSC overrides")
	flag.StringVar(&cfg.OutPath, "out", "", "render to PNG(s) instead of opening a window")
	flag.IntVar(&cfg.Frames, "frames", 1, "number of frames to render with -out")
	flag.IntVar(&cfg.OutWidth, "out-width", kaldao.WindowWidth, "PNG width with -out")
	flag.IntVar(&cfg.OutHeight, "out-height", kaldao.WindowHeight, "PNG height with -out")
	seed := flag.Uint64("seed", 0, "palette randomization seed (0 = clock)")
	flag.Parse()

	cfg.Seed = *seed
	if s := os.Getenv("KALDAO_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			cfg.Seed = v
		}
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	if err := kaldao.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
