package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/nailbrother/muzei/internal/analysis"
	"github.com/nailbrother/muzei/internal/imagedec"
	"github.com/nailbrother/muzei/internal/region"
	"github.com/nailbrother/muzei/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("muzei-region %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "serve":
			runServer()
			return
		}
	}

	if err := runDecode(os.Args[1:]); err != nil {
		log.SetOutput(os.Stderr)
		log.SetFlags(0)
		log.Fatalf("muzei-region: %v", err)
	}
}

func printUsage() {
	fmt.Println("muzei-region - region decoder for rotated images")
	fmt.Println()
	fmt.Println("Usage: muzei-region [options]")
	fmt.Println("       muzei-region serve")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -in <path>       Input image (png, jpeg, gif, bmp, tiff, webp)")
	fmt.Println("  -out <path>      Output PNG for the decoded region (default region.png)")
	fmt.Println("  -rect <l,t,r,b>  Region in the rotated view; empty means the full image")
	fmt.Println("  -rotate <deg>    Clockwise rotation: 0, 90, 180 or 270 (default 0)")
	fmt.Println("  -sample <n>      Sample size; output dimensions are divided by n (default 1)")
	fmt.Println("  -stats           Print average and dominant colors of the region")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Subcommands:")
	fmt.Println("  serve            Run as an MCP server over stdin/stdout")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  MUZEI_REGION_LOG_LEVEL=debug    Enable debug logging")
}

func runServer() {
	// Stdout carries the MCP protocol, so all logging goes to stderr.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if os.Getenv("MUZEI_REGION_LOG_LEVEL") == "debug" {
		log.Printf("muzei-region server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("muzei-region", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "region.png", "output PNG path")
	rectSpec := fs.String("rect", "", "region as left,top,right,bottom in the rotated view")
	rotate := fs.Int("rotate", 0, "clockwise rotation in degrees")
	sample := fs.Int("sample", 1, "sample size")
	stats := fs.Bool("stats", false, "print color statistics for the region")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *in == "" {
		fs.Usage()
		return fmt.Errorf("missing required -in flag")
	}

	rot := region.Rotation(*rotate)
	f, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	loader, err := imagedec.OpenLoader(f, rot)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to open %s: %w", *in, err)
	}
	defer loader.Destroy()

	rect := image.Rect(0, 0, loader.Width(), loader.Height())
	if *rectSpec != "" {
		rect, err = parseRect(*rectSpec)
		if err != nil {
			return err
		}
	}

	bm, err := loader.DecodeRegion(rect, region.DecodeOptions{SampleSize: *sample})
	if err != nil {
		return fmt.Errorf("failed to decode region %v: %w", rect, err)
	}
	defer bm.Release()

	if err := imaging.Save(bm.Image(), *out); err != nil {
		return fmt.Errorf("failed to save %s: %w", *out, err)
	}
	fmt.Printf("wrote %s (%dx%d)\n", *out, bm.Width(), bm.Height())

	if *stats {
		printStats(bm.Image())
	}
	return nil
}

func printStats(img image.Image) {
	avg := analysis.Average(img)
	fmt.Printf("average:  %s  hsl(%d, %d%%, %d%%)\n",
		avg.Hex, avg.HSL.H, avg.HSL.S, avg.HSL.L)
	for i, freq := range analysis.Dominant(img, 5) {
		fmt.Printf("dominant %d: %s  %.1f%%\n", i+1, freq.Color.Hex, freq.Percentage)
	}
}

func parseRect(spec string) (image.Rectangle, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid -rect %q: want left,top,right,bottom", spec)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid -rect %q: %w", spec, err)
		}
		vals[i] = v
	}
	return image.Rect(vals[0], vals[1], vals[2], vals[3]), nil
}
