package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/benlenarts/apriltag-go/internal/detector"
	"github.com/benlenarts/apriltag-go/internal/pose"
	"github.com/spf13/cobra"
)

var (
	detectImagePath string
	detectFamily    familyFlags
	detectCfg       detector.Config
	detectPoseArg   string
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect AprilTags in a grayscale PNG image",
	RunE:  runDetect,
}

func init() {
	cfg := detector.DefaultConfig()
	detectCfg = cfg

	detectCmd.Flags().StringVar(&detectImagePath, "image", "", "Input PNG image path (required)")
	detectCmd.Flags().StringVar(&detectFamily.name, "family-name", "square16h", "Tag family name")
	detectCmd.Flags().IntVar(&detectFamily.nbits, "family-nbits", 16, "Bits per codeword")
	detectCmd.Flags().StringVar(&detectFamily.codesCSV, "family-codes", "", "Comma-separated codewords (decimal or 0x-hex, required)")
	detectCmd.Flags().IntVar(&detectFamily.widthAtBorder, "family-width-at-border", 8, "Width of the tag at its outer black border, in bit cells")
	detectCmd.Flags().IntVar(&detectFamily.totalWidth, "family-total-width", 10, "Width of the full tag including the white quiet zone, in bit cells")
	detectCmd.Flags().BoolVar(&detectFamily.reversedBorder, "family-reversed-border", false, "Family uses a white-on-black (reversed) border")
	detectCmd.Flags().IntVar(&detectFamily.maxHamming, "max-hamming", 2, "Maximum accepted Hamming distance")

	detectCmd.Flags().Float64Var(&detectCfg.QuadDecimate, "quad-decimate", cfg.QuadDecimate, "Downsample factor before quad search")
	detectCmd.Flags().Float64Var(&detectCfg.QuadSigma, "quad-sigma", cfg.QuadSigma, "Blur (positive) or unsharp (negative) sigma")
	detectCmd.Flags().BoolVar(&detectCfg.RefineEdges, "refine-edges", cfg.RefineEdges, "Refine quad edges against the original image")
	detectCmd.Flags().Float64Var(&detectCfg.DecodeSharpening, "decode-sharpening", cfg.DecodeSharpening, "Laplacian coefficient in bit-grid sharpening")
	detectCmd.Flags().IntVar(&detectCfg.MinClusterPixels, "min-cluster-pixels", cfg.MinClusterPixels, "Lower bound for cluster inclusion")
	detectCmd.Flags().IntVar(&detectCfg.MaxNMaxima, "max-nmaxima", cfg.MaxNMaxima, "Cap on local maxima before the combination search")
	detectCmd.Flags().Float64Var(&detectCfg.CosCriticalRad, "cos-critical-rad", cfg.CosCriticalRad, "Adjacent-line angle rejection threshold")
	detectCmd.Flags().Float64Var(&detectCfg.MaxLineFitMSE, "max-line-fit-mse", cfg.MaxLineFitMSE, "Per-segment MSE rejection threshold")
	detectCmd.Flags().IntVar(&detectCfg.MinWhiteBlackDiff, "min-white-black-diff", cfg.MinWhiteBlackDiff, "Contrast threshold between tile extrema")
	detectCmd.Flags().BoolVar(&detectCfg.Deglitch, "deglitch", cfg.Deglitch, "Morphologically close the ternary image")

	detectCmd.Flags().StringVar(&detectPoseArg, "pose", "", "Also estimate pose: tagsize,fx,fy,cx,cy")

	detectCmd.MarkFlagRequired("image")
	detectCmd.MarkFlagRequired("family-codes")
	rootCmd.AddCommand(detectCmd)
}

// parsePoseArg parses the --pose flag's "tagsize,fx,fy,cx,cy" value.
func parsePoseArg(s string) (tagSize float64, k pose.Intrinsics, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 5 {
		return 0, pose.Intrinsics{}, fmt.Errorf("--pose expects tagsize,fx,fy,cx,cy, got %q", s)
	}
	vals := make([]float64, 5)
	for i, p := range parts {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, pose.Intrinsics{}, fmt.Errorf("--pose field %d: %w", i, err)
		}
	}
	return vals[0], pose.Intrinsics{Fx: vals[1], Fy: vals[2], Cx: vals[3], Cy: vals[4]}, nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	fam, err := detectFamily.build()
	if err != nil {
		return fmt.Errorf("family: %w", err)
	}

	img, err := loadGrayscalePNG(detectImagePath)
	if err != nil {
		return err
	}

	det, err := detector.New(detectCfg, []detector.FamilyHamming{{Family: fam, MaxHamming: detectFamily.maxHamming}}, logger)
	if err != nil {
		return fmt.Errorf("construct detector: %w", err)
	}

	detections, err := det.DetectImage(img)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	var tagSize float64
	var intrinsics pose.Intrinsics
	withPose := detectPoseArg != ""
	if withPose {
		tagSize, intrinsics, err = parsePoseArg(detectPoseArg)
		if err != nil {
			return err
		}
	}

	out := make([]detectionJSON, len(detections))
	for i, d := range detections {
		out[i] = toDetectionJSON(d)
		if withPose {
			best, _ := pose.Estimate(d.Homography, tagSize, intrinsics)
			pj := toPoseJSON(best)
			out[i].Pose = &pj
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
