package cmd

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/grovetools/cellconsole/pkg/overlay"
	"github.com/spf13/cobra"
)

func newCameraCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "camera",
		Short: "Capture and analyze images",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ping",
		Short: "Check the camera connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(cmd, action.Of(action.CameraPing))
		},
	})
	cmd.AddCommand(newCameraTriggerCmd())
	cmd.AddCommand(newCameraAnalyzeCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "autosetup",
		Short: "Run camera exposure autosetup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(cmd, action.Of(action.RunAutosetup))
		},
	})

	return cmd
}

func newCameraTriggerCmd() *cobra.Command {
	var (
		z   float64
		out string
	)
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Capture a frame",
		Long: `Capture a frame at the given robot Z. Without --z the robot's current
pose is read first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, "cli")
			if err != nil {
				return err
			}
			stop := rt.start(cmd.Context())
			defer stop()

			if !cmd.Flags().Changed("z") {
				pose, err := currentPose(cmd, rt)
				if err != nil {
					return err
				}
				z = pose.Z
			}

			got, err := rt.await(cmd.Context(), action.TriggerCameraAt(z))
			if err != nil {
				return err
			}
			capture, _ := got.Payload.(models.CameraCapture)
			if out != "" {
				if err := writeBase64File(out, capture.ImageBase64); err != nil {
					return err
				}
			}
			capture.ImageBase64 = ""
			return printResult(cmd, capture)
		},
	}
	cmd.Flags().Float64Var(&z, "z", 0, "Robot Z in mm used to select the px/mm scale")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the captured frame to this file")
	return cmd
}

func newCameraAnalyzeCmd() *cobra.Command {
	var (
		imagePath   string
		tcp         []float64
		overlayPath string
		width       int
		height      int
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a frame and print the detected objects",
		Long: `Analyze a frame. Without --image a fresh frame is captured first.
Without --tcp the robot's current pose is used.

Examples:
  cellconsole camera analyze --overlay overlay.png
  cellconsole camera analyze --image part.jpg --tcp 300,0,250,180,0,90`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, "cli")
			if err != nil {
				return err
			}
			stop := rt.start(cmd.Context())
			defer stop()
			ctx := cmd.Context()

			if len(tcp) != 0 && len(tcp) != 6 {
				return fmt.Errorf("--tcp needs 6 values, got %d", len(tcp))
			}
			if len(tcp) == 0 {
				pose, err := currentPose(cmd, rt)
				if err != nil {
					return err
				}
				tcp = pose.Slice()
			}

			var img string
			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("failed to read image: %w", err)
				}
				img = base64.StdEncoding.EncodeToString(data)
			} else {
				got, err := rt.await(ctx, action.TriggerCameraAt(tcp[2]))
				if err != nil {
					return err
				}
				capture, _ := got.Payload.(models.CameraCapture)
				img = capture.ImageBase64
			}

			got, err := rt.await(ctx, action.AnalyzeImageOf(img, tcp))
			if err != nil {
				return err
			}
			res, _ := got.Payload.(*models.AnalysisResult)

			if overlayPath != "" {
				if err := writeOverlay(overlayPath, img, res, overlay.Size{W: float64(width), H: float64(height)}, overlayOptions(rt.cfg)); err != nil {
					return err
				}
				rt.logger.WithField("path", overlayPath).Info("Overlay written")
			}
			return printResult(cmd, res)
		},
	}
	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Analyze this image file instead of capturing")
	cmd.Flags().Float64SliceVar(&tcp, "tcp", nil, "Tool pose x,y,z,rx,ry,rz sent with the image")
	cmd.Flags().StringVar(&overlayPath, "overlay", "", "Write the annotated frame as PNG to this file")
	cmd.Flags().IntVar(&width, "width", 0, "Overlay width in px (default native)")
	cmd.Flags().IntVar(&height, "height", 0, "Overlay height in px (default native)")
	return cmd
}

// currentPose reads the robot's tool pose.
func currentPose(cmd *cobra.Command, rt *runtime) (models.Pose, error) {
	got, err := rt.await(cmd.Context(), action.Of(action.GetTCP))
	if err != nil {
		return models.Pose{}, err
	}
	pose, _ := got.Payload.(models.Pose)
	return pose, nil
}

func writeOverlay(path, img string, res *models.AnalysisResult, size overlay.Size, opts overlay.Options) error {
	bg, err := overlay.DecodeBase64Image(img)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create overlay file: %w", err)
	}
	defer f.Close()
	return overlay.RenderAnalysis(bg, res, size, opts).EncodePNG(f)
}

func writeBase64File(path, data string) error {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("frame is not valid base64: %w", err)
	}
	return os.WriteFile(path, raw, 0644)
}
