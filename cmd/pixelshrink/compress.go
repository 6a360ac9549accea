package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/storage"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/upload"
)

var (
	targetKB        int
	outDir          string
	compressTimeout time.Duration
)

func newCompressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compress FILE",
		Short: "Compress a local JPEG or PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := compressFile(cmd.Context(), args[0], outDir, targetKB)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&targetKB, "target-kb", "t", 500, "target size in kilobytes")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().DurationVar(&compressTimeout, "timeout", 2*time.Minute, "compression timeout")
	return cmd
}

// compressFile runs one compression through a local controller and writes
// the result as compressed_<name> into dir. It returns the written path.
func compressFile(ctx context.Context, path, dir string, kb int) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	head := data
	if len(head) > upload.SniffLen {
		head = head[:upload.SniffLen]
	}
	mimeType, err := upload.ValidateImageBySniff(path, head)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	store := storage.NewMemoryStore(storage.DefaultTTL)
	ctrl := shrink.NewController(imageprocessor.GetCompressor(), store,
		shrink.WithID("cli"),
		shrink.WithTimeout(compressTimeout),
	)
	defer ctrl.Close(context.Background())

	file := shrink.File{
		Name:     filepath.Base(path),
		Size:     int64(len(data)),
		MimeType: mimeType,
		Data:     data,
	}
	if err := ctrl.HandleFile(ctx, file); err != nil {
		return "", err
	}
	task, err := ctrl.Compress(ctx, fmt.Sprint(kb))
	if err != nil {
		return "", err
	}
	download, err := task.Wait(ctx)
	if err != nil {
		return "", err
	}
	obj, err := store.Open(ctx, download.Token)
	if err != nil {
		return "", err
	}

	out := filepath.Join(dir, obj.Name)
	if err := os.WriteFile(out, obj.Data, 0o644); err != nil {
		return "", err
	}
	return out, nil
}
