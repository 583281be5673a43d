package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/models/dto"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/ocr"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/validator"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/view"
	"github.com/spf13/cobra"
)

const barWidth = 30

func processCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "process <file.pdf>",
		Short: "Upload a PDF, follow its progress and save the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			api, err := opts.client()
			if err != nil {
				return err
			}
			svc := ocr.NewService(api, validator.New(opts.cfg.UploadConfig.MaxSize), opts.log,
				ocr.WithInterval(opts.cfg.ClientConfig.PollInterval))
			defer svc.Cleanup()

			ctx := cmd.Context()
			jobID, err := svc.ProcessFile(ctx, filepath.Base(path), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "job %s\n", jobID)

			type outcome struct {
				result *dto.OCRResult
				err    error
			}
			done := make(chan outcome, 1)

			err = svc.PollJobStatus(ctx, jobID, ocr.Callbacks{
				OnProgress: func(s *dto.JobStatus) {
					fmt.Fprintf(cmd.ErrOrStderr(), "\r%s %-20s", view.ProgressBar(s.Progress, barWidth), s.CurrentStep)
				},
				OnComplete: func(r *dto.OCRResult) { done <- outcome{result: r} },
				OnError:    func(err error) { done <- outcome{err: err} },
			})
			if err != nil {
				return err
			}

			var res outcome
			select {
			case res = <-done:
			case <-ctx.Done():
				fmt.Fprintln(cmd.ErrOrStderr())
				cancelled, cerr := svc.CancelJob(context.WithoutCancel(ctx), jobID)
				if cerr != nil {
					return errors.Join(ctx.Err(), cerr)
				}
				if cancelled {
					fmt.Fprintf(cmd.ErrOrStderr(), "job %s cancelled\n", jobID)
				}
				return ctx.Err()
			}
			fmt.Fprintln(cmd.ErrOrStderr())

			if res.err != nil {
				return res.err
			}
			return writeResult(cmd, out, filepath.Base(path), res.result)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", ".", "directory for the extracted text and JSON result")
	return cmd
}

func writeResult(cmd *cobra.Command, dir, fileName string, result *dto.OCRResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	textPath := filepath.Join(dir, view.TextFileName(fileName))
	if err := os.WriteFile(textPath, []byte(result.ExtractedText), 0o644); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	jsonPath := filepath.Join(dir, view.JSONFileName(fileName))
	if err := os.WriteFile(jsonPath, raw, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d page(s), confidence %.0f%%, %.1fs\n%s\n%s\n",
		result.PageCount, result.Confidence*100, result.ProcessingTime, textPath, jsonPath)
	return nil
}
