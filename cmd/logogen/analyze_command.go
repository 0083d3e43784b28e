package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
	brandinghttp "github.com/sanjitr11/semiotic-logo-generator/internal/branding/http"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/repository"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/service"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/transcript"
)

type analyzeOutput struct {
	ProjectID     string               `json:"projectId"`
	BrandAnalysis domain.BrandAnalysis `json:"brandAnalysis"`
	Logos         []analyzeLogo        `json:"logos"`
}

type analyzeLogo struct {
	ConceptName string          `json:"conceptName"`
	LogoType    domain.LogoType `json:"logoType"`
	Rationale   string          `json:"rationale"`
	File        string          `json:"file,omitempty"`
}

// newAnalyzeCommand runs the full pipeline against an in-memory store, so no
// database is needed.
func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		file   string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a transcript and write three SVG concepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			t, err := transcript.Parse(raw)
			if err != nil {
				return err
			}

			cfg := ctx.loadConfig()
			if err := cfg.LLM.Validate(); err != nil {
				return err
			}

			log := ctx.logger(cmd.ErrOrStderr())
			gen, err := ctx.newGenerator(cmd.Context(), cfg.LLM, log)
			if err != nil {
				return err
			}

			svc := service.New(repository.NewMemoryStore(), gen, nil, log)
			res, err := svc.Analyze(cmd.Context(), t)
			if err != nil {
				return err
			}

			out := analyzeOutput{ProjectID: res.ProjectID, BrandAnalysis: res.BrandAnalysis}
			for _, logo := range res.Logos {
				entry := analyzeLogo{ConceptName: logo.ConceptName, LogoType: logo.LogoType, Rationale: logo.Rationale}
				if outDir != "" {
					path, err := writeSVG(outDir, logo)
					if err != nil {
						return err
					}
					entry.File = path
				}
				out.Logos = append(out.Logos, entry)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Transcript JSON file (reads stdin when omitted or -)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to write SVG files into")

	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file does not exist: %s", file)
		}
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return raw, nil
}

func writeSVG(dir string, logo domain.LogoConcept) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	name := fmt.Sprintf("%s-%s", logo.LogoType, brandinghttp.DownloadName(logo.ConceptName))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(logo.SVGCode), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
