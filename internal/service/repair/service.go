package repair

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/bookflow/embedder"
	"github.com/w-h-a/bookflow/generator"
	"github.com/w-h-a/bookflow/storer"
)

const temperature = 0.1

type Report struct {
	Scanned    int      `json:"scanned"`
	Violations int      `json:"violations"`
	Repaired   int      `json:"repaired"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	Ids        []string `json:"ids,omitempty"`
}

type Service struct {
	storer    storer.Storer
	generator generator.Generator
	embedder  embedder.Embedder
	options   Options
}

// Run rewrites every document whose content violates the language policy.
// A document is only written when both the new content and its embedding
// are ready.
func (s *Service) Run(ctx context.Context) (Report, error) {
	var report Report

	recs, err := s.storer.List(ctx, storer.Filter{})
	if err != nil {
		return report, goerr.Wrap(err, "failed to list documents")
	}

	for _, rec := range recs {
		report.Scanned++

		if !storer.ViolatesLanguagePolicy(rec.Content) {
			continue
		}

		report.Violations++
		report.Ids = append(report.Ids, rec.Id)

		if s.options.DryRun {
			slog.InfoContext(ctx, "found violating document", "id", rec.Id, "name", rec.Metadata.Name)
			continue
		}

		if err := s.options.Limiter.Wait(ctx); err != nil {
			return report, goerr.Wrap(err, "repair interrupted", goerr.V("scanned", report.Scanned))
		}

		switch err := s.repair(ctx, rec); {
		case err == nil:
			report.Repaired++
		case isSkip(err):
			report.Skipped++
			slog.WarnContext(ctx, "skipped document", "id", rec.Id, "error", err)
		default:
			report.Failed++
			slog.ErrorContext(ctx, "failed to repair document", "id", rec.Id, "error", err)
		}
	}

	slog.InfoContext(ctx, "repair finished",
		"scanned", report.Scanned,
		"violations", report.Violations,
		"repaired", report.Repaired,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"dry_run", s.options.DryRun,
	)

	return report, nil
}

func (s *Service) repair(ctx context.Context, rec storer.Record) error {
	content := rec.Metadata.Name + ". " + s.describe(ctx, rec.Metadata)
	if storer.ViolatesLanguagePolicy(content) {
		return goerr.Wrap(errStillViolating, "regenerated content", goerr.V("id", rec.Id))
	}

	vector, err := s.embedder.Embed(ctx, content)
	if err != nil || len(vector) == 0 {
		return goerr.Wrap(errEmbedding, "embed regenerated content", goerr.V("id", rec.Id), goerr.V("cause", fmt.Sprint(err)))
	}

	if err := s.storer.Replace(ctx, rec.Id, content, vector); err != nil {
		return goerr.Wrap(err, "replace document", goerr.V("id", rec.Id))
	}

	return nil
}

// describe asks the generator for a short Vietnamese description, falling
// back to a fixed sentence.
func (s *Service) describe(ctx context.Context, md storer.Metadata) string {
	if s.generator != nil {
		out, err := s.generator.Generate(ctx, prompt(md), generator.WithTemperature(temperature))
		if err == nil {
			out = strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(out))
			if len(out) > 0 {
				return out
			}
		}
		slog.WarnContext(ctx, "description generation failed, using template", "name", md.Name, "error", err)
	}

	return template(md)
}

func prompt(md storer.Metadata) string {
	kind := "địa điểm"
	if md.Type == storer.TypeDish {
		kind = "món ăn"
	}

	return fmt.Sprintf(`Bạn là chuyên gia du lịch Việt Nam.
Viết một đoạn mô tả ngắn (2-3 câu) về %s "%s" tại "%s".
Chỉ dùng tiếng Việt, không dùng bất kỳ chữ Trung, Nhật, Hàn hay tiếng Anh nào.
Nêu bật đặc điểm chính và sự hấp dẫn.`, kind, md.Name, md.Province)
}

func template(md storer.Metadata) string {
	kind := "điểm đến"
	if md.Type == storer.TypeDish {
		kind = "đặc sản"
	}
	return fmt.Sprintf("%s là %s nổi tiếng tại %s.", md.Name, kind, md.Province)
}

func New(st storer.Storer, gen generator.Generator, emb embedder.Embedder, opts ...Option) *Service {
	return &Service{
		storer:    st,
		generator: gen,
		embedder:  emb,
		options:   NewOptions(opts...),
	}
}
