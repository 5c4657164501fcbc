// Package pipeline turns one scanned page image into one metadata record.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/pagetagger/internal/filename"
	"github.com/lehigh-university-libraries/pagetagger/internal/imaging"
	"github.com/lehigh-university-libraries/pagetagger/internal/keywords"
	"github.com/lehigh-university-libraries/pagetagger/internal/models"
	"github.com/lehigh-university-libraries/pagetagger/internal/providers"
)

const (
	DescriptionPrefix = "AI-Generated: "
	DefaultLanguage   = "ar"
	titleKeywordRunes = 30
)

type Captioner interface {
	Caption(ctx context.Context, image providers.Image, mode providers.CaptionMode) (string, error)
	GroundPhrases(ctx context.Context, image providers.Image, caption string) (providers.Grounding, error)
}

type KeywordNormalizer interface {
	Normalize(ctx context.Context, rawLabels string) (keywords.Response, error)
}

type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Pipeline annotates page images with the injected services
type Pipeline struct {
	captioner  Captioner
	normalizer KeywordNormalizer
	translator Translator

	targetLanguage string
	maxEdge        int
}

type Option func(*Pipeline)

// WithTargetLanguage sets the caption translation language code
func WithTargetLanguage(lang string) Option {
	return func(p *Pipeline) {
		if lang != "" {
			p.targetLanguage = lang
		}
	}
}

// WithMaxEdge downscales images whose longest edge exceeds px before upload
func WithMaxEdge(px int) Option {
	return func(p *Pipeline) {
		p.maxEdge = px
	}
}

func New(captioner Captioner, normalizer KeywordNormalizer, translator Translator, opts ...Option) *Pipeline {
	p := &Pipeline{
		captioner:      captioner,
		normalizer:     normalizer,
		translator:     translator,
		targetLanguage: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process annotates the image at imagePath and moves it into outputDir. The
// record is returned only when every step, including the move, succeeded.
// Failures are always *FileError.
func (p *Pipeline) Process(ctx context.Context, imagePath, outputDir string) (models.ImageRecord, error) {
	name := filepath.Base(imagePath)
	log := slog.With("file", name)

	meta, err := filename.Parse(name)
	if err != nil {
		return models.ImageRecord{}, fail(name, StageFilename, ErrMetadataFormat, err)
	}

	page, err := imaging.Open(imagePath)
	if err != nil {
		return models.ImageRecord{}, fail(name, StageOpen, ErrImageOpen, err)
	}
	payload, err := page.Payload(p.maxEdge)
	if err != nil {
		return models.ImageRecord{}, fail(name, StageOpen, ErrImageOpen, err)
	}

	caption, err := p.captioner.Caption(ctx, payload, providers.ModeMoreDetailedCaption)
	if err == nil && caption == "" {
		err = fmt.Errorf("captioning returned no text")
	}
	if err != nil {
		return models.ImageRecord{}, fail(name, StageCaption, ErrExternalService, err)
	}
	log.Debug("Captioned image", "caption", caption)

	grounding, err := p.captioner.GroundPhrases(ctx, payload, caption)
	if err == nil && len(grounding.Labels) == 0 {
		err = fmt.Errorf("phrase grounding returned no labels")
	}
	if err != nil {
		return models.ImageRecord{}, fail(name, StageGround, ErrExternalService, err)
	}
	rawLabels := strings.Join(grounding.Labels, ", ")
	log.Debug("Grounded phrases", "labels", rawLabels)

	kw, err := p.normalizer.Normalize(ctx, rawLabels)
	if err == nil && (kw.Raw == "" || len(kw.Keywords) == 0) {
		err = fmt.Errorf("keyword normalization returned no keywords")
	}
	if err != nil {
		return models.ImageRecord{}, fail(name, StageNormalize, ErrExternalService, err)
	}
	log.Debug("Normalized keywords", "raw", kw.Raw, "keywords", kw.Keywords)

	translated, err := p.translator.Translate(ctx, kw.Raw, p.targetLanguage)
	if err == nil && strings.TrimSpace(translated) == "" {
		err = fmt.Errorf("translation returned no text")
	}
	if err != nil {
		return models.ImageRecord{}, fail(name, StageTranslate, ErrExternalService, err)
	}

	ext := filepath.Ext(name)
	record := models.ImageRecord{
		Filename:     name,
		SourceTitle:  meta.SourceTitle,
		SourceNumber: meta.SourceNumber,
		PageNumber:   meta.PageNumber,
		Date:         meta.Date,
		Title:        Title(name, kw.Raw),
		Description:  DescriptionPrefix + caption,
		Filetype:     ext,
		Filesize:     strconv.FormatInt(page.Size, 10),
		Dimensions:   page.Dimensions(),
		Caption:      translated,
		Keywords:     keywords.Join(kw.Keywords),
	}

	if _, err := relocate(imagePath, outputDir); err != nil {
		return models.ImageRecord{}, fail(name, StageRelocate, ErrRelocation, err)
	}

	return record, nil
}

// Title builds "<basename>__<keywords>" from the first 30 characters of the
// keyword response with spaces and commas dropped.
func Title(name, keywordResponse string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	head := []rune(keywordResponse)
	if len(head) > titleKeywordRunes {
		head = head[:titleKeywordRunes]
	}
	suffix := strings.NewReplacer(" ", "", ",", "").Replace(string(head))

	return base + "__" + suffix
}
