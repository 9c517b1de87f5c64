package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/dpshade/pocket-styler/internal/authoring"
	"github.com/dpshade/pocket-styler/internal/catalog"
	"github.com/dpshade/pocket-styler/internal/composer"
	"github.com/dpshade/pocket-styler/internal/config"
	"github.com/dpshade/pocket-styler/internal/encoder"
	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/logger"
	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/storage"
	"github.com/dpshade/pocket-styler/internal/validation"
)

// Service wires the catalog, composer and authoring tools over one library
type Service struct {
	cfg       *config.Config
	log       *logger.Logger
	loader    *storage.Loader
	cache     *catalog.Cache
	composer  *composer.Composer
	author    *authoring.Author
	validator *validation.Validator
	encoder   composer.Encoder
}

// NewService creates a service for the library cfg points at
func NewService(cfg *config.Config, log *logger.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.InternalError("service requires a configuration")
	}
	if log == nil {
		log = logger.Nop()
	}

	loader := storage.NewLoader(cfg.Sources(), log)
	cache := catalog.NewCache(loader, log)

	return &Service{
		cfg:       cfg,
		log:       log,
		loader:    loader,
		cache:     cache,
		composer:  composer.New(cache, log),
		author:    authoring.New(loader, cfg.IDPrefix, log),
		validator: validation.NewValidator(),
		encoder:   encoder.NewPreview(),
	}, nil
}

// Config returns the configuration the service was built with
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Catalog returns the current catalog, rebuilding it if a source changed
func (s *Service) Catalog() *catalog.Catalog {
	return s.cache.Get()
}

// SetEncoder replaces the encoder used by Encode.
func (s *Service) SetEncoder(enc composer.Encoder) {
	s.encoder = enc
}

// InitResult reports what InitLibrary created.
type InitResult struct {
	LibraryDir     string
	StarterWritten bool
	ConfigWritten  bool
	ConfigFile     string
}

// InitLibrary creates the library layout, the bundled starter styles and a
// default config file. Existing files are left alone.
func (s *Service) InitLibrary() (*InitResult, error) {
	if err := os.MkdirAll(s.cfg.PacksDir, 0755); err != nil {
		return nil, errors.StorageError("create packs directory", err)
	}

	wrote, err := storage.WriteStarterLibrary(s.cfg.LegacyFile)
	if err != nil {
		return nil, errors.StorageError("write starter library", err)
	}

	res := &InitResult{
		LibraryDir:     s.cfg.LibraryDir,
		StarterWritten: wrote,
		ConfigFile:     filepath.Join(s.cfg.LibraryDir, "config.yaml"),
	}
	if _, err := os.Stat(res.ConfigFile); os.IsNotExist(err) {
		if err := config.WriteDefault(res.ConfigFile, s.cfg.LibraryDir); err != nil {
			return nil, errors.StorageError("write config", err)
		}
		res.ConfigWritten = true
	}

	s.cache.Invalidate()
	s.log.Info("library initialized", "path", s.cfg.LibraryDir, "starter", wrote, "config", res.ConfigWritten)
	return res, nil
}

// ListFilter narrows ListStyles.
type ListFilter struct {
	// Category matches case-insensitively.
	Category string
	// Tags is a boolean tag expression such as "cinema AND NOT noir".
	Tags string
}

// ListStyles returns the catalog's templates that pass filter, in catalog order
func (s *Service) ListStyles(filter ListFilter) ([]models.StyleTemplate, error) {
	result := s.validator.Validate("list_styles", map[string]interface{}{
		"category": filter.Category,
		"tags":     filter.Tags,
	})
	if appErr := result.ToAppError(); appErr != nil {
		return nil, appErr
	}

	expr, err := models.ParseTagExpression(filter.Tags)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidExpression, fmt.Sprintf("invalid tag expression: %s", filter.Tags))
	}

	var out []models.StyleTemplate
	for _, t := range s.Catalog().Templates {
		if filter.Category != "" && !strings.EqualFold(t.Category, filter.Category) {
			continue
		}
		if !expr.Evaluate(t.Tags) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// SearchStyles fuzzy-matches query against each template's label and tags,
// best match first. An empty query returns every template.
func (s *Service) SearchStyles(query string) ([]models.StyleTemplate, error) {
	templates := s.Catalog().Templates
	if strings.TrimSpace(query) == "" {
		return templates, nil
	}

	result := s.validator.Validate("search_styles", map[string]interface{}{"query": query})
	if appErr := result.ToAppError(); appErr != nil {
		return nil, appErr
	}

	matches := fuzzy.FindFrom(query, searchSource(templates))

	results := make([]models.StyleTemplate, 0, len(matches))
	for _, match := range matches {
		results = append(results, templates[match.Index])
	}
	return results, nil
}

// searchSource adapts templates to fuzzy.Source
type searchSource []models.StyleTemplate

func (s searchSource) String(i int) string {
	t := s[i]
	return t.Label() + " " + strings.Join(t.Tags, " ")
}

func (s searchSource) Len() int {
	return len(s)
}

// GetStyle finds a template by id, or by choice label when ref contains the
// label separator.
func (s *Service) GetStyle(ref string) (models.StyleTemplate, error) {
	cat := s.Catalog()
	ref = strings.TrimSpace(ref)

	if t, ok := cat.Lookup(ref); ok {
		return t, nil
	}
	if strings.Contains(ref, models.LabelSeparator) {
		if t, ok := cat.Resolve(ref); ok {
			return t, nil
		}
	}
	return models.StyleTemplate{}, errors.NotFoundError(fmt.Sprintf("style %q", ref))
}

// Compose validates req and returns the styled prompt.
func (s *Service) Compose(req composer.Request) (string, *models.StyleTemplate, error) {
	if err := s.checkRequest(req); err != nil {
		return "", nil, err
	}
	return s.composer.Compose(req)
}

// Encode composes req and encodes it with the service's encoder.
func (s *Service) Encode(req composer.Request) (*composer.Result, error) {
	return s.EncodeWith(s.encoder, req)
}

// EncodeWith composes req and encodes it with enc.
func (s *Service) EncodeWith(enc composer.Encoder, req composer.Request) (*composer.Result, error) {
	if composer.MissingEncoder(enc) {
		return nil, errors.InvalidEncoderError()
	}
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}
	return s.composer.Encode(enc, req)
}

func (s *Service) checkRequest(req composer.Request) error {
	variant := string(req.Variant)
	if variant == "" {
		variant = string(models.VariantDefault)
	}
	result := s.validator.Validate("compose", map[string]interface{}{
		"prompt":            req.Prompt,
		"apply_style":       req.ApplyStyle,
		"style":             req.Style,
		"style_id_override": req.StyleIDOverride,
		"variant":           variant,
	})
	if appErr := result.ToAppError(); appErr != nil {
		return appErr
	}
	return nil
}

// DefaultVariant returns the configured default variant.
func (s *Service) DefaultVariant() models.Variant {
	return s.cfg.Variant()
}

// UserPack is the pack authoring commands write to by default.
func (s *Service) UserPack() string {
	return s.cfg.UserPack
}

// DraftStyle builds a style entry for packPath without writing it.
func (s *Service) DraftStyle(packPath string, in authoring.StyleInput) (*authoring.Draft, error) {
	return s.author.Draft(s.packOrDefault(packPath), in)
}

// SaveDraft writes a drafted style.
func (s *Service) SaveDraft(d *authoring.Draft) error {
	if err := d.Save(); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// AddStyle builds and writes one style.
func (s *Service) AddStyle(packPath string, in authoring.StyleInput) (models.StyleRecord, error) {
	rec, err := s.author.Add(s.packOrDefault(packPath), in)
	if err != nil {
		return models.StyleRecord{}, err
	}
	s.cache.Invalidate()
	return rec, nil
}

// BulkAddStyles adds items to a pack in one write.
func (s *Service) BulkAddStyles(packPath string, items []authoring.StyleInput) (*authoring.BulkResult, error) {
	res, err := s.author.Bulk(s.packOrDefault(packPath), items)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return res, nil
}

// Categories lists known categories with their style counts.
func (s *Service) Categories() []validation.CategoryCount {
	return s.author.Categories()
}

// Stats returns the total style count and counts per category.
func (s *Service) Stats() (int, []validation.CategoryCount) {
	return s.author.Stats()
}

func (s *Service) packOrDefault(packPath string) string {
	if packPath == "" {
		return s.cfg.UserPack
	}
	return packPath
}

// ValidationOutcome is the result of ValidateLibrary.
type ValidationOutcome struct {
	Report *validation.LibraryReport
	// SchemaErrors holds per-pack schema violations when strict checking ran.
	SchemaErrors []error
}

// OK reports whether the library passed every check that ran.
func (o *ValidationOutcome) OK() bool {
	return o.Report.OK() && len(o.SchemaErrors) == 0
}

// ValidateLibrary checks the loaded library. Strict mode also checks every
// source file against the pack schema.
func (s *Service) ValidateLibrary(strict bool) (*ValidationOutcome, error) {
	out := &ValidationOutcome{Report: validation.ValidateLibrary(s.loader.Load())}
	if !strict {
		return out, nil
	}

	pv, err := validation.NewPackValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to build pack validator")
	}
	for _, path := range s.loader.SourcePaths() {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			continue
		}
		if err := pv.ValidateFile(path); err != nil {
			out.SchemaErrors = append(out.SchemaErrors, err)
		}
	}
	return out, nil
}

// AuditLibrary reports style-quality findings. It never fails.
func (s *Service) AuditLibrary() *validation.AuditReport {
	return validation.Audit(s.loader.Load(), len(s.loader.PackPaths()))
}

// SourcePaths lists the files the catalog is built from.
func (s *Service) SourcePaths() []string {
	return s.loader.SourcePaths()
}
