package application

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/iter"

	"github.com/arclint/arclint/internal/domain"
	"github.com/arclint/arclint/internal/domain/rules"
	"github.com/arclint/arclint/internal/logging"
)

// ValidateService runs a validation session over a manifest tree:
// config → discover → per file (read, fix, decode, evaluate) → batch checks → report.
type ValidateService struct {
	scanner      domain.ManifestScanner
	loader       domain.DocumentLoader
	configLoader domain.ConfigLoader
	writer       domain.FileWriter
	git          domain.GitInfo
	logger       *slog.Logger
}

// NewValidateService creates a ValidateService. git may be nil, in which
// case reports carry no commit. A nil logger discards narration.
func NewValidateService(
	scanner domain.ManifestScanner,
	loader domain.DocumentLoader,
	configLoader domain.ConfigLoader,
	writer domain.FileWriter,
	git domain.GitInfo,
	logger *slog.Logger,
) *ValidateService {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &ValidateService{
		scanner:      scanner,
		loader:       loader,
		configLoader: configLoader,
		writer:       writer,
		git:          git,
		logger:       logger,
	}
}

// Run validates every manifest under root. It never returns an error:
// environment failures come back as an aborted report with one env-000
// finding, and per-file problems are findings on that file.
func (s *ValidateService) Run(root string, opts domain.ValidateOptions) *domain.Report {
	log := s.logger
	if !opts.Verbose {
		log = logging.NewDiscard()
	}

	report := domain.NewReport(root)
	defer report.Finalize()

	// 1. Root
	if err := checkRoot(root); err != nil {
		report.Abort(err.Error())
		return report
	}

	// 2. Config
	cfg, err := s.configLoader.Load(root)
	if err != nil {
		report.Abort(errors.Wrap(err, "loading config").Error())
		return report
	}

	// 3. Every configured extension needs a decoder
	for _, ext := range cfg.Extensions {
		if !s.loader.HasDecoder(ext) {
			report.Abort(errors.Wrapf(domain.ErrNoDecoder, "extension %q", ext).Error())
			return report
		}
	}

	// 4. Discover
	files, err := s.scanner.Discover(root, cfg.Extensions, cfg.ExcludePaths)
	if err != nil {
		report.Abort(errors.Wrap(err, "discovering files").Error())
		return report
	}
	log.Info("discovered files", "root", root, "count", len(files))

	if len(files) == 0 {
		report.AddFinding(domain.Finding{
			File:     root,
			RuleID:   domain.RuleNoFiles,
			Severity: domain.SeverityWarning,
			Message:  "no files found",
		})
		s.stampCommit(report, log)
		return report
	}

	// 5. Per file, results kept in discovery order
	set := rules.Default(cfg)
	mapper := iter.Mapper[string, domain.FileResult]{MaxGoroutines: opts.Workers()}
	results := mapper.Map(files, func(rel *string) domain.FileResult {
		return s.processFile(displayPath(root, *rel), set, opts.Fix, log)
	})

	// 6. Batch checks across every document of the run
	var refs []domain.ResourceRef
	for _, res := range results {
		refs = append(refs, res.Refs...)
	}
	byFile := make(map[string][]domain.Finding)
	for _, f := range set.EvaluateBatch(refs) {
		byFile[f.File] = append(byFile[f.File], f)
	}

	// 7. Merge
	for _, res := range results {
		res.Findings = placeByDocument(res.Findings, byFile[res.Path])
		report.AddFile(res)
	}

	// 8. Commit stamp
	s.stampCommit(report, log)

	log.Info("validation finished", "files", len(results), "findings", len(report.Findings))
	return report
}

func (s *ValidateService) processFile(path string, set *rules.RuleSet, fix domain.FixOptions, log *slog.Logger) domain.FileResult {
	res := domain.FileResult{Path: path}

	content, err := s.loader.Read(path)
	if err != nil {
		res.Findings = append(res.Findings, domain.Finding{
			File:     path,
			RuleID:   domain.RuleSyntax,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("unreadable file: %v", err),
		})
		log.Warn("unreadable file", "path", path, "error", err)
		return res
	}

	docs := s.loader.Decode(path, content)

	// Fixes only run on files that parse, so a rewrite never hides a syntax error.
	if fix.Enabled && allParsed(docs) {
		fixed, applied := set.Fix(content)
		if len(applied) > 0 {
			written := fix.Active()
			if written {
				if err := s.writer.WriteFile(path, fixed); err != nil {
					log.Warn("fix not written", "path", path, "error", err)
					written = false
				}
			}
			for _, r := range applied {
				res.Fixes = append(res.Fixes, domain.AppliedFix{
					Path:        path,
					RuleID:      r.ID,
					Description: r.FixNote,
					DryRun:      !written,
				})
			}
			if written {
				docs = s.loader.Decode(path, fixed)
				log.Info("applied fixes", "path", path, "rules", len(applied))
			}
		}
	}

	res.Documents = len(docs)
	for _, doc := range docs {
		if doc.ParseError != nil {
			res.Findings = append(res.Findings, domain.Finding{
				File:     path,
				Document: doc.Index,
				Line:     doc.Line,
				RuleID:   domain.RuleSyntax,
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("invalid YAML: %v", doc.ParseError),
			})
			continue
		}
		res.Findings = append(res.Findings, set.Evaluate(doc)...)
		res.Refs = append(res.Refs, doc.Ref())
	}
	res.Findings = set.MergeFile(res.Findings)

	log.Info("validated file", "path", path, "documents", res.Documents, "findings", len(res.Findings))
	return res
}

func (s *ValidateService) stampCommit(report *domain.Report, log *slog.Logger) {
	if s.git == nil || !s.git.IsGitRepo(report.Root) {
		return
	}
	hash, err := s.git.CommitHash(report.Root)
	if err != nil {
		log.Debug("no commit stamp", "error", err)
		return
	}
	report.Commit = hash
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(domain.ErrRootNotFound, "%s", root)
		}
		return errors.Wrapf(err, "stat %s", root)
	}
	if !info.IsDir() {
		return errors.Wrapf(domain.ErrRootNotFound, "%s is not a directory", root)
	}
	return nil
}

// displayPath joins root and a discovered relative path, slash separated.
func displayPath(root, rel string) string {
	return filepath.ToSlash(filepath.Join(root, filepath.FromSlash(rel)))
}

// placeByDocument inserts each batch finding after the findings of its own
// document, keeping the order of both slices.
func placeByDocument(findings, batch []domain.Finding) []domain.Finding {
	if len(batch) == 0 {
		return findings
	}
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Document < batch[j].Document
	})
	out := make([]domain.Finding, 0, len(findings)+len(batch))
	i := 0
	for _, b := range batch {
		for i < len(findings) && findings[i].Document <= b.Document {
			out = append(out, findings[i])
			i++
		}
		out = append(out, b)
	}
	return append(out, findings[i:]...)
}

func allParsed(docs []*domain.Document) bool {
	for _, d := range docs {
		if d.ParseError != nil {
			return false
		}
	}
	return true
}
