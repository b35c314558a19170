package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/gonogo/internal/model"
	"github.com/ppiankov/gonogo/internal/pipeline"
)

// Assessor turns one input source into a rendered report named after stem
type Assessor interface {
	AssessFileAs(ctx context.Context, source, stem string) (*pipeline.FileResult, error)
}

// AssessJob assesses a single input source
type AssessJob struct {
	Index    int
	Source   string
	Stem     string
	Assessor Assessor
}

// Execute executes the assessment job
func (j *AssessJob) Execute(ctx context.Context) Result {
	result := &AssessResult{
		ID:     uuid.NewString(),
		Index:  j.Index,
		Source: j.Source,
	}

	out, err := j.Assessor.AssessFileAs(ctx, j.Source, j.Stem)
	if err != nil {
		result.Error = err
		return result
	}

	result.Output = out.Output
	result.Report = out.Report
	return result
}

// AssessResult is the outcome of one batch entry
type AssessResult struct {
	ID     string        `json:"id"`
	Index  int           `json:"-"`
	Source string        `json:"source"`
	Output string        `json:"output,omitempty"`
	Report *model.Report `json:"report,omitempty"`
	Error  error         `json:"-"`
}

// GetError returns the error from the assessment
func (r *AssessResult) GetError() error {
	return r.Error
}

// BatchProcessor assesses many independent inputs concurrently
type BatchProcessor struct {
	assessor    Assessor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(assessor Assessor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		assessor:    assessor,
		concurrency: concurrency,
	}
}

// ProcessSources assesses every source and returns results in input order
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*AssessResult {
	if len(sources) == 0 {
		return []*AssessResult{}
	}

	stems := OutputStems(sources)

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, source := range sources {
		job := &AssessJob{
			Index:    i,
			Source:   source,
			Stem:     stems[i],
			Assessor: b.assessor,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()

	assessed := make([]*AssessResult, 0, len(results))
	for _, result := range results {
		assessed = append(assessed, result.(*AssessResult))
	}
	sort.Slice(assessed, func(i, j int) bool { return assessed[i].Index < assessed[j].Index })

	return assessed
}

// OutputStems names one output document per source. A source whose stem
// slugs the same as another's keeps its extension ("acme.json" becomes
// "acme_json"); any name still taken gets the source's 1-based index.
func OutputStems(sources []string) []string {
	counts := make(map[string]int, len(sources))
	for _, source := range sources {
		counts[pipeline.Slug(pipeline.SourceStem(source))]++
	}

	stems := make([]string, len(sources))
	used := make(map[string]bool, len(sources))
	for i, source := range sources {
		stem := pipeline.SourceStem(source)
		if counts[pipeline.Slug(stem)] > 1 {
			stem = pipeline.SourceName(source)
		}
		for n := i + 1; used[pipeline.Slug(stem)]; n++ {
			stem = fmt.Sprintf("%s_%d", pipeline.SourceName(source), n)
		}
		used[pipeline.Slug(stem)] = true
		stems[i] = stem
	}
	return stems
}

// Process accepts a directory of input files or a list file of sources
func (b *BatchProcessor) Process(ctx context.Context, target string) ([]*AssessResult, error) {
	sources, err := ReadSources(target)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no inputs found in %s", target)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSources expands target into input sources. A directory yields its
// .json, .yaml and .yml files; any other file is read as a list.
func ReadSources(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}
	if info.IsDir() {
		return ReadInputDir(target)
	}
	return ReadSourcesFromFile(target)
}

// ReadInputDir lists input files in dir, sorted by name
func ReadInputDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			sources = append(sources, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(sources)
	return sources, nil
}

// ReadSourcesFromFile reads sources from a file (one per line). Relative
// paths are resolved against the list file's directory.
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !pipeline.IsRemote(line) && !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
