package internal

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/geekboywoot/umjammer/internal/lcdui"
)

// Processor converts a list of PNG sources through a pipeline with a fixed
// pool of workers, writing one PNG per input into outDir. Outputs that
// already exist are left alone.
type Processor struct {
	startTime time.Time
	endTime   time.Time
	outDir    string
	poolSize  int
	maxJobs   int
	jobs      chan string
	results   chan error
	source    ImageSource
	inputs    []string
	pipeline  []lcdui.PipelineStage
}

func NewProcessor(outDir string, poolSize int, inputs []string, pipeline ...lcdui.PipelineStage) (*Processor, error) {
	if poolSize < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	if len(inputs) == 0 {
		return nil, errors.New("no files to process")
	}
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		name := OutputName(input)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("inputs %s and %s would both be written to %s", prev, input, name)
		}
		seen[name] = input
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	log.Printf("Batch contains %d files", len(inputs))
	return &Processor{
		startTime: time.Now(),
		outDir:    outDir,
		poolSize:  poolSize,
		maxJobs:   -1,
		jobs:      make(chan string),
		results:   make(chan error),
		source:    NewImageSource(),
		inputs:    inputs,
		pipeline:  pipeline,
	}, nil
}

// SetMaxJobs limits the run to the first n inputs; n <= 0 processes them all.
func (p *Processor) SetMaxJobs(n int) {
	if n <= 0 {
		n = -1
	}
	p.maxJobs = n
}

// DispatchJobs sends inputs to the jobs channel for processing by workers.
// When maxJobs is greater than zero, it limits the number of jobs dispatched,
// hence set to -1 to dispatch all jobs.
func (p *Processor) DispatchJobs() {

	go func() {
		for n, input := range p.inputs {
			if p.maxJobs > 0 && n >= p.maxJobs {
				break
			}
			p.jobs <- input
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	log.Printf("Starting processing files with pool size: %d", p.poolSize)

	for i := range p.poolSize {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	log.Printf("Worker %d started", i)
	for input := range p.jobs {
		p.results <- p.processFile(input)
	}
	log.Printf("Worker %d finished", i)
}

func (p *Processor) processFile(input string) error {
	filename := filepath.Join(p.outDir, OutputName(input))

	// if the file already exists, skip processing
	if _, err := os.Stat(filename); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	img, err := p.source.Load(input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", input, err)
	}

	out, err := img.Pipeline(p.pipeline...)
	if err != nil {
		return fmt.Errorf("failed to process image pipeline for %s: %w", input, err)
	}

	return WriteFileAtomic(filename, out)
}

// WriteFileAtomic encodes img into a temporary file next to filename and
// renames it into place, so readers never see a partial PNG.
func WriteFileAtomic(filename string, img *lcdui.Image) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), "convert-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if err := img.Write(tmpFile); err != nil {
		return fmt.Errorf("failed to write processed image to temporary file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file before rename: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	cleanupTemp = false // Successfully renamed, don't delete
	return nil
}

func (p *Processor) Wait() []error {
	waitFor := p.maxJobs
	if waitFor < 0 || waitFor > len(p.inputs) {
		waitFor = len(p.inputs)
	}
	log.Printf("Waiting for %d files to be processed", waitFor)

	errors := make([]error, 0, 10)
	for range waitFor {
		err := <-p.results
		if err != nil {
			errors = append(errors, err)
		}
	}
	p.endTime = time.Now()
	elapsed := p.endTime.Sub(p.startTime)
	log.Printf("All files processed in %s (errors=%d)", elapsed, len(errors))
	return errors
}

// OutputName derives the output file name for an input path or URL: its base
// name with a .png extension.
func OutputName(input string) string {
	base := filepath.Base(input)
	if IsURL(input) {
		if u, err := url.Parse(input); err == nil {
			base = path.Base(u.Path)
		}
	}
	if base == "" || base == "." || base == "/" {
		base = "image"
	}
	return strings.TrimSuffix(base, path.Ext(base)) + ".png"
}
