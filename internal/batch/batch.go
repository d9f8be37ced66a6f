// Package batch analyzes many documents at once: loose message files and
// the messages of mbox files, spread over a pool of workers.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/emersion/go-mbox"
	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/zostay/go-email-codec/analyze"
	"github.com/zostay/go-email-codec/crosscheck"
)

// Job is one document to analyze.
type Job struct {
	// Path is the file the document came from.
	Path string

	// Index is the position of the message in an mbox file, or -1 for a file
	// holding a single message.
	Index int

	Data []byte
}

// Name identifies the job in logs and reports.
func (j Job) Name() string {
	if j.Index < 0 {
		return j.Path
	}
	return fmt.Sprintf("%s#%d", j.Path, j.Index)
}

// Outcome is the analysis of one Job.
type Outcome struct {
	Job    Job
	Result *analyze.Result

	// Diffs lists disagreements with go-message when checking is on.
	Diffs []string

	Err error
}

// Options configures Run.
type Options struct {
	// Workers defaults to GOMAXPROCS.
	Workers int

	// Progress receives a progress bar. Nil means none.
	Progress io.Writer

	Logger zerolog.Logger

	// Check compares every document with crosscheck.
	Check bool

	Analyze []analyze.Option
}

// IsMbox reports whether path is read as an mbox file.
func IsMbox(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mbox", ".mbx":
		return true
	}
	return false
}

// Collect turns files and directories into jobs. Directories are walked;
// mbox files give one job per message.
func Collect(paths ...string) ([]Job, error) {
	var jobs []Job
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			if IsMbox(path) {
				js, err := ReadMbox(path, f)
				if err != nil {
					return err
				}
				jobs = append(jobs, js...)
				return nil
			}

			data, err := io.ReadAll(f)
			if err != nil {
				return fmt.Errorf("unable to read %s: %w", path, err)
			}
			jobs = append(jobs, Job{Path: path, Index: -1, Data: data})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return jobs, nil
}

// ReadMbox splits an mbox file into jobs.
func ReadMbox(path string, r io.Reader) ([]Job, error) {
	mr := mbox.NewReader(r)

	var jobs []Job
	for i := 0; ; i++ {
		msg, err := mr.NextMessage()
		if errors.Is(err, io.EOF) {
			return jobs, nil
		} else if err != nil {
			return nil, fmt.Errorf("unable to read message %d of %s: %w", i, path, err)
		}

		data, err := io.ReadAll(msg)
		if err != nil {
			return nil, fmt.Errorf("unable to read message %d of %s: %w", i, path, err)
		}

		jobs = append(jobs, Job{Path: path, Index: i, Data: data})
	}
}

// Run analyzes the jobs concurrently. Outcomes are in the order of jobs.
// Jobs not yet started when ctx is done fail with its error.
func Run(ctx context.Context, jobs []Job, opts Options) []Outcome {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(jobs),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("analyzing"),
			progressbar.OptionShowCount())
	}

	outcomes := make([]Outcome, len(jobs))
	wp := workerpool.New(workers)
	for i, job := range jobs {
		i, job := i, job
		wp.Submit(func() {
			outcomes[i] = analyzeJob(ctx, job, opts)

			if err := outcomes[i].Err; err != nil {
				opts.Logger.Error().Err(err).Str("job", job.Name()).Msg("cannot analyze message")
			} else if len(outcomes[i].Diffs) > 0 {
				opts.Logger.Warn().Strs("diffs", outcomes[i].Diffs).Str("job", job.Name()).Msg("readings disagree")
			} else {
				opts.Logger.Debug().Str("job", job.Name()).Msg("analyzed message")
			}

			if bar != nil {
				_ = bar.Add(1)
			}
		})
	}
	wp.StopWait()

	if bar != nil {
		_ = bar.Finish()
	}

	return outcomes
}

func analyzeJob(ctx context.Context, job Job, opts Options) Outcome {
	out := Outcome{Job: job}
	if out.Err = ctx.Err(); out.Err != nil {
		return out
	}

	out.Result, out.Err = analyze.ParseReader(bytes.NewReader(job.Data), opts.Analyze...)
	if out.Err != nil || !opts.Check {
		return out
	}

	s, err := crosscheck.Read(bytes.NewReader(job.Data))
	if err != nil {
		out.Err = fmt.Errorf("go-message cannot read it: %w", err)
		return out
	}
	out.Diffs = crosscheck.Compare(out.Result, s)

	return out
}

// Totals counts the outcomes that failed and those that disagree.
func Totals(outcomes []Outcome) (failed, disagreed int) {
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
		case len(o.Diffs) > 0:
			disagreed++
		}
	}
	return failed, disagreed
}
