// Package pipeline processes a file through a mask engine as an ordered
// stream of chunks: a single reader splits the input on chunk and line
// boundaries, a pool of workers masks each chunk independently, and a
// writer goroutine reassembles the results in original order.
package pipeline

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/AiToByte/safemask/pkg/matcher"
	"github.com/edsrzf/mmap-go"
)

// chunkSize is the target size of each unit of work. 8MiB balances worker
// parallelism against per-chunk overhead.
const chunkSize = 8 * 1024 * 1024

// maxInFlight bounds how many chunks may be buffered between the reader,
// the workers, and the writer at once (roughly chunkSize*maxInFlight of
// worst-case resident memory).
const maxInFlight = 32

// progressEvery throttles progress callbacks to every Nth flushed chunk,
// plus a guaranteed final call at 1.0.
const progressEvery = 4

// Stats summarizes a completed run.
type Stats struct {
	TotalLines     uint64
	ProcessedBytes uint64
	DurationSecs   float64
}

type chunk struct {
	index int
	data  []byte
}

type result struct {
	index int
	data  []byte
	lines uint64
}

// ProcessFile masks inputPath through engine and writes the result to
// outputPath, reporting fractional progress via progress as chunks land
// in order. progress may be nil.
func ProcessFile(inputPath, outputPath string, engine *matcher.Engine, progress func(float64)) (Stats, error) {
	if progress == nil {
		progress = func(float64) {}
	}

	start := time.Now()

	in, err := os.Open(inputPath)
	if err != nil {
		return Stats{}, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return Stats{}, fmt.Errorf("stat input: %w", err)
	}
	fileLen := info.Size()

	if fileLen == 0 {
		out, err := os.Create(outputPath)
		if err != nil {
			return Stats{}, fmt.Errorf("create output: %w", err)
		}
		out.Close()
		progress(1.0)
		return Stats{}, nil
	}

	m, err := mmap.Map(in, mmap.RDONLY, 0)
	if err != nil {
		return Stats{}, fmt.Errorf("mmap input: %w", err)
	}
	defer m.Unmap()

	resultsCh := make(chan result, maxInFlight)
	permits := make(chan struct{}, maxInFlight)

	var processedBytes atomic.Uint64
	var totalLines atomic.Uint64

	writerDone := make(chan error, 1)
	go func() {
		writerDone <- runWriter(outputPath, fileLen, resultsCh, permits, &processedBytes, &totalLines, progress)
	}()

	numWorkers := maxInFlight
	workCh := make(chan chunk, numWorkers)

	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		runWorkers(numWorkers, workCh, resultsCh, engine)
	}()

	for c := range splitChunks([]byte(m), chunkSize) {
		permits <- struct{}{}
		workCh <- c
	}
	close(workCh)
	<-workersDone
	close(resultsCh)

	if err := <-writerDone; err != nil {
		return Stats{}, err
	}

	progress(1.0)

	return Stats{
		TotalLines:     totalLines.Load(),
		ProcessedBytes: processedBytes.Load(),
		DurationSecs:   time.Since(start).Seconds(),
	}, nil
}

// runWorkers fans work out across numWorkers goroutines, each masking
// chunks independently and in any order; ordering is restored downstream
// by the writer.
func runWorkers(numWorkers int, workCh <-chan chunk, resultsCh chan<- result, engine *matcher.Engine) {
	done := make(chan struct{}, numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for c := range workCh {
				masked := engine.Mask(c.data)
				lines := uint64(bytes.Count(masked, []byte{'\n'}))
				resultsCh <- result{index: c.index, data: masked, lines: lines}
			}
		}()
	}
	for i := 0; i < numWorkers; i++ {
		<-done
	}
}

// runWriter reassembles results in index order and streams them to
// outputPath, releasing one permit per flushed chunk so the reader never
// gets more than maxInFlight chunks ahead of disk.
func runWriter(outputPath string, fileLen int64, resultsCh <-chan result, permits <-chan struct{}, processedBytes, totalLines *atomic.Uint64, progress func(float64)) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriterSize(out, 2*1024*1024)

	pending := make(map[int][]byte)
	nextIdx := 0

	for r := range resultsCh {
		pending[r.index] = r.data
		totalLines.Add(r.lines)

		for {
			data, ok := pending[nextIdx]
			if !ok {
				break
			}
			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			delete(pending, nextIdx)
			current := processedBytes.Add(uint64(len(data)))

			<-permits

			if nextIdx%progressEvery == 0 {
				progress(float64(current) / float64(fileLen))
			}
			nextIdx++
		}
	}

	return w.Flush()
}

// splitChunks yields non-overlapping, newline-aligned chunks of data: each
// chunk is extended past its target size boundary to the next line break
// so no line is ever split across two chunks. The final chunk takes
// whatever remains.
func splitChunks(data []byte, size int) <-chan chunk {
	out := make(chan chunk)
	go func() {
		defer close(out)
		pos := 0
		idx := 0
		for pos < len(data) {
			end := pos + size
			if end > len(data) {
				end = len(data)
			} else if nl := bytes.IndexByte(data[end:], '\n'); nl >= 0 {
				end += nl + 1
			} else {
				end = len(data)
			}
			out <- chunk{index: idx, data: data[pos:end]}
			idx++
			pos = end
		}
	}()
	return out
}
