package tilebravo

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/bodgit/tilebravo/stream"
	"github.com/bodgit/tilebravo/tile"
)

// ErrWorker is wrapped by the error of a Result whose decode failed inside
// the pool rather than because of its input.
var ErrWorker = errors.New("tilebravo: decode worker failed")

// Result is the outcome of a background decode.
type Result struct {
	Generation uint64
	Tiles      []tile.Tile
	Truncated  bool
	Err        error
}

type job struct {
	generation uint64
	src        []byte
	params     stream.Params
}

// Decoder decodes buffers on a pool of goroutines. Every request is tagged
// with a generation that increases with each Submit, so a consumer can
// ignore results that have been superseded.
type Decoder struct {
	jobs       chan job
	results    chan Result
	generation atomic.Uint64
	mu         sync.Mutex
	closed     bool
	wg         sync.WaitGroup
	logger     *log.Logger
}

// NewDecoder starts a pool of workers goroutines.
func NewDecoder(workers int, logger *log.Logger) *Decoder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	workers = max(1, workers)

	d := &Decoder{
		jobs:    make(chan job, workers),
		results: make(chan Result, workers),
		logger:  logger,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}

	return d
}

func (d *Decoder) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		r := d.run(j)
		if r.Err != nil {
			d.logger.Printf("Decode %d failed: %v\n", r.Generation, r.Err)
		}
		d.results <- r
	}
}

func (d *Decoder) run(j job) (r Result) {
	r.Generation = j.generation
	defer func() {
		if v := recover(); v != nil {
			r.Tiles, r.Truncated = nil, false
			r.Err = fmt.Errorf("%w: %v", ErrWorker, v)
		}
	}()
	return decode(j)
}

func decode(j job) Result {
	tiles, err := stream.Decode(j.src, j.params)
	if err != nil {
		return Result{Generation: j.generation, Err: err}
	}
	return Result{
		Generation: j.generation,
		Tiles:      tiles,
		Truncated:  stream.Truncated(len(j.src), j.params),
	}
}

// Submit hands src to the pool and returns the generation its result will
// carry. src must not be modified until the result arrives. If the pool
// is closed or busy the decode runs on the calling goroutine and its
// result is returned; otherwise nil is returned and the result is
// delivered on Results.
func (d *Decoder) Submit(src []byte, p stream.Params) (uint64, *Result) {
	j := job{
		generation: d.generation.Add(1),
		src:        src,
		params:     p,
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.closed {
		select {
		case d.jobs <- j:
			return j.generation, nil
		default:
		}
	}

	d.logger.Printf("Decoding %d synchronously\n", j.generation)
	r := decode(j)
	return j.generation, &r
}

// Generation returns the generation of the latest request.
func (d *Decoder) Generation() uint64 {
	return d.generation.Load()
}

// Results returns the channel results are delivered on. It is closed by
// Close.
func (d *Decoder) Results() <-chan Result {
	return d.results
}

// Close stops the workers once any queued work is done. Results still
// pending must be drained for Close to return.
func (d *Decoder) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
	close(d.results)
	return nil
}
