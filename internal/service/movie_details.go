package service

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/mmcdole/reel/internal/domain"
)

// LoadState is the state of a single-slot load
type LoadState int

const (
	StateEmpty LoadState = iota
	StateLoading
	StateLoaded
	StateFailure
)

// String returns the state name for logging
func (s LoadState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// MovieDetailsViewModel loads the details of one movie and owns the poster
// view-model once details arrive. Methods must be called from the main queue.
type MovieDetailsViewModel struct {
	Movie domain.Movie

	loader      domain.MovieDetailsLoader
	imageLoader domain.ImageDataLoader
	urls        URLBuilder
	queue       MainQueue
	logger      *slog.Logger

	// OnChange is invoked on the main queue after every state transition,
	// including transitions of the content view-model
	OnChange func()

	state   LoadState
	details domain.MovieDetails
	err     error
	content *MovieDetailsContentViewModel

	task    domain.Task
	taskSeq uint64
	seq     uint64
}

// NewMovieDetailsViewModel creates a details orchestrator for movie
func NewMovieDetailsViewModel(
	movie domain.Movie,
	loader domain.MovieDetailsLoader,
	imageLoader domain.ImageDataLoader,
	urls URLBuilder,
	queue MainQueue,
	logger *slog.Logger,
) *MovieDetailsViewModel {
	if logger == nil {
		logger = slog.Default()
	}
	return &MovieDetailsViewModel{
		Movie:       movie,
		loader:      loader,
		imageLoader: imageLoader,
		urls:        urls,
		queue:       queue,
		logger:      logger,
	}
}

// State returns the current details state
func (vm *MovieDetailsViewModel) State() LoadState { return vm.state }

// Details returns the loaded details; valid in StateLoaded
func (vm *MovieDetailsViewModel) Details() domain.MovieDetails { return vm.details }

// Err returns the failure; valid in StateFailure
func (vm *MovieDetailsViewModel) Err() error { return vm.err }

// Content returns the poster view-model; nil until details are loaded
func (vm *MovieDetailsViewModel) Content() *MovieDetailsContentViewModel { return vm.content }

// OnViewAppear starts loading the details
func (vm *MovieDetailsViewModel) OnViewAppear() {
	vm.load()
}

// OnRetry reloads the details after a failure
func (vm *MovieDetailsViewModel) OnRetry() {
	if vm.state != StateFailure {
		return
	}
	vm.load()
}

// OnViewDisappear cancels the details load and the poster load
func (vm *MovieDetailsViewModel) OnViewDisappear() {
	vm.cancel()
	if vm.content != nil {
		vm.content.OnViewDisappear()
	}
}

func (vm *MovieDetailsViewModel) cancel() {
	if vm.task != nil {
		vm.task.Cancel()
	}
	vm.task = nil
	vm.taskSeq = 0
}

func (vm *MovieDetailsViewModel) load() {
	vm.cancel()

	u, err := vm.urls.DetailsURL(vm.Movie.ID)
	if err != nil {
		vm.logger.Warn("cannot build details url", "movie", vm.Movie.ID, "error", err)
		vm.err = fmt.Errorf("details url: %w", err)
		vm.setState(StateFailure)
		return
	}

	vm.err = nil
	vm.setState(StateLoading)

	vm.seq++
	seq := vm.seq
	vm.taskSeq = seq
	task := vm.loader.Load(u, func(details domain.MovieDetails, err error) {
		vm.queue.Dispatch(func() { vm.onDetailsLoad(seq, details, err) })
	})
	if vm.taskSeq == seq {
		vm.task = task
	}
}

func (vm *MovieDetailsViewModel) onDetailsLoad(seq uint64, details domain.MovieDetails, err error) {
	if seq != vm.taskSeq {
		return
	}
	vm.task = nil
	vm.taskSeq = 0

	if err != nil {
		vm.logger.Warn("details load failed", "movie", vm.Movie.ID, "error", err)
		vm.err = err
		vm.setState(StateFailure)
		return
	}

	if vm.content != nil {
		vm.content.OnViewDisappear()
	}
	vm.details = details
	vm.content = NewMovieDetailsContentViewModel(details, vm.imageLoader, vm.queue, vm.logger)
	vm.content.OnChange = vm.notify
	vm.setState(StateLoaded)
	vm.content.OnViewAppear()
}

func (vm *MovieDetailsViewModel) setState(s LoadState) {
	vm.state = s
	vm.notify()
}

func (vm *MovieDetailsViewModel) notify() {
	if vm.OnChange != nil {
		vm.OnChange()
	}
}

// MovieDetailsContentViewModel loads the poster shown on the details screen
type MovieDetailsContentViewModel struct {
	Details domain.MovieDetails

	imageLoader domain.ImageDataLoader
	queue       MainQueue
	logger      *slog.Logger

	OnChange func()

	state LoadState
	data  []byte
	image image.Image
	err   error

	task    domain.Task
	taskSeq uint64
	seq     uint64
}

// NewMovieDetailsContentViewModel creates the poster view-model for details
func NewMovieDetailsContentViewModel(details domain.MovieDetails, imageLoader domain.ImageDataLoader, queue MainQueue, logger *slog.Logger) *MovieDetailsContentViewModel {
	if logger == nil {
		logger = slog.Default()
	}
	return &MovieDetailsContentViewModel{
		Details:     details,
		imageLoader: imageLoader,
		queue:       queue,
		logger:      logger,
	}
}

// ImageState returns the poster state
func (vm *MovieDetailsContentViewModel) ImageState() LoadState { return vm.state }

// ImageData returns the raw poster bytes; valid in StateLoaded
func (vm *MovieDetailsContentViewModel) ImageData() []byte { return vm.data }

// Image returns the decoded poster; valid in StateLoaded
func (vm *MovieDetailsContentViewModel) Image() image.Image { return vm.image }

// Err returns the poster failure; valid in StateFailure
func (vm *MovieDetailsContentViewModel) Err() error { return vm.err }

// OnViewAppear starts the poster load. Movies without a poster stay empty.
func (vm *MovieDetailsContentViewModel) OnViewAppear() {
	if vm.Details.PosterImageURL == nil {
		return
	}
	vm.cancel()

	vm.err = nil
	vm.setState(StateLoading)

	vm.seq++
	seq := vm.seq
	vm.taskSeq = seq
	task := vm.imageLoader.Load(vm.Details.PosterImageURL, func(data []byte, err error) {
		vm.queue.Dispatch(func() { vm.onImageLoad(seq, data, err) })
	})
	if vm.taskSeq == seq {
		vm.task = task
	}
}

// OnImageLoadRetry reloads the poster after a failure
func (vm *MovieDetailsContentViewModel) OnImageLoadRetry() {
	if vm.state != StateFailure {
		return
	}
	vm.OnViewAppear()
}

// OnViewDisappear cancels the poster load
func (vm *MovieDetailsContentViewModel) OnViewDisappear() {
	vm.cancel()
}

func (vm *MovieDetailsContentViewModel) cancel() {
	if vm.task != nil {
		vm.task.Cancel()
	}
	vm.task = nil
	vm.taskSeq = 0
}

func (vm *MovieDetailsContentViewModel) onImageLoad(seq uint64, data []byte, err error) {
	if seq != vm.taskSeq {
		return
	}
	vm.task = nil
	vm.taskSeq = 0

	if err == nil {
		vm.image, err = DecodeImage(data)
	}
	if err != nil {
		vm.logger.Debug("details poster failed", "movie", vm.Details.ID, "error", err)
		vm.err = err
		vm.data = nil
		vm.image = nil
		vm.setState(StateFailure)
		return
	}

	vm.data = data
	vm.setState(StateLoaded)
}

func (vm *MovieDetailsContentViewModel) setState(s LoadState) {
	vm.state = s
	if vm.OnChange != nil {
		vm.OnChange()
	}
}
