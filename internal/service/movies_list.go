package service

import (
	"log/slog"
	"net/url"

	"github.com/google/uuid"
	"github.com/mmcdole/reel/internal/domain"
)

// User-facing messages
const (
	ConnectivityErrorMessage = "Couldn't connect to server"
	ImageErrorMessage        = "Failed to get image"
)

// URLBuilder builds request URLs for the orchestrators
type URLBuilder interface {
	SearchURL(query string, page int) (*url.URL, error)
	DetailsURL(id string) (*url.URL, error)
}

// imageSlot is the single outstanding poster load for a row
type imageSlot struct {
	task domain.Task
	seq  uint64
}

// MoviesListViewModel runs search-triggered list loads and the per-row poster
// loads of the resulting cell controllers. All methods must be called from the
// main queue; loader completions are redispatched there.
type MoviesListViewModel struct {
	moviesLoader domain.MoviesLoader
	imageLoader  domain.ImageDataLoader
	urls         URLBuilder
	queue        MainQueue
	logger       *slog.Logger
	page         int

	// Observers, invoked on the main queue
	OnLoadingStateChange  func(loading bool)
	OnMoviesListLoad      func(controllers []*CellController)
	OnMoviesListLoadError func(message string) // empty clears the error

	query      string
	searchTask domain.Task
	searchSeq  uint64

	// generation identifies the current result set; controllers from older
	// sets are inert
	generation uint64
	imageTasks map[uuid.UUID]imageSlot
	seq        uint64
}

// NewMoviesListViewModel creates a list orchestrator that searches page of the results
func NewMoviesListViewModel(
	moviesLoader domain.MoviesLoader,
	imageLoader domain.ImageDataLoader,
	urls URLBuilder,
	queue MainQueue,
	page int,
	logger *slog.Logger,
) *MoviesListViewModel {
	if logger == nil {
		logger = slog.Default()
	}
	if page < 1 {
		page = 1
	}
	return &MoviesListViewModel{
		moviesLoader: moviesLoader,
		imageLoader:  imageLoader,
		urls:         urls,
		queue:        queue,
		logger:       logger,
		page:         page,
		imageTasks:   make(map[uuid.UUID]imageSlot),
	}
}

// Query returns the most recently searched text
func (vm *MoviesListViewModel) Query() string { return vm.query }

// IsSearching returns true while a list load is in flight
func (vm *MoviesListViewModel) IsSearching() bool { return vm.searchSeq != 0 }

// Search cancels any in-flight list load and starts a new one for query
func (vm *MoviesListViewModel) Search(query string) {
	u, err := vm.urls.SearchURL(query, vm.page)
	if err != nil {
		vm.logger.Warn("cannot build search url", "query", query, "error", err)
		return
	}
	vm.query = query

	vm.notifyLoading(true)
	vm.notifyError("")
	vm.cancelSearch()

	seq := vm.nextSeq()
	vm.searchSeq = seq
	vm.logger.Debug("searching", "query", query, "page", vm.page)

	task := vm.moviesLoader.Load(u, func(movies []domain.Movie, err error) {
		vm.queue.Dispatch(func() { vm.onMovieSearch(seq, movies, err) })
	})
	if vm.searchSeq == seq {
		vm.searchTask = task
	}
}

// Refresh repeats the last search
func (vm *MoviesListViewModel) Refresh() {
	vm.Search(vm.query)
}

// Close cancels the list load and every tracked poster load
func (vm *MoviesListViewModel) Close() {
	vm.cancelSearch()
	for id, slot := range vm.imageTasks {
		if slot.task != nil {
			slot.task.Cancel()
		}
		delete(vm.imageTasks, id)
	}
}

func (vm *MoviesListViewModel) cancelSearch() {
	if vm.searchTask != nil {
		vm.searchTask.Cancel()
	}
	vm.searchTask = nil
	vm.searchSeq = 0
}

func (vm *MoviesListViewModel) onMovieSearch(seq uint64, movies []domain.Movie, err error) {
	if seq != vm.searchSeq {
		vm.logger.Debug("dropping superseded search result", "seq", seq)
		return
	}
	vm.searchTask = nil
	vm.searchSeq = 0
	vm.notifyLoading(false)

	if err != nil {
		vm.logger.Warn("search failed", "query", vm.query, "error", err)
		vm.notifyError(ConnectivityErrorMessage)
		return
	}

	// Rows from the previous set are abandoned; their loads finish into a stale generation
	vm.generation++
	vm.imageTasks = make(map[uuid.UUID]imageSlot)

	controllers := make([]*CellController, len(movies))
	for i, movie := range movies {
		controllers[i] = NewCellController(movie, vm.generation, vm)
	}
	vm.logger.Debug("search complete", "query", vm.query, "results", len(controllers))

	if vm.OnMoviesListLoad != nil {
		vm.OnMoviesListLoad(controllers)
	}
}

// DidRequestImage starts a poster load for c, superseding any previous load for that row
func (vm *MoviesListViewModel) DidRequestImage(c *CellController) {
	if c.generation != vm.generation {
		return
	}
	if !c.Model.HasPoster() {
		c.DisplayPlaceholder()
		return
	}

	c.DisplayError("")
	c.DisplayLoading(true)
	vm.cancelImage(c.ID)

	seq := vm.nextSeq()
	vm.imageTasks[c.ID] = imageSlot{seq: seq}

	task := vm.imageLoader.Load(c.Model.PosterImageURL, func(data []byte, err error) {
		vm.queue.Dispatch(func() { vm.onImageLoad(c, seq, data, err) })
	})
	if slot, ok := vm.imageTasks[c.ID]; ok && slot.seq == seq {
		slot.task = task
		vm.imageTasks[c.ID] = slot
	}
}

// DidCancelImageRequest cancels and forgets the poster load for c
func (vm *MoviesListViewModel) DidCancelImageRequest(c *CellController) {
	vm.cancelImage(c.ID)
}

func (vm *MoviesListViewModel) cancelImage(id uuid.UUID) {
	slot, ok := vm.imageTasks[id]
	if !ok {
		return
	}
	if slot.task != nil {
		slot.task.Cancel()
	}
	delete(vm.imageTasks, id)
}

func (vm *MoviesListViewModel) onImageLoad(c *CellController, seq uint64, data []byte, err error) {
	slot, ok := vm.imageTasks[c.ID]
	if !ok || slot.seq != seq || c.generation != vm.generation {
		return
	}
	delete(vm.imageTasks, c.ID)

	c.DisplayLoading(false)
	if err != nil {
		vm.logger.Debug("poster load failed", "movie", c.Model.ID, "error", err)
		c.DisplayError(ImageErrorMessage)
		return
	}

	img, err := DecodeImage(data)
	if err != nil {
		vm.logger.Debug("poster decode failed", "movie", c.Model.ID, "bytes", len(data), "error", err)
		c.DisplayError(ImageErrorMessage)
		return
	}
	c.DisplayImage(img)
}

func (vm *MoviesListViewModel) nextSeq() uint64 {
	vm.seq++
	return vm.seq
}

func (vm *MoviesListViewModel) notifyLoading(loading bool) {
	if vm.OnLoadingStateChange != nil {
		vm.OnLoadingStateChange(loading)
	}
}

func (vm *MoviesListViewModel) notifyError(message string) {
	if vm.OnMoviesListLoadError != nil {
		vm.OnMoviesListLoadError(message)
	}
}
