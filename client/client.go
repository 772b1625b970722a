// Package client turns user intent on the forecast page into prediction
// requests and their responses into mode-tagged results.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"solwindx/datasource"
	"solwindx/models"

	"go.uber.org/zap"
)

// Selection is the page-local choice of location and mode.
// Selecting one never clears the other.
type Selection struct {
	Location *models.Location `json:"location,omitempty"`
	Mode     models.Mode      `json:"mode,omitempty"`
}

// ViewState is a snapshot of the selection and what is on screen
type ViewState struct {
	Selection Selection      `json:"selection"`
	Seq       uint64         `json:"seq"`
	Result    ForecastResult `json:"result,omitempty"`
}

// Client is the forecast client for one page view
type Client struct {
	service  datasource.PredictionService
	notifier Notifier
	logger   *zap.Logger

	mu        sync.Mutex
	locations []models.Location
	selection Selection
	seq       uint64
	view      *View
}

// Option configures a Client
type Option func(*Client)

// WithNotifier routes user-visible notices to n
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRenderer sets what draws results as they arrive
func WithRenderer(r Renderer) Option {
	return func(c *Client) {
		c.view.renderer = r
	}
}

// New creates a client backed by service
func New(service datasource.PredictionService, opts ...Option) *Client {
	c := &Client{
		service: service,
		logger:  zap.NewNop(),
		view:    newView(nil, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.view.logger = c.logger
	if c.notifier == nil {
		c.notifier = logNotifier(c.logger)
	}
	return c
}

// LoadLocations fetches the city list. On any failure it falls back to
// FallbackCities and emits a notice; it never fails.
func (c *Client) LoadLocations(ctx context.Context) []models.Location {
	names, err := c.service.FetchCities(ctx)
	if err == nil && len(names) == 0 {
		err = errors.New("empty city list")
	}

	source := c.service.Name()
	if err != nil {
		terr := &TransportError{Op: OpLoadLocations, Err: err}
		c.logger.Warn("using fallback city list", zap.Error(terr))
		c.notify(ctx, Notice{Kind: NoticeError, Message: terr.Message()})
		names = FallbackCities
		source = "fallback"
	}

	locations := models.NewLocations(names)
	c.logger.Info("cities loaded", zap.Int("count", len(locations)), zap.String("source", source))

	c.mu.Lock()
	c.locations = locations
	c.mu.Unlock()

	return append([]models.Location(nil), locations...)
}

// Locations returns the loaded locations
func (c *Client) Locations() []models.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Location(nil), c.locations...)
}

// Search is the filter-as-you-type over the loaded locations
func (c *Client) Search(query string) []models.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter(c.locations, query)
}

// Featured returns the locations shown on the city grid
func (c *Client) Featured() []models.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return featured(c.locations)
}

// SelectLocation makes loc the current location. It must be one of the loaded
// locations or of the featured set.
func (c *Client) SelectLocation(loc models.Location) error {
	return c.SelectLocationByName(loc.Name)
}

// SelectLocationByName selects the known location called name
func (c *Client) SelectLocationByName(name string) error {
	c.mu.Lock()
	loc, ok := c.lookup(name)
	if ok {
		c.selection.Location = &loc
	}
	c.mu.Unlock()

	if !ok {
		err := &ValidationError{Field: "city", Message: MsgUnknownCity}
		c.notifier.Notify(Notice{Kind: NoticeValidation, Message: err.Message})
		return err
	}
	c.logger.Debug("location selected", zap.String("city", loc.Name), zap.Stringer("model", loc.Model))
	return nil
}

func (c *Client) lookup(name string) (models.Location, bool) {
	for _, loc := range c.locations {
		if loc.Name == name {
			return loc, true
		}
	}
	for _, loc := range featured(c.locations) {
		if loc.Name == name {
			return loc, true
		}
	}
	return models.Location{}, false
}

// SelectMode records mode as the current mode without submitting
func (c *Client) SelectMode(mode models.Mode) error {
	parsed, err := models.ParseMode(string(mode))
	if err != nil {
		verr := &ValidationError{Field: "mode", Message: MsgUnsupportedMode}
		c.notifier.Notify(Notice{Kind: NoticeValidation, Message: verr.Message})
		return verr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Mode = parsed
	return nil
}

// Selection returns the current selection
func (c *Client) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copySelection()
}

func (c *Client) copySelection() Selection {
	s := c.selection
	if s.Location != nil {
		loc := *s.Location
		s.Location = &loc
	}
	return s
}

// View returns the selection and the result currently displayed
func (c *Client) View() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ViewState{
		Selection: c.copySelection(),
		Seq:       c.view.seq,
		Result:    c.view.result,
	}
}

// Submission is a settled forecast request and the sequence number it was issued with
type Submission struct {
	Seq    uint64         `json:"seq"`
	Result ForecastResult `json:"result"`
}

// Submit validates the form for mode and issues exactly one prediction request.
// Validation failures return a *ValidationError without touching the network.
// Transport and decoding failures return a *TransportError. If a newer Submit
// was started meanwhile, the response is dropped and ErrSuperseded returned.
func (c *Client) Submit(ctx context.Context, mode models.Mode, in Inputs) (ForecastResult, error) {
	sub, err := c.SubmitTracked(ctx, mode, in)
	return sub.Result, err
}

// SubmitTracked is Submit, also reporting the sequence number of this request.
// Seq is zero when validation failed before a request was issued.
func (c *Client) SubmitTracked(ctx context.Context, mode models.Mode, in Inputs) (Submission, error) {
	if parsed, err := models.ParseMode(string(mode)); err == nil {
		mode = parsed
	}

	c.mu.Lock()
	if c.selection.Location == nil {
		c.mu.Unlock()
		err := &ValidationError{Field: "city", Message: MsgSelectCity}
		c.notify(ctx, Notice{Kind: NoticeValidation, Message: err.Message})
		return Submission{}, err
	}
	city := c.selection.Location.Name

	req, turbines, err := BuildRequest(city, mode, in)
	if err != nil {
		c.mu.Unlock()
		var ve *ValidationError
		if errors.As(err, &ve) {
			c.notify(ctx, Notice{Kind: NoticeValidation, Message: ve.Message})
		}
		return Submission{}, err
	}

	c.selection.Mode = mode
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	c.logger.Info("prediction issued",
		zap.String("city", req.City),
		zap.String("mode", string(req.Mode)),
		zap.Float64("area", req.Area),
		zap.Uint64("seq", seq))

	resp, err := c.service.PredictEnergy(ctx, req)
	var result ForecastResult
	if err == nil {
		result, err = Decode(req, turbines, resp)
	}

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Info("prediction settled", zap.Uint64("seq", seq), zap.Bool("stale", true))
		return Submission{Seq: seq}, ErrSuperseded
	}
	if err != nil {
		c.mu.Unlock()
		terr := &TransportError{Op: OpFetchForecast, Err: err}
		c.logger.Warn("prediction failed", zap.Uint64("seq", seq), zap.Error(terr))
		c.notify(ctx, Notice{Kind: NoticeError, Message: terr.Message()})
		return Submission{Seq: seq}, terr
	}
	renderErr := c.view.show(seq, result)
	c.mu.Unlock()

	c.logger.Info("prediction settled", zap.Uint64("seq", seq), zap.Bool("stale", false))
	sub := Submission{Seq: seq, Result: result}
	if renderErr != nil {
		return sub, fmt.Errorf("failed to render %s result: %w", mode, renderErr)
	}
	return sub, nil
}

// Close releases the view's chart
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.close()
}
