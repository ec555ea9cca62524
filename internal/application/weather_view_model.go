package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
	"github.com/k-shtanenko/weather-dashboard/internal/domain/ports"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

// WeatherView is what the presentation layer renders.
type WeatherView struct {
	Query   string                  `json:"query"`
	State   entities.FetchState     `json:"state"`
	Loading bool                    `json:"loading"`
	Error   string                  `json:"error,omitempty"`
	Result  *entities.WeatherResult `json:"result,omitempty"`
	IconURL string                  `json:"icon_url,omitempty"`
}

type WeatherViewModel struct {
	client ports.WeatherClient
	logger logger.Logger

	// guardStale drops resolutions of queries that were superseded by a
	// newer submit. Without it the last response to arrive wins.
	guardStale bool

	mu     sync.Mutex
	seq    uint64
	query  string
	state  entities.FetchState
	result *entities.WeatherResult
	errMsg string
}

type WeatherViewModelOption func(*WeatherViewModel)

// WithLastResolvedWins disables the stale-response guard.
func WithLastResolvedWins() WeatherViewModelOption {
	return func(vm *WeatherViewModel) {
		vm.guardStale = false
	}
}

func NewWeatherViewModel(client ports.WeatherClient, log logger.Logger, opts ...WeatherViewModelOption) *WeatherViewModel {
	vm := &WeatherViewModel{
		client:     client,
		logger:     logger.Component(log, "weather_view_model"),
		guardStale: true,
		state:      entities.Idle(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// SubmitQuery runs one lookup for input. Flags change before the provider is
// called; the call's resolution updates the view again. Blank input only sets
// the error message and returns entities.ErrEmptyInput.
func (vm *WeatherViewModel) SubmitQuery(ctx context.Context, input string) (WeatherView, error) {
	query, err := entities.NewWeatherQuery(input)
	if err != nil {
		vm.mu.Lock()
		vm.errMsg = entities.MessageEmptyCity
		view := vm.viewLocked()
		vm.mu.Unlock()
		return view, entities.ErrEmptyInput
	}

	vm.mu.Lock()
	vm.seq++
	id := vm.seq
	vm.query = query.CityName
	vm.state = entities.Loading()
	vm.errMsg = ""
	vm.mu.Unlock()

	vm.logger.Debugf("Query #%d submitted for %q", id, query.CityName)
	result, fetchErr := vm.client.FetchWeather(ctx, query.CityName)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.guardStale && id != vm.seq {
		vm.logger.Debugf("Dropping response of query #%d, latest is #%d", id, vm.seq)
		return vm.viewLocked(), entities.ErrSuperseded
	}

	if fetchErr != nil {
		vm.logger.Warnf("Query #%d for %q failed: %v", id, query.CityName, fetchErr)
		message := entities.MessageFetchFailed
		var fe *entities.FetchError
		if errors.As(fetchErr, &fe) {
			message = fe.UserMessage()
		}
		vm.state = entities.Failed(message)
		vm.result = nil
		vm.errMsg = message
		return vm.viewLocked(), fmt.Errorf("fetch weather for %q: %w", query.CityName, fetchErr)
	}

	vm.state = entities.Succeeded(result)
	vm.result = &result
	vm.errMsg = ""
	return vm.viewLocked(), nil
}

func (vm *WeatherViewModel) Snapshot() WeatherView {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.viewLocked()
}

// Reset returns the view-model to Idle. In-flight queries are superseded.
func (vm *WeatherViewModel) Reset() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.seq++
	vm.query = ""
	vm.state = entities.Idle()
	vm.result = nil
	vm.errMsg = ""
}

func (vm *WeatherViewModel) viewLocked() WeatherView {
	view := WeatherView{
		Query:   vm.query,
		State:   vm.state,
		Loading: vm.state.IsLoading(),
		Error:   vm.errMsg,
	}
	if vm.state.IsSuccess() && vm.state.Result != nil {
		r := *vm.state.Result
		view.State.Result = &r
	}
	if vm.result != nil {
		r := *vm.result
		view.Result = &r
		view.IconURL = vm.client.IconURL(r.IconID)
	}
	return view
}
