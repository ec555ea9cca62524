package application

import (
	"context"
	"sync"
	"time"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
	"github.com/k-shtanenko/weather-dashboard/internal/domain/ports"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

const (
	DefaultAckDelay = time.Second
	AckMessage      = "User details saved successfully!"
)

// FormView.Dirty reports whether any field holds a value.
type FormView struct {
	Values     entities.PersonalInfoRecord `json:"values"`
	Errors     entities.FieldErrors        `json:"errors,omitempty"`
	Dirty      bool                        `json:"dirty"`
	Submitting bool                        `json:"submitting"`
}

type Acknowledgment struct {
	Message     string                      `json:"message"`
	Record      entities.PersonalInfoRecord `json:"record"`
	SubmittedAt time.Time                   `json:"submitted_at"`
}

// PersonalInfoForm holds the form's values and gates submission. Nothing is
// persisted: a valid submission is acknowledged after a fixed delay and the
// form is cleared.
type PersonalInfoForm struct {
	validator ports.Validator
	ackDelay  time.Duration
	logger    logger.Logger

	mu      sync.Mutex
	values  entities.PersonalInfoRecord
	errors  entities.FieldErrors
	pending bool
}

func NewPersonalInfoForm(validator ports.Validator, ackDelay time.Duration, log logger.Logger) *PersonalInfoForm {
	if ackDelay < 0 {
		ackDelay = DefaultAckDelay
	}
	return &PersonalInfoForm{
		validator: validator,
		ackDelay:  ackDelay,
		logger:    logger.Component(log, "personal_info_form"),
	}
}

func (f *PersonalInfoForm) Validate(values entities.PersonalInfoRecord) entities.FieldErrors {
	errs := f.validator.Validate(values)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit returns entities.ErrSubmissionPending while another submission waits
// for its acknowledgment, and entities.FieldErrors when any field is invalid.
func (f *PersonalInfoForm) Submit(ctx context.Context, values entities.PersonalInfoRecord) (Acknowledgment, error) {
	f.mu.Lock()
	if f.pending {
		f.mu.Unlock()
		return Acknowledgment{}, entities.ErrSubmissionPending
	}

	f.values = values
	if errs := f.Validate(values); errs != nil {
		f.errors = errs
		f.mu.Unlock()
		f.logger.Debugf("Submission blocked by %d invalid field(s)", len(errs))
		return Acknowledgment{}, errs
	}

	f.errors = nil
	f.pending = true
	f.mu.Unlock()

	timer := time.NewTimer(f.ackDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		f.mu.Lock()
		f.pending = false
		f.mu.Unlock()
		return Acknowledgment{}, ctx.Err()
	case <-timer.C:
	}

	f.mu.Lock()
	f.values = entities.PersonalInfoRecord{}
	f.errors = nil
	f.pending = false
	f.mu.Unlock()

	f.logger.WithFields(map[string]interface{}{
		"city":    values.City,
		"country": values.Country,
	}).Info("Personal details submitted")

	return Acknowledgment{
		Message:     AckMessage,
		Record:      values,
		SubmittedAt: time.Now(),
	}, nil
}

func (f *PersonalInfoForm) Snapshot() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()

	view := FormView{
		Values:     f.values,
		Dirty:      !f.values.IsEmpty(),
		Submitting: f.pending,
	}
	if len(f.errors) > 0 {
		view.Errors = make(entities.FieldErrors, len(f.errors))
		for k, v := range f.errors {
			view.Errors[k] = v
		}
	}
	return view
}
