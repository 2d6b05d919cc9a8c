package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ayursutra/wellness-portal/internal/application/services"
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

// DefaultKeyword is searched when the search box is blank
const DefaultKeyword = "panchakarma centre"

var (
	// ErrSubmissionInFlight is returned by Confirm while a booking is being submitted
	ErrSubmissionInFlight = errors.New("a booking is already being submitted")
	// ErrBookingIncomplete is returned by Confirm when no centre, patient, date or time is set
	ErrBookingIncomplete = errors.New("select a centre, date and time before confirming")
)

// BookingAPI is the subset of the Booking API the dashboard uses
type BookingAPI interface {
	GetPatient(ctx context.Context) (*entities.Patient, error)
	ListAppointments(ctx context.Context) ([]*entities.Appointment, error)
	BookAppointment(ctx context.Context, req services.BookingRequest) (*entities.Appointment, error)
}

// Options configures a Controller
type Options struct {
	DefaultKeyword string
	DefaultCenter  entities.LatLng
	// Location is the timezone booking date and time fields are read in. Defaults to time.Local.
	Location *time.Location
	// OnChange receives a copy of the state after every change.
	OnChange func(State)
}

// BookingForm holds the fields of an open booking form
type BookingForm struct {
	Centre entities.Centre
	Date   string
	Time   string
	Err    error
}

// State is what the dashboard renders
type State struct {
	Patient         *entities.Patient
	PatientErr      error
	Appointments    []*entities.Appointment
	AppointmentsErr error

	MapAvailable bool
	MapMessage   string
	Center       entities.LatLng
	Viewport     *entities.Bounds

	Searching    bool
	Centres      []entities.Centre
	SearchStatus providers.SearchStatus
	SearchErr    error
	Notice       string

	Form       *BookingForm
	Submitting bool
}

// Controller orchestrates the patient dashboard: profile and appointment loading,
// centre search and booking.
type Controller struct {
	api      BookingAPI
	searcher providers.CentreSearcher
	resolver providers.PositionResolver
	opts     Options

	mu        sync.Mutex
	state     State
	markers   *MarkerSet
	searchSeq uint64
	// confirmed holds appointments acknowledged by the server, newest first.
	confirmed []*entities.Appointment
}

// NewController creates a dashboard controller. markers may be nil.
func NewController(api BookingAPI, searcher providers.CentreSearcher, resolver providers.PositionResolver, markers MarkerLayer, opts Options) *Controller {
	if strings.TrimSpace(opts.DefaultKeyword) == "" {
		opts.DefaultKeyword = DefaultKeyword
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	capability := searcher.Capability()
	return &Controller{
		api:      api,
		searcher: searcher,
		resolver: resolver,
		opts:     opts,
		markers:  NewMarkerSet(markers),
		state: State{
			Appointments: []*entities.Appointment{},
			Centres:      []entities.Centre{},
			Center:       opts.DefaultCenter,
			MapAvailable: capability.Available,
			MapMessage:   capability.Message,
		},
	}
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// update applies fn under the lock and publishes the new state when fn reports a change
func (c *Controller) update(fn func(s *State) bool) {
	c.mu.Lock()
	changed := fn(&c.state)
	var snapshot State
	if changed {
		snapshot = c.state.clone()
	}
	c.mu.Unlock()

	if changed && c.opts.OnChange != nil {
		c.opts.OnChange(snapshot)
	}
}

// Activate loads the patient and the appointment list concurrently. Each result is
// applied as soon as it arrives. The returned channel is closed once both have settled.
func (c *Controller) Activate(ctx context.Context) <-chan struct{} {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		patient, err := c.api.GetPatient(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load patient")
		}
		c.update(func(s *State) bool {
			s.Patient, s.PatientErr = patient, err
			return true
		})
	}()

	go func() {
		defer wg.Done()
		appointments, err := c.api.ListAppointments(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load appointments")
		}
		c.update(func(s *State) bool {
			s.AppointmentsErr = err
			if err == nil {
				s.Appointments = mergeConfirmed(c.confirmed, appointments)
			}
			return true
		})
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

// SetViewport records the visible map region used to bias keyword searches
func (c *Controller) SetViewport(bounds *entities.Bounds) {
	c.update(func(s *State) bool {
		s.Viewport = bounds
		if bounds != nil {
			s.Center = bounds.Center()
		}
		return true
	})
}

// Search runs a keyword search biased to the current viewport. A blank keyword
// searches the default term. Results of superseded searches are discarded.
func (c *Controller) Search(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		keyword = c.opts.DefaultKeyword
	}

	var seq uint64
	var bias *entities.Bounds
	c.update(func(s *State) bool {
		c.searchSeq++
		seq = c.searchSeq
		bias = s.Viewport
		s.Searching = true
		s.Notice = ""
		return true
	})

	centres, err := c.searcher.SearchByKeyword(ctx, keyword, bias)
	c.applySearch(seq, centres, err)
	return err
}

// SearchNearMe centres the map on the current position and searches around it.
// When the position cannot be resolved only a notice is shown; a search already
// in flight still applies its results. A search started while the position is
// being resolved supersedes this one.
func (c *Controller) SearchNearMe(ctx context.Context) error {
	c.mu.Lock()
	startSeq := c.searchSeq
	c.mu.Unlock()

	pos, err := c.resolver.ResolveCurrentPosition(ctx)
	if err != nil {
		c.update(func(s *State) bool {
			if startSeq != c.searchSeq {
				return false
			}
			s.Notice = "Your location is unavailable. Search by keyword instead."
			return true
		})
		return err
	}

	var seq uint64
	c.update(func(s *State) bool {
		if startSeq != c.searchSeq {
			return false
		}
		c.searchSeq++
		seq = c.searchSeq
		s.Center = pos
		s.Viewport = nil
		s.Searching = true
		s.Notice = ""
		return true
	})
	if seq == 0 {
		return nil
	}

	centres, err := c.searcher.SearchNearby(ctx, pos)
	c.applySearch(seq, centres, err)
	return err
}

func (c *Controller) applySearch(seq uint64, centres []entities.Centre, err error) {
	c.update(func(s *State) bool {
		if seq != c.searchSeq {
			return false
		}
		s.Searching = false
		s.SearchErr = err
		if centres == nil {
			centres = []entities.Centre{}
		}

		switch {
		case err != nil:
			s.Centres = []entities.Centre{}
			s.SearchStatus = providers.SearchStatusFailed
			s.Notice = searchNotice(err)
		case len(centres) == 0:
			s.Centres = centres
			s.SearchStatus = providers.SearchStatusZeroResults
		default:
			s.Centres = centres
			s.SearchStatus = providers.SearchStatusOK
		}
		c.markers.Replace(s.Centres)
		return true
	})
}

func searchNotice(err error) string {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeProviderMisconfigured:
		return "Centre search is not configured. Set GOOGLE_MAPS_API_KEY and enable billing to use Google Maps."
	case apperrors.ErrorTypeProviderTimeout:
		return "Centre search took too long. Please try again."
	default:
		return "Centre search is unavailable right now. Please try again."
	}
}

// SelectCentre opens the booking form for centre
func (c *Controller) SelectCentre(centre entities.Centre) {
	c.update(func(s *State) bool {
		s.Form = &BookingForm{Centre: centre.Snapshot()}
		return true
	})
}

// CloseForm discards the booking form
func (c *Controller) CloseForm() {
	c.update(func(s *State) bool {
		if s.Form == nil || s.Submitting {
			return false
		}
		s.Form = nil
		return true
	})
}

// SetDate sets the form's date field ("2006-01-02")
func (c *Controller) SetDate(date string) {
	c.update(func(s *State) bool {
		if s.Form == nil {
			return false
		}
		s.Form.Date = strings.TrimSpace(date)
		return true
	})
}

// SetTime sets the form's time field ("15:04")
func (c *Controller) SetTime(clock string) {
	c.update(func(s *State) bool {
		if s.Form == nil {
			return false
		}
		s.Form.Time = strings.TrimSpace(clock)
		return true
	})
}

// CanConfirm reports whether the confirm action is enabled
func (c *Controller) CanConfirm() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.canConfirm()
}

func (s *State) canConfirm() bool {
	return s.Form != nil && s.Patient != nil && !s.Submitting &&
		s.Form.Date != "" && s.Form.Time != ""
}

// Confirm books the selected centre at the form's date and time. The returned
// appointment is prepended to the list only after the server accepts it.
func (c *Controller) Confirm(ctx context.Context) (*entities.Appointment, error) {
	var req services.BookingRequest
	var blocked error
	c.update(func(s *State) bool {
		switch {
		case s.Submitting:
			blocked = ErrSubmissionInFlight
			return false
		case !s.canConfirm():
			blocked = ErrBookingIncomplete
			return false
		}

		slot, err := SlotFromForm(s.Form.Date, s.Form.Time, c.opts.Location)
		if err != nil {
			blocked = apperrors.NewInvalidTimestampError(s.Form.Date+" "+s.Form.Time, err)
			s.Form.Err = blocked
			return true
		}

		centre := s.Form.Centre.Snapshot()
		req = services.BookingRequest{Centre: &centre, PatientID: s.Patient.ID, SlotISO: slot}
		s.Submitting = true
		s.Form.Err = nil
		return true
	})
	if blocked != nil {
		return nil, blocked
	}

	appointment, err := c.api.BookAppointment(ctx, req)

	c.update(func(s *State) bool {
		s.Submitting = false
		if err != nil {
			if s.Form != nil {
				s.Form.Err = err
			}
			return true
		}
		c.confirmed = append([]*entities.Appointment{appointment.Clone()}, c.confirmed...)
		s.Appointments = mergeConfirmed([]*entities.Appointment{appointment}, s.Appointments)
		s.Form = nil
		return true
	})
	if err != nil {
		log.Warn().Err(err).Msg("booking failed")
		return nil, err
	}
	return appointment, nil
}

// mergeConfirmed prepends every confirmed appointment missing from loaded
func mergeConfirmed(confirmed, loaded []*entities.Appointment) []*entities.Appointment {
	seen := make(map[string]struct{}, len(loaded))
	for _, a := range loaded {
		seen[a.ID] = struct{}{}
	}
	out := make([]*entities.Appointment, 0, len(confirmed)+len(loaded))
	for _, a := range confirmed {
		if _, ok := seen[a.ID]; !ok {
			out = append(out, a.Clone())
		}
	}
	return append(out, loaded...)
}

func (s State) clone() State {
	out := s
	if s.Patient != nil {
		patient := *s.Patient
		out.Patient = &patient
	}
	out.Appointments = make([]*entities.Appointment, len(s.Appointments))
	for i, a := range s.Appointments {
		out.Appointments[i] = a.Clone()
	}
	out.Centres = make([]entities.Centre, len(s.Centres))
	for i, centre := range s.Centres {
		out.Centres[i] = centre.Snapshot()
	}
	if s.Viewport != nil {
		viewport := *s.Viewport
		out.Viewport = &viewport
	}
	if s.Form != nil {
		form := *s.Form
		form.Centre = s.Form.Centre.Snapshot()
		out.Form = &form
	}
	return out
}
