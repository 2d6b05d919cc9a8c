package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ayursutra/wellness-portal/internal/dashboard"
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/infrastructure/observability"
)

// textLayer prints markers instead of drawing them on a map.
type textLayer struct{}

type textMarker struct {
	name string
}

func (textLayer) AddMarker(centre entities.Centre) dashboard.Marker {
	fmt.Printf("  [marker] %s (%.4f, %.4f)\n", centre.Name, centre.Location.Lat, centre.Location.Lng)
	return textMarker{name: centre.Name}
}

func (m textMarker) Remove() {}

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Booking API base URL")
	keyword := flag.String("keyword", "", "centre search keyword (blank uses the default)")
	nearMe := flag.Bool("near-me", false, "search around the current position instead of by keyword")
	book := flag.Int("book", 0, "1-based index of the centre to book (0 skips booking)")
	date := flag.String("date", "", "booking date, YYYY-MM-DD")
	clock := flag.String("time", "", "booking time, HH:MM")
	tz := flag.String("tz", "Asia/Kolkata", "timezone the booking date and time are read in")
	timeout := flag.Duration("timeout", 15*time.Second, "request timeout")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	observability.InitLogger("wellness-dashboard", "development", *logLevel)

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		log.Fatal().Err(err).Str("tz", *tz).Msg("unknown timezone")
	}

	ctx := context.Background()
	client := dashboard.NewAPIClient(*apiURL, *timeout, nil)

	server, err := client.Capability(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch search capability")
	}

	searcher := dashboard.NewRemoteCentreSearcher(ctx, client)
	ctrl := dashboard.NewController(client, searcher, dashboard.NewRemotePositionResolver(client), textLayer{}, dashboard.Options{
		DefaultKeyword: server.DefaultKeyword,
		DefaultCenter:  server.DefaultCenter,
		Location:       loc,
	})

	<-ctrl.Activate(ctx)
	printProfile(ctrl.State(), loc)

	state := ctrl.State()
	if !state.MapAvailable {
		fmt.Printf("\nMap unavailable: %s\n", state.MapMessage)
	}

	fmt.Println("\nCentres:")
	if *nearMe {
		err = ctrl.SearchNearMe(ctx)
	} else {
		err = ctrl.Search(ctx, *keyword)
	}
	if err != nil {
		log.Debug().Err(err).Msg("search failed")
	}
	state = ctrl.State()
	if state.Notice != "" {
		fmt.Printf("  %s\n", state.Notice)
	}
	for i, centre := range state.Centres {
		fmt.Printf("  %d. %s, %s\n", i+1, centre.Name, centre.Address)
	}

	if *book <= 0 {
		return
	}
	if *book > len(state.Centres) {
		fmt.Fprintf(os.Stderr, "no centre %d in the results\n", *book)
		os.Exit(1)
	}

	ctrl.SelectCentre(state.Centres[*book-1])
	ctrl.SetDate(*date)
	ctrl.SetTime(*clock)

	appt, err := ctrl.Confirm(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "booking failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nBooked %s at %s (%s)\n", appt.Centre.Name, dashboard.DisplaySlot(appt.SlotISO, loc), appt.ID)
	printProfile(ctrl.State(), loc)
}

func printProfile(state dashboard.State, loc *time.Location) {
	switch {
	case state.PatientErr != nil:
		fmt.Printf("Patient: unavailable (%v)\n", state.PatientErr)
	case state.Patient != nil:
		p := state.Patient
		fmt.Printf("Patient: %s (%s)\n  Email: %s\n  Phone: %s\n  Blood group: %s\n  Conditions: %v\n  Allergies: %v\n  Medications: %v\n",
			p.FullName(), p.DOB, p.Email, p.Phone, p.Medical.BloodGroup, p.Medical.Conditions, p.Medical.Allergies, p.Medical.Medications)
	}

	if state.AppointmentsErr != nil {
		fmt.Printf("Appointments: unavailable (%v)\n", state.AppointmentsErr)
		return
	}
	fmt.Printf("Appointments (%d):\n", len(state.Appointments))
	for _, appt := range state.Appointments {
		fmt.Printf("  %s at %s\n", appt.Centre.Name, dashboard.DisplaySlot(appt.SlotISO, loc))
	}
}
