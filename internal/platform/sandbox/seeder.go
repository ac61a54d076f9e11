// Package sandbox loads the demo accounts and sample records used by
// development deployments and UI walkthroughs.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/memorycare/memorycare/internal/domain/contact"
	"github.com/memorycare/memorycare/internal/domain/identity"
	"github.com/memorycare/memorycare/internal/domain/journal"
	"github.com/memorycare/memorycare/internal/domain/medication"
	"github.com/memorycare/memorycare/internal/domain/routine"
	"github.com/memorycare/memorycare/internal/platform/auth"
	"github.com/memorycare/memorycare/internal/platform/errs"
)

// DemoPassword is shared by both demo accounts.
const DemoPassword = "demo"

const (
	DemoPatientUsername   = "patient"
	DemoCaregiverUsername = "caregiver"
)

// Services are the domain services the seeder writes through, so demo
// records pass the same validation as API input.
type Services struct {
	Identity    *identity.Service
	Journal     *journal.Service
	Routine     *routine.Service
	Medications *medication.Service
	Contacts    *contact.Service
}

// SeedResult summarizes a seed run.
type SeedResult struct {
	Skipped     bool          `json:"skipped"`
	Users       int           `json:"users"`
	Medications int           `json:"medications"`
	Tasks       int           `json:"tasks"`
	Contacts    int           `json:"contacts"`
	Memories    int           `json:"memories"`
	Links       int           `json:"links"`
	Duration    time.Duration `json:"duration"`
}

type Seeder struct {
	svc    Services
	logger zerolog.Logger
}

func NewSeeder(svc Services, logger zerolog.Logger) *Seeder {
	return &Seeder{svc: svc, logger: logger}
}

func strPtr(s string) *string { return &s }

// Seed creates the demo patient and caregiver with their sample data. It is
// a no-op when the demo patient already exists.
func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	start := time.Now()
	res := &SeedResult{}

	patient, err := s.svc.Identity.Register(ctx, identity.Registration{
		Username:  DemoPatientUsername,
		Password:  DemoPassword,
		Email:     "patient@demo.com",
		FirstName: "Sarah",
		LastName:  "Johnson",
		Role:      auth.RolePatient,
	})
	if errors.Is(err, errs.ErrConflict) {
		s.logger.Info().Msg("demo data already present, skipping seed")
		res.Skipped = true
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("seed patient: %w", err)
	}
	caregiver, err := s.svc.Identity.Register(ctx, identity.Registration{
		Username:  DemoCaregiverUsername,
		Password:  DemoPassword,
		Email:     "caregiver@demo.com",
		FirstName: "Michael",
		LastName:  "Smith",
		Role:      auth.RoleCaregiver,
	})
	if err != nil {
		return nil, fmt.Errorf("seed caregiver: %w", err)
	}
	res.Users = 2

	if _, err := s.svc.Identity.LinkPatient(ctx, caregiver.ID, patient.ID); err != nil {
		return nil, fmt.Errorf("seed caregiver link: %w", err)
	}
	res.Links = 1

	for _, in := range []medication.MedicationInput{
		{Name: "Vitamin D", Dosage: "1000 IU", Frequency: "daily", Times: []string{"09:00", "18:00"}, Notes: strPtr("Take with food")},
		{Name: "Blood Pressure", Dosage: "10mg", Frequency: "daily", Times: []string{"08:00"}, Notes: strPtr("Take in the morning")},
	} {
		if _, err := s.svc.Medications.CreateMedication(ctx, patient.ID, in); err != nil {
			return nil, fmt.Errorf("seed medication %q: %w", in.Name, err)
		}
		res.Medications++
	}

	for _, in := range []routine.TaskInput{
		{Title: "Morning Exercise", Description: strPtr("10 minute walk around the block"),
			Category: routine.CategoryExercise, ScheduledTime: strPtr("07:00")},
		{Title: "Call Family", Description: strPtr("Check in with daughter"),
			Category: routine.CategorySocial, ScheduledTime: strPtr("14:00"), IsCompleted: true},
	} {
		if _, err := s.svc.Routine.CreateTask(ctx, patient.ID, in); err != nil {
			return nil, fmt.Errorf("seed task %q: %w", in.Title, err)
		}
		res.Tasks++
	}

	for _, in := range []contact.Input{
		{Name: "Emily Johnson", Relationship: "Daughter", PhoneNumber: strPtr("(555) 123-4567"), IsEmergency: true},
		{Name: "Dr. Williams", Relationship: "Doctor", PhoneNumber: strPtr("(555) 987-6543"),
			Category: contact.CategoryMedical, IsEmergency: true},
	} {
		if _, err := s.svc.Contacts.Create(ctx, patient.ID, in); err != nil {
			return nil, fmt.Errorf("seed contact %q: %w", in.Name, err)
		}
		res.Contacts++
	}

	if _, err := s.svc.Journal.CreateMemory(ctx, patient.ID, journal.MemoryInput{
		Title:   "Beautiful Day at the Park",
		Content: strPtr("Had a wonderful walk in the park today. The flowers were blooming and I saw some ducks by the pond."),
	}); err != nil {
		return nil, fmt.Errorf("seed memory: %w", err)
	}
	res.Memories = 1

	res.Duration = time.Since(start)
	s.logger.Info().
		Str("patient_id", patient.ID.String()).
		Str("caregiver_id", caregiver.ID.String()).
		Dur("duration", res.Duration).
		Msg("demo data seeded")
	return res, nil
}
