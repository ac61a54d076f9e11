package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/memorycare/memorycare/internal/domain/medication"
	"github.com/memorycare/memorycare/internal/platform/errs"
)

func TestMedicationService_Postgres(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	svc := medication.NewService(medication.NewMedicationRepoPG(pool), medication.NewLogRepoPG(pool))
	owner := createTestPatient(t, ctx, pool)

	zinc, err := svc.CreateMedication(ctx, owner.ID, medication.MedicationInput{Name: "Zinc", Dosage: "10mg", Frequency: "daily", Times: []string{"08:00"}})
	if err != nil {
		t.Fatalf("CreateMedication: %v", err)
	}
	aspirin, err := svc.CreateMedication(ctx, owner.ID, medication.MedicationInput{Name: "Aspirin", Dosage: "81mg", Frequency: "daily"})
	if err != nil {
		t.Fatalf("CreateMedication: %v", err)
	}

	t.Run("ListActiveByName", func(t *testing.T) {
		meds, err := svc.ListMedications(ctx, owner.ID)
		if err != nil {
			t.Fatalf("ListMedications: %v", err)
		}
		if len(meds) != 2 || meds[0].Name != "Aspirin" || meds[1].Times[0] != "08:00" {
			t.Errorf("unexpected medications %+v", meds)
		}
	})

	t.Run("SoftDelete", func(t *testing.T) {
		if err := svc.DeleteMedication(ctx, owner.ID, aspirin.ID); err != nil {
			t.Fatalf("DeleteMedication: %v", err)
		}
		meds, _ := svc.ListMedications(ctx, owner.ID)
		if len(meds) != 1 {
			t.Errorf("expected 1 active medication, got %d", len(meds))
		}
		got, err := svc.GetMedication(ctx, owner.ID, aspirin.ID)
		if err != nil || got.IsActive {
			t.Errorf("expected inactive medication, got %+v (%v)", got, err)
		}
	})

	t.Run("LogsByDay", func(t *testing.T) {
		day := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
		for _, at := range []time.Time{day.Add(3 * time.Hour), day, day.Add(24 * time.Hour)} {
			if _, err := svc.CreateLog(ctx, owner.ID, medication.LogInput{MedicationID: zinc.ID.String(), ScheduledTime: at}); err != nil {
				t.Fatalf("CreateLog: %v", err)
			}
		}
		f, err := svc.DayFilter("2024-06-01")
		if err != nil {
			t.Fatalf("DayFilter: %v", err)
		}
		logs, err := svc.ListLogs(ctx, owner.ID, f)
		if err != nil {
			t.Fatalf("ListLogs: %v", err)
		}
		if len(logs) != 2 || !logs[0].ScheduledTime.Equal(day) || logs[0].Status != medication.StatusPending {
			t.Errorf("unexpected logs %+v", logs)
		}
	})

	t.Run("LogForeignMedication", func(t *testing.T) {
		other := createTestPatient(t, ctx, pool)
		_, err := svc.CreateLog(ctx, other.ID, medication.LogInput{MedicationID: zinc.ID.String(), ScheduledTime: time.Now()})
		if !errors.Is(err, errs.ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})
}
