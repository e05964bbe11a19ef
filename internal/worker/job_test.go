package worker

import (
	"database/sql"
	"testing"

	"github.com/kerbscan/kerbscan-backend/internal/analysis"
	"github.com/kerbscan/kerbscan-backend/internal/db"
)

func TestVehicleLabel(t *testing.T) {
	tests := []struct {
		name string
		scan db.Scan
		want string
	}{
		{
			name: "full vehicle",
			scan: db.Scan{
				VehicleYear:  sql.NullInt16{Int16: 2018, Valid: true},
				VehicleMake:  sql.NullString{String: "Toyota", Valid: true},
				VehicleModel: sql.NullString{String: "Corolla", Valid: true},
			},
			want: "2018 Toyota Corolla",
		},
		{
			name: "make only",
			scan: db.Scan{
				VehicleMake: sql.NullString{String: "Mazda", Valid: true},
			},
			want: "Mazda",
		},
		{
			name: "nothing entered",
			scan: db.Scan{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vehicleLabel(tt.scan); got != tt.want {
				t.Errorf("vehicleLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVehicleFacts_ForwardsRiskLabelsOnly(t *testing.T) {
	scan := db.Scan{
		VehicleMake:    sql.NullString{String: "Toyota", Valid: true},
		VehicleModel:   sql.NullString{String: "Corolla", Valid: true},
		VehicleYear:    sql.NullInt16{Int16: 2018, Valid: true},
		OdometerKm:     sql.NullInt32{Int32: 85000, Valid: true},
		AskingPriceAud: sql.NullInt64{Int64: 18990, Valid: true},
	}
	result := analysis.Result{
		Verdict: analysis.VerdictCaution,
		Risks: []analysis.RiskItem{
			{ID: "tyre-wear", Label: "Tyres", Explanation: "outer edge badly worn", Severity: analysis.RiskModerate},
		},
	}

	facts := vehicleFacts(scan, result)

	if facts.Make != "Toyota" || facts.Model != "Corolla" {
		t.Errorf("make/model: got %q %q", facts.Make, facts.Model)
	}
	if facts.Year != 2018 {
		t.Errorf("year: got %d", facts.Year)
	}
	if facts.OdometerKm != 85000 {
		t.Errorf("odometer: got %d", facts.OdometerKm)
	}
	if facts.AskingPriceAud != 18990 {
		t.Errorf("asking price: got %d", facts.AskingPriceAud)
	}
	if facts.Verdict != "caution" {
		t.Errorf("verdict: got %q", facts.Verdict)
	}
	if len(facts.Findings) != 1 || facts.Findings[0] != "Tyres" {
		t.Errorf("findings should hold the risk label only, got %v", facts.Findings)
	}
}

func TestVehicleFacts_UnsetFieldsStayZero(t *testing.T) {
	facts := vehicleFacts(db.Scan{}, analysis.Result{Verdict: analysis.VerdictWalkAway})

	if facts.Year != 0 || facts.OdometerKm != 0 || facts.AskingPriceAud != 0 {
		t.Errorf("expected zero values for unset scan fields, got %+v", facts)
	}
	if facts.Verdict != "walk-away" {
		t.Errorf("verdict: got %q", facts.Verdict)
	}
	if len(facts.Findings) != 0 {
		t.Errorf("expected no findings, got %v", facts.Findings)
	}
}
