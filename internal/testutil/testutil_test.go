package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/HerbHall/comparenet/pkg/models"
)

func TestLogger_NotNil(t *testing.T) {
	l := Logger(t)
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	l.Debug("logger routed through t.Log")
}

func TestNewStore_Usable(t *testing.T) {
	db := NewStore(t)
	if db == nil {
		t.Fatal("expected non-nil store")
	}
	if err := db.DB().PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
}

func TestClock_AdvanceAndSet(t *testing.T) {
	c := NewClock()
	start := c.Now()
	if start.Year() != 2026 {
		t.Errorf("default year = %d, want 2026", start.Year())
	}

	c.Advance(90 * time.Second)
	if got := c.Now().Sub(start); got != 90*time.Second {
		t.Errorf("after Advance elapsed = %v, want 90s", got)
	}
	if got := c.Elapsed(); got != 90*time.Second {
		t.Errorf("Elapsed() = %v, want 90s", got)
	}

	fixed := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	c.Set(fixed)
	if !c.Now().Equal(fixed) {
		t.Errorf("Now() = %v, want %v", c.Now(), fixed)
	}
	if c.Elapsed() != 0 {
		t.Errorf("Elapsed() after Set = %v, want 0", c.Elapsed())
	}
}

func TestNewPlan_Defaults(t *testing.T) {
	a, b := NewPlan(), NewPlan()
	if a.ID == b.ID {
		t.Errorf("expected distinct IDs, both %d", a.ID)
	}
	if !a.Unlimited() {
		t.Errorf("Data = %q, want unlimited", a.Data)
	}
	if a.ConnectionType != models.ConnectionFibre {
		t.Errorf("ConnectionType = %q, want fibre", a.ConnectionType)
	}
}

func TestNewPlan_WithOptions(t *testing.T) {
	p := NewPlan(
		WithID(7),
		WithPrice(99),
		WithSpeed(900, 500),
		WithPerks("Free IPTV"),
		WithData("200GB"),
	)
	if p.ID != 7 || p.Price != 99 || p.SpeedDown != 900 || p.SpeedUp != 500 {
		t.Errorf("unexpected plan %+v", p)
	}
	if !p.HasTVBundle() {
		t.Error("expected TV bundle from perks")
	}
	if p.Unlimited() {
		t.Error("200GB plan reported unlimited")
	}
}

func TestPlansWithPrices(t *testing.T) {
	plans := PlansWithPrices(59, 69, 79)
	ids := PlanIDs(plans)
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Errorf("IDs = %v, want [1 2 3]", ids)
	}
	if plans[1].Price != 69 {
		t.Errorf("plans[1].Price = %v, want 69", plans[1].Price)
	}
}

func TestNewProvider_Override(t *testing.T) {
	p := NewProvider(func(p *models.Provider) { p.Name = "FastNet NZ" })
	if p.Slug() != "fastnet-nz" {
		t.Errorf("Slug() = %q, want fastnet-nz", p.Slug())
	}
}
