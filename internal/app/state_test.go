package app

import (
	"errors"
	"testing"
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if !s.Loading.Initial {
		t.Error("Initial loading should be true")
	}
	if s.CatalogReady() {
		t.Error("new state should have no catalog")
	}
	if len(s.GetProducts()) != 0 {
		t.Error("Products should be empty")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading(ResourceForecast, true)
	if !s.IsLoading(ResourceForecast) || !s.AnyLoading() {
		t.Error("forecast should be loading")
	}

	s.SetLoading(ResourceForecast, false)
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading(ResourceInitial, false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}
	if r := s.GetLoadingResources(); len(r) != 0 {
		t.Errorf("GetLoadingResources should be empty, got %v", r)
	}

	s.SetLoading(ResourceExport, true)
	if r := s.GetLoadingResources(); len(r) != 1 || r[0] != ResourceExport {
		t.Errorf("GetLoadingResources = %v, want [export]", r)
	}
	if s.IsLoading("unknown") {
		t.Error("unknown resource should never be loading")
	}
}

func TestState_Catalog(t *testing.T) {
	s := NewState()

	info := catalog.Info{Path: "m.db", Products: 2}
	s.SetCatalog(&info, []string{"a", "b"}, nil)
	if !s.CatalogReady() || s.GetCatalogInfo().Path != "m.db" {
		t.Error("catalog info not stored")
	}

	products := s.GetProducts()
	products[0] = "mutated"
	if s.GetProducts()[0] != "a" {
		t.Error("GetProducts should return a copy")
	}

	loadErr := errors.New("boom")
	s.SetCatalog(nil, nil, loadErr)
	if s.CatalogReady() || !errors.Is(s.GetLoadError(), loadErr) {
		t.Error("load failure not stored")
	}
}

func TestState_ForecastResult(t *testing.T) {
	s := NewState()

	s.SetSelectedProduct("Gula")
	if s.GetSelectedProduct() != "Gula" {
		t.Error("selected product not stored")
	}

	err := errors.New("failed")
	s.SetForecastError(err)
	if s.GetResult() != nil || !errors.Is(s.GetForecastError(), err) {
		t.Error("forecast error not stored")
	}

	res := &forecast.Result{}
	s.SetResult(res)
	if s.GetResult() != res || s.GetForecastError() != nil {
		t.Error("result should replace the error")
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}

	s.SetHistory(&HistoryView{Product: "Gula"}, nil)
	if h, err := s.GetHistory(); err != nil || h.Product != "Gula" {
		t.Errorf("GetHistory = %+v, %v", h, err)
	}

	s.SetLastExport("/tmp/x.csv")
	if s.GetLastExport() != "/tmp/x.csv" {
		t.Error("last export not stored")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationSuccess, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}
	if n := s.GetNotifications(); len(n) != 1 || n[0].Message != "test" {
		t.Fatalf("GetNotifications = %+v", n)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("notification should be removed")
	}

	for range maxNotifications + 5 {
		s.AddNotification(NotificationInfo, "spam", time.Minute)
	}
	if n := len(s.GetNotifications()); n != maxNotifications {
		t.Errorf("notifications = %d, want %d", n, maxNotifications)
	}

	s.ClearAllNotifications()
	s.AddNotification(NotificationInfo, "expired", time.Nanosecond)
	time.Sleep(time.Millisecond)
	s.ClearExpiredNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("expired notification should be cleared")
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading...")
	s.SetLoadingNotification("Still loading...")
	n := s.GetNotifications()
	if len(n) != 1 || n[0].Message != "Still loading..." || n[0].Type != NotificationLoading {
		t.Fatalf("loading notification = %+v", n)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		typ  NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
