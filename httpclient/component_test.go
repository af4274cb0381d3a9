package httpclient

import (
	"context"
	"testing"

	"github.com/kbukum/httptargets/component"
)

func TestComponent_Lifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := NewComponent(Config{
		Targets: map[string]TargetConfig{"t1": {URL: srv.URL + "/get"}},
	})
	ctx := context.Background()

	if c.Name() != ComponentName {
		t.Errorf("expected %s, got %s", ComponentName, c.Name())
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	target, err := c.Targets().NewTarget("t1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := target.Get(ctx); err != nil {
		t.Fatal(err)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if _, err := c.Targets().NewTarget("t1"); !IsClientBuild(err) {
		t.Errorf("expected closed error after stop, got %v", err)
	}
}

func TestComponent_StartInvalidConfig(t *testing.T) {
	c := NewComponent(Config{Targets: map[string]TargetConfig{"t": {}}})
	if err := c.Start(context.Background()); !IsInvalidConfig(err) {
		t.Fatalf("expected invalid config error, got %v", err)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop() on unstarted component: %v", err)
	}
}

func TestComponent_Describe(t *testing.T) {
	c := NewComponent(Config{
		Auth:    map[string]AuthConfig{"a": {"type": "bearer", "token": "x"}},
		Targets: map[string]TargetConfig{"t1": {URL: "http://a"}, "t2": {URL: "http://b"}},
	})
	d := c.Describe()
	if d.Type != "http-targets" {
		t.Errorf("expected http-targets, got %s", d.Type)
	}
	if d.Details != "targets=2 auth=1 trust_stores=0" {
		t.Errorf("unexpected details %q", d.Details)
	}
}

func TestComponent_Registry(t *testing.T) {
	reg := component.NewRegistry()
	c := NewComponent(Config{})
	if err := reg.Register(c); err != nil {
		t.Fatal(err)
	}
	if err := reg.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if reg.Get(ComponentName) != c {
		t.Error("expected component to be registered by name")
	}
	if err := reg.StopAll(context.Background()); err != nil {
		t.Fatal(err)
	}
}
